// Package catalog reads table metadata from a database catalog.
//
// A Reader runs a driver specific catalog query over a db.DB connection and
// groups the rows into Schemas (schema -> table -> columns). Schemas can be
// saved as JSON snapshots and flattened into the dqb.TableMetadata a
// builder validates tables against:
//
//	schemas, err := catalog.ReadDatabase(ctx, catalog.PostgreSQL, "postgres://localhost:5432/hr")
//	if err != nil {
//		return err
//	}
//	b := dqb.New(schemas.TableMetadata())
//
// PostgreSQL connections use github.com/gopsql/pgx. MySQL, SQLite and
// DuckDB connections go through database/sql wrapped by
// github.com/gopsql/standard. Other drivers can be added with Register.
package catalog
