package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/gopsql/db"
	"github.com/gopsql/logger"
)

var ErrNoConnection = errors.New("no connection")

// The embedded SQLite and DuckDB drivers reject read-only transactions.
var readOnlyTransactions = map[Driver]bool{
	PostgreSQL: true,
	MySQL:      true,
}

// Reader reads the catalog of a connected database.
type Reader struct {
	connection db.DB
	driver     Driver
	logger     logger.Logger
}

// NewReader creates a catalog reader for a connection. Options can be a
// logger.Logger, which logs the catalog query at debug level.
func NewReader(conn db.DB, driver Driver, options ...interface{}) *Reader {
	r := &Reader{
		connection: conn,
		driver:     driver,
	}
	for _, option := range options {
		switch o := option.(type) {
		case logger.Logger:
			r.logger = o
		}
	}
	return r
}

// Driver returns the driver the reader was created for.
func (r *Reader) Driver() Driver {
	return r.driver
}

// Read runs the catalog query of the driver in a transaction, read-only
// where the driver supports it, and returns its rows grouped by schema and
// table. The transaction is always rolled back.
func (r *Reader) Read(ctx context.Context) (Schemas, error) {
	query, err := MetadataQuery(r.driver)
	if err != nil {
		return nil, err
	}
	if r.connection == nil {
		return nil, ErrNoConnection
	}
	tx, err := r.connection.BeginTx(ctx, "", readOnlyTransactions[r.driver])
	if err != nil {
		return nil, fmt.Errorf("begin catalog transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	r.log(query)
	rows, err := tx.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query %s catalog: %w", r.driver, err)
	}
	defer rows.Close()

	schemas := Schemas{}
	for rows.Next() {
		var schema, table string
		var column Column
		var primaryKey, relatedSchema, relatedTable, relatedColumn sql.NullString
		if err := rows.Scan(&schema, &table, &column.Name, &column.Type,
			&primaryKey, &relatedSchema, &relatedTable, &relatedColumn); err != nil {
			return nil, fmt.Errorf("scan %s catalog: %w", r.driver, err)
		}
		column.PrimaryKey = primaryKey.String
		column.RelatedSchema = relatedSchema.String
		column.RelatedTable = relatedTable.String
		column.RelatedColumn = relatedColumn.String
		schemas.add(schema, table, column)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read %s catalog: %w", r.driver, err)
	}
	return schemas, nil
}

// ReadDatabase opens the database, reads its catalog and closes it.
func ReadDatabase(ctx context.Context, driver Driver, connectionString string, options ...interface{}) (Schemas, error) {
	if _, err := MetadataQuery(driver); err != nil {
		return nil, err
	}
	conn, err := Open(driver, connectionString)
	if err != nil {
		return nil, err
	}
	defer conn.Close()
	return NewReader(conn, driver, options...).Read(ctx)
}

func (r *Reader) log(args ...interface{}) {
	if r.logger == nil {
		return
	}
	r.logger.Debug(args...)
}
