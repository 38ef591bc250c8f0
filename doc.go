// Package dqb provides a fluent builder for SQL SELECT statements that are
// validated against database table metadata.
//
// # Overview
//
// A Builder collects the clauses of a SELECT statement through chained
// calls (table, columns, joins, filters, grouping, ordering and limit) and
// renders them either on a single line or formatted with one clause per
// line. Before rendering, the table is checked against the TableMetadata
// the builder was created with, so statements can only be generated for
// tables that exist.
//
// Key features include:
//   - Typed operators for joins, comparisons, IN lists, NULL checks, ranges
//     and pattern matching, plus a raw operator escape hatch
//   - AND and OR filter chains
//   - Compact and formatted rendering
//   - Declarative query definitions read from JSON or YAML
//   - Table metadata read from PostgreSQL, MySQL, SQLite or DuckDB (see
//     package catalog)
//
// # Basic Usage
//
//	tables := dqb.TableMetadata{
//		"EMPLOYEES":   {"ID", "NAME", "AGE", "CITY", "DEPARTMENT_ID"},
//		"DEPARTMENTS": {"ID", "DEPT_NAME"},
//	}
//
//	sql, err := dqb.New(tables).
//		FromTable("employees").
//		Columns("EMPLOYEES.NAME", "DEPARTMENTS.DEPT_NAME").
//		Join(dqb.InnerJoin, "DEPARTMENTS", "EMPLOYEES.DEPARTMENT_ID = DEPARTMENTS.ID").
//		FilterByComparison("AGE", dqb.GreaterThan, "30").
//		OrFilterByNull("CITY", dqb.IsNull).
//		OrderByDirection("EMPLOYEES.NAME", dqb.Asc).
//		SetLimit(10).
//		GenerateSQL()
//	// SELECT EMPLOYEES.NAME, DEPARTMENTS.DEPT_NAME FROM EMPLOYEES INNER JOIN DEPARTMENTS
//	// ON EMPLOYEES.DEPARTMENT_ID = DEPARTMENTS.ID WHERE AGE > 30 OR CITY IS NULL
//	// ORDER BY EMPLOYEES.NAME ASC LIMIT 10
//
// Table names are upper-cased, so FromTable("employees") and
// FromTable("EMPLOYEES") are the same table.
//
// Values are written into the statement as given. The builder does not
// quote, escape or parameterize anything: string literals must be quoted by
// the caller ("'Sales'") and untrusted input must never reach it.
//
// # Metadata
//
// Metadata can be given when the builder is created or later with Setup:
//
//	b := dqb.NewSetup(logger.StandardLogger)
//	b.Setup(tables).FromTable("departments")
//
// Rendering returns ErrNotConfigured when no table was set, when no
// metadata was supplied, or when the table is not in the metadata.
//
// # Operators
//
// Typed filter methods exist for each operator category:
//
//	b.FilterByComparison("AGE", dqb.GreaterOrEqual, "18")
//	b.FilterByInclusion("DEPARTMENT", dqb.In, "'Sales'", "'Marketing'")
//	b.FilterByNull("CITY", dqb.IsNotNull)
//	b.FilterByRange("AGE", dqb.Between, "25", "35")
//	b.FilterByString("NAME", dqb.Like, "'A%'")
//	b.FilterBy("AGE", "!=", "40") // raw operator, used as is
//
// Each has an OrFilterBy counterpart. Passing a value outside a category's
// constants, for example dqb.JoinOperator(99), panics immediately with an
// *UnsupportedOperatorError. Wrap the calls in Try to get it as an error:
//
//	err := b.Try(func(b *dqb.Builder) {
//		b.Join(kind, "DEPARTMENTS", "EMPLOYEES.DEPARTMENT_ID = DEPARTMENTS.ID")
//	})
//	if errors.Is(err, dqb.ErrUnsupportedOperator) {
//		// ...
//	}
//
// # Limit
//
// GenerateSQL omits LIMIT when the limit is 0. GenerateFormattedSQL renders
// "LIMIT 0" when SetLimit(0) was called and omits LIMIT only when SetLimit
// was never called.
package dqb
