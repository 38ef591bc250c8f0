package dqb

import (
	"strconv"
	"strings"
)

// MustGenerateSQL is like GenerateSQL but panics if the builder is not
// configured.
func (b *Builder) MustGenerateSQL() string {
	sql, err := b.GenerateSQL()
	if err != nil {
		panic(err)
	}
	return sql
}

// GenerateSQL renders the statement on a single line:
//
//	SELECT ID, NAME FROM EMPLOYEES INNER JOIN DEPARTMENTS ON ... WHERE AGE > 30 OR CITY IS NULL LIMIT 10
//
// ErrNotConfigured is returned if FromTable() was not called or the table is
// not in the metadata. A limit of 0 is omitted.
func (b *Builder) GenerateSQL() (string, error) {
	if err := b.validate(); err != nil {
		return "", err
	}
	sql := "SELECT " + b.selectList() + " FROM " + b.table
	if len(b.joins) > 0 {
		sql += " " + strings.Join(b.joins, " ")
	}
	sql += filtersToStr(b.filters, " WHERE ", " ")
	if len(b.groups) > 0 {
		sql += " GROUP BY " + strings.Join(b.groups, ", ")
	}
	if len(b.orders) > 0 {
		sql += " ORDER BY " + strings.Join(b.orders, ", ")
	}
	if b.hasLimit && b.limit != 0 {
		sql += " LIMIT " + strconv.Itoa(b.limit)
	}
	b.log(sql)
	return sql, nil
}

// MustGenerateFormattedSQL is like GenerateFormattedSQL but panics if the
// builder is not configured.
func (b *Builder) MustGenerateFormattedSQL() string {
	sql, err := b.GenerateFormattedSQL()
	if err != nil {
		panic(err)
	}
	return sql
}

// GenerateFormattedSQL renders the statement with one clause per line.
// Joins and every filter after the first are indented by two spaces:
//
//	SELECT ID, NAME
//	FROM EMPLOYEES
//	  INNER JOIN DEPARTMENTS ON EMPLOYEES.DEPARTMENT_ID = DEPARTMENTS.ID
//	WHERE AGE > 30
//	  OR CITY IS NULL
//	LIMIT 10
//
// Unlike GenerateSQL, a limit explicitly set to 0 is rendered as "LIMIT 0".
func (b *Builder) GenerateFormattedSQL() (string, error) {
	if err := b.validate(); err != nil {
		return "", err
	}
	sql := "SELECT " + b.selectList() + "\nFROM " + b.table
	if len(b.joins) > 0 {
		sql += "\n  " + strings.Join(b.joins, "\n  ")
	}
	sql += filtersToStr(b.filters, "\nWHERE ", "\n  ")
	if len(b.groups) > 0 {
		sql += "\nGROUP BY " + strings.Join(b.groups, ", ")
	}
	if len(b.orders) > 0 {
		sql += "\nORDER BY " + strings.Join(b.orders, ", ")
	}
	if b.hasLimit {
		sql += "\nLIMIT " + strconv.Itoa(b.limit)
	}
	b.log(sql)
	return sql, nil
}

// String returns the single line statement, or an empty string if the
// builder is not configured.
func (b *Builder) String() string {
	sql, _ := b.GenerateSQL()
	return sql
}

func (b *Builder) validate() error {
	if b.table == "" {
		return ErrNotConfigured
	}
	if _, ok := b.tables[b.table]; !ok {
		return ErrNotConfigured
	}
	return nil
}

func (b *Builder) selectList() string {
	if len(b.columns) == 0 {
		return "*"
	}
	return strings.Join(b.columns, ", ")
}

// The first condition follows prefix directly, each later one follows
// separator and its own join operator.
func filtersToStr(filters []FilterClause, prefix, separator string) (out string) {
	for i, filter := range filters {
		if i > 0 {
			out += separator + filter.JoinOperator.String() + " "
		}
		out += filter.Condition
	}
	if out != "" {
		out = prefix + out
	}
	return
}
