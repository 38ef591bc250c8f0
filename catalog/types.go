package catalog

import (
	"sort"
	"strings"

	"github.com/gopsql/dqb"
)

type (
	// Column describes one column of a table. PrimaryKey holds the key
	// marker reported by the catalog ("PRI" for primary key columns). The
	// Related fields name the column a foreign key points to and are empty
	// for other columns.
	Column struct {
		Name          string `json:"column" yaml:"column"`
		Type          string `json:"type" yaml:"type"`
		PrimaryKey    string `json:"primary_key,omitempty" yaml:"primary_key,omitempty"`
		RelatedSchema string `json:"related_schema,omitempty" yaml:"related_schema,omitempty"`
		RelatedTable  string `json:"related_table,omitempty" yaml:"related_table,omitempty"`
		RelatedColumn string `json:"related_column,omitempty" yaml:"related_column,omitempty"`
	}

	// Schemas maps schema name to table name to the columns of the table,
	// in catalog order.
	Schemas map[string]map[string][]Column
)

// IsPrimaryKey reports whether the column is part of the primary key.
func (c Column) IsPrimaryKey() bool {
	return c.PrimaryKey == "PRI"
}

// IsForeignKey reports whether the column references another table.
func (c Column) IsForeignKey() bool {
	return c.RelatedTable != ""
}

func (s Schemas) add(schema, table string, column Column) {
	tables, ok := s[schema]
	if !ok {
		tables = map[string][]Column{}
		s[schema] = tables
	}
	tables[table] = append(tables[table], column)
}

// TableMetadata flattens the schemas into builder metadata: upper-cased
// table name to column names. Tables with the same name in different
// schemas are merged, in schema name order.
func (s Schemas) TableMetadata() dqb.TableMetadata {
	tables := dqb.TableMetadata{}
	for _, schema := range s.SchemaNames() {
		for _, table := range s.Tables(schema) {
			key := strings.ToUpper(table)
			if _, ok := tables[key]; !ok {
				tables[key] = []string{}
			}
			for _, column := range s[schema][table] {
				tables[key] = append(tables[key], column.Name)
			}
		}
	}
	return tables
}

// SchemaNames returns the schema names, sorted.
func (s Schemas) SchemaNames() []string {
	names := make([]string, 0, len(s))
	for name := range s {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Tables returns the table names of a schema, sorted.
func (s Schemas) Tables(schema string) []string {
	names := make([]string, 0, len(s[schema]))
	for name := range s[schema] {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Columns returns the columns of a table, or nil if it does not exist.
func (s Schemas) Columns(schema, table string) []Column {
	return s[schema][table]
}
