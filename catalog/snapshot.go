package catalog

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/tidwall/gjson"
)

var ErrInvalidSnapshot = errors.New("invalid catalog snapshot")

// WriteSnapshot writes the schemas as indented JSON:
//
//	{
//	  "public": {
//	    "employees": [
//	      {"column": "id", "type": "integer", "primary_key": "PRI"},
//	      ...
//	    ]
//	  }
//	}
func WriteSnapshot(w io.Writer, schemas Schemas) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(schemas)
}

// ReadSnapshot parses a snapshot written by WriteSnapshot. A column can
// also be given as a plain string holding its name.
func ReadSnapshot(r io.Reader) (Schemas, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	if !gjson.ValidBytes(b) {
		return nil, fmt.Errorf("%w: malformed JSON", ErrInvalidSnapshot)
	}
	root := gjson.ParseBytes(b)
	if !root.IsObject() {
		return nil, fmt.Errorf("%w: expected an object of schemas", ErrInvalidSnapshot)
	}

	schemas := Schemas{}
	root.ForEach(func(schema, tables gjson.Result) bool {
		if !tables.IsObject() {
			err = fmt.Errorf("%w: schema %q is not an object of tables", ErrInvalidSnapshot, schema.String())
			return false
		}
		schemas[schema.String()] = map[string][]Column{}
		tables.ForEach(func(table, columns gjson.Result) bool {
			if !columns.IsArray() {
				err = fmt.Errorf("%w: table %q is not an array of columns", ErrInvalidSnapshot, table.String())
				return false
			}
			list := []Column{}
			for _, c := range columns.Array() {
				column, ok := snapshotColumn(c)
				if !ok {
					err = fmt.Errorf("%w: bad column in table %q", ErrInvalidSnapshot, table.String())
					return false
				}
				list = append(list, column)
			}
			schemas[schema.String()][table.String()] = list
			return true
		})
		return err == nil
	})
	if err != nil {
		return nil, err
	}
	return schemas, nil
}

func snapshotColumn(c gjson.Result) (Column, bool) {
	switch {
	case c.Type == gjson.String:
		return Column{Name: c.String()}, c.String() != ""
	case c.IsObject():
		column := Column{
			Name:          c.Get("column").String(),
			Type:          c.Get("type").String(),
			PrimaryKey:    c.Get("primary_key").String(),
			RelatedSchema: c.Get("related_schema").String(),
			RelatedTable:  c.Get("related_table").String(),
			RelatedColumn: c.Get("related_column").String(),
		}
		return column, column.Name != ""
	}
	return Column{}, false
}

// LoadSnapshotFile reads a snapshot from a file.
func LoadSnapshotFile(path string) (Schemas, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	schemas, err := ReadSnapshot(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return schemas, nil
}

// SaveSnapshotFile writes a snapshot to a file, replacing it.
func SaveSnapshotFile(path string, schemas Schemas) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := WriteSnapshot(f, schemas); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
