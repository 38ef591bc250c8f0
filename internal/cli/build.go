package cli

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/gopsql/db"
	"github.com/gopsql/dqb"
	"github.com/gopsql/dqb/catalog"
	"github.com/gopsql/dqb/internal/config"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var errNoTable = errors.New("no table given, use --table or --file")

func newBuildCommand() *cobra.Command {
	var (
		file    string
		tbl     string
		columns []string
		limit   int
		execute bool
	)

	cmd := &cobra.Command{
		Use:   "build",
		Short: "Render a SELECT statement",
		Long: `Render a SELECT statement from a query definition file (YAML or JSON) and/or
flags. The table must exist in the metadata of the configured database or
snapshot file.

With --execute the statement is run against the database and the rows are
printed.`,
		Example: `  dqb build --table employees --columns NAME,AGE --limit 10
  dqb build --file query.yaml --formatted
  dqb build --file query.json --execute`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			settings, err := validSettings(cmd)
			if err != nil {
				return err
			}

			var def dqb.Definition
			if file != "" {
				if def, err = loadDefinition(file); err != nil {
					return err
				}
			}
			if tbl != "" {
				def.Table = tbl
			}
			if len(columns) > 0 {
				def.Columns = columns
			}
			if cmd.Flags().Changed("limit") {
				def.Limit = &limit
			}
			if def.Table == "" {
				return errNoTable
			}

			schemas, err := settings.Source(loggerOptions(settings)...).Read(cmd.Context())
			if err != nil {
				return err
			}
			b := dqb.New(schemas.TableMetadata(), loggerOptions(settings)...)
			if err := def.Apply(b); err != nil {
				return err
			}
			var sql string
			if settings.Formatted {
				sql, err = b.GenerateFormattedSQL()
			} else {
				sql, err = b.GenerateSQL()
			}
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), sql)

			if execute {
				return executeQuery(cmd.OutOrStdout(), settings, sql)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "query definition file (YAML or JSON)")
	cmd.Flags().StringVarP(&tbl, "table", "t", "", "table to select from")
	cmd.Flags().StringSliceVarP(&columns, "columns", "c", nil, "columns to select (default *)")
	cmd.Flags().IntVarP(&limit, "limit", "l", 0, "LIMIT of the statement")
	cmd.Flags().Bool("formatted", false, "render one clause per line")
	cmd.Flags().BoolVarP(&execute, "execute", "x", false, "run the statement and print the rows")

	return cmd
}

// loadDefinition reads a YAML or JSON query definition; yaml.v3 decodes
// both.
func loadDefinition(path string) (dqb.Definition, error) {
	var def dqb.Definition
	content, err := os.ReadFile(path)
	if err != nil {
		return def, err
	}
	if err := yaml.Unmarshal(content, &def); err != nil {
		return def, fmt.Errorf("%s: %w", path, err)
	}
	return def, nil
}

func executeQuery(w io.Writer, settings *config.Settings, sql string) error {
	if settings.ConnectionString == "" {
		return fmt.Errorf("--execute needs a connection string")
	}
	conn, err := catalog.Open(catalog.Driver(settings.Driver), settings.ConnectionString)
	if err != nil {
		return err
	}
	defer conn.Close()
	return printRows(w, conn, sql)
}

func printRows(w io.Writer, conn db.DB, sql string) error {
	rows, err := conn.Query(sql)
	if err != nil {
		return err
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return err
	}
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	header := make(table.Row, len(columns))
	for i, column := range columns {
		header[i] = column
	}
	t.AppendHeader(header)

	count := 0
	for rows.Next() {
		values := make([]interface{}, len(columns))
		pointers := make([]interface{}, len(columns))
		for i := range values {
			pointers[i] = &values[i]
		}
		if err := rows.Scan(pointers...); err != nil {
			return err
		}
		row := make(table.Row, len(columns))
		for i, value := range values {
			row[i] = formatValue(value)
		}
		t.AppendRow(row)
		count++
	}
	if err := rows.Err(); err != nil {
		return err
	}
	t.Render()
	fmt.Fprintf(w, "(%d rows)\n", count)
	return nil
}

func formatValue(v interface{}) string {
	switch x := v.(type) {
	case nil:
		return "NULL"
	case []byte:
		return string(x)
	}
	return fmt.Sprint(v)
}
