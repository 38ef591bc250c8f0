package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/gopsql/dqb/catalog"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

func newMetadataCommand() *cobra.Command {
	var output, save string

	cmd := &cobra.Command{
		Use:   "metadata",
		Short: "Show the table metadata of the database",
		Long: `Read the schemas, tables and columns (with primary and foreign keys) of the
configured database or snapshot file and print them.

Use --save to write a snapshot that can later be used with --metadata-file.`,
		Example: `  dqb metadata --driver postgresql --connection-string postgres://localhost:5432/hr
  dqb metadata --driver sqlite --connection-string hr.db --output table
  dqb metadata --connection-string postgres://localhost:5432/hr --save catalog.json`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			settings, err := validSettings(cmd)
			if err != nil {
				return err
			}
			schemas, err := settings.Source(loggerOptions(settings)...).Read(cmd.Context())
			if err != nil {
				return err
			}
			if save != "" {
				if err := catalog.SaveSnapshotFile(save, schemas); err != nil {
					return err
				}
				fmt.Fprintf(cmd.ErrOrStderr(), "Saved metadata of %d schema(s) to %s\n", len(schemas), save)
				return nil
			}
			return renderSchemas(cmd.OutOrStdout(), output, schemas)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "json", "output format (json|yaml|table)")
	cmd.Flags().StringVar(&save, "save", "", "write a snapshot file instead of printing")
	_ = cmd.RegisterFlagCompletionFunc("output", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return []string{"json", "yaml", "table"}, cobra.ShellCompDirectiveNoFileComp
	})

	return cmd
}

func renderSchemas(w io.Writer, output string, schemas catalog.Schemas) error {
	switch strings.ToLower(output) {
	case "json":
		return catalog.WriteSnapshot(w, schemas)
	case "yaml", "yml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(schemas); err != nil {
			return err
		}
		return enc.Close()
	case "table":
		return renderSchemasTable(w, schemas)
	}
	return fmt.Errorf("unknown output format %q (use json, yaml or table)", output)
}

func renderSchemasTable(w io.Writer, schemas catalog.Schemas) error {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"Schema", "Table", "Column", "Type", "Key", "References"})

	for _, schema := range schemas.SchemaNames() {
		for _, name := range schemas.Tables(schema) {
			for _, column := range schemas.Columns(schema, name) {
				var references string
				if column.IsForeignKey() {
					references = column.RelatedTable + "." + column.RelatedColumn
					if column.RelatedSchema != "" {
						references = column.RelatedSchema + "." + references
					}
				}
				t.AppendRow(table.Row{schema, name, column.Name, column.Type, column.PrimaryKey, references})
			}
		}
	}
	t.Render()
	return nil
}
