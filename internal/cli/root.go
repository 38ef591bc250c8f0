// Package cli provides the dqb command line interface.
package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/gopsql/dqb/internal/config"
	"github.com/gopsql/logger"
	"github.com/spf13/cobra"
)

// Version is set at build time.
var Version = "0.1.0"

type settingsKey struct{}

// NewRootCmd creates the dqb command and its subcommands.
func NewRootCmd() *cobra.Command {
	var cfgFile string

	rootCmd := &cobra.Command{
		Use:   "dqb",
		Short: "Build SQL SELECT statements validated against database metadata",
		Long: `dqb reads table metadata from PostgreSQL, MySQL, SQLite or DuckDB (or from a
saved snapshot) and renders SELECT statements from query definitions, either
on the command line or over HTTP.`,
		Version: Version,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if cmd.Name() == "help" || cmd.Name() == "version" || cmd.Name() == "__complete" {
				return nil
			}
			settings, err := config.Load(cfgFile, cmd.Flags())
			if err != nil {
				return err
			}
			if settings.Verbose && settings.File != "" {
				fmt.Fprintf(cmd.ErrOrStderr(), "Using config file: %s\n", settings.File)
			}
			cmd.SetContext(context.WithValue(cmd.Context(), settingsKey{}, settings))
			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ./dqb.yaml)")
	rootCmd.PersistentFlags().String("driver", "", "database driver (postgresql|mysql|sqlite|duckdb)")
	rootCmd.PersistentFlags().String("connection-string", "", "database connection string")
	rootCmd.PersistentFlags().String("metadata-file", "", "read metadata from a snapshot file instead of the database")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "log queries")

	rootCmd.AddCommand(newMetadataCommand())
	rootCmd.AddCommand(newBuildCommand())
	rootCmd.AddCommand(newServeCommand())
	rootCmd.AddCommand(newVersionCommand())

	return rootCmd
}

// Execute runs the root command.
func Execute() error {
	rootCmd := NewRootCmd()
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return err
	}
	return nil
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "dqb v%s\n", Version)
		},
	}
}

// validSettings returns the loaded settings after checking the driver and
// metadata source.
func validSettings(cmd *cobra.Command) (*config.Settings, error) {
	settings, ok := cmd.Context().Value(settingsKey{}).(*config.Settings)
	if !ok {
		return nil, fmt.Errorf("settings not loaded")
	}
	if err := settings.Validate(); err != nil {
		return nil, err
	}
	return settings, nil
}

// Options passed to builders and catalog readers.
func loggerOptions(settings *config.Settings) []interface{} {
	if settings.Verbose {
		return []interface{}{logger.StandardLogger}
	}
	return nil
}
