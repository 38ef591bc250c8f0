package cli

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/gopsql/dqb/internal/config"
	"github.com/gopsql/dqb/internal/server"
	"github.com/gopsql/logger"
	"github.com/spf13/cobra"
)

func newServeCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve metadata and query rendering over HTTP",
		Long: `Start an HTTP server with these endpoints:

  GET  /healthz
  GET  /api/metadata          schemas, tables and columns
  GET  /api/tables            table names and their column names
  GET  /api/tables/{table}    column names of one table
  POST /api/query             render a query definition, ?formatted=true for one clause per line

The server stops on SIGINT or SIGTERM.`,
		Example: `  dqb serve --driver mysql --connection-string "user:pass@tcp(localhost:3306)/hr"
  dqb serve --metadata-file catalog.json --listen :9000`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			settings, err := validSettings(cmd)
			if err != nil {
				return err
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			fmt.Fprintf(cmd.ErrOrStderr(), "Listening on %s\n", settings.Listen)
			return server.New(serverConfig(settings)).Serve(ctx)
		},
	}

	cmd.Flags().String("listen", config.DefaultListen, "address to listen on")
	cmd.Flags().Bool("formatted", false, "render formatted SQL unless a request sets ?formatted=false")

	return cmd
}

func serverConfig(settings *config.Settings) server.Config {
	cfg := server.Config{
		Source:    settings.Source(loggerOptions(settings)...),
		Formatted: settings.Formatted,
		Listen:    settings.Listen,
	}
	if settings.Verbose {
		cfg.Logger = logger.StandardLogger
	}
	return cfg
}
