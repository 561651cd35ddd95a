package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/TechXTT/sqlkit/pkg/config"
	"github.com/TechXTT/sqlkit/pkg/runtime"
	"github.com/spf13/cobra"
)

func version() string {
	return "v0.1.0"
}

const long = `sqlkit builds and runs SQL statements against PostgreSQL, DuckDB and other
database/sql backends, and manages versioned schema migrations.

Settings come from the environment, optionally loaded from an .env file:
  DATABASE_URL        connection URL (jdbc:postgresql:, postgres://, duckdb:, ...)
  DATABASE_USER       user name for PostgreSQL URLs
  DATABASE_PASSWORD   password for PostgreSQL URLs
  DATABASE_DRIVER     database/sql driver name for other URLs
  MIGRATIONS_DIR      local directory or s3://bucket/prefix (default "migrations")`

// globals shared by subcommands.
type globals struct {
	envFile string
	verbose bool
}

func (g *globals) logger(cmd *cobra.Command) *slog.Logger {
	level := slog.LevelInfo
	if g.verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))
}

// connect loads configuration and opens the database it names.
func (g *globals) connect(ctx context.Context, cmd *cobra.Command) (*config.Config, *runtime.Database, error) {
	cfg, err := config.Load(g.envFile)
	if err != nil {
		return nil, nil, err
	}
	db, err := runtime.Connect(ctx, cfg.Database, runtime.WithLogger(g.logger(cmd)))
	if err != nil {
		return nil, nil, err
	}
	return cfg, db, nil
}

// NewVersionCmd builds the `version` command.
func NewVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version number",
		Run: func(cmd *cobra.Command, args []string) {
			cmd.Println(version())
		},
	}
}

// NewPingCmd builds the `ping` command.
func NewPingCmd(g *globals) *cobra.Command {
	return &cobra.Command{
		Use:   "ping",
		Short: "Check that the configured database is reachable",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, db, err := g.connect(cmd.Context(), cmd)
			if err != nil {
				return err
			}
			defer db.Disconnect()
			if err := db.Ping(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "ok (%s)\n", db.Dialect())
			return nil
		},
	}
}

// NewRootCmd builds the top-level `sqlkit` command.
func NewRootCmd() *cobra.Command {
	g := &globals{}
	root := &cobra.Command{
		Use:           "sqlkit",
		Short:         "SQL statements, transactions and migrations",
		Long:          long,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&g.envFile, "env", ".env", "Environment file to load")
	root.PersistentFlags().BoolVarP(&g.verbose, "verbose", "v", false, "Log every statement")
	root.AddCommand(NewMigrateCmd(g))
	root.AddCommand(NewPingCmd(g))
	root.AddCommand(NewVersionCmd())
	return root
}

// Execute runs the root command and exits non-zero on failure.
func Execute(ctx context.Context) {
	if err := NewRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
