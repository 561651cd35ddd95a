package cli

import (
	"fmt"

	"github.com/TechXTT/sqlkit/pkg/migrate"
	"github.com/spf13/cobra"
)

func NewMigrateCmd(g *globals) *cobra.Command {
	var migrations string

	cmd := &cobra.Command{
		Use:       "migrate [up|down|reset|status]",
		Short:     "Run database migrations",
		Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		ValidArgs: []string{"up", "down", "reset", "status"},
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg, db, err := g.connect(ctx, cmd)
			if err != nil {
				return err
			}
			defer db.Disconnect()

			location := cfg.MigrationsDir
			if cmd.Flags().Changed("dir") {
				location = migrations
			}
			src, err := migrate.OpenSource(ctx, location, cfg.S3)
			if err != nil {
				return err
			}
			mgr, err := migrate.NewManager(ctx, db, src)
			if err != nil {
				return err
			}
			mgr.Out = cmd.OutOrStdout()

			switch args[0] {
			case "up":
				return mgr.Up(ctx)
			case "down":
				return mgr.Down(ctx)
			case "reset":
				return mgr.Reset(ctx)
			case "status":
				status, err := mgr.Status(ctx)
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), status)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&migrations, "dir", "migrations", "Migrations directory or s3://bucket/prefix")
	return cmd
}
