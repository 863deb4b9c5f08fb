package cli

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"

	"github.com/dmitrymomot/frame/pkg/config"
	"github.com/dmitrymomot/frame/pkg/db"
	"github.com/dmitrymomot/frame/pkg/logger"
)

type migrateFunc func(ctx context.Context, cfg db.Config, migrations fs.FS, log *slog.Logger) error

func migrateCmd(o *options) *cobra.Command {
	var dir string

	cmd := &cobra.Command{
		Use:   "migrate [up|down|status]",
		Short: "Run database migrations",
		Long: `Apply, roll back or list goose migrations against DB_URL.

  up      apply all pending migrations (default)
  down    roll back the most recent migration
  status  list migrations and whether they are applied`,
		Args:      cobra.MaximumNArgs(1),
		ValidArgs: []string{"up", "down", "status"},
		RunE: func(cmd *cobra.Command, args []string) error {
			direction := "up"
			if len(args) == 1 {
				direction = args[0]
			}
			run, err := migration(direction)
			if err != nil {
				return err
			}

			cfg, err := config.Load[db.Config](o.envFiles...)
			if err != nil {
				return err
			}

			migrations := o.migrations
			if migrations == nil {
				if dir == "" {
					dir = cfg.MigrationsDir
				}
				migrations = os.DirFS(dir)
			}

			log := logger.NewWithConfig(logger.Config{Output: cmd.ErrOrStderr(), Format: logger.FormatText})
			return run(cmd.Context(), cfg, migrations, log)
		},
	}

	cmd.Flags().StringVarP(&dir, "dir", "d", "", "Migrations directory (default: DB_MIGRATIONS_DIR)")
	return cmd
}

func migration(direction string) (migrateFunc, error) {
	var step func(context.Context, *pgxpool.Pool, fs.FS, string, *slog.Logger) error
	switch direction {
	case "up":
		step = db.Migrate
	case "down":
		step = db.Rollback
	case "status":
		step = db.Status
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownDirection, direction)
	}

	return func(ctx context.Context, cfg db.Config, migrations fs.FS, log *slog.Logger) error {
		pool, err := db.Connect(ctx, cfg)
		if err != nil {
			return err
		}
		defer pool.Close()
		return step(ctx, pool, migrations, cfg.MigrationsTable, log)
	}, nil
}
