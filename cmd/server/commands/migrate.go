package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/maxviazov/prosante-admin/internal/repository"
	"github.com/maxviazov/prosante-admin/internal/repository/migrations"
)

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:       "migrate up|down|status",
		Short:     "Apply, roll back one, or list session store migrations",
		Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		ValidArgs: []string{string(migrations.Up), string(migrations.Down), string(migrations.Status)},
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := bootstrap()
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			repo, err := repository.New(ctx, cfg.Postgres, &log)
			if err != nil {
				return fmt.Errorf("postgres connection failed: %w", err)
			}
			defer repo.Close()

			if err := migrations.Run(ctx, repo.Pool(), migrations.Direction(args[0]), log); err != nil {
				return fmt.Errorf("migrate %s: %w", args[0], err)
			}
			log.Info().Str("direction", args[0]).Msg("migrations done")
			return nil
		},
	}
}
