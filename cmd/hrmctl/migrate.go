package main

import (
	"github.com/spf13/cobra"

	"hrms/internal/platform/db"
)

func newMigrateCmd(rt *runtime) *cobra.Command {
	var seed bool
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending database migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			pool, err := rt.connect(ctx)
			if err != nil {
				return err
			}
			defer pool.Close()

			if err := db.Migrate(ctx, pool); err != nil {
				return err
			}
			rt.logger.Info("migrations applied")
			if seed {
				if err := db.Seed(ctx, pool, rt.cfg); err != nil {
					return err
				}
				rt.logger.Info("seed applied")
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&seed, "seed", false, "Also create the bootstrap admin from SEED_ADMIN_EMAIL and SEED_ADMIN_PASSWORD")
	return cmd
}
