package main

import (
	"github.com/spf13/cobra"

	"github.com/dmitrymomot/cms/pkg/logger"
)

func newMigrateCmd(load func() (config, error)) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending database migrations",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := load()
			if err != nil {
				return err
			}
			log := logger.New(cfg.logger())

			st, closeStore, err := openStore(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer closeStore()

			if err := migrate(cmd.Context(), st, cfg, log); err != nil {
				return err
			}
			log.Info("migrations applied", "driver", st.Dialect().Name())
			return nil
		},
	}
}
