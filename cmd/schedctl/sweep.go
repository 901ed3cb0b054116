package main

import (
	"fmt"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/byhelaman/sched-planner/internal/config"
	"github.com/byhelaman/sched-planner/internal/core"
	"github.com/byhelaman/sched-planner/internal/logging"
	"github.com/byhelaman/sched-planner/internal/store"
)

func newSweepCmd() *cobra.Command {
	var envFile string

	cmd := &cobra.Command{
		Use:   "sweep",
		Short: "Remove expired sessions from the configured store",
		Long: `Sweep opens the store configured by the environment (STORE_BACKEND and
friends, optionally loaded from --env-file) and removes every session older
than SESSION_MAX_AGE.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if envFile != "" {
				if err := godotenv.Load(envFile); err != nil {
					return fmt.Errorf("load %s: %w", envFile, err)
				}
			}

			cfg, err := config.Load()
			if err != nil {
				return err
			}
			logging.SetupWriter(cmd.ErrOrStderr(), cfg.Logging.Level, cfg.Logging.Format)

			st, err := store.Open(cmd.Context(), cfg.Store, cfg.Session.MaxAge)
			if err != nil {
				return err
			}
			defer st.Close()

			svc, err := core.NewServiceFromConfig(cfg, st)
			if err != nil {
				return err
			}

			removed, err := svc.SweepExpired(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "removed %d expired sessions\n", removed)
			return nil
		},
	}

	cmd.Flags().StringVar(&envFile, "env-file", "", "Load environment variables from this file first")
	return cmd
}
