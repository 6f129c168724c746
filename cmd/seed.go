package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/edytawrobel/team-coords-aiengineer/internal/seed"
	"github.com/edytawrobel/team-coords-aiengineer/pkg/logger"
)

func newSeedCmd() *cobra.Command {
	var cfg seed.Config
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Populate a running service with members and sign-ups, then verify coverage",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := logger.Init(); err != nil {
				return err
			}
			if cfg.Verbose {
				_ = logger.SetLevelString("debug")
			}
			stats, err := seed.Run(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(),
				"members=%d applied=%d duplicates=%d retries=%d covered=%d took=%s\n",
				stats.MembersCreated, stats.TogglesApplied, stats.Duplicates, stats.Retries,
				stats.SessionsCovered, stats.Duration.Round(time.Millisecond))
			return err
		},
	}
	f := cmd.Flags()
	f.StringVar(&cfg.BaseURL, "url", "http://localhost:9080", "base URL of the service")
	f.IntVar(&cfg.Members, "members", 5, "members to create")
	f.IntVar(&cfg.Toggles, "toggles", 40, "session sign-ups to submit")
	f.IntVar(&cfg.Replays, "replays", 5, "sign-ups to resend with the same idempotency key")
	f.IntVar(&cfg.Workers, "workers", 0, "concurrent requests (default CPU cores * 2)")
	f.DurationVar(&cfg.Timeout, "timeout", 10*time.Second, "per-request timeout")
	f.Uint64Var(&cfg.Seed, "seed", 0, "random seed, 0 for random")
	f.BoolVarP(&cfg.Verbose, "verbose", "v", false, "enable debug logging")
	return cmd
}
