package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/edytawrobel/team-coords-aiengineer/internal/adapters/export"
	"github.com/edytawrobel/team-coords-aiengineer/internal/adapters/repository"
	"github.com/edytawrobel/team-coords-aiengineer/internal/config"
)

func newExportCmd() *cobra.Command {
	var (
		format string
		member string
		out    string
	)
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the persisted schedule as CSV or a member's agenda as text",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := setup(cmd.Context())
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			if out != "" && out != "-" {
				f, err := os.Create(out)
				if err != nil {
					return fmt.Errorf("create %s: %w", out, err)
				}
				defer func() { _ = f.Close() }()
				w = f
			}
			return runExport(cmd.Context(), cfg, w, format, member)
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", "csv", "csv or agenda")
	cmd.Flags().StringVarP(&member, "member", "m", "", "member id for the agenda format")
	cmd.Flags().StringVarP(&out, "output", "o", "-", "output file, - for stdout")
	return cmd
}

func runExport(ctx context.Context, cfg *config.Config, w io.Writer, format, member string) error {
	repo, err := repository.NewSQLiteRepository(ctx, cfg.DBPath)
	if err != nil {
		return err
	}
	defer func() { _ = repo.Close() }()

	snap, _, err := repo.LoadSnapshot(ctx, cfg.SnapshotID)
	if err != nil {
		return err
	}

	switch format {
	case "csv":
		return export.WriteCSV(w, snap)
	case "agenda":
		if member == "" {
			return fmt.Errorf("--member is required for the agenda format")
		}
		return export.WriteAgenda(w, snap, member)
	default:
		return fmt.Errorf("unknown format %q", format)
	}
}
