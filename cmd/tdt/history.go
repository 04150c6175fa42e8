package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/j-veylop/trending-dashboard-tui/internal/config"
	"github.com/j-veylop/trending-dashboard-tui/internal/models"
	"github.com/j-veylop/trending-dashboard-tui/internal/report"
	"github.com/j-veylop/trending-dashboard-tui/internal/services"
)

func newHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Inspect and maintain the upload-hour history",
	}
	cmd.AddCommand(
		newHistoryShowCmd(),
		newHistoryImportCmd(),
		newHistoryExportCmd(),
		newHistoryCompactCmd(),
	)
	return cmd
}

// withManager opens the history store without requiring an API key.
func withManager(cmd *cobra.Command, fn func(*services.Manager) error) error {
	cfg, err := config.LoadWithoutKey()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	// Explicit import/export commands own the legacy file.
	cfg.LegacyHistoryPath = ""
	cfg.AlertsEnabled = false

	mgr, err := services.NewManager(cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize services: %w", err)
	}
	defer func() {
		if closeErr := mgr.Close(); closeErr != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "Warning: error closing services: %v\n", closeErr)
		}
	}()
	return fn(mgr)
}

func parseRange(s string) (models.TimeRange, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "24h", "day":
		return models.TimeRange24Hours, nil
	case "7d", "week":
		return models.TimeRange7Days, nil
	case "30d", "month":
		return models.TimeRange30Days, nil
	case "all", "":
		return models.TimeRangeAllTime, nil
	default:
		return 0, fmt.Errorf("invalid range %q: must be 24h, 7d, 30d or all", s)
	}
}

func newHistoryShowCmd() *cobra.Command {
	var rangeFlag string

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Print the hour-of-day distribution of recorded uploads",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			tr, err := parseRange(rangeFlag)
			if err != nil {
				return err
			}
			return withManager(cmd, func(mgr *services.Manager) error {
				ctx := cmdContext(cmd)
				dist, err := mgr.HourDistribution(ctx, tr)
				if err != nil {
					return err
				}
				stats, err := mgr.StoreStats(ctx)
				if err != nil {
					return err
				}
				p := report.NewPrinterWithWriter(cmd.OutOrStdout(), report.Options{})
				return p.PrintHistory(tr, dist, stats)
			})
		},
	}
	cmd.Flags().StringVar(&rangeFlag, "range", "all", "time range: 24h, 7d, 30d or all")
	return cmd
}

func newHistoryImportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import <file>",
		Short: "Import a JSON list of upload hours into the store",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withManager(cmd, func(mgr *services.Manager) error {
				n, err := mgr.ImportLegacy(cmdContext(cmd), args[0])
				if err != nil {
					return err
				}
				p := report.NewPrinterWithWriter(cmd.OutOrStdout(), report.Options{})
				if n == 0 {
					p.Success("Nothing to import from %s (empty, or a history file was imported before)", args[0])
					return nil
				}
				p.Success("Imported %d upload hours from %s", n, args[0])
				return nil
			})
		},
	}
}

func newHistoryExportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "export <file>",
		Short: "Export recorded upload hours as a JSON list",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withManager(cmd, func(mgr *services.Manager) error {
				n, err := mgr.ExportLegacy(cmdContext(cmd), args[0])
				if err != nil {
					return err
				}
				report.NewPrinterWithWriter(cmd.OutOrStdout(), report.Options{}).
					Success("Exported %d upload hours to %s", n, args[0])
				return nil
			})
		},
	}
}

func newHistoryCompactCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "compact",
		Short: "Drop raw samples older than the retention window",
		Long: `Raw samples older than HISTORY_RETENTION are removed. Their hour counts
are kept, so best hours do not change.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withManager(cmd, func(mgr *services.Manager) error {
				removed, err := mgr.Compact(cmdContext(cmd))
				if err != nil {
					return err
				}
				report.NewPrinterWithWriter(cmd.OutOrStdout(), report.Options{}).
					Success("Compacted %d raw samples", removed)
				return nil
			})
		},
	}
}
