package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/j-veylop/trending-dashboard-tui/internal/config"
	"github.com/j-veylop/trending-dashboard-tui/internal/report"
	"github.com/j-veylop/trending-dashboard-tui/internal/services"
)

type reportOptions struct {
	region   string
	base     string
	max      int
	top      int
	asJSON   bool
	alerts   bool
	force    bool
	noColors bool
}

func newReportCmd() *cobra.Command {
	var opts reportOptions

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Fetch trending videos once and print the analysis",
		Long: `Runs the pipeline once: fetches trending videos, extracts hashtags,
keywords and hooks, records upload hours and prints the result.`,
		Example: `  tdt report
  tdt report --region US --base "street food"
  tdt report --json > trending.json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("failed to load configuration: %w", err)
			}
			applyReportFlags(cmd, cfg, opts)
			return runReport(cmd, cfg, opts)
		},
	}

	f := cmd.Flags()
	f.StringVarP(&opts.region, "region", "r", "", "trending region code (overrides REGION_CODE)")
	f.IntVarP(&opts.max, "max", "m", 0, "videos to fetch, 25-50 (overrides MAX_RESULTS)")
	f.StringVarP(&opts.base, "base", "b", "", "topic to build title suggestions around")
	f.IntVar(&opts.top, "top", 10, "rows per table")
	f.BoolVar(&opts.asJSON, "json", false, "print JSON instead of tables")
	f.BoolVar(&opts.alerts, "alerts", false, "send a desktop alert during a best hour")
	f.BoolVar(&opts.force, "force", false, "skip the fetch cache")
	f.BoolVar(&opts.noColors, "no-color", false, "disable colored output")

	return cmd
}

// applyReportFlags overrides configuration with explicitly set flags.
func applyReportFlags(cmd *cobra.Command, cfg *config.Config, opts reportOptions) {
	if cmd.Flags().Changed("region") {
		cfg.RegionCode = strings.ToUpper(opts.region)
	}
	if cmd.Flags().Changed("max") {
		cfg.MaxResults = config.ClampMaxResults(opts.max)
	}
	// One-shot runs stay quiet unless asked.
	cfg.AlertsEnabled = opts.alerts
}

func runReport(cmd *cobra.Command, cfg *config.Config, opts reportOptions) error {
	ctx, stop := signal.NotifyContext(cmdContext(cmd), os.Interrupt, syscall.SIGTERM)
	defer stop()

	mgr, err := services.NewManager(cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize services: %w", err)
	}
	defer func() {
		if closeErr := mgr.Close(); closeErr != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "Warning: error closing services: %v\n", closeErr)
		}
	}()

	snap, err := mgr.Run(ctx, opts.force)
	if err != nil {
		return fmt.Errorf("failed to run pipeline: %w", err)
	}
	if opts.base != "" {
		snap.Suggestions = mgr.Suggest(opts.base)
	}

	p := report.NewPrinterWithWriter(cmd.OutOrStdout(), report.Options{
		TopN:      opts.top,
		UseColors: !opts.noColors && !opts.asJSON && report.ColorsFor(os.Stdout),
	})
	if opts.asJSON {
		return p.PrintJSON(snap)
	}
	return p.Print(snap)
}

func cmdContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
