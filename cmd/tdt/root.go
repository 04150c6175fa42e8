package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/j-veylop/trending-dashboard-tui/internal/app"
	"github.com/j-veylop/trending-dashboard-tui/internal/config"
	"github.com/j-veylop/trending-dashboard-tui/internal/logger"
	"github.com/j-veylop/trending-dashboard-tui/internal/services"
	"github.com/j-veylop/trending-dashboard-tui/internal/ui/tabs/info"
	"github.com/j-veylop/trending-dashboard-tui/internal/ui/tabs/suggestions"
	"github.com/j-veylop/trending-dashboard-tui/internal/ui/tabs/trending"
	"github.com/j-veylop/trending-dashboard-tui/internal/ui/tabs/uploads"
	"github.com/j-veylop/trending-dashboard-tui/internal/version"
)

const rootLong = `Trending Dashboard TUI shows what is trending on YouTube for a region:
top hashtags and keywords, title ideas built from trending hooks, and the
hours of day when trending videos tend to be published.

Keyboard Shortcuts:
  1-4             Switch between tabs (Trending, Suggest, Upload Times, Info)
  Tab/Shift+Tab   Navigate between tabs
  j/k, Up/Down    Navigate lists
  /               Edit the suggestion base text
  r               Refetch trending videos
  C               Compact old upload history
  ?               Toggle help
  q, Ctrl+C       Quit

Environment Variables:
  YOUTUBE_API_KEY     YouTube Data API key (required)
  REGION_CODE         Trending region (default: IN)
  MAX_RESULTS         Videos per fetch, 25-50 (default: 50)
  REFRESH_INTERVAL    Polling and cache interval (default: 1h)
  TIMEZONE            Zone for upload hours (default: Asia/Kolkata)
  HOOK_POLICY         Hook extraction policy, v1 or v2 (default: v2)
  DATABASE_PATH       SQLite history store path
  STOPWORDS_URL       Remote stop-word list
  STOPWORDS_PATH      Local stop-word file, reloaded on change
  WORDCLOUD_PATH      Word cloud PNG output (empty disables)
  ALERTS_ENABLED      Desktop alert during a best hour (default: true)

Configuration:
  The application looks for .env files in the following locations:
  - Current directory
  - ~/.config/tdt/.env
  - ~/.tdt/.env`

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "tdt",
		Short:         "YouTube trending dashboard",
		Long:          rootLong,
		Version:       version.GetVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runTUI(cmd.Context())
		},
	}
	cmd.SetVersionTemplate("{{.Version}}\n")

	cmd.AddCommand(
		newReportCmd(),
		newHistoryCmd(),
		newVersionCmd(),
	)
	return cmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintln(cmd.OutOrStdout(), version.Info())
		},
	}
}

// runTUI loads configuration, starts the services and runs the Bubble Tea program.
func runTUI(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	// Log to a file; stderr belongs to the alternate screen.
	if cfg.LogPath != "" {
		closer, err := logger.Init(cfg.LogPath, cfg.LogLevel)
		if err != nil {
			return err
		}
		defer func() { _ = closer.Close() }()
	}
	logger.Info("starting", "version", version.GetVersion(), "region", cfg.RegionCode)

	svcManager, err := services.NewManager(cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize services: %w", err)
	}
	defer func() {
		if closeErr := svcManager.Close(); closeErr != nil {
			fmt.Fprintf(os.Stderr, "Warning: error closing services: %v\n", closeErr)
		}
	}()

	model := app.NewModel(svcManager)

	state := model.GetState()
	model.SetTabs([]app.Tab{
		trending.New(state),
		suggestions.New(state),
		uploads.New(state),
		info.New(state, cfg),
	})

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	svcManager.StartPolling(ctx)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	)

	go func() {
		select {
		case <-sigChan:
			p.Send(tea.Quit())
		case <-ctx.Done():
		}
	}()

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running TUI: %w", err)
	}
	return nil
}
