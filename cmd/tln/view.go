package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/Dicklesworthstone/tln/internal/bookmark"
	"github.com/Dicklesworthstone/tln/internal/config"
	"github.com/Dicklesworthstone/tln/internal/events"
	"github.com/Dicklesworthstone/tln/internal/feed"
	"github.com/Dicklesworthstone/tln/internal/remote"
	"github.com/Dicklesworthstone/tln/internal/timeline"
	"github.com/Dicklesworthstone/tln/internal/tui"
)

var (
	viewFeedFlag  string
	viewServeFlag bool
	viewDemoFlag  bool
	viewThemeFlag string
)

var viewCmd = &cobra.Command{
	Use:   "view",
	Short: "Open the interactive timeline dashboard",
	Long: `Open the interactive timeline dashboard.

The dashboard tails the configured sample feed, keeps the data range in
step with incoming timestamps, and renders the cursor, selection, and
view on a zoomable track.

Examples:
  # Dashboard over the configured feed
  tln view

  # Tail a specific sample file
  tln view --feed /var/log/app/samples.jsonl

  # Expose the control API for tln status / play / stop
  tln view --serve

  # Self-contained demo with a generated feed
  tln view --demo`,
	Args: cobra.NoArgs,
	RunE: runView,
}

func init() {
	viewCmd.Flags().StringVar(&viewFeedFlag, "feed", "", "JSONL sample file to tail (overrides config)")
	viewCmd.Flags().BoolVar(&viewServeFlag, "serve", false, "serve the remote control API")
	viewCmd.Flags().BoolVar(&viewDemoFlag, "demo", false, "generate a demo feed instead of tailing a real one")
	viewCmd.Flags().StringVar(&viewThemeFlag, "theme", "", "color theme: dark, light, plain")
	rootCmd.AddCommand(viewCmd)
}

func runView(cmd *cobra.Command, args []string) error {
	cfgPath := configFlag
	if cfgPath == "" {
		cfgPath = config.DefaultPath()
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return err
	}

	nav, err := buildNavigator(cfg)
	if err != nil {
		return err
	}
	defer nav.Close()

	// Navigation analytics, JSONL on disk.
	if cfg.Analytics.Enabled {
		logger, err := events.NewLogger(events.LoggerOptions{
			Enabled:       true,
			Path:          config.ExpandPath(cfg.Analytics.Path),
			RetentionDays: cfg.Analytics.RetentionDays,
		})
		if err != nil {
			fmt.Fprintf(os.Stderr, "analytics disabled: %v\n", err)
		} else {
			defer logger.Close()
			detach := logger.Attach(nav.Bus())
			defer detach()
		}
	}

	var opts []tui.Option

	f, cleanup, err := buildFeed(cfg, nav)
	if err != nil {
		return err
	}
	if f != nil {
		defer cleanup()
		opts = append(opts, tui.WithFeed(f))
	}

	store, err := bookmark.NewStore(bookmark.DefaultPath())
	if err != nil {
		fmt.Fprintf(os.Stderr, "bookmarks disabled: %v\n", err)
	} else {
		opts = append(opts, tui.WithBookmarks(store))
	}

	themeName := viewThemeFlag
	if themeName == "" {
		themeName = cfg.UI.Theme
	}
	opts = append(opts, tui.WithTheme(tui.FromName(themeName)))

	if refresh, err := cfg.UI.RefreshDuration(); err == nil {
		opts = append(opts, tui.WithRefresh(refresh))
	}

	if viewServeFlag || cfg.Remote.Enabled {
		srv := remote.NewServer(nav.Remote(), nav.Bus(), cfg.Remote.Listen)
		if err := srv.Start(); err != nil {
			return fmt.Errorf("starting control server: %w", err)
		}
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			srv.Shutdown(ctx)
		}()
	}

	program := tea.NewProgram(tui.NewModel(nav, opts...), tea.WithAltScreen())

	// Theme changes in the config file take effect without a restart.
	stopWatch, err := config.Watch(cfgPath, func(next *config.Config) {
		program.Send(tui.ThemeChangedMsg{Theme: tui.FromName(next.UI.Theme)})
	})
	if err == nil {
		defer stopWatch()
	}

	_, err = program.Run()
	return err
}

func buildNavigator(cfg *config.Config) (*timeline.Navigator, error) {
	window, err := cfg.Navigator.DataWindowDuration()
	if err != nil {
		return nil, fmt.Errorf("navigator.data_window: %w", err)
	}
	tick, err := cfg.Navigator.TickPeriodDuration()
	if err != nil {
		return nil, fmt.Errorf("navigator.tick_period: %w", err)
	}
	return timeline.New(timeline.Options{
		DataWindow:       window,
		TickPeriod:       tick,
		SelectionPadding: cfg.Navigator.SelectionPadding,
		Bus:              events.NewBus(256),
	}), nil
}

// buildFeed wires the sample source: the configured file, a file named
// by --feed, or a generated demo feed. Returns a nil feed when there is
// nothing to tail.
func buildFeed(cfg *config.Config, nav *timeline.Navigator) (*feed.Feed, func(), error) {
	throttle, err := cfg.Feed.ThrottleDuration()
	if err != nil {
		return nil, nil, fmt.Errorf("feed.throttle: %w", err)
	}

	if viewDemoFlag {
		return buildDemoFeed(nav, throttle)
	}

	path := viewFeedFlag
	if path == "" {
		path = config.ExpandPath(cfg.Feed.Path)
		if _, err := os.Stat(path); err != nil {
			// No configured feed on disk; run without one.
			return nil, nil, nil
		}
	}

	f := feed.New(path, nav, feed.WithThrottle(throttle))
	if err := f.Start(); err != nil {
		return nil, nil, err
	}
	return f, f.Stop, nil
}

func buildDemoFeed(nav *timeline.Navigator, throttle time.Duration) (*feed.Feed, func(), error) {
	dir, err := os.MkdirTemp("", "tln-demo-")
	if err != nil {
		return nil, nil, err
	}
	path := filepath.Join(dir, "samples.jsonl")
	out, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		os.RemoveAll(dir)
		return nil, nil, err
	}

	gen := feed.NewGenerator(out, 100*time.Millisecond)
	gen.Start()

	f := feed.New(path, nav, feed.WithThrottle(throttle))
	if err := f.Start(); err != nil {
		gen.Stop()
		out.Close()
		os.RemoveAll(dir)
		return nil, nil, err
	}

	cleanup := func() {
		f.Stop()
		gen.Stop()
		out.Close()
		os.RemoveAll(dir)
	}
	return f, cleanup, nil
}
