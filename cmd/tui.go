package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gkj-pamulang/panitia/internal/config"
	"github.com/gkj-pamulang/panitia/internal/feed"
	"github.com/gkj-pamulang/panitia/internal/logging"
	"github.com/gkj-pamulang/panitia/internal/tui"
	"github.com/gkj-pamulang/panitia/internal/tui/theme"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/spf13/cobra"
)

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Launch interactive TUI dashboard",
	RunE:  runTUI,
}

func init() {
	rootCmd.AddCommand(tuiCmd)
}

func runTUI(_ *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	theme.SetActive(cfg.Appearance.Theme)

	// Force TrueColor profile so all background styling produces ANSI codes
	lipgloss.SetColorProfile(termenv.TrueColor)

	// The screen belongs to the dashboard; logs go to a file.
	if err := os.MkdirAll(config.ConfigDir(), 0o750); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}
	logPath := filepath.Join(config.ConfigDir(), "tui.log")
	//nolint:gosec // log path is under the user's config directory
	logf, err := os.OpenFile(logPath, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0o600)
	if err != nil {
		return fmt.Errorf("open tui log file: %w", err)
	}
	defer func() { _ = logf.Close() }()

	log, err := logging.NewWriter(logf, cfg.Log.Level)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	loader, err := newLoader(cfg, log)
	if err != nil {
		return err
	}
	refresher := feed.NewRefresher(loader, cfg.Refresh.Interval(), log)
	updates, unsubscribe := refresher.Subscribe()
	defer unsubscribe()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = refresher.Run(ctx) }()
	watchStatic(ctx, cfg, loader, refresher, log)

	path := flagConfig
	if path == "" {
		path = config.ConfigPath()
	}
	_, statErr := os.Stat(path)

	app := tui.NewApp(tui.Options{
		Refresher:     refresher,
		Updates:       updates,
		Debounce:      cfg.Refresh.Debounce(),
		MarkdownStyle: cfg.Appearance.MarkdownStyle,
		ConfigPath:    path,
		NeedSetup:     os.IsNotExist(statErr),
	})
	defer app.Close()

	p := tea.NewProgram(app, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}
	return nil
}
