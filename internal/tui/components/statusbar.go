package components

import (
	"strings"
	"time"

	"github.com/gkj-pamulang/panitia/internal/cli"
	"github.com/gkj-pamulang/panitia/internal/feed"
	"github.com/gkj-pamulang/panitia/internal/tui/theme"

	"github.com/charmbracelet/lipgloss"
)

// Status is what the status bar reports about the visible view.
type Status struct {
	State       feed.State
	LastRefresh time.Time
	Refreshing  bool
	Hint        string
}

// StateColor maps a data state to a theme color.
func StateColor(s feed.State) lipgloss.Color {
	t := theme.Active
	switch s {
	case feed.StateLive:
		return t.Green
	case feed.StateStatic:
		return t.Blue
	case feed.StateFallback:
		return t.Orange
	default:
		return t.Red
	}
}

// RenderStatusBar renders the bottom status bar.
func RenderStatusBar(width int, s Status, now time.Time) string {
	t := theme.Active

	base := lipgloss.NewStyle().
		Foreground(t.TextMuted).
		Background(t.Surface)

	left := " [?]help  [r]efresh  [q]uit"
	if s.Hint != "" {
		left += "  " + s.Hint
	}

	var right string
	if s.State != "" {
		dot := lipgloss.NewStyle().Foreground(StateColor(s.State)).Background(t.Surface)
		right = dot.Render("● "+string(s.State)) + base.Render("  ")
	}
	if s.Refreshing {
		right += base.Render("memuat… ")
	} else {
		right += base.Render(cli.FormatAgo(s.LastRefresh, now) + " ")
	}

	padding := width - lipgloss.Width(left) - lipgloss.Width(right)
	if padding < 0 {
		padding = 0
	}

	return base.Render(left+strings.Repeat(" ", padding)) + right
}
