package components

import (
	"fmt"
	"strings"

	"github.com/gkj-pamulang/panitia/internal/tui/theme"

	"github.com/charmbracelet/lipgloss"
)

// Bar is one row of a horizontal bar chart.
type Bar struct {
	Label string
	Value int64
	Note  string
}

// HorizontalBars renders one bar per row, scaled to the largest value.
// Labels are truncated to a third of the width.
func HorizontalBars(bars []Bar, color lipgloss.Color, width int) string {
	if len(bars) == 0 {
		return ""
	}
	t := theme.Active

	var peak int64
	labelW, noteW := 0, 0
	for _, b := range bars {
		peak = max(peak, b.Value)
		labelW = max(labelW, lipgloss.Width(b.Label))
		noteW = max(noteW, lipgloss.Width(b.Note))
	}
	labelW = min(labelW, max(width/3, 6))
	barW := width - labelW - noteW - 2
	if barW < 4 {
		barW = 4
	}

	labelStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	barStyle := lipgloss.NewStyle().Foreground(color).Background(t.Surface)
	trackStyle := lipgloss.NewStyle().Foreground(t.SurfaceBright).Background(t.Surface)
	noteStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)
	spaceStyle := lipgloss.NewStyle().Background(t.Surface)

	var b strings.Builder
	for i, bar := range bars {
		n := 0
		if peak > 0 && bar.Value > 0 {
			n = max(1, int(float64(bar.Value)/float64(peak)*float64(barW)))
		}
		b.WriteString(labelStyle.Render(fmt.Sprintf("%-*s", labelW, truncate(bar.Label, labelW))))
		b.WriteString(spaceStyle.Render(" "))
		b.WriteString(barStyle.Render(strings.Repeat("█", n)))
		b.WriteString(trackStyle.Render(strings.Repeat("░", barW-n)))
		b.WriteString(spaceStyle.Render(" "))
		b.WriteString(noteStyle.Render(fmt.Sprintf("%*s", noteW, bar.Note)))
		if i < len(bars)-1 {
			b.WriteString("\n")
		}
	}
	return b.String()
}

func truncate(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	if limit <= 1 {
		return string(runes[:limit])
	}
	return string(runes[:limit-1]) + "…"
}
