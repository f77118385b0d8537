package components

import (
	"fmt"

	"github.com/gkj-pamulang/panitia/internal/model"
	"github.com/gkj-pamulang/panitia/internal/tui/theme"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/lipgloss"
)

// ColorForPct colors progress toward a target: the closer to complete,
// the greener. Undefined percentages are dim.
func ColorForPct(p model.Percent) lipgloss.Color {
	t := theme.Active
	if !p.Valid {
		return t.TextDim
	}
	switch {
	case p.Value >= 100:
		return t.Green
	case p.Value >= 50:
		return t.Accent
	case p.Value >= 25:
		return t.Yellow
	default:
		return t.Orange
	}
}

// ProgressBar renders a bar followed by its percentage.
func ProgressBar(p model.Percent, width int) string {
	t := theme.Active
	if width < 4 {
		width = 4
	}

	bar := progress.New(
		progress.WithSolidFill(string(ColorForPct(p))),
		progress.WithWidth(width),
		progress.WithoutPercentage(),
	)
	bar.EmptyColor = string(t.TextDim)

	pctStyle := lipgloss.NewStyle().Foreground(ColorForPct(p)).Background(t.Surface).Bold(true)
	spaceStyle := lipgloss.NewStyle().Background(t.Surface)

	return bar.ViewAs(p.Fraction()) + spaceStyle.Render(" ") + pctStyle.Render(p.String())
}

// LabeledBar renders "label  [bar] pct  note" on one line.
func LabeledBar(label string, p model.Percent, note string, labelW, barWidth int) string {
	t := theme.Active

	labelStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	noteStyle := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)
	spaceStyle := lipgloss.NewStyle().Background(t.Surface)

	out := labelStyle.Render(fmt.Sprintf("%-*s", labelW, label)) +
		spaceStyle.Render(" ") +
		ProgressBar(p, barWidth)
	if note != "" {
		out += spaceStyle.Render("  ") + noteStyle.Render(note)
	}
	return out
}
