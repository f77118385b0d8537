package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/gkj-pamulang/panitia/internal/feed"
	"github.com/gkj-pamulang/panitia/internal/model"
)

// Theme colors (Flexoki Dark)
var (
	ColorBorder    = lipgloss.Color("#282726")
	ColorTextDim   = lipgloss.Color("#575653")
	ColorTextMuted = lipgloss.Color("#6F6E69")
	ColorText      = lipgloss.Color("#FFFCF0")
	ColorAccent    = lipgloss.Color("#3AA99F")
	ColorGreen     = lipgloss.Color("#879A39")
	ColorOrange    = lipgloss.Color("#DA702C")
	ColorRed       = lipgloss.Color("#D14D41")
	ColorBlue      = lipgloss.Color("#4385BE")
)

// Styles
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorText).
			Align(lipgloss.Center)

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorAccent)

	valueStyle = lipgloss.NewStyle().
			Foreground(ColorText)

	mutedStyle = lipgloss.NewStyle().
			Foreground(ColorTextMuted)

	dimStyle = lipgloss.NewStyle().
			Foreground(ColorTextDim)
)

// Separator is a table row that renders as a horizontal rule.
var Separator = []string{"---"}

// Table represents a bordered text table for CLI output.
// The first column is left-aligned, the rest right-aligned unless
// LeftCols says otherwise.
type Table struct {
	Title    string
	Headers  []string
	Rows     [][]string
	LeftCols int // number of leading left-aligned columns, default 1
}

// RenderTitle renders a centered title bar in a bordered box.
func RenderTitle(title string) string {
	border := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorBorder).
		Width(55).
		Align(lipgloss.Center).
		Padding(0, 1)

	return border.Render(titleStyle.Render(title))
}

func isSeparator(row []string) bool {
	return len(row) == 1 && row[0] == Separator[0]
}

// RenderTable renders a bordered table with headers and rows.
func RenderTable(t Table) string {
	numCols := len(t.Headers)
	if numCols == 0 {
		for _, row := range t.Rows {
			if !isSeparator(row) {
				numCols = len(row)
				break
			}
		}
	}
	if numCols == 0 {
		return ""
	}
	left := t.LeftCols
	if left < 1 {
		left = 1
	}

	widths := make([]int, numCols)
	for i, h := range t.Headers {
		widths[i] = lipgloss.Width(h)
	}
	for _, row := range t.Rows {
		if isSeparator(row) {
			continue
		}
		for i, cell := range row {
			if i < numCols {
				widths[i] = max(widths[i], lipgloss.Width(cell))
			}
		}
	}

	rule := func(l, mid, r string) string {
		parts := make([]string, numCols)
		for i, w := range widths {
			parts[i] = strings.Repeat("─", w+2)
		}
		return dimStyle.Render(l+strings.Join(parts, mid)+r) + "\n"
	}
	line := func(cells []string, style lipgloss.Style, header bool) string {
		var b strings.Builder
		b.WriteString(dimStyle.Render("│"))
		for i := 0; i < numCols; i++ {
			cell := ""
			if i < len(cells) {
				cell = cells[i]
			}
			pad := strings.Repeat(" ", widths[i]-lipgloss.Width(cell))
			if header || i < left {
				cell = cell + pad
			} else {
				cell = pad + cell
			}
			b.WriteString(style.Render(" " + cell + " "))
			b.WriteString(dimStyle.Render("│"))
		}
		b.WriteString("\n")
		return b.String()
	}

	var b strings.Builder
	if t.Title != "" {
		b.WriteString("  ")
		b.WriteString(headerStyle.Render(t.Title))
		b.WriteString("\n")
	}

	b.WriteString(rule("╭", "┬", "╮"))
	if len(t.Headers) > 0 {
		b.WriteString(line(t.Headers, headerStyle, true))
		b.WriteString(rule("├", "┼", "┤"))
	}
	for _, row := range t.Rows {
		if isSeparator(row) {
			b.WriteString(rule("├", "┼", "┤"))
			continue
		}
		b.WriteString(line(row, valueStyle, false))
	}
	b.WriteString(rule("╰", "┴", "╯"))

	return b.String()
}

// RenderBar renders a proportional bar of at most width cells.
func RenderBar(value, maxValue int64, width int) string {
	if maxValue <= 0 || width <= 0 || value <= 0 {
		return ""
	}
	n := int(float64(value) / float64(maxValue) * float64(width))
	n = min(max(n, 1), width)
	return strings.Repeat("█", n)
}

// RenderProgress renders a text progress bar for a percentage.
func RenderProgress(p model.Percent, width int) string {
	filled := int(p.Fraction() * float64(width))
	filled = min(max(filled, 0), width)
	bar := strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
	return fmt.Sprintf("[%s] %s", mutedStyle.Render(bar), p.String())
}

// StateColor is the color used for a data state.
func StateColor(s feed.State) lipgloss.Color {
	switch s {
	case feed.StateLive:
		return ColorGreen
	case feed.StateStatic:
		return ColorBlue
	case feed.StateFallback:
		return ColorOrange
	default:
		return ColorRed
	}
}

// RenderBanner renders the data-state notice of a view.
func RenderBanner(m feed.Meta) string {
	style := lipgloss.NewStyle().Foreground(StateColor(m.State))
	msg := "● " + m.State.Banner()
	if m.Err != "" && m.State != feed.StateLive {
		msg += mutedStyle.Render("  (" + m.Err + ")")
	}
	if m.Dropped > 0 {
		msg += mutedStyle.Render(fmt.Sprintf("  %d baris dilewati", m.Dropped))
	}
	return "  " + style.Render(msg)
}
