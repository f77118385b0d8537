package components

import (
	"fmt"
	"strings"

	"github.com/gkj-pamulang/panitia/internal/tui/theme"

	"github.com/charmbracelet/lipgloss"
)

// Tab represents a single tab in the tab bar.
type Tab struct {
	Name string
	Key  rune
}

// Tabs defines all available tabs, in display order.
var Tabs = []Tab{
	{Name: "Dana", Key: '1'},
	{Name: "Donatur", Key: '2'},
	{Name: "Janji Iman", Key: '3'},
	{Name: "Timeline", Key: '4'},
}

// TabLabel is the text of a tab without padding.
func TabLabel(tab Tab) string {
	return fmt.Sprintf("%c %s", tab.Key, tab.Name)
}

// TabVisualWidth is the rendered width of a tab, padding included.
// The separator between tabs is one extra column.
func TabVisualWidth(tab Tab) int {
	return lipgloss.Width(TabLabel(tab)) + 2
}

// RenderTabBar renders the tab bar with the given active index.
func RenderTabBar(activeIdx int, width int) string {
	t := theme.Active

	activeStyle := lipgloss.NewStyle().
		Foreground(t.AccentBright).
		Background(t.SurfaceHover).
		Bold(true).
		Padding(0, 1)

	inactiveStyle := lipgloss.NewStyle().
		Foreground(t.TextMuted).
		Background(t.Surface).
		Padding(0, 1)

	sepStyle := lipgloss.NewStyle().
		Foreground(t.Border).
		Background(t.Surface)

	parts := make([]string, 0, len(Tabs))
	for i, tab := range Tabs {
		if i == activeIdx {
			parts = append(parts, activeStyle.Render(TabLabel(tab)))
		} else {
			parts = append(parts, inactiveStyle.Render(TabLabel(tab)))
		}
	}
	row := strings.Join(parts, sepStyle.Render("│"))

	return lipgloss.NewStyle().
		Background(t.Surface).
		Width(width).
		Render(row)
}

// TabIdxByKey returns the tab index for a given key press, or -1.
func TabIdxByKey(key rune) int {
	for i, tab := range Tabs {
		if tab.Key == key {
			return i
		}
	}
	return -1
}
