package components

import (
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/gkj-pamulang/panitia/internal/feed"
	"github.com/gkj-pamulang/panitia/internal/model"
	"github.com/gkj-pamulang/panitia/internal/tui/theme"
)

func init() {
	// Force TrueColor output so ANSI codes are generated in tests
	lipgloss.SetColorProfile(termenv.TrueColor)
}

func TestLayoutRow(t *testing.T) {
	widths := LayoutRow(100, 3)
	if len(widths) != 3 || widths[0] != 34 || widths[1] != 33 || widths[2] != 33 {
		t.Fatalf("LayoutRow(100, 3) = %v", widths)
	}
	if LayoutRow(10, 0) != nil {
		t.Error("LayoutRow with n=0 should be nil")
	}
}

func TestCardRowBackgroundFill(t *testing.T) {
	theme.SetActive("flexoki-dark")

	shortCard := ContentCard("Short", "Content", 22)
	tallCard := ContentCard("Tall", "Line 1\nLine 2\nLine 3\nLine 4\nLine 5", 22)

	shortLines := lipgloss.Height(shortCard)
	tallLines := lipgloss.Height(tallCard)
	if shortLines >= tallLines {
		t.Fatal("test setup error: short card should be shorter than tall card")
	}

	joined := CardRow([]string{tallCard, shortCard})
	lines := strings.Split(joined, "\n")
	if len(lines) != tallLines {
		t.Fatalf("joined height = %d, want %d", len(lines), tallLines)
	}

	width := lipgloss.Width(lines[0])
	for i, line := range lines {
		if lipgloss.Width(line) != width {
			t.Errorf("line %d width = %d, want %d", i, lipgloss.Width(line), width)
		}
		if i >= shortLines && !strings.Contains(line, "\x1b[") {
			t.Errorf("padding line %d has no styling: %q", i, line)
		}
	}
}

func TestMetricCardRowWidth(t *testing.T) {
	row := MetricCardRow([]Metric{
		{Label: "Biaya", Value: "Rp 222 jt"},
		{Label: "Pemasukan", Value: "Rp 222 jt", Note: "100%"},
		{Label: "Selisih", Value: "Rp 0"},
	}, 90)
	for i, line := range strings.Split(row, "\n") {
		if w := lipgloss.Width(line); w != 90 {
			t.Errorf("line %d width = %d, want 90", i, w)
		}
	}
}

func TestTabVisualWidthMatchesRender(t *testing.T) {
	bar := RenderTabBar(0, 0)
	want := 0
	for i, tab := range Tabs {
		want += TabVisualWidth(tab)
		if i < len(Tabs)-1 {
			want++
		}
	}
	if got := lipgloss.Width(bar); got != want {
		t.Errorf("rendered tab width = %d, want %d", got, want)
	}
	if TabIdxByKey('3') != 2 || TabIdxByKey('x') != -1 {
		t.Error("TabIdxByKey mismatch")
	}
}

func TestProgressBar(t *testing.T) {
	out := ProgressBar(model.PercentOf(1, 2), 10)
	if !strings.Contains(out, "50.0%") {
		t.Errorf("ProgressBar = %q", out)
	}
	if out := ProgressBar(model.Percent{}, 10); !strings.Contains(out, "n/a") {
		t.Errorf("invalid ProgressBar = %q", out)
	}
	if ColorForPct(model.PercentOf(5, 5)) != theme.Active.Green {
		t.Error("complete progress should be green")
	}
}

func TestHorizontalBars(t *testing.T) {
	out := HorizontalBars([]Bar{
		{Label: "Lelang", Value: 100, Note: "Rp 100"},
		{Label: "Janji Iman", Value: 50, Note: "Rp 50"},
		{Label: "Kosong", Value: 0, Note: "Rp 0"},
	}, theme.Active.Blue, 40)

	lines := strings.Split(out, "\n")
	if len(lines) != 3 {
		t.Fatalf("got %d lines, want 3", len(lines))
	}
	full := strings.Count(lines[0], "█")
	half := strings.Count(lines[1], "█")
	if half == 0 || half >= full {
		t.Errorf("bars not proportional: %d vs %d", full, half)
	}
	if strings.Count(lines[2], "█") != 0 {
		t.Errorf("zero value drew a bar: %q", lines[2])
	}
	for i, l := range lines {
		if lipgloss.Width(l) != 40 {
			t.Errorf("line %d width = %d, want 40", i, lipgloss.Width(l))
		}
	}
}

func TestRenderStatusBar(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	out := RenderStatusBar(80, Status{
		State:       feed.StateFallback,
		LastRefresh: now.Add(-2 * time.Minute),
	}, now)
	if lipgloss.Width(out) != 80 {
		t.Errorf("status bar width = %d, want 80", lipgloss.Width(out))
	}
	for _, want := range []string{"fallback", "2m ago", "[q]uit"} {
		if !strings.Contains(out, want) {
			t.Errorf("status bar %q missing %q", out, want)
		}
	}
}
