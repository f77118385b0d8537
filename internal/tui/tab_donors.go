package tui

import (
	"fmt"
	"strings"

	"github.com/gkj-pamulang/panitia/internal/cli"
	"github.com/gkj-pamulang/panitia/internal/model"
	"github.com/gkj-pamulang/panitia/internal/tui/components"
	"github.com/gkj-pamulang/panitia/internal/tui/theme"

	"github.com/charmbracelet/lipgloss"
)

func (a App) renderDonorsTab(cw, h int) string {
	t := theme.Active
	v := a.snap.Donors
	c := v.Summary.Counts

	var b strings.Builder
	b.WriteString(renderBanner(v.Meta, cw))
	b.WriteString("\n")

	unknownNote := ""
	if c.Unknown > 0 {
		unknownNote = fmt.Sprintf("%d status tidak dikenal", c.Unknown)
	}
	b.WriteString(components.MetricCardRow([]components.Metric{
		{Label: "Donatur", Value: cli.FormatNumber(int64(c.Total)), Note: unknownNote},
		{Label: "Lunas", Value: cli.FormatNumber(int64(c.Paid)), Note: c.PaidPercent().String(), Color: t.Green},
		{Label: "Belum", Value: cli.FormatNumber(int64(c.Unpaid)), Note: c.UnpaidPercent().String(), Color: t.Orange},
		{Label: "Wilayah", Value: cli.FormatNumber(int64(len(v.Summary.Regions)))},
	}, cw))
	b.WriteString("\n")

	regions := v.Summary.Regions
	if len(regions) == 0 {
		muted := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
		b.WriteString(components.ContentCard("Per Wilayah", muted.Render("Belum ada data donatur."), cw))
		return b.String()
	}

	// Rows available inside the cards below the banner and metric row.
	listH := max(h-lipgloss.Height(b.String())-3, 3)

	widths := components.LayoutRow(cw, 2)
	if a.isCompactLayout() {
		widths = []int{cw * 2 / 5, cw - cw*2/5}
	}
	left := components.ContentCard("Per Wilayah", a.renderRegionList(regions, components.CardInnerWidth(widths[0]), listH), widths[0])
	sel := regions[min(a.donors.cursor, len(regions)-1)]
	right := components.ContentCard(
		fmt.Sprintf("%s · %d donatur", sel.Region, sel.Counts.Total),
		renderDonorList(sel.Donors, components.CardInnerWidth(widths[1]), listH),
		widths[1],
	)
	b.WriteString(components.CardRow([]string{left, right}))
	return b.String()
}

func (a App) renderRegionList(regions []model.RegionStats, w, h int) string {
	t := theme.Active
	rowStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)
	selStyle := lipgloss.NewStyle().Foreground(t.AccentBright).Background(t.SurfaceHover).Bold(true)
	pctStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)

	// Keep the cursor visible.
	start := 0
	if a.donors.cursor >= h {
		start = a.donors.cursor - h + 1
	}
	end := min(start+h, len(regions))

	lines := make([]string, 0, end-start)
	for i := start; i < end; i++ {
		r := regions[i]
		pct := r.Counts.PaidPercent().String()
		nameW := max(w-lipgloss.Width(pct)-3, 4)
		name := fmt.Sprintf("%-*s", nameW, truncStr(r.Region, nameW))
		if i == a.donors.cursor {
			lines = append(lines, selStyle.Render("▸ "+name)+pctStyle.Render(" "+pct))
		} else {
			lines = append(lines, rowStyle.Render("  "+name)+pctStyle.Render(" "+pct))
		}
	}
	return strings.Join(lines, "\n")
}

func renderDonorList(donors []model.DonorEntry, w, h int) string {
	t := theme.Active
	nameStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)
	paidStyle := lipgloss.NewStyle().Foreground(t.Green).Background(t.Surface).Bold(true)
	unpaidStyle := lipgloss.NewStyle().Foreground(t.Orange).Background(t.Surface).Bold(true)
	unknownStyle := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)

	nameW := max(w-8, 4)
	lines := make([]string, 0, min(len(donors), h))
	for i, d := range donors {
		if i == h-1 && len(donors) > h {
			lines = append(lines, unknownStyle.Render(fmt.Sprintf("… %d lainnya", len(donors)-i)))
			break
		}
		var badge string
		switch d.Status {
		case model.StatusPaid:
			badge = paidStyle.Render("LUNAS")
		case model.StatusUnpaid:
			badge = unpaidStyle.Render("BELUM")
		default:
			badge = unknownStyle.Render(truncStr(d.RawStatus, 6))
		}
		lines = append(lines, nameStyle.Render(fmt.Sprintf("%-*s ", nameW, truncStr(d.Name, nameW)))+badge)
	}
	return strings.Join(lines, "\n")
}
