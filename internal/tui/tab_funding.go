package tui

import (
	"strings"

	"github.com/gkj-pamulang/panitia/internal/cli"
	"github.com/gkj-pamulang/panitia/internal/tui/components"
	"github.com/gkj-pamulang/panitia/internal/tui/theme"

	"github.com/charmbracelet/lipgloss"
)

func (a App) renderFundingTab(cw int) string {
	t := theme.Active
	v := a.snap.Funding
	sum := v.Summary

	var b strings.Builder
	b.WriteString(renderBanner(v.Meta, cw))
	b.WriteString("\n")

	balanceColor := t.Green
	balanceNote := "tercukupi"
	if sum.Shortfall() {
		balanceColor = t.Red
		balanceNote = "kekurangan dana"
	}
	metrics := []components.Metric{
		{Label: "Total Biaya", Value: cli.FormatCompactRupiah(sum.TotalCosts), Note: cli.FormatRupiah(sum.TotalCosts)},
		{Label: "Rencana Pemasukan", Value: cli.FormatCompactRupiah(sum.TotalIncome), Note: "cakupan " + sum.CoveragePct.String()},
		{Label: "Selisih", Value: cli.FormatCompactRupiah(sum.Balance), Note: balanceNote, Color: balanceColor},
	}
	if sum.HasRealized {
		metrics = append(metrics, components.Metric{
			Label: "Terealisasi",
			Value: cli.FormatCompactRupiah(sum.TotalRealized),
			Note:  sum.RealizedPct.String() + " dari rencana",
			Color: components.ColorForPct(sum.RealizedPct),
		})
	}
	b.WriteString(components.MetricCardRow(metrics, cw))
	b.WriteString("\n")

	costBars := make([]components.Bar, len(sum.Costs))
	for i, c := range sum.Costs {
		costBars[i] = components.Bar{Label: c.Category, Value: c.Amount, Note: cli.FormatCompactRupiah(c.Amount)}
	}
	incomeBars := make([]components.Bar, len(sum.Income))
	for i, c := range sum.Income {
		incomeBars[i] = components.Bar{
			Label: c.Category,
			Value: c.Target,
			Note:  cli.FormatCompactRupiah(c.Target) + " " + c.SharePct.String(),
		}
	}

	if a.isCompactLayout() {
		inner := components.CardInnerWidth(cw)
		b.WriteString(components.ContentCard("Rincian Biaya", components.HorizontalBars(costBars, t.Orange, inner), cw))
		b.WriteString("\n")
		b.WriteString(components.ContentCard("Sumber Dana", components.HorizontalBars(incomeBars, t.Blue, inner), cw))
	} else {
		halves := components.LayoutRow(cw, 2)
		b.WriteString(components.CardRow([]string{
			components.ContentCard("Rincian Biaya",
				components.HorizontalBars(costBars, t.Orange, components.CardInnerWidth(halves[0])), halves[0]),
			components.ContentCard("Sumber Dana",
				components.HorizontalBars(incomeBars, t.Blue, components.CardInnerWidth(halves[1])), halves[1]),
		}))
	}
	b.WriteString("\n")

	inner := components.CardInnerWidth(cw)
	labelW := 18
	barW := max(inner-labelW-24, 10)
	var progress strings.Builder
	progress.WriteString(components.LabeledBar("Cakupan rencana", sum.CoveragePct,
		cli.FormatRupiah(sum.TotalIncome), labelW, barW))
	if sum.HasRealized {
		progress.WriteString("\n")
		progress.WriteString(components.LabeledBar("Realisasi", sum.RealizedPct,
			cli.FormatRupiah(sum.TotalRealized), labelW, barW))
		for _, c := range sum.Income {
			progress.WriteString("\n")
			progress.WriteString(components.LabeledBar("  "+truncStr(c.Category, labelW-2), c.RealizedPct,
				cli.FormatCompactRupiah(c.Realized), labelW, barW))
		}
	}
	b.WriteString(components.ContentCard("Progres Dana", progress.String(), cw))

	return lipgloss.NewStyle().Background(t.Background).Render(b.String())
}
