package tui

import (
	"fmt"
	"strings"

	"github.com/gkj-pamulang/panitia/internal/cli"
	"github.com/gkj-pamulang/panitia/internal/feed"
	"github.com/gkj-pamulang/panitia/internal/model"
	"github.com/gkj-pamulang/panitia/internal/pager"
	"github.com/gkj-pamulang/panitia/internal/tui/components"
	"github.com/gkj-pamulang/panitia/internal/tui/theme"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// pledgeView is the list being shown: the search result when a query is
// active, otherwise the full snapshot list.
func (a App) pledgeView() feed.PledgeView {
	if a.pledges.result != nil {
		return *a.pledges.result
	}
	return a.snap.Pledges
}

func (a App) pledgePage() pager.Page {
	return pager.Paginate(len(a.pledgeView().Pledges), a.pledges.size, a.pledges.page)
}

func (a App) updatePledges(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	pg := a.pledgePage()
	switch msg.String() {
	case "/":
		a.pledges.searching = true
		a.pledges.input.SetValue(a.pledges.query)
		a.pledges.input.CursorEnd()
		return a, a.pledges.input.Focus()
	case "esc":
		if a.pledges.query != "" {
			a.clearPledgeSearch()
		}
	case "]", "n", "pgdown":
		if pg.Number < pg.Pages {
			a.pledges.page = pg.Number + 1
			a.pledges.cursor = 0
		}
	case "[", "p", "pgup":
		if pg.Number > 1 {
			a.pledges.page = pg.Number - 1
			a.pledges.cursor = 0
		}
	case "s":
		a.pledges.size = pager.NextSize(a.pledges.size)
		a.pledges.page = 1
		a.pledges.cursor = 0
	default:
		a.pledges.move(msg.String(), pg)
	}
	return a, nil
}

// updatePledgeSearch handles keys while the search input is focused.
// Every edit is submitted to the debouncer; only the newest result is
// ever applied.
func (a App) updatePledgeSearch(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		a.pledges.searching = false
		a.pledges.input.Blur()
		return a, nil
	case "esc":
		a.pledges.searching = false
		a.pledges.input.Blur()
		a.clearPledgeSearch()
		return a, nil
	}

	var cmd tea.Cmd
	a.pledges.input, cmd = a.pledges.input.Update(msg)

	if q := strings.TrimSpace(a.pledges.input.Value()); q != a.pledges.query {
		a.pledges.query = q
		a.pledges.pending = q != ""
		a.searcher.Submit(q)
		if q == "" {
			a.pledges.result = nil
			a.pledges.page = 1
			a.pledges.cursor = 0
		}
	}
	return a, cmd
}

func (a *App) clearPledgeSearch() {
	a.pledges.query = ""
	a.pledges.pending = false
	a.pledges.result = nil
	a.pledges.searchErr = ""
	a.pledges.page = 1
	a.pledges.cursor = 0
	a.pledges.input.SetValue("")
	// A new generation makes any in-flight result stale.
	a.searcher.Submit("")
}

func (a App) renderPledgesTab(cw int) string {
	t := theme.Active
	v := a.pledgeView()
	sum := v.Summary

	mutedStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	accentStyle := lipgloss.NewStyle().Foreground(t.Accent).Background(t.Surface).Bold(true)
	warnStyle := lipgloss.NewStyle().Foreground(t.Orange).Background(t.Surface)

	var b strings.Builder
	b.WriteString(renderBanner(v.Meta, cw))
	b.WriteString("\n")

	// Search line
	var search string
	switch {
	case a.pledges.searching:
		search = a.pledges.input.View()
	case a.pledges.query != "":
		search = mutedStyle.Render("Cari: ") + accentStyle.Render(a.pledges.query) + mutedStyle.Render("  [esc] hapus")
	default:
		search = mutedStyle.Render("[/] cari nama donatur")
	}
	if a.pledges.pending {
		search += mutedStyle.Render("  ") + a.spinner.View() + mutedStyle.Render(" mencari…")
	}
	if a.pledges.searchErr != "" {
		search += warnStyle.Render("  " + a.pledges.searchErr)
	}
	b.WriteString(lipgloss.NewStyle().Background(t.Surface).Width(cw).Padding(0, 1).Render(search))
	b.WriteString("\n")

	b.WriteString(components.MetricCardRow([]components.Metric{
		{Label: "Total Janji", Value: cli.FormatCompactRupiah(sum.Pledged), Note: fmt.Sprintf("%d donatur", sum.Donors)},
		{Label: "Terbayar", Value: cli.FormatCompactRupiah(sum.Paid), Note: sum.PaidPct.String(), Color: components.ColorForPct(sum.PaidPct)},
		{Label: "Sisa", Value: cli.FormatCompactRupiah(sum.Remaining)},
		{Label: "Lunas / Sebagian", Value: fmt.Sprintf("%d / %d", sum.Fully, sum.Partially)},
	}, cw))
	b.WriteString("\n")

	if len(v.Pledges) == 0 {
		msg := "Belum ada data janji iman."
		if a.pledges.query != "" {
			msg = fmt.Sprintf("Tidak ada donatur yang cocok dengan %q.", a.pledges.query)
		}
		b.WriteString(components.ContentCard("Daftar Janji Iman", mutedStyle.Render(msg), cw))
		return b.String()
	}

	pg := a.pledgePage()
	body := renderPledgeRows(v.Pledges[pg.Start:pg.End], pg.Start, a.pledges.cursor, components.CardInnerWidth(cw))
	body += "\n\n" + renderPageFooter(pg, a.pledges.size)
	b.WriteString(components.ContentCard("Daftar Janji Iman", body, cw))
	return b.String()
}

func renderPledgeRows(rows []model.PledgeEntry, offset, cursor, w int) string {
	t := theme.Active
	headStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface).Bold(true)
	rowStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)
	selStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.SurfaceHover).Bold(true)

	const numW, amtW, stateW, viaW = 4, 16, 9, 7
	nameW := max(w-numW-3*amtW-stateW-viaW-6, 8)
	format := fmt.Sprintf("%%%ds %%-%ds %%%ds %%%ds %%%ds %%-%ds %%-%ds", numW, nameW, amtW, amtW, amtW, stateW, viaW)

	lines := []string{headStyle.Render(fmt.Sprintf(format, "#", "Nama", "Janji", "Terbayar", "Sisa", "Status", "Via"))}
	for i, p := range rows {
		line := fmt.Sprintf(format,
			fmt.Sprintf("%d", offset+i+1),
			truncStr(p.Name, nameW),
			cli.FormatRupiah(p.Pledged),
			cli.FormatRupiah(p.Paid),
			cli.FormatRupiah(p.Remaining()),
			p.State().Label(),
			p.Channel.Label(),
		)
		if i == cursor {
			lines = append(lines, selStyle.Render(line))
		} else {
			lines = append(lines, rowStyle.Render(line))
		}
	}
	return strings.Join(lines, "\n")
}

func renderPageFooter(pg pager.Page, size int) string {
	t := theme.Active
	mutedStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	curStyle := lipgloss.NewStyle().Foreground(t.AccentBright).Background(t.Surface).Bold(true)
	numStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)

	from, to, of := pg.Showing()
	out := mutedStyle.Render(fmt.Sprintf("Menampilkan %d-%d dari %d  ·  ukuran %s  ·  ", from, to, of, pager.SizeLabel(size)))

	nums := make([]string, 0, 8)
	for _, n := range pager.Window(pg.Number, pg.Pages) {
		switch {
		case n == pager.Ellipsis:
			nums = append(nums, mutedStyle.Render("…"))
		case n == pg.Number:
			nums = append(nums, curStyle.Render(fmt.Sprintf("[%d]", n)))
		default:
			nums = append(nums, numStyle.Render(fmt.Sprintf("%d", n)))
		}
	}
	return out + strings.Join(nums, mutedStyle.Render(" "))
}
