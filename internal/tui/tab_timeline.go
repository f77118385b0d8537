package tui

import (
	"fmt"
	"strings"

	"github.com/gkj-pamulang/panitia/internal/content"
	"github.com/gkj-pamulang/panitia/internal/tui/theme"

	"github.com/charmbracelet/bubbles/viewport"
	"github.com/charmbracelet/lipgloss"
)

// timelineChrome is the number of lines above the viewport: the tab bar,
// the status bar and the current-stage line.
const timelineChrome = 3

// syncTimeline renders the timeline documents into the viewport after the
// terminal size or the static dataset changed.
func (a *App) syncTimeline() {
	if a.timeline.rendered || a.width == 0 || a.timeline.dataset == nil {
		return
	}
	a.timeline.err = ""
	cw := a.contentWidth()
	h := max(a.height-timelineChrome, minContentHeight)

	style := a.timeline.style
	if style == "" || style == "auto" {
		style = "dark"
		if theme.Active.Name == theme.FlexokiLight.Name {
			style = "light"
		}
	}

	offset := a.timeline.viewport.YOffset
	vp := viewport.New(cw, h)

	term, err := content.NewTerminal(cw-2, style)
	if err != nil {
		a.timeline.err = err.Error()
	} else {
		ds := a.timeline.dataset
		var doc strings.Builder
		for _, src := range []string{
			content.TimelineMarkdown(ds),
			content.CommitteeMarkdown(ds),
			content.CandidateMarkdown(ds),
		} {
			out, err := term.Render(src)
			if err != nil {
				a.timeline.err = err.Error()
				break
			}
			doc.WriteString(out)
		}
		if a.timeline.err == "" {
			vp.SetContent(doc.String())
		}
	}
	vp.SetYOffset(offset)

	a.timeline.viewport = vp
	a.timeline.rendered = true
}

func (a App) renderTimelineTab(cw, h int) string {
	t := theme.Active
	lineStyle := lipgloss.NewStyle().Background(t.Surface).Width(cw).Padding(0, 1)
	labelStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	stageStyle := lipgloss.NewStyle().Foreground(t.AccentBright).Background(t.Surface).Bold(true)

	if a.timeline.err != "" {
		warn := lipgloss.NewStyle().Foreground(t.Red).Background(t.Surface)
		return lineStyle.Render(warn.Render("Gagal menampilkan timeline: " + a.timeline.err))
	}

	head := labelStyle.Render("Tahap saat ini: ")
	if ds := a.timeline.dataset; ds != nil {
		if st, ok := ds.CurrentStage(); ok {
			head += stageStyle.Render(st.Title) + labelStyle.Render("  ·  "+st.Date)
		} else {
			head += labelStyle.Render("-")
		}
	}
	pct := labelStyle.Render("  ·  " + fmt.Sprintf("%.0f%%", a.timeline.viewport.ScrollPercent()*100))

	return lineStyle.Render(head+pct) + "\n" + truncateHeight(a.timeline.viewport.View(), h-1)
}
