package tui

import (
	"context"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gkj-pamulang/panitia/internal/feed"
	"github.com/gkj-pamulang/panitia/internal/fetch"
	"github.com/gkj-pamulang/panitia/internal/search"
	"github.com/gkj-pamulang/panitia/internal/sheet"
	"github.com/gkj-pamulang/panitia/internal/tui/components"
)

// newTestApp builds an app over the bundled dataset; no source URLs are
// configured so nothing touches the network.
func newTestApp(t *testing.T) (App, *feed.Refresher) {
	t.Helper()
	loader := feed.NewLoader(fetch.NewClient(), feed.Sources{}, sheet.Mapper{}, nil, nil)
	r := feed.NewRefresher(loader, time.Minute, nil)
	a := NewApp(Options{Refresher: r, Debounce: time.Hour, MarkdownStyle: "notty"})
	t.Cleanup(a.Close)
	return a, r
}

func step(t *testing.T, a App, msg tea.Msg) App {
	t.Helper()
	m, _ := a.Update(msg)
	next, ok := m.(App)
	require.True(t, ok)
	return next
}

func TestTabAtXMatchesTabWidths(t *testing.T) {
	a := App{}
	pos := 0
	for i, tab := range components.Tabs {
		w := components.TabVisualWidth(tab)
		if got := a.tabAtX(pos + w/2); got != i {
			t.Fatalf("x=%d -> tab=%d, want %d", pos+w/2, got, i)
		}
		pos += w
		if got := a.tabAtX(pos); i < len(components.Tabs)-1 && got != -1 {
			t.Fatalf("separator at x=%d -> tab=%d, want -1", pos, got)
		}
		pos++
	}
	if got := a.tabAtX(pos + 50); got != -1 {
		t.Errorf("x past the last tab -> %d, want -1", got)
	}
}

func TestSnapshotsApplyInOrder(t *testing.T) {
	a, r := newTestApp(t)
	require.False(t, a.loaded)

	first := r.Refresh(context.Background())
	a = step(t, a, SnapshotMsg{Snap: first})
	require.True(t, a.loaded)
	assert.Equal(t, first.Seq, a.snap.Seq)
	assert.Equal(t, feed.StateStatic, a.snap.Funding.State)

	second := r.Refresh(context.Background())
	a = step(t, a, SnapshotMsg{Snap: second})
	assert.Same(t, second, a.snap)

	// A late delivery of the older snapshot must not win.
	a = step(t, a, SnapshotMsg{Snap: first})
	assert.Same(t, second, a.snap)
}

func TestStaleSearchResultIgnored(t *testing.T) {
	a, r := newTestApp(t)
	a = step(t, a, SnapshotMsg{Snap: r.Refresh(context.Background())})

	old := a.searcher.Submit("bud")
	latest := a.searcher.Submit("budi")

	a = step(t, a, searchResultMsg{ok: true, res: search.Result[feed.PledgeView]{
		Gen: old, Query: "bud", Value: feed.PledgeView{Query: "bud"},
	}})
	assert.Nil(t, a.pledges.result, "stale generation applied")

	a = step(t, a, searchResultMsg{ok: true, res: search.Result[feed.PledgeView]{
		Gen: latest, Query: "budi", Value: feed.PledgeView{Query: "budi"},
	}})
	require.NotNil(t, a.pledges.result)
	assert.Equal(t, "budi", a.pledges.result.Query)
	assert.Equal(t, "budi", a.pledgeView().Query)
}

func TestTabKeys(t *testing.T) {
	a, r := newTestApp(t)
	a = step(t, a, SnapshotMsg{Snap: r.Refresh(context.Background())})

	a = step(t, a, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'3'}})
	assert.Equal(t, tabPledges, a.activeTab)
	a = step(t, a, tea.KeyMsg{Type: tea.KeyRight})
	assert.Equal(t, tabTimeline, a.activeTab)
	a = step(t, a, tea.KeyMsg{Type: tea.KeyRight})
	assert.Equal(t, tabFunding, a.activeTab)
}

func TestViewRendersEveryTab(t *testing.T) {
	a, r := newTestApp(t)
	a = step(t, a, SnapshotMsg{Snap: r.Refresh(context.Background())})
	a = step(t, a, tea.WindowSizeMsg{Width: 140, Height: 45})

	want := []string{"Total Biaya", "Donatur", "Janji Iman", "Tahap saat ini"}
	for i := range components.Tabs {
		a.activeTab = i
		view := a.View()
		assert.Contains(t, view, want[i], "tab %d", i)
		assert.Len(t, strings.Split(view, "\n"), 45, "tab %d height", i)
	}
}

func TestPageSizeCycle(t *testing.T) {
	a, r := newTestApp(t)
	a = step(t, a, SnapshotMsg{Snap: r.Refresh(context.Background())})
	a.activeTab = tabPledges

	start := a.pledges.size
	a = step(t, a, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'s'}})
	assert.NotEqual(t, start, a.pledges.size)
	assert.Equal(t, 1, a.pledges.page)
}
