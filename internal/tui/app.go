// Package tui provides the interactive Bubble Tea dashboard for panitia.
package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/gkj-pamulang/panitia/internal/feed"
	"github.com/gkj-pamulang/panitia/internal/pager"
	"github.com/gkj-pamulang/panitia/internal/search"
	"github.com/gkj-pamulang/panitia/internal/static"
	"github.com/gkj-pamulang/panitia/internal/tui/components"
	"github.com/gkj-pamulang/panitia/internal/tui/theme"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
)

// SnapshotMsg carries a newly loaded snapshot.
type SnapshotMsg struct {
	Snap *feed.Snapshot
}

// searchResultMsg carries a debounced pledge search result. ok is false
// once the debouncer has been closed.
type searchResultMsg struct {
	res search.Result[feed.PledgeView]
	ok  bool
}

type tickMsg struct{}

const (
	tabFunding = iota
	tabDonors
	tabPledges
	tabTimeline
)

const (
	minTerminalWidth = 80
	compactWidth     = 120
	maxContentWidth  = 180

	minContentHeight = 5 // minimum content area height
)

// Options wires the dashboard to its data.
type Options struct {
	Refresher     *feed.Refresher
	Updates       <-chan *feed.Snapshot
	Debounce      time.Duration
	MarkdownStyle string
	ConfigPath    string
	NeedSetup     bool
}

// App is the root Bubble Tea model.
type App struct {
	// Data
	refresher   *feed.Refresher
	updates     <-chan *feed.Snapshot
	searcher    *search.Debouncer[feed.PledgeView]
	snap        *feed.Snapshot
	loaded      bool
	refreshing  bool
	lastRefresh time.Time
	now         func() time.Time

	// UI state
	width     int
	height    int
	activeTab int
	showHelp  bool
	notice    string

	// Per-tab state
	donors   donorsState
	pledges  pledgesState
	timeline timelineState

	// First-run setup (huh form)
	setupForm  *huh.Form
	setupVals  *SetupValues
	needSetup  bool
	configPath string

	spinner spinner.Model
}

// NewApp creates a new TUI app model.
func NewApp(opts Options) App {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(theme.Active.Accent).Background(theme.Active.Surface)

	r := opts.Refresher
	searcher := search.New(opts.Debounce, func(ctx context.Context, q string) (feed.PledgeView, error) {
		snap := r.Current()
		if snap == nil {
			return feed.PledgeView{}, errors.New("tui: no data loaded yet")
		}
		return r.Loader().SearchPledges(ctx, snap.Pledges, q), nil
	})

	a := App{
		refresher:  r,
		updates:    opts.Updates,
		searcher:   searcher,
		now:        time.Now,
		needSetup:  opts.NeedSetup,
		configPath: opts.ConfigPath,
		spinner:    sp,
		pledges:    newPledgesState(),
		timeline:   timelineState{style: opts.MarkdownStyle},
	}
	if snap := r.Current(); snap != nil {
		a.applySnapshot(snap)
	}
	return a
}

// Close stops background search work. Call it after the program exits.
func (a App) Close() {
	a.searcher.Close()
}

// Init implements tea.Model.
func (a App) Init() tea.Cmd {
	cmds := []tea.Cmd{
		tea.EnableMouseCellMotion,
		a.spinner.Tick,
		tickCmd(),
		waitForSearch(a.searcher.Results()),
	}
	if a.updates != nil {
		cmds = append(cmds, waitForSnapshot(a.updates))
	}
	return tea.Batch(cmds...)
}

func (a *App) applySnapshot(snap *feed.Snapshot) {
	prevDS := a.timeline.dataset
	a.snap = snap
	a.loaded = true
	a.refreshing = false
	a.lastRefresh = snap.LoadedAt

	if n := len(snap.Donors.Summary.Regions); a.donors.cursor >= n {
		a.donors.cursor = max(n-1, 0)
	}
	if ds := a.refresher.Loader().Dataset(); ds != prevDS {
		a.timeline.dataset = ds
		a.timeline.rendered = false
	}
}

// Update implements tea.Model.
func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	m, cmd := a.update(msg)
	next, ok := m.(App)
	if !ok {
		return m, cmd
	}
	next.syncTimeline()
	return next, cmd
}

func (a App) update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		if a.setupForm != nil {
			a.setupForm = a.setupForm.WithWidth(msg.Width).WithHeight(msg.Height)
		}
		a.timeline.rendered = false
		return a, nil

	case tea.MouseMsg:
		if !a.loaded || a.showHelp || a.setupForm != nil {
			return a, nil
		}
		return a.updateMouse(msg)

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return a, tea.Quit
		}
		if a.setupForm != nil {
			return a.updateSetupForm(msg)
		}
		if !a.loaded {
			return a, nil
		}
		return a.updateKey(msg)

	case SnapshotMsg:
		cmds := []tea.Cmd{}
		if a.updates != nil {
			cmds = append(cmds, waitForSnapshot(a.updates))
		}
		if msg.Snap == nil || (a.snap != nil && msg.Snap.Seq <= a.snap.Seq) {
			a.refreshing = false
			return a, tea.Batch(cmds...)
		}
		first := !a.loaded
		a.applySnapshot(msg.Snap)

		// Re-run an active search against the new data.
		if a.pledges.query != "" {
			a.pledges.pending = true
			a.searcher.Submit(a.pledges.query)
		}

		if first && a.needSetup {
			cmds = append(cmds, a.openSetup())
		}
		return a, tea.Batch(cmds...)

	case searchResultMsg:
		if !msg.ok {
			return a, nil
		}
		if msg.res.Gen == a.searcher.Latest() {
			a.pledges.applyResult(msg.res)
		}
		return a, waitForSearch(a.searcher.Results())

	case spinner.TickMsg:
		var cmd tea.Cmd
		a.spinner, cmd = a.spinner.Update(msg)
		return a, cmd

	case tickMsg:
		return a, tickCmd()
	}

	// Forward unhandled messages to the setup form (cursor blinks, etc.)
	if a.setupForm != nil {
		return a.updateSetupForm(msg)
	}
	if a.pledges.searching {
		var cmd tea.Cmd
		a.pledges.input, cmd = a.pledges.input.Update(msg)
		return a, cmd
	}
	return a, nil
}

func (a App) updateKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()

	// Pledge search input intercepts all keys when active
	if a.activeTab == tabPledges && a.pledges.searching {
		return a.updatePledgeSearch(msg)
	}

	if key == "?" {
		a.showHelp = !a.showHelp
		return a, nil
	}
	if a.showHelp {
		a.showHelp = false
		return a, nil
	}

	switch key {
	case "q":
		return a, tea.Quit
	case "r":
		if !a.refreshing {
			a.refreshing = true
			a.notice = ""
			return a, refreshCmd(a.refresher)
		}
		return a, nil
	case "S":
		cmd := a.openSetup()
		return a, cmd
	case "tab", "right":
		a.activeTab = (a.activeTab + 1) % len(components.Tabs)
		return a, nil
	case "shift+tab", "left":
		a.activeTab = (a.activeTab - 1 + len(components.Tabs)) % len(components.Tabs)
		return a, nil
	}
	if len(msg.Runes) == 1 {
		if idx := components.TabIdxByKey(msg.Runes[0]); idx >= 0 {
			a.activeTab = idx
			return a, nil
		}
	}

	switch a.activeTab {
	case tabDonors:
		a.donors.update(key, len(a.snap.Donors.Summary.Regions))
		return a, nil
	case tabPledges:
		return a.updatePledges(msg)
	case tabTimeline:
		var cmd tea.Cmd
		a.timeline.viewport, cmd = a.timeline.viewport.Update(msg)
		return a, cmd
	}
	return a, nil
}

func (a App) updateMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	switch msg.Button {
	case tea.MouseButtonLeft:
		if msg.Action == tea.MouseActionPress && msg.Y == 0 {
			if tab := a.tabAtX(msg.X); tab >= 0 {
				a.activeTab = tab
			}
		}
	case tea.MouseButtonWheelUp, tea.MouseButtonWheelDown:
		key := "down"
		if msg.Button == tea.MouseButtonWheelUp {
			key = "up"
		}
		switch a.activeTab {
		case tabDonors:
			a.donors.update(key, len(a.snap.Donors.Summary.Regions))
		case tabPledges:
			a.pledges.move(key, a.pledgePage())
		case tabTimeline:
			var cmd tea.Cmd
			a.timeline.viewport, cmd = a.timeline.viewport.Update(msg)
			return a, cmd
		}
	}
	return a, nil
}

func (a *App) openSetup() tea.Cmd {
	vals := SetupValuesFrom(loadConfigOrDefault(a.configPath))
	a.setupVals = &vals
	a.setupForm = NewSetupForm(a.setupVals)
	if a.width > 0 {
		a.setupForm = a.setupForm.WithWidth(a.width).WithHeight(a.height)
	}
	return a.setupForm.Init()
}

func (a App) updateSetupForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	form, cmd := a.setupForm.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		a.setupForm = f
	}

	switch a.setupForm.State {
	case huh.StateCompleted:
		if err := saveSetup(a.configPath, *a.setupVals); err != nil {
			a.notice = "Gagal menyimpan konfigurasi: " + err.Error()
		} else {
			a.notice = "Konfigurasi disimpan. Jalankan ulang untuk memakai sumber baru."
		}
		a.needSetup = false
		a.setupForm = nil
		a.timeline.rendered = false
		return a, nil
	case huh.StateAborted:
		a.needSetup = false
		a.setupForm = nil
		return a, nil
	}
	return a, cmd
}

func (a App) contentWidth() int {
	return min(a.width, maxContentWidth)
}

func (a App) isCompactLayout() bool {
	return a.contentWidth() < compactWidth
}

// View implements tea.Model.
func (a App) View() string {
	if a.width == 0 {
		return ""
	}
	if a.width < minTerminalWidth {
		return a.viewTooNarrow()
	}
	if a.setupForm != nil {
		return a.setupForm.View()
	}
	if !a.loaded {
		return a.viewLoading()
	}
	if a.showHelp {
		return a.viewHelp()
	}
	return a.viewMain()
}

func (a App) viewTooNarrow() string {
	h := max(a.height, 5)
	msg := fmt.Sprintf(
		"\n  Terminal too narrow (%d cols)\n\n  panitia needs at least %d columns.\n",
		a.width,
		minTerminalWidth,
	)
	return padHeight(truncateHeight(msg, h), h)
}

func (a App) viewLoading() string {
	t := theme.Active

	cardStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.BorderAccent).
		Background(t.Surface).
		Padding(2, 4)

	logoStyle := lipgloss.NewStyle().
		Foreground(t.AccentBright).
		Background(t.Surface).
		Bold(true)

	subtitleStyle := lipgloss.NewStyle().
		Foreground(t.TextMuted).
		Background(t.Surface)

	var b strings.Builder
	b.WriteString(logoStyle.Render("✝ panitia"))
	b.WriteString(subtitleStyle.Render(" · Pemanggilan Pendeta"))
	b.WriteString("\n\n")
	b.WriteString(a.spinner.View())
	b.WriteString(subtitleStyle.Render(" Memuat spreadsheet..."))

	return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center, cardStyle.Render(b.String()),
		lipgloss.WithWhitespaceBackground(t.Background))
}

func (a App) viewHelp() string {
	t := theme.Active

	cardStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.BorderAccent).
		Background(t.Surface).
		Padding(1, 3)

	titleStyle := lipgloss.NewStyle().Foreground(t.AccentBright).Background(t.Surface).Bold(true)
	sectionStyle := lipgloss.NewStyle().Foreground(t.Accent).Background(t.Surface).Bold(true)
	keyStyle := lipgloss.NewStyle().Foreground(t.Cyan).Background(t.Surface).Bold(true)
	descStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	dimStyle := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)

	sections := []struct {
		title    string
		bindings []struct{ key, desc string }
	}{
		{"Navigation", []struct{ key, desc string }{
			{"1 2 3 4", "Jump to tab"},
			{"← → tab", "Previous / Next tab"},
			{"j k", "Move selection / scroll"},
		}},
		{"Janji Iman", []struct{ key, desc string }{
			{"/", "Search by name"},
			{"Esc", "Clear search"},
			{"[ ]", "Previous / Next page"},
			{"s", "Cycle page size"},
		}},
		{"Actions", []struct{ key, desc string }{
			{"r", "Refresh now"},
			{"S", "Setup wizard"},
			{"?", "Toggle help"},
			{"q", "Quit"},
		}},
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("✝ Keyboard Shortcuts"))
	b.WriteString("\n")
	for _, sec := range sections {
		b.WriteString("\n")
		b.WriteString(sectionStyle.Render(sec.title))
		b.WriteString("\n")
		for _, bind := range sec.bindings {
			fmt.Fprintf(&b, "  %s  %s\n",
				keyStyle.Render(fmt.Sprintf("%-10s", bind.key)),
				descStyle.Render(bind.desc))
		}
	}
	b.WriteString("\n")
	b.WriteString(dimStyle.Render("Press any key to close"))

	return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center, cardStyle.Render(b.String()),
		lipgloss.WithWhitespaceBackground(t.Background))
}

// activeState is the data state of the view on the active tab.
func (a App) activeState() feed.State {
	switch a.activeTab {
	case tabFunding:
		return a.snap.Funding.State
	case tabDonors:
		return a.snap.Donors.State
	case tabPledges:
		return a.pledgeView().State
	default:
		return feed.StateStatic
	}
}

func (a App) viewMain() string {
	t := theme.Active
	w := a.width
	cw := a.contentWidth()
	h := a.height

	header := components.RenderTabBar(a.activeTab, w)

	hint := ""
	switch a.activeTab {
	case tabPledges:
		hint = "[/]cari  [ ]halaman  [s]ukuran"
	case tabTimeline:
		hint = "[j/k]gulir"
	}
	if a.notice != "" {
		hint = a.notice
	}
	statusBar := components.RenderStatusBar(w, components.Status{
		State:       a.activeState(),
		LastRefresh: a.lastRefresh,
		Refreshing:  a.refreshing,
		Hint:        hint,
	}, a.now())

	contentH := max(h-lipgloss.Height(header)-lipgloss.Height(statusBar), minContentHeight)

	var content string
	switch a.activeTab {
	case tabFunding:
		content = a.renderFundingTab(cw)
	case tabDonors:
		content = a.renderDonorsTab(cw, contentH)
	case tabPledges:
		content = a.renderPledgesTab(cw)
	case tabTimeline:
		content = a.renderTimelineTab(cw, contentH)
	}

	content = padHeight(truncateHeight(content, contentH), contentH)
	content = fillLinesWithBackground(content, cw, t.Background)
	content = lipgloss.Place(w, contentH, lipgloss.Center, lipgloss.Top, content,
		lipgloss.WithWhitespaceBackground(t.Background))

	output := lipgloss.JoinVertical(lipgloss.Left, header, content, statusBar)
	return lipgloss.Place(w, h, lipgloss.Left, lipgloss.Top, output,
		lipgloss.WithWhitespaceBackground(t.Background))
}

// renderBanner renders the data-state notice shown above a view.
func renderBanner(m feed.Meta, width int) string {
	t := theme.Active
	style := lipgloss.NewStyle().
		Foreground(components.StateColor(m.State)).
		Background(t.Surface).
		Width(width).
		Padding(0, 1)

	msg := "● " + m.State.Banner()
	if m.Dropped > 0 {
		msg += fmt.Sprintf("  ·  %d baris dilewati", m.Dropped)
	}
	if m.Short > 0 {
		msg += fmt.Sprintf("  ·  %d baris tidak lengkap", m.Short)
	}
	return style.Render(truncStr(msg, width-2))
}

// ─── Helpers ────────────────────────────────────────────────────

func tickCmd() tea.Cmd {
	return tea.Tick(time.Second, func(time.Time) tea.Msg {
		return tickMsg{}
	})
}

// waitForSnapshot blocks until the refresher publishes a snapshot.
func waitForSnapshot(ch <-chan *feed.Snapshot) tea.Cmd {
	return func() tea.Msg {
		return SnapshotMsg{Snap: <-ch}
	}
}

// waitForSearch blocks until the debouncer delivers a result.
func waitForSearch(ch <-chan search.Result[feed.PledgeView]) tea.Cmd {
	return func() tea.Msg {
		res, ok := <-ch
		return searchResultMsg{res: res, ok: ok}
	}
}

// refreshCmd forces a reload outside the regular interval.
func refreshCmd(r *feed.Refresher) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()
		return SnapshotMsg{Snap: r.Refresh(ctx)}
	}
}

func truncStr(s string, limit int) string {
	if limit <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit-1]) + "…"
}

func truncateHeight(s string, limit int) string {
	lines := strings.Split(s, "\n")
	if len(lines) <= limit {
		return s
	}
	return strings.Join(lines[:limit], "\n")
}

func padHeight(s string, h int) string {
	lines := strings.Split(s, "\n")
	if len(lines) >= h {
		return s
	}
	return s + strings.Repeat("\n", h-len(lines))
}

// fillLinesWithBackground pads each line to width w with background color.
func fillLinesWithBackground(s string, w int, bg lipgloss.Color) string {
	lines := strings.Split(s, "\n")

	var result strings.Builder
	for i, line := range lines {
		placed := lipgloss.PlaceHorizontal(w, lipgloss.Left, line,
			lipgloss.WithWhitespaceBackground(bg))
		result.WriteString(placed)
		if i < len(lines)-1 {
			result.WriteString("\n")
		}
	}
	return result.String()
}

// ─── Mouse Support ──────────────────────────────────────────────

// tabAtX returns the tab index at the given X coordinate, or -1 if none.
// Hitboxes are derived from the same width rules used by RenderTabBar.
func (a App) tabAtX(x int) int {
	pos := 0
	for i, tab := range components.Tabs {
		tabW := components.TabVisualWidth(tab)
		if x >= pos && x < pos+tabW {
			return i
		}
		pos += tabW + 1 // separator
	}
	return -1
}

// ─── Per-tab state ──────────────────────────────────────────────

type donorsState struct {
	cursor int // selected region
}

func (d *donorsState) update(key string, regions int) {
	switch key {
	case "j", "down":
		if d.cursor < regions-1 {
			d.cursor++
		}
	case "k", "up":
		if d.cursor > 0 {
			d.cursor--
		}
	case "g", "home":
		d.cursor = 0
	case "G", "end":
		d.cursor = max(regions-1, 0)
	}
}

type pledgesState struct {
	input     textinput.Model
	searching bool
	query     string
	pending   bool
	result    *feed.PledgeView
	searchErr string

	page   int
	size   int
	cursor int // row within the page
}

func newPledgesState() pledgesState {
	ti := textinput.New()
	ti.Placeholder = "Cari nama donatur..."
	ti.CharLimit = 64
	ti.Width = 40
	ti.Prompt = "/ "
	return pledgesState{input: ti, page: 1, size: pager.DefaultSize}
}

func (p *pledgesState) applyResult(res search.Result[feed.PledgeView]) {
	p.pending = false
	p.page = 1
	p.cursor = 0
	if res.Err != nil {
		p.searchErr = res.Err.Error()
		return
	}
	p.searchErr = ""
	if res.Query == "" {
		p.result = nil
		return
	}
	v := res.Value
	p.result = &v
}

func (p *pledgesState) move(key string, pg pager.Page) {
	rows := pg.End - pg.Start
	switch key {
	case "j", "down":
		if p.cursor < rows-1 {
			p.cursor++
		}
	case "k", "up":
		if p.cursor > 0 {
			p.cursor--
		}
	}
}

type timelineState struct {
	style    string
	dataset  *static.Dataset
	rendered bool
	viewport viewport.Model
	err      string
}
