// Package daemon provides the long-running read-only data service.
package daemon

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/gkj-pamulang/panitia/internal/content"
	"github.com/gkj-pamulang/panitia/internal/feed"
	"github.com/gkj-pamulang/panitia/internal/pager"
	"github.com/gkj-pamulang/panitia/internal/pipeline"
)

// Config controls the service runtime behavior.
type Config struct {
	Addr         string
	EventsBuffer int
}

// Summary is a compact view of one snapshot for status/event payloads.
type Summary struct {
	At          time.Time  `json:"at"`
	Seq         uint64     `json:"seq"`
	Funding     feed.State `json:"funding_state"`
	Donors      feed.State `json:"donors_state"`
	Pledges     feed.State `json:"pledges_state"`
	Costs       int64      `json:"costs"`
	Income      int64      `json:"income"`
	Realized    int64      `json:"realized"`
	Balance     int64      `json:"balance"`
	DonorCount  int        `json:"donor_count"`
	DonorsPaid  int        `json:"donors_paid"`
	PledgeCount int        `json:"pledge_count"`
	Pledged     int64      `json:"pledged"`
	Paid        int64      `json:"paid"`
}

// Delta captures summary changes between refreshes.
type Delta struct {
	Income       int64 `json:"income"`
	Realized     int64 `json:"realized"`
	DonorCount   int   `json:"donor_count"`
	DonorsPaid   int   `json:"donors_paid"`
	PledgeCount  int   `json:"pledge_count"`
	Pledged      int64 `json:"pledged"`
	Paid         int64 `json:"paid"`
	StateChanged bool  `json:"state_changed"`
}

func (d Delta) isZero() bool {
	return d.Income == 0 &&
		d.Realized == 0 &&
		d.DonorCount == 0 &&
		d.DonorsPaid == 0 &&
		d.PledgeCount == 0 &&
		d.Pledged == 0 &&
		d.Paid == 0 &&
		!d.StateChanged
}

// Event is emitted whenever the data changes.
type Event struct {
	ID        int64     `json:"id"`
	Type      string    `json:"type"`
	Timestamp time.Time `json:"timestamp"`
	Summary   Summary   `json:"summary"`
	Delta     Delta     `json:"delta"`
}

// ViewStatus reports how one view was last loaded.
type ViewStatus struct {
	State     feed.State `json:"state"`
	Banner    string     `json:"banner"`
	Error     string     `json:"error,omitempty"`
	FetchedAt time.Time  `json:"fetched_at"`
	Dropped   int        `json:"dropped"`
}

// Status is served at /v1/status.
type Status struct {
	StartedAt          time.Time             `json:"started_at"`
	LastRefreshAt      time.Time             `json:"last_refresh_at"`
	RefreshIntervalSec int                   `json:"refresh_interval_sec"`
	RefreshCount       int64                 `json:"refresh_count"`
	Summary            Summary               `json:"summary"`
	Views              map[string]ViewStatus `json:"views"`
	EventCount         int                   `json:"event_count"`
	SubscriberCount    int                   `json:"subscriber_count"`
}

// Service provides the refresh loop and HTTP API.
type Service struct {
	cfg       Config
	refresher *feed.Refresher
	log       *zap.Logger

	mu            sync.RWMutex
	startedAt     time.Time
	lastRefreshAt time.Time
	refreshCount  int64
	lastSeq       uint64
	hasSummary    bool
	summary       Summary
	views         map[string]ViewStatus
	nextEventID   int64
	events        []Event

	nextSubID int
	subs      map[int]chan Event
}

// New returns a service serving the snapshots of r.
func New(cfg Config, r *feed.Refresher, log *zap.Logger) *Service {
	if cfg.EventsBuffer < 1 {
		cfg.EventsBuffer = 200
	}
	if cfg.Addr == "" {
		cfg.Addr = "127.0.0.1:8787"
	}
	if log == nil {
		log = zap.NewNop()
	}

	return &Service{
		cfg:       cfg,
		refresher: r,
		log:       log,
		startedAt: time.Now(),
		subs:      make(map[int]chan Event),
	}
}

// Handler returns the HTTP API.
func (s *Service) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", s.handleHealth)
	mux.HandleFunc("/v1/status", s.handleStatus)
	mux.HandleFunc("/v1/funding", s.handleFunding)
	mux.HandleFunc("/v1/donors", s.handleDonors)
	mux.HandleFunc("/v1/pledges", s.handlePledges)
	mux.HandleFunc("/v1/content", s.handleContent)
	mux.HandleFunc("/v1/events", s.handleEvents)
	mux.HandleFunc("/v1/stream", s.handleStream)
	mux.HandleFunc("POST /v1/refresh", s.handleRefresh)
	return mux
}

// Run serves HTTP and refreshes data until ctx is canceled.
func (s *Service) Run(ctx context.Context) error {
	server := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	updates, unsubscribe := s.refresher.Subscribe()
	defer unsubscribe()

	refreshDone := make(chan struct{})
	go func() {
		defer close(refreshDone)
		_ = s.refresher.Run(ctx)
	}()

	s.log.Info("data service listening",
		zap.String("addr", s.cfg.Addr),
		zap.Duration("interval", s.refresher.Interval()),
	)

	for {
		select {
		case <-ctx.Done():
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			err := server.Shutdown(shutdownCtx)
			<-refreshDone
			return err
		case snap := <-updates:
			s.observe(snap)
		case err := <-errCh:
			return fmt.Errorf("daemon http server: %w", err)
		}
	}
}

// observe records a snapshot and publishes an event when it changes the
// summary. Snapshots older than the last observed one are ignored.
func (s *Service) observe(snap *feed.Snapshot) {
	if snap == nil {
		return
	}
	sum := summarize(snap)

	var (
		ev      Event
		publish bool
	)

	s.mu.Lock()
	if s.hasSummary && snap.Seq <= s.lastSeq {
		s.mu.Unlock()
		return
	}
	prev := s.summary
	prevExists := s.hasSummary

	s.hasSummary = true
	s.summary = sum
	s.lastSeq = snap.Seq
	s.views = viewStatuses(snap)
	s.lastRefreshAt = snap.LoadedAt
	s.refreshCount++

	if !prevExists {
		s.nextEventID++
		ev = Event{
			ID:        s.nextEventID,
			Type:      "snapshot",
			Timestamp: sum.At,
			Summary:   sum,
		}
		publish = true
	} else {
		delta := diffSummaries(prev, sum)
		if !delta.isZero() {
			s.nextEventID++
			ev = Event{
				ID:        s.nextEventID,
				Type:      "update",
				Timestamp: sum.At,
				Summary:   sum,
				Delta:     delta,
			}
			publish = true
		}
	}
	s.mu.Unlock()

	if publish {
		s.publishEvent(ev)
	}
}

func summarize(snap *feed.Snapshot) Summary {
	f := snap.Funding.Summary
	return Summary{
		At:          snap.LoadedAt,
		Seq:         snap.Seq,
		Funding:     snap.Funding.State,
		Donors:      snap.Donors.State,
		Pledges:     snap.Pledges.State,
		Costs:       f.TotalCosts,
		Income:      f.TotalIncome,
		Realized:    f.TotalRealized,
		Balance:     f.Balance,
		DonorCount:  snap.Donors.Summary.Counts.Total,
		DonorsPaid:  snap.Donors.Summary.Counts.Paid,
		PledgeCount: snap.Pledges.Summary.Donors,
		Pledged:     snap.Pledges.Summary.Pledged,
		Paid:        snap.Pledges.Summary.Paid,
	}
}

func viewStatuses(snap *feed.Snapshot) map[string]ViewStatus {
	vs := func(m feed.Meta) ViewStatus {
		return ViewStatus{
			State:     m.State,
			Banner:    m.State.Banner(),
			Error:     m.Err,
			FetchedAt: m.FetchedAt,
			Dropped:   m.Dropped,
		}
	}
	return map[string]ViewStatus{
		"funding": vs(snap.Funding.Meta),
		"donors":  vs(snap.Donors.Meta),
		"pledges": vs(snap.Pledges.Meta),
	}
}

func diffSummaries(prev, curr Summary) Delta {
	return Delta{
		Income:      curr.Income - prev.Income,
		Realized:    curr.Realized - prev.Realized,
		DonorCount:  curr.DonorCount - prev.DonorCount,
		DonorsPaid:  curr.DonorsPaid - prev.DonorsPaid,
		PledgeCount: curr.PledgeCount - prev.PledgeCount,
		Pledged:     curr.Pledged - prev.Pledged,
		Paid:        curr.Paid - prev.Paid,
		StateChanged: curr.Funding != prev.Funding ||
			curr.Donors != prev.Donors ||
			curr.Pledges != prev.Pledges,
	}
}

func (s *Service) publishEvent(ev Event) {
	s.mu.Lock()
	s.events = append(s.events, ev)
	if len(s.events) > s.cfg.EventsBuffer {
		s.events = s.events[len(s.events)-s.cfg.EventsBuffer:]
	}

	for _, ch := range s.subs {
		select {
		case ch <- ev:
		default:
		}
	}
	s.mu.Unlock()
}

func (s *Service) snapshotStatus() Status {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return Status{
		StartedAt:          s.startedAt,
		LastRefreshAt:      s.lastRefreshAt,
		RefreshIntervalSec: int(s.refresher.Interval().Seconds()),
		RefreshCount:       s.refreshCount,
		Summary:            s.summary,
		Views:              s.views,
		EventCount:         len(s.events),
		SubscriberCount:    len(s.subs),
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// current returns the latest snapshot or writes 503 when there is none.
func (s *Service) current(w http.ResponseWriter) (*feed.Snapshot, bool) {
	snap := s.refresher.Current()
	if snap == nil {
		writeError(w, http.StatusServiceUnavailable, "data not loaded yet")
		return nil, false
	}
	return snap, true
}

func (s *Service) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("ok\n"))
}

func (s *Service) handleStatus(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.snapshotStatus())
}

func (s *Service) handleFunding(w http.ResponseWriter, _ *http.Request) {
	snap, ok := s.current(w)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, snap.Funding)
}

func (s *Service) handleDonors(w http.ResponseWriter, r *http.Request) {
	snap, ok := s.current(w)
	if !ok {
		return
	}
	view := snap.Donors
	if region := r.URL.Query().Get("region"); region != "" {
		view.Donors = pipeline.FilterDonorsByRegion(view.Donors, region)
		view.Summary = pipeline.SummarizeDonors(view.Donors)
	}
	writeJSON(w, http.StatusOK, view)
}

// PledgePage is one page of the pledge list.
type PledgePage struct {
	feed.PledgeView
	Page   pager.Page `json:"page"`
	Window []int      `json:"window"`
}

func (s *Service) handlePledges(w http.ResponseWriter, r *http.Request) {
	snap, ok := s.current(w)
	if !ok {
		return
	}
	q := r.URL.Query()

	size, err := pager.ParseSize(q.Get("size"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	page := 1
	if p := q.Get("page"); p != "" {
		if page, err = strconv.Atoi(p); err != nil {
			writeError(w, http.StatusBadRequest, "invalid page")
			return
		}
	}

	view := s.refresher.Loader().SearchPledges(r.Context(), snap.Pledges, q.Get("q"))
	pg := pager.Paginate(len(view.Pledges), size, page)
	out := PledgePage{PledgeView: view, Page: pg, Window: pager.Window(pg.Number, pg.Pages)}
	out.Pledges = view.Pledges[pg.Start:pg.End]
	writeJSON(w, http.StatusOK, out)
}

func (s *Service) handleContent(w http.ResponseWriter, _ *http.Request) {
	page, err := content.Build(s.refresher.Loader().Dataset())
	if err != nil {
		s.log.Error("rendering content", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "content unavailable")
		return
	}
	writeJSON(w, http.StatusOK, page)
}

func (s *Service) handleRefresh(w http.ResponseWriter, r *http.Request) {
	snap := s.refresher.Refresh(r.Context())
	s.observe(snap)
	writeJSON(w, http.StatusOK, s.snapshotStatus())
}

func (s *Service) handleEvents(w http.ResponseWriter, _ *http.Request) {
	s.mu.RLock()
	events := make([]Event, len(s.events))
	copy(events, s.events)
	s.mu.RUnlock()

	writeJSON(w, http.StatusOK, events)
}

func (s *Service) handleStream(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	ch := make(chan Event, 16)
	id := s.addSubscriber(ch)
	defer s.removeSubscriber(id)

	current := Event{
		Type:      "snapshot",
		Timestamp: time.Now(),
		Summary:   s.snapshotStatus().Summary,
	}
	writeSSE(w, current)
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			return
		case ev := <-ch:
			writeSSE(w, ev)
			flusher.Flush()
		}
	}
}

func writeSSE(w http.ResponseWriter, ev Event) {
	data, err := json.Marshal(ev)
	if err != nil {
		return
	}
	_, _ = fmt.Fprintf(w, "event: %s\n", ev.Type)
	_, _ = fmt.Fprintf(w, "data: %s\n\n", data)
}

func (s *Service) addSubscriber(ch chan Event) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextSubID++
	id := s.nextSubID
	s.subs[id] = ch
	return id
}

func (s *Service) removeSubscriber(id int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.subs, id)
}
