package feed

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// DefaultInterval is the refresh cadence shared by every view.
const DefaultInterval = 5 * time.Minute

// Refresher owns the current Snapshot and replaces it on a fixed
// interval or on demand.
type Refresher struct {
	loader   *Loader
	interval time.Duration
	log      *zap.Logger

	group singleflight.Group

	mu   sync.RWMutex
	snap *Snapshot
	seq  uint64
	subs map[chan *Snapshot]struct{}
}

// NewRefresher creates a Refresher. A non-positive interval uses
// DefaultInterval.
func NewRefresher(loader *Loader, interval time.Duration, log *zap.Logger) *Refresher {
	if interval <= 0 {
		interval = DefaultInterval
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Refresher{
		loader:   loader,
		interval: interval,
		log:      log,
		subs:     make(map[chan *Snapshot]struct{}),
	}
}

// Loader returns the underlying loader.
func (r *Refresher) Loader() *Loader { return r.loader }

// Interval returns the refresh cadence.
func (r *Refresher) Interval() time.Duration { return r.interval }

// Current returns the latest snapshot, or nil before the first load.
func (r *Refresher) Current() *Snapshot {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.snap
}

// Refresh loads a new snapshot. Concurrent calls share one load.
// When ctx ends before the load completes the result is discarded and the
// current snapshot, possibly nil, is returned unchanged.
func (r *Refresher) Refresh(ctx context.Context) *Snapshot {
	v, _, _ := r.group.Do("refresh", func() (any, error) {
		snap := r.loader.Load(ctx)
		if err := ctx.Err(); err != nil {
			r.log.Debug("refresh abandoned", zap.Error(err))
			return r.Current(), nil
		}

		r.mu.Lock()
		r.seq++
		snap.Seq = r.seq
		r.snap = snap
		subs := make([]chan *Snapshot, 0, len(r.subs))
		for ch := range r.subs {
			subs = append(subs, ch)
		}
		r.mu.Unlock()

		r.log.Debug("snapshot loaded",
			zap.Uint64("seq", snap.Seq),
			zap.String("funding", string(snap.Funding.State)),
			zap.String("donors", string(snap.Donors.State)),
			zap.String("pledges", string(snap.Pledges.State)),
		)

		for _, ch := range subs {
			offer(ch, snap)
		}
		return snap, nil
	})
	return v.(*Snapshot)
}

// offer delivers snap, replacing an undelivered older snapshot.
func offer(ch chan *Snapshot, snap *Snapshot) {
	for {
		select {
		case ch <- snap:
			return
		default:
		}
		select {
		case <-ch:
		default:
		}
	}
}

// Subscribe returns a channel receiving each new snapshot. Slow readers
// only see the latest one. Call the returned func to unsubscribe.
func (r *Refresher) Subscribe() (<-chan *Snapshot, func()) {
	ch := make(chan *Snapshot, 1)
	r.mu.Lock()
	r.subs[ch] = struct{}{}
	r.mu.Unlock()

	return ch, func() {
		r.mu.Lock()
		delete(r.subs, ch)
		r.mu.Unlock()
	}
}

// Run loads immediately and then on every tick until ctx is cancelled.
func (r *Refresher) Run(ctx context.Context) error {
	r.Refresh(ctx)

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			r.Refresh(ctx)
		}
	}
}
