// Package search debounces type-ahead queries so that only the response
// to the most recent query is ever applied.
package search

import (
	"context"
	"sync"
	"time"
)

// DefaultDelay is how long input must be idle before a query runs.
const DefaultDelay = 500 * time.Millisecond

// Func runs one query. It must honour ctx cancellation.
type Func[T any] func(ctx context.Context, query string) (T, error)

// Result is the outcome of one query generation.
type Result[T any] struct {
	Gen   uint64
	Query string
	Value T
	Err   error
}

// Debouncer runs Func after input settles. Each Submit starts a new
// generation; a running query is cancelled when a newer one starts, and a
// result is delivered only if its generation is still the latest.
type Debouncer[T any] struct {
	delay time.Duration
	fn    Func[T]

	base context.Context
	stop context.CancelFunc

	mu       sync.Mutex
	gen      uint64
	timer    *time.Timer
	inflight context.CancelFunc
	closed   bool
	results  chan Result[T]
	wg       sync.WaitGroup
}

// New creates a Debouncer. A non-positive delay uses DefaultDelay.
func New[T any](delay time.Duration, fn Func[T]) *Debouncer[T] {
	if delay <= 0 {
		delay = DefaultDelay
	}
	base, stop := context.WithCancel(context.Background())
	return &Debouncer[T]{
		delay:   delay,
		fn:      fn,
		base:    base,
		stop:    stop,
		results: make(chan Result[T], 1),
	}
}

// Results delivers the latest result. A pending result is discarded when
// a newer query is submitted. The channel is closed by Close.
func (d *Debouncer[T]) Results() <-chan Result[T] {
	return d.results
}

// Submit schedules query and returns its generation.
func (d *Debouncer[T]) Submit(query string) uint64 {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return d.gen
	}

	d.gen++
	g := d.gen
	if d.timer != nil {
		d.timer.Stop()
	}
	select {
	case <-d.results:
	default:
	}
	d.timer = time.AfterFunc(d.delay, func() { d.run(g, query) })
	return g
}

// Latest reports the current generation.
func (d *Debouncer[T]) Latest() uint64 {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.gen
}

func (d *Debouncer[T]) run(g uint64, query string) {
	d.mu.Lock()
	if d.closed || g != d.gen {
		d.mu.Unlock()
		return
	}
	if d.inflight != nil {
		d.inflight()
	}
	ctx, cancel := context.WithCancel(d.base)
	d.inflight = cancel
	d.wg.Add(1)
	d.mu.Unlock()

	defer d.wg.Done()
	defer cancel()

	v, err := d.fn(ctx, query)

	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed || g != d.gen {
		return
	}
	select {
	case <-d.results:
	default:
	}
	d.results <- Result[T]{Gen: g, Query: query, Value: v, Err: err}
}

// Close stops pending timers, cancels the running query and waits for it
// to return.
func (d *Debouncer[T]) Close() {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return
	}
	d.closed = true
	if d.timer != nil {
		d.timer.Stop()
	}
	if d.inflight != nil {
		d.inflight()
	}
	close(d.results)
	d.mu.Unlock()

	d.stop()
	d.wg.Wait()
}
