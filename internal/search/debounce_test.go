package search

import (
	"context"
	"sync"
	"testing"
	"time"

	"go.uber.org/goleak"
)

func TestDebounceCoalesces(t *testing.T) {
	defer goleak.VerifyNone(t)

	var (
		mu    sync.Mutex
		calls []string
	)
	d := New(30*time.Millisecond, func(_ context.Context, q string) (string, error) {
		mu.Lock()
		calls = append(calls, q)
		mu.Unlock()
		return "result:" + q, nil
	})
	defer d.Close()

	d.Submit("b")
	d.Submit("bu")
	last := d.Submit("budi")

	select {
	case r := <-d.Results():
		if r.Gen != last || r.Value != "result:budi" {
			t.Errorf("result = %+v, want gen %d for budi", r, last)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("no result")
	}

	mu.Lock()
	defer mu.Unlock()
	if len(calls) != 1 || calls[0] != "budi" {
		t.Errorf("calls = %v, want only [budi]", calls)
	}
}

func TestStaleResponseNeverWins(t *testing.T) {
	defer goleak.VerifyNone(t)

	started := make(chan string, 4)
	d := New(10*time.Millisecond, func(ctx context.Context, q string) (string, error) {
		started <- q
		if q == "slow" {
			<-ctx.Done()
			return "stale", ctx.Err()
		}
		return "fresh", nil
	})
	defer d.Close()

	d.Submit("slow")
	if q := <-started; q != "slow" {
		t.Fatalf("first query = %q", q)
	}
	want := d.Submit("fast")

	select {
	case r := <-d.Results():
		if r.Gen != want || r.Value != "fresh" || r.Err != nil {
			t.Errorf("result = %+v, want fresh gen %d", r, want)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("no result")
	}

	select {
	case r := <-d.Results():
		t.Errorf("unexpected second result %+v", r)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestCloseCancelsInflight(t *testing.T) {
	defer goleak.VerifyNone(t)

	started := make(chan struct{})
	cancelled := make(chan struct{})
	d := New(5*time.Millisecond, func(ctx context.Context, _ string) (int, error) {
		close(started)
		<-ctx.Done()
		close(cancelled)
		return 0, ctx.Err()
	})

	d.Submit("x")
	<-started
	d.Close()

	select {
	case <-cancelled:
	default:
		t.Fatal("Close returned before the running query observed cancellation")
	}
	if _, ok := <-d.Results(); ok {
		t.Error("Results not closed after Close")
	}
	if g := d.Submit("y"); g != d.Latest() {
		t.Errorf("Submit after Close changed generation")
	}
}
