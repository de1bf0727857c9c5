package poller

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

type countingRefresher struct {
	calls atomic.Int64
	err   error
}

func (r *countingRefresher) RefreshAppliances(context.Context) error {
	r.calls.Add(1)
	return r.err
}

func TestAppliancePoller_RefreshesAtStartupAndOnTick(t *testing.T) {
	refresher := &countingRefresher{}
	p := New(refresher, 20*time.Millisecond, zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	p.Start(ctx)

	deadline := time.After(2 * time.Second)
	for refresher.calls.Load() < 3 {
		select {
		case <-deadline:
			t.Fatalf("expected at least 3 refreshes, got %d", refresher.calls.Load())
		case <-time.After(10 * time.Millisecond):
		}
	}
}

func TestAppliancePoller_SurvivesRefreshFailures(t *testing.T) {
	refresher := &countingRefresher{err: errors.New("upstream down")}
	p := New(refresher, 10*time.Millisecond, zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	p.Start(ctx)

	deadline := time.After(2 * time.Second)
	for refresher.calls.Load() < 2 {
		select {
		case <-deadline:
			t.Fatalf("poller stopped after failure, got %d calls", refresher.calls.Load())
		case <-time.After(5 * time.Millisecond):
		}
	}
}

func TestAppliancePoller_StopsOnCancel(t *testing.T) {
	refresher := &countingRefresher{}
	p := New(refresher, 5*time.Millisecond, zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	p.Start(ctx)

	time.Sleep(20 * time.Millisecond)
	cancel()
	time.Sleep(20 * time.Millisecond)

	after := refresher.calls.Load()
	time.Sleep(30 * time.Millisecond)
	if refresher.calls.Load() != after {
		t.Fatalf("poller kept refreshing after cancel")
	}
}
