// Copyright 2026 The Cartkit Authors
// SPDX-License-Identifier: Apache-2.0

package poll

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/cartkit-project/cartkit/lib/clock"
	"github.com/cartkit-project/cartkit/lib/testutil"
)

func newTestScheduler(t *testing.T) (*Scheduler, *clock.FakeClock) {
	t.Helper()
	clk := clock.Fake(time.Unix(1700000000, 0))
	s := NewScheduler(clk, slog.New(slog.NewTextHandler(io.Discard, nil)))
	t.Cleanup(s.StopAll)
	return s, clk
}

func TestPollerRunsImmediatelyThenOnTicks(t *testing.T) {
	s, clk := newTestScheduler(t)

	runs := make(chan time.Time, 16)
	err := s.Register("cart", 5*time.Second, func(ctx context.Context) error {
		runs <- clk.Now()
		return nil
	})
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	testutil.RequireReceive(t, runs, time.Second, "immediate first run")

	// The loop registers its ticker after the first run.
	clk.WaitForTimers(1)
	clk.Advance(5 * time.Second)
	testutil.RequireReceive(t, runs, time.Second, "run on first tick")

	clk.Advance(5 * time.Second)
	testutil.RequireReceive(t, runs, time.Second, "run on second tick")
}

func TestPollerSkipsTickWhilePending(t *testing.T) {
	s, clk := newTestScheduler(t)

	started := make(chan struct{}, 16)
	release := make(chan struct{})
	err := s.Register("slow", time.Second, func(ctx context.Context) error {
		started <- struct{}{}
		<-release
		return nil
	})
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	testutil.RequireReceive(t, started, time.Second, "immediate first run")
	clk.WaitForTimers(1)

	// Two ticks land while the first run is still blocked: both are
	// skipped, not queued.
	clk.Advance(time.Second)
	clk.Advance(time.Second)
	select {
	case <-started:
		t.Fatal("tick started a run while the previous run was in flight")
	case <-time.After(50 * time.Millisecond):
	}

	// After the slow run completes, ticks start runs again. Advance
	// repeatedly: the release and the in-flight flag clear
	// asynchronously.
	close(release)
	deadline := time.After(5 * time.Second)
	for {
		clk.Advance(time.Second)
		select {
		case <-started:
			return
		case <-deadline:
			t.Fatal("polling did not resume after the slow run completed")
		case <-time.After(10 * time.Millisecond):
		}
	}
}

func TestUnregisterStopsRunsAndCancelsContext(t *testing.T) {
	s, clk := newTestScheduler(t)

	cancelled := make(chan struct{})
	runs := make(chan struct{}, 16)
	err := s.Register("cart", time.Second, func(ctx context.Context) error {
		runs <- struct{}{}
		select {
		case <-ctx.Done():
			close(cancelled)
		case <-time.After(5 * time.Second):
		}
		return ctx.Err()
	})
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	testutil.RequireReceive(t, runs, time.Second, "immediate first run")
	clk.WaitForTimers(1)

	s.Unregister("cart")
	testutil.RequireClosed(t, cancelled, time.Second, "in-flight run sees cancellation")

	// No further runs after unregistration, no matter how far the
	// clock advances.
	clk.Advance(10 * time.Second)
	select {
	case <-runs:
		t.Fatal("poller ran after Unregister")
	case <-time.After(50 * time.Millisecond):
	}

	if got := s.Active(); len(got) != 0 {
		t.Errorf("active pollers after Unregister: %v", got)
	}
}

func TestRegisterValidation(t *testing.T) {
	s, _ := newTestScheduler(t)

	if err := s.Register("bad", 0, func(ctx context.Context) error { return nil }); err == nil {
		t.Error("zero interval accepted")
	}

	noop := func(ctx context.Context) error { return nil }
	if err := s.Register("cart", time.Second, noop); err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	if err := s.Register("cart", time.Second, noop); err == nil {
		t.Error("duplicate name accepted")
	}
}

func TestTaskErrorsDoNotStopPolling(t *testing.T) {
	s, clk := newTestScheduler(t)

	runs := make(chan struct{}, 16)
	err := s.Register("flaky", time.Second, func(ctx context.Context) error {
		runs <- struct{}{}
		return errors.New("transient failure")
	})
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	testutil.RequireReceive(t, runs, time.Second, "first run")
	clk.WaitForTimers(1)
	clk.Advance(time.Second)
	testutil.RequireReceive(t, runs, time.Second, "polling continues past a failed run")
}

func TestUnregisterUnknownNameIsNoop(t *testing.T) {
	s, _ := newTestScheduler(t)
	s.Unregister("never-registered")
}
