// Copyright 2026 The Cartkit Authors
// SPDX-License-Identifier: Apache-2.0

package debounce

import (
	"sync"
	"testing"
	"time"

	"github.com/cartkit-project/cartkit/lib/clock"
)

const quiet = 500 * time.Millisecond

type recorder struct {
	mu     sync.Mutex
	fires  []string
	seqs   []uint64
	clears int
}

func (r *recorder) fire(seq uint64, value string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.fires = append(r.fires, value)
	r.seqs = append(r.seqs, seq)
}

func (r *recorder) clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.clears++
}

func (r *recorder) snapshot() ([]string, []uint64, int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.fires...), append([]uint64(nil), r.seqs...), r.clears
}

func TestBurstFiresOnceWithFinalValue(t *testing.T) {
	clk := clock.Fake(time.Unix(1700000000, 0))
	rec := &recorder{}
	d := New(clk, quiet, rec.fire, rec.clear)

	d.Input("m")
	clk.Advance(100 * time.Millisecond)
	d.Input("mi")
	clk.Advance(100 * time.Millisecond)
	d.Input("milk")

	// Quiet period restarts on every keystroke: nothing has fired yet.
	clk.Advance(499 * time.Millisecond)
	if fires, _, _ := rec.snapshot(); len(fires) != 0 {
		t.Fatalf("fired %v before the quiet period elapsed", fires)
	}

	clk.Advance(time.Millisecond)
	fires, seqs, _ := rec.snapshot()
	if len(fires) != 1 || fires[0] != "milk" {
		t.Fatalf("fires = %v, want single fire with final value", fires)
	}
	if seqs[0] != d.Latest() {
		t.Errorf("fired seq %d, Latest() = %d", seqs[0], d.Latest())
	}
}

func TestEmptyInputClearsImmediately(t *testing.T) {
	clk := clock.Fake(time.Unix(1700000000, 0))
	rec := &recorder{}
	d := New(clk, quiet, rec.fire, rec.clear)

	d.Input("milk")
	before := d.Latest()
	d.Input("")

	_, _, clears := rec.snapshot()
	if clears != 1 {
		t.Fatalf("clears = %d, want immediate clear", clears)
	}
	if d.Latest() <= before {
		t.Error("clear did not invalidate in-flight results")
	}

	// The cancelled fire never happens.
	clk.Advance(time.Minute)
	if fires, _, _ := rec.snapshot(); len(fires) != 0 {
		t.Errorf("cancelled input still fired: %v", fires)
	}

	// Whitespace counts as empty.
	d.Input("   ")
	if _, _, clears := rec.snapshot(); clears != 2 {
		t.Errorf("clears = %d, want whitespace treated as empty", clears)
	}
}

func TestSequenceDetectsStaleResults(t *testing.T) {
	clk := clock.Fake(time.Unix(1700000000, 0))
	rec := &recorder{}
	d := New(clk, quiet, rec.fire, rec.clear)

	d.Input("milk")
	clk.Advance(quiet)
	d.Input("bread")
	clk.Advance(quiet)

	fires, seqs, _ := rec.snapshot()
	if len(fires) != 2 {
		t.Fatalf("fires = %v, want two separate bursts", fires)
	}
	if seqs[1] <= seqs[0] {
		t.Fatalf("sequence not monotonic: %v", seqs)
	}

	// A response for the first fire arrives late: its sequence is
	// behind Latest, so the caller drops it.
	if seqs[0] >= d.Latest() {
		t.Error("stale result not detectable via Latest")
	}
	if seqs[1] != d.Latest() {
		t.Error("freshest result reads as stale")
	}
}

func TestCancelDropsPendingFire(t *testing.T) {
	clk := clock.Fake(time.Unix(1700000000, 0))
	rec := &recorder{}
	d := New(clk, quiet, rec.fire, rec.clear)

	d.Input("milk")
	before := d.Latest()
	d.Cancel()

	clk.Advance(time.Minute)
	fires, _, clears := rec.snapshot()
	if len(fires) != 0 {
		t.Errorf("Cancel did not drop the pending fire: %v", fires)
	}
	if clears != 0 {
		t.Errorf("Cancel invoked clear %d times", clears)
	}
	if d.Latest() <= before {
		t.Error("Cancel did not invalidate in-flight results")
	}
}

func TestNonPositiveQuietPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("New accepted a zero quiet period")
		}
	}()
	New(clock.Fake(time.Unix(0, 0)), 0, func(uint64, string) {}, nil)
}
