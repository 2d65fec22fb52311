// Copyright 2026 The Cartkit Authors
// SPDX-License-Identifier: Apache-2.0

package debounce

import (
	"strings"
	"sync"
	"time"

	"github.com/cartkit-project/cartkit/lib/clock"
)

// FireFunc runs when the quiet period elapses after the last input.
// seq is the fire's sequence number; compare it against Latest when
// the result comes back to detect staleness.
type FireFunc func(seq uint64, value string)

// ClearFunc runs when input becomes empty. Empty input clears
// immediately, without waiting out the quiet period.
type ClearFunc func()

// Debouncer defers a fire until input has been quiet for a fixed
// period. Safe for concurrent use.
type Debouncer struct {
	clock clock.Clock
	quiet time.Duration
	fire  FireFunc
	clear ClearFunc

	mu      sync.Mutex
	pending *clock.Timer
	seq     uint64
}

// New creates a Debouncer with the given quiet period. Panics if
// quiet is not positive. clear may be nil if empty input needs no
// special handling.
func New(clk clock.Clock, quiet time.Duration, fire FireFunc, clear ClearFunc) *Debouncer {
	if quiet <= 0 {
		panic("debounce: non-positive quiet period")
	}
	return &Debouncer{clock: clk, quiet: quiet, fire: fire, clear: clear}
}

// Input feeds the current input value. Any pending fire is cancelled.
// Non-empty input schedules a fire after the quiet period; empty (or
// all-whitespace) input bumps the sequence and clears immediately.
func (d *Debouncer) Input(value string) {
	d.mu.Lock()
	if d.pending != nil {
		d.pending.Stop()
		d.pending = nil
	}

	if strings.TrimSpace(value) == "" {
		// Invalidate any in-flight result, then clear.
		d.seq++
		clear := d.clear
		d.mu.Unlock()
		if clear != nil {
			clear()
		}
		return
	}

	d.pending = d.clock.AfterFunc(d.quiet, func() {
		d.mu.Lock()
		d.pending = nil
		d.seq++
		seq := d.seq
		d.mu.Unlock()
		d.fire(seq, value)
	})
	d.mu.Unlock()
}

// Cancel drops any pending fire without firing it and invalidates
// in-flight results.
func (d *Debouncer) Cancel() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.pending != nil {
		d.pending.Stop()
		d.pending = nil
	}
	d.seq++
}

// Latest returns the most recently issued sequence number. A result
// carrying an older sequence has been overtaken and must be dropped.
func (d *Debouncer) Latest() uint64 {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.seq
}
