// Copyright 2026 The Cartkit Authors
// SPDX-License-Identifier: Apache-2.0

package poll

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/cartkit-project/cartkit/lib/clock"
)

// TaskFunc is one refresh task. It receives a context that is
// cancelled when the task is unregistered; a task that delivers
// results must discard them if the context is done. Errors are logged
// by the scheduler, never fatal — the next tick retries.
type TaskFunc func(ctx context.Context) error

// Scheduler owns a set of named pollers. Safe for concurrent use.
type Scheduler struct {
	clock  clock.Clock
	logger *slog.Logger

	mu      sync.Mutex
	pollers map[string]*poller
}

// NewScheduler creates an empty scheduler.
func NewScheduler(clk clock.Clock, logger *slog.Logger) *Scheduler {
	return &Scheduler{
		clock:   clk,
		logger:  logger,
		pollers: make(map[string]*poller),
	}
}

// Register starts polling task under name, immediately and then every
// interval. Fails if name is already registered or interval is not
// positive.
func (s *Scheduler) Register(name string, interval time.Duration, task TaskFunc) error {
	if interval <= 0 {
		return fmt.Errorf("registering poller %q: interval must be positive, got %v", name, interval)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.pollers[name]; exists {
		return fmt.Errorf("registering poller %q: already registered", name)
	}

	ctx, cancel := context.WithCancel(context.Background())
	p := &poller{
		name:     name,
		interval: interval,
		task:     task,
		clock:    s.clock,
		logger:   s.logger,
		cancel:   cancel,
		done:     make(chan struct{}),
	}
	s.pollers[name] = p

	go p.run(ctx)
	return nil
}

// Unregister stops the named poller and waits for its loop to exit. A
// run already in flight observes context cancellation but is not
// waited for. Unknown names are a no-op.
func (s *Scheduler) Unregister(name string) {
	s.mu.Lock()
	p, exists := s.pollers[name]
	if exists {
		delete(s.pollers, name)
	}
	s.mu.Unlock()

	if exists {
		p.stop()
	}
}

// StopAll stops every registered poller.
func (s *Scheduler) StopAll() {
	s.mu.Lock()
	pollers := make([]*poller, 0, len(s.pollers))
	for _, p := range s.pollers {
		pollers = append(pollers, p)
	}
	s.pollers = make(map[string]*poller)
	s.mu.Unlock()

	for _, p := range pollers {
		p.stop()
	}
}

// Active returns the names of currently registered pollers, for
// logging and tests.
func (s *Scheduler) Active() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	names := make([]string, 0, len(s.pollers))
	for name := range s.pollers {
		names = append(names, name)
	}
	return names
}

// poller is one registered refresh loop.
type poller struct {
	name     string
	interval time.Duration
	task     TaskFunc
	clock    clock.Clock
	logger   *slog.Logger

	cancel  context.CancelFunc
	done    chan struct{}
	running atomic.Bool
}

// run is the poller's tick loop.
func (p *poller) run(ctx context.Context) {
	defer close(p.done)

	// Immediate first run: callers see fresh data without waiting out
	// the first interval.
	p.invoke(ctx)

	ticker := p.clock.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.invoke(ctx)
		}
	}
}

// invoke starts one task run unless the previous run is still in
// flight, in which case the tick is skipped.
func (p *poller) invoke(ctx context.Context) {
	if !p.running.CompareAndSwap(false, true) {
		p.logger.Debug("poll tick skipped, previous run still in flight", "poller", p.name)
		return
	}

	go func() {
		defer p.running.Store(false)
		if err := p.task(ctx); err != nil {
			if ctx.Err() != nil {
				return
			}
			p.logger.Warn("poll failed", "poller", p.name, "error", err)
		}
	}()
}

// stop cancels the poller's context and waits for the tick loop to
// exit.
func (p *poller) stop() {
	p.cancel()
	<-p.done
}
