// Copyright 2026 The Cartkit Authors
// SPDX-License-Identifier: Apache-2.0

// Package clock provides an injectable time abstraction for testability.
//
// Production code accepts a Clock parameter instead of calling time.Now,
// time.After, time.NewTicker, or time.AfterFunc directly. In production,
// Real() provides standard library behavior. In tests, Fake() provides a
// deterministic clock that advances only when Advance is called.
//
// The polling scheduler and the search debouncer are the two main
// consumers: both register timers against an injected Clock so their
// cadence and cancellation behavior can be driven deterministically
// from tests.
//
// # FakeClock Synchronization
//
// When a goroutine calls After, NewTicker, or AfterFunc on a FakeClock,
// it registers a pending waiter. Use WaitForTimers to block until a
// given number of waiters are registered before calling Advance. This
// eliminates the race between timer registration and time advancement
// that plagues tests using time.Sleep for synchronization.
package clock
