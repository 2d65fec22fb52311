// Copyright 2026 The Cartkit Authors
// SPDX-License-Identifier: Apache-2.0

// Package poll runs named background refresh tasks at fixed intervals.
//
// Each registered task runs once immediately, then once per interval
// tick. Ticks are fixed-rate, not fixed-delay: a slow run does not push
// later ticks back, and a tick that arrives while the previous run is
// still in flight is skipped rather than queued.
//
// Unregistering cancels the task's context. A run already in flight
// when its registration is removed sees the cancellation; tasks that
// deliver results elsewhere must drop them once their context is done.
package poll
