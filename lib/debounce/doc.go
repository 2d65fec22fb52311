// Copyright 2026 The Cartkit Authors
// SPDX-License-Identifier: Apache-2.0

// Package debounce coalesces rapid input into a single deferred
// action, for search-as-you-type style flows.
//
// Every keystroke resets a quiet-period timer; only the final value of
// a burst fires. Fires carry a monotonically increasing sequence
// number so callers can drop responses that were overtaken by newer
// input: a response tagged with a sequence below Latest is stale.
package debounce
