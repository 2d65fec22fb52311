// Copyright 2026 The Cartkit Authors
// SPDX-License-Identifier: Apache-2.0

// Package testutil provides shared helpers for cartkit tests: channel
// receive/close assertions with timeout safety valves, so individual
// tests never hang silently on a missing event.
package testutil
