// Copyright 2026 The Cartkit Authors
// SPDX-License-Identifier: Apache-2.0

// Package cartui is the shopper-facing terminal UI: a bubbletea model
// with five mutually exclusive tabs (cart, search, navigation,
// recommendations, payment) over the cart state store and the flow
// orchestrators.
//
// Background refresh is poll-driven and lifecycle-bound: each tab
// registers its poll tasks on activation and unregisters them on
// deactivation, so only the visible view generates traffic. Poll and
// debounce results arrive as bubbletea messages via program.Send;
// stale search responses are dropped by sequence number.
package cartui
