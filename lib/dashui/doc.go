// Copyright 2026 The Cartkit Authors
// SPDX-License-Identifier: Apache-2.0

// Package dashui is the operations dashboard terminal UI: a read-only
// bubbletea model over the store service's admin queries. Four tabs
// (overview, popular products, active carts, alerts), each backed by
// a lifecycle-bound poll registration. Nothing in this package
// mutates service state.
package dashui
