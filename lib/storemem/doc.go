// Copyright 2026 The Cartkit Authors
// SPDX-License-Identifier: Apache-2.0

// Package storemem is an in-memory implementation of the store
// service, used by cmd/cartkit-mock-store for local development and by
// tests that want realistic cart semantics without a network.
//
// It implements storeapi.API directly (for in-process injection) and
// can be mounted on a storeapi.SocketServer (for protocol-level use).
// Billing follows the production service's rules: per-item tax rates,
// cart-level discount, final amount clamped at zero, and quantity
// merging when the same product is added twice.
//
// The business values it produces (routes, recommendations,
// verification outcomes) are deliberately simple and deterministic —
// it mocks the service's contract, not its intelligence.
package storemem
