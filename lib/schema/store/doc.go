// Copyright 2026 The Cartkit Authors
// SPDX-License-Identifier: Apache-2.0

// Package store defines the wire types and action names shared between
// cartkit clients and the store service. Field names match the store
// service's API so CBOR payloads round-trip without translation.
//
// All business values (subtotals, tax, discounts, route geometry,
// recommendation ranking) are computed by the service. Clients hold
// read-mostly snapshots of these types and never derive monetary
// values locally.
package store
