// Copyright 2026 The Cartkit Authors
// SPDX-License-Identifier: Apache-2.0

// Package session manages the client's stable session identity.
//
// One session id correlates all of a cart's requests to the store
// service across process restarts. The id is the only durable client
// state: a single file under the state directory. When storage is
// unavailable the manager degrades to an in-memory id for the process
// lifetime rather than failing — losing continuity beats refusing to
// shop.
package session
