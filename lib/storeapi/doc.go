// Copyright 2026 The Cartkit Authors
// SPDX-License-Identifier: Apache-2.0

// Package storeapi is the client boundary to the remote store service.
//
// The API interface exposes every store operation the clients use; all
// other cartkit components depend on it rather than on request
// details, so tests substitute an in-memory implementation. Client is
// the production implementation, speaking a CBOR action-request
// protocol over a Unix socket with one connection per call.
// SocketServer is the serving half of the same protocol, used by
// cmd/cartkit-mock-store and by tests.
//
// Failures divide into two kinds: transport errors (connection
// refused, timeout) are plain wrapped errors, while server-reported
// failures arrive as *ServiceError carrying a machine-readable code.
// The codes map onto sentinel errors (ErrNotFound, ErrInvalidInput,
// ErrPaymentDeclined) via Unwrap, so callers branch with errors.Is
// without string matching.
package storeapi
