// Copyright 2026 The Cartkit Authors
// SPDX-License-Identifier: Apache-2.0

// Package flow implements the client-side orchestration around
// individual store service calls: item verification, barcode
// scan-and-add, route planning, and the payment state machine.
//
// Each orchestrator owns the guard logic for its interaction — what
// must be true before a call is issued, what local state survives a
// failure, and which outcomes are terminal. The underlying snapshot
// refresh discipline lives in cartstate; flows call into it rather
// than patching state themselves.
package flow
