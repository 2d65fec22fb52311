// Copyright 2026 The Cartkit Authors
// SPDX-License-Identifier: Apache-2.0

// Package cartstate owns the client's local cart snapshot.
//
// The store service owns the cart; this package holds a read-mostly
// mirror of it and is the sole mutator of that mirror. Mutations never
// patch the snapshot optimistically: every successful add or remove is
// immediately followed by a full cart refetch and a billing refetch,
// so the local view only ever shows server-computed values. A failed
// mutation leaves the previous snapshot untouched.
//
// Mutations against the same cart are not serialized by the service,
// so the store enforces at most one in-flight mutation: a second
// concurrent mutation fails fast with ErrMutationInFlight instead of
// racing the first one's refetch.
package cartstate
