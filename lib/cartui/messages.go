// Copyright 2026 The Cartkit Authors
// SPDX-License-Identifier: Apache-2.0

package cartui

import "github.com/cartkit-project/cartkit/lib/schema/store"

// cartRefreshedMsg carries a fresh cart and billing snapshot, from the
// cart poller or a completed mutation.
type cartRefreshedMsg struct {
	cart    *store.Cart
	billing *store.BillingSnapshot
}

// searchResultsMsg carries a completed product search. seq is the
// debounce sequence of the query that produced it; responses with a
// stale sequence are dropped.
type searchResultsMsg struct {
	seq      uint64
	query    string
	products []store.Product
}

// searchClearedMsg empties the result list after the query was
// cleared.
type searchClearedMsg struct{}

// recommendationsMsg carries a fresh recommendation set.
type recommendationsMsg struct {
	set *store.RecommendationSet
}

// mutationDoneMsg reports a completed add or remove. On success the
// store has already refreshed cart and billing.
type mutationDoneMsg struct {
	err error
}

// verifyDoneMsg reports a completed item verification.
type verifyDoneMsg struct {
	message string
	err     error
}

// barcodeAddedMsg reports a completed barcode scan-and-add.
type barcodeAddedMsg struct {
	name string
	err  error
}

// routeDoneMsg reports a completed route request.
type routeDoneMsg struct {
	route *store.Route
	err   error
}

// qrGeneratedMsg carries a freshly generated payment QR and its
// rendered block form.
type qrGeneratedMsg struct {
	qr    *store.PaymentQR
	block string
	err   error
}

// paymentDoneMsg reports a settled payment attempt.
type paymentDoneMsg struct {
	result *store.PaymentResult
	err    error
}
