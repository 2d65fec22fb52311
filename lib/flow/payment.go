// Copyright 2026 The Cartkit Authors
// SPDX-License-Identifier: Apache-2.0

package flow

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/cartkit-project/cartkit/lib/cartstate"
	"github.com/cartkit-project/cartkit/lib/schema/store"
	"github.com/cartkit-project/cartkit/lib/storeapi"
)

// PaymentState is the payment flow's position in its state machine.
type PaymentState int

const (
	// SelectingMethod is the resting state: a method can be chosen, a
	// QR generated, and a payment started.
	SelectingMethod PaymentState = iota

	// Processing means a payment call is outstanding. No other payment
	// operation is allowed until it settles.
	Processing

	// PaymentSuccess is terminal. The result is frozen until Reset.
	PaymentSuccess
)

func (s PaymentState) String() string {
	switch s {
	case SelectingMethod:
		return "selecting-method"
	case Processing:
		return "processing"
	case PaymentSuccess:
		return "success"
	default:
		return fmt.Sprintf("PaymentState(%d)", int(s))
	}
}

// ErrPaymentComplete is returned when a payment operation is attempted
// after the flow reached success. No network call is made.
var ErrPaymentComplete = errors.New("payment already completed")

// ErrPaymentInFlight is returned when a payment operation is attempted
// while a process call is outstanding.
var ErrPaymentInFlight = errors.New("payment already processing")

// PaymentFlow drives checkout: method selection, QR generation, and
// payment processing. Transitions:
//
//	SelectingMethod --Process--> Processing --success--> PaymentSuccess
//	                                        --failure--> SelectingMethod
//
// PaymentSuccess is terminal until Reset. A declined payment returns
// to SelectingMethod with the chosen method preserved so the shopper
// can retry or switch.
type PaymentFlow struct {
	api  storeapi.API
	cart *cartstate.Store

	mu     sync.Mutex
	state  PaymentState
	method string
	qr     *store.PaymentQR
	result *store.PaymentResult
}

// NewPaymentFlow creates a flow in SelectingMethod with the default
// payment method preselected.
func NewPaymentFlow(api storeapi.API, cart *cartstate.Store) *PaymentFlow {
	return &PaymentFlow{api: api, cart: cart, method: store.MethodQRCode}
}

// State returns the current state.
func (f *PaymentFlow) State() PaymentState {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

// Method returns the currently selected payment method.
func (f *PaymentFlow) Method() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.method
}

// SelectMethod changes the selected method. Only allowed while
// selecting.
func (f *PaymentFlow) SelectMethod(method string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.requireSelectingLocked(); err != nil {
		return err
	}
	f.method = method
	return nil
}

// GenerateQR fetches a fresh payment QR for the cart's current total.
// Allowed any number of times while selecting; each call supersedes
// the previous reference.
func (f *PaymentFlow) GenerateQR(ctx context.Context) (*store.PaymentQR, error) {
	snapshot, _ := f.cart.Snapshot()
	if snapshot == nil {
		return nil, cartstate.ErrNoCart
	}

	f.mu.Lock()
	if err := f.requireSelectingLocked(); err != nil {
		f.mu.Unlock()
		return nil, err
	}
	f.mu.Unlock()

	qr, err := f.api.GeneratePaymentQR(ctx, snapshot.ID)
	if err != nil {
		return nil, fmt.Errorf("generating payment QR: %w", err)
	}

	f.mu.Lock()
	f.qr = qr
	f.mu.Unlock()

	copied := *qr
	return &copied, nil
}

// QR returns a copy of the last generated QR, or nil.
func (f *PaymentFlow) QR() *store.PaymentQR {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.qr == nil {
		return nil
	}
	copied := *f.qr
	return &copied
}

// Process submits the payment with the given method. On success the
// flow freezes in PaymentSuccess; on failure (including a decline) it
// returns to SelectingMethod with the method preserved for a retry.
func (f *PaymentFlow) Process(ctx context.Context, method string) (*store.PaymentResult, error) {
	snapshot, _ := f.cart.Snapshot()
	if snapshot == nil {
		return nil, cartstate.ErrNoCart
	}

	f.mu.Lock()
	if err := f.requireSelectingLocked(); err != nil {
		f.mu.Unlock()
		return nil, err
	}
	f.state = Processing
	f.method = method
	f.mu.Unlock()

	result, err := f.api.ProcessPayment(ctx, snapshot.ID, method)

	f.mu.Lock()
	if err != nil {
		f.state = SelectingMethod
		f.mu.Unlock()
		return nil, fmt.Errorf("processing %s payment: %w", method, err)
	}
	f.state = PaymentSuccess
	f.result = result
	f.mu.Unlock()

	copied := *result
	return &copied, nil
}

// Result returns a copy of the successful payment result, or nil if
// the flow has not completed.
func (f *PaymentFlow) Result() *store.PaymentResult {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.result == nil {
		return nil
	}
	copied := *f.result
	return &copied
}

// Reset starts a new payment attempt, clearing the result and QR.
// Rejected while a process call is outstanding.
func (f *PaymentFlow) Reset() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.state == Processing {
		return ErrPaymentInFlight
	}
	f.state = SelectingMethod
	f.result = nil
	f.qr = nil
	return nil
}

// requireSelectingLocked rejects operations outside SelectingMethod.
// Caller holds f.mu.
func (f *PaymentFlow) requireSelectingLocked() error {
	switch f.state {
	case Processing:
		return ErrPaymentInFlight
	case PaymentSuccess:
		return ErrPaymentComplete
	default:
		return nil
	}
}
