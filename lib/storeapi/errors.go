// Copyright 2026 The Cartkit Authors
// SPDX-License-Identifier: Apache-2.0

package storeapi

import (
	"errors"
	"fmt"
)

// Error codes carried in the "code" field of failure responses.
const (
	// CodeNotFound means the requested entity does not exist
	// server-side (cart, product, barcode, aisle).
	CodeNotFound = "not_found"

	// CodeInvalid means the server rejected the request's parameters.
	CodeInvalid = "invalid"

	// CodePaymentDeclined means a payment attempt was rejected. The
	// payment flow treats this as retryable.
	CodePaymentDeclined = "payment_declined"

	// CodeInternal is any other server-side failure.
	CodeInternal = "internal"
)

// Sentinel errors matched with errors.Is. ServiceError unwraps to one
// of these based on its code.
var (
	ErrNotFound        = errors.New("not found")
	ErrInvalidInput    = errors.New("invalid input")
	ErrPaymentDeclined = errors.New("payment declined")
)

// ServiceError is returned when the server responds with ok=false. It
// carries the failed action, the machine-readable code, and the
// server's message.
type ServiceError struct {
	Action  string
	Code    string
	Message string
}

func (e *ServiceError) Error() string {
	return fmt.Sprintf("store service error on %q: %s", e.Action, e.Message)
}

// Unwrap maps the error code to its sentinel so callers can use
// errors.Is(err, storeapi.ErrNotFound) and friends. Codes without a
// sentinel (including CodeInternal) unwrap to nil.
func (e *ServiceError) Unwrap() error {
	switch e.Code {
	case CodeNotFound:
		return ErrNotFound
	case CodeInvalid:
		return ErrInvalidInput
	case CodePaymentDeclined:
		return ErrPaymentDeclined
	default:
		return nil
	}
}

// RequestError is returned by server-side handlers to control the code
// sent in the failure response. Handler errors that are not
// *RequestError are reported as CodeInternal.
type RequestError struct {
	Code    string
	Message string
}

func (e *RequestError) Error() string { return e.Message }

// Unwrap maps the code to its sentinel, mirroring ServiceError. This
// lets an in-process API implementation (lib/storemem, test fakes)
// produce errors that callers match exactly as they would match
// errors from a real socket round trip.
func (e *RequestError) Unwrap() error {
	return (&ServiceError{Code: e.Code}).Unwrap()
}

// Failf builds a *RequestError with the given code and formatted
// message.
func Failf(code, format string, args ...any) *RequestError {
	return &RequestError{Code: code, Message: fmt.Sprintf(format, args...)}
}
