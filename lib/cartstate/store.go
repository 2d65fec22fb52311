// Copyright 2026 The Cartkit Authors
// SPDX-License-Identifier: Apache-2.0

package cartstate

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/cartkit-project/cartkit/lib/schema/store"
	"github.com/cartkit-project/cartkit/lib/storeapi"
)

// ErrNoCart is returned by operations that need a loaded cart before
// CreateOrFetch has succeeded.
var ErrNoCart = errors.New("no cart loaded")

// ErrMutationInFlight is returned when a mutation is attempted while
// another mutation on the same store is still outstanding.
var ErrMutationInFlight = errors.New("another cart mutation is in flight")

// MutationError wraps a failed add or remove. The previous snapshot is
// preserved whenever this error is returned.
type MutationError struct {
	Op  string
	Err error
}

func (e *MutationError) Error() string {
	return fmt.Sprintf("cart mutation %s failed: %v", e.Op, e.Err)
}

func (e *MutationError) Unwrap() error { return e.Err }

// Store is the local cart snapshot and its mutation protocol. Safe for
// concurrent use: the snapshot is guarded by a mutex and network calls
// never happen under it.
type Store struct {
	api    storeapi.API
	logger *slog.Logger

	mu       sync.Mutex
	cart     *store.Cart
	billing  *store.BillingSnapshot
	mutating bool
}

// New creates a Store backed by the given service capability.
func New(api storeapi.API, logger *slog.Logger) *Store {
	return &Store{api: api, logger: logger}
}

// CreateOrFetch loads the cart for the session, creating one
// server-side if none exists. Idempotent: repeated calls with the same
// session id install the same cart. On failure the snapshot is left
// unset (or unchanged) and the error is returned for the caller to
// surface.
func (s *Store) CreateOrFetch(ctx context.Context, sessionID string) (*store.Cart, error) {
	cart, err := s.api.CreateOrGetCart(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("creating or fetching cart for session %s: %w", sessionID, err)
	}

	billing, err := s.api.GetBilling(ctx, cart.ID)
	if err != nil {
		// The cart loaded; billing arrives on the next refresh.
		s.logger.Warn("billing fetch after cart load failed", "cart_id", cart.ID, "error", err)
		billing = nil
	}

	s.mu.Lock()
	s.cart = cart
	s.billing = billing
	s.mu.Unlock()

	return copyCart(cart), nil
}

// Refresh refetches the cart snapshot. A cart that no longer exists
// server-side surfaces as an error matching storeapi.ErrNotFound; the
// caller may re-run CreateOrFetch. Transport failures leave the
// existing snapshot in place.
func (s *Store) Refresh(ctx context.Context) (*store.Cart, error) {
	id, err := s.cartID()
	if err != nil {
		return nil, err
	}

	cart, err := s.api.GetCart(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("refreshing cart %d: %w", id, err)
	}

	s.mu.Lock()
	s.cart = cart
	s.mu.Unlock()

	return copyCart(cart), nil
}

// RefreshBilling refetches the billing snapshot. Billing is always
// derived fresh by the service; the store never carries a billing
// value across a mutation boundary.
func (s *Store) RefreshBilling(ctx context.Context) (*store.BillingSnapshot, error) {
	id, err := s.cartID()
	if err != nil {
		return nil, err
	}

	billing, err := s.api.GetBilling(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("refreshing billing for cart %d: %w", id, err)
	}

	s.mu.Lock()
	s.billing = billing
	s.mu.Unlock()

	copied := *billing
	return &copied, nil
}

// AddItem adds quantity units of a product to the cart, then refetches
// the cart and billing. Quantity must be positive: the call is never
// issued otherwise. On mutation failure the snapshot is untouched and
// a *MutationError is returned.
func (s *Store) AddItem(ctx context.Context, productID, quantity int64) error {
	if quantity <= 0 {
		return &MutationError{Op: "add-item", Err: fmt.Errorf("quantity must be positive, got %d", quantity)}
	}
	return s.mutate(ctx, "add-item", func(cartID int64) error {
		return s.api.AddCartItem(ctx, cartID, productID, quantity)
	})
}

// RemoveItem removes one line item from the cart, then refetches the
// cart and billing. On mutation failure the snapshot is untouched and
// a *MutationError is returned.
func (s *Store) RemoveItem(ctx context.Context, itemID int64) error {
	return s.mutate(ctx, "remove-item", func(cartID int64) error {
		return s.api.RemoveCartItem(ctx, cartID, itemID)
	})
}

// mutate runs one write operation under the in-flight guard and, on
// success, performs the mandatory cart + billing refetch.
func (s *Store) mutate(ctx context.Context, op string, call func(cartID int64) error) error {
	s.mu.Lock()
	if s.cart == nil {
		s.mu.Unlock()
		return ErrNoCart
	}
	if s.mutating {
		s.mu.Unlock()
		return ErrMutationInFlight
	}
	s.mutating = true
	cartID := s.cart.ID
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.mutating = false
		s.mu.Unlock()
	}()

	if err := call(cartID); err != nil {
		return &MutationError{Op: op, Err: err}
	}

	// The write landed; the snapshot is stale until both refetches
	// succeed. A refetch failure is a refresh error, not a mutation
	// error — the next poll tick retries it.
	if _, err := s.Refresh(ctx); err != nil {
		return err
	}
	if _, err := s.RefreshBilling(ctx); err != nil {
		return err
	}
	return nil
}

// Snapshot returns copies of the current cart and billing. Either may
// be nil before the first successful fetch.
func (s *Store) Snapshot() (*store.Cart, *store.BillingSnapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var billing *store.BillingSnapshot
	if s.billing != nil {
		copied := *s.billing
		billing = &copied
	}
	return copyCart(s.cart), billing
}

// cartID returns the loaded cart's id or ErrNoCart.
func (s *Store) cartID() (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cart == nil {
		return 0, ErrNoCart
	}
	return s.cart.ID, nil
}

// copyCart returns a copy with its own Items slice, so callers can
// hold the result across later refreshes.
func copyCart(cart *store.Cart) *store.Cart {
	if cart == nil {
		return nil
	}
	copied := *cart
	copied.Items = append([]store.CartItem(nil), cart.Items...)
	return &copied
}
