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

// ErrInvalidProductID is returned by Request for non-positive product
// ids. No network call is made.
var ErrInvalidProductID = errors.New("target product id must be positive")

// ErrRequestInFlight is returned when a route request is started while
// another is still outstanding.
var ErrRequestInFlight = errors.New("route request already in flight")

// RoutePlanner requests in-store navigation routes, keeping the last
// successful route available across failed requests.
type RoutePlanner struct {
	api  storeapi.API
	cart *cartstate.Store

	mu         sync.Mutex
	requesting bool
	current    *store.Route
}

// NewRoutePlanner creates a RoutePlanner operating on the given cart
// store.
func NewRoutePlanner(api storeapi.API, cart *cartstate.Store) *RoutePlanner {
	return &RoutePlanner{api: api, cart: cart}
}

// Request fetches a route to the aisle holding targetProductID. Only
// one request may be outstanding at a time; a failed request leaves
// the previously fetched route in place.
func (p *RoutePlanner) Request(ctx context.Context, targetProductID int64) (*store.Route, error) {
	if targetProductID <= 0 {
		return nil, ErrInvalidProductID
	}

	snapshot, _ := p.cart.Snapshot()
	if snapshot == nil {
		return nil, cartstate.ErrNoCart
	}

	p.mu.Lock()
	if p.requesting {
		p.mu.Unlock()
		return nil, ErrRequestInFlight
	}
	p.requesting = true
	p.mu.Unlock()

	route, err := p.api.GetRoute(ctx, snapshot.ID, targetProductID)

	p.mu.Lock()
	p.requesting = false
	if err == nil {
		p.current = route
	}
	p.mu.Unlock()

	if err != nil {
		return nil, fmt.Errorf("requesting route to product %d: %w", targetProductID, err)
	}
	return copyRoute(route), nil
}

// Current returns a copy of the last successful route, or nil if none
// has been fetched.
func (p *RoutePlanner) Current() *store.Route {
	p.mu.Lock()
	defer p.mu.Unlock()
	return copyRoute(p.current)
}

// Clear drops the stored route.
func (p *RoutePlanner) Clear() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.current = nil
}

func copyRoute(route *store.Route) *store.Route {
	if route == nil {
		return nil
	}
	copied := *route
	copied.Steps = append([]store.RouteStep(nil), route.Steps...)
	return &copied
}
