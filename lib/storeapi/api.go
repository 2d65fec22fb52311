// Copyright 2026 The Cartkit Authors
// SPDX-License-Identifier: Apache-2.0

package storeapi

import (
	"context"

	"github.com/cartkit-project/cartkit/lib/schema/store"
)

// API is the abstract capability exposed by the store service. Every
// cartkit component that talks to the service depends on this
// interface; none embed request details. The production implementation
// is *Client; tests inject fakes.
type API interface {
	// CreateOrGetCart returns the cart for the session, creating one
	// if none exists. Idempotent: repeated calls with the same session
	// id yield the same cart.
	CreateOrGetCart(ctx context.Context, sessionID string) (*store.Cart, error)

	// GetCart fetches the current cart snapshot. Returns an error
	// matching ErrNotFound if the cart no longer exists.
	GetCart(ctx context.Context, cartID int64) (*store.Cart, error)

	// AddCartItem adds quantity units of a product to the cart.
	AddCartItem(ctx context.Context, cartID, productID, quantity int64) error

	// RemoveCartItem removes one line item from the cart.
	RemoveCartItem(ctx context.Context, cartID, itemID int64) error

	// GetBilling returns the service's current bill calculation for
	// the cart.
	GetBilling(ctx context.Context, cartID int64) (*store.BillingSnapshot, error)

	// VerifyItem runs the service's AI verification for a product in
	// the cart and returns the verification message.
	VerifyItem(ctx context.Context, cartID, productID int64) (string, error)

	// SearchProducts returns up to limit products matching the query.
	SearchProducts(ctx context.Context, query string, limit int64) ([]store.Product, error)

	// GetProductByBarcode looks up a product by its barcode. Returns
	// an error matching ErrNotFound for unknown barcodes.
	GetProductByBarcode(ctx context.Context, barcode string) (*store.Product, error)

	// GetRoute computes a route from the cart's position to the aisle
	// holding the target product.
	GetRoute(ctx context.Context, cartID, targetProductID int64) (*store.Route, error)

	// GetRecommendations returns ranked suggestions based on the
	// cart's contents.
	GetRecommendations(ctx context.Context, cartID int64) (*store.RecommendationSet, error)

	// GeneratePaymentQR creates a fresh payment reference for QR
	// display. Re-callable; does not change payment state.
	GeneratePaymentQR(ctx context.Context, cartID int64) (*store.PaymentQR, error)

	// ProcessPayment settles the cart with the given payment method.
	// A declined attempt returns an error matching ErrPaymentDeclined.
	ProcessPayment(ctx context.Context, cartID int64, method string) (*store.PaymentResult, error)

	// GetOverview returns the operations dashboard headline metrics.
	GetOverview(ctx context.Context) (*store.DashboardOverview, error)

	// GetPopularProducts ranks products by purchase count over the
	// last days.
	GetPopularProducts(ctx context.Context, days, limit int64) ([]store.PopularProduct, error)

	// GetActiveCarts lists carts currently in the active state.
	GetActiveCarts(ctx context.Context) ([]store.ActiveCartSummary, error)

	// GetAlertsSummary aggregates alerts by type over the last days.
	GetAlertsSummary(ctx context.Context, days int64) (store.AlertsSummary, error)
}
