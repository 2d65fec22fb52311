// Copyright 2026 The Cartkit Authors
// SPDX-License-Identifier: Apache-2.0

package store

// Action names for the store service socket protocol. Each request
// carries one of these in its "action" field.

// Cart operations.
const (
	ActionCreateOrGetCart = "cart/create-or-get"
	ActionGetCart         = "cart/get"
	ActionAddCartItem     = "cart/add-item"
	ActionRemoveCartItem  = "cart/remove-item"
	ActionGetBilling      = "cart/billing"
)

// Product and navigation operations.
const (
	ActionSearchProducts      = "products/search"
	ActionGetProductByBarcode = "products/barcode"
	ActionGetRoute            = "navigation/route"
)

// Verification, recommendation, and payment operations.
const (
	ActionVerifyItem         = "ai/verify-item"
	ActionGetRecommendations = "recommendations/for-cart"
	ActionGeneratePaymentQR  = "payment/qr"
	ActionProcessPayment     = "payment/process"
)

// Read-only operations dashboard.
const (
	ActionGetOverview        = "admin/overview"
	ActionGetPopularProducts = "admin/popular-products"
	ActionGetActiveCarts     = "admin/active-carts"
	ActionGetAlertsSummary   = "admin/alerts-summary"
)
