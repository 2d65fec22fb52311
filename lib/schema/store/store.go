// Copyright 2026 The Cartkit Authors
// SPDX-License-Identifier: Apache-2.0

package store

import "time"

// Cart status values.
const (
	CartActive    = "active"
	CartPaid      = "paid"
	CartAbandoned = "abandoned"
)

// Payment methods accepted by the store service.
const (
	MethodQRCode = "qr_code"
	MethodNFC    = "nfc"
	MethodCard   = "card"
	MethodCash   = "cash"
)

// Methods lists the accepted payment methods in display order.
var Methods = []string{MethodQRCode, MethodNFC, MethodCard, MethodCash}

// Product is a catalog entry. Immutable from the client's perspective
// within a shopping session.
type Product struct {
	ID            int64   `cbor:"id"`
	Name          string  `cbor:"name"`
	SKU           string  `cbor:"sku"`
	Barcode       string  `cbor:"barcode"`
	Category      string  `cbor:"category"`
	Price         float64 `cbor:"price"`
	StockQuantity int64   `cbor:"stock_quantity"`
}

// CartItem is one line item in a cart. Subtotal is unit_price ×
// quantity, recomputed server-side on every fetch — clients never
// derive it.
type CartItem struct {
	ID           int64     `cbor:"id"`
	ProductID    int64     `cbor:"product_id"`
	Product      Product   `cbor:"product"`
	Quantity     int64     `cbor:"quantity"`
	UnitPrice    float64   `cbor:"unit_price"`
	Subtotal     float64   `cbor:"subtotal"`
	ScanVerified bool      `cbor:"scan_verified"`
	VerifiedByAI bool      `cbor:"verified_by_ai"`
	AddedAt      time.Time `cbor:"added_at"`
}

// Cart is the server-owned collection of line items plus derived alert
// state, associated with one client session.
type Cart struct {
	ID          int64      `cbor:"id"`
	SessionID   string     `cbor:"session_id"`
	Status      string     `cbor:"status"`
	Items       []CartItem `cbor:"items"`
	HasAlert    bool       `cbor:"has_alert"`
	AlertReason string     `cbor:"alert_reason,omitempty"`
	CreatedAt   time.Time  `cbor:"created_at"`
	UpdatedAt   time.Time  `cbor:"updated_at,omitempty"`
}

// BillingSnapshot is the service's bill calculation for a cart at a
// point in time. Recomputed on every fetch; never cached by clients
// across a mutation.
type BillingSnapshot struct {
	CartID         int64   `cbor:"cart_id"`
	SessionID      string  `cbor:"session_id"`
	Subtotal       float64 `cbor:"subtotal"`
	TaxAmount      float64 `cbor:"tax_amount"`
	DiscountAmount float64 `cbor:"discount_amount"`
	FinalAmount    float64 `cbor:"final_amount"`
	ItemCount      int64   `cbor:"item_count"`
	Currency       string  `cbor:"currency"`
}

// Aisle is a physical store location used as a navigation target.
type Aisle struct {
	ID      int64  `cbor:"id"`
	Name    string `cbor:"name"`
	Section string `cbor:"section"`
}

// RouteStep is one instruction in a navigation route.
type RouteStep struct {
	StepNumber  int64  `cbor:"step_number"`
	Instruction string `cbor:"instruction"`
	AisleName   string `cbor:"aisle_name"`
}

// Route is a service-computed path from the cart's position to the
// aisle holding a target product.
type Route struct {
	CartID               int64       `cbor:"cart_id"`
	TargetAisle          Aisle       `cbor:"target_aisle"`
	Steps                []RouteStep `cbor:"route"`
	TotalDistance        float64     `cbor:"total_distance"`
	EstimatedTimeMinutes float64     `cbor:"estimated_time_minutes"`
}

// PaymentQR is a regenerable payment reference for QR display. The
// reference is opaque to the client.
type PaymentQR struct {
	Amount           float64   `cbor:"amount"`
	PaymentReference string    `cbor:"payment_reference"`
	ExpiresAt        time.Time `cbor:"expires_at,omitempty"`
}

// PaymentResult records a settled payment attempt. Terminal once
// obtained: the payment flow freezes in a success state until
// explicitly reset for a new attempt.
type PaymentResult struct {
	TransactionID string    `cbor:"transaction_id"`
	CartID        int64     `cbor:"cart_id"`
	PaymentMethod string    `cbor:"payment_method"`
	Amount        float64   `cbor:"amount"`
	Status        string    `cbor:"status"`
	// ReceiptData is a markdown-formatted receipt rendered by the
	// service, empty if no receipt was produced.
	ReceiptData string    `cbor:"receipt_data,omitempty"`
	CompletedAt time.Time `cbor:"completed_at,omitempty"`
}

// Recommendation is one ranked suggestion for the shopper.
type Recommendation struct {
	Product            Product `cbor:"product"`
	ConfidenceScore    float64 `cbor:"confidence_score"`
	RecommendationType string  `cbor:"recommendation_type"`
	Reason             string  `cbor:"reason"`
}

// RecommendationSet is the service's recommendation response for a
// cart, including the product ids the ranking was based on.
type RecommendationSet struct {
	CartID          int64            `cbor:"cart_id"`
	Recommendations []Recommendation `cbor:"recommendations"`
	BasedOnItems    []int64          `cbor:"based_on_items"`
}

// AlertTypeSummary aggregates alerts of one type over a reporting
// window.
type AlertTypeSummary struct {
	Count        int64 `cbor:"count"`
	HighSeverity int64 `cbor:"high_severity"`
	Resolved     int64 `cbor:"resolved"`
}

// AlertsSummary maps alert type to its aggregate counts.
type AlertsSummary map[string]AlertTypeSummary

// PopularProduct is a purchase-count ranking entry for the dashboard.
type PopularProduct struct {
	ProductID     int64   `cbor:"product_id"`
	Name          string  `cbor:"name"`
	Category      string  `cbor:"category,omitempty"`
	Price         float64 `cbor:"price,omitempty"`
	PurchaseCount int64   `cbor:"purchase_count"`
	TotalQuantity int64   `cbor:"total_quantity,omitempty"`
}

// DashboardOverview is the operations dashboard's headline metrics.
type DashboardOverview struct {
	ActiveCarts       int64            `cbor:"active_carts"`
	TransactionsToday int64            `cbor:"transactions_today"`
	RevenueToday      float64          `cbor:"revenue_today"`
	ActiveAlerts      int64            `cbor:"active_alerts"`
	PopularProducts   []PopularProduct `cbor:"popular_products"`
}

// ActiveCartSummary is one row in the dashboard's active carts view.
type ActiveCartSummary struct {
	ID          int64     `cbor:"id"`
	SessionID   string    `cbor:"session_id"`
	TotalAmount float64   `cbor:"total_amount"`
	FinalAmount float64   `cbor:"final_amount"`
	ItemCount   int64     `cbor:"item_count"`
	HasAlert    bool      `cbor:"has_alert"`
	CreatedAt   time.Time `cbor:"created_at"`
}
