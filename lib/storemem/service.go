// Copyright 2026 The Cartkit Authors
// SPDX-License-Identifier: Apache-2.0

package storemem

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/cartkit-project/cartkit/lib/clock"
	"github.com/cartkit-project/cartkit/lib/schema/store"
	"github.com/cartkit-project/cartkit/lib/storeapi"
)

// qrValidity is how long a generated payment reference stays valid.
const qrValidity = 5 * time.Minute

// walkingMinutesPerUnit converts route distance to an ETA.
const walkingMinutesPerUnit = 0.5

// cartRecord is the service-side state of one cart.
type cartRecord struct {
	cart store.Cart
}

// Carts past the threshold earn a flat percentage off the subtotal.
const (
	discountThreshold = 50.0
	discountPercent   = 5.0
)

// alertRecord is one raised alert, aggregated by GetAlertsSummary.
type alertRecord struct {
	alertType string
	severity  string
	resolved  bool
	createdAt time.Time
}

// Service is the in-memory store service.
type Service struct {
	clock clock.Clock

	mu           sync.Mutex
	catalog      []catalogEntry
	aisles       map[int64]store.Aisle
	carts        map[int64]*cartRecord
	bySession    map[string]int64
	transactions []store.PaymentResult
	alerts       []alertRecord
	nextCartID   int64
	nextItemID   int64
}

// New creates a Service with the default seeded catalog.
func New(clk clock.Clock) *Service {
	return &Service{
		clock:      clk,
		catalog:    seedCatalog(),
		aisles:     seedAisles(),
		carts:      make(map[int64]*cartRecord),
		bySession:  make(map[string]int64),
		nextCartID: 1,
		nextItemID: 1,
	}
}

var _ storeapi.API = (*Service)(nil)

// CreateOrGetCart returns the active cart for the session, creating
// one if none exists. Idempotent per session id.
func (s *Service) CreateOrGetCart(_ context.Context, sessionID string) (*store.Cart, error) {
	if sessionID == "" {
		return nil, storeapi.Failf(storeapi.CodeInvalid, "session_id must not be empty")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if id, exists := s.bySession[sessionID]; exists {
		if record, ok := s.carts[id]; ok && record.cart.Status == store.CartActive {
			return s.snapshotLocked(record), nil
		}
	}

	record := &cartRecord{
		cart: store.Cart{
			ID:        s.nextCartID,
			SessionID: sessionID,
			Status:    store.CartActive,
			CreatedAt: s.clock.Now(),
		},
	}
	s.nextCartID++
	s.carts[record.cart.ID] = record
	s.bySession[sessionID] = record.cart.ID

	return s.snapshotLocked(record), nil
}

// GetCart fetches a cart snapshot.
func (s *Service) GetCart(_ context.Context, cartID int64) (*store.Cart, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	record, err := s.cartLocked(cartID)
	if err != nil {
		return nil, err
	}
	return s.snapshotLocked(record), nil
}

// AddCartItem adds quantity units of a product. Adding a product
// already in the cart increments its quantity.
func (s *Service) AddCartItem(_ context.Context, cartID, productID, quantity int64) error {
	if quantity <= 0 {
		return storeapi.Failf(storeapi.CodeInvalid, "quantity must be positive, got %d", quantity)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	record, err := s.cartLocked(cartID)
	if err != nil {
		return err
	}
	entry := s.lookupProductLocked(productID)
	if entry == nil {
		return storeapi.Failf(storeapi.CodeNotFound, "product %d not found", productID)
	}

	for i := range record.cart.Items {
		item := &record.cart.Items[i]
		if item.ProductID == productID {
			item.Quantity += quantity
			item.Subtotal = round2(item.UnitPrice * float64(item.Quantity))
			record.cart.UpdatedAt = s.clock.Now()
			return nil
		}
	}

	record.cart.Items = append(record.cart.Items, store.CartItem{
		ID:           s.nextItemID,
		ProductID:    productID,
		Product:      entry.product,
		Quantity:     quantity,
		UnitPrice:    entry.product.Price,
		Subtotal:     round2(entry.product.Price * float64(quantity)),
		ScanVerified: true,
		AddedAt:      s.clock.Now(),
	})
	s.nextItemID++
	record.cart.UpdatedAt = s.clock.Now()
	return nil
}

// RemoveCartItem removes one line item.
func (s *Service) RemoveCartItem(_ context.Context, cartID, itemID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	record, err := s.cartLocked(cartID)
	if err != nil {
		return err
	}
	for i := range record.cart.Items {
		if record.cart.Items[i].ID == itemID {
			record.cart.Items = append(record.cart.Items[:i], record.cart.Items[i+1:]...)
			record.cart.UpdatedAt = s.clock.Now()
			return nil
		}
	}
	return storeapi.Failf(storeapi.CodeNotFound, "cart item %d not found in cart %d", itemID, cartID)
}

// GetBilling computes the bill for a cart: per-item tax rates summed
// over line subtotals, cart-level discount, final clamped at zero.
func (s *Service) GetBilling(_ context.Context, cartID int64) (*store.BillingSnapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	record, err := s.cartLocked(cartID)
	if err != nil {
		return nil, err
	}
	billing := s.billingLocked(record)
	return &billing, nil
}

// billingLocked computes the billing snapshot. Caller holds s.mu.
func (s *Service) billingLocked(record *cartRecord) store.BillingSnapshot {
	var subtotal, tax float64
	var count int64
	for _, item := range record.cart.Items {
		line := item.UnitPrice * float64(item.Quantity)
		subtotal += line
		tax += line * s.taxRateLocked(item.ProductID) / 100.0
		count += item.Quantity
	}
	var discount float64
	if subtotal > discountThreshold {
		discount = subtotal * discountPercent / 100.0
	}
	final := subtotal + tax - discount
	if final < 0 {
		final = 0
	}
	return store.BillingSnapshot{
		CartID:         record.cart.ID,
		SessionID:      record.cart.SessionID,
		Subtotal:       round2(subtotal),
		TaxAmount:      round2(tax),
		DiscountAmount: round2(discount),
		FinalAmount:    round2(final),
		ItemCount:      count,
		Currency:       "USD",
	}
}

// VerifyItem checks a claimed product against the cart's contents. A
// product actually in the cart passes and is flagged verified; a
// product not in the cart raises a mismatch alert on the cart.
func (s *Service) VerifyItem(_ context.Context, cartID, productID int64) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	record, err := s.cartLocked(cartID)
	if err != nil {
		return "", err
	}
	entry := s.lookupProductLocked(productID)
	if entry == nil {
		return "", storeapi.Failf(storeapi.CodeNotFound, "product %d not found", productID)
	}

	for i := range record.cart.Items {
		item := &record.cart.Items[i]
		if item.ProductID == productID {
			item.VerifiedByAI = true
			return fmt.Sprintf("AI verification passed for %s", entry.product.Name), nil
		}
	}

	record.cart.HasAlert = true
	record.cart.AlertReason = fmt.Sprintf("claimed item %s is not in the cart", entry.product.Name)
	s.alerts = append(s.alerts, alertRecord{
		alertType: "item_mismatch",
		severity:  "high",
		createdAt: s.clock.Now(),
	})
	return "", storeapi.Failf(storeapi.CodeInvalid,
		"verification failed: %s is not in the cart", entry.product.Name)
}

// SearchProducts matches the query case-insensitively against name,
// SKU, barcode, and category.
func (s *Service) SearchProducts(_ context.Context, query string, limit int64) ([]store.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if limit <= 0 {
		limit = 20
	}
	needle := strings.ToLower(strings.TrimSpace(query))

	var results []store.Product
	for _, entry := range s.catalog {
		p := entry.product
		if needle == "" ||
			strings.Contains(strings.ToLower(p.Name), needle) ||
			strings.Contains(strings.ToLower(p.SKU), needle) ||
			strings.Contains(p.Barcode, needle) ||
			strings.Contains(strings.ToLower(p.Category), needle) {
			results = append(results, p)
			if int64(len(results)) >= limit {
				break
			}
		}
	}
	return results, nil
}

// GetProductByBarcode looks up a product by exact barcode.
func (s *Service) GetProductByBarcode(_ context.Context, barcode string) (*store.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, entry := range s.catalog {
		if entry.product.Barcode == barcode {
			product := entry.product
			return &product, nil
		}
	}
	return nil, storeapi.Failf(storeapi.CodeNotFound, "no product with barcode %q", barcode)
}

// GetRoute synthesizes a route to the aisle holding the target
// product. Distance scales with the aisle's position in the floor
// plan.
func (s *Service) GetRoute(_ context.Context, cartID, targetProductID int64) (*store.Route, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.cartLocked(cartID); err != nil {
		return nil, err
	}
	entry := s.lookupProductLocked(targetProductID)
	if entry == nil {
		return nil, storeapi.Failf(storeapi.CodeNotFound, "product %d not found", targetProductID)
	}
	aisle, ok := s.aisles[entry.aisleID]
	if !ok {
		return nil, storeapi.Failf(storeapi.CodeInternal, "product %d has no aisle", targetProductID)
	}

	distance := 5.0 + 3.0*float64(aisle.ID)
	return &store.Route{
		CartID:      cartID,
		TargetAisle: aisle,
		Steps: []store.RouteStep{
			{StepNumber: 1, Instruction: fmt.Sprintf("Head to section %s", aisle.Section), AisleName: aisle.Name},
			{StepNumber: 2, Instruction: fmt.Sprintf("Turn into the %s aisle", aisle.Name), AisleName: aisle.Name},
			{StepNumber: 3, Instruction: fmt.Sprintf("%s is on the shelf ahead", entry.product.Name), AisleName: aisle.Name},
		},
		TotalDistance:        distance,
		EstimatedTimeMinutes: round2(distance * walkingMinutesPerUnit),
	}, nil
}

// GetRecommendations suggests catalog products sharing a category with
// the cart's items, excluding products already in the cart. An empty
// cart yields an empty set.
func (s *Service) GetRecommendations(_ context.Context, cartID int64) (*store.RecommendationSet, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	record, err := s.cartLocked(cartID)
	if err != nil {
		return nil, err
	}

	set := &store.RecommendationSet{CartID: cartID}
	inCart := make(map[int64]bool)
	categories := make(map[string]string) // category -> item that anchored it
	for _, item := range record.cart.Items {
		inCart[item.ProductID] = true
		set.BasedOnItems = append(set.BasedOnItems, item.ProductID)
		if _, seen := categories[item.Product.Category]; !seen {
			categories[item.Product.Category] = item.Product.Name
		}
	}

	confidence := 0.95
	for _, entry := range s.catalog {
		anchor, match := categories[entry.product.Category]
		if !match || inCart[entry.product.ID] {
			continue
		}
		set.Recommendations = append(set.Recommendations, store.Recommendation{
			Product:            entry.product,
			ConfidenceScore:    round2(confidence),
			RecommendationType: "same_category",
			Reason:             fmt.Sprintf("Pairs with %s", anchor),
		})
		confidence -= 0.07
		if confidence < 0.5 || len(set.Recommendations) >= 6 {
			break
		}
	}
	return set, nil
}

// GeneratePaymentQR creates a fresh opaque payment reference for the
// cart's current final amount. Re-callable; previous references are
// simply superseded.
func (s *Service) GeneratePaymentQR(_ context.Context, cartID int64) (*store.PaymentQR, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	record, err := s.cartLocked(cartID)
	if err != nil {
		return nil, err
	}
	billing := s.billingLocked(record)
	return &store.PaymentQR{
		Amount:           billing.FinalAmount,
		PaymentReference: "PAY-" + uuid.NewString(),
		ExpiresAt:        s.clock.Now().Add(qrValidity),
	}, nil
}

// ProcessPayment settles the cart. Carts with an unresolved alert are
// declined; empty carts are invalid; anything else completes and the
// cart leaves the active state.
func (s *Service) ProcessPayment(_ context.Context, cartID int64, method string) (*store.PaymentResult, error) {
	if !validMethod(method) {
		return nil, storeapi.Failf(storeapi.CodeInvalid, "unknown payment method %q", method)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	record, err := s.cartLocked(cartID)
	if err != nil {
		return nil, err
	}
	if len(record.cart.Items) == 0 {
		return nil, storeapi.Failf(storeapi.CodeInvalid, "cart %d is empty", cartID)
	}
	if record.cart.HasAlert {
		return nil, storeapi.Failf(storeapi.CodePaymentDeclined,
			"cart %d has an unresolved alert: %s", cartID, record.cart.AlertReason)
	}

	billing := s.billingLocked(record)
	result := store.PaymentResult{
		TransactionID: "TXN-" + uuid.NewString(),
		CartID:        cartID,
		PaymentMethod: method,
		Amount:        billing.FinalAmount,
		Status:        "completed",
		ReceiptData:   receiptMarkdown(record, billing, s.clock.Now()),
		CompletedAt:   s.clock.Now(),
	}

	record.cart.Status = store.CartPaid
	delete(s.bySession, record.cart.SessionID)
	s.transactions = append(s.transactions, result)

	copied := result
	return &copied, nil
}

// GetOverview returns dashboard headline metrics.
func (s *Service) GetOverview(ctx context.Context) (*store.DashboardOverview, error) {
	popular, err := s.GetPopularProducts(ctx, 7, 10)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	overview := &store.DashboardOverview{PopularProducts: popular}
	for _, record := range s.carts {
		if record.cart.Status == store.CartActive {
			overview.ActiveCarts++
		}
		if record.cart.HasAlert {
			overview.ActiveAlerts++
		}
	}

	today := s.clock.Now().Truncate(24 * time.Hour)
	for _, txn := range s.transactions {
		if !txn.CompletedAt.Before(today) {
			overview.TransactionsToday++
			overview.RevenueToday = round2(overview.RevenueToday + txn.Amount)
		}
	}
	return overview, nil
}

// GetPopularProducts ranks products by how many line items reference
// them across carts created within the window.
func (s *Service) GetPopularProducts(_ context.Context, days, limit int64) ([]store.PopularProduct, error) {
	if days <= 0 {
		return nil, storeapi.Failf(storeapi.CodeInvalid, "days must be positive, got %d", days)
	}
	if limit <= 0 {
		limit = 20
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	cutoff := s.clock.Now().AddDate(0, 0, -int(days))
	counts := make(map[int64]*store.PopularProduct)
	for _, record := range s.carts {
		if record.cart.CreatedAt.Before(cutoff) {
			continue
		}
		for _, item := range record.cart.Items {
			row, ok := counts[item.ProductID]
			if !ok {
				row = &store.PopularProduct{
					ProductID: item.ProductID,
					Name:      item.Product.Name,
					Category:  item.Product.Category,
					Price:     item.Product.Price,
				}
				counts[item.ProductID] = row
			}
			row.PurchaseCount++
			row.TotalQuantity += item.Quantity
		}
	}

	ranked := make([]store.PopularProduct, 0, len(counts))
	for _, row := range counts {
		ranked = append(ranked, *row)
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].PurchaseCount != ranked[j].PurchaseCount {
			return ranked[i].PurchaseCount > ranked[j].PurchaseCount
		}
		return ranked[i].ProductID < ranked[j].ProductID
	})
	if int64(len(ranked)) > limit {
		ranked = ranked[:limit]
	}
	return ranked, nil
}

// GetActiveCarts lists carts in the active state, newest first.
func (s *Service) GetActiveCarts(_ context.Context) ([]store.ActiveCartSummary, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var summaries []store.ActiveCartSummary
	for _, record := range s.carts {
		if record.cart.Status != store.CartActive {
			continue
		}
		billing := s.billingLocked(record)
		summaries = append(summaries, store.ActiveCartSummary{
			ID:          record.cart.ID,
			SessionID:   record.cart.SessionID,
			TotalAmount: billing.Subtotal,
			FinalAmount: billing.FinalAmount,
			ItemCount:   billing.ItemCount,
			HasAlert:    record.cart.HasAlert,
			CreatedAt:   record.cart.CreatedAt,
		})
	}
	sort.Slice(summaries, func(i, j int) bool {
		return summaries[i].CreatedAt.After(summaries[j].CreatedAt)
	})
	return summaries, nil
}

// GetAlertsSummary aggregates alerts raised within the window by type.
func (s *Service) GetAlertsSummary(_ context.Context, days int64) (store.AlertsSummary, error) {
	if days <= 0 {
		return nil, storeapi.Failf(storeapi.CodeInvalid, "days must be positive, got %d", days)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	cutoff := s.clock.Now().AddDate(0, 0, -int(days))
	summary := make(store.AlertsSummary)
	for _, alert := range s.alerts {
		if alert.createdAt.Before(cutoff) {
			continue
		}
		row := summary[alert.alertType]
		row.Count++
		if alert.severity == "high" || alert.severity == "critical" {
			row.HighSeverity++
		}
		if alert.resolved {
			row.Resolved++
		}
		summary[alert.alertType] = row
	}
	return summary, nil
}

// cartLocked returns the cart record or a not-found error. Caller
// holds s.mu.
func (s *Service) cartLocked(cartID int64) (*cartRecord, error) {
	record, ok := s.carts[cartID]
	if !ok {
		return nil, storeapi.Failf(storeapi.CodeNotFound, "cart %d not found", cartID)
	}
	return record, nil
}

// lookupProductLocked finds a catalog entry by product id. Caller
// holds s.mu.
func (s *Service) lookupProductLocked(productID int64) *catalogEntry {
	for i := range s.catalog {
		if s.catalog[i].product.ID == productID {
			return &s.catalog[i]
		}
	}
	return nil
}

// taxRateLocked returns the tax rate for a product, zero if the
// product has left the catalog. Caller holds s.mu.
func (s *Service) taxRateLocked(productID int64) float64 {
	if entry := s.lookupProductLocked(productID); entry != nil {
		return entry.taxRate
	}
	return 0
}

// snapshotLocked copies a cart for return to callers. Caller holds
// s.mu.
func (s *Service) snapshotLocked(record *cartRecord) *store.Cart {
	copied := record.cart
	copied.Items = append([]store.CartItem(nil), record.cart.Items...)
	return &copied
}

// validMethod reports whether method is an accepted payment method.
func validMethod(method string) bool {
	for _, m := range store.Methods {
		if m == method {
			return true
		}
	}
	return false
}

// round2 rounds to two decimal places, matching the service's
// monetary precision.
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// receiptMarkdown renders the markdown receipt attached to a payment
// result.
func receiptMarkdown(record *cartRecord, billing store.BillingSnapshot, completedAt time.Time) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Receipt\n\n")
	fmt.Fprintf(&b, "Session `%s` — %s\n\n", record.cart.SessionID, completedAt.Format(time.RFC1123))
	fmt.Fprintf(&b, "| Item | Qty | Amount |\n|---|---|---|\n")
	for _, item := range record.cart.Items {
		fmt.Fprintf(&b, "| %s | %d | $%.2f |\n", item.Product.Name, item.Quantity, item.Subtotal)
	}
	fmt.Fprintf(&b, "\n")
	fmt.Fprintf(&b, "Subtotal: $%.2f\n\n", billing.Subtotal)
	fmt.Fprintf(&b, "Tax: $%.2f\n\n", billing.TaxAmount)
	if billing.DiscountAmount > 0 {
		fmt.Fprintf(&b, "Discount: -$%.2f\n\n", billing.DiscountAmount)
	}
	fmt.Fprintf(&b, "**Total: $%.2f**\n", billing.FinalAmount)
	return b.String()
}
