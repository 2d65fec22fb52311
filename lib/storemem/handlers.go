// Copyright 2026 The Cartkit Authors
// SPDX-License-Identifier: Apache-2.0

package storemem

import (
	"context"

	"github.com/cartkit-project/cartkit/lib/codec"
	"github.com/cartkit-project/cartkit/lib/schema/store"
	"github.com/cartkit-project/cartkit/lib/storeapi"
)

// Mount registers all store service actions on the socket server.
func (s *Service) Mount(server *storeapi.SocketServer) {
	server.Handle(store.ActionCreateOrGetCart, s.handleCreateOrGetCart)
	server.Handle(store.ActionGetCart, s.handleGetCart)
	server.Handle(store.ActionAddCartItem, s.handleAddCartItem)
	server.Handle(store.ActionRemoveCartItem, s.handleRemoveCartItem)
	server.Handle(store.ActionGetBilling, s.handleGetBilling)
	server.Handle(store.ActionVerifyItem, s.handleVerifyItem)
	server.Handle(store.ActionSearchProducts, s.handleSearchProducts)
	server.Handle(store.ActionGetProductByBarcode, s.handleGetProductByBarcode)
	server.Handle(store.ActionGetRoute, s.handleGetRoute)
	server.Handle(store.ActionGetRecommendations, s.handleGetRecommendations)
	server.Handle(store.ActionGeneratePaymentQR, s.handleGeneratePaymentQR)
	server.Handle(store.ActionProcessPayment, s.handleProcessPayment)
	server.Handle(store.ActionGetOverview, s.handleGetOverview)
	server.Handle(store.ActionGetPopularProducts, s.handleGetPopularProducts)
	server.Handle(store.ActionGetActiveCarts, s.handleGetActiveCarts)
	server.Handle(store.ActionGetAlertsSummary, s.handleGetAlertsSummary)
}

// decode unmarshals action-specific request fields.
func decode(raw []byte, request any) error {
	if err := codec.Unmarshal(raw, request); err != nil {
		return storeapi.Failf(storeapi.CodeInvalid, "invalid request fields: %v", err)
	}
	return nil
}

func (s *Service) handleCreateOrGetCart(ctx context.Context, raw []byte) (any, error) {
	var request struct {
		SessionID string `cbor:"session_id"`
	}
	if err := decode(raw, &request); err != nil {
		return nil, err
	}
	return s.CreateOrGetCart(ctx, request.SessionID)
}

func (s *Service) handleGetCart(ctx context.Context, raw []byte) (any, error) {
	var request struct {
		CartID int64 `cbor:"cart_id"`
	}
	if err := decode(raw, &request); err != nil {
		return nil, err
	}
	return s.GetCart(ctx, request.CartID)
}

func (s *Service) handleAddCartItem(ctx context.Context, raw []byte) (any, error) {
	var request struct {
		CartID    int64 `cbor:"cart_id"`
		ProductID int64 `cbor:"product_id"`
		Quantity  int64 `cbor:"quantity"`
	}
	if err := decode(raw, &request); err != nil {
		return nil, err
	}
	return nil, s.AddCartItem(ctx, request.CartID, request.ProductID, request.Quantity)
}

func (s *Service) handleRemoveCartItem(ctx context.Context, raw []byte) (any, error) {
	var request struct {
		CartID int64 `cbor:"cart_id"`
		ItemID int64 `cbor:"item_id"`
	}
	if err := decode(raw, &request); err != nil {
		return nil, err
	}
	return nil, s.RemoveCartItem(ctx, request.CartID, request.ItemID)
}

func (s *Service) handleGetBilling(ctx context.Context, raw []byte) (any, error) {
	var request struct {
		CartID int64 `cbor:"cart_id"`
	}
	if err := decode(raw, &request); err != nil {
		return nil, err
	}
	return s.GetBilling(ctx, request.CartID)
}

func (s *Service) handleVerifyItem(ctx context.Context, raw []byte) (any, error) {
	var request struct {
		CartID    int64 `cbor:"cart_id"`
		ProductID int64 `cbor:"product_id"`
	}
	if err := decode(raw, &request); err != nil {
		return nil, err
	}
	message, err := s.VerifyItem(ctx, request.CartID, request.ProductID)
	if err != nil {
		return nil, err
	}
	return map[string]any{"verified": true, "message": message}, nil
}

func (s *Service) handleSearchProducts(ctx context.Context, raw []byte) (any, error) {
	var request struct {
		Query string `cbor:"query"`
		Limit int64  `cbor:"limit"`
	}
	if err := decode(raw, &request); err != nil {
		return nil, err
	}
	products, err := s.SearchProducts(ctx, request.Query, request.Limit)
	if err != nil {
		return nil, err
	}
	return map[string]any{"products": products}, nil
}

func (s *Service) handleGetProductByBarcode(ctx context.Context, raw []byte) (any, error) {
	var request struct {
		Barcode string `cbor:"barcode"`
	}
	if err := decode(raw, &request); err != nil {
		return nil, err
	}
	return s.GetProductByBarcode(ctx, request.Barcode)
}

func (s *Service) handleGetRoute(ctx context.Context, raw []byte) (any, error) {
	var request struct {
		CartID          int64 `cbor:"cart_id"`
		TargetProductID int64 `cbor:"target_product_id"`
	}
	if err := decode(raw, &request); err != nil {
		return nil, err
	}
	return s.GetRoute(ctx, request.CartID, request.TargetProductID)
}

func (s *Service) handleGetRecommendations(ctx context.Context, raw []byte) (any, error) {
	var request struct {
		CartID int64 `cbor:"cart_id"`
	}
	if err := decode(raw, &request); err != nil {
		return nil, err
	}
	return s.GetRecommendations(ctx, request.CartID)
}

func (s *Service) handleGeneratePaymentQR(ctx context.Context, raw []byte) (any, error) {
	var request struct {
		CartID int64 `cbor:"cart_id"`
	}
	if err := decode(raw, &request); err != nil {
		return nil, err
	}
	return s.GeneratePaymentQR(ctx, request.CartID)
}

func (s *Service) handleProcessPayment(ctx context.Context, raw []byte) (any, error) {
	var request struct {
		CartID        int64  `cbor:"cart_id"`
		PaymentMethod string `cbor:"payment_method"`
	}
	if err := decode(raw, &request); err != nil {
		return nil, err
	}
	return s.ProcessPayment(ctx, request.CartID, request.PaymentMethod)
}

func (s *Service) handleGetOverview(ctx context.Context, _ []byte) (any, error) {
	return s.GetOverview(ctx)
}

func (s *Service) handleGetPopularProducts(ctx context.Context, raw []byte) (any, error) {
	var request struct {
		Days  int64 `cbor:"days"`
		Limit int64 `cbor:"limit"`
	}
	if err := decode(raw, &request); err != nil {
		return nil, err
	}
	products, err := s.GetPopularProducts(ctx, request.Days, request.Limit)
	if err != nil {
		return nil, err
	}
	return map[string]any{"products": products}, nil
}

func (s *Service) handleGetActiveCarts(ctx context.Context, _ []byte) (any, error) {
	carts, err := s.GetActiveCarts(ctx)
	if err != nil {
		return nil, err
	}
	return map[string]any{"carts": carts}, nil
}

func (s *Service) handleGetAlertsSummary(ctx context.Context, raw []byte) (any, error) {
	var request struct {
		Days int64 `cbor:"days"`
	}
	if err := decode(raw, &request); err != nil {
		return nil, err
	}
	summary, err := s.GetAlertsSummary(ctx, request.Days)
	if err != nil {
		return nil, err
	}
	return map[string]any{"summary": summary}, nil
}
