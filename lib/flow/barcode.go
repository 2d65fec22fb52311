// Copyright 2026 The Cartkit Authors
// SPDX-License-Identifier: Apache-2.0

package flow

import (
	"context"
	"fmt"
	"strings"

	"github.com/cartkit-project/cartkit/lib/cartstate"
	"github.com/cartkit-project/cartkit/lib/storeapi"
)

// BarcodeAdder resolves scanned barcodes and adds the product to the
// cart.
type BarcodeAdder struct {
	api  storeapi.API
	cart *cartstate.Store
}

// NewBarcodeAdder creates a BarcodeAdder operating on the given cart
// store.
func NewBarcodeAdder(api storeapi.API, cart *cartstate.Store) *BarcodeAdder {
	return &BarcodeAdder{api: api, cart: cart}
}

// LookupAndAdd resolves barcode to a product and adds one unit to the
// cart, returning the product name for display. An unknown barcode
// surfaces as an error matching storeapi.ErrNotFound and the add is
// never attempted.
func (b *BarcodeAdder) LookupAndAdd(ctx context.Context, barcode string) (string, error) {
	barcode = strings.TrimSpace(barcode)
	if barcode == "" {
		return "", fmt.Errorf("barcode must not be empty: %w", storeapi.ErrInvalidInput)
	}

	product, err := b.api.GetProductByBarcode(ctx, barcode)
	if err != nil {
		return "", fmt.Errorf("looking up barcode %q: %w", barcode, err)
	}

	if err := b.cart.AddItem(ctx, product.ID, 1); err != nil {
		return "", err
	}
	return product.Name, nil
}
