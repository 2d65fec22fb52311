// Copyright 2026 The Cartkit Authors
// SPDX-License-Identifier: Apache-2.0

package flow

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/cartkit-project/cartkit/lib/cartstate"
	"github.com/cartkit-project/cartkit/lib/storeapi"
)

// Verifier runs AI item verification against the loaded cart.
type Verifier struct {
	api    storeapi.API
	cart   *cartstate.Store
	logger *slog.Logger
}

// NewVerifier creates a Verifier operating on the given cart store.
func NewVerifier(api storeapi.API, cart *cartstate.Store, logger *slog.Logger) *Verifier {
	return &Verifier{api: api, cart: cart, logger: logger}
}

// Verify asks the service to verify the claimed product against the
// cart's contents. On success the cart snapshot is refreshed so the
// new verification flags are visible, and the service's message is
// returned. On failure only the error is returned — a failed
// verification may have raised a server-side alert, which the next
// poll picks up.
func (v *Verifier) Verify(ctx context.Context, productID int64) (string, error) {
	snapshot, _ := v.cart.Snapshot()
	if snapshot == nil {
		return "", cartstate.ErrNoCart
	}

	message, err := v.api.VerifyItem(ctx, snapshot.ID, productID)
	if err != nil {
		return "", fmt.Errorf("verifying product %d: %w", productID, err)
	}

	if _, err := v.cart.Refresh(ctx); err != nil {
		// Verification landed; the flags arrive with the next poll.
		v.logger.Warn("cart refresh after verification failed", "error", err)
	}
	return message, nil
}
