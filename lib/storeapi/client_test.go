// Copyright 2026 The Cartkit Authors
// SPDX-License-Identifier: Apache-2.0

package storeapi

import (
	"context"
	"errors"
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"github.com/cartkit-project/cartkit/lib/codec"
	"github.com/cartkit-project/cartkit/lib/schema/store"
	"github.com/cartkit-project/cartkit/lib/testutil"
)

// startServer runs a SocketServer on a temp socket and returns a
// client connected to it. The server shuts down at test cleanup.
func startServer(t *testing.T, register func(*SocketServer)) *Client {
	t.Helper()

	socketPath := filepath.Join(t.TempDir(), "store.sock")
	server := NewSocketServer(socketPath, slog.Default())
	register(server)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		server.Serve(ctx)
		close(done)
	}()
	t.Cleanup(func() {
		cancel()
		testutil.RequireClosed(t, done, 5*time.Second, "server shutdown")
	})

	// Wait for the socket to appear.
	client := NewClient(socketPath)
	deadline := time.Now().Add(5 * time.Second)
	for {
		if err := client.Call(context.Background(), "ping", nil, nil); err != nil {
			var serviceErr *ServiceError
			if errors.As(err, &serviceErr) {
				// Server is up: "unknown action" proves the round trip.
				break
			}
			if time.Now().After(deadline) {
				t.Fatalf("server did not come up: %v", err)
			}
			time.Sleep(10 * time.Millisecond)
			continue
		}
		break
	}

	return client
}

func TestClientRoundTrip(t *testing.T) {
	want := store.Cart{
		ID:        7,
		SessionID: "CART-1000",
		Status:    store.CartActive,
		Items: []store.CartItem{
			{ID: 1, ProductID: 42, Quantity: 2, UnitPrice: 3.50, Subtotal: 7.00},
		},
	}

	client := startServer(t, func(server *SocketServer) {
		server.Handle(store.ActionCreateOrGetCart, func(ctx context.Context, raw []byte) (any, error) {
			var request struct {
				SessionID string `cbor:"session_id"`
				RequestID string `cbor:"request_id"`
			}
			if err := codec.Unmarshal(raw, &request); err != nil {
				return nil, err
			}
			if request.SessionID != "CART-1000" {
				t.Errorf("session_id = %q, want CART-1000", request.SessionID)
			}
			if request.RequestID == "" {
				t.Error("request_id missing from request")
			}
			return want, nil
		})
	})

	cart, err := client.CreateOrGetCart(context.Background(), "CART-1000")
	if err != nil {
		t.Fatalf("CreateOrGetCart failed: %v", err)
	}
	if cart.ID != want.ID || cart.SessionID != want.SessionID {
		t.Fatalf("cart = %+v, want id=%d session=%s", cart, want.ID, want.SessionID)
	}
	if len(cart.Items) != 1 || cart.Items[0].Subtotal != 7.00 {
		t.Fatalf("items = %+v, want one item with subtotal 7.00", cart.Items)
	}
}

func TestClientErrorCodeMapping(t *testing.T) {
	client := startServer(t, func(server *SocketServer) {
		server.Handle(store.ActionGetProductByBarcode, func(ctx context.Context, raw []byte) (any, error) {
			return nil, Failf(CodeNotFound, "no product with barcode %q", "000000")
		})
		server.Handle(store.ActionProcessPayment, func(ctx context.Context, raw []byte) (any, error) {
			return nil, Failf(CodePaymentDeclined, "card declined")
		})
		server.Handle(store.ActionGetCart, func(ctx context.Context, raw []byte) (any, error) {
			return nil, errors.New("database exploded")
		})
	})

	_, err := client.GetProductByBarcode(context.Background(), "000000")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("barcode lookup error = %v, want ErrNotFound", err)
	}

	_, err = client.ProcessPayment(context.Background(), 1, store.MethodCard)
	if !errors.Is(err, ErrPaymentDeclined) {
		t.Fatalf("payment error = %v, want ErrPaymentDeclined", err)
	}

	_, err = client.GetCart(context.Background(), 1)
	var serviceErr *ServiceError
	if !errors.As(err, &serviceErr) {
		t.Fatalf("internal error = %v, want *ServiceError", err)
	}
	if serviceErr.Code != CodeInternal {
		t.Fatalf("code = %q, want %q", serviceErr.Code, CodeInternal)
	}
	if errors.Is(err, ErrNotFound) || errors.Is(err, ErrPaymentDeclined) {
		t.Fatal("internal error should not match a sentinel")
	}
}

func TestClientUnknownAction(t *testing.T) {
	client := startServer(t, func(server *SocketServer) {})

	err := client.Call(context.Background(), "no-such-action", nil, nil)
	var serviceErr *ServiceError
	if !errors.As(err, &serviceErr) {
		t.Fatalf("error = %v, want *ServiceError", err)
	}
	if serviceErr.Code != CodeInvalid {
		t.Fatalf("code = %q, want %q", serviceErr.Code, CodeInvalid)
	}
}

func TestClientTransportError(t *testing.T) {
	client := NewClient(filepath.Join(t.TempDir(), "absent.sock"))
	_, err := client.GetOverview(context.Background())
	if err == nil {
		t.Fatal("expected a transport error for an absent socket")
	}
	var serviceErr *ServiceError
	if errors.As(err, &serviceErr) {
		t.Fatalf("transport failure should not be a ServiceError: %v", err)
	}
}
