// Copyright 2026 The Cartkit Authors
// SPDX-License-Identifier: Apache-2.0

package cartstate

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/cartkit-project/cartkit/lib/clock"
	"github.com/cartkit-project/cartkit/lib/schema/store"
	"github.com/cartkit-project/cartkit/lib/storeapi"
	"github.com/cartkit-project/cartkit/lib/storemem"
)

// flakyAPI wraps a real API and fails selected operations on demand.
type flakyAPI struct {
	storeapi.API

	mu         sync.Mutex
	failAdd    bool
	failGet    bool
	blockAdd   chan struct{} // when non-nil, AddCartItem waits on it
	addCalls   int
	getCalls   int
	billCalls  int
	errNetwork error
}

func (f *flakyAPI) AddCartItem(ctx context.Context, cartID, productID, quantity int64) error {
	f.mu.Lock()
	failAdd, block := f.failAdd, f.blockAdd
	f.addCalls++
	f.mu.Unlock()

	if block != nil {
		<-block
	}
	if failAdd {
		return f.errNetwork
	}
	return f.API.AddCartItem(ctx, cartID, productID, quantity)
}

func (f *flakyAPI) GetCart(ctx context.Context, cartID int64) (*store.Cart, error) {
	f.mu.Lock()
	failGet := f.failGet
	f.getCalls++
	f.mu.Unlock()

	if failGet {
		return nil, storeapi.Failf(storeapi.CodeNotFound, "cart %d not found", cartID)
	}
	return f.API.GetCart(ctx, cartID)
}

func newTestStore(t *testing.T) (*Store, *storemem.Service) {
	t.Helper()
	service := storemem.New(clock.Fake(time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC)))
	return New(service, slog.New(slog.NewTextHandler(io.Discard, nil))), service
}

func TestCreateOrFetchLoadsCartAndBilling(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	cart, err := s.CreateOrFetch(ctx, "CART-1000")
	if err != nil {
		t.Fatalf("CreateOrFetch failed: %v", err)
	}
	if cart.SessionID != "CART-1000" {
		t.Errorf("session id = %q", cart.SessionID)
	}

	snapshot, billing := s.Snapshot()
	if snapshot == nil || billing == nil {
		t.Fatal("snapshot missing cart or billing after CreateOrFetch")
	}
	if billing.CartID != cart.ID {
		t.Errorf("billing cart id = %d, want %d", billing.CartID, cart.ID)
	}

	// Idempotent: the same session resolves to the same cart.
	again, err := s.CreateOrFetch(ctx, "CART-1000")
	if err != nil {
		t.Fatalf("second CreateOrFetch failed: %v", err)
	}
	if again.ID != cart.ID {
		t.Errorf("repeat CreateOrFetch switched carts: %d then %d", cart.ID, again.ID)
	}
}

func TestMutationRefreshesCartAndBilling(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	if _, err := s.CreateOrFetch(ctx, "CART-1000"); err != nil {
		t.Fatalf("CreateOrFetch failed: %v", err)
	}

	if err := s.AddItem(ctx, 1, 2); err != nil {
		t.Fatalf("AddItem failed: %v", err)
	}

	cart, billing := s.Snapshot()
	if len(cart.Items) != 1 || cart.Items[0].Quantity != 2 {
		t.Fatalf("snapshot after add = %+v, want one line of 2", cart.Items)
	}
	if got, want := billing.Subtotal, 2.58; got != want {
		t.Errorf("billing subtotal = %.2f, want %.2f (stale billing carried across mutation?)", got, want)
	}

	if err := s.RemoveItem(ctx, cart.Items[0].ID); err != nil {
		t.Fatalf("RemoveItem failed: %v", err)
	}
	cart, billing = s.Snapshot()
	if len(cart.Items) != 0 {
		t.Errorf("snapshot after remove still has %d items", len(cart.Items))
	}
	if billing.FinalAmount != 0 {
		t.Errorf("billing final = %.2f after emptying cart", billing.FinalAmount)
	}
}

func TestMutationsRequireLoadedCart(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	if err := s.AddItem(ctx, 1, 1); !errors.Is(err, ErrNoCart) {
		t.Errorf("AddItem before load: got %v, want ErrNoCart", err)
	}
	if err := s.RemoveItem(ctx, 1); !errors.Is(err, ErrNoCart) {
		t.Errorf("RemoveItem before load: got %v, want ErrNoCart", err)
	}
	if _, err := s.Refresh(ctx); !errors.Is(err, ErrNoCart) {
		t.Errorf("Refresh before load: got %v, want ErrNoCart", err)
	}
}

func TestAddItemRejectsNonPositiveQuantityLocally(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()
	s.CreateOrFetch(ctx, "CART-1000")

	err := s.AddItem(ctx, 1, 0)
	var mutErr *MutationError
	if !errors.As(err, &mutErr) {
		t.Fatalf("got %v, want *MutationError", err)
	}
	if mutErr.Op != "add-item" {
		t.Errorf("op = %q, want add-item", mutErr.Op)
	}
}

func TestFailedMutationPreservesSnapshot(t *testing.T) {
	service := storemem.New(clock.Fake(time.Unix(1700000000, 0)))
	flaky := &flakyAPI{API: service, errNetwork: errors.New("connection refused")}
	s := New(flaky, slog.New(slog.NewTextHandler(io.Discard, nil)))
	ctx := context.Background()

	if _, err := s.CreateOrFetch(ctx, "CART-1000"); err != nil {
		t.Fatalf("CreateOrFetch failed: %v", err)
	}
	if err := s.AddItem(ctx, 1, 1); err != nil {
		t.Fatalf("AddItem failed: %v", err)
	}
	before, _ := s.Snapshot()

	flaky.mu.Lock()
	flaky.failAdd = true
	flaky.mu.Unlock()

	err := s.AddItem(ctx, 2, 1)
	var mutErr *MutationError
	if !errors.As(err, &mutErr) {
		t.Fatalf("got %v, want *MutationError", err)
	}

	after, _ := s.Snapshot()
	if len(after.Items) != len(before.Items) {
		t.Errorf("snapshot changed across failed mutation: %d items, had %d", len(after.Items), len(before.Items))
	}

	// The store recovers once the service does.
	flaky.mu.Lock()
	flaky.failAdd = false
	flaky.mu.Unlock()
	if err := s.AddItem(ctx, 2, 1); err != nil {
		t.Fatalf("AddItem after recovery failed: %v", err)
	}
}

func TestConcurrentMutationRejected(t *testing.T) {
	service := storemem.New(clock.Fake(time.Unix(1700000000, 0)))
	block := make(chan struct{})
	flaky := &flakyAPI{API: service, blockAdd: block}
	s := New(flaky, slog.New(slog.NewTextHandler(io.Discard, nil)))
	ctx := context.Background()

	if _, err := s.CreateOrFetch(ctx, "CART-1000"); err != nil {
		t.Fatalf("CreateOrFetch failed: %v", err)
	}

	firstDone := make(chan error, 1)
	go func() {
		firstDone <- s.AddItem(ctx, 1, 1)
	}()

	// Wait until the first mutation is inside the service call.
	deadline := time.After(5 * time.Second)
	for {
		flaky.mu.Lock()
		started := flaky.addCalls > 0
		flaky.mu.Unlock()
		if started {
			break
		}
		select {
		case <-deadline:
			t.Fatal("first mutation never reached the service")
		default:
			time.Sleep(time.Millisecond)
		}
	}

	if err := s.AddItem(ctx, 2, 1); !errors.Is(err, ErrMutationInFlight) {
		t.Errorf("overlapping mutation: got %v, want ErrMutationInFlight", err)
	}

	close(block)
	if err := <-firstDone; err != nil {
		t.Fatalf("first mutation failed: %v", err)
	}

	// Guard released: mutations work again.
	if err := s.AddItem(ctx, 2, 1); err != nil {
		t.Fatalf("AddItem after guard release failed: %v", err)
	}
}

func TestRefreshSurfacesNotFound(t *testing.T) {
	service := storemem.New(clock.Fake(time.Unix(1700000000, 0)))
	flaky := &flakyAPI{API: service}
	s := New(flaky, slog.New(slog.NewTextHandler(io.Discard, nil)))
	ctx := context.Background()

	if _, err := s.CreateOrFetch(ctx, "CART-1000"); err != nil {
		t.Fatalf("CreateOrFetch failed: %v", err)
	}
	s.AddItem(ctx, 1, 1)
	before, _ := s.Snapshot()

	// The cart vanishes server-side: Refresh reports it as not-found
	// and keeps the last good snapshot for the caller to show.
	flaky.mu.Lock()
	flaky.failGet = true
	flaky.mu.Unlock()

	if _, err := s.Refresh(ctx); !errors.Is(err, storeapi.ErrNotFound) {
		t.Errorf("Refresh of vanished cart: got %v, want ErrNotFound", err)
	}
	after, _ := s.Snapshot()
	if len(after.Items) != len(before.Items) {
		t.Error("failed refresh replaced the snapshot")
	}
}

func TestSnapshotIsACopy(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	s.CreateOrFetch(ctx, "CART-1000")
	s.AddItem(ctx, 1, 1)

	cart, _ := s.Snapshot()
	cart.Items[0].Quantity = 999
	cart.Status = "tampered"

	fresh, _ := s.Snapshot()
	if fresh.Items[0].Quantity == 999 || fresh.Status == "tampered" {
		t.Error("snapshot shares state with the store")
	}
}
