// Copyright 2026 The Cartkit Authors
// SPDX-License-Identifier: Apache-2.0

package cartui

import (
	"context"
	"io"
	"log/slog"
	"slices"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/ansi"

	"github.com/cartkit-project/cartkit/lib/cartstate"
	"github.com/cartkit-project/cartkit/lib/clock"
	"github.com/cartkit-project/cartkit/lib/config"
	"github.com/cartkit-project/cartkit/lib/schema/store"
	"github.com/cartkit-project/cartkit/lib/storemem"
)

func newTestModel(t *testing.T) (*Model, *storemem.Service) {
	t.Helper()
	clk := clock.Fake(time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC))
	service := storemem.New(clk)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	cartStore := cartstate.New(service, logger)
	if _, err := cartStore.CreateOrFetch(context.Background(), "CART-1000"); err != nil {
		t.Fatalf("loading cart: %v", err)
	}

	m := New(service, cartStore, clk, config.Default(), logger)
	t.Cleanup(m.Close)
	return m, service
}

// update drives one message through the model, keeping the pointer
// type.
func update(t *testing.T, m *Model, msg tea.Msg) (*Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	model, ok := next.(*Model)
	if !ok {
		t.Fatalf("Update returned %T", next)
	}
	return model, cmd
}

func keyMsg(s string) tea.KeyMsg {
	switch s {
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	default:
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
	}
}

func TestTabSwitchingBindsPollLifecycle(t *testing.T) {
	m, _ := newTestModel(t)
	m.Init()

	if active := m.scheduler.Active(); !slices.Contains(active, pollCart) {
		t.Fatalf("cart tab did not register the cart poll: %v", active)
	}

	// Search tab polls nothing.
	m.switchTab(TabSearch)
	if active := m.scheduler.Active(); len(active) != 0 {
		t.Errorf("search tab left pollers running: %v", active)
	}

	// Recommendations tab polls cart and recommendations.
	m.switchTab(TabRecommendations)
	active := m.scheduler.Active()
	if !slices.Contains(active, pollCart) || !slices.Contains(active, pollRecommendations) {
		t.Errorf("recommendations tab pollers = %v", active)
	}

	m.switchTab(TabPayment)
	active = m.scheduler.Active()
	if !slices.Contains(active, pollCart) || slices.Contains(active, pollRecommendations) {
		t.Errorf("payment tab pollers = %v", active)
	}
}

func TestCartRefreshedUpdatesSnapshot(t *testing.T) {
	m, _ := newTestModel(t)

	cart := &store.Cart{ID: 1, SessionID: "CART-1000", Status: store.CartActive,
		Items: []store.CartItem{{ID: 1, ProductID: 1, Quantity: 2}}}
	billing := &store.BillingSnapshot{CartID: 1, Subtotal: 2.58, FinalAmount: 2.58, ItemCount: 2, Currency: "USD"}

	m, _ = update(t, m, cartRefreshedMsg{cart: cart, billing: billing})
	if m.billing == nil || m.billing.FinalAmount != 2.58 {
		t.Error("billing snapshot not installed")
	}

	// A refresh that shrinks the cart pulls the cursor back in range.
	m.cartSelection = 5
	m, _ = update(t, m, cartRefreshedMsg{cart: cart, billing: billing})
	if m.cartSelection != 0 {
		t.Errorf("cart selection = %d after clamp", m.cartSelection)
	}
}

func TestStaleSearchResponseDropped(t *testing.T) {
	m, _ := newTestModel(t)

	// Cancel bumps the debounce sequence past zero.
	m.search.Cancel()

	stale := searchResultsMsg{seq: 0, query: "old", products: []store.Product{{ID: 1, Name: "Bananas"}}}
	m, _ = update(t, m, stale)
	if len(m.searchResults) != 0 {
		t.Error("stale search response was applied")
	}

	fresh := searchResultsMsg{seq: m.search.Latest(), query: "milk",
		products: []store.Product{{ID: 3, Name: "Whole Milk 1L"}}}
	m, _ = update(t, m, fresh)
	if len(m.searchResults) != 1 || m.searchQuery != "milk" {
		t.Error("fresh search response was not applied")
	}
}

func TestSearchClearEmptiesResults(t *testing.T) {
	m, _ := newTestModel(t)
	m.searchResults = []store.Product{{ID: 1}}
	m.searchQuery = "ban"

	m, _ = update(t, m, searchClearedMsg{})
	if len(m.searchResults) != 0 || m.searchQuery != "" {
		t.Error("clear did not empty the result list")
	}
}

func TestRouteFailureKeepsPreviousRoute(t *testing.T) {
	m, _ := newTestModel(t)
	previous := &store.Route{CartID: 1, TargetAisle: store.Aisle{Name: "Dairy"}}
	m.route = previous
	m.routePending = true

	m, _ = update(t, m, routeDoneMsg{err: context.DeadlineExceeded})
	if m.routePending {
		t.Error("route pending flag not cleared on failure")
	}
	if m.route != previous {
		t.Error("failed route request replaced the displayed route")
	}
}

func TestViewsRenderEveryTab(t *testing.T) {
	m, _ := newTestModel(t)
	m.width = 80
	m.height = 24

	// Give the model a realistic snapshot.
	ctx := context.Background()
	if err := m.cart.AddItem(ctx, 1, 2); err != nil {
		t.Fatalf("AddItem failed: %v", err)
	}
	m.cartSnapshot, m.billing = m.cart.Snapshot()

	for tab := Tab(0); tab < tabCount; tab++ {
		m.tab = tab
		view := m.View()
		if strings.TrimSpace(ansi.Strip(view)) == "" {
			t.Errorf("tab %s rendered an empty view", tab.Title())
		}
		if !strings.Contains(ansi.Strip(view), tab.Title()) {
			t.Errorf("tab bar missing active tab title %s", tab.Title())
		}
	}
}

func TestCartViewShowsAlertBanner(t *testing.T) {
	m, _ := newTestModel(t)
	m.width = 80
	m.cartSnapshot = &store.Cart{
		ID: 1, Status: store.CartActive, HasAlert: true,
		AlertReason: "claimed item Dish Soap is not in the cart",
	}

	view := ansi.Strip(m.viewCart())
	if !strings.Contains(view, "Dish Soap") {
		t.Error("alert banner missing from cart view")
	}
}

func TestRemoveKeyIssuesMutation(t *testing.T) {
	m, _ := newTestModel(t)
	ctx := context.Background()
	if err := m.cart.AddItem(ctx, 1, 1); err != nil {
		t.Fatalf("AddItem failed: %v", err)
	}
	m.cartSnapshot, m.billing = m.cart.Snapshot()

	m.tab = TabCart
	m, cmd := update(t, m, keyMsg("x"))
	if cmd == nil {
		t.Fatal("remove key produced no command")
	}
	msg := cmd()
	done, ok := msg.(mutationDoneMsg)
	if !ok {
		t.Fatalf("remove command returned %T", msg)
	}
	if done.err != nil {
		t.Fatalf("remove failed: %v", done.err)
	}

	cart, _ := m.cart.Snapshot()
	if len(cart.Items) != 0 {
		t.Error("item still in cart after remove")
	}
}

func TestQuitStopsBackgroundWork(t *testing.T) {
	m, _ := newTestModel(t)
	m.Init()

	m, cmd := update(t, m, keyMsg("q"))
	if cmd == nil {
		t.Fatal("quit key produced no command")
	}
	if active := m.scheduler.Active(); len(active) != 0 {
		t.Errorf("pollers still active after quit: %v", active)
	}
}
