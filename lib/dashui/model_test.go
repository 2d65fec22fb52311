// Copyright 2026 The Cartkit Authors
// SPDX-License-Identifier: Apache-2.0

package dashui

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

	"github.com/cartkit-project/cartkit/lib/clock"
	"github.com/cartkit-project/cartkit/lib/config"
	"github.com/cartkit-project/cartkit/lib/schema/store"
	"github.com/cartkit-project/cartkit/lib/storemem"
)

func newTestModel(t *testing.T) (*Model, *storemem.Service) {
	t.Helper()
	clk := clock.Fake(time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC))
	service := storemem.New(clk)
	m := New(service, clk, config.Default(), slog.New(slog.NewTextHandler(io.Discard, nil)))
	t.Cleanup(m.Close)
	return m, service
}

func update(t *testing.T, m *Model, msg tea.Msg) *Model {
	t.Helper()
	next, _ := m.Update(msg)
	model, ok := next.(*Model)
	if !ok {
		t.Fatalf("Update returned %T", next)
	}
	return model
}

func TestTabSwitchingSwapsPollRegistration(t *testing.T) {
	m, _ := newTestModel(t)
	m.Init()

	if active := m.scheduler.Active(); !slices.Contains(active, pollOverview) {
		t.Fatalf("overview poll not registered: %v", active)
	}

	m.switchTab(TabAlerts)
	active := m.scheduler.Active()
	if slices.Contains(active, pollOverview) {
		t.Error("overview poll survived tab switch")
	}
	if !slices.Contains(active, pollAlerts) {
		t.Errorf("alerts poll not registered: %v", active)
	}
}

func TestDataMessagesPopulateViews(t *testing.T) {
	m, service := newTestModel(t)
	m.width = 100
	ctx := context.Background()

	// Seed the service with a paid cart and an alert so every view has
	// content.
	cart, _ := service.CreateOrGetCart(ctx, "CART-A")
	service.AddCartItem(ctx, cart.ID, 1, 2)
	service.VerifyItem(ctx, cart.ID, 11) // raises an item_mismatch alert

	other, _ := service.CreateOrGetCart(ctx, "CART-B")
	service.AddCartItem(ctx, other.ID, 3, 1)
	if _, err := service.ProcessPayment(ctx, other.ID, store.MethodCard); err != nil {
		t.Fatalf("seeding payment failed: %v", err)
	}

	overview, err := service.GetOverview(ctx)
	if err != nil {
		t.Fatalf("GetOverview failed: %v", err)
	}
	popular, _ := service.GetPopularProducts(ctx, 7, 20)
	carts, _ := service.GetActiveCarts(ctx)
	alerts, _ := service.GetAlertsSummary(ctx, 7)

	m = update(t, m, overviewMsg{overview: overview})
	m = update(t, m, popularMsg{products: popular})
	m = update(t, m, cartsMsg{carts: carts})
	m = update(t, m, alertsMsg{summary: alerts})

	m.tab = TabOverview
	if view := ansi.Strip(m.View()); !strings.Contains(view, "Active carts") {
		t.Error("overview view missing headline metrics")
	}

	m.tab = TabPopular
	if view := ansi.Strip(m.View()); !strings.Contains(view, "Bananas") {
		t.Error("popular view missing ranked product")
	}

	m.tab = TabCarts
	view := ansi.Strip(m.View())
	if !strings.Contains(view, "CART-A") {
		t.Error("carts view missing active cart")
	}
	if strings.Contains(view, "CART-B") {
		t.Error("carts view lists a settled cart")
	}
	if !strings.Contains(view, "alert") {
		t.Error("carts view missing alert flag")
	}

	m.tab = TabAlerts
	if view := ansi.Strip(m.View()); !strings.Contains(view, "item_mismatch") {
		t.Error("alerts view missing alert type")
	}
}

func TestViewsRenderBeforeFirstPoll(t *testing.T) {
	m, _ := newTestModel(t)
	for tab := Tab(0); tab < tabCount; tab++ {
		m.tab = tab
		if strings.TrimSpace(ansi.Strip(m.View())) == "" {
			t.Errorf("tab %s rendered empty before data arrived", tab.Title())
		}
	}
}

func TestQuitStopsPolling(t *testing.T) {
	m, _ := newTestModel(t)
	m.Init()

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	if cmd == nil {
		t.Fatal("quit produced no command")
	}
	if active := m.scheduler.Active(); len(active) != 0 {
		t.Errorf("pollers active after quit: %v", active)
	}
}
