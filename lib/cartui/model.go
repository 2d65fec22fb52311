// Copyright 2026 The Cartkit Authors
// SPDX-License-Identifier: Apache-2.0

package cartui

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/cartkit-project/cartkit/lib/cartstate"
	"github.com/cartkit-project/cartkit/lib/clock"
	"github.com/cartkit-project/cartkit/lib/config"
	"github.com/cartkit-project/cartkit/lib/debounce"
	"github.com/cartkit-project/cartkit/lib/flow"
	"github.com/cartkit-project/cartkit/lib/poll"
	"github.com/cartkit-project/cartkit/lib/schema/store"
	"github.com/cartkit-project/cartkit/lib/storeapi"
	"github.com/cartkit-project/cartkit/lib/tui"
)

// Tab identifies one of the five mutually exclusive views.
type Tab int

const (
	TabCart Tab = iota
	TabSearch
	TabNavigation
	TabRecommendations
	TabPayment

	tabCount = 5
)

// Title returns the tab's display name.
func (t Tab) Title() string {
	switch t {
	case TabCart:
		return "Cart"
	case TabSearch:
		return "Search"
	case TabNavigation:
		return "Navigation"
	case TabRecommendations:
		return "Recommendations"
	case TabPayment:
		return "Payment"
	default:
		return fmt.Sprintf("Tab(%d)", int(t))
	}
}

// callTimeout bounds every store service call issued from the UI.
const callTimeout = 10 * time.Second

// Poll task names. Registration is tab-lifecycle-bound.
const (
	pollCart            = "cart"
	pollRecommendations = "recommendations"
)

// Model is the shopper TUI.
type Model struct {
	api       storeapi.API
	cart      *cartstate.Store
	scheduler *poll.Scheduler
	cfg       *config.Config
	theme     tui.Theme
	logger    *slog.Logger

	verifier *flow.Verifier
	barcode  *flow.BarcodeAdder
	planner  *flow.RoutePlanner
	payment  *flow.PaymentFlow
	search   *debounce.Debouncer

	// program delivers poll and debounce results into the update loop.
	// Set via SetProgram once the tea.Program exists; shared across
	// model copies.
	program *atomic.Pointer[tea.Program]

	width  int
	height int
	tab    Tab

	// Cart view.
	cartSnapshot  *store.Cart
	billing       *store.BillingSnapshot
	cartSelection int

	// Search view.
	searchInput     textinput.Model
	barcodeInput    textinput.Model
	searchResults   []store.Product
	searchSelection int
	searchQuery     string

	// Navigation view.
	productInput textinput.Model
	route        *store.Route
	routePending bool

	// Recommendations view.
	recommendations *store.RecommendationSet
	recSelection    int

	// Payment view.
	methodIndex    int
	qrBlock        string
	qr             *store.PaymentQR
	paymentPending bool
	spin           spinner.Model

	// Status bar.
	statusMessage string
	statusLevel   slog.Level
}

// New assembles the shopper TUI over an already-loaded cart store.
func New(api storeapi.API, cartStore *cartstate.Store, clk clock.Clock, cfg *config.Config, logger *slog.Logger) *Model {
	m := &Model{
		api:       api,
		cart:      cartStore,
		scheduler: poll.NewScheduler(clk, logger),
		cfg:       cfg,
		theme:     tui.DefaultTheme,
		logger:    logger,
		verifier:  flow.NewVerifier(api, cartStore, logger),
		barcode:   flow.NewBarcodeAdder(api, cartStore),
		planner:   flow.NewRoutePlanner(api, cartStore),
		payment:   flow.NewPaymentFlow(api, cartStore),
		program:   &atomic.Pointer[tea.Program]{},
	}

	m.search = debounce.New(clk, cfg.Search.Quiet.Std(), m.fireSearch, m.clearSearch)

	m.searchInput = textinput.New()
	m.searchInput.Placeholder = "search products"
	m.searchInput.CharLimit = 80

	m.barcodeInput = textinput.New()
	m.barcodeInput.Placeholder = "scan barcode"
	m.barcodeInput.CharLimit = 32

	m.productInput = textinput.New()
	m.productInput.Placeholder = "product id"
	m.productInput.CharLimit = 10

	m.spin = spinner.New()
	m.spin.Spinner = spinner.Dot

	m.cartSnapshot, m.billing = cartStore.Snapshot()
	return m
}

// SetProgram wires the bubbletea program so background work can
// deliver messages. Must be called before the program runs.
func (m *Model) SetProgram(program *tea.Program) {
	m.program.Store(program)
}

// send delivers a message into the update loop from outside it.
func (m *Model) send(msg tea.Msg) {
	if program := m.program.Load(); program != nil {
		program.Send(msg)
	}
}

// Close stops all background polling. Call after the program exits.
func (m *Model) Close() {
	m.scheduler.StopAll()
	m.search.Cancel()
}

// Init registers the initial tab's pollers.
func (m *Model) Init() tea.Cmd {
	m.activateTab(m.tab)
	return nil
}

// Update is the bubbletea message handler.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case cartRefreshedMsg:
		m.cartSnapshot = msg.cart
		m.billing = msg.billing
		m.clampCartSelection()
		return m, nil

	case searchResultsMsg:
		// Drop responses overtaken by newer input.
		if msg.seq < m.search.Latest() {
			return m, nil
		}
		m.searchResults = msg.products
		m.searchQuery = msg.query
		m.searchSelection = 0
		return m, nil

	case searchClearedMsg:
		m.searchResults = nil
		m.searchQuery = ""
		m.searchSelection = 0
		return m, nil

	case recommendationsMsg:
		m.recommendations = msg.set
		if m.recommendations != nil && m.recSelection >= len(m.recommendations.Recommendations) {
			m.recSelection = 0
		}
		return m, nil

	case mutationDoneMsg:
		if msg.err != nil {
			m.logger.Warn("cart update failed", "error", msg.err)
			return m, nil
		}
		return m, m.snapshotCmd()

	case verifyDoneMsg:
		if msg.err != nil {
			m.logger.Warn("verification failed", "error", msg.err)
			return m, nil
		}
		m.setStatus(msg.message, slog.LevelInfo)
		return m, m.snapshotCmd()

	case barcodeAddedMsg:
		if msg.err != nil {
			m.logger.Warn("barcode scan failed", "error", msg.err)
			return m, nil
		}
		m.setStatus(fmt.Sprintf("added %s", msg.name), slog.LevelInfo)
		m.barcodeInput.SetValue("")
		return m, m.snapshotCmd()

	case routeDoneMsg:
		m.routePending = false
		if msg.err != nil {
			m.logger.Warn("route request failed", "error", msg.err)
			// The previous route stays on screen.
			return m, nil
		}
		m.route = msg.route
		return m, nil

	case qrGeneratedMsg:
		if msg.err != nil {
			m.logger.Warn("QR generation failed", "error", msg.err)
			return m, nil
		}
		m.qr = msg.qr
		m.qrBlock = msg.block
		return m, nil

	case paymentDoneMsg:
		m.paymentPending = false
		if msg.err != nil {
			m.logger.Warn("payment failed", "error", msg.err)
			return m, nil
		}
		m.setStatus(fmt.Sprintf("payment complete: %s", msg.result.TransactionID), slog.LevelInfo)
		return m, m.snapshotCmd()

	case tui.LogMsg:
		m.statusMessage = msg.Summary
		m.statusLevel = msg.Level
		return m, tea.Tick(tui.LogFadeDelay, func(time.Time) tea.Msg { return tui.LogFadeMsg{} })

	case tui.LogFadeMsg:
		m.statusMessage = ""
		return m, nil

	case spinner.TickMsg:
		if !m.paymentPending && !m.routePending {
			return m, nil
		}
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd
	}

	return m, nil
}

// handleKey dispatches keyboard input: global keys first, then the
// active tab's handler.
func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Text inputs swallow most keys while focused.
	if !m.inputFocused() {
		switch msg.String() {
		case "q", "ctrl+c":
			m.Close()
			return m, tea.Quit
		case "tab":
			m.switchTab(Tab((int(m.tab) + 1) % tabCount))
			return m, nil
		case "shift+tab":
			m.switchTab(Tab((int(m.tab) + tabCount - 1) % tabCount))
			return m, nil
		case "1", "2", "3", "4", "5":
			m.switchTab(Tab(int(msg.String()[0] - '1')))
			return m, nil
		}
	} else if msg.String() == "ctrl+c" {
		m.Close()
		return m, tea.Quit
	}

	switch m.tab {
	case TabCart:
		return m.updateCartTab(msg)
	case TabSearch:
		return m.updateSearchTab(msg)
	case TabNavigation:
		return m.updateNavigationTab(msg)
	case TabRecommendations:
		return m.updateRecommendationsTab(msg)
	case TabPayment:
		return m.updatePaymentTab(msg)
	}
	return m, nil
}

// inputFocused reports whether a text input currently owns the
// keyboard.
func (m *Model) inputFocused() bool {
	return m.searchInput.Focused() || m.barcodeInput.Focused() || m.productInput.Focused()
}

// switchTab deactivates the current tab's pollers and activates the
// new tab's. Tab state itself carries no logic: snapshots stay as
// they are until the new tab's first poll lands.
func (m *Model) switchTab(tab Tab) {
	if tab == m.tab {
		return
	}
	m.deactivateTab(m.tab)
	m.tab = tab
	m.activateTab(tab)
}

// activateTab registers the pollers the tab depends on.
func (m *Model) activateTab(tab Tab) {
	switch tab {
	case TabCart, TabPayment:
		m.registerCartPoll()
	case TabRecommendations:
		m.registerCartPoll()
		m.registerRecommendationsPoll()
	}
}

// deactivateTab unregisters the tab's pollers and cancels any pending
// debounced search.
func (m *Model) deactivateTab(tab Tab) {
	switch tab {
	case TabCart, TabPayment:
		m.scheduler.Unregister(pollCart)
	case TabSearch:
		m.search.Cancel()
	case TabRecommendations:
		m.scheduler.Unregister(pollCart)
		m.scheduler.Unregister(pollRecommendations)
	}
}

// registerCartPoll starts the cart + billing refresh loop.
func (m *Model) registerCartPoll() {
	err := m.scheduler.Register(pollCart, m.cfg.Poll.Cart.Std(), func(ctx context.Context) error {
		cart, err := m.cart.Refresh(ctx)
		if err != nil {
			return err
		}
		billing, err := m.cart.RefreshBilling(ctx)
		if err != nil {
			return err
		}
		if ctx.Err() != nil {
			// Unregistered while fetching: discard.
			return nil
		}
		m.send(cartRefreshedMsg{cart: cart, billing: billing})
		return nil
	})
	if err != nil {
		m.logger.Warn("cart poll registration failed", "error", err)
	}
}

// registerRecommendationsPoll starts the recommendations refresh loop.
func (m *Model) registerRecommendationsPoll() {
	err := m.scheduler.Register(pollRecommendations, m.cfg.Poll.Recommendations.Std(), func(ctx context.Context) error {
		snapshot, _ := m.cart.Snapshot()
		if snapshot == nil {
			return cartstate.ErrNoCart
		}
		set, err := m.api.GetRecommendations(ctx, snapshot.ID)
		if err != nil {
			return err
		}
		if ctx.Err() != nil {
			return nil
		}
		m.send(recommendationsMsg{set: set})
		return nil
	})
	if err != nil {
		m.logger.Warn("recommendations poll registration failed", "error", err)
	}
}

// fireSearch runs on the debounce timer goroutine once input has been
// quiet. The response is delivered as a message and checked for
// staleness there.
func (m *Model) fireSearch(seq uint64, query string) {
	ctx, cancel := context.WithTimeout(context.Background(), callTimeout)
	defer cancel()

	products, err := m.api.SearchProducts(ctx, query, m.cfg.Search.Limit)
	if err != nil {
		m.logger.Warn("product search failed", "query", query, "error", err)
		return
	}
	m.send(searchResultsMsg{seq: seq, query: query, products: products})
}

// clearSearch runs when the query becomes empty.
func (m *Model) clearSearch() {
	m.send(searchClearedMsg{})
}

// snapshotCmd reads the store's current snapshot into the model. Used
// after operations that already refreshed the store.
func (m *Model) snapshotCmd() tea.Cmd {
	cart, billing := m.cart.Snapshot()
	return func() tea.Msg {
		return cartRefreshedMsg{cart: cart, billing: billing}
	}
}

// setStatus shows an informational message in the status bar with the
// usual fade.
func (m *Model) setStatus(message string, level slog.Level) {
	m.statusMessage = message
	m.statusLevel = level
}

// clampCartSelection keeps the cart cursor on a real row.
func (m *Model) clampCartSelection() {
	if m.cartSnapshot == nil || len(m.cartSnapshot.Items) == 0 {
		m.cartSelection = 0
		return
	}
	if m.cartSelection >= len(m.cartSnapshot.Items) {
		m.cartSelection = len(m.cartSnapshot.Items) - 1
	}
}

// View renders the full frame: tab bar, active view, status bar.
func (m *Model) View() string {
	var b strings.Builder
	b.WriteString(m.renderTabBar())
	b.WriteString("\n\n")

	switch m.tab {
	case TabCart:
		b.WriteString(m.viewCart())
	case TabSearch:
		b.WriteString(m.viewSearch())
	case TabNavigation:
		b.WriteString(m.viewNavigation())
	case TabRecommendations:
		b.WriteString(m.viewRecommendations())
	case TabPayment:
		b.WriteString(m.viewPayment())
	}

	b.WriteString("\n")
	b.WriteString(m.renderStatusBar())
	return b.String()
}

// renderTabBar draws the five tab titles with the active one
// highlighted.
func (m *Model) renderTabBar() string {
	active := lipgloss.NewStyle().Bold(true).Foreground(m.theme.TabActive)
	inactive := lipgloss.NewStyle().Foreground(m.theme.TabInactive)

	parts := make([]string, 0, tabCount)
	for tab := Tab(0); tab < tabCount; tab++ {
		label := fmt.Sprintf("%d:%s", int(tab)+1, tab.Title())
		if tab == m.tab {
			parts = append(parts, active.Render("["+label+"]"))
		} else {
			parts = append(parts, inactive.Render(" "+label+" "))
		}
	}
	return strings.Join(parts, " ")
}

// renderStatusBar draws the log/status line, falling back to the help
// line when nothing is pending.
func (m *Model) renderStatusBar() string {
	if m.statusMessage != "" {
		style := lipgloss.NewStyle().Foreground(m.theme.NormalText)
		switch {
		case m.statusLevel >= slog.LevelError:
			style = style.Foreground(m.theme.LogError)
		case m.statusLevel >= slog.LevelWarn:
			style = style.Foreground(m.theme.LogWarn)
		}
		return style.Render(m.statusMessage)
	}
	help := lipgloss.NewStyle().Foreground(m.theme.HelpText)
	return help.Render(m.helpLine())
}

// helpLine returns the active tab's key hints.
func (m *Model) helpLine() string {
	switch m.tab {
	case TabCart:
		return "↑/↓ select · x remove · v verify · tab switch · q quit"
	case TabSearch:
		return "/ search · b barcode · ↑/↓ select · enter add · esc done · q quit"
	case TabNavigation:
		return "i product id · enter route · esc done · q quit"
	case TabRecommendations:
		return "↑/↓ select · enter add · tab switch · q quit"
	case TabPayment:
		return "←/→ method · g QR · enter pay · r reset · q quit"
	default:
		return "tab switch · q quit"
	}
}
