// Copyright 2026 The Cartkit Authors
// SPDX-License-Identifier: Apache-2.0

package dashui

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync/atomic"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/cartkit-project/cartkit/lib/clock"
	"github.com/cartkit-project/cartkit/lib/config"
	"github.com/cartkit-project/cartkit/lib/poll"
	"github.com/cartkit-project/cartkit/lib/schema/store"
	"github.com/cartkit-project/cartkit/lib/storeapi"
	"github.com/cartkit-project/cartkit/lib/tui"
)

// Tab identifies one dashboard view.
type Tab int

const (
	TabOverview Tab = iota
	TabPopular
	TabCarts
	TabAlerts

	tabCount = 4
)

// Title returns the tab's display name.
func (t Tab) Title() string {
	switch t {
	case TabOverview:
		return "Overview"
	case TabPopular:
		return "Popular"
	case TabCarts:
		return "Carts"
	case TabAlerts:
		return "Alerts"
	default:
		return fmt.Sprintf("Tab(%d)", int(t))
	}
}

// Poll task names, one per tab.
const (
	pollOverview = "overview"
	pollPopular  = "popular-products"
	pollCarts    = "active-carts"
	pollAlerts   = "alerts-summary"
)

// overviewMsg carries fresh headline metrics.
type overviewMsg struct{ overview *store.DashboardOverview }

// popularMsg carries a fresh popular-products ranking.
type popularMsg struct{ products []store.PopularProduct }

// cartsMsg carries a fresh active-carts listing.
type cartsMsg struct{ carts []store.ActiveCartSummary }

// alertsMsg carries a fresh alerts summary.
type alertsMsg struct{ summary store.AlertsSummary }

// Model is the operations dashboard.
type Model struct {
	api       storeapi.API
	scheduler *poll.Scheduler
	cfg       *config.Config
	theme     tui.Theme
	logger    *slog.Logger

	program *atomic.Pointer[tea.Program]

	width  int
	height int
	tab    Tab

	overview *store.DashboardOverview
	popular  []store.PopularProduct
	carts    []store.ActiveCartSummary
	alerts   store.AlertsSummary

	statusMessage string
	statusLevel   slog.Level
}

// New assembles the dashboard model.
func New(api storeapi.API, clk clock.Clock, cfg *config.Config, logger *slog.Logger) *Model {
	return &Model{
		api:       api,
		scheduler: poll.NewScheduler(clk, logger),
		cfg:       cfg,
		theme:     tui.DefaultTheme,
		logger:    logger,
		program:   &atomic.Pointer[tea.Program]{},
	}
}

// SetProgram wires the bubbletea program for background delivery.
func (m *Model) SetProgram(program *tea.Program) {
	m.program.Store(program)
}

func (m *Model) send(msg tea.Msg) {
	if program := m.program.Load(); program != nil {
		program.Send(msg)
	}
}

// Close stops all background polling.
func (m *Model) Close() {
	m.scheduler.StopAll()
}

// Init registers the initial tab's poller.
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

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			m.Close()
			return m, tea.Quit
		case "tab":
			m.switchTab(Tab((int(m.tab) + 1) % tabCount))
		case "shift+tab":
			m.switchTab(Tab((int(m.tab) + tabCount - 1) % tabCount))
		case "1", "2", "3", "4":
			m.switchTab(Tab(int(msg.String()[0] - '1')))
		}

	case overviewMsg:
		m.overview = msg.overview

	case popularMsg:
		m.popular = msg.products

	case cartsMsg:
		m.carts = msg.carts

	case alertsMsg:
		m.alerts = msg.summary

	case tui.LogMsg:
		m.statusMessage = msg.Summary
		m.statusLevel = msg.Level
		return m, tea.Tick(tui.LogFadeDelay, func(time.Time) tea.Msg { return tui.LogFadeMsg{} })

	case tui.LogFadeMsg:
		m.statusMessage = ""
	}

	return m, nil
}

// switchTab swaps the active poll registration.
func (m *Model) switchTab(tab Tab) {
	if tab == m.tab {
		return
	}
	m.deactivateTab(m.tab)
	m.tab = tab
	m.activateTab(tab)
}

func (m *Model) activateTab(tab Tab) {
	var err error
	switch tab {
	case TabOverview:
		err = m.scheduler.Register(pollOverview, m.cfg.Poll.Overview.Std(), m.fetchOverview)
	case TabPopular:
		err = m.scheduler.Register(pollPopular, m.cfg.Poll.Reports.Std(), m.fetchPopular)
	case TabCarts:
		err = m.scheduler.Register(pollCarts, m.cfg.Poll.Reports.Std(), m.fetchCarts)
	case TabAlerts:
		err = m.scheduler.Register(pollAlerts, m.cfg.Poll.Reports.Std(), m.fetchAlerts)
	}
	if err != nil {
		m.logger.Warn("poll registration failed", "tab", tab.Title(), "error", err)
	}
}

func (m *Model) deactivateTab(tab Tab) {
	switch tab {
	case TabOverview:
		m.scheduler.Unregister(pollOverview)
	case TabPopular:
		m.scheduler.Unregister(pollPopular)
	case TabCarts:
		m.scheduler.Unregister(pollCarts)
	case TabAlerts:
		m.scheduler.Unregister(pollAlerts)
	}
}

func (m *Model) fetchOverview(ctx context.Context) error {
	overview, err := m.api.GetOverview(ctx)
	if err != nil {
		return err
	}
	if ctx.Err() != nil {
		return nil
	}
	m.send(overviewMsg{overview: overview})
	return nil
}

func (m *Model) fetchPopular(ctx context.Context) error {
	products, err := m.api.GetPopularProducts(ctx, m.cfg.Dashboard.Days, m.cfg.Dashboard.PopularLimit)
	if err != nil {
		return err
	}
	if ctx.Err() != nil {
		return nil
	}
	m.send(popularMsg{products: products})
	return nil
}

func (m *Model) fetchCarts(ctx context.Context) error {
	carts, err := m.api.GetActiveCarts(ctx)
	if err != nil {
		return err
	}
	if ctx.Err() != nil {
		return nil
	}
	m.send(cartsMsg{carts: carts})
	return nil
}

func (m *Model) fetchAlerts(ctx context.Context) error {
	summary, err := m.api.GetAlertsSummary(ctx, m.cfg.Dashboard.Days)
	if err != nil {
		return err
	}
	if ctx.Err() != nil {
		return nil
	}
	m.send(alertsMsg{summary: summary})
	return nil
}

// View renders the frame: tab bar, active view, status line.
func (m *Model) View() string {
	var b strings.Builder
	b.WriteString(m.renderTabBar())
	b.WriteString("\n\n")

	switch m.tab {
	case TabOverview:
		b.WriteString(m.viewOverview())
	case TabPopular:
		b.WriteString(m.viewPopular())
	case TabCarts:
		b.WriteString(m.viewCarts())
	case TabAlerts:
		b.WriteString(m.viewAlerts())
	}

	b.WriteString("\n")
	b.WriteString(m.renderStatusBar())
	return b.String()
}

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
	return lipgloss.NewStyle().Foreground(m.theme.HelpText).
		Render("tab/1-4 switch · q quit")
}
