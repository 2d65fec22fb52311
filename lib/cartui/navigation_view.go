// Copyright 2026 The Cartkit Authors
// SPDX-License-Identifier: Apache-2.0

package cartui

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

func (m *Model) updateNavigationTab(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.productInput.Focused() {
		switch msg.String() {
		case "esc":
			m.productInput.Blur()
			return m, nil
		case "enter":
			m.productInput.Blur()
			return m, m.requestRoute()
		}
		var cmd tea.Cmd
		m.productInput, cmd = m.productInput.Update(msg)
		return m, cmd
	}

	switch msg.String() {
	case "i", "/":
		m.productInput.Focus()
	case "enter":
		return m, m.requestRoute()
	}
	return m, nil
}

// requestRoute starts a route request unless one is already pending.
// The trigger is disabled while a request is outstanding; the flow's
// own in-flight guard backs this up.
func (m *Model) requestRoute() tea.Cmd {
	if m.routePending {
		return nil
	}

	productID, err := strconv.ParseInt(strings.TrimSpace(m.productInput.Value()), 10, 64)
	if err != nil {
		m.logger.Warn("invalid product id", "input", m.productInput.Value())
		return nil
	}

	m.routePending = true
	return tea.Batch(
		m.spin.Tick,
		func() tea.Msg {
			ctx, cancel := context.WithTimeout(context.Background(), callTimeout)
			defer cancel()
			route, err := m.planner.Request(ctx, productID)
			return routeDoneMsg{route: route, err: err}
		},
	)
}

func (m *Model) viewNavigation() string {
	var b strings.Builder
	faint := lipgloss.NewStyle().Foreground(m.theme.FaintText)

	b.WriteString("Find product: " + m.productInput.View())
	b.WriteString("\n\n")

	if m.routePending {
		b.WriteString(m.spin.View() + " requesting route…\n\n")
	}

	if m.route == nil {
		b.WriteString(faint.Render("enter a product id to get directions"))
		return b.String()
	}

	header := lipgloss.NewStyle().Bold(true).Foreground(m.theme.HeaderForeground)
	b.WriteString(header.Render(fmt.Sprintf("To %s (section %s)",
		m.route.TargetAisle.Name, m.route.TargetAisle.Section)))
	b.WriteString("\n")
	for _, step := range m.route.Steps {
		b.WriteString(fmt.Sprintf("  %d. %s\n", step.StepNumber, step.Instruction))
	}
	b.WriteString("\n")
	b.WriteString(faint.Render(fmt.Sprintf("%.0f m · about %.1f min walk",
		m.route.TotalDistance, m.route.EstimatedTimeMinutes)))
	return b.String()
}
