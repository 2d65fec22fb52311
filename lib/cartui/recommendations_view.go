// Copyright 2026 The Cartkit Authors
// SPDX-License-Identifier: Apache-2.0

package cartui

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

func (m *Model) updateRecommendationsTab(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	count := 0
	if m.recommendations != nil {
		count = len(m.recommendations.Recommendations)
	}

	switch msg.String() {
	case "up", "k":
		if m.recSelection > 0 {
			m.recSelection--
		}
	case "down", "j":
		if m.recSelection < count-1 {
			m.recSelection++
		}
	case "enter", "a":
		if count == 0 {
			return m, nil
		}
		productID := m.recommendations.Recommendations[m.recSelection].Product.ID
		return m, func() tea.Msg {
			ctx, cancel := context.WithTimeout(context.Background(), callTimeout)
			defer cancel()
			return mutationDoneMsg{err: m.cart.AddItem(ctx, productID, 1)}
		}
	}
	return m, nil
}

func (m *Model) viewRecommendations() string {
	faint := lipgloss.NewStyle().Foreground(m.theme.FaintText)

	if m.recommendations == nil {
		return faint.Render("fetching recommendations…")
	}
	if len(m.recommendations.Recommendations) == 0 {
		return faint.Render("no recommendations yet — add something to the cart first")
	}

	var b strings.Builder
	for i, rec := range m.recommendations.Recommendations {
		confidence := lipgloss.NewStyle().Foreground(m.theme.VerifiedBadge).
			Render(fmt.Sprintf("%3.0f%%", rec.ConfidenceScore*100))
		line := fmt.Sprintf("%-26s %8.2f  %s  %s",
			truncate(rec.Product.Name, 26), rec.Product.Price, confidence, rec.Reason)

		style := lipgloss.NewStyle().Foreground(m.theme.NormalText)
		if i == m.recSelection {
			style = style.
				Background(m.theme.SelectedBackground).
				Foreground(m.theme.SelectedForeground)
		}
		b.WriteString(style.Render(line))
		b.WriteString("\n")
	}
	return b.String()
}
