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

func (m *Model) updateSearchTab(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Barcode entry owns the keyboard while focused.
	if m.barcodeInput.Focused() {
		switch msg.String() {
		case "esc":
			m.barcodeInput.Blur()
			return m, nil
		case "enter":
			barcode := m.barcodeInput.Value()
			m.barcodeInput.Blur()
			return m, func() tea.Msg {
				ctx, cancel := context.WithTimeout(context.Background(), callTimeout)
				defer cancel()
				name, err := m.barcode.LookupAndAdd(ctx, barcode)
				return barcodeAddedMsg{name: name, err: err}
			}
		}
		var cmd tea.Cmd
		m.barcodeInput, cmd = m.barcodeInput.Update(msg)
		return m, cmd
	}

	if m.searchInput.Focused() {
		switch msg.String() {
		case "esc", "enter":
			m.searchInput.Blur()
			return m, nil
		}
		var cmd tea.Cmd
		m.searchInput, cmd = m.searchInput.Update(msg)
		// Every edit feeds the debouncer; it decides when to query.
		m.search.Input(m.searchInput.Value())
		return m, cmd
	}

	switch msg.String() {
	case "/":
		m.searchInput.Focus()
		return m, nil
	case "b":
		m.barcodeInput.Focus()
		return m, nil
	case "up", "k":
		if m.searchSelection > 0 {
			m.searchSelection--
		}
	case "down", "j":
		if m.searchSelection < len(m.searchResults)-1 {
			m.searchSelection++
		}
	case "enter", "a":
		if len(m.searchResults) == 0 {
			return m, nil
		}
		productID := m.searchResults[m.searchSelection].ID
		return m, func() tea.Msg {
			ctx, cancel := context.WithTimeout(context.Background(), callTimeout)
			defer cancel()
			return mutationDoneMsg{err: m.cart.AddItem(ctx, productID, 1)}
		}
	}
	return m, nil
}

func (m *Model) viewSearch() string {
	var b strings.Builder
	faint := lipgloss.NewStyle().Foreground(m.theme.FaintText)

	b.WriteString("Search:  " + m.searchInput.View())
	b.WriteString("\n")
	b.WriteString("Barcode: " + m.barcodeInput.View())
	b.WriteString("\n\n")

	if len(m.searchResults) == 0 {
		if m.searchQuery != "" {
			b.WriteString(faint.Render(fmt.Sprintf("no products match %q", m.searchQuery)))
		} else {
			b.WriteString(faint.Render("type / to search, b to scan a barcode"))
		}
		return b.String()
	}

	b.WriteString(faint.Render(fmt.Sprintf("%d results for %q", len(m.searchResults), m.searchQuery)))
	b.WriteString("\n")
	for i, product := range m.searchResults {
		line := fmt.Sprintf("%-26s %-12s %8.2f  stock %d",
			truncate(product.Name, 26), product.Category, product.Price, product.StockQuantity)
		style := lipgloss.NewStyle().Foreground(m.theme.NormalText)
		if i == m.searchSelection {
			style = style.
				Background(m.theme.SelectedBackground).
				Foreground(m.theme.SelectedForeground)
		}
		b.WriteString(style.Render(line))
		b.WriteString("\n")
	}
	return b.String()
}
