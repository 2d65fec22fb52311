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

func (m *Model) updateCartTab(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	itemCount := 0
	if m.cartSnapshot != nil {
		itemCount = len(m.cartSnapshot.Items)
	}

	switch msg.String() {
	case "up", "k":
		if m.cartSelection > 0 {
			m.cartSelection--
		}
	case "down", "j":
		if m.cartSelection < itemCount-1 {
			m.cartSelection++
		}
	case "x":
		if itemCount == 0 {
			return m, nil
		}
		itemID := m.cartSnapshot.Items[m.cartSelection].ID
		return m, func() tea.Msg {
			ctx, cancel := context.WithTimeout(context.Background(), callTimeout)
			defer cancel()
			return mutationDoneMsg{err: m.cart.RemoveItem(ctx, itemID)}
		}
	case "v":
		if itemCount == 0 {
			return m, nil
		}
		productID := m.cartSnapshot.Items[m.cartSelection].ProductID
		return m, func() tea.Msg {
			ctx, cancel := context.WithTimeout(context.Background(), callTimeout)
			defer cancel()
			message, err := m.verifier.Verify(ctx, productID)
			return verifyDoneMsg{message: message, err: err}
		}
	}
	return m, nil
}

func (m *Model) viewCart() string {
	if m.cartSnapshot == nil {
		return lipgloss.NewStyle().Foreground(m.theme.FaintText).Render("loading cart…")
	}

	var b strings.Builder

	if m.cartSnapshot.HasAlert {
		banner := lipgloss.NewStyle().
			Foreground(m.theme.AlertForeground).
			Background(m.theme.AlertBackground).
			Padding(0, 1)
		reason := m.cartSnapshot.AlertReason
		if reason == "" {
			reason = "this cart has an unresolved alert"
		}
		b.WriteString(banner.Render("⚠ " + reason))
		b.WriteString("\n\n")
	}

	if len(m.cartSnapshot.Items) == 0 {
		b.WriteString(lipgloss.NewStyle().Foreground(m.theme.FaintText).
			Render("cart is empty — add products from the search tab"))
		b.WriteString("\n")
	} else {
		for i, item := range m.cartSnapshot.Items {
			b.WriteString(m.renderCartItem(i, item.ID))
			b.WriteString("\n")
		}
	}

	b.WriteString("\n")
	b.WriteString(m.renderBillingBox())
	return b.String()
}

// renderCartItem draws one line item row.
func (m *Model) renderCartItem(index int, _ int64) string {
	item := m.cartSnapshot.Items[index]

	line := fmt.Sprintf("%-26s  %6.2f × %-3d = %8.2f",
		truncate(item.Product.Name, 26), item.UnitPrice, item.Quantity, item.Subtotal)

	var badges []string
	if item.ScanVerified {
		badges = append(badges, lipgloss.NewStyle().Foreground(m.theme.ScanBadge).Render("scan"))
	}
	if item.VerifiedByAI {
		badges = append(badges, lipgloss.NewStyle().Foreground(m.theme.VerifiedBadge).Render("ai✓"))
	} else {
		badges = append(badges, lipgloss.NewStyle().Foreground(m.theme.UnverifiedBadge).Render("ai·"))
	}
	line += "  " + strings.Join(badges, " ")

	style := lipgloss.NewStyle().Foreground(m.theme.NormalText)
	if index == m.cartSelection {
		style = style.
			Background(m.theme.SelectedBackground).
			Foreground(m.theme.SelectedForeground)
	}
	return style.Render(line)
}

// renderBillingBox draws the billing summary. Billing is always the
// service's calculation; the UI never derives totals from line items.
func (m *Model) renderBillingBox() string {
	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(m.theme.BorderColor).
		Padding(0, 1)

	if m.billing == nil {
		return box.Render(lipgloss.NewStyle().Foreground(m.theme.FaintText).Render("billing pending…"))
	}

	amount := lipgloss.NewStyle().Foreground(m.theme.AmountText)
	total := lipgloss.NewStyle().Bold(true).Foreground(m.theme.TotalText)

	lines := []string{
		amount.Render(fmt.Sprintf("Subtotal  %8.2f", m.billing.Subtotal)),
		amount.Render(fmt.Sprintf("Tax       %8.2f", m.billing.TaxAmount)),
	}
	if m.billing.DiscountAmount > 0 {
		lines = append(lines, amount.Render(fmt.Sprintf("Discount  %8.2f", -m.billing.DiscountAmount)))
	}
	lines = append(lines, total.Render(fmt.Sprintf("Total     %8.2f %s", m.billing.FinalAmount, m.billing.Currency)))
	lines = append(lines, lipgloss.NewStyle().Foreground(m.theme.FaintText).
		Render(fmt.Sprintf("%d items", m.billing.ItemCount)))

	return box.Render(strings.Join(lines, "\n"))
}

// truncate shortens s to at most width runes, with an ellipsis.
func truncate(s string, width int) string {
	runes := []rune(s)
	if len(runes) <= width {
		return s
	}
	return string(runes[:width-1]) + "…"
}
