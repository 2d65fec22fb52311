// Copyright 2026 The Cartkit Authors
// SPDX-License-Identifier: Apache-2.0

package dashui

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

func (m *Model) viewOverview() string {
	faint := lipgloss.NewStyle().Foreground(m.theme.FaintText)
	if m.overview == nil {
		return faint.Render("fetching overview…")
	}

	header := lipgloss.NewStyle().Bold(true).Foreground(m.theme.HeaderForeground)
	alert := lipgloss.NewStyle().Foreground(m.theme.LogError)
	amount := lipgloss.NewStyle().Bold(true).Foreground(m.theme.TotalText)

	var b strings.Builder
	b.WriteString(fmt.Sprintf("Active carts        %d\n", m.overview.ActiveCarts))
	b.WriteString(fmt.Sprintf("Transactions today  %d\n", m.overview.TransactionsToday))
	b.WriteString("Revenue today       " + amount.Render(fmt.Sprintf("%.2f", m.overview.RevenueToday)) + "\n")
	if m.overview.ActiveAlerts > 0 {
		b.WriteString("Active alerts       " + alert.Render(fmt.Sprintf("%d", m.overview.ActiveAlerts)) + "\n")
	} else {
		b.WriteString("Active alerts       0\n")
	}

	if len(m.overview.PopularProducts) > 0 {
		b.WriteString("\n")
		b.WriteString(header.Render("Top products"))
		b.WriteString("\n")
		for i, product := range m.overview.PopularProducts {
			if i >= 5 {
				break
			}
			b.WriteString(fmt.Sprintf("  %-26s %d purchases\n", product.Name, product.PurchaseCount))
		}
	}
	return b.String()
}

func (m *Model) viewPopular() string {
	faint := lipgloss.NewStyle().Foreground(m.theme.FaintText)
	if m.popular == nil {
		return faint.Render("fetching popular products…")
	}
	if len(m.popular) == 0 {
		return faint.Render(fmt.Sprintf("no purchases in the last %d days", m.cfg.Dashboard.Days))
	}

	header := lipgloss.NewStyle().Bold(true).Foreground(m.theme.HeaderForeground)
	var b strings.Builder
	b.WriteString(header.Render(fmt.Sprintf("%-26s %-12s %10s %6s %6s", "Product", "Category", "Price", "Buys", "Qty")))
	b.WriteString("\n")
	for _, product := range m.popular {
		b.WriteString(fmt.Sprintf("%-26s %-12s %10.2f %6d %6d\n",
			product.Name, product.Category, product.Price, product.PurchaseCount, product.TotalQuantity))
	}
	return b.String()
}

func (m *Model) viewCarts() string {
	faint := lipgloss.NewStyle().Foreground(m.theme.FaintText)
	if m.carts == nil {
		return faint.Render("fetching active carts…")
	}
	if len(m.carts) == 0 {
		return faint.Render("no active carts")
	}

	header := lipgloss.NewStyle().Bold(true).Foreground(m.theme.HeaderForeground)
	alert := lipgloss.NewStyle().Foreground(m.theme.LogError)

	var b strings.Builder
	b.WriteString(header.Render(fmt.Sprintf("%-6s %-18s %6s %10s %10s  %s", "Cart", "Session", "Items", "Total", "Final", "")))
	b.WriteString("\n")
	for _, cart := range m.carts {
		flag := ""
		if cart.HasAlert {
			flag = alert.Render("⚠ alert")
		}
		b.WriteString(fmt.Sprintf("%-6d %-18s %6d %10.2f %10.2f  %s\n",
			cart.ID, cart.SessionID, cart.ItemCount, cart.TotalAmount, cart.FinalAmount, flag))
	}
	return b.String()
}

func (m *Model) viewAlerts() string {
	faint := lipgloss.NewStyle().Foreground(m.theme.FaintText)
	if m.alerts == nil {
		return faint.Render("fetching alerts summary…")
	}
	if len(m.alerts) == 0 {
		return faint.Render(fmt.Sprintf("no alerts in the last %d days", m.cfg.Dashboard.Days))
	}

	types := make([]string, 0, len(m.alerts))
	for alertType := range m.alerts {
		types = append(types, alertType)
	}
	sort.Strings(types)

	header := lipgloss.NewStyle().Bold(true).Foreground(m.theme.HeaderForeground)
	high := lipgloss.NewStyle().Foreground(m.theme.LogError)

	var b strings.Builder
	b.WriteString(header.Render(fmt.Sprintf("%-20s %6s %6s %9s", "Type", "Count", "High", "Resolved")))
	b.WriteString("\n")
	for _, alertType := range types {
		row := m.alerts[alertType]
		highCol := fmt.Sprintf("%6d", row.HighSeverity)
		if row.HighSeverity > 0 {
			highCol = high.Render(highCol)
		}
		b.WriteString(fmt.Sprintf("%-20s %6d %s %9d\n", alertType, row.Count, highCol, row.Resolved))
	}
	return b.String()
}
