// Copyright 2026 The Cartkit Authors
// SPDX-License-Identifier: Apache-2.0

package cartui

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/cartkit-project/cartkit/lib/flow"
	"github.com/cartkit-project/cartkit/lib/schema/store"
	"github.com/cartkit-project/cartkit/lib/tui"
)

func (m *Model) updatePaymentTab(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "left", "h":
		if m.methodIndex > 0 {
			m.methodIndex--
		}
	case "right", "l":
		if m.methodIndex < len(store.Methods)-1 {
			m.methodIndex++
		}
	case "g":
		return m, m.generateQR()
	case "enter":
		return m, m.processPayment()
	case "r":
		if err := m.payment.Reset(); err != nil {
			m.logger.Warn("payment reset rejected", "error", err)
			return m, nil
		}
		m.qr = nil
		m.qrBlock = ""
		m.setStatus("starting a new payment attempt", 0)
	}
	return m, nil
}

// generateQR fetches a payment reference and renders it as a terminal
// QR. Allowed any number of times before processing starts.
func (m *Model) generateQR() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), callTimeout)
		defer cancel()

		qr, err := m.payment.GenerateQR(ctx)
		if err != nil {
			return qrGeneratedMsg{err: err}
		}

		payload, err := qrPayload(qr, m.cartSnapshot)
		if err != nil {
			return qrGeneratedMsg{err: err}
		}
		block, err := tui.RenderQR(payload)
		if err != nil {
			return qrGeneratedMsg{err: err}
		}
		return qrGeneratedMsg{qr: qr, block: block}
	}
}

// processPayment submits the payment with the selected method.
func (m *Model) processPayment() tea.Cmd {
	if m.paymentPending {
		return nil
	}
	method := store.Methods[m.methodIndex]
	m.paymentPending = true
	return tea.Batch(
		m.spin.Tick,
		func() tea.Msg {
			ctx, cancel := context.WithTimeout(context.Background(), callTimeout)
			defer cancel()
			result, err := m.payment.Process(ctx, method)
			return paymentDoneMsg{result: result, err: err}
		},
	)
}

func (m *Model) viewPayment() string {
	if m.payment.State() == flow.PaymentSuccess {
		return m.viewPaymentSuccess()
	}

	var b strings.Builder
	faint := lipgloss.NewStyle().Foreground(m.theme.FaintText)

	if m.billing != nil {
		total := lipgloss.NewStyle().Bold(true).Foreground(m.theme.TotalText)
		b.WriteString(total.Render(fmt.Sprintf("Amount due: %.2f %s", m.billing.FinalAmount, m.billing.Currency)))
		b.WriteString("\n\n")
	}

	b.WriteString("Method:  ")
	for i, method := range store.Methods {
		label := " " + method + " "
		if i == m.methodIndex {
			b.WriteString(lipgloss.NewStyle().
				Background(m.theme.SelectedBackground).
				Foreground(m.theme.SelectedForeground).
				Render("[" + method + "]"))
		} else {
			b.WriteString(lipgloss.NewStyle().Foreground(m.theme.FaintText).Render(label))
		}
		b.WriteString(" ")
	}
	b.WriteString("\n\n")

	if m.paymentPending {
		pending := lipgloss.NewStyle().Foreground(m.theme.PaymentPending)
		b.WriteString(m.spin.View() + pending.Render(" processing payment…"))
		b.WriteString("\n")
		return b.String()
	}

	if m.qrBlock != "" {
		b.WriteString(m.qrBlock)
		b.WriteString("\n")
		if m.qr != nil {
			b.WriteString(faint.Render(fmt.Sprintf("ref %s · expires %s",
				m.qr.PaymentReference, m.qr.ExpiresAt.Format("15:04:05"))))
			b.WriteString("\n")
		}
	} else {
		b.WriteString(faint.Render("press g to generate a payment QR, enter to pay"))
		b.WriteString("\n")
	}
	return b.String()
}

// viewPaymentSuccess shows the frozen result with the rendered
// receipt.
func (m *Model) viewPaymentSuccess() string {
	result := m.payment.Result()
	if result == nil {
		return ""
	}

	var b strings.Builder
	success := lipgloss.NewStyle().Bold(true).Foreground(m.theme.PaymentSuccess)
	faint := lipgloss.NewStyle().Foreground(m.theme.FaintText)

	b.WriteString(success.Render("✓ payment complete"))
	b.WriteString("\n\n")
	b.WriteString(fmt.Sprintf("Transaction  %s\n", result.TransactionID))
	b.WriteString(fmt.Sprintf("Method       %s\n", result.PaymentMethod))
	b.WriteString(fmt.Sprintf("Amount       %.2f\n", result.Amount))
	b.WriteString("\n")

	if result.ReceiptData != "" {
		width := m.width
		if width <= 0 {
			width = 72
		}
		b.WriteString(tui.RenderMarkdown(result.ReceiptData, m.theme, width))
		b.WriteString("\n\n")
	}
	b.WriteString(faint.Render("press r to start a new attempt"))
	return b.String()
}

// qrPayload builds the JSON the original payment terminals expect:
// cart id, amount, and the opaque reference.
func qrPayload(qr *store.PaymentQR, cart *store.Cart) (string, error) {
	var cartID int64
	if cart != nil {
		cartID = cart.ID
	}
	payload := struct {
		CartID    int64   `json:"cart_id"`
		Amount    float64 `json:"amount"`
		Reference string  `json:"reference"`
	}{cartID, qr.Amount, qr.PaymentReference}

	encoded, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("encoding QR payload: %w", err)
	}
	return string(encoded), nil
}
