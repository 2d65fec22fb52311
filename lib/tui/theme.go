// Copyright 2026 The Cartkit Authors
// SPDX-License-Identifier: Apache-2.0

package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/cartkit-project/cartkit/lib/schema/store"
)

// Theme defines the color palette for cartkit's terminal UIs. All
// colors use lipgloss ANSI 256-color codes for broad terminal
// compatibility.
type Theme struct {
	// Text colors.
	NormalText lipgloss.Color
	FaintText  lipgloss.Color

	// Selected row.
	SelectedBackground lipgloss.Color
	SelectedForeground lipgloss.Color

	// Money: totals and the final amount line.
	AmountText lipgloss.Color
	TotalText  lipgloss.Color

	// Alerts and verification badges.
	AlertForeground lipgloss.Color
	AlertBackground lipgloss.Color
	VerifiedBadge   lipgloss.Color
	ScanBadge       lipgloss.Color
	UnverifiedBadge lipgloss.Color

	// Cart status colors.
	StatusActive    lipgloss.Color
	StatusPaid      lipgloss.Color
	StatusAbandoned lipgloss.Color

	// Payment flow.
	PaymentPending lipgloss.Color
	PaymentSuccess lipgloss.Color
	PaymentFailed  lipgloss.Color

	// UI chrome.
	HeaderForeground lipgloss.Color
	BorderColor      lipgloss.Color
	HelpText         lipgloss.Color
	TabActive        lipgloss.Color
	TabInactive      lipgloss.Color

	// Status bar log levels.
	LogWarn  lipgloss.Color
	LogError lipgloss.Color
}

// StatusColor returns the color for a cart status string. Unknown
// values return FaintText.
func (theme Theme) StatusColor(status string) lipgloss.Color {
	switch status {
	case store.CartActive:
		return theme.StatusActive
	case store.CartPaid:
		return theme.StatusPaid
	case store.CartAbandoned:
		return theme.StatusAbandoned
	default:
		return theme.FaintText
	}
}

// DefaultTheme is the built-in dark-terminal color scheme.
var DefaultTheme = Theme{
	NormalText: lipgloss.Color("252"),
	FaintText:  lipgloss.Color("245"),

	SelectedBackground: lipgloss.Color("236"),
	SelectedForeground: lipgloss.Color("255"),

	AmountText: lipgloss.Color("252"),
	TotalText:  lipgloss.Color("220"), // amber, draws the eye to the final amount

	AlertForeground: lipgloss.Color("255"),
	AlertBackground: lipgloss.Color("124"), // dark red banner
	VerifiedBadge:   lipgloss.Color("114"), // green
	ScanBadge:       lipgloss.Color("75"),  // blue
	UnverifiedBadge: lipgloss.Color("240"), // dim gray

	StatusActive:    lipgloss.Color("114"), // green
	StatusPaid:      lipgloss.Color("245"), // gray
	StatusAbandoned: lipgloss.Color("208"), // orange

	PaymentPending: lipgloss.Color("220"), // amber
	PaymentSuccess: lipgloss.Color("114"), // green
	PaymentFailed:  lipgloss.Color("196"), // red

	HeaderForeground: lipgloss.Color("255"),
	BorderColor:      lipgloss.Color("240"),
	HelpText:         lipgloss.Color("241"),
	TabActive:        lipgloss.Color("255"),
	TabInactive:      lipgloss.Color("245"),

	LogWarn:  lipgloss.Color("220"),
	LogError: lipgloss.Color("196"),
}
