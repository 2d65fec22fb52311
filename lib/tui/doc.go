// Copyright 2026 The Cartkit Authors
// SPDX-License-Identifier: Apache-2.0

// Package tui holds the terminal UI chrome shared by the shopper
// client and the operations dashboard: the color theme, the markdown
// receipt renderer, the QR block renderer, and the slog handler that
// routes log records into a bubbletea status bar.
package tui
