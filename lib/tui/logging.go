// Copyright 2026 The Cartkit Authors
// SPDX-License-Identifier: Apache-2.0

package tui

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// LogMsg delivers a slog record to a bubbletea model for display in
// the status bar. Only records at or above the handler's configured
// level are delivered.
type LogMsg struct {
	// Summary is the human-readable one-line message.
	Summary string

	// Level is the slog level for styling (warn vs error).
	Level slog.Level

	// Time is when the record was produced.
	Time time.Time
}

// LogFadeMsg is sent after a delay to clear the log message from the
// status bar and restore the normal help line.
type LogFadeMsg struct{}

// LogFadeDelay is how long log messages stay visible in the status bar
// before fading back to the help line.
const LogFadeDelay = 5 * time.Second

// LogHandler is a slog.Handler that routes records into a bubbletea
// program as LogMsg values. Records below the configured level are
// dropped.
//
// Create the handler before the program exists and call SetProgram
// once the tea.Program is constructed; records arriving before then
// are dropped. Handlers derived via WithAttrs/WithGroup share the
// same program pointer, so one SetProgram call covers all of them.
type LogHandler struct {
	level   slog.Level
	program *atomic.Pointer[tea.Program]
	attrs   []slog.Attr
}

// NewLogHandler creates a handler delivering records at or above
// level.
func NewLogHandler(level slog.Level) *LogHandler {
	return &LogHandler{
		level:   level,
		program: &atomic.Pointer[tea.Program]{},
	}
}

// SetProgram sets the bubbletea program that receives log messages.
// Safe to call from any goroutine.
func (h *LogHandler) SetProgram(program *tea.Program) {
	h.program.Store(program)
}

// Enabled reports whether the handler wants records at the given
// level.
func (h *LogHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level
}

// Handle formats the record as "message (key=value, ...)" and sends it
// to the program. Dropped silently if no program is set yet.
func (h *LogHandler) Handle(_ context.Context, record slog.Record) error {
	program := h.program.Load()
	if program == nil {
		return nil
	}

	summary := record.Message
	var attrParts []string
	for _, attr := range h.attrs {
		attrParts = append(attrParts, fmt.Sprintf("%s=%s", attr.Key, attr.Value))
	}
	record.Attrs(func(attr slog.Attr) bool {
		attrParts = append(attrParts, fmt.Sprintf("%s=%s", attr.Key, attr.Value))
		return true
	})
	if len(attrParts) > 0 {
		summary += " ("
		for i, part := range attrParts {
			if i > 0 {
				summary += ", "
			}
			summary += part
		}
		summary += ")"
	}

	program.Send(LogMsg{
		Summary: summary,
		Level:   record.Level,
		Time:    record.Time,
	})
	return nil
}

// WithAttrs returns a derived handler with the attributes appended. It
// shares the program pointer with the parent.
func (h *LogHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	combined := make([]slog.Attr, 0, len(h.attrs)+len(attrs))
	combined = append(combined, h.attrs...)
	combined = append(combined, attrs...)
	return &LogHandler{
		level:   h.level,
		program: h.program,
		attrs:   combined,
	}
}

// WithGroup returns the handler unchanged: status-bar summaries are
// flat, so grouping adds nothing here.
func (h *LogHandler) WithGroup(string) slog.Handler {
	return h
}
