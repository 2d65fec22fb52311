// Copyright 2026 The Cartkit Authors
// SPDX-License-Identifier: Apache-2.0

package session

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/cartkit-project/cartkit/lib/clock"
)

// idFileName is the session id file inside the state directory.
const idFileName = "session-id"

// idPrefix starts every generated session id.
const idPrefix = "CART-"

// Session is the client's stable identity. Immutable once created;
// Rotate replaces it with a fresh one.
type Session struct {
	// ID correlates all requests to one cart.
	ID string

	// CreatedAt is when this id was first generated. For ids reloaded
	// from disk it reflects the id file's modification time.
	CreatedAt time.Time
}

// Manager persists the session id under a state directory.
type Manager struct {
	stateDir string
	clock    clock.Clock
	logger   *slog.Logger

	// memory holds the fallback id when the state directory is not
	// writable. Empty until the fallback path is taken.
	memory *Session
}

// NewManager creates a Manager rooted at stateDir.
func NewManager(stateDir string, clk clock.Clock, logger *slog.Logger) *Manager {
	return &Manager{
		stateDir: stateDir,
		clock:    clk,
		logger:   logger,
	}
}

// GetOrCreate returns the persisted session, generating and persisting
// a new one if none exists. It never fails: when the state directory
// cannot be read or written, it falls back to an in-memory id that
// lives for the process lifetime, logging a warning.
func (m *Manager) GetOrCreate() Session {
	if m.memory != nil {
		return *m.memory
	}

	path := filepath.Join(m.stateDir, idFileName)

	data, err := os.ReadFile(path)
	if err == nil {
		id := strings.TrimSpace(string(data))
		if id != "" {
			created := m.clock.Now()
			if info, statErr := os.Stat(path); statErr == nil {
				created = info.ModTime()
			}
			return Session{ID: id, CreatedAt: created}
		}
		// Empty file: treat as absent and regenerate.
	} else if !os.IsNotExist(err) {
		m.logger.Warn("session id unreadable, using in-memory id",
			"path", path, "error", err)
		return m.fallback()
	}

	return m.create(path)
}

// Rotate discards the current session and persists a fresh id. Not
// exercised by the shopping flows; exposed for explicit operator use.
func (m *Manager) Rotate() Session {
	m.memory = nil
	return m.create(filepath.Join(m.stateDir, idFileName))
}

// create generates a new id and persists it, degrading to the
// in-memory fallback on any storage failure.
func (m *Manager) create(path string) Session {
	now := m.clock.Now()
	created := Session{
		ID:        fmt.Sprintf("%s%d", idPrefix, now.UnixMilli()),
		CreatedAt: now,
	}

	if err := os.MkdirAll(m.stateDir, 0o700); err != nil {
		m.logger.Warn("cannot create state directory, using in-memory session id",
			"dir", m.stateDir, "error", err)
		m.memory = &created
		return created
	}
	if err := os.WriteFile(path, []byte(created.ID+"\n"), 0o600); err != nil {
		m.logger.Warn("cannot persist session id, using in-memory id",
			"path", path, "error", err)
		m.memory = &created
		return created
	}

	return created
}

// fallback returns (creating if needed) the process-lifetime in-memory
// session.
func (m *Manager) fallback() Session {
	if m.memory == nil {
		now := m.clock.Now()
		m.memory = &Session{
			ID:        fmt.Sprintf("%s%d", idPrefix, now.UnixMilli()),
			CreatedAt: now,
		}
	}
	return *m.memory
}
