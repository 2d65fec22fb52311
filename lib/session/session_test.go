// Copyright 2026 The Cartkit Authors
// SPDX-License-Identifier: Apache-2.0

package session

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/cartkit-project/cartkit/lib/clock"
)

var epoch = time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

func TestGetOrCreatePersists(t *testing.T) {
	dir := t.TempDir()
	fake := clock.Fake(epoch)

	first := NewManager(dir, fake, slog.Default()).GetOrCreate()
	if !strings.HasPrefix(first.ID, "CART-") {
		t.Fatalf("id = %q, want CART- prefix", first.ID)
	}

	// A fresh manager over the same directory reloads the same id.
	second := NewManager(dir, fake, slog.Default()).GetOrCreate()
	if second.ID != first.ID {
		t.Fatalf("reloaded id = %q, want %q", second.ID, first.ID)
	}
}

func TestGetOrCreateStableWithinManager(t *testing.T) {
	manager := NewManager(t.TempDir(), clock.Fake(epoch), slog.Default())
	first := manager.GetOrCreate()
	second := manager.GetOrCreate()
	if first.ID != second.ID {
		t.Fatalf("ids differ: %q vs %q", first.ID, second.ID)
	}
}

func TestGetOrCreateFallbackOnUnwritableDir(t *testing.T) {
	if os.Geteuid() == 0 {
		t.Skip("directory permissions are not enforced for root")
	}
	dir := filepath.Join(t.TempDir(), "blocked")
	if err := os.MkdirAll(dir, 0o500); err != nil {
		t.Fatal(err)
	}

	manager := NewManager(filepath.Join(dir, "state"), clock.Fake(epoch), slog.Default())
	first := manager.GetOrCreate()
	if first.ID == "" {
		t.Fatal("fallback session has empty id")
	}
	// The in-memory id is stable for the manager's lifetime.
	second := manager.GetOrCreate()
	if second.ID != first.ID {
		t.Fatalf("fallback id changed: %q vs %q", second.ID, first.ID)
	}
}

func TestRotateReplacesID(t *testing.T) {
	dir := t.TempDir()
	fake := clock.Fake(epoch)
	manager := NewManager(dir, fake, slog.Default())

	first := manager.GetOrCreate()
	fake.Advance(time.Second)
	rotated := manager.Rotate()
	if rotated.ID == first.ID {
		t.Fatalf("Rotate returned the old id %q", first.ID)
	}

	// The rotated id is what persists.
	reloaded := NewManager(dir, fake, slog.Default()).GetOrCreate()
	if reloaded.ID != rotated.ID {
		t.Fatalf("reloaded id = %q, want rotated %q", reloaded.ID, rotated.ID)
	}
}

func TestEmptyIDFileRegenerates(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "session-id"), []byte("  \n"), 0o600); err != nil {
		t.Fatal(err)
	}
	got := NewManager(dir, clock.Fake(epoch), slog.Default()).GetOrCreate()
	if got.ID == "" || !strings.HasPrefix(got.ID, "CART-") {
		t.Fatalf("id = %q, want regenerated CART- id", got.ID)
	}
}
