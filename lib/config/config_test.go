// Copyright 2026 The Cartkit Authors
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv(EnvVar, "")
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load with no path failed: %v", err)
	}
	if cfg.Socket != DefaultSocket {
		t.Fatalf("socket = %q, want %q", cfg.Socket, DefaultSocket)
	}
	if got := cfg.Search.Quiet.Std(); got != 500*time.Millisecond {
		t.Fatalf("search quiet = %v, want 500ms", got)
	}
	if got := cfg.Poll.Overview.Std(); got != 5*time.Second {
		t.Fatalf("overview cadence = %v, want 5s", got)
	}
}

func TestLoadOverridesAndMerge(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cartkit.yaml")
	content := `
socket: /tmp/test-store.sock
poll:
  cart: 2s
search:
  quiet: 250ms
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Socket != "/tmp/test-store.sock" {
		t.Fatalf("socket = %q", cfg.Socket)
	}
	if got := cfg.Poll.Cart.Std(); got != 2*time.Second {
		t.Fatalf("cart cadence = %v, want 2s", got)
	}
	if got := cfg.Search.Quiet.Std(); got != 250*time.Millisecond {
		t.Fatalf("search quiet = %v, want 250ms", got)
	}
	// Unset fields keep defaults.
	if got := cfg.Poll.Reports.Std(); got != 30*time.Second {
		t.Fatalf("reports cadence = %v, want default 30s", got)
	}
	if cfg.Dashboard.Days != 7 {
		t.Fatalf("dashboard days = %d, want 7", cfg.Dashboard.Days)
	}
}

func TestLoadEnvVar(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cartkit.yaml")
	if err := os.WriteFile(path, []byte("socket: /tmp/env.sock\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv(EnvVar, path)

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load via env failed: %v", err)
	}
	if cfg.Socket != "/tmp/env.sock" {
		t.Fatalf("socket = %q, want /tmp/env.sock", cfg.Socket)
	}
}

func TestLoadMissingExplicitFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	if err == nil {
		t.Fatal("explicitly named missing config should be an error")
	}
}

func TestLoadRejectsBadValues(t *testing.T) {
	cases := map[string]string{
		"zero quiet":    "search:\n  quiet: 0s\n",
		"bad duration":  "poll:\n  cart: fast\n",
		"empty socket":  "socket: \"\"\n",
		"zero days":     "dashboard:\n  days: 0\n",
		"negative limit": "search:\n  limit: -1\n",
	}
	for name, content := range cases {
		path := filepath.Join(t.TempDir(), "cartkit.yaml")
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
		if _, err := Load(path); err == nil {
			t.Errorf("%s: expected an error", name)
		}
	}
}
