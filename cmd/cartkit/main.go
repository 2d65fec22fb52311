// Copyright 2026 The Cartkit Authors
// SPDX-License-Identifier: Apache-2.0

// cartkit is the shopper-facing smart cart client. It connects to the
// store service socket, loads (or creates) the session's cart, and
// runs the interactive terminal UI: cart contents with live billing,
// debounced product search, barcode scan-and-add, in-store
// navigation, recommendations, and checkout.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/pflag"

	"github.com/cartkit-project/cartkit/lib/cartstate"
	"github.com/cartkit-project/cartkit/lib/cartui"
	"github.com/cartkit-project/cartkit/lib/clock"
	"github.com/cartkit-project/cartkit/lib/config"
	"github.com/cartkit-project/cartkit/lib/session"
	"github.com/cartkit-project/cartkit/lib/storeapi"
	"github.com/cartkit-project/cartkit/lib/tui"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	var configPath, socketPath, stateDir string

	flagSet := pflag.NewFlagSet("cartkit", pflag.ContinueOnError)
	flagSet.StringVar(&configPath, "config", "", "path to config file (default: $CARTKIT_CONFIG)")
	flagSet.StringVar(&socketPath, "socket", "", "store service socket path (overrides config)")
	flagSet.StringVar(&stateDir, "state-dir", "", "state directory for the session id (overrides config)")
	flagSet.BoolP("help", "h", false, "show help")

	if err := flagSet.Parse(os.Args[1:]); err != nil {
		if err == pflag.ErrHelp {
			return nil
		}
		return err
	}
	if help, _ := flagSet.GetBool("help"); help {
		flagSet.PrintDefaults()
		return nil
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if socketPath != "" {
		cfg.Socket = socketPath
	}
	if stateDir != "" {
		cfg.StateDir = stateDir
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Warnings and errors surface in the TUI status bar instead of
	// corrupting the alternate screen.
	handler := tui.NewLogHandler(slog.LevelWarn)
	logger := slog.New(handler)

	clk := clock.Real()
	api := storeapi.NewClient(cfg.Socket)

	sess := session.NewManager(cfg.StateDir, clk, logger).GetOrCreate()

	cartStore := cartstate.New(api, logger)
	if _, err := cartStore.CreateOrFetch(ctx, sess.ID); err != nil {
		return fmt.Errorf("loading cart for session %s: %w", sess.ID, err)
	}

	model := cartui.New(api, cartStore, clk, cfg, logger)
	program := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	model.SetProgram(program)
	handler.SetProgram(program)

	defer model.Close()
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("running UI: %w", err)
	}
	return nil
}
