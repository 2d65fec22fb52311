// Copyright 2026 The Cartkit Authors
// SPDX-License-Identifier: Apache-2.0

// cartkit-dashboard is the read-only operations dashboard for store
// staff: live headline metrics, popular product rankings, active
// carts, and the alerts summary, polled from the store service. It
// never mutates service state.
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

	"github.com/cartkit-project/cartkit/lib/clock"
	"github.com/cartkit-project/cartkit/lib/config"
	"github.com/cartkit-project/cartkit/lib/dashui"
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
	var configPath, socketPath string
	var days int64

	flagSet := pflag.NewFlagSet("cartkit-dashboard", pflag.ContinueOnError)
	flagSet.StringVar(&configPath, "config", "", "path to config file (default: $CARTKIT_CONFIG)")
	flagSet.StringVar(&socketPath, "socket", "", "store service socket path (overrides config)")
	flagSet.Int64Var(&days, "days", 0, "reporting window in days (overrides config)")
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
	if days > 0 {
		cfg.Dashboard.Days = days
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	handler := tui.NewLogHandler(slog.LevelWarn)
	logger := slog.New(handler)

	api := storeapi.NewClient(cfg.Socket)
	model := dashui.New(api, clock.Real(), cfg, logger)

	program := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	model.SetProgram(program)
	handler.SetProgram(program)

	defer model.Close()
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("running UI: %w", err)
	}
	return nil
}
