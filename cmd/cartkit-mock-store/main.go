// Copyright 2026 The Cartkit Authors
// SPDX-License-Identifier: Apache-2.0

// cartkit-mock-store is a drop-in in-memory replacement for the store
// service, for local development and integration tests. It serves the
// full cart protocol on a Unix socket with a seeded product and aisle
// catalog, computes billing with real tax and discount rules, and
// keeps carts, transactions, and alerts in memory for the admin
// queries. Point cartkit and cartkit-dashboard at its socket and the
// whole client stack works without a store deployment.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/pflag"

	"github.com/cartkit-project/cartkit/lib/clock"
	"github.com/cartkit-project/cartkit/lib/config"
	"github.com/cartkit-project/cartkit/lib/storeapi"
	"github.com/cartkit-project/cartkit/lib/storemem"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	var configPath, socketPath string
	var verbose bool

	flagSet := pflag.NewFlagSet("cartkit-mock-store", pflag.ContinueOnError)
	flagSet.StringVar(&configPath, "config", "", "path to config file (default: $CARTKIT_CONFIG)")
	flagSet.StringVar(&socketPath, "socket", "", "socket path to serve on (overrides config)")
	flagSet.BoolVar(&verbose, "verbose", false, "log every request at debug level")
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

	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	service := storemem.New(clock.Real())
	server := storeapi.NewSocketServer(cfg.Socket, logger)
	service.Mount(server)

	logger.Info("mock store service starting", "socket", cfg.Socket)
	return server.Serve(ctx)
}
