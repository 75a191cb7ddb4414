// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/relabs-tech/drone_telemetry/internal/app"
	"github.com/relabs-tech/drone_telemetry/internal/config"
)

func main() {
	configPath := flag.String("config", "", "Path to configuration file (KEY=VALUE or .yaml)")
	flag.Parse()

	log.Println("starting drone-telemetry dashboard (web + simulator)")

	// Load configuration
	if err := config.InitGlobal(*configPath); err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	cfg := config.Get()

	logFile := app.SetupLogging(cfg)
	defer logFile.Close()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := app.RunDashboard(ctx, cfg); err != nil {
		log.Fatalf("fatal: %v", err)
	}
}
