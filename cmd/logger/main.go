// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package main

import (
	"flag"
	"log"

	"github.com/relabs-tech/strum_sentinel/internal/app"
	"github.com/relabs-tech/strum_sentinel/internal/config"
)

func main() {
	configPath := flag.String("config", "./strum_config.txt", "path to configuration file")
	flag.Parse()

	log.Println("starting strum-sentinel data logger (accel → trigger → capture log)")

	// Load configuration
	if err := config.InitGlobal(*configPath); err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	if err := app.RunDataLogger(); err != nil {
		log.Fatalf("fatal: %v", err)
	}
}
