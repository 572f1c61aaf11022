// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package main

import (
	"flag"
	"fmt"
	"log"

	"github.com/relabs-tech/strum_sentinel/internal/config"
	"github.com/relabs-tech/strum_sentinel/internal/sensors"
)

func main() {
	configPath := flag.String("config", "./strum_config.txt", "path to configuration file")
	flag.Parse()

	log.Println("starting LSM6DSL register debug tool (standalone)")

	if err := config.InitGlobal(*configPath); err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	cfg := config.Get()
	if cfg.AccelDriver != "lsm6dsl" {
		log.Fatalf("register debug supports the lsm6dsl driver only, configured: %q", cfg.AccelDriver)
	}

	dev, err := sensors.NewLSM6DSL(cfg.AccelSPIDevice)
	if err != nil {
		log.Fatalf("failed to open sensor: %v", err)
	}
	defer dev.Close()

	// Dump every mapped register. The accelerometer is left unconfigured so
	// the dump shows power-on state.
	for _, reg := range sensors.LSM6DSLRegisterMap() {
		value, err := dev.ReadRegister(reg.Address)
		if err != nil {
			log.Printf("read 0x%02X (%s): %v", reg.Address, reg.Name, err)
			continue
		}
		fmt.Printf("0x%02X %-12s = 0x%02X  %s\n", reg.Address, reg.Name, value, reg.Description)
		for _, bf := range reg.BitFields {
			fmt.Printf("      %-6s %-10s %s (%s)\n", bf.Bits, bf.Name, bf.Description, bf.Values)
		}
	}
}
