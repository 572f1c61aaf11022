// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package main

import (
	"flag"
	"fmt"
	"log"
	"math"

	"github.com/relabs-tech/strum_sentinel/internal/accel"
	"github.com/relabs-tech/strum_sentinel/internal/config"
	"github.com/relabs-tech/strum_sentinel/internal/sensors"
)

// axisStats accumulates per-axis statistics over the survey.
type axisStats struct {
	sumAbs float64
	sumSq  float64
	maxAbs float64
	n      int
}

func (a *axisStats) add(v float64) {
	abs := math.Abs(v)
	a.sumAbs += abs
	a.sumSq += v * v
	if abs > a.maxAbs {
		a.maxAbs = abs
	}
	a.n++
}

func (a *axisStats) meanAbs() float64 { return a.sumAbs / float64(a.n) }

func (a *axisStats) rms() float64 { return math.Sqrt(a.sumSq / float64(a.n)) }

func main() {
	configPath := flag.String("config", "./strum_config.txt", "path to configuration file")
	samples := flag.Int("samples", 2000, "number of resting samples to survey")
	flag.Parse()

	log.Println("starting strum-sentinel noise survey")
	log.Println("keep the instrument still and quiet during the survey")

	if err := config.InitGlobal(*configPath); err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	cfg := config.Get()

	reader, err := sensors.NewReader()
	if err != nil {
		log.Fatalf("failed to open sensor: %v", err)
	}
	src := accel.NewSource(reader)

	var stats [accel.AxisCount]axisStats
	for i := 0; i < *samples; i++ {
		s, err := src.Next()
		if err != nil {
			log.Fatalf("sample %d: %v", i, err)
		}
		stats[0].add(s.X)
		stats[1].add(s.Y)
		stats[2].add(s.Z)
	}

	names := [accel.AxisCount]string{"X", "Y", "Z"}
	fmt.Printf("resting survey over %d samples:\n", *samples)
	var worstMean float64
	for i := range stats {
		fmt.Printf("  %s: mean |a| = %.4fg  rms = %.4fg  peak = %.4fg\n",
			names[i], stats[i].meanAbs(), stats[i].rms(), stats[i].maxAbs)
		if stats[i].meanAbs() > worstMean {
			worstMean = stats[i].meanAbs()
		}
	}

	// A workable noise floor sits between the resting mean and the quietest
	// strum; suggest half way up from the resting mean as a starting point.
	suggested := worstMean * 1.5
	fmt.Printf("\nconfigured TRIGGER_NOISE_FLOOR = %.3fg\n", cfg.TriggerNoiseFloor)
	fmt.Printf("suggested  TRIGGER_NOISE_FLOOR = %.3fg (1.5× worst resting mean)\n", suggested)

	if cfg.TriggerNoiseFloor <= worstMean {
		fmt.Println("WARNING: configured noise floor is below the resting mean; the gate will pass at rest")
	}
}
