package main

import (
	"flag"
	"log"

	"github.com/relabs-tech/strum_sentinel/internal/accel"
	"github.com/relabs-tech/strum_sentinel/internal/app"
	"github.com/relabs-tech/strum_sentinel/internal/capture"
	"github.com/relabs-tech/strum_sentinel/internal/engine"
	"github.com/relabs-tech/strum_sentinel/internal/indicator"
	"github.com/relabs-tech/strum_sentinel/internal/trigger"
)

// bench runs the full learn-then-classify pipeline against a synthetic
// waveform, no hardware or broker needed. Useful for eyeballing trigger
// sensitivity and engine behavior before a field deployment.
func main() {
	captures := flag.Int("captures", 10, "total captures to process (learning + classification)")
	captureLen := flag.Int("capture-len", 128, "samples per capture")
	quota := flag.Int("quota", 5, "learning quota")
	threshold := flag.Int("threshold", 90, "similarity threshold")
	flag.Parse()

	log.Println("starting strum-sentinel bench (synthetic waveform)")

	eng := engine.NewBaseline()
	if err := eng.Init(); err != nil {
		log.Fatalf("engine init: %v", err)
	}

	s := &app.Sentinel{
		Src:       accel.NewSource(accel.NewWaveReader()),
		Det:       trigger.New(trigger.DefaultWindow, trigger.DefaultRatio, trigger.DefaultNoiseFloor),
		Buf:       capture.NewBuffer(*captureLen),
		Engine:    eng,
		Indicator: indicator.Console{},
		Quota:     *quota,
		Threshold: *threshold,
	}

	checks := 0
	dispatched := 0
	for dispatched < *captures {
		ok, err := s.Step()
		if err != nil {
			log.Fatalf("step: %v", err)
		}
		checks++
		if ok {
			dispatched++
		}
	}

	log.Printf("bench: %d captures in %d trigger checks (learned %d, classifying=%v)",
		dispatched, checks, s.Learned(), s.Classifying())
}
