// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package app

import (
	"encoding/json"
	"fmt"
	"log"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/relabs-tech/strum_sentinel/internal/accel"
	"github.com/relabs-tech/strum_sentinel/internal/capture"
	"github.com/relabs-tech/strum_sentinel/internal/config"
	"github.com/relabs-tech/strum_sentinel/internal/engine"
	"github.com/relabs-tech/strum_sentinel/internal/indicator"
)

// Trigger matches trigger.Detector.
type Trigger interface {
	Check(src accel.Sampler) (bool, error)
}

// Sentinel is the learn-then-classify mode controller. Every trigger event
// feeds one capture to the pattern engine: the first Quota captures train
// it, every later capture is scored against the learned patterns. The
// transition to classification is one way; a Sentinel never relearns.
type Sentinel struct {
	Src       accel.Sampler
	Det       Trigger
	Buf       *capture.Buffer
	Engine    engine.Engine
	Indicator indicator.Indicator
	Quota     int
	Threshold int // similarity below this is an anomaly

	// Optional event hooks, called synchronously from Step.
	OnProgress func(p Progress)
	OnVerdict  func(v Verdict)

	learned     int
	classifying bool
}

// Learned returns how many captures have been ingested for training.
// Bounded by Quota; never decreases.
func (s *Sentinel) Learned() int { return s.learned }

// Classifying reports whether the learning quota has been reached.
func (s *Sentinel) Classifying() bool { return s.classifying }

// Step runs one trigger evaluation and, on a trigger event, one full learn
// or classify cycle. It reports whether a capture was dispatched.
func (s *Sentinel) Step() (bool, error) {
	fired, err := s.Det.Check(s.Src)
	if err != nil || !fired {
		return false, err
	}
	if err := s.Buf.Fill(s.Src); err != nil {
		return false, err
	}
	if !s.classifying {
		return true, s.learnOne()
	}
	return true, s.classifyOne()
}

func (s *Sentinel) learnOne() error {
	if err := s.Engine.Learn(s.Buf.Values()); err != nil {
		return fmt.Errorf("engine learn: %w", err)
	}
	s.Indicator.Learned()

	// Progress is reported before the capture is counted, so the first
	// ingestion shows 0% and the quota-th shows (quota-1)/quota.
	pct := s.learned * 100 / s.Quota
	s.learned++
	done := s.learned >= s.Quota
	if s.OnProgress != nil {
		s.OnProgress(Progress{
			Time:    time.Now().Format(time.RFC3339),
			Learned: s.learned,
			Quota:   s.Quota,
			Pct:     pct,
			Done:    done,
		})
	}
	log.Printf("sentinel: learned %d/%d (%d%%)", s.learned, s.Quota, pct)

	if done {
		s.classifying = true
		s.Indicator.LearningComplete()
		log.Println("sentinel: learning complete, entering classification")
	}
	return nil
}

func (s *Sentinel) classifyOne() error {
	similarity, err := s.Engine.Detect(s.Buf.Values())
	if err != nil {
		return fmt.Errorf("engine detect: %w", err)
	}

	anomaly := similarity < s.Threshold
	if anomaly {
		s.Indicator.Anomaly()
	} else {
		s.Indicator.Nominal()
	}
	if s.OnVerdict != nil {
		s.OnVerdict(Verdict{
			Time:       time.Now().Format(time.RFC3339),
			Similarity: similarity,
			Anomaly:    anomaly,
		})
	}

	label := "nominal"
	if anomaly {
		label = "ANOMALY"
	}
	log.Printf("sentinel: similarity %d (%s)", similarity, label)
	return nil
}

// RunSentinel wires the configured sensor, engine, indicator and MQTT
// publishers into a Sentinel and polls it forever. It only returns on a
// hard pipeline or collaborator failure.
func RunSentinel() error {
	log.Println("starting strum-sentinel (learn-then-classify)")

	cfg := config.Get()

	p, err := newPipeline()
	if err != nil {
		return err
	}

	// --- pattern engine ---
	var eng engine.Engine
	switch cfg.Engine {
	case "serial":
		se, err := engine.OpenSerial(cfg.EngineSerialPort, uint(cfg.EngineBaudRate))
		if err != nil {
			return err
		}
		defer se.Close()
		eng = se
		log.Printf("sentinel: serial engine on %s at %d baud", cfg.EngineSerialPort, cfg.EngineBaudRate)
	case "baseline":
		eng = engine.NewBaseline()
		log.Println("sentinel: in-process baseline engine")
	default:
		return fmt.Errorf("unknown engine %q", cfg.Engine)
	}
	if err := eng.Init(); err != nil {
		return fmt.Errorf("engine init: %w", err)
	}

	// --- indicator ---
	var ind indicator.Indicator
	if cfg.LEDsConfigured() {
		led, err := indicator.NewLED(cfg.LEDLearnPin, cfg.LEDAnomalyPin, cfg.LEDNominalPin)
		if err != nil {
			return err
		}
		ind = led
		log.Printf("sentinel: LED indicator on %s/%s/%s", cfg.LEDLearnPin, cfg.LEDAnomalyPin, cfg.LEDNominalPin)
	} else {
		ind = indicator.Console{}
	}

	// --- connect to MQTT ---
	opts := mqtt.NewClientOptions().
		AddBroker(cfg.MQTTBroker).
		SetClientID(cfg.MQTTClientIDSentinel)

	client := mqtt.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		return fmt.Errorf("MQTT connect: %w", token.Error())
	}
	defer client.Disconnect(250)
	log.Printf("sentinel: connected to MQTT broker at %s", cfg.MQTTBroker)

	publish := func(topic string, v any) {
		payload, err := json.Marshal(v)
		if err != nil {
			log.Printf("sentinel: marshal error (%s): %v", topic, err)
			return
		}
		if token := client.Publish(topic, 0, true, payload); token.Wait() && token.Error() != nil {
			log.Printf("sentinel: MQTT publish error (%s): %v", topic, token.Error())
		}
	}

	s := &Sentinel{
		Src:       p.src,
		Det:       p.det,
		Buf:       p.buf,
		Engine:    eng,
		Indicator: ind,
		Quota:     cfg.LearningQuota,
		Threshold: cfg.SimilarityThreshold,
		OnProgress: func(pr Progress) {
			publish(cfg.TopicProgress, pr)
		},
		OnVerdict: func(v Verdict) {
			publish(cfg.TopicVerdict, v)
		},
	}

	log.Printf("sentinel: learning quota %d, similarity threshold %d, capture %d samples",
		s.Quota, s.Threshold, p.buf.Len())

	for {
		if _, err := s.Step(); err != nil {
			return err
		}
	}
}
