// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package app

import (
	"bufio"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/relabs-tech/strum_sentinel/internal/config"
)

// RunDataLogger runs the continuous logging mode: poll the trigger, and on
// every strum capture a full buffer and emit it as one text line plus one
// MQTT capture event. The loop has no termination condition; it runs until
// the process is stopped.
func RunDataLogger() error {
	log.Println("starting strum-sentinel data logger (trigger → capture → log)")

	cfg := config.Get()

	p, err := newPipeline()
	if err != nil {
		return err
	}

	// --- capture line sink ---
	out := bufio.NewWriter(os.Stdout)
	if cfg.CaptureLogPath != "" {
		f, err := os.OpenFile(cfg.CaptureLogPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return fmt.Errorf("capture log open: %w", err)
		}
		defer f.Close()
		out = bufio.NewWriter(f)
		log.Printf("logger: writing captures to %s", cfg.CaptureLogPath)
	}

	// --- connect to MQTT ---
	opts := mqtt.NewClientOptions().
		AddBroker(cfg.MQTTBroker).
		SetClientID(cfg.MQTTClientIDLogger)

	client := mqtt.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		return fmt.Errorf("MQTT connect: %w", token.Error())
	}
	defer client.Disconnect(250)
	log.Printf("logger: connected to MQTT broker at %s", cfg.MQTTBroker)

	log.Printf("logger: capture %d samples, window %d", p.buf.Len(), p.det.Window())

	captures := 0
	for {
		fired, err := p.det.Check(p.src)
		if err != nil {
			return err
		}
		if !fired {
			continue
		}

		if err := p.buf.Fill(p.src); err != nil {
			return err
		}

		if err := p.buf.WriteLine(out); err != nil {
			return fmt.Errorf("capture log write: %w", err)
		}
		if err := out.Flush(); err != nil {
			return fmt.Errorf("capture log flush: %w", err)
		}

		// The MQTT event is best-effort; the text line is the artifact.
		ev := p.buf.Event(time.Now())
		if payload, err := json.Marshal(ev); err != nil {
			log.Printf("logger: capture marshal error: %v", err)
		} else if token := client.Publish(cfg.TopicCapture, 0, true, payload); token.Wait() && token.Error() != nil {
			log.Printf("logger: MQTT publish error (%s): %v", cfg.TopicCapture, token.Error())
		}

		captures++
		log.Printf("logger: capture %d (%d samples)", captures, p.buf.Len())
	}
}
