// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package indicator

import (
	"fmt"
	"log"
	"time"

	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/host/v3"
)

// LED drives three status LEDs: blue for learning events, red for anomaly,
// green for nominal. Blink patterns follow the deployed rig, so an operator
// used to the old firmware reads them the same way.
type LED struct {
	learn   gpio.PinOut
	anomaly gpio.PinOut
	nominal gpio.PinOut
}

// NewLED resolves the three pins by name (e.g. "GPIO17"). All three must
// exist; a rig without LEDs should use Console instead.
func NewLED(learnPin, anomalyPin, nominalPin string) (*LED, error) {
	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("led indicator: periph host init: %w", err)
	}

	l := &LED{}
	for _, p := range []struct {
		name string
		dst  *gpio.PinOut
	}{
		{learnPin, &l.learn},
		{anomalyPin, &l.anomaly},
		{nominalPin, &l.nominal},
	} {
		pin := gpioreg.ByName(p.name)
		if pin == nil {
			return nil, fmt.Errorf("led indicator: pin %q not found", p.name)
		}
		if err := pin.Out(gpio.Low); err != nil {
			return nil, fmt.Errorf("led indicator: pin %q: %w", p.name, err)
		}
		*p.dst = pin
	}
	return l, nil
}

// Learned blinks blue once, long.
func (l *LED) Learned() { blink(l.learn, 1, 750*time.Millisecond, 150*time.Millisecond) }

// LearningComplete blinks blue three times, long.
func (l *LED) LearningComplete() { blink(l.learn, 3, 750*time.Millisecond, 50*time.Millisecond) }

// Anomaly blinks red three times, short.
func (l *LED) Anomaly() { blink(l.anomaly, 3, 100*time.Millisecond, 50*time.Millisecond) }

// Nominal blinks green once, long.
func (l *LED) Nominal() { blink(l.nominal, 1, time.Second, 250*time.Millisecond) }

func blink(p gpio.PinOut, times int, on, off time.Duration) {
	for i := 0; i < times; i++ {
		set(p, gpio.High)
		time.Sleep(on)
		set(p, gpio.Low)
		time.Sleep(off)
	}
}

func set(p gpio.PinOut, level gpio.Level) {
	if err := p.Out(level); err != nil {
		log.Printf("led indicator: %s: %v", p.Name(), err)
	}
}
