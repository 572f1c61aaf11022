// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package trigger

import (
	"fmt"
	"math"

	"github.com/relabs-tech/strum_sentinel/internal/accel"
)

// Defaults for the strum trigger, tuned against an instrument body pickup.
const (
	DefaultWindow     = 5
	DefaultRatio      = 1.4
	DefaultNoiseFloor = 0.15
)

// Detector decides whether a vibration onset ("strum") just happened by
// comparing two consecutively sampled windows. Each Check draws two fresh
// windows rather than sliding one, which keeps the reference from drifting
// into the onset it is supposed to detect.
type Detector struct {
	window     int
	ratio      float64
	noiseFloor float64
}

// New creates a Detector. window is the number of samples per averaging
// window, ratio the candidate/reference factor that fires the trigger, and
// noiseFloor the per-axis mean magnitude (in g) below which a window is
// treated as insufficient signal.
func New(window int, ratio, noiseFloor float64) *Detector {
	return &Detector{window: window, ratio: ratio, noiseFloor: noiseFloor}
}

// Window returns the number of samples per averaging window.
func (d *Detector) Window() int { return d.window }

// Check consumes exactly 2×window fresh samples from src and reports whether
// a vibration onset was detected. The first window is the reference, the
// second the candidate. Each window reduces to the magnitude of its per-axis
// mean. If any of the six resulting magnitudes sits at
// or below the noise floor the check is a no-fire regardless of the ratio
// comparison. Otherwise the trigger fires when any single candidate axis
// mean exceeds its reference mean scaled by the ratio.
func (d *Detector) Check(src accel.Sampler) (bool, error) {
	ref, err := d.windowMeans(src)
	if err != nil {
		return false, err
	}
	cand, err := d.windowMeans(src)
	if err != nil {
		return false, err
	}

	for i := 0; i < accel.AxisCount; i++ {
		if ref[i] <= d.noiseFloor || cand[i] <= d.noiseFloor {
			return false, nil
		}
	}

	for i := 0; i < accel.AxisCount; i++ {
		if cand[i] > ref[i]*d.ratio {
			return true, nil
		}
	}
	return false, nil
}

// windowMeans draws one window of samples and reduces it to the magnitude
// of the per-axis mean.
func (d *Detector) windowMeans(src accel.Sampler) ([accel.AxisCount]float64, error) {
	var sum [accel.AxisCount]float64
	for i := 0; i < d.window; i++ {
		s, err := src.Next()
		if err != nil {
			return sum, fmt.Errorf("trigger window: %w", err)
		}
		sum[0] += s.X
		sum[1] += s.Y
		sum[2] += s.Z
	}
	for i := range sum {
		sum[i] = math.Abs(sum[i] / float64(d.window))
	}
	return sum, nil
}
