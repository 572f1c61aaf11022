// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package accel

import "fmt"

// Source produces deduplicated, unit-converted samples from an AxesReader.
// The sensor keeps its output registers populated between internal updates,
// so polling faster than the output data rate returns stale triples; Source
// rejects those and re-reads. Not safe for concurrent use: exactly one
// goroutine must own a Source.
type Source struct {
	r      AxesReader
	lastX  int32
	lastY  int32
	lastZ  int32
	primed bool
}

// NewSource wraps an AxesReader in a deduplicating source.
func NewSource(r AxesReader) *Source {
	return &Source{r: r}
}

// Next blocks until the sensor returns a reading that differs from the last
// accepted one, then scales it to g. A reading is rejected when any single
// axis repeats its previous raw value; one stale axis is enough to re-read,
// trading speed for a fully fresh triple. There is no timeout: a wedged
// sensor bus that keeps returning the same triple spins here forever.
func (s *Source) Next() (Sample, error) {
	for {
		x, y, z, err := s.r.ReadAxes()
		if err != nil {
			return Sample{}, fmt.Errorf("accel read: %w", err)
		}
		if s.primed && (x == s.lastX || y == s.lastY || z == s.lastZ) {
			continue
		}
		s.lastX, s.lastY, s.lastZ = x, y, z
		s.primed = true
		return Sample{
			X: float64(x) / RawScale,
			Y: float64(y) / RawScale,
			Z: float64(z) / RawScale,
		}, nil
	}
}
