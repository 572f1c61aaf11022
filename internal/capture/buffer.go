// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package capture

import (
	"io"
	"strconv"

	"github.com/relabs-tech/strum_sentinel/internal/accel"
)

// DefaultLength is the number of samples per capture, matching the pattern
// engine's expected input size.
const DefaultLength = 1024

// Buffer holds exactly one post-trigger capture of Length samples, flattened
// axis-major: sample i occupies values[3i], values[3i+1], values[3i+2].
// It is allocated once and refilled in place on every trigger; the zero
// contents before the first Fill are all zeros. A Buffer has a single owner
// and must not be read while a Fill is in progress.
type Buffer struct {
	length int
	values []float64
}

// NewBuffer creates a zeroed Buffer holding length samples.
func NewBuffer(length int) *Buffer {
	return &Buffer{
		length: length,
		values: make([]float64, accel.AxisCount*length),
	}
}

// Len returns the capture length in samples. It never changes.
func (b *Buffer) Len() int { return b.length }

// Fill overwrites the buffer with Len fresh samples drawn in order from src.
// It always fills completely before returning; there is no partial-fill
// state observable outside the call.
func (b *Buffer) Fill(src accel.Sampler) error {
	for i := 0; i < b.length; i++ {
		s, err := src.Next()
		if err != nil {
			return err
		}
		b.values[accel.AxisCount*i] = s.X
		b.values[accel.AxisCount*i+1] = s.Y
		b.values[accel.AxisCount*i+2] = s.Z
	}
	return nil
}

// Values exposes the flattened capture for dispatch to a sink or engine.
// The returned slice is the buffer's backing store: consumers that outlive
// the next Fill must copy it.
func (b *Buffer) Values() []float64 { return b.values }

// AppendLine appends the capture as one space-separated text line, each
// value formatted to 3 decimal places, terminated by a newline.
func (b *Buffer) AppendLine(dst []byte) []byte {
	for i, v := range b.values {
		if i > 0 {
			dst = append(dst, ' ')
		}
		dst = strconv.AppendFloat(dst, v, 'f', 3, 64)
	}
	return append(dst, '\n')
}

// WriteLine writes the capture line to w. This is the persisted artifact of
// logging mode, one line per capture.
func (b *Buffer) WriteLine(w io.Writer) error {
	line := b.AppendLine(make([]byte, 0, 8*len(b.values)))
	_, err := w.Write(line)
	return err
}
