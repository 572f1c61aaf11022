// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package engine

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	serial "github.com/jacobsa/go-serial/serial"
)

// Serial talks to a pattern engine attached over a serial link, typically a
// coprocessor running the vendor library. The wire protocol is line based:
//
//	-> init\n                          <- ok\n
//	-> learn v1 v2 ... vN\n            <- ok\n
//	-> detect v1 v2 ... vN\n           <- <similarity>\n
//
// Values are formatted to 3 decimal places, matching the capture log format.
// Not safe for concurrent use.
type Serial struct {
	rw io.ReadWriteCloser
	r  *bufio.Reader
}

// NewSerial wraps an already-open link. Used directly in tests; production
// code goes through OpenSerial.
func NewSerial(rw io.ReadWriteCloser) *Serial {
	return &Serial{rw: rw, r: bufio.NewReader(rw)}
}

// OpenSerial opens the engine's serial port. 8N1, blocking reads.
func OpenSerial(portName string, baudRate uint) (*Serial, error) {
	opts := serial.OpenOptions{
		PortName:              portName,
		BaudRate:              baudRate,
		DataBits:              8,
		StopBits:              1,
		MinimumReadSize:       1,
		ParityMode:            serial.PARITY_NONE,
		InterCharacterTimeout: 0,
	}
	port, err := serial.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("engine serial open (%s): %w", portName, err)
	}
	return NewSerial(port), nil
}

// Close closes the underlying link.
func (e *Serial) Close() error { return e.rw.Close() }

func (e *Serial) roundTrip(verb string, values []float64) (string, error) {
	line := make([]byte, 0, len(verb)+8*len(values)+1)
	line = append(line, verb...)
	for _, v := range values {
		line = append(line, ' ')
		line = strconv.AppendFloat(line, v, 'f', 3, 64)
	}
	line = append(line, '\n')

	if _, err := e.rw.Write(line); err != nil {
		return "", fmt.Errorf("engine %s write: %w", verb, err)
	}
	resp, err := e.r.ReadString('\n')
	if err != nil {
		return "", fmt.Errorf("engine %s response: %w", verb, err)
	}
	return strings.TrimSpace(resp), nil
}

func (e *Serial) Init() error {
	resp, err := e.roundTrip("init", nil)
	if err != nil {
		return err
	}
	if resp != "ok" {
		return fmt.Errorf("engine init: unexpected response %q", resp)
	}
	return nil
}

func (e *Serial) Learn(values []float64) error {
	resp, err := e.roundTrip("learn", values)
	if err != nil {
		return err
	}
	if resp != "ok" {
		return fmt.Errorf("engine learn: unexpected response %q", resp)
	}
	return nil
}

func (e *Serial) Detect(values []float64) (int, error) {
	resp, err := e.roundTrip("detect", values)
	if err != nil {
		return 0, err
	}
	similarity, err := strconv.Atoi(resp)
	if err != nil {
		return 0, fmt.Errorf("engine detect: bad similarity %q: %w", resp, err)
	}
	return similarity, nil
}
