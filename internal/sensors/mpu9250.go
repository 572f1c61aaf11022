// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package sensors

import (
	"fmt"
	"log"
	"math"

	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/devices/v3/mpu9250"
	"periph.io/x/host/v3"
)

// MPU9250 adapts the periph MPU9250 driver to the accelerometer contract.
// Kept as an alternate backend for rigs wired with the older IMU board;
// only the accelerometer is consumed.
type MPU9250 struct {
	imu    *mpu9250.MPU9250
	sensMG float64 // mg per LSB at the configured full scale
}

// NewMPU9250 initializes the MPU9250 over SPI.
func NewMPU9250(spiDev, csPin string) (*MPU9250, error) {
	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("mpu9250: periph host init: %w", err)
	}

	cs := gpioreg.ByName(csPin)
	if cs == nil {
		return nil, fmt.Errorf("mpu9250: CS pin %q not found", csPin)
	}

	tr, err := mpu9250.NewSpiTransport(spiDev, cs)
	if err != nil {
		return nil, fmt.Errorf("mpu9250: SPI transport (%s): %w", spiDev, err)
	}

	imu, err := mpu9250.New(tr)
	if err != nil {
		return nil, fmt.Errorf("mpu9250: device creation: %w", err)
	}

	if err := imu.Init(); err != nil {
		return nil, fmt.Errorf("mpu9250: initialization: %w", err)
	}

	return &MPU9250{imu: imu}, nil
}

// Configure sets the accelerometer full-scale range. The requested ODR is
// logged but not programmed: the MPU9250 free-runs at its internal rate and
// the deduplicating source absorbs the difference.
func (m *MPU9250) Configure(odrHz float64, fullScaleG int) error {
	var rangeCode byte
	switch fullScaleG {
	case 2:
		rangeCode = 0
	case 4:
		rangeCode = 1
	case 8:
		rangeCode = 2
	case 16:
		rangeCode = 3
	default:
		return fmt.Errorf("mpu9250: unsupported full scale ±%dg", fullScaleG)
	}
	if err := m.imu.SetAccelRange(rangeCode); err != nil {
		return fmt.Errorf("mpu9250: set accel range: %w", err)
	}
	m.sensMG = float64(fullScaleG) * 1000 / 32768
	log.Printf("mpu9250: accelerometer range ±%dg (%.3f mg/LSB); ODR request %g Hz ignored (free-running)", fullScaleG, m.sensMG, odrHz)
	return nil
}

// Enable runs the driver's bias calibration; the device samples continuously
// afterwards.
func (m *MPU9250) Enable() error {
	if err := m.imu.Calibrate(); err != nil {
		return fmt.Errorf("mpu9250: calibration: %w", err)
	}
	log.Println("mpu9250: calibration complete")
	return nil
}

// ReadAxes reads the accelerometer and converts to milli-g.
func (m *MPU9250) ReadAxes() (int32, int32, int32, error) {
	ax, err := m.imu.GetAccelerationX()
	if err != nil {
		return 0, 0, 0, fmt.Errorf("mpu9250: accel X: %w", err)
	}
	ay, err := m.imu.GetAccelerationY()
	if err != nil {
		return 0, 0, 0, fmt.Errorf("mpu9250: accel Y: %w", err)
	}
	az, err := m.imu.GetAccelerationZ()
	if err != nil {
		return 0, 0, 0, fmt.Errorf("mpu9250: accel Z: %w", err)
	}
	return m.toMilliG(ax), m.toMilliG(ay), m.toMilliG(az), nil
}

func (m *MPU9250) toMilliG(raw int16) int32 {
	return int32(math.Round(float64(raw) * m.sensMG))
}
