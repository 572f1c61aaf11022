// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package sensors

import (
	"fmt"
	"log"
	"math"

	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi"
	"periph.io/x/conn/v3/spi/spireg"
	"periph.io/x/host/v3"
)

// LSM6DSL register addresses (accelerometer side only).
const (
	lsmRegWhoAmI   = 0x0F
	lsmRegCtrl1XL  = 0x10
	lsmRegCtrl3C   = 0x12
	lsmRegStatus   = 0x1E
	lsmRegOutXLXL  = 0x28
	lsmWhoAmIValue = 0x6A

	lsmSPIRead = 0x80 // address MSB set selects a read transaction

	lsmCtrl3BDU   = 0x40 // block data update
	lsmCtrl3IFInc = 0x04 // register address auto-increment
)

// LSM6DSL drives the ST LSM6DSL accelerometer over SPI. Only the
// accelerometer side is used; the gyro stays powered down. ReadAxes returns
// milli-g, the unit the rest of the pipeline scales from.
type LSM6DSL struct {
	port   spi.PortCloser
	conn   spi.Conn
	ctrl1  byte    // ODR+FS bits, written by Enable
	sensMG float64 // mg per LSB at the configured full scale
}

// NewLSM6DSL opens the SPI device and verifies the chip identity.
func NewLSM6DSL(spiDev string) (*LSM6DSL, error) {
	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("lsm6dsl: periph host init: %w", err)
	}

	port, err := spireg.Open(spiDev)
	if err != nil {
		return nil, fmt.Errorf("lsm6dsl: SPI open (%s): %w", spiDev, err)
	}

	conn, err := port.Connect(10*physic.MegaHertz, spi.Mode3, 8)
	if err != nil {
		port.Close()
		return nil, fmt.Errorf("lsm6dsl: SPI connect: %w", err)
	}

	d := &LSM6DSL{port: port, conn: conn}

	id, err := d.ReadRegister(lsmRegWhoAmI)
	if err != nil {
		port.Close()
		return nil, fmt.Errorf("lsm6dsl: WHO_AM_I read: %w", err)
	}
	if id != lsmWhoAmIValue {
		port.Close()
		return nil, fmt.Errorf("lsm6dsl: WHO_AM_I = 0x%02X, want 0x%02X", id, lsmWhoAmIValue)
	}
	log.Printf("lsm6dsl: WHO_AM_I = 0x%02X", id)

	return d, nil
}

// Configure selects the output data rate and full-scale range. The
// accelerometer stays powered down until Enable writes the control register.
func (d *LSM6DSL) Configure(odrHz float64, fullScaleG int) error {
	odrBits, err := lsmODRBits(odrHz)
	if err != nil {
		return err
	}
	fsBits, sens, err := lsmFullScaleBits(fullScaleG)
	if err != nil {
		return err
	}

	// BDU keeps the output register pair coherent mid-read; IF_INC enables
	// burst reads of the six output bytes.
	if err := d.writeRegister(lsmRegCtrl3C, lsmCtrl3BDU|lsmCtrl3IFInc); err != nil {
		return fmt.Errorf("lsm6dsl: CTRL3_C write: %w", err)
	}

	d.ctrl1 = odrBits<<4 | fsBits<<2
	d.sensMG = sens
	log.Printf("lsm6dsl: configured ODR %g Hz, ±%dg (%.3f mg/LSB)", odrHz, fullScaleG, sens)
	return nil
}

// Enable powers up the accelerometer at the configured rate and range.
func (d *LSM6DSL) Enable() error {
	if d.ctrl1 == 0 {
		return fmt.Errorf("lsm6dsl: enable before configure")
	}
	if err := d.writeRegister(lsmRegCtrl1XL, d.ctrl1); err != nil {
		return fmt.Errorf("lsm6dsl: CTRL1_XL write: %w", err)
	}
	return nil
}

// ReadAxes reads the three output register pairs in one burst and converts
// them to milli-g. The sensor holds the registers between internal updates,
// so back-to-back reads can return identical triples; deduplication is the
// caller's concern.
func (d *LSM6DSL) ReadAxes() (int32, int32, int32, error) {
	w := make([]byte, 7)
	r := make([]byte, 7)
	w[0] = lsmRegOutXLXL | lsmSPIRead
	if err := d.conn.Tx(w, r); err != nil {
		return 0, 0, 0, fmt.Errorf("lsm6dsl: output burst read: %w", err)
	}

	x := int16(uint16(r[1]) | uint16(r[2])<<8)
	y := int16(uint16(r[3]) | uint16(r[4])<<8)
	z := int16(uint16(r[5]) | uint16(r[6])<<8)
	return d.toMilliG(x), d.toMilliG(y), d.toMilliG(z), nil
}

// ReadRegister reads a single register. Exposed for the register debug tool.
func (d *LSM6DSL) ReadRegister(reg byte) (byte, error) {
	w := []byte{reg | lsmSPIRead, 0}
	r := make([]byte, 2)
	if err := d.conn.Tx(w, r); err != nil {
		return 0, err
	}
	return r[1], nil
}

// Close powers the accelerometer down and releases the SPI port.
func (d *LSM6DSL) Close() error {
	if err := d.writeRegister(lsmRegCtrl1XL, 0); err != nil {
		log.Printf("lsm6dsl: power-down write: %v", err)
	}
	return d.port.Close()
}

func (d *LSM6DSL) writeRegister(reg, value byte) error {
	return d.conn.Tx([]byte{reg, value}, nil)
}

func (d *LSM6DSL) toMilliG(raw int16) int32 {
	return int32(math.Round(float64(raw) * d.sensMG))
}

// lsmODRBits maps a requested output data rate to the CTRL1_XL ODR_XL field.
func lsmODRBits(odrHz float64) (byte, error) {
	rates := []struct {
		hz   float64
		bits byte
	}{
		{12.5, 0x1}, {26, 0x2}, {52, 0x3}, {104, 0x4}, {208, 0x5},
		{416, 0x6}, {833, 0x7}, {1660, 0x8}, {3330, 0x9}, {6660, 0xA},
	}
	for _, r := range rates {
		if odrHz == r.hz {
			return r.bits, nil
		}
	}
	return 0, fmt.Errorf("lsm6dsl: unsupported ODR %g Hz", odrHz)
}

// lsmFullScaleBits maps a full-scale range in g to the FS_XL field and the
// matching sensitivity in mg/LSB.
func lsmFullScaleBits(fullScaleG int) (byte, float64, error) {
	switch fullScaleG {
	case 2:
		return 0x0, 0.061, nil
	case 16:
		return 0x1, 0.488, nil
	case 4:
		return 0x2, 0.122, nil
	case 8:
		return 0x3, 0.244, nil
	default:
		return 0, 0, fmt.Errorf("lsm6dsl: unsupported full scale ±%dg", fullScaleG)
	}
}
