// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package sensors

// RegisterInfo describes one sensor register for the debug dump tool.
type RegisterInfo struct {
	Address     byte
	Name        string
	Description string
	Access      string // "R", "W", "RW"
	BitFields   []BitField
}

// BitField describes a named field inside a register.
type BitField struct {
	Bits        string
	Name        string
	Description string
	Values      string
}

// LSM6DSLRegisterMap returns metadata for the LSM6DSL registers the rig
// touches or that help when debugging it over SPI.
func LSM6DSLRegisterMap() []RegisterInfo {
	return []RegisterInfo{
		{Address: 0x0F, Name: "WHO_AM_I", Description: "Chip identity (0x6A)", Access: "R"},
		{Address: 0x10, Name: "CTRL1_XL", Description: "Accelerometer control", Access: "RW",
			BitFields: []BitField{
				{Bits: "7:4", Name: "ODR_XL", Description: "Output data rate", Values: "0=Power-down, 1=12.5Hz ... 9=3.33kHz, A=6.66kHz"},
				{Bits: "3:2", Name: "FS_XL", Description: "Full-scale selection", Values: "0=±2g, 1=±16g, 2=±4g, 3=±8g"},
				{Bits: "1:0", Name: "BW_XL", Description: "Anti-aliasing bandwidth", Values: "0=400Hz, 1=200Hz, 2=100Hz, 3=50Hz"},
			}},
		{Address: 0x11, Name: "CTRL2_G", Description: "Gyroscope control (unused, power-down)", Access: "RW"},
		{Address: 0x12, Name: "CTRL3_C", Description: "Common control", Access: "RW",
			BitFields: []BitField{
				{Bits: "7", Name: "BOOT", Description: "Reboot memory content", Values: "0=Normal, 1=Reboot"},
				{Bits: "6", Name: "BDU", Description: "Block data update", Values: "0=Continuous, 1=Wait for read"},
				{Bits: "2", Name: "IF_INC", Description: "Register auto-increment", Values: "0=Disabled, 1=Enabled"},
				{Bits: "0", Name: "SW_RESET", Description: "Software reset", Values: "0=Normal, 1=Reset"},
			}},
		{Address: 0x13, Name: "CTRL4_C", Description: "Control 4", Access: "RW"},
		{Address: 0x15, Name: "CTRL6_C", Description: "Control 6 (high-performance mode)", Access: "RW"},
		{Address: 0x1E, Name: "STATUS_REG", Description: "Data-ready status", Access: "R",
			BitFields: []BitField{
				{Bits: "0", Name: "XLDA", Description: "Accelerometer new data available", Values: "0=Stale, 1=Fresh"},
			}},
		{Address: 0x20, Name: "OUT_TEMP_L", Description: "Temperature low byte", Access: "R"},
		{Address: 0x21, Name: "OUT_TEMP_H", Description: "Temperature high byte", Access: "R"},
		{Address: 0x28, Name: "OUTX_L_XL", Description: "Accel X low byte", Access: "R"},
		{Address: 0x29, Name: "OUTX_H_XL", Description: "Accel X high byte", Access: "R"},
		{Address: 0x2A, Name: "OUTY_L_XL", Description: "Accel Y low byte", Access: "R"},
		{Address: 0x2B, Name: "OUTY_H_XL", Description: "Accel Y high byte", Access: "R"},
		{Address: 0x2C, Name: "OUTZ_L_XL", Description: "Accel Z low byte", Access: "R"},
		{Address: 0x2D, Name: "OUTZ_H_XL", Description: "Accel Z high byte", Access: "R"},
	}
}
