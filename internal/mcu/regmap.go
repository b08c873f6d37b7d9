// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package mcu

// RegisterInfo is display metadata for one peripheral register, consumed by
// the register debug tool.
type RegisterInfo struct {
	Address     string     `json:"address"`
	Name        string     `json:"name"`
	Description string     `json:"description"`
	Access      string     `json:"access"` // "R", "W", "RW"
	Default     string     `json:"default,omitempty"`
	BitFields   []BitField `json:"bit_fields,omitempty"`
}

// BitField describes one field inside a register.
type BitField struct {
	Bits        string `json:"bits"` // "25" or "23:16"
	Name        string `json:"name"`
	Description string `json:"description"`
	Values      string `json:"values,omitempty"`
}

// I2CRegisterMap returns metadata for the bus controller registers the
// compass firmware touches.
func I2CRegisterMap() []RegisterInfo {
	return []RegisterInfo{
		{Address: "CR2", Name: "CR2", Description: "Master transfer configuration", Access: "RW", Default: "0x00000000",
			BitFields: []BitField{
				{Bits: "25", Name: "AUTOEND", Description: "Automatic stop after NBYTES", Values: "0=Software end (TC), 1=Hardware stop"},
				{Bits: "23:16", Name: "NBYTES", Description: "Number of bytes in the transfer", Values: "0-255"},
				{Bits: "13", Name: "START", Description: "Generate (re)start condition", Values: "1=Start transfer"},
				{Bits: "10", Name: "RD_WRN", Description: "Transfer direction", Values: "0=Write, 1=Read"},
				{Bits: "7:1", Name: "SADD", Description: "7-bit device address", Values: "Magnetometer=0x1E"},
			}},
		{Address: "ISR", Name: "ISR", Description: "Interrupt and status flags", Access: "R", Default: "0x00000001",
			BitFields: []BitField{
				{Bits: "6", Name: "TC", Description: "Transfer complete, bus held for restart", Values: ""},
				{Bits: "2", Name: "RXNE", Description: "Receive data register not empty", Values: ""},
				{Bits: "1", Name: "TXIS", Description: "Transmit register empty", Values: ""},
			}},
		{Address: "TXDR", Name: "TXDR", Description: "Transmit data register", Access: "W"},
		{Address: "RXDR", Name: "RXDR", Description: "Receive data register", Access: "R"},
	}
}

// TimerRegisterMap returns metadata for the countdown timer registers.
func TimerRegisterMap() []RegisterInfo {
	return []RegisterInfo{
		{Address: "CR1", Name: "CR1", Description: "Timer control", Access: "RW", Default: "0x00000000",
			BitFields: []BitField{
				{Bits: "3", Name: "OPM", Description: "One-pulse mode", Values: "0=Free running, 1=CEN clears on update"},
				{Bits: "0", Name: "CEN", Description: "Counter enable", Values: "1=Counting"},
			}},
		{Address: "SR", Name: "SR", Description: "Timer status", Access: "RW", Default: "0x00000000",
			BitFields: []BitField{
				{Bits: "0", Name: "UIF", Description: "Update event flag, set on expiry", Values: "Write 0 to clear"},
			}},
		{Address: "ARR", Name: "ARR", Description: "Auto-reload value, countdown start point", Access: "RW", Default: "0x0000"},
	}
}

// MagnetometerRegisterMap returns metadata for the sensor's register file.
func MagnetometerRegisterMap() []RegisterInfo {
	return []RegisterInfo{
		{Address: "0x00", Name: "CRA_REG_M", Description: "Configuration register A (output rate)", Access: "RW", Default: "0x10"},
		{Address: "0x01", Name: "CRB_REG_M", Description: "Configuration register B (gain)", Access: "RW", Default: "0x20"},
		{Address: "0x02", Name: "MR_REG_M", Description: "Mode register", Access: "RW", Default: "0x03",
			BitFields: []BitField{
				{Bits: "1:0", Name: "MD", Description: "Operating mode", Values: "0=Continuous, 1=Single, 2/3=Sleep"},
			}},
		{Address: "0x03", Name: "OUT_X_H_M", Description: "X-axis field high byte", Access: "R"},
		{Address: "0x04", Name: "OUT_X_L_M", Description: "X-axis field low byte", Access: "R"},
		{Address: "0x05", Name: "OUT_Z_H_M", Description: "Z-axis field high byte", Access: "R"},
		{Address: "0x06", Name: "OUT_Z_L_M", Description: "Z-axis field low byte", Access: "R"},
		{Address: "0x07", Name: "OUT_Y_H_M", Description: "Y-axis field high byte", Access: "R"},
		{Address: "0x08", Name: "OUT_Y_L_M", Description: "Y-axis field low byte", Access: "R"},
		{Address: "0x09", Name: "SR_REG_M", Description: "Status register", Access: "R",
			BitFields: []BitField{
				{Bits: "1", Name: "LOCK", Description: "Data output register lock", Values: ""},
				{Bits: "0", Name: "DRDY", Description: "Data ready", Values: ""},
			}},
		{Address: "0x0A", Name: "IRA_REG_M", Description: "Identification register A (should be 0x48 'H')", Access: "R", Default: "0x48"},
		{Address: "0x0B", Name: "IRB_REG_M", Description: "Identification register B (should be 0x34 '4')", Access: "R", Default: "0x34"},
		{Address: "0x0C", Name: "IRC_REG_M", Description: "Identification register C (should be 0x33 '3')", Access: "R", Default: "0x33"},
	}
}
