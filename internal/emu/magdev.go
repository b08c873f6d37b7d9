// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package emu

import "sync"

// Register file layout of the emulated magnetometer, 0x00 through 0x0C.
const magRegCount = 0x0D

// Magnetometer models the sensor's register file: configuration and mode
// registers, six output registers in X, Z, Y order from 0x03, a status
// register, and the "H43" identification block at 0x0A. A write selects the
// register pointer; reads serve the pointed register and auto-increment,
// which is what makes the driver's six-byte burst work.
//
// The register file is guarded so the field can be changed from another
// goroutine while the control loop reads. A burst that straddles a SetField
// can see a torn sample, the same exposure a real sensor read has without
// the data-lock protocol.
type Magnetometer struct {
	mu   sync.Mutex
	regs [magRegCount]uint8
	ptr  uint8
}

// NewMagnetometer returns a sensor with power-on register defaults and a
// zero field.
func NewMagnetometer() *Magnetometer {
	m := &Magnetometer{}
	m.regs[0x00] = 0x10 // CRA: 15 Hz output rate
	m.regs[0x01] = 0x20 // CRB: gain 1.3 gauss
	m.regs[0x02] = 0x03 // MR: sleep mode
	m.regs[0x0A] = 'H'
	m.regs[0x0B] = '4'
	m.regs[0x0C] = '3'
	return m
}

// SetField loads a field vector into the output registers. Safe to call
// while the control loop is reading.
func (m *Magnetometer) SetField(x, y, z int16) {
	m.mu.Lock()
	defer m.mu.Unlock()
	put := func(reg int, v int16) {
		m.regs[reg] = uint8(uint16(v) >> 8)
		m.regs[reg+1] = uint8(uint16(v))
	}
	put(0x03, x)
	put(0x05, z)
	put(0x07, y)
}

// WriteByte sets the register pointer, the only write this code path sends.
func (m *Magnetometer) WriteByte(b uint8) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ptr = b % magRegCount
}

// ReadByte serves the pointed register and advances the pointer, wrapping at
// the top of the file.
func (m *Magnetometer) ReadByte() uint8 {
	m.mu.Lock()
	defer m.mu.Unlock()
	v := m.regs[m.ptr]
	m.ptr = (m.ptr + 1) % magRegCount
	return v
}

// Peek returns a register value without touching the pointer, for the
// register debug tool.
func (m *Magnetometer) Peek(reg uint8) (uint8, bool) {
	if reg >= magRegCount {
		return 0, false
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.regs[reg], true
}

// Poke overwrites a register value, for the register debug tool.
func (m *Magnetometer) Poke(reg, v uint8) bool {
	if reg >= magRegCount {
		return false
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.regs[reg] = v
	return true
}
