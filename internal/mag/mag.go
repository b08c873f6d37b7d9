// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

// Package mag drives the board magnetometer over the two-wire bus: the
// burst read of the output registers, sample decoding, and the endless
// sample stream the control loop consumes.
package mag

import "math"

const (
	// Addr is the sensor's fixed 7-bit bus address.
	Addr uint8 = 0b0011110

	// RegOutXHigh is the first output register (X high byte). Burst reads
	// auto-increment from here through the six output registers.
	RegOutXHigh uint8 = 0x03

	// RegIRA is the first identification register, holding 'H' of the
	// sensor's "H43" signature.
	RegIRA uint8 = 0x0A

	// OutLen is the size of the output register block.
	OutLen = 6
)

// Sample is one raw magnetometer measurement in sensor units.
type Sample struct {
	X int16 `json:"x"`
	Y int16 `json:"y"`
	Z int16 `json:"z"`
}

// Decode assembles a Sample from the six-byte burst starting at RegOutXHigh.
// The sensor emits the axes as X, Z, Y, high byte first.
func Decode(buf [OutLen]byte) Sample {
	return Sample{
		X: int16(uint16(buf[0])<<8 | uint16(buf[1])),
		Z: int16(uint16(buf[2])<<8 | uint16(buf[3])),
		Y: int16(uint16(buf[4])<<8 | uint16(buf[5])),
	}
}

// Norm returns the field magnitude in sensor units.
func (s Sample) Norm() float64 {
	x, y, z := float64(s.X), float64(s.Y), float64(s.Z)
	return math.Sqrt(x*x + y*y + z*z)
}

// Unit returns the field direction as a unit vector. ok is false when the
// magnitude is too small to divide by, which callers must treat as "no
// usable field", not as a zero direction.
func (s Sample) Unit() (x, y, z float64, ok bool) {
	n := s.Norm()
	if n < 1e-9 {
		return 0, 0, 0, false
	}
	return float64(s.X) / n, float64(s.Y) / n, float64(s.Z) / n, true
}
