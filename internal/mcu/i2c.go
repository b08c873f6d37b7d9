// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

// Package mcu declares the register-level contracts of the two board
// peripherals the compass core drives: the two-wire bus controller and the
// one-shot countdown timer. The emulated board (internal/emu) and the
// periph.io bridge (internal/hwbus) implement these contracts; the drivers
// in internal/mag and internal/tick are written against them only.
package mcu

// Bus controller register bits. The layout follows the controller's CR2
// control and ISR status registers.
const (
	// CR2 control register.
	CR2RdWrn   uint32 = 1 << 10 // transfer direction, set = read
	CR2Start   uint32 = 1 << 13 // generate a (re)start condition
	CR2AutoEnd uint32 = 1 << 25 // hardware stop after NBYTES bytes

	// CR2NBytesMask covers the NBYTES field, bits 23:16.
	CR2NBytesMask uint32 = 0xFF << 16

	// CR2AddrMask covers the SADD field used for 7-bit addressing, bits 7:1.
	CR2AddrMask uint32 = 0x7F << 1

	// ISR status register.
	ISRTXIS uint32 = 1 << 1 // transmit register empty, ready for the next byte
	ISRRXNE uint32 = 1 << 2 // receive register holds an unread byte
	ISRTC   uint32 = 1 << 6 // transfer complete, bus held for a restart
)

// CR2Addr places a 7-bit device address in the SADD field.
func CR2Addr(addr uint8) uint32 {
	return uint32(addr) << 1 & CR2AddrMask
}

// CR2NBytes places a transfer byte count in the NBYTES field.
func CR2NBytes(n uint8) uint32 {
	return uint32(n) << 16
}

// AddrOf extracts the 7-bit device address from a CR2 value.
func AddrOf(cr2 uint32) uint8 {
	return uint8(cr2 & CR2AddrMask >> 1)
}

// NBytesOf extracts the transfer byte count from a CR2 value.
func NBytesOf(cr2 uint32) uint8 {
	return uint8(cr2 & CR2NBytesMask >> 16)
}

// I2C is the register-level view of the bus controller. A transaction owns
// the controller from its start condition until the stop; nothing here
// serializes concurrent users, the single-threaded control loop is the
// serialization.
type I2C interface {
	// ReadCR2 returns the current control register value, so a transfer can
	// be reconfigured with a read-modify-write before a repeated start.
	ReadCR2() uint32
	// WriteCR2 sets the control register. Writing CR2Start launches the
	// configured transfer.
	WriteCR2(v uint32)
	// ReadISR returns the status flags. Flags are level, not latched: they
	// read as set for as long as their condition holds.
	ReadISR() uint32
	// WriteTXDR hands the controller the next byte of a write transfer. Only
	// valid while ISRTXIS is set.
	WriteTXDR(b uint8)
	// ReadRXDR takes the received byte out of the controller, clearing
	// ISRRXNE until the next byte lands.
	ReadRXDR() uint8
}
