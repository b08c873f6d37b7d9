// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

// Package emu is the emulated board: the bus controller with the
// magnetometer behind it and the countdown timer, all at register level, so
// the whole control loop runs unmodified on a development machine.
package emu

import (
	"github.com/relabs-tech/led_compass/internal/mcu"
)

// Device is a peripheral the emulated bus controller can address.
type Device interface {
	// WriteByte receives one byte of a write-direction transfer.
	WriteByte(b uint8)
	// ReadByte serves one byte of a read-direction transfer.
	ReadByte() uint8
}

// Bus implements mcu.I2C over a set of attached devices.
//
// Addressing a device nobody answers to leaves every status flag down
// forever, the same dead bus a real controller without timeout handling
// shows. Bus is not safe for concurrent use; the single-threaded control
// loop is its only driver.
type Bus struct {
	devices map[uint8]Device

	cr2     uint32
	target  Device
	writing bool
	wLeft   int
	wDone   bool
	rLeft   int
	rx      uint8
	rxValid bool

	latency int
	settle  int
}

// NewBus returns a controller with no devices attached and no modeled wire
// time.
func NewBus() *Bus {
	return &Bus{devices: make(map[uint8]Device)}
}

// Attach puts a device on the bus at a 7-bit address.
func (b *Bus) Attach(addr uint8, d Device) {
	b.devices[addr] = d
}

// SetLatency makes every status flag read down for n ISR reads after each
// bus event, approximating the time a transfer spends on the wire. Zero
// means flags come up instantly.
func (b *Bus) SetLatency(n int) {
	b.latency = n
}

// ReadCR2 returns the last written control value.
func (b *Bus) ReadCR2() uint32 {
	return b.cr2
}

// WriteCR2 latches the control value and, when the start bit is set,
// launches the configured transfer against the addressed device.
func (b *Bus) WriteCR2(v uint32) {
	b.cr2 = v
	if v&mcu.CR2Start == 0 {
		return
	}

	b.target = b.devices[mcu.AddrOf(v)]
	b.writing, b.wDone, b.rxValid = false, false, false
	b.settle = b.latency
	if b.target == nil {
		return
	}

	n := int(mcu.NBytesOf(v))
	if v&mcu.CR2RdWrn == 0 {
		b.writing = true
		b.wLeft = n
		b.wDone = n == 0
		return
	}
	b.rLeft = n
	if n > 0 {
		b.rx = b.target.ReadByte()
		b.rLeft--
		b.rxValid = true
	}
}

// ReadISR reports the live status flags for the in-flight transfer.
func (b *Bus) ReadISR() uint32 {
	if b.settle > 0 {
		b.settle--
		return 0
	}
	var isr uint32
	if b.writing && b.wLeft > 0 {
		isr |= mcu.ISRTXIS
	}
	if b.writing && b.wDone && b.cr2&mcu.CR2AutoEnd == 0 {
		isr |= mcu.ISRTC
	}
	if b.rxValid {
		isr |= mcu.ISRRXNE
	}
	return isr
}

// WriteTXDR clocks one byte out to the addressed device. Bytes written with
// no write transfer in flight are dropped.
func (b *Bus) WriteTXDR(v uint8) {
	if b.target == nil || !b.writing || b.wLeft == 0 {
		return
	}
	b.target.WriteByte(v)
	b.wLeft--
	b.settle = b.latency
	if b.wLeft == 0 {
		b.wDone = true
	}
}

// ReadRXDR takes the received byte and clocks in the next one, or ends the
// transfer after the last byte. With nothing received the line floats high.
func (b *Bus) ReadRXDR() uint8 {
	if !b.rxValid {
		return 0xFF
	}
	v := b.rx
	b.settle = b.latency
	if b.rLeft > 0 {
		b.rx = b.target.ReadByte()
		b.rLeft--
	} else {
		b.rxValid = false
	}
	return v
}
