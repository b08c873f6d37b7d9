// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

// Package hwbus realizes the register-level bus controller contract on a
// periph.io transaction bus, so the driver state machines run unmodified
// against real hardware.
package hwbus

import (
	"log"

	"periph.io/x/conn/v3/i2c"

	"github.com/relabs-tech/led_compass/internal/mcu"
)

// Bus adapts an i2c.Bus to mcu.I2C. periph exposes whole transactions, not
// wire phases, so the write phase is buffered here and committed together
// with the read phase when the turnaround start arrives: one combined
// write+read transaction, which is exactly what the controller hardware puts
// on the wire for the driver's select/burst sequence.
//
// A failed transaction is logged once and leaves every status flag down, the
// same dead bus a hardware fault produces; the in-flight op then never
// completes. Not safe for concurrent use.
type Bus struct {
	bus i2c.Bus

	cr2     uint32
	addr    uint16
	writing bool
	want    int
	w       []byte
	r       []byte
	rpos    int
	dead    bool
}

// New wraps an open periph bus.
func New(bus i2c.Bus) *Bus {
	return &Bus{bus: bus}
}

// ReadCR2 returns the last written control value.
func (b *Bus) ReadCR2() uint32 {
	return b.cr2
}

// WriteCR2 latches the control value. A write-direction start opens the
// buffered write phase; a read-direction start commits buffered bytes and
// the read as one transaction.
func (b *Bus) WriteCR2(v uint32) {
	b.cr2 = v
	if v&mcu.CR2Start == 0 {
		return
	}

	b.addr = uint16(mcu.AddrOf(v))
	n := int(mcu.NBytesOf(v))

	if v&mcu.CR2RdWrn == 0 {
		b.writing = true
		b.want = n
		b.w = b.w[:0]
		b.r = nil
		b.dead = false
		if n == 0 && v&mcu.CR2AutoEnd != 0 {
			b.commitWrite()
		}
		return
	}

	b.writing = false
	b.r = make([]byte, n)
	b.rpos = 0
	if err := b.bus.Tx(b.addr, b.w, b.r); err != nil {
		log.Printf("hwbus: transaction with %#02x failed: %v", b.addr, err)
		b.r = nil
		b.dead = true
	}
	b.w = b.w[:0]
}

// ReadISR reports status for the phase in flight. Buffered writes are always
// ready for the next byte; received bytes are ready as soon as the combined
// transaction has run.
func (b *Bus) ReadISR() uint32 {
	if b.dead {
		return 0
	}
	var isr uint32
	if b.writing && len(b.w) < b.want {
		isr |= mcu.ISRTXIS
	}
	if b.writing && len(b.w) == b.want && b.cr2&mcu.CR2AutoEnd == 0 {
		isr |= mcu.ISRTC
	}
	if b.rpos < len(b.r) {
		isr |= mcu.ISRRXNE
	}
	return isr
}

// WriteTXDR buffers one write-phase byte. With automatic end set, the write
// commits to the wire as soon as the last byte lands.
func (b *Bus) WriteTXDR(v uint8) {
	if b.dead || !b.writing || len(b.w) >= b.want {
		return
	}
	b.w = append(b.w, v)
	if len(b.w) == b.want && b.cr2&mcu.CR2AutoEnd != 0 {
		b.commitWrite()
	}
}

// ReadRXDR hands out the next received byte. With nothing received the line
// floats high.
func (b *Bus) ReadRXDR() uint8 {
	if b.rpos >= len(b.r) {
		return 0xFF
	}
	v := b.r[b.rpos]
	b.rpos++
	if b.rpos == len(b.r) {
		b.r = nil
	}
	return v
}

func (b *Bus) commitWrite() {
	b.writing = false
	if err := b.bus.Tx(b.addr, b.w, nil); err != nil {
		log.Printf("hwbus: write to %#02x failed: %v", b.addr, err)
		b.dead = true
	}
	b.w = b.w[:0]
}
