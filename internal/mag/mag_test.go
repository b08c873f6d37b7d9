// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package mag_test

import (
	"fmt"
	"testing"
	"testing/quick"

	"github.com/stretchr/testify/assert"

	"github.com/relabs-tech/led_compass/internal/mag"
	"github.com/relabs-tech/led_compass/internal/mcu"
	"github.com/relabs-tech/led_compass/internal/task"
)

// scriptedPort is an mcu.I2C double. ISR reads consume the script one entry
// per read, repeating the final entry once drained; every register action is
// recorded in order. Status reads are not recorded, so the expected action
// sequence is independent of how long each flag takes to come up.
type scriptedPort struct {
	isr     []uint32
	rx      []byte
	cr2     uint32
	actions []string
}

func (p *scriptedPort) ReadCR2() uint32 {
	p.actions = append(p.actions, "ReadCR2")
	return p.cr2
}

func (p *scriptedPort) WriteCR2(v uint32) {
	p.cr2 = v
	p.actions = append(p.actions, fmt.Sprintf("WriteCR2(%#x)", v))
}

func (p *scriptedPort) ReadISR() uint32 {
	if len(p.isr) == 0 {
		return 0
	}
	v := p.isr[0]
	if len(p.isr) > 1 {
		p.isr = p.isr[1:]
	}
	return v
}

func (p *scriptedPort) WriteTXDR(b uint8) {
	p.actions = append(p.actions, fmt.Sprintf("WriteTXDR(%#04x)", b))
}

func (p *scriptedPort) ReadRXDR() uint8 {
	p.actions = append(p.actions, "ReadRXDR")
	v := p.rx[0]
	p.rx = p.rx[1:]
	return v
}

func wantActions() []string {
	selectCR2 := mcu.CR2Start | mcu.CR2Addr(mag.Addr) | mcu.CR2NBytes(1)
	readCR2 := (selectCR2 &^ mcu.CR2NBytesMask) |
		mcu.CR2Start | mcu.CR2RdWrn | mcu.CR2AutoEnd | mcu.CR2NBytes(mag.OutLen)
	want := []string{
		fmt.Sprintf("WriteCR2(%#x)", selectCR2),
		fmt.Sprintf("WriteTXDR(%#04x)", mag.RegOutXHigh),
		"ReadCR2",
		fmt.Sprintf("WriteCR2(%#x)", readCR2),
	}
	for i := 0; i < mag.OutLen; i++ {
		want = append(want, "ReadRXDR")
	}
	return want
}

func TestDecode(t *testing.T) {
	got := mag.Decode([6]byte{0x01, 0x00, 0x00, 0x00, 0xFF, 0xFF})
	assert.Equal(t, mag.Sample{X: 256, Z: 0, Y: -1}, got)
}

// Encoding a sample the way the sensor does (X, Z, Y order, high byte first)
// and decoding it must be the identity, for the full int16 range.
func TestDecodeRoundTripProperty(t *testing.T) {
	f := func(x, y, z int16) bool {
		buf := [6]byte{
			byte(uint16(x) >> 8), byte(uint16(x)),
			byte(uint16(z) >> 8), byte(uint16(z)),
			byte(uint16(y) >> 8), byte(uint16(y)),
		}
		return mag.Decode(buf) == mag.Sample{X: x, Y: y, Z: z}
	}
	if err := quick.Check(f, nil); err != nil {
		t.Fatal(err)
	}
}

func TestUnit(t *testing.T) {
	assert := assert.New(t)

	x, y, z, ok := mag.Sample{X: 3, Y: 4}.Unit()
	assert.True(ok)
	assert.InDelta(0.6, x, 1e-12)
	assert.InDelta(0.8, y, 1e-12)
	assert.Zero(z)

	_, _, _, ok = mag.Sample{}.Unit()
	assert.False(ok, "a zero field has no direction")
}

func TestReadTransactionSequence(t *testing.T) {
	assert := assert.New(t)

	// Every flag is up the moment it is checked.
	port := &scriptedPort{
		isr: []uint32{mcu.ISRTXIS | mcu.ISRTC | mcu.ISRRXNE},
		rx:  []byte{0x01, 0x00, 0x00, 0x00, 0xFF, 0xFF},
	}

	got := task.Run(mag.Read(port))
	assert.Equal(mag.Sample{X: 256, Z: 0, Y: -1}, got)
	assert.Equal(wantActions(), port.actions)
}

func TestReadSequenceUnchangedBySlowFlags(t *testing.T) {
	assert := assert.New(t)

	// Each flag takes a few polls to come up. The op must keep reporting
	// pending (Run panics if a pending poll ever skips its wake request) and
	// the action sequence on the bus must be exactly the fast-path one.
	isr := []uint32{0, 0, mcu.ISRTXIS, 0, 0, mcu.ISRTC}
	for i := 0; i < mag.OutLen; i++ {
		isr = append(isr, 0, mcu.ISRRXNE)
	}
	port := &scriptedPort{
		isr: isr,
		rx:  []byte{0x01, 0x00, 0x00, 0x00, 0xFF, 0xFF},
	}

	got := task.Run(mag.Read(port))
	assert.Equal(mag.Sample{X: 256, Z: 0, Y: -1}, got)
	assert.Equal(wantActions(), port.actions)
}

func TestReadPanicsAfterCompletion(t *testing.T) {
	port := &scriptedPort{
		isr: []uint32{mcu.ISRTXIS | mcu.ISRTC | mcu.ISRRXNE},
		rx:  make([]byte, mag.OutLen),
	}
	op := mag.Read(port)
	task.Run(op)
	assert.Panics(t, func() { op.Poll(func() {}) })
}

func TestSamplesRunsOneTransactionPerElement(t *testing.T) {
	assert := assert.New(t)

	port := &scriptedPort{
		isr: []uint32{mcu.ISRTXIS | mcu.ISRTC | mcu.ISRRXNE},
		rx: []byte{
			0x00, 0x64, 0x00, 0x00, 0x00, 0x00, // X=100
			0xFF, 0x9C, 0x00, 0x00, 0x00, 0x00, // X=-100
		},
	}
	s := mag.Samples(port)

	first := task.Run(task.Next[mag.Sample](s))
	second := task.Run(task.Next[mag.Sample](s))
	assert.Equal(mag.Sample{X: 100}, first)
	assert.Equal(mag.Sample{X: -100}, second)

	want := append(wantActions(), wantActions()...)
	assert.Equal(want, port.actions, "each element is its own full transaction")
}
