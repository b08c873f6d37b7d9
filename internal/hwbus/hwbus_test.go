// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package hwbus_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"periph.io/x/conn/v3/i2c/i2ctest"

	"github.com/relabs-tech/led_compass/internal/hwbus"
	"github.com/relabs-tech/led_compass/internal/mag"
	"github.com/relabs-tech/led_compass/internal/task"
)

func TestDriverTransactionOnPeriphBus(t *testing.T) {
	assert := assert.New(t)

	// The driver's select/burst sequence must reach the wire as a single
	// write+read transaction against the sensor address.
	pb := &i2ctest.Playback{
		Ops: []i2ctest.IO{
			{Addr: uint16(mag.Addr), W: []byte{mag.RegOutXHigh}, R: []byte{0x01, 0x00, 0x00, 0x00, 0xFF, 0xFF}},
		},
	}
	b := hwbus.New(pb)

	got := task.Run(mag.Read(b))
	assert.Equal(mag.Sample{X: 256, Z: 0, Y: -1}, got)
	assert.NoError(pb.Close(), "exactly the recorded transaction must have run")
}

func TestStreamRunsOneTransactionPerSample(t *testing.T) {
	assert := assert.New(t)

	pb := &i2ctest.Playback{
		Ops: []i2ctest.IO{
			{Addr: uint16(mag.Addr), W: []byte{mag.RegOutXHigh}, R: []byte{0x00, 0x64, 0x00, 0x00, 0x00, 0x00}},
			{Addr: uint16(mag.Addr), W: []byte{mag.RegOutXHigh}, R: []byte{0xFF, 0x9C, 0x00, 0x00, 0x00, 0x00}},
		},
	}
	s := mag.Samples(hwbus.New(pb))

	assert.Equal(mag.Sample{X: 100}, task.Run(task.Next[mag.Sample](s)))
	assert.Equal(mag.Sample{X: -100}, task.Run(task.Next[mag.Sample](s)))
	assert.NoError(pb.Close())
}

func TestFailedTransactionLeavesFlagsDown(t *testing.T) {
	assert := assert.New(t)

	// No recorded ops: the commit fails, and from then on the bridge shows
	// the dead bus a hardware fault produces.
	pb := &i2ctest.Playback{DontPanic: true}
	b := hwbus.New(pb)

	op := mag.Read(b)
	for i := 0; i < 20; i++ {
		if _, done := op.Poll(func() {}); done {
			t.Fatal("transaction completed against a dead bus")
		}
	}
	assert.Zero(b.ReadISR())
}
