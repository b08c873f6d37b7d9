// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package emu

import (
	"time"

	"github.com/relabs-tech/led_compass/internal/mcu"
)

// Timer emulates the one-shot countdown timer, counting at mcu.TickRate
// against an injectable clock. Not safe for concurrent use.
type Timer struct {
	now      func() time.Time
	cr1      uint32
	arr      uint16
	uif      bool
	deadline time.Time
}

// NewTimer returns a timer reading time from now. A nil now means the wall
// clock.
func NewTimer(now func() time.Time) *Timer {
	if now == nil {
		now = time.Now
	}
	return &Timer{now: now}
}

// WriteARR sets the countdown start value for the next enable.
func (t *Timer) WriteARR(ticks uint16) {
	t.arr = ticks
}

// ReadCR1 returns the control register. In one-pulse mode the enable bit
// reads as cleared once the countdown has expired.
func (t *Timer) ReadCR1() uint32 {
	t.step()
	return t.cr1
}

// WriteCR1 sets the control register. An enable edge starts the countdown
// from the current ARR value.
func (t *Timer) WriteCR1(v uint32) {
	if v&mcu.CR1CEN != 0 && t.cr1&mcu.CR1CEN == 0 {
		t.deadline = t.now().Add(time.Duration(t.arr) * (time.Second / mcu.TickRate))
	}
	t.cr1 = v
}

// ReadSR reports the update flag.
func (t *Timer) ReadSR() uint32 {
	t.step()
	if t.uif {
		return mcu.SRUIF
	}
	return 0
}

// ClearUIF acknowledges the update event.
func (t *Timer) ClearUIF() {
	t.uif = false
}

// ReadARR returns the loaded countdown value, for the register debug tool.
func (t *Timer) ReadARR() uint16 {
	return t.arr
}

// step retires the countdown once its deadline has passed.
func (t *Timer) step() {
	if t.cr1&mcu.CR1CEN == 0 {
		return
	}
	if t.now().Before(t.deadline) {
		return
	}
	t.uif = true
	if t.cr1&mcu.CR1OPM != 0 {
		t.cr1 &^= mcu.CR1CEN
	}
}
