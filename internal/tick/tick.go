// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

// Package tick builds the periodic event source on the board's one-shot
// countdown timer: arm, wait for the update event, acknowledge, repeat.
package tick

import (
	"github.com/relabs-tech/led_compass/internal/mcu"
	"github.com/relabs-tech/led_compass/internal/task"
)

// Tick marks one expiry of the countdown timer.
type Tick struct{}

// DelayOp arms the timer for a tick count and completes when the update
// event fires. Single-shot: the update flag is cleared on completion so the
// timer is immediately re-armable.
type DelayOp struct {
	t     mcu.Timer
	ticks uint16
	wait  *task.Cond
	done  bool
}

// Delay prepares a one-shot countdown of ticks counter ticks (mcu.TickRate
// per second). The timer starts on the first poll, not here.
func Delay(t mcu.Timer, ticks uint16) *DelayOp {
	return &DelayOp{t: t, ticks: ticks}
}

// Poll arms the timer on first call, then waits on the update flag.
func (d *DelayOp) Poll(wake task.Waker) (Tick, bool) {
	if d.done {
		panic("tick: poll of completed delay")
	}
	if d.wait == nil {
		// Load the countdown and enable in one-pulse mode, so the counter
		// stops itself on expiry instead of reloading.
		d.t.WriteARR(d.ticks)
		d.t.WriteCR1(d.t.ReadCR1() | mcu.CR1CEN | mcu.CR1OPM)
		d.wait = task.When(func() bool { return d.t.ReadSR()&mcu.SRUIF != 0 })
	}
	if _, ok := d.wait.Poll(wake); !ok {
		return Tick{}, false
	}
	d.t.ClearUIF()
	d.done = true
	return Tick{}, true
}

// TickStream yields a Tick per interval, endlessly.
type TickStream struct {
	t     mcu.Timer
	ticks uint16
	cur   *DelayOp
}

// Every returns the endless periodic stream: one fresh one-shot delay per
// element. Time spent between elements (bus transactions, slow polls) shows
// up as drift of the period, never as missed or queued ticks.
func Every(t mcu.Timer, ticks uint16) *TickStream {
	return &TickStream{t: t, ticks: ticks}
}

// PollNext drives the in-flight delay, arming a new one after each yield.
func (s *TickStream) PollNext(wake task.Waker) (Tick, bool) {
	if s.cur == nil {
		s.cur = Delay(s.t, s.ticks)
	}
	v, ok := s.cur.Poll(wake)
	if ok {
		s.cur = nil
	}
	return v, ok
}
