// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package mcu

// Countdown timer register bits.
const (
	// CR1 control register.
	CR1CEN uint32 = 1 << 0 // counter enable
	CR1OPM uint32 = 1 << 3 // one-pulse mode: CEN clears itself on update

	// SR status register.
	SRUIF uint32 = 1 << 0 // update event, set when the counter expires
)

// TickRate is the counter rate the board setup fixes through the prescaler,
// in ticks per second. An ARR value of TickRate is one second.
const TickRate = 1000

// Timer is the register-level view of the one-shot countdown timer.
type Timer interface {
	// WriteARR sets the auto-reload value, the tick count the next enabled
	// run counts down from.
	WriteARR(ticks uint16)
	// ReadCR1 returns the control register. With CR1OPM set, CR1CEN reads as
	// cleared once the counter has expired.
	ReadCR1() uint32
	// WriteCR1 sets the control register. Setting CR1CEN starts the
	// countdown from the current ARR value.
	WriteCR1(v uint32)
	// ReadSR returns the status flags. SRUIF stays set from expiry until
	// explicitly cleared.
	ReadSR() uint32
	// ClearUIF acknowledges the update event.
	ClearUIF()
}
