// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

// Package task is the cooperative polling runtime behind the compass control
// loop. Everything runs on one goroutine: an operation is polled until it
// completes, and "waiting" for a hardware flag means requesting another poll
// and trying again. There is no parking, no preemption and no cancellation.
package task

// Waker requests one more poll of the operation that received it. An
// operation that reports pending must invoke its waker first; with no
// interrupt wiring on the board there is nothing else that could schedule
// the next poll.
type Waker func()

// Op is a single-shot unit of deferred work. Poll either completes with a
// value, or invokes the waker and reports pending. Once an Op has completed
// it must not be polled again.
type Op[T any] interface {
	Poll(wake Waker) (T, bool)
}

// Run drives op to completion and returns its result. This is a tight
// busy-poll loop: the calling goroutine spins at full speed until the op
// completes, which is acceptable here because the control loop is the only
// work the process has.
//
// An op that reports pending without invoking its waker would spin forever
// with no way to make progress, so Run treats that as a programming error
// and panics rather than looping blind.
func Run[T any](op Op[T]) T {
	var woken bool
	wake := func() { woken = true }
	for {
		woken = false
		if v, done := op.Poll(wake); done {
			return v
		}
		if !woken {
			panic("task: op reported pending without requesting a wake")
		}
	}
}
