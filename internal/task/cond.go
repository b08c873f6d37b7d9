// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package task

// Cond adapts a readiness predicate to an Op. It is how drivers wait for a
// hardware status flag: each poll samples the predicate once, and a false
// reading requests an immediate re-poll, so the wait degenerates to a spin
// on live register state.
type Cond struct {
	pred func() bool
	done bool
}

// When returns a Cond that completes on the first poll at which pred reads
// true. pred samples hardware state and must not have side effects of its
// own; acknowledging the flag afterwards is the caller's job.
func When(pred func() bool) *Cond {
	return &Cond{pred: pred}
}

// Poll evaluates the predicate once. A false reading invokes the waker and
// reports pending; a true reading completes the Cond. Completion is final
// and polling past it panics.
func (c *Cond) Poll(wake Waker) (struct{}, bool) {
	if c.done {
		panic("task: poll of completed Cond")
	}
	if !c.pred() {
		wake()
		return struct{}{}, false
	}
	c.done = true
	return struct{}{}, true
}
