// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package mag

import (
	"github.com/relabs-tech/led_compass/internal/mcu"
	"github.com/relabs-tech/led_compass/internal/task"
)

// SampleStream yields one Sample per completed bus transaction, endlessly.
// A fresh transaction starts on the first poll after each yield, so the
// sensor is read as fast as the control loop polls.
type SampleStream struct {
	port mcu.I2C
	cur  *ReadOp
}

// Samples returns the endless sample stream for the controller. The stream
// owns the controller; no other bus user may run while it has an element in
// flight.
func Samples(port mcu.I2C) *SampleStream {
	return &SampleStream{port: port}
}

// PollNext drives the in-flight transaction, starting one if needed.
func (s *SampleStream) PollNext(wake task.Waker) (Sample, bool) {
	if s.cur == nil {
		s.cur = Read(s.port)
	}
	v, ok := s.cur.Poll(wake)
	if ok {
		s.cur = nil
	}
	return v, ok
}
