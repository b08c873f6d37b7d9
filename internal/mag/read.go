// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package mag

import (
	"github.com/relabs-tech/led_compass/internal/mcu"
	"github.com/relabs-tech/led_compass/internal/task"
)

// readPhase tracks progress through the burst read transaction.
type readPhase int

const (
	phaseStart   readPhase = iota // nothing on the bus yet
	phaseSelect                   // start issued, waiting to send the register index
	phaseRestart                  // index sent, waiting to turn the bus around
	phaseCollect                  // read running, draining bytes as they land
	phaseDone
)

// ReadOp reads the six output registers as a single bus transaction: a
// one-byte write selecting the start register, a repeated start, then a
// six-byte read with an automatic stop. It is a single-shot task.Op.
//
// The transaction owns the controller from its first poll until completion.
// Once started it must be driven to completion; abandoning it mid-flight
// leaves the bus locked in an open transfer.
type ReadOp struct {
	port  mcu.I2C
	phase readPhase
	wait  *task.Cond
	buf   [OutLen]byte
	n     int
}

// Read prepares a burst read of the output registers on port. The start
// condition goes on the bus at the first poll, not here.
func Read(port mcu.I2C) *ReadOp {
	return &ReadOp{port: port}
}

// Poll advances the transaction as far as the controller's status flags
// allow, then completes with the decoded sample. Every wait is a task.Cond
// over an ISR bit, so a pending result has already requested its re-poll.
func (op *ReadOp) Poll(wake task.Waker) (Sample, bool) {
	for {
		switch op.phase {
		case phaseStart:
			// Address the sensor for a one-byte write and keep the bus
			// afterwards (no AUTOEND): the byte is the register index the
			// burst read starts from.
			op.port.WriteCR2(mcu.CR2Start | mcu.CR2Addr(Addr) | mcu.CR2NBytes(1))
			op.wait = waitISR(op.port, mcu.ISRTXIS)
			op.phase = phaseSelect

		case phaseSelect:
			if _, ok := op.wait.Poll(wake); !ok {
				return Sample{}, false
			}
			op.port.WriteTXDR(RegOutXHigh)
			op.wait = waitISR(op.port, mcu.ISRTC)
			op.phase = phaseRestart

		case phaseRestart:
			if _, ok := op.wait.Poll(wake); !ok {
				return Sample{}, false
			}
			// Turn the bus around: repeated start, read direction, all six
			// output registers in one burst, stop issued by hardware after
			// the last byte.
			cr2 := op.port.ReadCR2()
			cr2 &^= mcu.CR2NBytesMask
			cr2 |= mcu.CR2Start | mcu.CR2RdWrn | mcu.CR2AutoEnd | mcu.CR2NBytes(OutLen)
			op.port.WriteCR2(cr2)
			op.wait = waitISR(op.port, mcu.ISRRXNE)
			op.phase = phaseCollect

		case phaseCollect:
			if _, ok := op.wait.Poll(wake); !ok {
				return Sample{}, false
			}
			op.buf[op.n] = op.port.ReadRXDR()
			op.n++
			if op.n < OutLen {
				op.wait = waitISR(op.port, mcu.ISRRXNE)
				continue
			}
			op.phase = phaseDone
			return Decode(op.buf), true

		default:
			panic("mag: poll of completed read")
		}
	}
}

func waitISR(port mcu.I2C, bit uint32) *task.Cond {
	return task.When(func() bool { return port.ReadISR()&bit != 0 })
}
