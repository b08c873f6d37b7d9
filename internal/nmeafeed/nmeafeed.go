// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

// Package nmeafeed formats compass headings as NMEA 0183 sentences for
// chartplotter consumers.
package nmeafeed

import (
	"fmt"
	"io"
	"math"
)

// Sentence formats an HCHDT sentence (compass heading, degrees true) with
// its checksum and line ending. variationDeg is the local magnetic
// variation added to the magnetic bearing to produce true heading, east
// positive.
func Sentence(magneticDeg, variationDeg float64) string {
	deg := math.Mod(magneticDeg+variationDeg+360, 360)
	body := fmt.Sprintf("HCHDT,%.1f,T", deg)
	return fmt.Sprintf("$%s*%02X\r\n", body, checksum(body))
}

// checksum is the XOR of the sentence bytes between '$' and '*'.
func checksum(body string) byte {
	var c byte
	for i := 0; i < len(body); i++ {
		c ^= body[i]
	}
	return c
}

// Feed writes heading sentences to a port.
type Feed struct {
	w         io.Writer
	variation float64
}

// New returns a feed writing to w, applying the given magnetic variation in
// degrees, east positive.
func New(w io.Writer, variationDeg float64) *Feed {
	return &Feed{w: w, variation: variationDeg}
}

// Publish writes one sentence for a magnetic bearing.
func (f *Feed) Publish(magneticDeg float64) error {
	_, err := io.WriteString(f.w, Sentence(magneticDeg, f.variation))
	return err
}
