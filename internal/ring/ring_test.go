// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package ring_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpiotest"

	"github.com/relabs-tech/led_compass/internal/heading"
	"github.com/relabs-tech/led_compass/internal/ring"
)

func TestConsoleBracketsActiveDirection(t *testing.T) {
	assert := assert.New(t)

	var buf bytes.Buffer
	r := ring.NewConsole(&buf)

	assert.NoError(r.Point(heading.South))
	out := buf.String()
	assert.Contains(out, "[S]")
	assert.Contains(out, "heading: S")
	assert.Equal(1, strings.Count(out, "["), "exactly one direction active")

	buf.Reset()
	assert.NoError(r.Point(heading.Northwest))
	assert.Contains(buf.String(), "[NW]")
}

func TestGPIODrivesOnePinHigh(t *testing.T) {
	assert := assert.New(t)

	var pins [8]gpio.PinOut
	testPins := make([]*gpiotest.Pin, 8)
	for i := range pins {
		testPins[i] = &gpiotest.Pin{N: heading.Direction(i).String(), Num: i}
		pins[i] = testPins[i]
	}
	r := ring.NewGPIO(pins)

	assert.NoError(r.Point(heading.East))
	for i, p := range testPins {
		want := gpio.Low
		if heading.Direction(i) == heading.East {
			want = gpio.High
		}
		assert.Equal(want, p.L, "pin %s", p.N)
	}

	// Pointing elsewhere moves the light.
	assert.NoError(r.Point(heading.North))
	assert.Equal(gpio.High, testPins[int(heading.North)].L)
	assert.Equal(gpio.Low, testPins[int(heading.East)].L)
}
