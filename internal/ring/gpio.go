// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package ring

import (
	"fmt"

	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"

	"github.com/relabs-tech/led_compass/internal/heading"
)

// GPIO drives eight discrete indicators, one per octant, active high.
type GPIO struct {
	pins [8]gpio.PinOut
}

// NewGPIO builds a ring over eight output pins in octant order N, NE, E,
// SE, S, SW, W, NW.
func NewGPIO(pins [8]gpio.PinOut) *GPIO {
	return &GPIO{pins: pins}
}

// NewGPIOByNames looks the eight pins up in the periph registry, octant
// order N, NE, E, SE, S, SW, W, NW.
func NewGPIOByNames(names [8]string) (*GPIO, error) {
	var pins [8]gpio.PinOut
	for i, name := range names {
		p := gpioreg.ByName(name)
		if p == nil {
			return nil, fmt.Errorf("no GPIO pin named %q", name)
		}
		pins[i] = p
	}
	return NewGPIO(pins), nil
}

// Point lights the indicator for d and clears the other seven.
func (g *GPIO) Point(d heading.Direction) error {
	for i, p := range g.pins {
		level := gpio.Low
		if i == int(d) {
			level = gpio.High
		}
		if err := p.Out(level); err != nil {
			return fmt.Errorf("pin %s: %w", p.Name(), err)
		}
	}
	return nil
}
