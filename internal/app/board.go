// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package app

import (
	"fmt"
	"math"
	"os"
	"time"

	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/host/v3"

	"github.com/relabs-tech/led_compass/internal/config"
	"github.com/relabs-tech/led_compass/internal/emu"
	"github.com/relabs-tech/led_compass/internal/hwbus"
	"github.com/relabs-tech/led_compass/internal/mag"
	"github.com/relabs-tech/led_compass/internal/mcu"
	"github.com/relabs-tech/led_compass/internal/ring"
)

// board bundles everything a runner drives: the sensor port, the countdown
// timer, and the indicator ring. field is the emulated sensor when the emu
// backend is active, nil on real hardware.
type board struct {
	port  mcu.I2C
	timer *emu.Timer
	ring  ring.Ring
	field *emu.Magnetometer
	close func()
}

// openBoard builds the configured backend. "emu" runs entirely in-process;
// "periph" talks to a real magnetometer through the host I2C adapter. The
// countdown timer runs against the wall clock in both cases.
func openBoard(cfg *config.Config) (*board, error) {
	b := &board{timer: emu.NewTimer(nil), close: func() {}}

	// gpio and oled rings go through periph, as does the periph bus backend.
	if cfg.BusBackend == "periph" || cfg.RingBackend == "oled" || cfg.RingBackend == "gpio" {
		if _, err := host.Init(); err != nil {
			return nil, fmt.Errorf("board: periph host init: %w", err)
		}
	}

	var periphBus i2c.Bus
	if cfg.BusBackend == "periph" || cfg.RingBackend == "oled" {
		bus, err := i2creg.Open(cfg.I2CBus)
		if err != nil {
			return nil, fmt.Errorf("board: open i2c bus %q: %w", cfg.I2CBus, err)
		}
		if cfg.I2CBusSpeedKHz > 0 {
			speed := physic.Frequency(cfg.I2CBusSpeedKHz) * physic.KiloHertz
			if err := bus.SetSpeed(speed); err != nil {
				bus.Close()
				return nil, fmt.Errorf("board: set i2c speed: %w", err)
			}
		}
		periphBus = bus
		b.close = func() { bus.Close() }
	}

	switch cfg.BusBackend {
	case "periph":
		b.port = hwbus.New(periphBus)
	default: // "emu", enforced by config validation
		bus, sensor, stop := openEmu(cfg)
		b.port = bus
		b.field = sensor
		prev := b.close
		b.close = func() { stop(); prev() }
	}

	r, err := openRing(cfg, periphBus)
	if err != nil {
		b.close()
		return nil, err
	}
	b.ring = r
	return b, nil
}

// openEmu assembles the in-process board: bus, attached sensor, and the
// optional rotating-field goroutine. The returned stop function ends the
// rotation.
func openEmu(cfg *config.Config) (*emu.Bus, *emu.Magnetometer, func()) {
	bus := emu.NewBus()
	sensor := emu.NewMagnetometer()
	sensor.SetField(int16(cfg.EmuFieldX), int16(cfg.EmuFieldY), int16(cfg.EmuFieldZ))
	bus.Attach(mag.Addr, sensor)
	bus.SetLatency(cfg.EmuBusLatency)

	stop := func() {}
	if cfg.EmuFieldMode == "rotate" {
		stop = startRotation(sensor, cfg)
	}
	return bus, sensor, stop
}

// startRotation spins the emulated field vector in the X/Y plane, one full
// revolution per EMU_ROTATE_PERIOD. The Z component stays fixed.
func startRotation(sensor *emu.Magnetometer, cfg *config.Config) func() {
	period := time.Duration(cfg.EmuRotatePeriod) * time.Millisecond
	radius := math.Hypot(float64(cfg.EmuFieldX), float64(cfg.EmuFieldY))
	if radius == 0 {
		radius = 1000
	}
	z := int16(cfg.EmuFieldZ)

	done := make(chan struct{})
	go func() {
		ticker := time.NewTicker(period / 64)
		defer ticker.Stop()
		start := time.Now()
		for {
			select {
			case <-done:
				return
			case t := <-ticker.C:
				angle := 2 * math.Pi * float64(t.Sub(start)%period) / float64(period)
				x := int16(radius * math.Cos(angle))
				y := int16(radius * math.Sin(angle))
				sensor.SetField(x, y, z)
			}
		}
	}()
	return func() { close(done) }
}

func openRing(cfg *config.Config, bus i2c.Bus) (ring.Ring, error) {
	switch cfg.RingBackend {
	case "oled":
		r, err := ring.NewOLED(bus)
		if err != nil {
			return nil, fmt.Errorf("board: oled ring: %w", err)
		}
		return r, nil
	case "gpio":
		r, err := ring.NewGPIOByNames(cfg.GPIOPinNames())
		if err != nil {
			return nil, fmt.Errorf("board: gpio ring: %w", err)
		}
		return r, nil
	default: // "console", enforced by config validation
		return ring.NewConsole(os.Stdout), nil
	}
}
