// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package app

import (
	"fmt"
	"log"

	"github.com/jacobsa/go-serial/serial"

	"github.com/relabs-tech/led_compass/internal/config"
	"github.com/relabs-tech/led_compass/internal/heading"
	"github.com/relabs-tech/led_compass/internal/nmeafeed"
	"github.com/relabs-tech/led_compass/internal/task"
)

// RunNMEAFeed runs the compass loop and writes a $HCHDT sentence to the
// configured serial port on every timer tick. The configured magnetic
// variation turns the magnetic heading into true heading.
func RunNMEAFeed() error {
	cfg := config.Get()

	if cfg.NMEASerialPort == "" {
		return fmt.Errorf("nmea: NMEA_SERIAL_PORT not configured")
	}

	serialOpts := serial.OpenOptions{
		PortName:        cfg.NMEASerialPort,
		BaudRate:        uint(cfg.NMEABaudRate),
		DataBits:        8,
		StopBits:        1,
		MinimumReadSize: 1,
		ParityMode:      serial.PARITY_NONE,
	}
	port, err := serial.Open(serialOpts)
	if err != nil {
		return fmt.Errorf("nmea: open serial port %s: %w", cfg.NMEASerialPort, err)
	}
	defer port.Close()

	b, err := openBoard(cfg)
	if err != nil {
		return err
	}
	defer b.close()

	feed := nmeafeed.New(port, cfg.NMEAVariationDeg)
	log.Printf("nmea: writing $HCHDT to %s at %d baud, variation %+.1f°",
		cfg.NMEASerialPort, cfg.NMEABaudRate, cfg.NMEAVariationDeg)

	events := mergeEvents(b, cfg)

	var (
		have  bool
		angle float64
	)
	for {
		ev := task.Run(task.Next[event](events))
		if s, ok := ev.GetLeft(); ok {
			angle = heading.FromSample(s)
			have = true
			continue
		}
		if !have {
			continue
		}
		if err := feed.Publish(heading.Bearing(angle)); err != nil {
			return fmt.Errorf("nmea: write sentence: %w", err)
		}
	}
}
