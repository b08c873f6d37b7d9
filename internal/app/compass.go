// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package app

import (
	"log"

	"github.com/relabs-tech/led_compass/internal/config"
	"github.com/relabs-tech/led_compass/internal/heading"
	"github.com/relabs-tech/led_compass/internal/mag"
	"github.com/relabs-tech/led_compass/internal/task"
	"github.com/relabs-tech/led_compass/internal/tick"
)

// event is what the merged control-loop stream yields: a fresh magnetometer
// sample or a timer tick.
type event = task.Either[mag.Sample, tick.Tick]

func mergeEvents(b *board, cfg *config.Config) *task.Merged[mag.Sample, tick.Tick] {
	return task.Merge[mag.Sample, tick.Tick](
		mag.Samples(b.port),
		tick.Every(b.timer, uint16(cfg.TickInterval)),
	)
}

// RunCompass drives the full control loop: magnetometer samples merged with
// timer ticks. Sample events update the heading and repoint the indicator
// when the octant changes; tick events log the current bearing.
func RunCompass() error {
	cfg := config.Get()

	b, err := openBoard(cfg)
	if err != nil {
		return err
	}
	defer b.close()

	log.Printf("compass: %s board, %s ring, tick every %d ms",
		cfg.BusBackend, cfg.RingBackend, cfg.TickInterval)

	events := mergeEvents(b, cfg)

	var (
		have    bool
		angle   float64
		current heading.Direction
	)
	for {
		ev := task.Run(task.Next[event](events))
		if s, ok := ev.GetLeft(); ok {
			angle = heading.FromSample(s)
			d := heading.Octant(angle)
			if !have || d != current {
				if err := b.ring.Point(d); err != nil {
					log.Printf("compass: ring: %v", err)
				}
				current = d
				have = true
			}
			continue
		}
		if have {
			log.Printf("compass: heading %5.1f° %s", heading.Bearing(angle), current)
		}
	}
}
