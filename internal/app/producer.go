// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package app

import (
	"encoding/json"
	"fmt"
	"log"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/relabs-tech/led_compass/internal/config"
	"github.com/relabs-tech/led_compass/internal/heading"
	"github.com/relabs-tech/led_compass/internal/mag"
	"github.com/relabs-tech/led_compass/internal/task"
)

// headingPayload is the JSON schema published on each timer tick.
// x,y,z are raw sensor counts; norm is the field magnitude in the same
// units. radians is the plane angle, bearing_deg the compass bearing.
// time is RFC3339.
type headingPayload struct {
	X       int16   `json:"x"`
	Y       int16   `json:"y"`
	Z       int16   `json:"z"`
	Norm    float64 `json:"norm"`
	Radians float64 `json:"radians"`
	Bearing float64 `json:"bearing_deg"`
	Octant  string  `json:"octant"`
	Time    string  `json:"time"`
}

// RunProducer runs the compass loop and publishes the latest heading to MQTT
// on every timer tick. Sample events still repoint the indicator ring.
func RunProducer() error {
	cfg := config.Get()

	b, err := openBoard(cfg)
	if err != nil {
		return err
	}
	defer b.close()

	opts := mqtt.NewClientOptions().
		AddBroker(cfg.MQTTBroker).
		SetClientID(cfg.MQTTClientIDProducer)

	client := mqtt.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		return fmt.Errorf("producer: mqtt connect: %w", token.Error())
	}
	defer client.Disconnect(250)

	log.Printf("producer: connected to %s, publishing %s every %d ms",
		cfg.MQTTBroker, cfg.TopicHeading, cfg.TickInterval)

	events := mergeEvents(b, cfg)

	var (
		have    bool
		angle   float64
		last    mag.Sample
		current heading.Direction
	)
	for {
		ev := task.Run(task.Next[event](events))
		if s, ok := ev.GetLeft(); ok {
			last = s
			angle = heading.FromSample(s)
			d := heading.Octant(angle)
			if !have || d != current {
				if err := b.ring.Point(d); err != nil {
					log.Printf("producer: ring: %v", err)
				}
				current = d
				have = true
			}
			continue
		}
		if !have {
			continue
		}

		p := headingPayload{
			X:       last.X,
			Y:       last.Y,
			Z:       last.Z,
			Norm:    last.Norm(),
			Radians: angle,
			Bearing: heading.Bearing(angle),
			Octant:  current.String(),
			Time:    time.Now().UTC().Format(time.RFC3339),
		}
		payload, err := json.Marshal(p)
		if err != nil {
			log.Printf("producer: marshal error: %v", err)
			continue
		}
		if token := client.Publish(cfg.TopicHeading, 0, true, payload); token.Wait() && token.Error() != nil {
			log.Printf("producer: publish error: %v", token.Error())
		}
	}
}
