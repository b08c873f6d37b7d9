// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package app

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"

	mqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/relabs-tech/led_compass/internal/config"
)

// RunWeb serves the heading dashboard: an MQTT subscriber caches the latest
// heading and a small JSON API hands it to the static page.
func RunWeb() error {
	cfg := config.Get()

	var (
		mu          sync.RWMutex
		lastHeading headingPayload
		haveHeading bool
	)

	// 1) Connect to the MQTT broker
	opts := mqtt.NewClientOptions().
		AddBroker(cfg.MQTTBroker).
		SetClientID("compass-web-subscriber")

	client := mqtt.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		return token.Error()
	}
	log.Printf("web: connected to MQTT broker at %s", cfg.MQTTBroker)

	// 2) Subscribe to the heading topic and cache the latest payload
	token := client.Subscribe(cfg.TopicHeading, 0, func(_ mqtt.Client, msg mqtt.Message) {
		var p headingPayload
		if err := json.Unmarshal(msg.Payload(), &p); err != nil {
			log.Printf("web: heading unmarshal error: %v", err)
			return
		}
		mu.Lock()
		lastHeading = p
		haveHeading = true
		mu.Unlock()
	})
	token.Wait()
	if token.Error() != nil {
		return token.Error()
	}
	log.Printf("web: subscribed to %s", cfg.TopicHeading)

	// 3) JSON API endpoint: latest heading
	http.HandleFunc("/api/heading", func(w http.ResponseWriter, r *http.Request) {
		mu.RLock()
		defer mu.RUnlock()

		if !haveHeading {
			http.Error(w, "no data yet", http.StatusServiceUnavailable)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(lastHeading); err != nil {
			log.Printf("web: json encode error: %v", err)
		}
	})

	// 4) Static files from ./web as the root
	fs := http.FileServer(http.Dir("web"))
	http.Handle("/", fs)

	addr := ":8080"
	log.Printf("web: server listening on %s", addr)
	return http.ListenAndServe(addr, nil)
}
