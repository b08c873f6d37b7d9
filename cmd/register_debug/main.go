// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package main

import (
	"fmt"
	"log"
	"net/http"

	"github.com/relabs-tech/led_compass/internal/app"
	"github.com/relabs-tech/led_compass/internal/config"
)

func main() {
	log.Println("starting led-compass register debug tool")

	if err := config.InitGlobal("compass_config.txt"); err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	cfg := config.Get()

	board, err := app.NewDebugBoard(cfg)
	if err != nil {
		log.Fatalf("fatal: %v", err)
	}

	http.HandleFunc("/ws", board.HandleWS)

	// API endpoint for the live heading
	http.HandleFunc("/api/heading", board.HandleHeading)

	http.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		http.ServeFile(w, r, "web/register_debug.html")
	})

	addr := fmt.Sprintf(":%d", cfg.WebServerPort)
	log.Printf("register debug tool listening on %s", addr)
	log.Printf("open http://localhost%s in your browser", addr)
	if err := http.ListenAndServe(addr, nil); err != nil {
		log.Fatalf("fatal: %v", err)
	}
}
