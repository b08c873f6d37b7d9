// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

// Package ring drives the eight-way compass indicator. Backends: a console
// renderer for development, the OLED compass rose, and eight discrete GPIO
// indicators for a board with real lights.
package ring

import "github.com/relabs-tech/led_compass/internal/heading"

// Ring is the indicator array: exactly one direction is shown at a time,
// and pointing at a new direction replaces the previous one.
type Ring interface {
	Point(d heading.Direction) error
}
