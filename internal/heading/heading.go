// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

// Package heading turns magnetometer samples into a planar heading angle and
// the eight-way compass direction shown on the indicator ring.
package heading

import (
	"fmt"
	"math"

	"github.com/relabs-tech/led_compass/internal/mag"
)

// Direction is one of the eight compass octants, ordered clockwise from
// North.
type Direction int

const (
	North Direction = iota
	Northeast
	East
	Southeast
	South
	Southwest
	West
	Northwest
)

var directionNames = [...]string{"N", "NE", "E", "SE", "S", "SW", "W", "NW"}

func (d Direction) String() string {
	if d < North || d > Northwest {
		return fmt.Sprintf("Direction(%d)", int(d))
	}
	return directionNames[d]
}

// FromSample is the planar heading angle of the field, radians in [-π, π].
// Only the X and Y axes matter; the board is mounted with South along +X, so
// a field straight down +X reads as angle 0, which is South.
func FromSample(s mag.Sample) float64 {
	return math.Atan2(float64(s.Y), float64(s.X))
}

// Octant buckets a heading angle into its compass direction. Buckets are
// π/4 wide with South centered on angle 0; a boundary angle belongs to the
// bucket on its greater side, so exactly -π/8 is South, not Southwest.
//
// The angle domain is [-π, π], which is everything FromSample can produce.
// Anything else, NaN included, is a caller bug and panics.
func Octant(angle float64) Direction {
	if !(angle >= -math.Pi && angle <= math.Pi) {
		panic(fmt.Sprintf("heading: angle %v outside [-π, π]", angle))
	}
	switch {
	case angle < -7*math.Pi/8:
		return North
	case angle < -5*math.Pi/8:
		return Northwest
	case angle < -3*math.Pi/8:
		return West
	case angle < -math.Pi/8:
		return Southwest
	case angle < math.Pi/8:
		return South
	case angle < 3*math.Pi/8:
		return Southeast
	case angle < 5*math.Pi/8:
		return East
	case angle < 7*math.Pi/8:
		return Northeast
	default:
		return North
	}
}

// Bearing converts a heading angle to compass degrees, 0 at North increasing
// clockwise, in [0, 360).
func Bearing(angle float64) float64 {
	deg := 180 - angle*180/math.Pi
	return math.Mod(deg+360, 360)
}
