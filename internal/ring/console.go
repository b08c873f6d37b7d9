// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package ring

import (
	"fmt"
	"io"

	"github.com/relabs-tech/led_compass/internal/heading"
)

// Console renders the indicator as a rose of direction labels on a writer,
// the active one bracketed.
type Console struct {
	w io.Writer
}

// NewConsole returns a console ring writing to w.
func NewConsole(w io.Writer) *Console {
	return &Console{w: w}
}

// Point redraws the rose with d active.
func (c *Console) Point(d heading.Direction) error {
	cell := func(pos heading.Direction) string {
		if pos == d {
			return fmt.Sprintf("%4s", "["+pos.String()+"]")
		}
		return fmt.Sprintf("%4s", pos.String())
	}
	_, err := fmt.Fprintf(c.w, "%s %s %s\n%s %4s %s\n%s %s %s\nheading: %s\n\n",
		cell(heading.Northwest), cell(heading.North), cell(heading.Northeast),
		cell(heading.West), ".", cell(heading.East),
		cell(heading.Southwest), cell(heading.South), cell(heading.Southeast),
		d)
	return err
}
