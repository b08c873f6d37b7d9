// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package ring

import (
	"fmt"
	"image"
	"math"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
	"periph.io/x/conn/v3/i2c"
	"periph.io/x/devices/v3/ssd1306"
	"periph.io/x/devices/v3/ssd1306/image1bit"

	"github.com/relabs-tech/led_compass/internal/heading"
)

const (
	oledW = 128
	oledH = 64
)

// OLED renders a compass rose on an SSD1306 display: the eight direction
// labels around a circle and a needle pointing at the active one.
type OLED struct {
	dev *ssd1306.Dev
}

// NewOLED initializes the display on an open bus. The controller answers at
// the SSD1306 default address.
func NewOLED(bus i2c.Bus) (*OLED, error) {
	dev, err := ssd1306.NewI2C(bus, &ssd1306.DefaultOpts)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize display: %w", err)
	}
	return &OLED{dev: dev}, nil
}

// Point redraws the rose with the needle on d.
func (o *OLED) Point(d heading.Direction) error {
	img := image1bit.NewVerticalLSB(image.Rect(0, 0, oledW, oledH))

	// Blank image
	for i := range img.Pix {
		img.Pix[i] = 0
	}

	drawer := &font.Drawer{
		Dst:  img,
		Src:  &image.Uniform{image1bit.On},
		Face: basicfont.Face7x13,
	}

	const cx, cy, labelR, needleR = 64, 32, 26, 18

	for dir := heading.North; dir <= heading.Northwest; dir++ {
		label := dir.String()
		if dir == d {
			label = "[" + label + "]"
		}
		rad := float64(dir) * math.Pi / 4 // bearing, clockwise from North
		x := cx + int(labelR*math.Sin(rad)) - 7*len(label)/2
		y := cy + 4 - int(labelR*math.Cos(rad))
		drawer.Dot = fixed.P(x, y)
		drawer.DrawBytes([]byte(label))
	}

	// Needle from the center toward the active label.
	rad := float64(d) * math.Pi / 4
	for i := 0; i <= needleR; i++ {
		x := cx + int(float64(i)*math.Sin(rad))
		y := cy - int(float64(i)*math.Cos(rad))
		img.Set(x, y, image1bit.On)
	}

	return o.dev.Draw(o.dev.Bounds(), img, image.Point{})
}
