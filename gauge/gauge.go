// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package gauge draws the latest temperature as a one line bar on the
// terminal using ANSI 256 colour codes.
//
// Each call redraws the same line. The bar is coloured along a cold to hot
// ramp and filled in proportion to the reading within [Min, Max].
package gauge

import (
	"bytes"
	"context"
	"fmt"
	"image/color"
	"io"

	"github.com/maruel/ansi256"
	"github.com/mattn/go-colorable"
	"golang.org/x/image/colornames"

	"github.com/AntonioCC147/PM-Portable-Air-Quality-Measurement-System/bmp280"
	"github.com/AntonioCC147/PM-Portable-Air-Quality-Measurement-System/sampler"
)

// ramp is sampled evenly from cold to hot.
var ramp = []color.RGBA{
	colornames.Blue,
	colornames.Deepskyblue,
	colornames.Limegreen,
	colornames.Gold,
	colornames.Darkorange,
	colornames.Red,
}

// Opts represents the options available for the gauge.
type Opts struct {
	// X is the number of cells. Default 40.
	X int
	// Min and Max bound the bar. Default -10.00°C to 40.00°C.
	Min, Max bmp280.CentiCelsius
	Palette  *ansi256.Palette
	// W defaults to a colour capable stdout.
	W io.Writer

	_ struct{}
}

// Dev is a terminal temperature bar.
type Dev struct {
	w        io.Writer
	l        int
	min, max bmp280.CentiCelsius
	palette  ansi256.Palette
	empty    color.NRGBA

	buf bytes.Buffer
}

// New returns a Dev drawing on opts.W.
func New(opts *Opts) *Dev {
	if opts == nil {
		opts = &Opts{}
	}
	d := &Dev{
		w:     opts.W,
		l:     opts.X,
		min:   opts.Min,
		max:   opts.Max,
		empty: color.NRGBA{colornames.Dimgray.R, colornames.Dimgray.G, colornames.Dimgray.B, 255},
	}
	if d.w == nil {
		d.w = colorable.NewColorableStdout()
	}
	if d.l <= 0 {
		d.l = 40
	}
	if d.min >= d.max {
		d.min, d.max = -1000, 4000
	}
	p := opts.Palette
	if p == nil {
		p = ansi256.Default
	}
	d.palette = *p
	return d
}

func (d *Dev) String() string {
	return "Gauge"
}

// Halt implements conn.Resource.
//
// It resets the terminal colours and ends the line.
func (d *Dev) Halt() error {
	_, err := d.w.Write([]byte("\n\033[0m"))
	return err
}

// Show redraws the bar for c.
func (d *Dev) Show(c bmp280.CentiCelsius) error {
	filled := d.cells(c)
	d.buf.Reset()
	_, _ = d.buf.WriteString("\r\033[0m")
	for i := 0; i < d.l; i++ {
		col := d.empty
		if i < filled {
			col = colorAt(i, d.l)
		}
		_, _ = io.WriteString(&d.buf, d.palette.Block(col))
	}
	_, _ = fmt.Fprintf(&d.buf, "\033[0m %8s ", c)
	_, err := d.buf.WriteTo(d.w)
	return err
}

// Publish implements sampler.Sink.
func (d *Dev) Publish(_ context.Context, r sampler.Reading) error {
	return d.Show(r.Temperature)
}

// cells returns how many cells represent c, clamped to [0, l]. Any reading
// at or above min lights at least one cell.
func (d *Dev) cells(c bmp280.CentiCelsius) int {
	switch {
	case c < d.min:
		return 0
	case c >= d.max:
		return d.l
	}
	n := int(int64(c-d.min) * int64(d.l) / int64(d.max-d.min))
	if n == 0 {
		n = 1
	}
	return n
}

// colorAt interpolates the ramp at cell i of l.
func colorAt(i, l int) color.NRGBA {
	if l <= 1 {
		c := ramp[0]
		return color.NRGBA{c.R, c.G, c.B, 255}
	}
	// Position along the ramp in 1/256 steps.
	pos := i * (len(ramp) - 1) * 256 / (l - 1)
	seg, frac := pos/256, pos%256
	if seg >= len(ramp)-1 {
		c := ramp[len(ramp)-1]
		return color.NRGBA{c.R, c.G, c.B, 255}
	}
	a, b := ramp[seg], ramp[seg+1]
	mix := func(x, y uint8) uint8 {
		return uint8((int(x)*(256-frac) + int(y)*frac) / 256)
	}
	return color.NRGBA{mix(a.R, b.R), mix(a.G, b.G), mix(a.B, b.B), 255}
}

var _ sampler.Sink = &Dev{}
var _ fmt.Stringer = &Dev{}
