// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package steptrace

import (
	"fmt"
	"image"
	"image/color"
	"io"
	"strings"
	"time"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"github.com/maruel/ansi256"
	"github.com/mattn/go-colorable"
	"golang.org/x/image/font/gofont/goregular"
	"periph.io/x/conn/v3/gpio"
)

// RenderOpts controls the waveform image.
type RenderOpts struct {
	Width      int
	LaneHeight int
	FontSize   float64
	// LabelWidth is the space left of the waveforms for the lane names.
	LabelWidth int
}

// DefaultRenderOpts is the recommended default options.
var DefaultRenderOpts = RenderOpts{
	Width:      800,
	LaneHeight: 40,
	FontSize:   12,
	LabelWidth: 100,
}

// Image draws the lanes as waveforms, with a time scale from the start of
// the trace to now.
func (t *Trace) Image(opts *RenderOpts) (image.Image, error) {
	dc, err := t.draw(opts)
	if err != nil {
		return nil, err
	}
	return dc.Image(), nil
}

// WritePNG encodes the waveform image as PNG into w.
func (t *Trace) WritePNG(w io.Writer, opts *RenderOpts) error {
	dc, err := t.draw(opts)
	if err != nil {
		return err
	}
	return dc.EncodePNG(w)
}

func (t *Trace) draw(opts *RenderOpts) (*gg.Context, error) {
	if opts == nil {
		opts = &DefaultRenderOpts
	}
	const margin = 8
	lanes := t.Lanes()
	end := t.Elapsed()
	if end <= 0 {
		end = 1
	}
	h := opts.LaneHeight*len(lanes) + 2*margin + int(opts.FontSize)
	dc := gg.NewContext(opts.Width, h)
	dc.SetRGB(1, 1, 1)
	dc.Clear()

	font, err := truetype.Parse(goregular.TTF)
	if err != nil {
		return nil, err
	}
	dc.SetFontFace(truetype.NewFace(font, &truetype.Options{Size: opts.FontSize}))

	left := float64(opts.LabelWidth)
	right := float64(opts.Width - margin)
	scale := (right - left) / float64(end)
	for i, l := range lanes {
		top := float64(margin + i*opts.LaneHeight)
		yHigh := top + 6
		yLow := top + float64(opts.LaneHeight) - 6
		y := func(level gpio.Level) float64 {
			if level {
				return yHigh
			}
			return yLow
		}
		dc.SetRGB(0, 0, 0)
		dc.DrawStringAnchored(l.Name, margin, (yHigh+yLow)/2, 0, 0.5)
		if len(l.Transitions) == 0 {
			continue
		}
		x := left + float64(l.Transitions[0].At)*scale
		cur := y(l.Transitions[0].Level)
		dc.MoveTo(x, cur)
		for _, tr := range l.Transitions[1:] {
			x = left + float64(tr.At)*scale
			dc.LineTo(x, cur)
			cur = y(tr.Level)
			dc.LineTo(x, cur)
		}
		dc.LineTo(right, cur)
		dc.SetRGB(0, 0.4, 0.8)
		dc.SetLineWidth(2)
		dc.Stroke()
	}
	dc.SetRGB(0.3, 0.3, 0.3)
	dc.DrawStringAnchored(end.String(), right, float64(h-margin), 1, 0)
	return dc, nil
}

var (
	highColor = color.NRGBA{0x00, 0xC0, 0x00, 0xFF}
	lowColor  = color.NRGBA{0x30, 0x30, 0x30, 0xFF}
)

// Print writes the lanes to w as rows of colored blocks, cols samples
// wide. A nil w is the console and a nil palette is ansi256.Default.
func (t *Trace) Print(w io.Writer, cols int, palette *ansi256.Palette) error {
	if w == nil {
		w = colorable.NewColorableStdout()
	}
	if palette == nil {
		palette = ansi256.Default
	}
	if cols <= 0 {
		return fmt.Errorf("steptrace: invalid width %d", cols)
	}
	lanes := t.Lanes()
	end := t.Elapsed()
	width := 0
	for _, l := range lanes {
		if len(l.Name) > width {
			width = len(l.Name)
		}
	}
	high, low := palette.Block(highColor), palette.Block(lowColor)
	var b strings.Builder
	for _, l := range lanes {
		fmt.Fprintf(&b, "%-*s ", width, l.Name)
		for c := 0; c < cols; c++ {
			at := time.Duration(int64(end) * int64(c) / int64(cols))
			level, ok := l.LevelAt(at)
			switch {
			case !ok:
				b.WriteString(" ")
			case level == gpio.High:
				b.WriteString(high)
			default:
				b.WriteString(low)
			}
		}
		b.WriteString("\033[0m\n")
	}
	_, err := io.WriteString(w, b.String())
	return err
}
