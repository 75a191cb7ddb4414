// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package panel

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"sync"

	"github.com/golang/freetype"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"

	"github.com/relabs-tech/drone_telemetry/internal/history"
)

const (
	chartDPI      = 72
	chartFontSize = 12
	chartMargin   = 24
)

var (
	background = color.RGBA{0x12, 0x16, 0x1c, 0xff}
	gridColor  = color.RGBA{0x3a, 0x40, 0x4a, 0xff}
	lineColor  = color.RGBA{0x3d, 0xd6, 0x8c, 0xff}
)

var (
	chartFont     *truetype.Font
	chartFontErr  error
	chartFontOnce sync.Once
)

func loadChartFont() (*truetype.Font, error) {
	chartFontOnce.Do(func() {
		chartFont, chartFontErr = freetype.ParseFont(goregular.TTF)
	})
	return chartFont, chartFontErr
}

// TrendChart draws the altitude window as a line chart with min/max/last
// annotations. Entries are plotted oldest first, left to right.
func TrendChart(entries []history.Entry, width, height int) (*image.RGBA, error) {
	if width <= 2*chartMargin || height <= 2*chartMargin {
		return nil, fmt.Errorf("chart size %dx%d too small", width, height)
	}
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.Draw(img, img.Bounds(), &image.Uniform{background}, image.Point{}, draw.Src)

	plot := image.Rect(chartMargin, chartMargin, width-chartMargin, height-chartMargin)
	for x := plot.Min.X; x <= plot.Max.X; x++ {
		img.Set(x, plot.Max.Y, gridColor)
		img.Set(x, plot.Min.Y, gridColor)
	}
	for y := plot.Min.Y; y <= plot.Max.Y; y++ {
		img.Set(plot.Min.X, y, gridColor)
	}

	f, err := loadChartFont()
	if err != nil {
		return nil, fmt.Errorf("parsing chart font: %w", err)
	}
	ctx := freetype.NewContext()
	ctx.SetDPI(chartDPI)
	ctx.SetFont(f)
	ctx.SetFontSize(chartFontSize)
	ctx.SetHinting(font.HintingFull)
	ctx.SetClip(img.Bounds())
	ctx.SetDst(img)
	ctx.SetSrc(image.White)

	if len(entries) == 0 {
		_, err := ctx.DrawString("waiting for data", freetype.Pt(plot.Min.X+4, plot.Min.Y+chartFontSize+4))
		return img, err
	}

	stats := history.Summarize(entries)
	lo, hi := stats.Min, stats.Max
	if hi-lo < 1 {
		lo, hi = lo-1, hi+1
	}
	point := func(i int, v float64) image.Point {
		x := plot.Min.X
		if len(entries) > 1 {
			x += i * plot.Dx() / (len(entries) - 1)
		}
		y := plot.Max.Y - int((v-lo)/(hi-lo)*float64(plot.Dy()))
		return image.Pt(x, y)
	}

	prev := point(0, entries[0].Value)
	img.Set(prev.X, prev.Y, lineColor)
	for i := 1; i < len(entries); i++ {
		next := point(i, entries[i].Value)
		drawLine(img, prev, next, lineColor)
		prev = next
	}

	last := entries[len(entries)-1]
	labels := []struct {
		text string
		at   image.Point
	}{
		{fmt.Sprintf("max %.1f m", stats.Max), image.Pt(plot.Min.X+4, plot.Min.Y-6)},
		{fmt.Sprintf("min %.1f m", stats.Min), image.Pt(plot.Min.X+4, plot.Max.Y+chartFontSize+4)},
		{fmt.Sprintf("%.1f m @ %s", last.Value, last.Label), image.Pt(plot.Max.X-150, plot.Min.Y-6)},
	}
	for _, l := range labels {
		if _, err := ctx.DrawString(l.text, freetype.Pt(l.at.X, l.at.Y)); err != nil {
			return nil, fmt.Errorf("drawing label %q: %w", l.text, err)
		}
	}
	return img, nil
}

// drawLine is Bresenham over integer pixels.
func drawLine(img draw.Image, a, b image.Point, c color.Color) {
	dx, dy := abs(b.X-a.X), -abs(b.Y-a.Y)
	sx, sy := 1, 1
	if a.X > b.X {
		sx = -1
	}
	if a.Y > b.Y {
		sy = -1
	}
	e := dx + dy
	for {
		img.Set(a.X, a.Y, c)
		if a == b {
			return
		}
		e2 := 2 * e
		if e2 >= dy {
			e += dy
			a.X += sx
		}
		if e2 <= dx {
			e += dx
			a.Y += sy
		}
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
