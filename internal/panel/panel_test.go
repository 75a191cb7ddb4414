// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package panel

import (
	"image"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"periph.io/x/devices/v3/ssd1306/image1bit"

	"github.com/relabs-tech/drone_telemetry/internal/history"
	"github.com/relabs-tech/drone_telemetry/internal/telemetry"
)

func sampleSnapshot() telemetry.Snapshot {
	return telemetry.Snapshot{
		Battery:     6,
		Roll:        45,
		Pitch:       -15,
		Yaw:         91,
		Temperature: 25.5,
		Altitude:    104.25,
		Latitude:    37.7749,
		Longitude:   -122.4194,
		Connection:  telemetry.LinkGood,
		Timestamp:   1700000000,
	}
}

func TestGaugesFor(t *testing.T) {
	g := GaugesFor(sampleSnapshot())

	assert.InDelta(t, 50, g.BatteryPercent, 1e-9)
	assert.Equal(t, 2, g.LinkBars)
	assert.Equal(t, 1.0, g.Roll, "clamped at full scale")
	assert.InDelta(t, -0.5, g.Pitch, 1e-9)
	assert.Equal(t, "E", g.Heading)
	assert.False(t, g.Level)

	g = GaugesFor(telemetry.Snapshot{Battery: 13, Connection: telemetry.LinkNoSignal})
	assert.Equal(t, 100.0, g.BatteryPercent)
	assert.Zero(t, g.LinkBars)
	assert.True(t, g.Level)
}

func TestStatusLines(t *testing.T) {
	snap := sampleSnapshot()
	lines := StatusLines(snap, snap.Time().Add(3*time.Second))

	require.Len(t, lines, 7)
	prefixes := []string{"BATTERY", "LINK", "ATTITUDE", "TEMP", "ALTITUDE", "POSITION", "UPDATED"}
	for i, p := range prefixes {
		assert.True(t, strings.HasPrefix(lines[i], p), "line %d: %q", i, lines[i])
	}
	assert.Contains(t, lines[0], "(50%)")
	assert.Contains(t, lines[1], "Good [||-]")
	assert.Contains(t, lines[2], "(E)")
	assert.Contains(t, lines[3], "25.50°C")
	assert.Contains(t, lines[5], "37.7749")
	assert.Contains(t, lines[5], "-122.4194")
	assert.Contains(t, lines[6], "ago")
}

func TestBars(t *testing.T) {
	assert.Equal(t, "|||", bars(3))
	assert.Equal(t, "|--", bars(1))
	assert.Equal(t, "---", bars(0))
	assert.Equal(t, "|||", bars(7))
}

func countColor(img *image.RGBA, c interface{ RGBA() (r, g, b, a uint32) }) int {
	wr, wg, wb, wa := c.RGBA()
	n := 0
	b := img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			r, g, bl, a := img.At(x, y).RGBA()
			if r == wr && g == wg && bl == wb && a == wa {
				n++
			}
		}
	}
	return n
}

func TestTrendChartDrawsLine(t *testing.T) {
	entries := []history.Entry{{Label: "12:00:00", Value: 90}, {Label: "12:00:01", Value: 100}, {Label: "12:00:02", Value: 110}}

	img, err := TrendChart(entries, 200, 100)
	require.NoError(t, err)

	assert.Equal(t, image.Rect(0, 0, 200, 100), img.Bounds())
	assert.Greater(t, countColor(img, lineColor), 100)
}

func TestTrendChartFlatSeries(t *testing.T) {
	entries := []history.Entry{{Label: "a", Value: 100}, {Label: "b", Value: 100}}

	img, err := TrendChart(entries, 120, 80)
	require.NoError(t, err)
	assert.Greater(t, countColor(img, lineColor), 0)
}

func TestTrendChartEmpty(t *testing.T) {
	img, err := TrendChart(nil, 200, 100)
	require.NoError(t, err)
	assert.Zero(t, countColor(img, lineColor))
}

func TestTrendChartTooSmall(t *testing.T) {
	_, err := TrendChart(nil, 48, 300)
	assert.ErrorContains(t, err, "too small")
}

func countOn(img *image1bit.VerticalLSB) int {
	n := 0
	for y := 0; y < OLEDHeight; y++ {
		for x := 0; x < OLEDWidth; x++ {
			if img.BitAt(x, y) == image1bit.On {
				n++
			}
		}
	}
	return n
}

func TestOLEDFrame(t *testing.T) {
	snap := sampleSnapshot()
	for _, content := range []string{ContentAttitude, ContentPosition, ContentPower} {
		img, err := OLEDFrame(content, &snap)
		require.NoError(t, err, content)
		assert.Equal(t, image.Rect(0, 0, OLEDWidth, OLEDHeight), img.Bounds())
		assert.Greater(t, countOn(img), 0, content)
	}
}

func TestOLEDFrameWaiting(t *testing.T) {
	img, err := OLEDFrame(ContentPower, nil)
	require.NoError(t, err)
	assert.Greater(t, countOn(img), 0)
}

func TestOLEDFrameUnknownContent(t *testing.T) {
	_, err := OLEDFrame("video", nil)
	assert.ErrorContains(t, err, "unknown display content type")
	assert.False(t, ValidContent("video"))
	assert.True(t, ValidContent(ContentPosition))
}
