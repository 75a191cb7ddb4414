// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package panel

import (
	"fmt"
	"image"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
	"periph.io/x/devices/v3/ssd1306/image1bit"

	"github.com/relabs-tech/drone_telemetry/internal/orientation"
	"github.com/relabs-tech/drone_telemetry/internal/telemetry"
)

// OLED content selectors.
const (
	ContentAttitude = "attitude"
	ContentPosition = "position"
	ContentPower    = "power"
)

// OLED geometry of an SSD1306 128x64 panel.
const (
	OLEDWidth  = 128
	OLEDHeight = 64
)

// ValidContent reports whether content is a known OLED selector.
func ValidContent(content string) bool {
	switch content {
	case ContentAttitude, ContentPosition, ContentPower:
		return true
	}
	return false
}

// OLEDFrame draws one monochrome frame. A nil snap draws the waiting screen.
func OLEDFrame(content string, snap *telemetry.Snapshot) (*image1bit.VerticalLSB, error) {
	if !ValidContent(content) {
		return nil, fmt.Errorf("unknown display content type: %s", content)
	}
	img := image1bit.NewVerticalLSB(image.Rect(0, 0, OLEDWidth, OLEDHeight))
	drawer := &font.Drawer{
		Dst:  img,
		Src:  &image.Uniform{image1bit.On},
		Face: basicfont.Face7x13,
	}
	line := func(row int, s string) {
		drawer.Dot = fixed.P(0, 13*(row+1))
		drawer.DrawString(s)
	}

	if snap == nil {
		line(1, titles[content])
		line(2, "Waiting...")
		return img, nil
	}

	switch content {
	case ContentAttitude:
		line(0, fmt.Sprintf("R: %6.1f", snap.Roll))
		line(1, fmt.Sprintf("P: %6.1f", snap.Pitch))
		line(2, fmt.Sprintf("Y: %6.1f %s", snap.Yaw, orientation.CompassPoint(snap.Yaw)))
	case ContentPosition:
		lat, latDir := snap.Latitude, "N"
		if lat < 0 {
			lat, latDir = -lat, "S"
		}
		lon, lonDir := snap.Longitude, "E"
		if lon < 0 {
			lon, lonDir = -lon, "W"
		}
		line(0, fmt.Sprintf("%.4f%s", lat, latDir))
		line(1, fmt.Sprintf("%.4f%s", lon, lonDir))
		line(2, fmt.Sprintf("Alt: %.0fm", snap.Altitude))
	case ContentPower:
		line(0, fmt.Sprintf("Bat: %.2fV", snap.Battery))
		line(1, fmt.Sprintf("Tmp: %.1fC", snap.Temperature))
		line(2, "Lnk: "+snap.Connection.String())
	}
	return img, nil
}

var titles = map[string]string{
	ContentAttitude: "Attitude",
	ContentPosition: "GPS Position",
	ContentPower:    "Power",
}
