// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

// Package panel turns telemetry snapshots into things people look at:
// status text, gauge readings, trend charts and OLED frames.
package panel

import (
	"fmt"
	"math"
	"time"

	"github.com/dustin/go-humanize"
	"periph.io/x/conn/v3/physic"

	"github.com/relabs-tech/drone_telemetry/internal/orientation"
	"github.com/relabs-tech/drone_telemetry/internal/telemetry"
)

// attitudeRange is the full-scale deflection of the attitude gauges.
const attitudeRange = 30.0

// Gauges holds normalised readings for the dashboard dials.
type Gauges struct {
	BatteryPercent float64 `json:"battery_percent"` // 0-100 of a full pack
	LinkBars       int     `json:"link_bars"`       // 0-3
	Roll           float64 `json:"roll"`            // -1..1 of ±30°
	Pitch          float64 `json:"pitch"`           // -1..1 of ±30°
	Heading        string  `json:"heading"`         // 16-wind compass point
	Level          bool    `json:"level"`
}

// GaugesFor derives gauge readings from a snapshot.
func GaugesFor(snap telemetry.Snapshot) Gauges {
	return Gauges{
		BatteryPercent: clamp(snap.Battery/telemetry.InitialBattery*100, 0, 100),
		LinkBars:       snap.Connection.Bars(),
		Roll:           clamp(snap.Roll/attitudeRange, -1, 1),
		Pitch:          clamp(snap.Pitch/attitudeRange, -1, 1),
		Heading:        orientation.CompassPoint(snap.Yaw),
		Level:          snap.Pose().Level(5),
	}
}

// StatusLines renders the status text block. now is only used for the
// "updated ... ago" line.
func StatusLines(snap telemetry.Snapshot, now time.Time) []string {
	g := GaugesFor(snap)
	return []string{
		fmt.Sprintf("BATTERY  %s (%.0f%%)", volts(snap.Battery), g.BatteryPercent),
		fmt.Sprintf("LINK     %s [%s]", snap.Connection, bars(g.LinkBars)),
		fmt.Sprintf("ATTITUDE R=%6.2f  P=%6.2f  Y=%6.2f (%s)", snap.Roll, snap.Pitch, snap.Yaw, g.Heading),
		fmt.Sprintf("TEMP     %s", celsius(snap.Temperature)),
		fmt.Sprintf("ALTITUDE %s", metres(snap.Altitude)),
		fmt.Sprintf("POSITION %s, %s", humanize.FtoaWithDigits(snap.Latitude, 6), humanize.FtoaWithDigits(snap.Longitude, 6)),
		"UPDATED  " + humanize.RelTime(snap.Time(), now, "ago", "from now"),
	}
}

func volts(v float64) string {
	return physic.ElectricPotential(math.Round(v * float64(physic.Volt))).String()
}

func celsius(c float64) string {
	t := physic.ZeroCelsius + physic.Temperature(math.Round(c*float64(physic.Celsius)))
	return fmt.Sprintf("%.2f°C", t.Celsius())
}

func metres(m float64) string {
	return physic.Distance(math.Round(m * float64(physic.Metre))).String()
}

func bars(n int) string {
	b := []byte("---")
	for i := 0; i < n && i < len(b); i++ {
		b[i] = '|'
	}
	return string(b)
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
