// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package telemetry

import (
	"math"
	"time"

	"github.com/relabs-tech/drone_telemetry/internal/orientation"
)

// Starting values for a freshly initialized generator.
const (
	InitialBattery     = 12.0 // V
	InitialTemperature = 25.0 // °C
	InitialAltitude    = 100.0
	InitialLatitude    = 37.7749
	InitialLongitude   = -122.4194
)

// State is the full-precision simulator state. Only Generator.Tick mutates it.
type State struct {
	Battery     float64
	Roll        float64
	Pitch       float64
	Yaw         float64
	Temperature float64
	Altitude    float64
	Latitude    float64
	Longitude   float64
	Link        LinkQuality
	LastUpdate  time.Time
}

// InitialState returns the documented starting point with the given
// reference time.
func InitialState(start time.Time) State {
	return State{
		Battery:     InitialBattery,
		Temperature: InitialTemperature,
		Altitude:    InitialAltitude,
		Latitude:    InitialLatitude,
		Longitude:   InitialLongitude,
		Link:        LinkExcellent,
		LastUpdate:  start,
	}
}

// Snapshot projects the state onto the rounded output record. The state
// itself is left untouched.
func (s State) Snapshot() Snapshot {
	return Snapshot{
		Battery:     round(s.Battery, 2),
		Roll:        round(s.Roll, 2),
		Pitch:       round(s.Pitch, 2),
		Yaw:         orientation.Normalize(round(s.Yaw, 2)), // 359.996 must not surface as 360
		Temperature: round(s.Temperature, 2),
		Altitude:    round(s.Altitude, 2),
		Latitude:    round(s.Latitude, 6),
		Longitude:   round(s.Longitude, 6),
		Connection:  s.Link,
		Timestamp:   epochSeconds(s.LastUpdate),
	}
}

func round(v float64, decimals int) float64 {
	p := math.Pow10(decimals)
	return math.Round(v*p) / p
}

func epochSeconds(t time.Time) float64 {
	return float64(t.UnixNano()) / 1e9
}
