// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package telemetry

import (
	"math"
	"time"

	"github.com/relabs-tech/drone_telemetry/internal/gps"
	"github.com/relabs-tech/drone_telemetry/internal/orientation"
)

// LabelLayout is the clock format used for trend labels.
const LabelLayout = "15:04:05"

// Snapshot is the rounded, immutable record handed to renderers each tick.
type Snapshot struct {
	Battery     float64     `json:"battery"`     // V
	Roll        float64     `json:"roll"`        // deg
	Pitch       float64     `json:"pitch"`       // deg
	Yaw         float64     `json:"yaw"`         // deg, [0, 360)
	Temperature float64     `json:"temperature"` // °C
	Altitude    float64     `json:"altitude"`    // m
	Latitude    float64     `json:"latitude"`
	Longitude   float64     `json:"longitude"`
	Connection  LinkQuality `json:"connection"`
	Timestamp   float64     `json:"timestamp"` // epoch seconds
}

// Time converts Timestamp back to a time.Time.
func (s Snapshot) Time() time.Time {
	sec, frac := math.Modf(s.Timestamp)
	return time.Unix(int64(sec), int64(math.Round(frac*1e9)))
}

// Label is the trend-chart label for this snapshot.
func (s Snapshot) Label() string {
	return s.Time().Format(LabelLayout)
}

func (s Snapshot) Pose() orientation.Pose {
	return orientation.Pose{Roll: s.Roll, Pitch: s.Pitch, Yaw: s.Yaw}
}

func (s Snapshot) Position() gps.Position {
	return gps.Position{Latitude: s.Latitude, Longitude: s.Longitude, Altitude: s.Altitude}
}
