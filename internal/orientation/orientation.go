// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package orientation

import (
	"math"
)

// Pose is the canonical representation of attitude for the app.
type Pose struct {
	Roll  float64 `json:"roll"`
	Pitch float64 `json:"pitch"`
	Yaw   float64 `json:"yaw"`
}

// Normalize wraps a heading into [0, 360).
func Normalize(deg float64) float64 {
	m := math.Mod(deg, 360)
	if m < 0 {
		m += 360
	}
	// -1e-15 + 360 rounds to 360 in float64.
	if m >= 360 {
		m = 0
	}
	return m
}

var compassPoints = [...]string{
	"N", "NNE", "NE", "ENE", "E", "ESE", "SE", "SSE",
	"S", "SSW", "SW", "WSW", "W", "WNW", "NW", "NNW",
}

// CompassPoint returns the 16-wind label for a heading in degrees.
func CompassPoint(yaw float64) string {
	i := int(math.Floor(Normalize(yaw)/22.5+0.5)) % len(compassPoints)
	return compassPoints[i]
}

// Level reports whether roll and pitch are both within tol degrees.
func (p Pose) Level(tol float64) bool {
	return math.Abs(p.Roll) <= tol && math.Abs(p.Pitch) <= tol
}
