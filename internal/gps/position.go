// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package gps

import (
	"fmt"
	"math"
	"time"

	nmea "github.com/adrianmo/go-nmea"
)

// Position is a simulated GPS fix suitable for JSON and NMEA output.
type Position struct {
	Latitude  float64 `json:"lat"` // decimal degrees
	Longitude float64 `json:"lon"` // decimal degrees
	Altitude  float64 `json:"alt"` // metres above MSL
}

// Fixed receiver figures reported in GGA.
const (
	simSatellites = 8
	simHDOP       = 0.9
)

// RMC builds a checksummed $GPRMC sentence. The drone hovers, so speed is
// reported as zero and course carries the heading.
func RMC(pos Position, courseDeg float64, t time.Time) string {
	t = t.UTC()
	lat, ns := formatLat(pos.Latitude)
	lon, ew := formatLon(pos.Longitude)
	body := fmt.Sprintf("GPRMC,%s,A,%s,%s,%s,%s,0.0,%.1f,%s,,,A",
		t.Format("150405.00"), lat, ns, lon, ew, courseDeg, t.Format("020106"))
	return sentence(body)
}

// GGA builds a checksummed $GPGGA sentence with a standard GPS fix.
func GGA(pos Position, t time.Time) string {
	t = t.UTC()
	lat, ns := formatLat(pos.Latitude)
	lon, ew := formatLon(pos.Longitude)
	body := fmt.Sprintf("GPGGA,%s,%s,%s,%s,%s,1,%02d,%.1f,%.1f,M,0.0,M,,",
		t.Format("150405.00"), lat, ns, lon, ew, simSatellites, simHDOP, pos.Altitude)
	return sentence(body)
}

func sentence(body string) string {
	return "$" + body + "*" + nmea.Checksum(body)
}

// formatLat renders ddmm.mmmm plus hemisphere.
func formatLat(deg float64) (string, string) {
	dir := "N"
	if deg < 0 {
		dir = "S"
	}
	d, m := degMin(deg)
	return fmt.Sprintf("%02d%07.4f", d, m), dir
}

// formatLon renders dddmm.mmmm plus hemisphere.
func formatLon(deg float64) (string, string) {
	dir := "E"
	if deg < 0 {
		dir = "W"
	}
	d, m := degMin(deg)
	return fmt.Sprintf("%03d%07.4f", d, m), dir
}

func degMin(deg float64) (int, float64) {
	deg = math.Abs(deg)
	d := math.Floor(deg)
	m := (deg - d) * 60
	// 59.99996 would print as 60.0000
	if math.Round(m*1e4)/1e4 >= 60 {
		d++
		m = 0
	}
	return int(d), m
}
