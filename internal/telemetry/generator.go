// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

// Package telemetry simulates the sensor channels of a single drone.
//
// A Generator advances its State once per Tick. Periodic channels (roll,
// pitch, altitude) take their phase from absolute wall-clock time, so two
// processes ticking at the same instant agree on phase regardless of when
// they started. Temperature and altitude are recomputed from their baselines
// every tick; battery and position accumulate.
package telemetry

import (
	"math"
	"time"

	"github.com/relabs-tech/drone_telemetry/internal/orientation"
)

// Noise bounds and rates, per tick unless marked per second.
const (
	drainMin, drainMax = 0.01, 0.05 // V/s
	attitudeAmplitude  = 15.0       // deg
	attitudeFreq       = 0.1        // rad/s
	attitudeNoise      = 2.0        // deg
	yawStep            = 5.0        // deg
	temperatureNoise   = 1.0        // °C/s
	altitudeAmplitude  = 20.0       // m
	altitudeFreq       = 0.05       // rad/s
	altitudeNoise      = 5.0        // m
	positionDrift      = 0.0001     // deg/s
	linkRerollRate     = 0.05       // 1/s
)

// Generator owns the simulated telemetry state. It is not safe for
// concurrent use; the refresh loop is its only caller.
type Generator struct {
	state State
	rnd   RandSource
}

// NewGenerator initializes the state and records start as the reference
// clock. A nil rnd selects a time-seeded math/rand source.
func NewGenerator(start time.Time, rnd RandSource) *Generator {
	if rnd == nil {
		rnd = NewRandSource(0)
	}
	return &Generator{state: InitialState(start), rnd: rnd}
}

// State returns a full-precision copy of the current state.
func (g *Generator) State() State {
	return g.state
}

// Tick advances every channel to now and returns the rounded snapshot.
// A now earlier than the last update is treated as zero elapsed time.
func (g *Generator) Tick(now time.Time) Snapshot {
	s := &g.state

	dt := now.Sub(s.LastUpdate).Seconds()
	if dt < 0 {
		dt = 0
	}
	phase := epochSeconds(now)

	s.Battery = math.Max(0, s.Battery-g.rnd.Uniform(drainMin, drainMax)*dt)

	s.Roll = attitudeAmplitude*math.Sin(phase*attitudeFreq) + g.rnd.Uniform(-attitudeNoise, attitudeNoise)
	s.Pitch = attitudeAmplitude*math.Cos(phase*attitudeFreq) + g.rnd.Uniform(-attitudeNoise, attitudeNoise)
	s.Yaw = orientation.Normalize(s.Yaw + g.rnd.Uniform(-yawStep, yawStep))

	s.Temperature = InitialTemperature + g.rnd.Uniform(-temperatureNoise, temperatureNoise)*dt
	s.Altitude = math.Max(0, InitialAltitude+altitudeAmplitude*math.Sin(phase*altitudeFreq)+g.rnd.Uniform(-altitudeNoise, altitudeNoise))

	s.Latitude += g.rnd.Uniform(-positionDrift, positionDrift) * dt
	s.Longitude += g.rnd.Uniform(-positionDrift, positionDrift) * dt

	// The probability is not clamped: with dt >= 20 every draw re-rolls.
	if g.rnd.Uniform(0, 1) < linkRerollRate*dt {
		s.Link = pickLink(g.rnd.Uniform(0, float64(len(linkQualities))))
	}

	s.LastUpdate = now
	return s.Snapshot()
}

func pickLink(v float64) LinkQuality {
	i := int(math.Floor(v))
	if i < 0 {
		i = 0
	}
	if i >= len(linkQualities) {
		i = len(linkQualities) - 1
	}
	return linkQualities[i]
}
