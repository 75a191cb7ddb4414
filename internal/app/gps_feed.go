// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package app

import (
	"github.com/relabs-tech/drone_telemetry/internal/gps"
	"github.com/relabs-tech/drone_telemetry/internal/history"
	"github.com/relabs-tech/drone_telemetry/internal/telemetry"
)

// gpsFeedRenderer emits the simulated position as NMEA sentences, so a
// ground-station tool can treat the simulator as a GPS receiver.
type gpsFeedRenderer struct {
	feed *gps.Feed
}

func (g gpsFeedRenderer) Render(snap telemetry.Snapshot, _ []history.Entry) error {
	return g.feed.Send(snap.Position(), snap.Yaw, snap.Time())
}
