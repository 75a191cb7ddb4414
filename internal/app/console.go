// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package app

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/relabs-tech/drone_telemetry/internal/config"
	"github.com/relabs-tech/drone_telemetry/internal/history"
	"github.com/relabs-tech/drone_telemetry/internal/refresh"
	"github.com/relabs-tech/drone_telemetry/internal/telemetry"
)

// consoleRenderer prints one line per cycle.
type consoleRenderer struct {
	w io.Writer
}

func (c consoleRenderer) Render(s telemetry.Snapshot, trend []history.Entry) error {
	_, err := fmt.Fprintf(c.w,
		"[%s] BAT=%5.2fV  ROLL=%6.2f  PITCH=%6.2f  YAW=%6.2f  TEMP=%5.2f  ALT=%6.2f (n=%d)  LAT=%.6f  LON=%.6f  LINK=%s\n",
		s.Label(), s.Battery, s.Roll, s.Pitch, s.Yaw, s.Temperature, s.Altitude, len(trend), s.Latitude, s.Longitude, s.Connection,
	)
	return err
}

// RunConsole runs the simulator with the console as its only renderer.
func RunConsole(ctx context.Context, cfg *config.Config, w io.Writer) error {
	gen := telemetry.NewGenerator(time.Now(), telemetry.NewRandSource(cfg.RandomSeed))
	loop := refresh.New(gen, history.New(cfg.HistoryCapacity),
		time.Duration(cfg.RefreshInterval)*time.Millisecond,
		refresh.WithRenderers(consoleRenderer{w: w}),
	)
	return ignoreCancel(ctx, loop.Run(ctx))
}

// ignoreCancel maps the loop's shutdown error to nil once ctx is done.
func ignoreCancel(ctx context.Context, err error) error {
	if ctx.Err() != nil {
		return nil
	}
	return err
}
