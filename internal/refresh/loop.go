// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

// Package refresh drives the telemetry generator at a fixed cadence and
// hands each snapshot to the renderers.
package refresh

import (
	"context"
	"log"
	"sync/atomic"
	"time"

	"github.com/relabs-tech/drone_telemetry/internal/history"
	"github.com/relabs-tech/drone_telemetry/internal/telemetry"
)

// DefaultInterval is the delay between two cycles.
const DefaultInterval = time.Second

// Renderer consumes one cycle's output. Both arguments are values owned by
// the renderer; neither is touched again by the loop.
type Renderer interface {
	Render(snap telemetry.Snapshot, trend []history.Entry) error
}

// RendererFunc adapts a function to Renderer.
type RendererFunc func(snap telemetry.Snapshot, trend []history.Entry) error

func (f RendererFunc) Render(snap telemetry.Snapshot, trend []history.Entry) error {
	return f(snap, trend)
}

// Clock supplies tick timestamps.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// Sleeper waits d or until ctx is done, returning ctx.Err() in the latter
// case.
type Sleeper func(ctx context.Context, d time.Duration) error

func sleepContext(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// Option configures a Loop.
type Option func(*Loop)

func WithClock(c Clock) Option { return func(l *Loop) { l.clock = c } }

func WithSleeper(s Sleeper) Option { return func(l *Loop) { l.sleep = s } }

func WithRenderers(r ...Renderer) Option {
	return func(l *Loop) { l.renderers = append(l.renderers, r...) }
}

// Loop is a repeat-with-fixed-delay task. Step and Run must be called from
// a single goroutine; Pause and Resume may be called from anywhere.
type Loop struct {
	gen       *telemetry.Generator
	hist      *history.Buffer
	renderers []Renderer
	interval  time.Duration
	clock     Clock
	sleep     Sleeper

	paused atomic.Bool
	cycles atomic.Int64
}

// New builds a loop around gen and hist. A non-positive interval selects
// DefaultInterval.
func New(gen *telemetry.Generator, hist *history.Buffer, interval time.Duration, opts ...Option) *Loop {
	if interval <= 0 {
		interval = DefaultInterval
	}
	l := &Loop{
		gen:      gen,
		hist:     hist,
		interval: interval,
		clock:    systemClock{},
		sleep:    sleepContext,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Step runs one cycle: tick, record altitude, render.
func (l *Loop) Step() telemetry.Snapshot {
	snap := l.gen.Tick(l.clock.Now())
	l.hist.Record(snap.Label(), snap.Altitude)
	trend := l.hist.Snapshot()

	for _, r := range l.renderers {
		if err := r.Render(snap, trend); err != nil {
			log.Printf("refresh: renderer %T: %v", r, err)
		}
	}
	l.cycles.Add(1)
	return snap
}

// Run steps until ctx is cancelled and returns ctx.Err(). Paused cycles
// skip the tick but keep the cadence.
func (l *Loop) Run(ctx context.Context) error {
	log.Printf("refresh: loop started (interval %s, %d renderers)", l.interval, len(l.renderers))
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		if !l.paused.Load() {
			l.Step()
		}
		if err := l.sleep(ctx, l.interval); err != nil {
			log.Printf("refresh: loop stopped after %d cycles", l.cycles.Load())
			return err
		}
	}
}

func (l *Loop) Pause()       { l.paused.Store(true) }
func (l *Loop) Resume()      { l.paused.Store(false) }
func (l *Loop) Paused() bool { return l.paused.Load() }

// Cycles is the number of completed Steps.
func (l *Loop) Cycles() int64 { return l.cycles.Load() }

func (l *Loop) Interval() time.Duration { return l.interval }
