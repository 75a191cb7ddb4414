// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package refresh

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/relabs-tech/drone_telemetry/internal/history"
	"github.com/relabs-tech/drone_telemetry/internal/telemetry"
)

type manualClock struct{ now time.Time }

func (c *manualClock) Now() time.Time { return c.now }

// sleeperFor advances clock by d on every call and cancels after n calls.
func sleeperFor(clock *manualClock, cancel context.CancelFunc, n int, onSleep func(call int)) (Sleeper, *int) {
	calls := 0
	return func(ctx context.Context, d time.Duration) error {
		calls++
		clock.now = clock.now.Add(d)
		if onSleep != nil {
			onSleep(calls)
		}
		if calls >= n {
			cancel()
		}
		return ctx.Err()
	}, &calls
}

type recorder struct {
	snaps  []telemetry.Snapshot
	trends [][]history.Entry
	err    error
}

func (r *recorder) Render(snap telemetry.Snapshot, trend []history.Entry) error {
	r.snaps = append(r.snaps, snap)
	r.trends = append(r.trends, trend)
	return r.err
}

func newFixture(t *testing.T, capacity int) (*telemetry.Generator, *history.Buffer, *manualClock) {
	t.Helper()
	clock := &manualClock{now: time.Unix(1700000000, 0)}
	gen := telemetry.NewGenerator(clock.now, telemetry.NewRandSource(7))
	return gen, history.New(capacity), clock
}

func TestStepRecordsAltitudeAndRenders(t *testing.T) {
	gen, hist, clock := newFixture(t, 20)
	rec := &recorder{}
	loop := New(gen, hist, time.Second, WithClock(clock), WithRenderers(rec))

	clock.now = clock.now.Add(time.Second)
	snap := loop.Step()

	require.Len(t, rec.snaps, 1)
	assert.Equal(t, snap, rec.snaps[0])
	require.Len(t, rec.trends[0], 1)
	assert.Equal(t, snap.Label(), rec.trends[0][0].Label)
	assert.Equal(t, snap.Altitude, rec.trends[0][0].Value)
	assert.EqualValues(t, 1, loop.Cycles())
}

func TestRunGrowsHistoryOncePerCycle(t *testing.T) {
	gen, hist, clock := newFixture(t, 20)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var lens []int
	sleep, calls := sleeperFor(clock, cancel, 5, func(int) { lens = append(lens, hist.Len()) })
	rec := &recorder{}
	loop := New(gen, hist, 2*time.Second, WithClock(clock), WithSleeper(sleep), WithRenderers(rec))

	err := loop.Run(ctx)

	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 5, *calls)
	assert.Equal(t, []int{1, 2, 3, 4, 5}, lens)
	assert.EqualValues(t, 5, loop.Cycles())

	// consecutive snapshots are one interval apart
	for i := 1; i < len(rec.snaps); i++ {
		assert.Equal(t, rec.snaps[i-1].Time().Add(2*time.Second), rec.snaps[i].Time())
	}
}

func TestRunHistoryCapsAtCapacity(t *testing.T) {
	gen, hist, clock := newFixture(t, 20)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sleep, _ := sleeperFor(clock, cancel, 25, nil)
	rec := &recorder{}
	loop := New(gen, hist, time.Second, WithClock(clock), WithSleeper(sleep), WithRenderers(rec))

	_ = loop.Run(ctx)

	trend := hist.Snapshot()
	require.Len(t, trend, 20)
	for i, e := range trend {
		assert.Equal(t, rec.snaps[i+5].Label(), e.Label)
		assert.Equal(t, rec.snaps[i+5].Altitude, e.Value)
	}
}

func TestRendererErrorDoesNotStopLoop(t *testing.T) {
	gen, hist, clock := newFixture(t, 20)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sleep, _ := sleeperFor(clock, cancel, 3, nil)
	failing := &recorder{err: errors.New("display unplugged")}
	healthy := &recorder{}
	loop := New(gen, hist, time.Second, WithClock(clock), WithSleeper(sleep), WithRenderers(failing, healthy))

	err := loop.Run(ctx)

	assert.ErrorIs(t, err, context.Canceled)
	assert.Len(t, failing.snaps, 3)
	assert.Len(t, healthy.snaps, 3)
}

func TestPausedLoopSkipsTicks(t *testing.T) {
	gen, hist, clock := newFixture(t, 20)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var loop *Loop
	sleep, _ := sleeperFor(clock, cancel, 6, func(call int) {
		switch call {
		case 2:
			loop.Pause()
		case 4:
			loop.Resume()
		}
	})
	rec := &recorder{}
	loop = New(gen, hist, time.Second, WithClock(clock), WithSleeper(sleep), WithRenderers(rec))

	_ = loop.Run(ctx)

	// cycles 1, 2, 5, 6 run; 3 and 4 are paused
	assert.Len(t, rec.snaps, 4)
	assert.Equal(t, 4, hist.Len())
	assert.False(t, loop.Paused())
}

func TestRunReturnsImmediatelyOnCancelledContext(t *testing.T) {
	gen, hist, clock := newFixture(t, 20)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	rec := &recorder{}
	loop := New(gen, hist, time.Second, WithClock(clock), WithRenderers(rec))

	assert.ErrorIs(t, loop.Run(ctx), context.Canceled)
	assert.Empty(t, rec.snaps)
}

func TestNewDefaultsInterval(t *testing.T) {
	gen, hist, _ := newFixture(t, 20)
	assert.Equal(t, DefaultInterval, New(gen, hist, 0).Interval())
	assert.Equal(t, 250*time.Millisecond, New(gen, hist, 250*time.Millisecond).Interval())
}

func TestSleepContextHonoursCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, sleepContext(ctx, time.Hour), context.Canceled)
	assert.NoError(t, sleepContext(context.Background(), time.Millisecond))
}

func TestRendererFunc(t *testing.T) {
	called := false
	var r Renderer = RendererFunc(func(telemetry.Snapshot, []history.Entry) error {
		called = true
		return nil
	})
	require.NoError(t, r.Render(telemetry.Snapshot{}, nil))
	assert.True(t, called)
}
