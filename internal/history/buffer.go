// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

// Package history keeps a bounded, chronologically ordered window of
// labelled readings for trend display.
package history

import (
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// DefaultCapacity is the trend window length used by the dashboard.
const DefaultCapacity = 20

// Entry is one labelled reading.
type Entry struct {
	Label string  `json:"label"`
	Value float64 `json:"value"`
}

// Buffer is a fixed-capacity FIFO. Once full, each Record evicts the oldest
// entry. It is not safe for concurrent use.
type Buffer struct {
	entries []Entry
	head    int // index of the oldest entry once the ring is full
	cap     int
}

// New returns an empty buffer. Non-positive capacities select
// DefaultCapacity.
func New(capacity int) *Buffer {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Buffer{entries: make([]Entry, 0, capacity), cap: capacity}
}

// Record appends a reading, evicting the oldest one when over capacity.
func (b *Buffer) Record(label string, value float64) {
	e := Entry{Label: label, Value: value}
	if len(b.entries) < b.cap {
		b.entries = append(b.entries, e)
		return
	}
	b.entries[b.head] = e
	b.head = (b.head + 1) % b.cap
}

// Snapshot returns the contents oldest first. The returned slice is a copy.
func (b *Buffer) Snapshot() []Entry {
	out := make([]Entry, 0, len(b.entries))
	out = append(out, b.entries[b.head:]...)
	out = append(out, b.entries[:b.head]...)
	return out
}

func (b *Buffer) Len() int { return len(b.entries) }

func (b *Buffer) Cap() int { return b.cap }

// Stats summarises the values currently in the window.
type Stats struct {
	Count  int     `json:"count"`
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
	Mean   float64 `json:"mean"`
	StdDev float64 `json:"stddev"`
}

// Stats computes window statistics; the zero value is returned for an
// empty buffer.
func (b *Buffer) Stats() Stats {
	return Summarize(b.Snapshot())
}

// Summarize computes Stats over an arbitrary entry slice.
func Summarize(entries []Entry) Stats {
	if len(entries) == 0 {
		return Stats{}
	}
	values := make([]float64, len(entries))
	for i, e := range entries {
		values[i] = e.Value
	}
	s := Stats{
		Count: len(values),
		Min:   floats.Min(values),
		Max:   floats.Max(values),
		Mean:  stat.Mean(values, nil),
	}
	// Sample standard deviation is undefined for one value.
	if len(values) > 1 {
		s.StdDev = stat.StdDev(values, nil)
	}
	return s
}
