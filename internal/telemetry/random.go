// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package telemetry

import (
	"math/rand"
	"time"
)

// RandSource draws uniformly distributed values in [lo, hi).
type RandSource interface {
	Uniform(lo, hi float64) float64
}

type mathRandSource struct {
	r *rand.Rand
}

// NewRandSource returns a math/rand backed source. A zero seed picks a
// time-based one.
func NewRandSource(seed int64) RandSource {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &mathRandSource{r: rand.New(rand.NewSource(seed))}
}

func (s *mathRandSource) Uniform(lo, hi float64) float64 {
	return lo + s.r.Float64()*(hi-lo)
}
