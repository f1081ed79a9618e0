// SPDX-License-Identifier: MIT

package rng

import "sync"

// constant is a Source that always returns the same uniform value.
type constant struct{ p float64 }

// Constant returns a deterministic Source: Uniform always yields p and
// Gaussian always yields 0. Comparing probabilities against it turns
// stochastic sampling into a fixed threshold at p.
func Constant(p float64) Source { return constant{p: p} }

func (c constant) Uniform() float64  { return c.p }
func (c constant) Gaussian() float64 { return 0 }

// sequence replays a fixed list of values in order, wrapping around.
type sequence struct {
	mu   sync.Mutex
	vals []float64
	next int
}

// Sequence returns a Source that cycles through vals for both Uniform and
// Gaussian draws (one shared cursor). With no values it behaves like
// Constant(0). Draw order across goroutines is not defined, so tests that
// need exact replay should stay below matrix.ParallelRowThreshold rows.
func Sequence(vals ...float64) Source {
	cp := make([]float64, len(vals))
	copy(cp, vals)

	return &sequence{vals: cp}
}

func (s *sequence) draw() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.vals) == 0 {
		return 0
	}
	v := s.vals[s.next]
	s.next = (s.next + 1) % len(s.vals)

	return v
}

func (s *sequence) Uniform() float64  { return s.draw() }
func (s *sequence) Gaussian() float64 { return s.draw() }
