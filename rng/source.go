// SPDX-License-Identifier: MIT
// Package rng is the single source of randomness for the RBM engine.
//
// Purpose:
//   - Define the Source interface every stochastic component draws from.
//   - Provide Locked, a *math/rand.Rand behind a mutex: one draw is one
//     critical section, so matrix generation may fan out over rows without
//     losing or duplicating draws.
//   - Provide Gaussian draws via Box–Muller.
//
// AI-Hints:
//   - Inject a Source (rbm.WithSource, dbn.WithSource) instead of relying on
//     Default() when reproducibility matters.
package rng

import (
	"math"
	"math/rand"
	"sync"
	"time"
)

// Source yields independent random draws. Implementations must be safe for
// concurrent use.
type Source interface {
	// Uniform returns a draw from U[0,1).
	Uniform() float64
	// Gaussian returns a draw from N(0,1).
	Gaussian() float64
}

// Locked is a mutex-guarded pseudo-random generator.
type Locked struct {
	mu sync.Mutex
	r  *rand.Rand
}

var _ Source = (*Locked)(nil)

// New returns a Locked source seeded deterministically.
func New(seed int64) *Locked {
	return &Locked{r: rand.New(rand.NewSource(seed))}
}

// NewTimeSeeded returns a Locked source seeded from the wall clock.
func NewTimeSeeded() *Locked {
	return New(time.Now().UnixNano())
}

var (
	defaultOnce sync.Once
	defaultSrc  *Locked
)

// Default returns the process-wide shared source, created on first use.
func Default() *Locked {
	defaultOnce.Do(func() { defaultSrc = NewTimeSeeded() })

	return defaultSrc
}

// Uniform returns a draw from U[0,1).
func (l *Locked) Uniform() float64 {
	l.mu.Lock()
	v := l.r.Float64()
	l.mu.Unlock()

	return v
}

// Gaussian returns a standard normal draw via Box–Muller.
// u1 is redrawn until non-zero so the logarithm stays finite; each uniform is
// its own locked draw.
func (l *Locked) Gaussian() float64 {
	return boxMuller(l)
}

// boxMuller turns two independent uniforms from src into one N(0,1) draw.
func boxMuller(src Source) float64 {
	u1 := src.Uniform()
	for u1 == 0 {
		u1 = src.Uniform()
	}
	u2 := src.Uniform()

	return math.Sqrt(-2*math.Log(u1)) * math.Sin(2*math.Pi*u2)
}
