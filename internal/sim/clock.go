package sim

import (
	"math/rand"
	"time"
)

// Clock abstracts time so tests can run the full timeline without waiting.
type Clock interface {
	Now() time.Time
	After(d time.Duration) <-chan time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

func (systemClock) After(d time.Duration) <-chan time.Time { return time.After(d) }

// SystemClock returns the wall clock.
func SystemClock() Clock { return systemClock{} }

// Rand abstracts the failure draw so tests can force either branch.
type Rand interface {
	Float64() float64
}

type systemRand struct{}

// Float64 draws from the shared locked source, so concurrent runs are fine.
func (systemRand) Float64() float64 { return rand.Float64() }

// SystemRand returns the process-wide pseudo-random source.
func SystemRand() Rand { return systemRand{} }
