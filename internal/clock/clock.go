// Package clock abstracts the two time operations the dashboard needs so
// the transition gate and event loop can be tested without waiting.
package clock

import (
	"sync"
	"time"
)

// Clock is implemented by Real and Fake.
type Clock interface {
	Now() time.Time
	Sleep(d time.Duration)
}

// Real returns a Clock backed by the time package.
func Real() Clock { return realClock{} }

type realClock struct{}

func (realClock) Now() time.Time        { return time.Now() }
func (realClock) Sleep(d time.Duration) { time.Sleep(d) }

// Fake is a manually driven Clock. Time stands still until Advance or
// Sleep is called; Sleep advances the clock instead of blocking, which
// keeps single-goroutine loops deterministic.
//
// Fake is safe for concurrent use.
type Fake struct {
	mu      sync.Mutex
	current time.Time
	slept   time.Duration
}

// NewFake returns a Fake set to initial.
func NewFake(initial time.Time) *Fake {
	return &Fake{current: initial}
}

func (f *Fake) Now() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.current
}

// Sleep advances the clock by d. Non-positive durations are ignored.
func (f *Fake) Sleep(d time.Duration) {
	if d <= 0 {
		return
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.current = f.current.Add(d)
	f.slept += d
}

// Advance moves the clock forward by d without counting as a sleep.
func (f *Fake) Advance(d time.Duration) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.current = f.current.Add(d)
}

// Slept returns the total duration passed to Sleep.
func (f *Fake) Slept() time.Duration {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.slept
}
