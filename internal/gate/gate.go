// Package gate tracks whether a visual transition is playing. While one
// is, the event loop re-renders instead of reading input.
package gate

import (
	"time"

	"dangit/internal/clock"
)

// Effect names the transition being played.
type Effect string

const (
	EffectNone   Effect = ""
	EffectReveal Effect = "reveal" // data finished loading
	EffectTab    Effect = "tab"    // active tab changed
)

// Gate is either idle or playing one effect for a fixed duration. It
// never blocks; the owner polls Check once per render tick.
type Gate struct {
	clock    clock.Clock
	effect   Effect
	start    time.Time
	duration time.Duration
}

// New returns an idle gate.
func New(c clock.Clock) *Gate {
	return &Gate{clock: c}
}

// Play starts effect for d, replacing any effect in progress. A
// non-positive duration leaves the gate idle.
func (g *Gate) Play(effect Effect, d time.Duration) {
	if d <= 0 || effect == EffectNone {
		g.stop()
		return
	}
	g.effect = effect
	g.start = g.clock.Now()
	g.duration = d
}

// Check returns whether an effect is still playing, going idle once the
// effect's duration has elapsed.
func (g *Gate) Check() bool {
	if g.effect == EffectNone {
		return false
	}
	if g.clock.Now().Sub(g.start) >= g.duration {
		g.stop()
		return false
	}
	return true
}

// Playing reports the current status without advancing it.
func (g *Gate) Playing() bool {
	return g.effect != EffectNone
}

// Effect returns the effect in progress, or EffectNone.
func (g *Gate) Effect() Effect {
	return g.effect
}

// Progress is how far the current effect has run, from 0 to 1. An idle
// gate reports 1.
func (g *Gate) Progress() float64 {
	if g.effect == EffectNone {
		return 1
	}
	elapsed := g.clock.Now().Sub(g.start)
	if elapsed <= 0 {
		return 0
	}
	if elapsed >= g.duration {
		return 1
	}
	return float64(elapsed) / float64(g.duration)
}

func (g *Gate) stop() {
	g.effect = EffectNone
	g.duration = 0
}
