// Package loop runs the dashboard: render, wait out any transition, read
// the next input event, apply it, perform the resulting action.
//
// A Loop owns its navigation state exclusively. Input, rendering, and
// opening links are collaborators behind interfaces so the loop can be
// driven by a terminal or by a scripted event sequence.
package loop

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"dangit/internal/clock"
	"dangit/internal/gate"
	"dangit/internal/nav"
)

// ErrInputClosed is returned by an Input that has no more events.
var ErrInputClosed = errors.New("loop: input closed")

// Key is an abstract key press, independent of any terminal library.
type Key int

const (
	KeyNone Key = iota // an event the dashboard ignores
	KeyMoveNext
	KeyMovePrevious
	KeyNextTab
	KeyActivate
	KeyQuit
)

// Event is one input event.
type Event struct {
	Key Key
}

// Command maps the event to a navigation command. Ignorable events
// report false.
func (e Event) Command() (nav.Command, bool) {
	switch e.Key {
	case KeyMoveNext:
		return nav.SelectNext, true
	case KeyMovePrevious:
		return nav.SelectPrevious, true
	case KeyNextTab:
		return nav.NextTab, true
	case KeyActivate:
		return nav.Activate, true
	case KeyQuit:
		return nav.Quit, true
	default:
		return 0, false
	}
}

// Input delivers events in arrival order. Next blocks until an event
// is available or ctx is done.
type Input interface {
	Next(ctx context.Context) (Event, error)
}

// Frame is everything the renderer paints for one tick.
type Frame struct {
	View     nav.View
	Effect   gate.Effect
	Progress float64 // of Effect, 0..1
	Status   string  // last error worth showing, if any
}

// Renderer paints a frame. It must not retain or modify the frame's
// slices.
type Renderer interface {
	Render(Frame)
}

// Opener opens a URL outside the dashboard.
type Opener interface {
	Open(url string) error
}

// OpenerFunc adapts a function to Opener.
type OpenerFunc func(url string) error

func (f OpenerFunc) Open(url string) error { return f(url) }

// Config wires a Loop to its collaborators.
type Config struct {
	Input    Input
	Renderer Renderer
	Opener   Opener

	// Clock defaults to clock.Real().
	Clock clock.Clock

	// Logger defaults to slog.Default().
	Logger *slog.Logger

	// Tick is the sleep between renders while a transition plays.
	Tick time.Duration

	// Reveal is played once when the loop starts. Zero disables it.
	Reveal time.Duration

	// TabTransition is played on every tab change. Zero disables it.
	TabTransition time.Duration
}

// DefaultTick is used when Config.Tick is not set.
const DefaultTick = 16 * time.Millisecond

type Loop struct {
	state  nav.State
	gate   *gate.Gate
	cfg    Config
	status string
}

// New returns a loop over state.
func New(state nav.State, cfg Config) *Loop {
	if cfg.Clock == nil {
		cfg.Clock = clock.Real()
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.Tick <= 0 {
		cfg.Tick = DefaultTick
	}
	return &Loop{
		state: state,
		gate:  gate.New(cfg.Clock),
		cfg:   cfg,
	}
}

// State returns the current navigation state.
func (l *Loop) State() nav.State { return l.state }

// Run loops until Quit is applied, returning the final state. It also
// returns early with an error when ctx is done or the input fails; a
// failure to open a link is reported in the next frame instead.
func (l *Loop) Run(ctx context.Context) (nav.State, error) {
	l.gate.Play(gate.EffectReveal, l.cfg.Reveal)
	if l.gate.Playing() {
		l.cfg.Logger.Debug("transition started", "effect", gate.EffectReveal, "duration", l.cfg.Reveal)
	}

	for l.state.Running() {
		if err := ctx.Err(); err != nil {
			return l.state, err
		}

		l.render()

		if l.gate.Check() {
			l.cfg.Clock.Sleep(l.cfg.Tick)
			continue
		}

		ev, err := l.cfg.Input.Next(ctx)
		if err != nil {
			return l.state, err
		}

		cmd, ok := ev.Command()
		if !ok {
			continue
		}
		l.apply(cmd)
	}

	l.cfg.Logger.Info("dashboard loop finished")
	return l.state, nil
}

func (l *Loop) apply(cmd nav.Command) {
	prev := l.state.Tab()

	var action nav.Action
	l.state, action = l.state.Update(cmd)
	l.status = ""

	if l.state.Tab() != prev {
		l.gate.Play(gate.EffectTab, l.cfg.TabTransition)
	}

	switch a := action.(type) {
	case nav.OpenURL:
		if err := l.cfg.Opener.Open(a.URL); err != nil {
			l.cfg.Logger.Warn("open url failed", "url", a.URL, "error", err)
			l.status = err.Error()
		}
	case nil:
	}
}

func (l *Loop) render() {
	l.cfg.Renderer.Render(Frame{
		View:     l.state.View(),
		Effect:   l.gate.Effect(),
		Progress: l.gate.Progress(),
		Status:   l.status,
	})
}
