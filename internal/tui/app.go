// Package tui is the terminal front end. It shows a spinner while the
// snapshot loads, then hands key presses to the dashboard loop and
// paints the frames the loop renders.
package tui

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"dangit/internal/forge"
	"dangit/internal/loop"
	"dangit/internal/model"
	"dangit/internal/nav"
)

// Options configures the dashboard.
type Options struct {
	Source forge.Source
	Opener loop.Opener
	Logger *slog.Logger

	Tick          time.Duration
	Reveal        time.Duration
	TabTransition time.Duration
}

// — messages ————————————————————————————————————————————————————————————————

type snapshotLoadedMsg struct {
	snap model.Snapshot
	err  error
}

type frameMsg struct {
	frame loop.Frame
}

type loopDoneMsg struct {
	err error
}

// — renderer ————————————————————————————————————————————————————————————————

// programRef is filled in once the program exists. Models are copied by
// value, so they share it through a pointer.
type programRef struct {
	p *tea.Program
}

// programRenderer forwards loop frames to the bubbletea program.
type programRenderer struct {
	ref *programRef
}

func (r programRenderer) Render(f loop.Frame) {
	r.ref.p.Send(frameMsg{frame: f})
}

// — model ———————————————————————————————————————————————————————————————————

type Model struct {
	ctx     context.Context
	opts    Options
	queue   *keyQueue
	program *programRef

	spinner spinner.Model
	help    help.Model
	width   int
	height  int
	loading bool
	frame   loop.Frame
	err     error
}

func newModel(ctx context.Context, opts Options) Model {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	return Model{
		ctx:     ctx,
		opts:    opts,
		queue:   newKeyQueue(),
		program: &programRef{},
		spinner: spinner.New(spinner.WithSpinner(spinner.Dot)),
		help:    help.New(),
		loading: true,
	}
}

// Err returns the error that ended the program, if any.
func (m Model) Err() error { return m.err }

// — commands ————————————————————————————————————————————————————————————————

func (m Model) loadCmd() tea.Cmd {
	return func() tea.Msg {
		snap, err := forge.Load(m.ctx, m.opts.Source, m.opts.Logger)
		return snapshotLoadedMsg{snap: snap, err: err}
	}
}

// runLoopCmd runs the dashboard loop until it finishes. The loop owns
// the navigation state from here on.
func (m Model) runLoopCmd(snap model.Snapshot) tea.Cmd {
	cfg := loop.Config{
		Input:         m.queue,
		Renderer:      programRenderer{ref: m.program},
		Opener:        m.opts.Opener,
		Logger:        m.opts.Logger,
		Tick:          m.opts.Tick,
		Reveal:        m.opts.Reveal,
		TabTransition: m.opts.TabTransition,
	}
	return func() tea.Msg {
		_, err := loop.New(nav.New(snap), cfg).Run(m.ctx)
		return loopDoneMsg{err: err}
	}
}

// — tea.Model ———————————————————————————————————————————————————————————————

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.loadCmd())
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil

	case spinner.TickMsg:
		if !m.loading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case snapshotLoadedMsg:
		m.loading = false
		if msg.err != nil {
			m.err = msg.err
			return m, tea.Quit
		}
		m.frame = loop.Frame{View: nav.New(msg.snap).View()}
		return m, m.runLoopCmd(msg.snap)

	case frameMsg:
		m.frame = msg.frame
		return m, nil

	case loopDoneMsg:
		if msg.err != nil && !errors.Is(msg.err, context.Canceled) {
			m.err = fmt.Errorf("dashboard: %w", msg.err)
		}
		return m, tea.Quit

	case tea.KeyMsg:
		if m.loading {
			if key.Matches(msg, keys.Quit) {
				return m, tea.Quit
			}
			return m, nil
		}
		m.queue.Push(keys.event(msg))
		return m, nil
	}
	return m, nil
}

func (m Model) View() string {
	if m.width == 0 {
		return ""
	}

	if m.loading {
		return lipgloss.NewStyle().Padding(1, 2).Render(
			m.spinner.View() + " Fetching issues, pull requests and notifications…",
		)
	}

	if m.err != nil {
		return lipgloss.NewStyle().Padding(1, 2).Render(errStyle.Render(fmt.Sprintf("Error: %v", m.err)))
	}

	return renderFrame(m.frame, m.width, m.height, m.help.View(keys))
}

// — entry point —————————————————————————————————————————————————————————————

// Run shows the dashboard until the user quits. A failed load is
// returned as a *forge.FetchError.
func Run(ctx context.Context, opts Options) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	m := newModel(ctx, opts)
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))
	m.program.p = p

	final, err := p.Run()
	cancel()
	m.queue.Close()
	if err != nil {
		return fmt.Errorf("run dashboard: %w", err)
	}
	if fm, ok := final.(Model); ok && fm.err != nil {
		return fm.err
	}
	return nil
}
