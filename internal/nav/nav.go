// Package nav is the dashboard's navigation state machine: which tab is
// active, which row is selected, and what a command does to them.
//
// State is a value. Update returns the next state and, for commands that
// reach outside the dashboard, an Action for the caller to perform.
package nav

import (
	"dangit/internal/aggregate"
	"dangit/internal/model"
)

// — tabs ————————————————————————————————————————————————————————————————————

type Tab int

const (
	TabNotifications Tab = iota
	TabIssues
	TabPullRequests
)

// Tabs lists every tab in display order.
var Tabs = []Tab{TabNotifications, TabIssues, TabPullRequests}

// Next returns the following tab, wrapping around after PullRequests.
func (t Tab) Next() Tab {
	switch t {
	case TabNotifications:
		return TabIssues
	case TabIssues:
		return TabPullRequests
	default:
		return TabNotifications
	}
}

func (t Tab) String() string {
	switch t {
	case TabNotifications:
		return "Notifications"
	case TabIssues:
		return "Issues"
	case TabPullRequests:
		return "Pull Requests"
	default:
		return "?"
	}
}

// — selection ———————————————————————————————————————————————————————————————

// Selection is a row index into the active list, or none.
type Selection struct {
	index int
	valid bool
}

// None is the empty selection.
func None() Selection { return Selection{} }

// At selects row i.
func At(i int) Selection { return Selection{index: i, valid: true} }

// Index returns the selected row and whether there is one.
func (s Selection) Index() (int, bool) { return s.index, s.valid }

func first(n int) Selection {
	if n == 0 {
		return None()
	}
	return At(0)
}

// — commands and actions ————————————————————————————————————————————————————

type Command int

const (
	SelectNext Command = iota
	SelectPrevious
	NextTab
	Activate
	Quit
)

func (c Command) String() string {
	switch c {
	case SelectNext:
		return "select-next"
	case SelectPrevious:
		return "select-previous"
	case NextTab:
		return "next-tab"
	case Activate:
		return "activate"
	case Quit:
		return "quit"
	default:
		return "unknown"
	}
}

// Action is a side effect requested by Update. The only implementation
// is OpenURL.
type Action interface {
	action()
}

// OpenURL asks the caller to open URL in a browser.
type OpenURL struct {
	URL string
}

func (OpenURL) action() {}

// — state ———————————————————————————————————————————————————————————————————

// State is the navigation state over a read-only snapshot.
type State struct {
	snap    model.Snapshot
	tab     Tab
	sel     Selection
	stopped bool
}

// New returns the initial state: Notifications tab, first row selected
// when there is one.
func New(snap model.Snapshot) State {
	return State{
		snap: snap,
		tab:  TabNotifications,
		sel:  first(len(snap.Notifications)),
	}
}

func (s State) Tab() Tab             { return s.tab }
func (s State) Selection() Selection { return s.sel }
func (s State) Running() bool        { return !s.stopped }

// Update applies cmd. Commands on an empty list and commands after Quit
// leave the state unchanged.
func (s State) Update(cmd Command) (State, Action) {
	if s.stopped {
		return s, nil
	}

	switch cmd {
	case SelectNext:
		if i, ok := s.sel.Index(); ok && i < s.activeLen()-1 {
			s.sel = At(i + 1)
		}
	case SelectPrevious:
		if i, ok := s.sel.Index(); ok && i > 0 {
			s.sel = At(i - 1)
		}
	case NextTab:
		s.tab = s.tab.Next()
		s.sel = first(s.activeLen())
	case Activate:
		return s, s.activate()
	case Quit:
		s.stopped = true
	}
	return s, nil
}

func (s State) activate() Action {
	i, ok := s.sel.Index()
	if !ok {
		return nil
	}
	switch s.tab {
	case TabNotifications:
		if i < len(s.snap.Notifications) {
			if url := s.snap.Notifications[i].HTMLURL(); url != "" {
				return OpenURL{URL: url}
			}
		}
	case TabIssues, TabPullRequests:
		// No row-level action for work items.
	}
	return nil
}

// activeLen is the length of the list the selection addresses: the
// notifications, or the repository pane of the work-item tabs.
func (s State) activeLen() int {
	switch s.tab {
	case TabNotifications:
		return len(s.snap.Notifications)
	default:
		return len(s.grouped().Repos())
	}
}

// grouped derives the repository view for the active work-item tab.
func (s State) grouped() aggregate.View {
	switch s.tab {
	case TabIssues:
		return aggregate.Aggregate(s.snap.CreatedIssues, s.snap.AssignedIssues, nil, nil)
	case TabPullRequests:
		return aggregate.Aggregate(nil, nil, s.snap.CreatedPRs, s.snap.AssignedPRs)
	default:
		return aggregate.View{}
	}
}
