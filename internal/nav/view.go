package nav

import "dangit/internal/model"

// View is what a renderer needs to paint the current state.
type View struct {
	Tab Tab

	// Left is the list the selection addresses: notification titles, or
	// repository names on the work-item tabs.
	Left      []string
	LeftTitle string

	// Right holds the items of the selected repository. Empty on the
	// notifications tab.
	Right      []string
	RightTitle string

	Selection Selection

	// Target is the link activation would open, if any.
	Target string
}

// TwoPane reports whether the view has a repository and an item pane.
func (v View) TwoPane() bool {
	return v.Tab != TabNotifications
}

// View builds the render model for the active tab.
func (s State) View() View {
	v := View{Tab: s.tab, Selection: s.sel}

	switch s.tab {
	case TabNotifications:
		v.LeftTitle = "Notifications"
		v.Left = make([]string, len(s.snap.Notifications))
		for i, n := range s.snap.Notifications {
			v.Left[i] = n.Title
		}
		if i, ok := s.sel.Index(); ok && i < len(s.snap.Notifications) {
			v.Target = s.snap.Notifications[i].HTMLURL()
		}
	default:
		grouped := s.grouped()
		v.LeftTitle = "Repositories"
		v.Left = grouped.Repos()
		v.RightTitle = s.tab.String()
		if i, ok := s.sel.Index(); ok && i < len(v.Left) {
			repo := v.Left[i]
			v.RightTitle = repo
			v.Right = itemLabels(grouped.Items(repo))
		}
	}
	return v
}

func itemLabels(items []model.WorkItem) []string {
	labels := make([]string, len(items))
	for i, it := range items {
		labels[i] = it.Title + " → " + it.URL
	}
	return labels
}
