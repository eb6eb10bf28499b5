// Package aggregate merges the fetched work-item collections into one
// deduplicated view grouped by repository.
package aggregate

import (
	"sort"

	"dangit/internal/model"
)

// View is a deduplicated set of work items grouped by repository.
// The zero value is an empty view.
type View struct {
	repos  []string
	groups map[string][]model.WorkItem
}

// Aggregate merges the four collections. Sources are scanned in argument
// order and only the first item seen for each URL is kept, so a created
// issue wins over the same issue in the assigned list.
func Aggregate(createdIssues, assignedIssues, createdPRs, assignedPRs []model.WorkItem) View {
	v := View{groups: make(map[string][]model.WorkItem)}
	seen := make(map[string]struct{})

	for _, source := range [][]model.WorkItem{createdIssues, assignedIssues, createdPRs, assignedPRs} {
		for _, item := range source {
			if _, dup := seen[item.URL]; dup {
				continue
			}
			seen[item.URL] = struct{}{}

			if _, ok := v.groups[item.Repository]; !ok {
				v.repos = append(v.repos, item.Repository)
			}
			v.groups[item.Repository] = append(v.groups[item.Repository], item)
		}
	}

	sort.Strings(v.repos)
	return v
}

// Repos returns the repository names in lexicographic order.
func (v View) Repos() []string {
	return v.repos
}

// Items returns the items of repo in first-seen order. Unknown
// repositories yield nil.
func (v View) Items(repo string) []model.WorkItem {
	return v.groups[repo]
}

// Len is the total number of distinct items.
func (v View) Len() int {
	n := 0
	for _, items := range v.groups {
		n += len(items)
	}
	return n
}
