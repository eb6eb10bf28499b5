// Package report prints a non-interactive listing of a snapshot.
package report

import (
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/gosuri/uitable"

	"dangit/internal/aggregate"
	"dangit/internal/model"
)

var (
	heading = color.New(color.Bold, color.Underline)
	faint   = color.New(color.Faint)
	repo    = color.New(color.FgHiCyan, color.Bold)
)

// Write prints notifications, the four collections, and the aggregated
// view grouped by repository.
func Write(w io.Writer, snap model.Snapshot) error {
	p := printer{w: w}

	if n := len(snap.Notifications); n > 0 {
		p.title(fmt.Sprintf("🔔 Notifications (%d):", n))
		for _, notif := range snap.Notifications {
			p.line(notif.String())
		}
	}

	p.section("⊙ Assigned issues:", snap.AssignedIssues, nil)
	p.section("⊙ Created issues:", snap.CreatedIssues, snap.AssignedIssues)
	p.section("↶ Assigned PRs:", snap.AssignedPRs, nil)
	p.section("↶ Created PRs:", snap.CreatedPRs, snap.AssignedPRs)

	p.printf("------\n")
	p.grouped(aggregate.Aggregate(snap.CreatedIssues, snap.AssignedIssues, snap.CreatedPRs, snap.AssignedPRs))
	return p.err
}

// printer remembers the first write error so callers check once.
type printer struct {
	w   io.Writer
	err error
}

func (p *printer) printf(format string, args ...any) {
	if p.err != nil {
		return
	}
	_, p.err = fmt.Fprintf(p.w, format, args...)
}

func (p *printer) title(s string) {
	if p.err != nil {
		return
	}
	_, p.err = heading.Fprintln(p.w, s)
}

func (p *printer) line(s string) {
	p.printf("  %s\n", s)
}

// section prints items, skipping any whose URL is in exclude.
func (p *printer) section(title string, items, exclude []model.WorkItem) {
	p.title(title)
	skip := make(map[string]struct{}, len(exclude))
	for _, it := range exclude {
		skip[it.URL] = struct{}{}
	}
	printed := 0
	for _, it := range items {
		if _, ok := skip[it.URL]; ok {
			continue
		}
		p.line(it.String())
		printed++
	}
	if printed == 0 && p.err == nil {
		_, p.err = faint.Fprintln(p.w, "  none")
	}
}

func (p *printer) grouped(v aggregate.View) {
	for _, name := range v.Repos() {
		if p.err != nil {
			return
		}
		_, p.err = repo.Fprintf(p.w, "%s:\n", name)

		tbl := uitable.New()
		tbl.Separator = "  "
		tbl.MaxColWidth = 80
		tbl.Wrap = false
		for _, it := range v.Items(name) {
			tbl.AddRow(" ", it.Kind.String(), it.Title, "→ "+it.URL)
		}
		p.printf("%s\n", tbl)
	}
}
