package model

import (
	"fmt"
	"net/url"
	"strings"
)

// Kind distinguishes issues from pull requests.
type Kind int

const (
	KindIssue Kind = iota
	KindPullRequest
)

func (k Kind) String() string {
	switch k {
	case KindIssue:
		return "Issue"
	case KindPullRequest:
		return "PR"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// WorkItem is an open issue or pull request fetched from the forge.
// Two items are the same item when their URLs match.
type WorkItem struct {
	URL        string // html URL, used as the dedup fingerprint
	Title      string
	Repository string
	Kind       Kind
}

func (w WorkItem) String() string {
	return fmt.Sprintf("%s: %s → %s", w.Repository, w.Title, w.URL)
}

// Notification is an unread notification thread.
type Notification struct {
	Title               string
	SubjectAPIURL       string
	LatestCommentAPIURL string // empty if the thread has no comments
}

// HTMLURL returns the browser link for the notification's subject.
func (n Notification) HTMLURL() string {
	return PublicURL(n.SubjectAPIURL)
}

func (n Notification) String() string {
	return fmt.Sprintf("%s → %s", n.Title, n.HTMLURL())
}

// Snapshot holds everything fetched at startup. Slices are never mutated
// after construction.
type Snapshot struct {
	AssignedIssues []WorkItem
	CreatedIssues  []WorkItem
	AssignedPRs    []WorkItem
	CreatedPRs     []WorkItem
	Notifications  []Notification
}

// PublicURL maps a REST API resource URL to its public web URL:
//
//	https://api.github.com/repos/o/r/pulls/1    -> https://github.com/o/r/pull/1
//	https://ghe.example/api/v3/repos/o/r/issues/2 -> https://ghe.example/o/r/issues/2
//
// Input that is not an API URL is returned unchanged, so applying
// PublicURL twice gives the same result as applying it once.
func PublicURL(apiURL string) string {
	u, err := url.Parse(apiURL)
	if err != nil || u.Host == "" {
		return apiURL
	}

	switch {
	case strings.HasPrefix(u.Host, "api.") && strings.HasPrefix(u.Path, "/repos/"):
		u.Host = strings.TrimPrefix(u.Host, "api.")
		u.Path = strings.TrimPrefix(u.Path, "/repos")
	case strings.HasPrefix(u.Path, "/api/v3/repos/"):
		u.Path = strings.TrimPrefix(u.Path, "/api/v3/repos")
	default:
		return apiURL
	}
	// /{owner}/{repo}/pulls/{n}: only the resource segment is renamed.
	segments := strings.Split(u.Path, "/")
	if len(segments) > 3 && segments[3] == "pulls" {
		segments[3] = "pull"
	}
	u.Path = strings.Join(segments, "/")
	u.RawPath = ""
	return u.String()
}
