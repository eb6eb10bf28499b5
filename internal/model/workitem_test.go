package model

import "testing"

func TestPublicURL(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "pull request",
			in:   "https://api.example.com/repos/acme/widget/pulls/42",
			want: "https://example.com/acme/widget/pull/42",
		},
		{
			name: "issue",
			in:   "https://api.github.com/repos/release-plz/release-plz/issues/1852",
			want: "https://github.com/release-plz/release-plz/issues/1852",
		},
		{
			name: "github pull",
			in:   "https://api.github.com/repos/rust-lang/rust/pulls/132721",
			want: "https://github.com/rust-lang/rust/pull/132721",
		},
		{
			name: "enterprise",
			in:   "https://ghe.corp.example/api/v3/repos/team/svc/pulls/7",
			want: "https://ghe.corp.example/team/svc/pull/7",
		},
		{
			name: "repo named pulls keeps its name",
			in:   "https://api.github.com/repos/acme/pulls/issues/3",
			want: "https://github.com/acme/pulls/issues/3",
		},
		{
			name: "already public",
			in:   "https://github.com/acme/widget/pull/42",
			want: "https://github.com/acme/widget/pull/42",
		},
		{
			name: "not a url",
			in:   "not a url",
			want: "not a url",
		},
		{
			name: "empty",
			in:   "",
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := PublicURL(tt.in)
			if got != tt.want {
				t.Errorf("PublicURL(%q) = %q, want %q", tt.in, got, tt.want)
			}
			if again := PublicURL(got); again != got {
				t.Errorf("PublicURL is not idempotent: %q -> %q", got, again)
			}
		})
	}
}

func TestDisplayStrings(t *testing.T) {
	item := WorkItem{
		URL:        "https://github.com/acme/widget/issues/1",
		Title:      "Fix the flux",
		Repository: "widget",
		Kind:       KindIssue,
	}
	if got, want := item.String(), "widget: Fix the flux → https://github.com/acme/widget/issues/1"; got != want {
		t.Errorf("WorkItem.String() = %q, want %q", got, want)
	}

	n := Notification{
		Title:         "Review requested",
		SubjectAPIURL: "https://api.github.com/repos/acme/widget/pulls/9",
	}
	if got, want := n.String(), "Review requested → https://github.com/acme/widget/pull/9"; got != want {
		t.Errorf("Notification.String() = %q, want %q", got, want)
	}
}

func TestKindString(t *testing.T) {
	if got := KindIssue.String(); got != "Issue" {
		t.Errorf("KindIssue.String() = %q, want %q", got, "Issue")
	}
	if got := KindPullRequest.String(); got != "PR" {
		t.Errorf("KindPullRequest.String() = %q, want %q", got, "PR")
	}
}
