package forge

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"reflect"
	"strings"
	"sync"
	"testing"

	"dangit/internal/model"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type gqlRequest struct {
	Query     string                 `json:"query"`
	Variables map[string]interface{} `json:"variables"`
}

// fakeGitHub serves paged search results and notifications.
type fakeGitHub struct {
	t *testing.T

	mu      sync.Mutex
	queries []string // search strings, in request order
	auth    []string

	// pages of node JSON per search string
	pages map[string][][]string

	notifications string
	notifStatus   int
	notifQuery    string
}

func (f *fakeGitHub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	f.auth = append(f.auth, r.Header.Get("Authorization"))
	f.mu.Unlock()

	switch r.URL.Path {
	case "/graphql":
		f.serveGraphQL(w, r)
	case "/notifications":
		f.mu.Lock()
		f.notifQuery = r.URL.RawQuery
		f.mu.Unlock()
		status := f.notifStatus
		if status == 0 {
			status = http.StatusOK
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(f.notifications))
	default:
		http.NotFound(w, r)
	}
}

func (f *fakeGitHub) serveGraphQL(w http.ResponseWriter, r *http.Request) {
	var req gqlRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		f.t.Errorf("decode graphql request: %v", err)
		w.WriteHeader(http.StatusBadRequest)
		return
	}
	if !strings.Contains(req.Query, "search(") {
		f.t.Errorf("query %q does not use search", req.Query)
	}

	search, _ := req.Variables["query"].(string)
	f.mu.Lock()
	f.queries = append(f.queries, search)
	f.mu.Unlock()

	page := 0
	if after, ok := req.Variables["after"].(string); ok {
		fmt.Sscanf(after, "page%d", &page)
	}

	pages := f.pages[search]
	var nodes []string
	if page < len(pages) {
		nodes = pages[page]
	}
	hasNext := page+1 < len(pages)

	w.Header().Set("Content-Type", "application/json")
	fmt.Fprintf(w, `{"data":{"search":{"pageInfo":{"hasNextPage":%t,"endCursor":"page%d"},"nodes":[%s]}}}`,
		hasNext, page+1, strings.Join(nodes, ","))
}

func node(title, url, repo string) string {
	return fmt.Sprintf(`{"title":%q,"url":%q,"repository":{"name":%q}}`, title, url, repo)
}

func newTestGitHub(t *testing.T, fake *fakeGitHub, cfg Config) *GitHub {
	t.Helper()
	fake.t = t
	server := httptest.NewServer(fake)
	t.Cleanup(server.Close)

	cfg.Token = "secret"
	cfg.GraphQLURL = server.URL + "/graphql"
	cfg.APIURL = server.URL
	cfg.Logger = quietLogger()
	return NewGitHub(cfg)
}

func TestSearchCollections(t *testing.T) {
	fake := &fakeGitHub{pages: map[string][][]string{
		"state:open is:issue assignee:@me": {{node("Bug", "https://github.com/o/a/issues/1", "a")}},
		"state:open is:issue author:@me":   {{node("Idea", "https://github.com/o/b/issues/2", "b")}},
		"state:open is:pr assignee:@me":    {{node("Fix", "https://github.com/o/a/pull/3", "a")}},
		"state:open is:pr author:@me":      {{node("Feat", "https://github.com/o/c/pull/4", "c")}},
	}}
	gh := newTestGitHub(t, fake, Config{})
	ctx := context.Background()

	tests := []struct {
		name  string
		fetch func(context.Context) ([]model.WorkItem, error)
		want  model.WorkItem
	}{
		{"assigned issues", gh.AssignedIssues, model.WorkItem{URL: "https://github.com/o/a/issues/1", Title: "Bug", Repository: "a", Kind: model.KindIssue}},
		{"created issues", gh.CreatedIssues, model.WorkItem{URL: "https://github.com/o/b/issues/2", Title: "Idea", Repository: "b", Kind: model.KindIssue}},
		{"assigned prs", gh.AssignedPRs, model.WorkItem{URL: "https://github.com/o/a/pull/3", Title: "Fix", Repository: "a", Kind: model.KindPullRequest}},
		{"created prs", gh.CreatedPRs, model.WorkItem{URL: "https://github.com/o/c/pull/4", Title: "Feat", Repository: "c", Kind: model.KindPullRequest}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.fetch(ctx)
			if err != nil {
				t.Fatalf("fetch error = %v", err)
			}
			if want := []model.WorkItem{tt.want}; !reflect.DeepEqual(got, want) {
				t.Errorf("fetch = %+v, want %+v", got, want)
			}
		})
	}

	for _, a := range fake.auth {
		if a != "Bearer secret" {
			t.Errorf("Authorization header = %q, want %q", a, "Bearer secret")
		}
	}
}

func TestSearchOrganizationFilter(t *testing.T) {
	fake := &fakeGitHub{pages: map[string][][]string{}}
	gh := newTestGitHub(t, fake, Config{Organization: "acme"})

	if _, err := gh.CreatedPRs(context.Background()); err != nil {
		t.Fatalf("CreatedPRs() error = %v", err)
	}
	if want := []string{"org:acme state:open is:pr author:@me"}; !reflect.DeepEqual(fake.queries, want) {
		t.Errorf("queries = %q, want %q", fake.queries, want)
	}
}

func TestSearchPagination(t *testing.T) {
	q := "state:open is:issue assignee:@me"
	fake := &fakeGitHub{pages: map[string][][]string{
		q: {
			{node("1", "u1", "r"), node("2", "u2", "r")},
			{node("3", "u3", "r")},
			{node("4", "u4", "r")},
		},
	}}

	gh := newTestGitHub(t, fake, Config{})
	got, err := gh.AssignedIssues(context.Background())
	if err != nil {
		t.Fatalf("AssignedIssues() error = %v", err)
	}
	if len(got) != 4 {
		t.Errorf("got %d items, want 4", len(got))
	}

	capped := newTestGitHub(t, &fakeGitHub{pages: fake.pages}, Config{MaxItems: 3})
	got, err = capped.AssignedIssues(context.Background())
	if err != nil {
		t.Fatalf("AssignedIssues() error = %v", err)
	}
	if len(got) != 3 {
		t.Errorf("capped: got %d items, want 3", len(got))
	}
}

func TestSearchGraphQLError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"errors":[{"message":"Bad credentials"}]}`))
	}))
	defer server.Close()

	gh := NewGitHub(Config{Token: "t", GraphQLURL: server.URL, Logger: quietLogger()})
	if _, err := gh.AssignedIssues(context.Background()); err == nil {
		t.Fatal("AssignedIssues() error = nil, want error")
	}
}

func TestNotifications(t *testing.T) {
	fake := &fakeGitHub{notifications: `[
		{"subject":{"title":"Review requested","url":"https://api.github.com/repos/o/r/pulls/7","latest_comment_url":"https://api.github.com/repos/o/r/issues/comments/9"}},
		{"subject":{"title":"Bug filed","url":"https://api.github.com/repos/o/r/issues/8","latest_comment_url":null}}
	]`}
	gh := newTestGitHub(t, fake, Config{NotificationsLimit: 20})

	got, err := gh.Notifications(context.Background())
	if err != nil {
		t.Fatalf("Notifications() error = %v", err)
	}

	want := []model.Notification{
		{
			Title:               "Review requested",
			SubjectAPIURL:       "https://api.github.com/repos/o/r/pulls/7",
			LatestCommentAPIURL: "https://api.github.com/repos/o/r/issues/comments/9",
		},
		{
			Title:         "Bug filed",
			SubjectAPIURL: "https://api.github.com/repos/o/r/issues/8",
		},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Notifications() = %+v, want %+v", got, want)
	}
	if fake.notifQuery != "all=false&per_page=20" {
		t.Errorf("query = %q, want %q", fake.notifQuery, "all=false&per_page=20")
	}
}

func TestNotificationsHTTPError(t *testing.T) {
	fake := &fakeGitHub{notifStatus: http.StatusUnauthorized, notifications: `{"message":"Bad credentials"}`}
	gh := newTestGitHub(t, fake, Config{})

	_, err := gh.Notifications(context.Background())
	if err == nil {
		t.Fatal("Notifications() error = nil, want error")
	}
	if !strings.Contains(err.Error(), "401") || !strings.Contains(err.Error(), "Bad credentials") {
		t.Errorf("error = %q, want status and body", err)
	}
}

func TestAuthTransport(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer tok" {
			t.Errorf("Authorization = %q, want %q", got, "Bearer tok")
		}
		if got := r.Header.Get("Accept"); got != "application/vnd.github+json" {
			t.Errorf("Accept = %q", got)
		}
		if got := r.Header.Get("User-Agent"); got != userAgent {
			t.Errorf("User-Agent = %q, want %q", got, userAgent)
		}
	}))
	defer server.Close()

	transport := &authTransport{Token: "tok"}
	req, err := http.NewRequest(http.MethodGet, server.URL, nil)
	if err != nil {
		t.Fatalf("NewRequest: %v", err)
	}
	resp, err := transport.RoundTrip(req)
	if err != nil {
		t.Fatalf("RoundTrip() error = %v", err)
	}
	_ = resp.Body.Close()

	if req.Header.Get("Authorization") != "" {
		t.Error("RoundTrip modified the caller's request")
	}
}
