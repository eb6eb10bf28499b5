// Package forge fetches open issues, pull requests, and notifications
// for the authenticated user from GitHub.
package forge

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/shurcooL/graphql"

	"dangit/internal/model"
)

const (
	DefaultGraphQLURL = "https://api.github.com/graphql"
	DefaultAPIURL     = "https://api.github.com"

	userAgent = "dangit"

	// GitHub caps search pages at 100 nodes.
	maxPageSize = 100
)

// Config configures a GitHub source.
type Config struct {
	// Token is the bearer token sent with every request.
	Token string
	// GraphQLURL defaults to DefaultGraphQLURL.
	GraphQLURL string
	// APIURL is the REST root used for notifications. Defaults to DefaultAPIURL.
	APIURL string
	// Organization restricts searches to one org when set.
	Organization string
	// MaxItems caps each searched collection. Defaults to 100.
	MaxItems int
	// NotificationsLimit is the page size for notifications. Defaults to 50.
	NotificationsLimit int
	// AllNotifications includes notifications already marked read.
	AllNotifications bool
	// HTTPClient is optional; its transport is wrapped with authentication.
	HTTPClient *http.Client
	// Timeout applies when HTTPClient is nil. Defaults to 30s.
	Timeout time.Duration
	Logger  *slog.Logger
}

// GitHub is a Source backed by the GitHub GraphQL search API and the
// REST notifications endpoint.
type GitHub struct {
	httpClient *http.Client
	gql        *graphql.Client
	apiURL     string
	org        string
	maxItems   int
	notifLimit int
	allNotifs  bool
	logger     *slog.Logger
}

var _ Source = (*GitHub)(nil)

// NewGitHub returns a GitHub source for cfg.
func NewGitHub(cfg Config) *GitHub {
	gqlURL := cfg.GraphQLURL
	if gqlURL == "" {
		gqlURL = DefaultGraphQLURL
	}
	apiURL := strings.TrimRight(cfg.APIURL, "/")
	if apiURL == "" {
		apiURL = DefaultAPIURL
	}
	maxItems := cfg.MaxItems
	if maxItems <= 0 {
		maxItems = 100
	}
	notifLimit := cfg.NotificationsLimit
	if notifLimit <= 0 {
		notifLimit = 50
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	var httpClient *http.Client
	if cfg.HTTPClient != nil {
		httpClient = cfg.HTTPClient
		base := httpClient.Transport
		if base == nil {
			base = http.DefaultTransport
		}
		httpClient.Transport = &authTransport{Token: cfg.Token, Base: base}
	} else {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = 30 * time.Second
		}
		httpClient = &http.Client{
			Timeout:   timeout,
			Transport: &authTransport{Token: cfg.Token, Base: http.DefaultTransport},
		}
	}

	return &GitHub{
		httpClient: httpClient,
		gql:        graphql.NewClient(gqlURL, httpClient),
		apiURL:     apiURL,
		org:        cfg.Organization,
		maxItems:   maxItems,
		notifLimit: notifLimit,
		allNotifs:  cfg.AllNotifications,
		logger:     logger,
	}
}

// authTransport adds GitHub's auth and content headers to requests.
type authTransport struct {
	Token string
	Base  http.RoundTripper
}

// RoundTrip implements http.RoundTripper.
func (t *authTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	req = req.Clone(req.Context())
	req.Header.Set("Authorization", "Bearer "+t.Token)
	req.Header.Set("Accept", "application/vnd.github+json")
	req.Header.Set("User-Agent", userAgent)
	if t.Base == nil {
		return http.DefaultTransport.RoundTrip(req)
	}
	return t.Base.RoundTrip(req)
}

func (g *GitHub) AssignedIssues(ctx context.Context) ([]model.WorkItem, error) {
	return g.search(ctx, model.KindIssue, "assignee")
}

func (g *GitHub) CreatedIssues(ctx context.Context) ([]model.WorkItem, error) {
	return g.search(ctx, model.KindIssue, "author")
}

func (g *GitHub) AssignedPRs(ctx context.Context) ([]model.WorkItem, error) {
	return g.search(ctx, model.KindPullRequest, "assignee")
}

func (g *GitHub) CreatedPRs(ctx context.Context) ([]model.WorkItem, error) {
	return g.search(ctx, model.KindPullRequest, "author")
}

// searchQuery builds the search string, e.g.
// "org:acme state:open is:pr author:@me".
func (g *GitHub) searchQuery(kind model.Kind, role string) string {
	is := "issue"
	if kind == model.KindPullRequest {
		is = "pr"
	}
	q := fmt.Sprintf("state:open is:%s %s:@me", is, role)
	if g.org != "" {
		q = "org:" + g.org + " " + q
	}
	return q
}

// searchNode mirrors the fields we read from Issue and PullRequest nodes.
type searchNode struct {
	Title      graphql.String
	URL        graphql.String
	Repository struct {
		Name graphql.String
	}
}

func (g *GitHub) search(ctx context.Context, kind model.Kind, role string) ([]model.WorkItem, error) {
	query := g.searchQuery(kind, role)

	var after *graphql.String
	items := make([]model.WorkItem, 0)
	for len(items) < g.maxItems {
		var q struct {
			Search struct {
				PageInfo struct {
					HasNextPage graphql.Boolean
					EndCursor   graphql.String
				}
				Nodes []struct {
					Issue       searchNode `graphql:"... on Issue"`
					PullRequest searchNode `graphql:"... on PullRequest"`
				}
			} `graphql:"search(first: $first, after: $after, type: ISSUE, query: $query)"`
		}

		variables := map[string]interface{}{
			"first": graphql.Int(min(maxPageSize, g.maxItems-len(items))),
			"after": after,
			"query": graphql.String(query),
		}

		if err := g.gql.Query(ctx, &q, variables); err != nil {
			return nil, fmt.Errorf("search %q: %w", query, err)
		}

		for _, n := range q.Search.Nodes {
			node, other := n.Issue, n.PullRequest
			if kind == model.KindPullRequest {
				node, other = other, node
			}
			if node.URL == "" {
				node = other
			}
			if node.URL == "" {
				continue
			}
			items = append(items, model.WorkItem{
				URL:        string(node.URL),
				Title:      string(node.Title),
				Repository: string(node.Repository.Name),
				Kind:       kind,
			})
		}

		if !q.Search.PageInfo.HasNextPage {
			break
		}
		cursor := q.Search.PageInfo.EndCursor
		after = &cursor
	}

	g.logger.Debug("search complete", "query", query, "count", len(items))
	if len(items) > g.maxItems {
		items = items[:g.maxItems]
	}
	return items, nil
}

// ghNotification mirrors the fields we care about from the REST API.
type ghNotification struct {
	Subject struct {
		Title            string  `json:"title"`
		URL              string  `json:"url"`
		LatestCommentURL *string `json:"latest_comment_url"`
	} `json:"subject"`
}

// Notifications fetches the user's notification threads. Only unread
// threads are returned unless AllNotifications was set.
func (g *GitHub) Notifications(ctx context.Context) ([]model.Notification, error) {
	params := url.Values{}
	params.Set("per_page", strconv.Itoa(g.notifLimit))
	params.Set("all", strconv.FormatBool(g.allNotifs))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.apiURL+"/notifications?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("notifications: %w", err)
	}

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("notifications: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode/100 != 2 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, fmt.Errorf("notifications: HTTP %d: %s", resp.StatusCode, trimOutput(body))
	}

	var raw []ghNotification
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return nil, fmt.Errorf("notifications: decode: %w", err)
	}

	out := make([]model.Notification, 0, len(raw))
	for _, n := range raw {
		note := model.Notification{
			Title:         n.Subject.Title,
			SubjectAPIURL: n.Subject.URL,
		}
		if n.Subject.LatestCommentURL != nil {
			note.LatestCommentAPIURL = *n.Subject.LatestCommentURL
		}
		out = append(out, note)
	}
	return out, nil
}

func trimOutput(b []byte) string {
	s := strings.TrimSpace(string(b))
	if len(s) > 200 {
		return s[:200] + "…"
	}
	return s
}
