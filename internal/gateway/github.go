// Package gateway provides a gateway to the GitHub API,
// abstracting away the underlying REST and GraphQL clients.
package gateway

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/go-github/v62/github"
	"github.com/shurcooL/githubv4"
	"go.uber.org/zap"
	"golang.org/x/oauth2"

	"github.com/gofri/go-github-ratelimit/github_ratelimit"

	"github.com/naka-gawa/devops-phase-stats/internal/domain"
)

// PerPage is the page size used for every paginated listing.
const PerPage = 100

// Search backends.
const (
	SearchBackendREST    = "rest"
	SearchBackendGraphQL = "graphql"
)

// Issue is the subset of a GitHub issue needed for label counting.
type Issue struct {
	Number        int
	Labels        []string
	IsPullRequest bool
}

// Fetcher defines the behavior of a gateway for fetching information from GitHub.
type Fetcher interface {
	ListLabels(ctx context.Context, owner, repo string) ([]domain.Label, error)
	// LabelExists returns false without an error only when GitHub answers 404.
	LabelExists(ctx context.Context, owner, repo, name string) (bool, error)
	CreateLabel(ctx context.Context, owner, repo string, label domain.Label) error
	ListIssuesPage(ctx context.Context, owner, repo, state string, page int) ([]Issue, error)
	SearchIssueCount(ctx context.Context, query string) (int, error)
}

// Options configures the gateway.
type Options struct {
	// Token is optional; anonymous requests are sent when it is empty.
	Token         string
	SearchBackend string
	// BaseURL overrides the REST endpoint, e.g. GITHUB_API_URL on GitHub Enterprise.
	BaseURL string
	// GraphQLURL overrides the GraphQL endpoint.
	GraphQLURL string
}

// GitHubGateway is the concrete implementation of the Fetcher interface.
type GitHubGateway struct {
	restClient    *github.Client
	graphqlClient *githubv4.Client
	logger        *zap.SugaredLogger
}

// issueCountQuery asks GitHub only for the total number of search matches.
type issueCountQuery struct {
	Search struct {
		IssueCount int
	} `graphql:"search(query: $query, type: ISSUE, first: 1)"`
}

// NewGitHubGateway is a constructor that creates a new instance of GitHubGateway.
func NewGitHubGateway(opts Options, logger *zap.SugaredLogger) (Fetcher, error) {
	rateLimitWaiter, err := github_ratelimit.NewRateLimitWaiter(
		&loggingRoundTripper{base: http.DefaultTransport, logger: logger},
		github_ratelimit.WithSingleSleepLimit(1*time.Hour, nil),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create rate limit waiter: %w", err)
	}

	var transport http.RoundTripper = rateLimitWaiter
	if opts.Token != "" {
		transport = &oauth2.Transport{
			Base:   rateLimitWaiter,
			Source: oauth2.StaticTokenSource(&oauth2.Token{AccessToken: opts.Token}),
		}
	}
	httpClient := &http.Client{Transport: transport}

	g := &GitHubGateway{
		restClient: github.NewClient(httpClient),
		logger:     logger,
	}
	if opts.BaseURL != "" {
		baseURL, err := url.Parse(strings.TrimSuffix(opts.BaseURL, "/") + "/")
		if err != nil {
			return nil, fmt.Errorf("invalid API URL %q: %w", opts.BaseURL, err)
		}
		g.restClient.BaseURL = baseURL
	}
	switch opts.SearchBackend {
	case "", SearchBackendREST:
	case SearchBackendGraphQL:
		if opts.Token == "" {
			logger.Warnw("GraphQL search requires a token, falling back to REST search")
			break
		}
		if opts.GraphQLURL != "" {
			g.graphqlClient = githubv4.NewEnterpriseClient(opts.GraphQLURL, httpClient)
		} else {
			g.graphqlClient = githubv4.NewClient(httpClient)
		}
	default:
		return nil, fmt.Errorf("unknown search backend %q", opts.SearchBackend)
	}
	return g, nil
}

func (g *GitHubGateway) ListLabels(ctx context.Context, owner, repo string) ([]domain.Label, error) {
	g.logger.Debugw("Fetching repository labels", "repository", owner+"/"+repo)
	opts := &github.ListOptions{PerPage: PerPage}
	var labels []domain.Label
	for {
		page, resp, err := g.restClient.Issues.ListLabels(ctx, owner, repo, opts)
		if err != nil {
			return nil, fmt.Errorf("failed to list labels: %w", err)
		}
		for _, l := range page {
			labels = append(labels, domain.Label{
				Name:        l.GetName(),
				Color:       l.GetColor(),
				Description: l.GetDescription(),
			})
		}
		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
		g.logger.Debugw("  Fetching next page of labels...", "page", opts.Page)
	}
	return labels, nil
}

// LabelExists reports whether the label is defined. A 404 is not an error.
// The name is path-escaped here since go-github puts it into the URL verbatim.
func (g *GitHubGateway) LabelExists(ctx context.Context, owner, repo, name string) (bool, error) {
	_, resp, err := g.restClient.Issues.GetLabel(ctx, owner, repo, url.PathEscape(name))
	if err != nil {
		if resp != nil && resp.StatusCode == http.StatusNotFound {
			return false, nil
		}
		return false, fmt.Errorf("failed to get label %q: %w", name, err)
	}
	return true, nil
}

func (g *GitHubGateway) CreateLabel(ctx context.Context, owner, repo string, label domain.Label) error {
	_, _, err := g.restClient.Issues.CreateLabel(ctx, owner, repo, &github.Label{
		Name:        github.String(label.Name),
		Color:       github.String(label.Color),
		Description: github.String(label.Description),
	})
	if err != nil {
		return fmt.Errorf("failed to create label %q: %w", label.Name, err)
	}
	return nil
}

// ListIssuesPage fetches a single page of repository issues.
// Pull requests are returned too, flagged with IsPullRequest.
func (g *GitHubGateway) ListIssuesPage(ctx context.Context, owner, repo, state string, page int) ([]Issue, error) {
	opts := &github.IssueListByRepoOptions{
		State:       state,
		ListOptions: github.ListOptions{Page: page, PerPage: PerPage},
	}
	result, _, err := g.restClient.Issues.ListByRepo(ctx, owner, repo, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list issues (page %d): %w", page, err)
	}
	issues := make([]Issue, 0, len(result))
	for _, issue := range result {
		names := make([]string, 0, len(issue.Labels))
		for _, l := range issue.Labels {
			names = append(names, l.GetName())
		}
		issues = append(issues, Issue{
			Number:        issue.GetNumber(),
			Labels:        names,
			IsPullRequest: issue.IsPullRequest(),
		})
	}
	return issues, nil
}

// SearchIssueCount returns the total number of issues matching query.
func (g *GitHubGateway) SearchIssueCount(ctx context.Context, query string) (int, error) {
	if g.graphqlClient != nil {
		var q issueCountQuery
		variables := map[string]interface{}{"query": githubv4.String(query)}
		if err := g.graphqlClient.Query(ctx, &q, variables); err != nil {
			return 0, fmt.Errorf("failed to execute GraphQL query for issue count: %w", err)
		}
		return q.Search.IssueCount, nil
	}

	opts := &github.SearchOptions{ListOptions: github.ListOptions{PerPage: 1}}
	result, _, err := g.restClient.Search.Issues(ctx, query, opts)
	if err != nil {
		return 0, fmt.Errorf("failed to search issues with REST API: %w", err)
	}
	return result.GetTotal(), nil
}
