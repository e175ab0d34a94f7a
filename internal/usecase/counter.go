package usecase

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/naka-gawa/devops-phase-stats/internal/domain"
	"github.com/naka-gawa/devops-phase-stats/internal/gateway"
)

// Counter counts repository issues per label.
type Counter struct {
	fetcher gateway.Fetcher
	repo    domain.Repository
	logger  *zap.SugaredLogger
}

// NewCounter creates a new Counter instance.
func NewCounter(fetcher gateway.Fetcher, repo domain.Repository, logger *zap.SugaredLogger) *Counter {
	return &Counter{fetcher: fetcher, repo: repo, logger: logger}
}

// ClosedQuery builds the search query for issues with label closed within week.
func ClosedQuery(repo domain.Repository, label string, week domain.DateRange) string {
	return fmt.Sprintf("repo:%s is:issue label:%q closed:%s", repo, label, week)
}

// SearchCount returns the search total of issues with label closed within week.
// On failure the error is logged and returned together with a zero count.
func (c *Counter) SearchCount(ctx context.Context, label string, week domain.DateRange) (int, error) {
	query := ClosedQuery(c.repo, label, week)
	n, err := c.fetcher.SearchIssueCount(ctx, query)
	if err != nil {
		c.logger.Errorw("Failed to count closed issues", "label", label, "week", week.String(), "error", err)
		return 0, err
	}
	c.logger.Debugw("Counted closed issues", "query", query, "count", n)
	return n, nil
}

// TallyLabels pages through every issue in the given state and counts each
// tracked label attached to it. Pull requests are skipped. Paging starts at 1
// and stops at the first empty page. A failed page ends the tally early with
// the counts gathered so far.
func (c *Counter) TallyLabels(ctx context.Context, labels []string, state string) domain.Tally {
	tally := domain.Tally{Counts: domain.NewLabelCounts(labels)}
	for page := 1; ; page++ {
		issues, err := c.fetcher.ListIssuesPage(ctx, c.repo.Owner, c.repo.Name, state, page)
		if err != nil {
			c.logger.Errorw("Failed to list issues, counts are partial", "page", page, "error", err)
			tally.Err = err
			return tally
		}
		if len(issues) == 0 {
			break
		}
		tally.Pages = page
		for _, issue := range issues {
			if issue.IsPullRequest {
				continue
			}
			for _, name := range issue.Labels {
				tally.Counts.Increment(name)
			}
		}
		c.logger.Debugw("  Counted page of issues", "page", page, "issues", len(issues))
	}
	tally.Complete = true
	return tally
}
