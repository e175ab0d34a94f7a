package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"

	"github.com/naka-gawa/devops-phase-stats/internal/domain"
	"github.com/naka-gawa/devops-phase-stats/internal/gateway"
)

func TestClosedQuery(t *testing.T) {
	week := domain.DateRange{
		Start: time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC),
		End:   time.Date(2024, 6, 7, 0, 0, 0, 0, time.UTC),
	}
	assert.Equal(t,
		`repo:any-org/any-repo is:issue label:"Plan" closed:2024-06-01..2024-06-07`,
		ClosedQuery(testRepo, "Plan", week))
}

func TestCounter_SearchCount(t *testing.T) {
	week := domain.DateRange{
		Start: time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC),
		End:   time.Date(2024, 6, 7, 0, 0, 0, 0, time.UTC),
	}
	query := ClosedQuery(testRepo, "Plan", week)

	t.Run("happy path", func(t *testing.T) {
		fetcher := new(mockFetcher)
		fetcher.On("SearchIssueCount", mock.Anything, query).Return(4, nil)

		n, err := NewCounter(fetcher, testRepo, zap.NewNop().Sugar()).SearchCount(context.Background(), "Plan", week)
		assert.NoError(t, err)
		assert.Equal(t, 4, n)
	})

	t.Run("error case - zero and the error", func(t *testing.T) {
		fetcher := new(mockFetcher)
		fetcher.On("SearchIssueCount", mock.Anything, query).Return(9, errors.New("rate limited"))

		n, err := NewCounter(fetcher, testRepo, zap.NewNop().Sugar()).SearchCount(context.Background(), "Plan", week)
		assert.Error(t, err)
		assert.Zero(t, n)
	})
}

func TestCounter_TallyLabels(t *testing.T) {
	labels := []string{"Plan", "Code", "Bug"}

	t.Run("happy path - pages until an empty page", func(t *testing.T) {
		fetcher := new(mockFetcher)
		fetcher.On("ListIssuesPage", mock.Anything, "any-org", "any-repo", "all", 1).Return([]gateway.Issue{
			{Number: 1, Labels: []string{"Plan", "Code"}},
			{Number: 2, Labels: []string{"Plan", "unrelated"}},
			{Number: 3, Labels: []string{"Plan", "Code", "Bug"}, IsPullRequest: true},
		}, nil).Once()
		fetcher.On("ListIssuesPage", mock.Anything, "any-org", "any-repo", "all", 2).Return([]gateway.Issue{
			{Number: 4, Labels: []string{"Code"}},
			{Number: 5},
		}, nil).Once()
		fetcher.On("ListIssuesPage", mock.Anything, "any-org", "any-repo", "all", 3).Return([]gateway.Issue{}, nil).Once()

		tally := NewCounter(fetcher, testRepo, zap.NewNop().Sugar()).TallyLabels(context.Background(), labels, "all")

		assert.True(t, tally.Complete)
		assert.NoError(t, tally.Err)
		assert.Equal(t, 2, tally.Pages)
		assert.Equal(t, domain.LabelCounts{"Plan": 2, "Code": 2, "Bug": 0}, tally.Counts)
		fetcher.AssertExpectations(t)
		fetcher.AssertNotCalled(t, "ListIssuesPage", mock.Anything, "any-org", "any-repo", "all", 4)
	})

	t.Run("pull requests never count", func(t *testing.T) {
		fetcher := new(mockFetcher)
		fetcher.On("ListIssuesPage", mock.Anything, "any-org", "any-repo", "closed", 1).Return([]gateway.Issue{
			{Number: 1, Labels: []string{"Plan"}, IsPullRequest: true},
			{Number: 2, Labels: []string{"Code", "Bug"}, IsPullRequest: true},
		}, nil).Once()
		fetcher.On("ListIssuesPage", mock.Anything, "any-org", "any-repo", "closed", 2).Return([]gateway.Issue{}, nil).Once()

		tally := NewCounter(fetcher, testRepo, zap.NewNop().Sugar()).TallyLabels(context.Background(), labels, "closed")

		assert.Equal(t, domain.LabelCounts{"Plan": 0, "Code": 0, "Bug": 0}, tally.Counts)
		fetcher.AssertExpectations(t)
	})

	t.Run("error case - keeps the partial counts", func(t *testing.T) {
		fetcher := new(mockFetcher)
		fetcher.On("ListIssuesPage", mock.Anything, "any-org", "any-repo", "all", 1).Return([]gateway.Issue{
			{Number: 1, Labels: []string{"Bug"}},
		}, nil).Once()
		fetcher.On("ListIssuesPage", mock.Anything, "any-org", "any-repo", "all", 2).Return(nil, errors.New("502")).Once()

		tally := NewCounter(fetcher, testRepo, zap.NewNop().Sugar()).TallyLabels(context.Background(), labels, "all")

		assert.False(t, tally.Complete)
		assert.EqualError(t, tally.Err, "502")
		assert.Equal(t, 1, tally.Pages)
		assert.Equal(t, domain.LabelCounts{"Plan": 0, "Code": 0, "Bug": 1}, tally.Counts)
		fetcher.AssertExpectations(t)
	})

	t.Run("default labels - extra labels are counted", func(t *testing.T) {
		tracked := domain.LabelNames(domain.TrackedLabels(domain.DefaultLabels, domain.AdditionalLabels))
		fetcher := new(mockFetcher)
		fetcher.On("ListIssuesPage", mock.Anything, "any-org", "any-repo", "all", 1).Return([]gateway.Issue{
			{Number: 1, Labels: []string{"bug"}},
			{Number: 2, Labels: []string{"bug", "documentation"}},
			{Number: 3, Labels: []string{"Plan", "documentation"}},
		}, nil).Once()
		fetcher.On("ListIssuesPage", mock.Anything, "any-org", "any-repo", "all", 2).Return([]gateway.Issue{}, nil).Once()

		tally := NewCounter(fetcher, testRepo, zap.NewNop().Sugar()).TallyLabels(context.Background(), tracked, "all")

		assert.Len(t, tally.Counts, len(domain.DefaultLabels)+len(domain.AdditionalLabels))
		assert.Equal(t, 2, tally.Counts["bug"])
		assert.Equal(t, 2, tally.Counts["documentation"])
		assert.Equal(t, 1, tally.Counts["Plan"])
		assert.Equal(t, 5, tally.Counts.Total())
	})

	t.Run("first page empty - all zero", func(t *testing.T) {
		fetcher := new(mockFetcher)
		fetcher.On("ListIssuesPage", mock.Anything, "any-org", "any-repo", "all", 1).Return([]gateway.Issue{}, nil).Once()

		tally := NewCounter(fetcher, testRepo, zap.NewNop().Sugar()).TallyLabels(context.Background(), labels, "all")

		assert.True(t, tally.Complete)
		assert.Zero(t, tally.Pages)
		assert.Zero(t, tally.Counts.Total())
		assert.Len(t, tally.Counts, 3)
	})
}

func TestCounter_TallyLabels_PagesStrictlyIncrease(t *testing.T) {
	fetcher := new(mockFetcher)
	var pages []int
	for page := 1; page <= 4; page++ {
		issues := []gateway.Issue{{Number: page, Labels: []string{"Plan"}}}
		if page == 4 {
			issues = []gateway.Issue{}
		}
		fetcher.On("ListIssuesPage", mock.Anything, "any-org", "any-repo", "all", page).
			Run(func(args mock.Arguments) { pages = append(pages, args.Int(4)) }).
			Return(issues, nil).Once()
	}

	tally := NewCounter(fetcher, testRepo, zap.NewNop().Sugar()).TallyLabels(context.Background(), []string{"Plan"}, "all")

	assert.Equal(t, []int{1, 2, 3, 4}, pages)
	assert.Equal(t, 3, tally.Counts["Plan"])
}
