package usecase

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/naka-gawa/devops-phase-stats/internal/domain"
	"github.com/naka-gawa/devops-phase-stats/internal/gateway"
)

// mockFetcher is a mock implementation of the gateway.Fetcher interface.
// It allows us to simulate the behavior of the GitHub gateway without making real API calls.
type mockFetcher struct {
	mock.Mock
}

var _ gateway.Fetcher = (*mockFetcher)(nil)

func (m *mockFetcher) ListLabels(ctx context.Context, owner, repo string) ([]domain.Label, error) {
	args := m.Called(ctx, owner, repo)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Label), args.Error(1)
}

func (m *mockFetcher) LabelExists(ctx context.Context, owner, repo, name string) (bool, error) {
	args := m.Called(ctx, owner, repo, name)
	return args.Bool(0), args.Error(1)
}

func (m *mockFetcher) CreateLabel(ctx context.Context, owner, repo string, label domain.Label) error {
	args := m.Called(ctx, owner, repo, label)
	return args.Error(0)
}

func (m *mockFetcher) ListIssuesPage(ctx context.Context, owner, repo, state string, page int) ([]gateway.Issue, error) {
	args := m.Called(ctx, owner, repo, state, page)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]gateway.Issue), args.Error(1)
}

func (m *mockFetcher) SearchIssueCount(ctx context.Context, query string) (int, error) {
	args := m.Called(ctx, query)
	return args.Int(0), args.Error(1)
}
