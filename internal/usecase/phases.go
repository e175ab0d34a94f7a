// Package usecase contains the business logic of the application.
package usecase

import (
	"context"

	"go.uber.org/zap"

	"github.com/naka-gawa/devops-phase-stats/internal/domain"
	"github.com/naka-gawa/devops-phase-stats/internal/gateway"
)

// PhaseResolver determines the working set of DevOps phase labels.
type PhaseResolver struct {
	fetcher gateway.Fetcher
	repo    domain.Repository
	logger  *zap.SugaredLogger
}

// NewPhaseResolver creates a new PhaseResolver instance.
func NewPhaseResolver(fetcher gateway.Fetcher, repo domain.Repository, logger *zap.SugaredLogger) *PhaseResolver {
	return &PhaseResolver{fetcher: fetcher, repo: repo, logger: logger}
}

// Resolve returns the repository labels whose name contains "devops", in API order.
// It falls back to domain.DefaultPhases when none match or the lookup fails.
func (r *PhaseResolver) Resolve(ctx context.Context) domain.PhaseSet {
	labels, err := r.fetcher.ListLabels(ctx, r.repo.Owner, r.repo.Name)
	if err != nil {
		r.logger.Errorw("Failed to fetch devops labels, using default phases", "repository", r.repo.String(), "error", err)
		return domain.DefaultPhaseSet(err)
	}

	var names []string
	for _, l := range labels {
		if domain.IsDevOpsLabel(l.Name) {
			names = append(names, l.Name)
		}
	}
	if len(names) == 0 {
		r.logger.Infow("No devops labels found, using default phases", "repository", r.repo.String())
		return domain.DefaultPhaseSet(nil)
	}

	r.logger.Debugw("Resolved phases from repository labels", "phases", names)
	return domain.PhaseSet{Names: names, Source: domain.PhaseSourceRepository}
}
