package usecase

import (
	"context"

	"go.uber.org/zap"

	"github.com/naka-gawa/devops-phase-stats/internal/domain"
	"github.com/naka-gawa/devops-phase-stats/internal/gateway"
)

// Provisioner creates configured labels that are missing from the repository.
type Provisioner struct {
	fetcher gateway.Fetcher
	repo    domain.Repository
	logger  *zap.SugaredLogger
}

// NewProvisioner creates a new Provisioner instance.
func NewProvisioner(fetcher gateway.Fetcher, repo domain.Repository, logger *zap.SugaredLogger) *Provisioner {
	return &Provisioner{fetcher: fetcher, repo: repo, logger: logger}
}

// Provision checks every label and creates the missing ones. A failure on one
// label is logged and does not stop the others.
func (p *Provisioner) Provision(ctx context.Context, labels []domain.Label) []domain.ProvisionResult {
	results := make([]domain.ProvisionResult, 0, len(labels))
	for _, label := range labels {
		results = append(results, p.provisionOne(ctx, label))
	}
	return results
}

func (p *Provisioner) provisionOne(ctx context.Context, label domain.Label) domain.ProvisionResult {
	result := domain.ProvisionResult{Label: label}

	exists, err := p.fetcher.LabelExists(ctx, p.repo.Owner, p.repo.Name, label.Name)
	if err != nil {
		p.logger.Errorw("Failed to look up label", "label", label.Name, "error", err)
		result.Outcome, result.Err = domain.ProvisionFailed, err
		return result
	}
	if exists {
		p.logger.Infow("Label already exists", "label", label.Name)
		result.Outcome = domain.ProvisionExists
		return result
	}

	if err := p.fetcher.CreateLabel(ctx, p.repo.Owner, p.repo.Name, label); err != nil {
		p.logger.Errorw("Failed to create label", "label", label.Name, "error", err)
		result.Outcome, result.Err = domain.ProvisionFailed, err
		return result
	}
	p.logger.Infow("Created label", "label", label.Name, "color", label.Color)
	result.Outcome = domain.ProvisionCreated
	return result
}
