package usecase

import (
	"context"
	"time"

	"github.com/montanaflynn/stats"
	"go.uber.org/zap"

	"github.com/naka-gawa/devops-phase-stats/internal/domain"
)

// Aggregator is the use case for building the weekly phase checklist.
// It orchestrates phase resolution and per-week counting.
type Aggregator struct {
	resolver *PhaseResolver
	counter  *Counter
	repo     domain.Repository
	now      func() time.Time
	logger   *zap.SugaredLogger
}

// NewAggregator creates a new Aggregator instance.
func NewAggregator(resolver *PhaseResolver, counter *Counter, repo domain.Repository, logger *zap.SugaredLogger) *Aggregator {
	return &Aggregator{
		resolver: resolver,
		counter:  counter,
		repo:     repo,
		now:      time.Now,
		logger:   logger,
	}
}

// Aggregate resolves the phases and counts the issues closed in each week for each of them.
// Counts that fail are recorded as zero and flagged, so the checklist is always complete.
func (a *Aggregator) Aggregate(ctx context.Context, weeks []domain.DateRange) *domain.Checklist {
	a.logger.Debugw("Usecase: Starting checklist aggregation...", "weeks", len(weeks))

	phases := a.resolver.Resolve(ctx)
	checklist := &domain.Checklist{
		Repository:  a.repo.String(),
		GeneratedAt: a.now(),
		PhaseSource: phases.Source,
		Phases:      make([]domain.PhaseChecklist, 0, len(phases.Names)),
	}

	for _, phase := range phases.Names {
		row := domain.PhaseChecklist{Phase: phase, Weeks: make([]domain.WeekCount, 0, len(weeks))}
		for _, week := range weeks {
			n, err := a.counter.SearchCount(ctx, phase, week)
			row.Weeks = append(row.Weeks, domain.WeekCount{Week: week, Completed: n, Failed: err != nil})
		}
		row.Summary = summarize(row.Weeks)
		checklist.Phases = append(checklist.Phases, row)
	}

	if checklist.Partial() {
		a.logger.Warnw("Usecase: Checklist is partial, some counts could not be fetched")
	}
	a.logger.Debugw("Usecase: Aggregation complete.")
	return checklist
}

// summarize computes the statistics over the fetched weeks only; a failed week
// is a missing value, not a zero.
func summarize(weeks []domain.WeekCount) domain.PhaseSummary {
	var summary domain.PhaseSummary
	data := make(stats.Float64Data, 0, len(weeks))
	for _, w := range weeks {
		if w.Failed {
			summary.FailedWeeks++
			continue
		}
		data = append(data, float64(w.Completed))
	}
	if len(data) == 0 {
		return summary
	}
	total, _ := stats.Sum(data)
	mean, _ := stats.Mean(data)
	median, _ := stats.Median(data)
	peak, _ := stats.Max(data)
	summary.Total = int(total)
	summary.Mean = mean
	summary.Median = median
	summary.Max = int(peak)
	return summary
}
