package domain

import "time"

const dateLayout = "2006-01-02"

// DateRange is an inclusive range of calendar dates.
type DateRange struct {
	Start time.Time `json:"start" yaml:"start"`
	End   time.Time `json:"end" yaml:"end"`
}

// String formats the range the way GitHub search qualifiers expect it.
func (r DateRange) String() string {
	return r.Start.Format(dateLayout) + ".." + r.End.Format(dateLayout)
}

// Weeks splits r into consecutive 7-day windows. The last window ends at r.End.
func (r DateRange) Weeks() []DateRange {
	var weeks []DateRange
	start := truncateDay(r.Start)
	end := truncateDay(r.End)
	for !start.After(end) {
		weekEnd := start.AddDate(0, 0, 6)
		if weekEnd.After(end) {
			weekEnd = end
		}
		weeks = append(weeks, DateRange{Start: start, End: weekEnd})
		start = weekEnd.AddDate(0, 0, 1)
	}
	return weeks
}

// LastWeeks returns n consecutive 7-day windows ending on the day of now, oldest first.
func LastWeeks(now time.Time, n int) []DateRange {
	if n <= 0 {
		return nil
	}
	end := truncateDay(now)
	start := end.AddDate(0, 0, -7*n+1)
	return DateRange{Start: start, End: end}.Weeks()
}

func truncateDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// WeekCount is the number of issues of one phase closed during one week.
// Failed marks a count that could not be fetched and was reported as zero.
type WeekCount struct {
	Week      DateRange `json:"week" yaml:"week"`
	Completed int       `json:"completed" yaml:"completed"`
	Failed    bool      `json:"failed,omitempty" yaml:"failed,omitempty"`
}

// PhaseSummary holds per-phase statistics over the weeks whose count was fetched.
// FailedWeeks counts the weeks left out.
type PhaseSummary struct {
	Total       int     `json:"total" yaml:"total"`
	Mean        float64 `json:"mean" yaml:"mean"`
	Median      float64 `json:"median" yaml:"median"`
	Max         int     `json:"max" yaml:"max"`
	FailedWeeks int     `json:"failed_weeks,omitempty" yaml:"failed_weeks,omitempty"`
}

// PhaseChecklist is one checklist row.
type PhaseChecklist struct {
	Phase   string       `json:"phase" yaml:"phase"`
	Weeks   []WeekCount  `json:"weeks" yaml:"weeks"`
	Summary PhaseSummary `json:"summary" yaml:"summary"`
}

// Checklist is the weekly completed-issue report for a repository.
type Checklist struct {
	Repository  string           `json:"repository" yaml:"repository"`
	GeneratedAt time.Time        `json:"generated_at" yaml:"generated_at"`
	PhaseSource PhaseSource      `json:"phase_source" yaml:"phase_source"`
	Phases      []PhaseChecklist `json:"phases" yaml:"phases"`
}

// Weeks returns the week windows covered by the checklist.
func (c *Checklist) Weeks() []DateRange {
	if len(c.Phases) == 0 {
		return nil
	}
	weeks := make([]DateRange, 0, len(c.Phases[0].Weeks))
	for _, w := range c.Phases[0].Weeks {
		weeks = append(weeks, w.Week)
	}
	return weeks
}

// Partial reports whether any cell of the checklist failed to load.
func (c *Checklist) Partial() bool {
	for _, p := range c.Phases {
		for _, w := range p.Weeks {
			if w.Failed {
				return true
			}
		}
	}
	return false
}
