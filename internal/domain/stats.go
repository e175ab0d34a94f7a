// Package domain contains the core data structures and domain logic for the application.
package domain

import "sort"

// LabelCounts maps a label name to the number of issues carrying it.
type LabelCounts map[string]int

// NewLabelCounts returns a LabelCounts with every given label initialised to zero.
func NewLabelCounts(names []string) LabelCounts {
	counts := make(LabelCounts, len(names))
	for _, name := range names {
		counts[name] = 0
	}
	return counts
}

// Tracks reports whether name is one of the counted labels.
func (c LabelCounts) Tracks(name string) bool {
	_, ok := c[name]
	return ok
}

// Increment adds one to a tracked label. Untracked names are ignored.
func (c LabelCounts) Increment(name string) {
	if c.Tracks(name) {
		c[name]++
	}
}

// Total returns the sum of all counts.
func (c LabelCounts) Total() int {
	total := 0
	for _, n := range c {
		total += n
	}
	return total
}

// Names returns the tracked label names sorted alphabetically.
func (c LabelCounts) Names() []string {
	names := make([]string, 0, len(c))
	for name := range c {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Tally is the result of a full-pagination count.
// Complete is false when a page request failed; Counts then holds whatever
// had been accumulated before the failure and Err holds the cause.
type Tally struct {
	Counts   LabelCounts `json:"counts"`
	Pages    int         `json:"pages"`
	Complete bool        `json:"complete"`
	Err      error       `json:"-"`
}
