package domain

import "strings"

// Label is a repository label as configured for provisioning and counting.
type Label struct {
	Name        string `json:"name" yaml:"name" mapstructure:"name"`
	Color       string `json:"color" yaml:"color" mapstructure:"color"`
	Description string `json:"description" yaml:"description" mapstructure:"description"`
}

// LabelNames returns the names of labels in order.
func LabelNames(labels []Label) []string {
	names := make([]string, 0, len(labels))
	for _, l := range labels {
		names = append(names, l.Name)
	}
	return names
}

// DefaultPhases is the phase list used whenever the repository has no devops labels.
var DefaultPhases = []string{"Plan", "Code", "Build", "Test", "Release", "Deploy", "Operate", "Monitor"}

// DefaultLabels is the DevOps label set provisioned and charted by the histogram command.
var DefaultLabels = []Label{
	{Name: "Plan", Color: "0052cc", Description: "Planning phase tasks"},
	{Name: "Code", Color: "006b75", Description: "Coding phase tasks"},
	{Name: "Build", Color: "ff9f1c", Description: "Build phase tasks"},
	{Name: "Test", Color: "e99695", Description: "Testing phase tasks"},
	{Name: "Release", Color: "bfd4f2", Description: "Release phase tasks"},
	{Name: "Deploy", Color: "7057ff", Description: "Deployment phase tasks"},
	{Name: "Operate", Color: "008672", Description: "Operation phase tasks"},
	{Name: "Monitor", Color: "d73a4a", Description: "Monitoring phase tasks"},
}

// AdditionalLabels are counted and charted next to the DevOps set but never provisioned.
// They are the GitHub defaults most repositories already carry.
var AdditionalLabels = []string{"back-end", "bug", "database", "documentation", "front-end", "tests", "wontfix"}

// TrackedLabels returns the provisioned labels followed by every extra name not already
// among them. Extra labels carry no color.
func TrackedLabels(provisioned []Label, extra []string) []Label {
	out := make([]Label, 0, len(provisioned)+len(extra))
	seen := make(map[string]bool, len(provisioned)+len(extra))
	for _, l := range provisioned {
		if seen[l.Name] {
			continue
		}
		seen[l.Name] = true
		out = append(out, l)
	}
	for _, name := range extra {
		if name == "" || seen[name] {
			continue
		}
		seen[name] = true
		out = append(out, Label{Name: name})
	}
	return out
}

// PhaseSource tells where a resolved phase list came from.
type PhaseSource string

const (
	PhaseSourceRepository PhaseSource = "repository"
	PhaseSourceDefault    PhaseSource = "default"
)

// PhaseSet is the result of resolving the DevOps phase labels.
// Err is set when the default list was used because the lookup failed.
type PhaseSet struct {
	Names  []string
	Source PhaseSource
	Err    error
}

// DefaultPhaseSet returns a fresh copy of the default phase list.
func DefaultPhaseSet(err error) PhaseSet {
	names := make([]string, len(DefaultPhases))
	copy(names, DefaultPhases)
	return PhaseSet{Names: names, Source: PhaseSourceDefault, Err: err}
}

// IsDevOpsLabel reports whether a label name marks a DevOps phase.
func IsDevOpsLabel(name string) bool {
	return strings.Contains(strings.ToLower(name), "devops")
}

// ProvisionOutcome is what happened to one label during provisioning.
type ProvisionOutcome string

const (
	ProvisionExists  ProvisionOutcome = "exists"
	ProvisionCreated ProvisionOutcome = "created"
	ProvisionFailed  ProvisionOutcome = "failed"
)

// ProvisionResult reports the outcome for a single configured label.
type ProvisionResult struct {
	Label   Label
	Outcome ProvisionOutcome
	Err     error
}
