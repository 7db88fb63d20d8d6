package types

import "sort"

// EntryResult is one (entry, action, outcome) triple of a run
type EntryResult struct {
	Entry   RepositoryEntry
	Target  TargetDescriptor
	Action  Action
	Outcome Outcome
}

// RunReport is the ordered result of a reconciliation pass
type RunReport struct {
	Results []EntryResult

	// Excluded counts entries dropped by the exclude filter
	Excluded int

	// NotApplicable counts entries whose platform tag did not match
	NotApplicable int

	DryRun bool

	// Dependencies declared by the scanned configs. Only status fills it.
	Dependencies []Dependency
}

// Dependency is something a config declares it needs: another config of the
// repository ("local") or a program on the host ("system")
type Dependency struct {
	Config   string
	Kind     string
	Name     string
	Version  string
	Optional bool
	Found    bool
}

// MissingDependencies counts required dependencies that were not found
func (r RunReport) MissingDependencies() int {
	n := 0
	for _, d := range r.Dependencies {
		if !d.Found && !d.Optional {
			n++
		}
	}
	return n
}

// Summary counts results per outcome state
type Summary struct {
	Total      int `json:"total" yaml:"total"`
	Pending    int `json:"pending" yaml:"pending"`
	Linked     int `json:"linked" yaml:"linked"`
	Skipped    int `json:"skipped" yaml:"skipped"`
	Conflicted int `json:"conflicted" yaml:"conflicted"`
	Failed     int `json:"failed" yaml:"failed"`
	Removed    int `json:"removed,omitempty" yaml:"removed,omitempty"`
	Restored   int `json:"restored,omitempty" yaml:"restored,omitempty"`
	Mutations  int `json:"mutations" yaml:"mutations"`
}

// SortByIndex restores repository scan order
func (r *RunReport) SortByIndex() {
	sort.SliceStable(r.Results, func(i, j int) bool {
		return r.Results[i].Entry.Index < r.Results[j].Entry.Index
	})
}

// Summary tallies the report
func (r RunReport) Summary() Summary {
	s := Summary{Total: len(r.Results)}
	for _, res := range r.Results {
		switch res.Outcome.State {
		case OutcomePending:
			s.Pending++
		case OutcomeLinked:
			s.Linked++
		case OutcomeSkipped:
			s.Skipped++
		case OutcomeConflicted:
			s.Conflicted++
		case OutcomeFailed:
			s.Failed++
		case OutcomeRemoved:
			s.Removed++
		case OutcomeRestored:
			s.Restored++
		}
		if res.Outcome.Mutated {
			s.Mutations++
		}
	}
	return s
}

// HasFailures reports whether any entry ended Conflicted or Failed
func (r RunReport) HasFailures() bool {
	s := r.Summary()
	return s.Conflicted > 0 || s.Failed > 0
}
