package ui

import (
	"github.com/dottor/dottor/pkg/types"
)

// ReportView is the serializable form of a RunReport
type ReportView struct {
	Command       string        `json:"command" yaml:"command"`
	DryRun        bool          `json:"dry_run" yaml:"dry_run"`
	Excluded      int           `json:"excluded" yaml:"excluded"`
	NotApplicable int           `json:"not_applicable" yaml:"not_applicable"`
	Summary       types.Summary `json:"summary" yaml:"summary"`
	Entries       []EntryView   `json:"entries" yaml:"entries"`

	Dependencies []DependencyView `json:"dependencies,omitempty" yaml:"dependencies,omitempty"`
}

// DependencyView is one declared dependency and whether it was found
type DependencyView struct {
	Config   string `json:"config" yaml:"config"`
	Kind     string `json:"kind" yaml:"kind"`
	Name     string `json:"name" yaml:"name"`
	Version  string `json:"version,omitempty" yaml:"version,omitempty"`
	Optional bool   `json:"optional,omitempty" yaml:"optional,omitempty"`
	Found    bool   `json:"found" yaml:"found"`
}

// State is "found", "missing" or, for optional dependencies, "absent"
func (d DependencyView) State() string {
	switch {
	case d.Found:
		return "found"
	case d.Optional:
		return "absent"
	default:
		return "missing"
	}
}

// EntryView is one row of a report
type EntryView struct {
	Entry  string `json:"entry" yaml:"entry"`
	Target string `json:"target,omitempty" yaml:"target,omitempty"`
	Source string `json:"source,omitempty" yaml:"source,omitempty"`
	Kind   string `json:"kind,omitempty" yaml:"kind,omitempty"`
	Action string `json:"action" yaml:"action"`
	Reason string `json:"reason,omitempty" yaml:"reason,omitempty"`
	State  string `json:"state" yaml:"state"`
	Backup string `json:"backup,omitempty" yaml:"backup,omitempty"`
	Error  string `json:"error,omitempty" yaml:"error,omitempty"`
}

// NewReportView flattens a report, keeping scan order
func NewReportView(command string, report types.RunReport) ReportView {
	view := ReportView{
		Command:       command,
		DryRun:        report.DryRun,
		Excluded:      report.Excluded,
		NotApplicable: report.NotApplicable,
		Summary:       report.Summary(),
		Entries:       make([]EntryView, 0, len(report.Results)),
	}
	for _, r := range report.Results {
		view.Entries = append(view.Entries, EntryView{
			Entry:  r.Entry.Path,
			Target: r.Target.Path,
			Source: r.Target.Source,
			Kind:   string(r.Target.Kind),
			Action: string(r.Action.Kind),
			Reason: r.Action.Reason,
			State:  string(r.Outcome.State),
			Backup: r.Outcome.BackupPath,
			Error:  r.Outcome.ErrorString(),
		})
	}
	for _, d := range report.Dependencies {
		view.Dependencies = append(view.Dependencies, DependencyView{
			Config:   d.Config,
			Kind:     d.Kind,
			Name:     d.Name,
			Version:  d.Version,
			Optional: d.Optional,
			Found:    d.Found,
		})
	}
	return view
}
