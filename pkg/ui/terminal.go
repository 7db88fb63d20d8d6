package ui

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/dottor/dottor/pkg/types"
	"github.com/pterm/pterm"
)

// terminalRenderer draws a styled table of results
type terminalRenderer struct {
	output io.Writer
	styles *Styles
}

func newTerminalRenderer(w io.Writer) *terminalRenderer {
	return &terminalRenderer{output: w, styles: defaultStyles(lipgloss.NewRenderer(w))}
}

func (r *terminalRenderer) RenderReport(command string, report types.RunReport) error {
	view := NewReportView(command, report)

	title := command
	if view.DryRun {
		title += " (dry run)"
	}
	if _, err := fmt.Fprintln(r.output, r.styles.Render("Header", title)); err != nil {
		return err
	}

	if len(view.Entries) > 0 {
		data := pterm.TableData{{"STATE", "ENTRY", "TARGET", "DETAIL"}}
		for _, e := range view.Entries {
			data = append(data, []string{
				r.styles.Render(e.State, e.State),
				e.Entry,
				r.styles.Render("Path", e.Target),
				r.styles.Render("Muted", detail(e)),
			})
		}
		table, err := pterm.DefaultTable.WithHasHeader().WithData(data).Srender()
		if err != nil {
			return err
		}
		if _, err := fmt.Fprintln(r.output, table); err != nil {
			return err
		}
	}

	if _, err := fmt.Fprintln(r.output, r.styles.Render("Muted", summaryLine(view))); err != nil {
		return err
	}

	if len(view.Dependencies) == 0 {
		return nil
	}
	data := pterm.TableData{{"DEPENDENCY", "KIND", "CONFIG", "STATE"}}
	for _, d := range view.Dependencies {
		data = append(data, []string{dependencyName(d), d.Kind, d.Config, r.styles.Render(dependencyStyle(d), d.State())})
	}
	table, err := pterm.DefaultTable.WithHasHeader().WithData(data).Srender()
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(r.output, table)
	return err
}

// dependencyStyle borrows the outcome palette
func dependencyStyle(d DependencyView) string {
	switch d.State() {
	case "found":
		return string(types.OutcomeLinked)
	case "missing":
		return string(types.OutcomeFailed)
	default:
		return "Muted"
	}
}

func dependencyName(d DependencyView) string {
	if d.Version != "" {
		return d.Name + " " + d.Version
	}
	return d.Name
}

func (r *terminalRenderer) RenderError(err error) error {
	_, werr := fmt.Fprintf(r.output, "%s %v\n", r.styles.Render(string(types.OutcomeFailed), "Error:"), err)
	return werr
}

func (r *terminalRenderer) RenderMessage(msg string) error {
	_, err := fmt.Fprintln(r.output, msg)
	return err
}

// detail is the free-text column: conflict reason, backup, error
func detail(e EntryView) string {
	var parts []string
	if e.Reason != "" && e.Error == "" {
		parts = append(parts, e.Reason)
	}
	if e.Backup != "" {
		parts = append(parts, "backup: "+e.Backup)
	}
	if e.Error != "" {
		parts = append(parts, e.Error)
	}
	if len(parts) == 0 && e.State == string(types.OutcomePending) {
		parts = append(parts, "would "+strings.ReplaceAll(e.Action, "_", " "))
	}
	return strings.Join(parts, "; ")
}

func summaryLine(v ReportView) string {
	s := v.Summary
	counts := []struct {
		label string
		n     int
	}{
		{"linked", s.Linked},
		{"pending", s.Pending},
		{"skipped", s.Skipped},
		{"conflicted", s.Conflicted},
		{"failed", s.Failed},
		{"removed", s.Removed},
		{"restored", s.Restored},
		{"excluded", v.Excluded},
		{"not applicable", v.NotApplicable},
	}
	parts := []string{fmt.Sprintf("%d entries", s.Total)}
	for _, c := range counts {
		if c.n > 0 {
			parts = append(parts, fmt.Sprintf("%d %s", c.n, c.label))
		}
	}
	return strings.Join(parts, ", ")
}
