package ui

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/dottor/dottor/pkg/types"
)

// textRenderer prints one aligned line per entry without any escape codes
type textRenderer struct {
	output io.Writer
}

func newTextRenderer(w io.Writer) *textRenderer {
	return &textRenderer{output: w}
}

func (r *textRenderer) RenderReport(command string, report types.RunReport) error {
	view := NewReportView(command, report)

	title := command
	if view.DryRun {
		title += " (dry run)"
	}
	if _, err := fmt.Fprintln(r.output, title); err != nil {
		return err
	}

	tw := tabwriter.NewWriter(r.output, 0, 4, 2, ' ', 0)
	for _, e := range view.Entries {
		line := fmt.Sprintf("%s\t%s\t%s", e.State, e.Entry, e.Target)
		if d := detail(e); d != "" {
			line += "\t" + d
		}
		if _, err := fmt.Fprintln(tw, line); err != nil {
			return err
		}
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	if _, err := fmt.Fprintln(r.output, summaryLine(view)); err != nil {
		return err
	}

	if len(view.Dependencies) == 0 {
		return nil
	}
	if _, err := fmt.Fprintln(r.output, "dependencies"); err != nil {
		return err
	}
	tw = tabwriter.NewWriter(r.output, 0, 4, 2, ' ', 0)
	for _, d := range view.Dependencies {
		if _, err := fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", d.State(), d.Kind, dependencyName(d), d.Config); err != nil {
			return err
		}
	}
	return tw.Flush()
}

func (r *textRenderer) RenderError(err error) error {
	_, werr := fmt.Fprintf(r.output, "Error: %v\n", err)
	return werr
}

func (r *textRenderer) RenderMessage(msg string) error {
	_, err := fmt.Fprintln(r.output, msg)
	return err
}
