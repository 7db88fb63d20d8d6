// Package ui renders run reports for people and for machines.
package ui

import (
	"fmt"
	"io"
	"os"

	"github.com/dottor/dottor/pkg/types"
)

// Renderer is the common interface for all output renderers
type Renderer interface {
	// RenderReport renders a run report under a heading such as "deploy"
	RenderReport(command string, report types.RunReport) error

	// RenderError renders an error with appropriate formatting
	RenderError(err error) error

	// RenderMessage renders a simple message
	RenderMessage(msg string) error
}

// NewRenderer creates a renderer for format. FormatAuto inspects output.
func NewRenderer(format Format, output io.Writer) (Renderer, error) {
	switch format {
	case FormatAuto:
		if file, ok := output.(*os.File); ok {
			return NewRenderer(DetectFormat(file), output)
		}
		return NewRenderer(FormatText, output)
	case FormatTerminal:
		return newTerminalRenderer(output), nil
	case FormatText:
		return newTextRenderer(output), nil
	case FormatJSON:
		return newJSONRenderer(output), nil
	case FormatYAML:
		return newYAMLRenderer(output), nil
	default:
		return nil, fmt.Errorf("unknown format: %v", format)
	}
}
