package ui

import (
	"encoding/json"
	"io"

	"github.com/dottor/dottor/pkg/types"
	"gopkg.in/yaml.v3"
)

// encoder is satisfied by both json.Encoder and yaml.Encoder
type encoder interface {
	Encode(v interface{}) error
}

// structuredRenderer provides machine-readable output
type structuredRenderer struct {
	enc encoder
}

func newJSONRenderer(output io.Writer) *structuredRenderer {
	enc := json.NewEncoder(output)
	enc.SetIndent("", "  ")
	return &structuredRenderer{enc: enc}
}

func newYAMLRenderer(output io.Writer) *structuredRenderer {
	enc := yaml.NewEncoder(output)
	enc.SetIndent(2)
	return &structuredRenderer{enc: enc}
}

func (r *structuredRenderer) RenderReport(command string, report types.RunReport) error {
	return r.enc.Encode(NewReportView(command, report))
}

func (r *structuredRenderer) RenderError(err error) error {
	return r.enc.Encode(map[string]string{"error": err.Error()})
}

func (r *structuredRenderer) RenderMessage(msg string) error {
	return r.enc.Encode(map[string]string{"message": msg})
}
