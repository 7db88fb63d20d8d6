package ui

import (
	_ "embed"
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"gopkg.in/yaml.v3"
)

// ColorDef is an adaptive color in styles.yaml
type ColorDef struct {
	Light string `yaml:"light"`
	Dark  string `yaml:"dark"`
}

// StyleDef is a style in styles.yaml. Foreground names a color.
type StyleDef struct {
	Bold       bool   `yaml:"bold,omitempty"`
	Italic     bool   `yaml:"italic,omitempty"`
	Foreground string `yaml:"foreground,omitempty"`
}

// StylesConfig is the whole styles.yaml document
type StylesConfig struct {
	Colors map[string]ColorDef `yaml:"colors"`
	Styles map[string]StyleDef `yaml:"styles"`
}

//go:embed styles.yaml
var embeddedStyles []byte

// Styles maps semantic names, including outcome states, to lipgloss styles
// bound to one renderer
type Styles struct {
	renderer *lipgloss.Renderer
	registry map[string]lipgloss.Style
}

// LoadStyles parses a styles document for the given lipgloss renderer
func LoadStyles(data []byte, r *lipgloss.Renderer) (*Styles, error) {
	var cfg StylesConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse styles: %w", err)
	}

	s := &Styles{renderer: r, registry: make(map[string]lipgloss.Style, len(cfg.Styles))}
	for name, def := range cfg.Styles {
		style := r.NewStyle().Bold(def.Bold).Italic(def.Italic)
		if c, ok := cfg.Colors[def.Foreground]; ok {
			style = style.Foreground(lipgloss.AdaptiveColor{Light: c.Light, Dark: c.Dark})
		} else if def.Foreground != "" {
			return nil, fmt.Errorf("style %s: unknown color %q", name, def.Foreground)
		}
		s.registry[name] = style
	}
	return s, nil
}

func defaultStyles(r *lipgloss.Renderer) *Styles {
	s, err := LoadStyles(embeddedStyles, r)
	if err != nil {
		// embedded data is covered by tests
		return &Styles{renderer: r, registry: map[string]lipgloss.Style{}}
	}
	return s
}

// Render styles text with the named style, or returns it unchanged
func (s *Styles) Render(name, text string) string {
	style, ok := s.registry[name]
	if !ok {
		return text
	}
	return style.Render(text)
}
