package dottor

import (
	"embed"

	"github.com/dottor/dottor/pkg/helptopics"
	"github.com/dottor/dottor/pkg/logging"
	"github.com/spf13/cobra"
)

//go:embed help
var helpFS embed.FS

// installHelpTopics adds "dottor help <topic>" for the embedded documents
func installHelpTopics(rootCmd *cobra.Command) {
	var renderer helptopics.Renderer = &helptopics.PlainRenderer{}
	if stdoutIsTerminal() {
		renderer = helptopics.NewGlamourRenderer()
	}

	m, err := helptopics.Load(helpFS, "help", helptopics.Options{Renderer: renderer})
	if err != nil {
		logger := logging.GetLogger("cmd")
		logger.Warn().Err(err).Msg("Help topics unavailable")
		return
	}
	m.Install(rootCmd)
}
