package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/dottor/dottor/cmd/dottor"
	"github.com/dottor/dottor/pkg/ui"
)

func main() {
	// interrupt cancels the run; entries not yet started are reported as failed
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	rootCmd := dottor.NewRootCmd()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		renderer, rerr := ui.NewRenderer(ui.FormatAuto, os.Stderr)
		if rerr != nil || renderer.RenderError(err) != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		stop()
		os.Exit(1)
	}
}
