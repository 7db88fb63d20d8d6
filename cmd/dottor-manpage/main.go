package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra/doc"

	"github.com/dottor/dottor/cmd/dottor"
	"github.com/dottor/dottor/internal/version"
)

func main() {
	rootCmd := dottor.NewRootCmd()

	header := &doc.GenManHeader{
		Title:   "DOTTOR",
		Section: "1",
		Source:  "dottor " + version.Version,
		Manual:  "dottor manual",
	}

	if err := doc.GenMan(rootCmd, header, os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "Error generating man page: %v\n", err)
		os.Exit(1)
	}
}
