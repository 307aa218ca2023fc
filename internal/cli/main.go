// Package cli implements the ytt command-line client.
package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/anatolykoptev/go_transcript/internal/setup"
)

// Main runs the ytt CLI and exits non-zero on failure.
func Main() {
	setup.LoadDotenv()

	root := newRoot(os.Stdout, os.Stderr)
	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRoot(stdout, stderr io.Writer) *cobra.Command {
	root := &cobra.Command{
		Use:          "ytt",
		Short:        "Fetch YouTube transcripts",
		SilenceUsage: true,
	}
	root.SetOut(stdout)
	root.SetErr(stderr)
	root.SilenceErrors = true

	root.AddCommand(newFetchCmd(), newResolveIDCmd())
	return root
}
