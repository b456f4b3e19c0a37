// Package cli exposes the tanksim-run binary's command tree.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// NewRootCommand builds the top-level "tanksim" command tree.
func NewRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   "tanksim",
		Short: "Crude-oil tank farm discharge simulator",
	}
	root.AddCommand(newRunCommand())
	return root
}

// Execute runs the command tree and exits non-zero on error.
func Execute() {
	if err := NewRootCommand().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
