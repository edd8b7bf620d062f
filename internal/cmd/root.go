package cmd

import (
	"github.com/spf13/cobra"
)

// Version is injected at build time via -ldflags
var Version = "dev"

// NewRootCommand creates and returns the root cobra command for covgate.
// Invoking covgate with no arguments runs the coverage check.
func NewRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "covgate",
		Short: "Coverage threshold gate and report generator",
		Long: `Covgate validates that a repository meets configured code-coverage
thresholds and produces machine- and human-readable reports.

It acquires coverage data from an LCOV file, a Go cover profile, or the
test runner's console output, falling back to a file-ratio estimate when
no instrumentation data exists. Four aggregate metrics (lines, functions,
branches, statements) are compared against their thresholds; the process
exits non-zero if any metric falls short.`,
		Version: Version,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return checkCurrentDir(cmd)
		},
		// Silence usage on errors to avoid duplicate help text
		SilenceUsage: true,
	}

	// Add subcommands
	cmd.AddCommand(NewCheckCommand())
	cmd.AddCommand(NewHistoryCommand())

	return cmd
}
