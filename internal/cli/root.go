// Package cli wires the workbench commands.
package cli

import (
	"github.com/spf13/cobra"
)

// NewRootCmd creates the root cobra command
func NewRootCmd(version string) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:     "workbench",
		Short:   "Workbench commits changes into multi-branch workspaces",
		Version: version,
		Long: `Workbench resolves a commit request against a multi-branch workspace:
it decides what to commit, which commit to build on (or amend), and which
branch segment the result belongs to, then creates the commit and moves
the affected refs.`,
		SilenceUsage: true,
	}

	rootCmd.AddCommand(newCommitCmd())
	rootCmd.AddCommand(newStatusCmd())
	rootCmd.AddCommand(newInitCmd())
	rootCmd.AddCommand(newStackCmd())

	return rootCmd
}
