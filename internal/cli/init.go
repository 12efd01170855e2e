package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"workbench.dev/workbench/internal/git"
	"workbench.dev/workbench/internal/project"
)

// newInitCmd creates the init command
func newInitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Initialize the repository as a workbench project",
		Long: `Initialize the repository as a workbench project. Initialized projects
track workspace stacks and serialize commit operations against the
working copy; repositories without a project still work, but commits run
headless.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			repo, err := git.OpenRepository(".")
			if err != nil {
				return fmt.Errorf("not a git repository: %w", err)
			}

			proj, err := project.Init(repo.Root())
			if err != nil {
				return err
			}

			fmt.Printf("initialized workbench project in %s\n", proj.DataDir())
			return nil
		},
	}
}
