package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"workbench.dev/workbench/internal/runtime"
)

// newStackCmd creates the stack command group
func newStackCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stack",
		Short: "Manage the registered workspace stacks",
	}
	cmd.AddCommand(newStackListCmd())
	cmd.AddCommand(newStackTrackCmd())
	cmd.AddCommand(newStackUntrackCmd())
	return cmd
}

func newStackListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List registered stacks and their segment heads",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, err := requireProject()
			if err != nil {
				return err
			}
			defer ctx.Close()

			stacks, err := ctx.Project.Stacks().List()
			if err != nil {
				return err
			}
			if len(stacks) == 0 {
				ctx.Splog.Info("no stacks tracked")
				return nil
			}
			for _, stack := range stacks {
				ctx.Splog.Info("%s (%s): %s", stack.Name, stack.ID, strings.Join(stack.Heads, ", "))
			}
			return nil
		},
	}
}

func newStackTrackCmd() *cobra.Command {
	var heads []string

	cmd := &cobra.Command{
		Use:   "track <name>",
		Short: "Register a stack and the branches that form its segments",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, err := requireProject()
			if err != nil {
				return err
			}
			defer ctx.Close()

			stack, err := ctx.Project.Stacks().Track(args[0], heads)
			if err != nil {
				return err
			}
			ctx.Splog.Info("tracking stack %s (%s)", stack.Name, stack.ID)
			return nil
		},
	}

	cmd.Flags().StringSliceVar(&heads, "head", nil, "Segment head branch name; repeat for each segment, bottom to top")
	return cmd
}

func newStackUntrackCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "untrack <name>",
		Short: "Remove a stack from the registry",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, err := requireProject()
			if err != nil {
				return err
			}
			defer ctx.Close()

			return ctx.Project.Stacks().Untrack(args[0])
		},
	}
}

// requireProject returns a context whose project is initialized.
func requireProject() (*runtime.Context, error) {
	ctx, err := runtime.GetContext(".")
	if err != nil {
		return nil, err
	}
	if ctx.Project == nil {
		ctx.Close()
		return nil, fmt.Errorf("workbench not initialized. Run 'workbench init' first")
	}
	return ctx, nil
}
