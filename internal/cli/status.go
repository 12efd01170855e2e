package cli

import (
	"github.com/spf13/cobra"

	"workbench.dev/workbench/internal/runtime"
)

// newStatusCmd creates the status command
func newStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the changes a plain 'workbench commit' would pick up",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, err := runtime.GetContext(".")
			if err != nil {
				return err
			}
			defer ctx.Close()

			changes, err := ctx.Repo.WorktreeChanges()
			if err != nil {
				return err
			}
			if len(changes) == 0 {
				ctx.Splog.Info("nothing to commit")
				return nil
			}

			for _, change := range changes {
				if change.PreviousPath != "" {
					ctx.Splog.Info("  %s -> %s", change.PreviousPath, change.Path)
					continue
				}
				ctx.Splog.Info("  %s", change.Path)
			}
			return nil
		},
	}
}
