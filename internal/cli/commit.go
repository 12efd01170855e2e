package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"workbench.dev/workbench/internal/commit"
	"workbench.dev/workbench/internal/engine"
	"workbench.dev/workbench/internal/output"
	"workbench.dev/workbench/internal/runtime"
)

// newCommitCmd creates the commit command
func newCommitCmd() *cobra.Command {
	var (
		message      string
		amend        bool
		parent       string
		branch       string
		workspaceTip string
		branchTip    string
		path         string
		previousPath string
		hunks        []int
		diffSpecPath string
		contextLines int
	)

	cmd := &cobra.Command{
		Use:   "commit",
		Short: "Commit changes to a workspace branch",
		Long: `Commit the selected changes, either as a new commit or by amending an
existing one.

By default every changed file in the working tree is committed. Use
--path (optionally with --hunks) to commit a single file or a subset of
its hunks, or --diff-spec to supply an explicit change list as JSON.

In an initialized project the commit is placed on the stack segment named
by --branch; without a project the operation runs headless against
--workspace-tip and --branch-tip hints.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			selection, err := buildSelection(path, previousPath, hunks, diffSpecPath)
			if err != nil {
				return err
			}

			ctx, err := runtime.GetContext(".")
			if err != nil {
				return err
			}
			defer ctx.Close()

			eng := engine.New(ctx.Repo)
			var executor commit.Executor
			if ctx.Project != nil {
				executor = &commit.ProjectExecutor{
					Repo:     ctx.Repo,
					Registry: ctx.Project.Stacks(),
					Engine:   eng,
					Lock:     ctx.Project.ExclusiveWorktreeAccess,
				}
			} else {
				executor = &commit.FrameExecutor{Repo: ctx.Repo, Engine: eng}
			}

			resolver := &commit.Resolver{Repo: ctx.Repo, Diff: ctx.Repo}
			outcome, err := resolver.Resolve(commit.Request{
				Message:         message,
				Amend:           amend,
				ParentRevspec:   parent,
				StackSegmentRef: branch,
				WorkspaceTip:    workspaceTip,
				BranchTip:       branchTip,
				Selection:       selection,
				ContextLines:    contextLines,
			}, executor)
			if err != nil {
				return err
			}

			ctx.Splog.Page(output.FormatOutcome(outcome))
			return nil
		},
	}

	cmd.Flags().StringVarP(&message, "message", "m", "", "Commit message; required unless amending")
	cmd.Flags().BoolVar(&amend, "amend", false, "Amend the target commit instead of creating a new one")
	cmd.Flags().StringVar(&parent, "parent", "", "Revision spec of the parent commit, or of the commit to amend")
	cmd.Flags().StringVarP(&branch, "branch", "b", "", "Branch (stack segment) the commit belongs to; short or qualified name")
	cmd.Flags().StringVar(&workspaceTip, "workspace-tip", "", "Workspace tip hint for headless operation")
	cmd.Flags().StringVar(&branchTip, "branch-tip", "", "Branch tip hint for headless operation")
	cmd.Flags().StringVarP(&path, "path", "p", "", "Commit only this file (repo-relative path)")
	cmd.Flags().StringVar(&previousPath, "previous-path", "", "Previous path of the file when it was renamed")
	cmd.Flags().IntSliceVar(&hunks, "hunks", nil, "Indices of the hunks of --path to commit; all of it when omitted")
	cmd.Flags().StringVar(&diffSpecPath, "diff-spec", "", "Read an explicit JSON change list from this file, or '-' for stdin")
	cmd.Flags().IntVar(&contextLines, "context-lines", 0, "Context lines used when applying hunks")

	return cmd
}

// buildSelection maps the mutually exclusive flag groups onto a change
// selection. Contradictory combinations are rejected here, before any
// resolution work starts, so the resolver only ever sees one mode.
func buildSelection(path, previousPath string, hunks []int, diffSpecPath string) (commit.Selection, error) {
	if diffSpecPath != "" {
		if path != "" || previousPath != "" || len(hunks) > 0 {
			return nil, fmt.Errorf("--diff-spec cannot be combined with --path, --previous-path or --hunks")
		}
		specs, err := readDiffSpecs(diffSpecPath)
		if err != nil {
			return nil, err
		}
		return commit.ExplicitChanges{Specs: specs}, nil
	}

	if path == "" {
		if previousPath != "" {
			return nil, fmt.Errorf("--previous-path requires --path")
		}
		if len(hunks) > 0 {
			return nil, fmt.Errorf("--hunks requires --path")
		}
		return commit.WorktreeChanges{}, nil
	}

	return commit.FileSelection{
		Path:         path,
		PreviousPath: previousPath,
		Indices:      hunks,
	}, nil
}

// diffSpecJSON is the wire form of one explicit change.
type diffSpecJSON struct {
	PreviousPath string `json:"previousPath,omitempty"`
	Path         string `json:"path"`
	HunkHeaders  []struct {
		OldStart uint32 `json:"oldStart"`
		OldLines uint32 `json:"oldLines"`
		NewStart uint32 `json:"newStart"`
		NewLines uint32 `json:"newLines"`
	} `json:"hunkHeaders,omitempty"`
}

func readDiffSpecs(path string) ([]commit.DiffSpec, error) {
	var data []byte
	var err error
	if path == "-" {
		data, err = io.ReadAll(os.Stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read diff spec: %w", err)
	}

	var wire []diffSpecJSON
	if err := json.Unmarshal(data, &wire); err != nil {
		return nil, fmt.Errorf("failed to parse diff spec: %w", err)
	}

	specs := make([]commit.DiffSpec, 0, len(wire))
	for _, entry := range wire {
		if entry.Path == "" {
			return nil, fmt.Errorf("diff spec entry is missing a path")
		}
		spec := commit.DiffSpec{PreviousPath: entry.PreviousPath, Path: entry.Path}
		for _, h := range entry.HunkHeaders {
			spec.HunkHeaders = append(spec.HunkHeaders, commit.HunkHeader{
				OldStart: h.OldStart,
				OldLines: h.OldLines,
				NewStart: h.NewStart,
				NewLines: h.NewLines,
			})
		}
		specs = append(specs, spec)
	}
	return specs, nil
}
