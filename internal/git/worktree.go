package git

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"workbench.dev/workbench/internal/commit"
)

// WorktreeChanges enumerates every changed path between the working tree
// and HEAD, including untracked files, ordered by path. Staged renames
// carry the previous path.
func (r *Repository) WorktreeChanges() ([]commit.TreeChange, error) {
	// go-git's status does not report renames, so this shells out.
	output, err := r.runner.RunRaw(context.Background(), "status", "--porcelain", "-z")
	if err != nil {
		return nil, fmt.Errorf("failed to get worktree status: %w", err)
	}

	changes, err := parsePorcelainStatus(output)
	if err != nil {
		return nil, err
	}
	slices.SortFunc(changes, func(a, b commit.TreeChange) int {
		return strings.Compare(a.Path, b.Path)
	})
	return changes, nil
}

// parsePorcelainStatus parses `git status --porcelain -z` output. Entries
// are NUL-separated "XY path"; rename and copy entries are followed by a
// second NUL-separated field holding the original path.
func parsePorcelainStatus(output string) ([]commit.TreeChange, error) {
	var changes []commit.TreeChange

	fields := strings.Split(output, "\x00")
	for i := 0; i < len(fields); i++ {
		entry := fields[i]
		if entry == "" {
			continue
		}
		if len(entry) < 4 {
			return nil, fmt.Errorf("malformed status entry: %q", entry)
		}

		staged, unstaged := entry[0], entry[1]
		path := entry[3:]

		// Ignored files never take part in a commit.
		if staged == '!' {
			continue
		}

		change := commit.TreeChange{Path: path}
		if staged == 'R' || staged == 'C' {
			i++
			if i >= len(fields) || fields[i] == "" {
				return nil, fmt.Errorf("rename entry %q is missing its original path", entry)
			}
			change.PreviousPath = fields[i]
		}

		if staged == ' ' && unstaged == ' ' {
			continue
		}
		changes = append(changes, change)
	}
	return changes, nil
}
