package commit

import (
	"fmt"
	"slices"
	"strings"

	"workbench.dev/workbench/internal/refname"
)

// LocateStackSegment finds the registered stack whose segment heads
// contain the given branch name (string equality on the short form) and
// returns its segment id, built from the normalized full reference name
// and the owning stack's identifier. No stack claiming the name is not an
// error: it returns nil, signalling an ordinary untracked branch. When
// several stacks claim the same name, the first match in enumeration
// order wins.
func LocateStackSegment(registry StackRegistry, name string) (*StackSegmentID, error) {
	full, err := refname.NormalizeBranchRef(name)
	if err != nil {
		return nil, err
	}
	short := strings.TrimPrefix(full, refname.BranchPrefix)

	stacks, err := registry.ListStacks()
	if err != nil {
		return nil, fmt.Errorf("failed to list stacks: %w", err)
	}
	for _, stack := range stacks {
		if slices.Contains(stack.Heads, short) {
			return &StackSegmentID{SegmentRef: full, StackID: stack.ID}, nil
		}
	}
	return nil, nil
}

// ResolveParent produces the commit id to use as the new commit's parent,
// or in amend mode the commit to amend. Precedence, first match wins:
//
//  1. The explicit id, if provided.
//  2. A reference named branchName, peeled to its commit. A missing
//     reference is a soft miss, not an error.
//  3. In amend mode, the current HEAD commit; otherwise unresolved (the
//     engine decides).
func ResolveParent(repo RepoReader, explicitID, branchName string, amend bool) (string, error) {
	if explicitID != "" {
		return explicitID, nil
	}
	if branchName != "" {
		id, err := repo.PeelReferenceToCommit(branchName)
		if err != nil {
			return "", err
		}
		if id != "" {
			return id, nil
		}
	}
	if amend {
		id, err := repo.HeadCommit()
		if err != nil {
			return "", fmt.Errorf("failed to resolve HEAD: %w", err)
		}
		return id, nil
	}
	return "", nil
}
