package commit

// RepoReader provides the narrow view of the git object/ref store that
// resolution needs. Implemented by internal/git.Repository and by
// in-memory fakes in tests.
type RepoReader interface {
	// ResolveRevision resolves a revision spec (e.g. "HEAD~2", a sha
	// prefix, a ref name) to a commit id. Failure to resolve is an error.
	ResolveRevision(revspec string) (string, error)

	// PeelReferenceToCommit looks up a reference by name (short or
	// qualified) and peels it to the commit it points at. A missing
	// reference is not an error: it returns an empty id and a nil error.
	PeelReferenceToCommit(name string) (string, error)

	// HeadCommit returns the commit id HEAD currently points at.
	HeadCommit() (string, error)
}

// StackRegistry enumerates the registered multi-branch workspace stacks.
type StackRegistry interface {
	ListStacks() ([]StackInfo, error)
}

// DiffEngine computes worktree changes and translates hunk selections.
// Implemented by internal/git.Repository.
type DiffEngine interface {
	// WorktreeChanges enumerates every changed path between the working
	// tree and its comparison base, in path order.
	WorktreeChanges() ([]TreeChange, error)

	// HunkHeadersForSelection translates a set of selected hunk indices
	// for the given path pair into concrete hunk headers, ordered by
	// ascending old-range start.
	HunkHeadersForSelection(path, previousPath string, indices []int) ([]HunkHeader, error)
}

// Engine is the external commit-creation engine. It performs the object
// writes and ref updates for a fully-resolved request; this package never
// writes anything itself.
type Engine interface {
	// CreateCommit commits changes against an explicit reference frame,
	// with no persisted workspace state (headless mode).
	CreateCommit(frame ReferenceFrame, dest Destination, changes []DiffSpec, contextLines int) (*Outcome, error)

	// CreateCommitInWorkspace commits changes against the project's
	// persisted workspace state. The caller holds exclusive worktree
	// access for the duration of the call.
	CreateCommitInWorkspace(dest Destination, changes []DiffSpec, contextLines int) (*Outcome, error)
}
