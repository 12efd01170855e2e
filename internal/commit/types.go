// Package commit resolves a partially-specified commit request into a
// normalized operation description: a destination (new commit or amend), a
// canonical ordered change list, and a reference frame anchoring the result
// in the workspace. The actual object-database writes are delegated to an
// Engine implementation.
package commit

// HunkHeader describes one contiguous block of changed lines within a file,
// as an old-range/new-range pair. Headers for a file are ordered by
// ascending OldStart and must not overlap.
type HunkHeader struct {
	OldStart uint32
	OldLines uint32
	NewStart uint32
	NewLines uint32
}

// DiffSpec identifies the changes to commit for a single file.
// An empty HunkHeaders slice means the entire file content is the change;
// a non-empty slice selects only those hunks. PreviousPath is set only when
// the file was renamed or copied.
type DiffSpec struct {
	// PreviousPath is the repo-relative path the file had before a rename
	// or copy, empty otherwise.
	PreviousPath string
	// Path is the repo-relative path of the file.
	Path string
	// HunkHeaders selects the hunks to commit; empty selects the whole file.
	HunkHeaders []HunkHeader
}

// WholeFile returns true if the spec selects the entire file content.
func (s DiffSpec) WholeFile() bool {
	return len(s.HunkHeaders) == 0
}

// TreeChange is one changed path between the working tree and its
// comparison base, as enumerated by the diff engine.
type TreeChange struct {
	Path         string
	PreviousPath string
}

// StackSegmentID identifies a named branch tip tracked as part of a
// multi-branch workspace stack.
type StackSegmentID struct {
	// SegmentRef is the fully-qualified reference name (refs/heads/...).
	SegmentRef string
	// StackID is the opaque identifier of the owning stack.
	StackID string
}

// StackInfo is the registry's view of one stack: its identifier and the
// short names of its segment heads.
type StackInfo struct {
	ID    string
	Heads []string
}

// Destination says where the committed changes should go: either a new
// commit or an existing commit to amend.
type Destination interface {
	isDestination()
}

// NewCommit creates a commit on top of ParentCommitID (empty means the
// engine decides, e.g. the workspace tip). Message is always non-empty.
type NewCommit struct {
	// ParentCommitID is the id of the parent commit, empty if unresolved.
	ParentCommitID string
	Message        string
	// StackSegment names the workspace segment the commit belongs to,
	// nil for untracked branches.
	StackSegment *StackSegmentID
}

func (NewCommit) isDestination() {}

// AmendCommit amends the identified commit in place. Amending never
// carries a message.
type AmendCommit struct {
	CommitID string
}

func (AmendCommit) isDestination() {}

// ReferenceFrame anchors a headless commit operation to the workspace
// topology when no project context is available. Empty ids mean "unknown".
type ReferenceFrame struct {
	WorkspaceTip string
	BranchTip    string
}

// RefEdit records one reference update performed by the engine.
type RefEdit struct {
	Ref string
	Old string
	New string
}

// Outcome is what the engine reports back after creating or amending a
// commit.
type Outcome struct {
	// NewCommitID is the id of the created (or rewritten) commit.
	NewCommitID string
	// Rejected lists the specs the engine could not apply.
	Rejected []DiffSpec
	// RefEdits lists the reference updates that were performed.
	RefEdits []RefEdit
}
