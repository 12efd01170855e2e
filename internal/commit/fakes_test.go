package commit_test

import (
	"fmt"
	"strings"

	"workbench.dev/workbench/internal/commit"
)

// fakeRepo is an in-memory RepoReader.
type fakeRepo struct {
	revisions map[string]string // revspec -> commit id
	refs      map[string]string // reference name -> commit id
	head      string
}

func (r *fakeRepo) ResolveRevision(revspec string) (string, error) {
	if id, ok := r.revisions[revspec]; ok {
		return id, nil
	}
	return "", fmt.Errorf("revspec %q not found", revspec)
}

func (r *fakeRepo) PeelReferenceToCommit(name string) (string, error) {
	if id, ok := r.refs[name]; ok {
		return id, nil
	}
	if !strings.HasPrefix(name, "refs/heads/") {
		if id, ok := r.refs["refs/heads/"+name]; ok {
			return id, nil
		}
	}
	return "", nil
}

func (r *fakeRepo) HeadCommit() (string, error) {
	if r.head == "" {
		return "", fmt.Errorf("HEAD is unborn")
	}
	return r.head, nil
}

// fakeRegistry is an in-memory StackRegistry.
type fakeRegistry struct {
	stacks []commit.StackInfo
	err    error
}

func (r *fakeRegistry) ListStacks() ([]commit.StackInfo, error) {
	return r.stacks, r.err
}

// fakeDiff is an in-memory DiffEngine.
type fakeDiff struct {
	changes []commit.TreeChange
	hunks   map[string][]commit.HunkHeader // path -> all hunks in diff order
}

func (d *fakeDiff) WorktreeChanges() ([]commit.TreeChange, error) {
	return d.changes, nil
}

func (d *fakeDiff) HunkHeadersForSelection(path, previousPath string, indices []int) ([]commit.HunkHeader, error) {
	all := d.hunks[path]
	var selected []commit.HunkHeader
	for _, i := range indices {
		if i < 0 || i >= len(all) {
			return nil, fmt.Errorf("hunk index %d out of range for %s", i, path)
		}
		selected = append(selected, all[i])
	}
	return selected, nil
}

// fakeEngine records what it was invoked with.
type fakeEngine struct {
	frame       commit.ReferenceFrame
	dest        commit.Destination
	changes     []commit.DiffSpec
	inWorkspace bool
	outcome     *commit.Outcome
}

func (e *fakeEngine) CreateCommit(frame commit.ReferenceFrame, dest commit.Destination, changes []commit.DiffSpec, contextLines int) (*commit.Outcome, error) {
	e.frame = frame
	e.dest = dest
	e.changes = changes
	e.inWorkspace = false
	return e.result(), nil
}

func (e *fakeEngine) CreateCommitInWorkspace(dest commit.Destination, changes []commit.DiffSpec, contextLines int) (*commit.Outcome, error) {
	e.dest = dest
	e.changes = changes
	e.inWorkspace = true
	return e.result(), nil
}

func (e *fakeEngine) result() *commit.Outcome {
	if e.outcome != nil {
		return e.outcome
	}
	return &commit.Outcome{NewCommitID: "fffffff"}
}
