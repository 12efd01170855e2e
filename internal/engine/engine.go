// Package engine performs the object-database writes for a fully-resolved
// commit request: building the new tree from the selected changes, writing
// the commit object, and updating references. The resolution logic in
// internal/commit decides what to commit; this package decides nothing and
// writes everything.
package engine

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/go-git/go-git/v5/config"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"

	"workbench.dev/workbench/internal/commit"
	"workbench.dev/workbench/internal/git"
)

// Engine creates and amends commits in a repository.
type Engine struct {
	repo *git.Repository
}

// New creates an engine bound to the given repository
func New(repo *git.Repository) *Engine {
	return &Engine{repo: repo}
}

// CreateCommit commits changes in headless mode, anchored to the given
// reference frame.
func (e *Engine) CreateCommit(frame commit.ReferenceFrame, dest commit.Destination, changes []commit.DiffSpec, contextLines int) (*commit.Outcome, error) {
	return e.create(frame, dest, changes)
}

// CreateCommitInWorkspace commits changes against the project workspace.
// The caller holds exclusive worktree access.
func (e *Engine) CreateCommitInWorkspace(dest commit.Destination, changes []commit.DiffSpec, contextLines int) (*commit.Outcome, error) {
	return e.create(commit.ReferenceFrame{}, dest, changes)
}

func (e *Engine) create(frame commit.ReferenceFrame, dest commit.Destination, changes []commit.DiffSpec) (*commit.Outcome, error) {
	switch dest := dest.(type) {
	case commit.NewCommit:
		return e.newCommit(frame, dest, changes)
	case commit.AmendCommit:
		return e.amendCommit(dest, changes)
	default:
		panic(fmt.Sprintf("BUG: unknown destination type %T", dest))
	}
}

func (e *Engine) newCommit(frame commit.ReferenceFrame, dest commit.NewCommit, changes []commit.DiffSpec) (*commit.Outcome, error) {
	parentID := dest.ParentCommitID
	if parentID == "" {
		parentID = e.impliedParent(frame)
	}

	var parent *object.Commit
	if parentID != "" {
		var err error
		parent, err = e.repo.CommitObject(plumbing.NewHash(parentID))
		if err != nil {
			return nil, fmt.Errorf("failed to load parent commit %s: %w", parentID, err)
		}
	}

	entries, err := e.flattenTree(parent)
	if err != nil {
		return nil, err
	}
	rejected := e.applyChanges(entries, changes)

	treeHash, err := e.writeTree(entries)
	if err != nil {
		return nil, err
	}

	var parents []plumbing.Hash
	if parent != nil {
		parents = append(parents, parent.Hash)
	}
	commitHash, err := e.writeCommit(dest.Message, treeHash, parents, nil)
	if err != nil {
		return nil, err
	}

	refEdits, err := e.advanceRefs(dest, parentID, commitHash)
	if err != nil {
		return nil, err
	}

	return &commit.Outcome{
		NewCommitID: commitHash.String(),
		Rejected:    rejected,
		RefEdits:    refEdits,
	}, nil
}

func (e *Engine) amendCommit(dest commit.AmendCommit, changes []commit.DiffSpec) (*commit.Outcome, error) {
	target, err := e.repo.CommitObject(plumbing.NewHash(dest.CommitID))
	if err != nil {
		return nil, fmt.Errorf("failed to load commit %s to amend: %w", dest.CommitID, err)
	}

	entries, err := e.flattenTree(target)
	if err != nil {
		return nil, err
	}
	rejected := e.applyChanges(entries, changes)

	treeHash, err := e.writeTree(entries)
	if err != nil {
		return nil, err
	}

	// The amended commit keeps its message, parents and author; only the
	// tree and the committer change.
	commitHash, err := e.writeCommit(target.Message, treeHash, target.ParentHashes, &target.Author)
	if err != nil {
		return nil, err
	}

	refEdits, err := e.retargetBranches(target.Hash, commitHash)
	if err != nil {
		return nil, err
	}

	return &commit.Outcome{
		NewCommitID: commitHash.String(),
		Rejected:    rejected,
		RefEdits:    refEdits,
	}, nil
}

// impliedParent picks the parent for a commit whose destination left it
// unresolved: the workspace tip when the frame has one, then the branch
// tip, then HEAD.
func (e *Engine) impliedParent(frame commit.ReferenceFrame) string {
	if frame.WorkspaceTip != "" {
		return frame.WorkspaceTip
	}
	if frame.BranchTip != "" {
		return frame.BranchTip
	}
	head, err := e.repo.HeadCommit()
	if err != nil {
		// Unborn HEAD: the new commit becomes a root commit.
		return ""
	}
	return head
}

// advanceRefs updates the references that should follow the new commit:
// the owning stack segment ref when one was resolved, otherwise every
// local branch whose tip is the commit's parent.
func (e *Engine) advanceRefs(dest commit.NewCommit, parentID string, commitHash plumbing.Hash) ([]commit.RefEdit, error) {
	if dest.StackSegment != nil {
		return e.setRef(dest.StackSegment.SegmentRef, commitHash)
	}

	if parentID == "" {
		// Root commit: materialize the unborn branch HEAD names, if any.
		headRef, err := e.repo.HeadBranchRef()
		if err != nil || headRef == "" {
			return nil, nil
		}
		return e.setRef(headRef, commitHash)
	}
	return e.retargetBranches(plumbing.NewHash(parentID), commitHash)
}

// retargetBranches points every local branch that references old at new.
func (e *Engine) retargetBranches(old, new plumbing.Hash) ([]commit.RefEdit, error) {
	refs, err := e.repo.References()
	if err != nil {
		return nil, fmt.Errorf("failed to iterate references: %w", err)
	}

	var edits []commit.RefEdit
	err = refs.ForEach(func(ref *plumbing.Reference) error {
		if !ref.Name().IsBranch() || ref.Hash() != old {
			return nil
		}
		updated := plumbing.NewHashReference(ref.Name(), new)
		if err := e.repo.Storer.CheckAndSetReference(updated, ref); err != nil {
			return fmt.Errorf("failed to update %s: %w", ref.Name(), err)
		}
		edits = append(edits, commit.RefEdit{
			Ref: ref.Name().String(),
			Old: old.String(),
			New: new.String(),
		})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return edits, nil
}

func (e *Engine) setRef(name string, commitHash plumbing.Hash) ([]commit.RefEdit, error) {
	refName := plumbing.ReferenceName(name)
	edit := commit.RefEdit{Ref: name, New: commitHash.String()}
	if existing, err := e.repo.Reference(refName, false); err == nil {
		edit.Old = existing.Hash().String()
	}

	ref := plumbing.NewHashReference(refName, commitHash)
	if err := e.repo.Storer.SetReference(ref); err != nil {
		return nil, fmt.Errorf("failed to update %s: %w", name, err)
	}
	return []commit.RefEdit{edit}, nil
}

func (e *Engine) writeCommit(message string, tree plumbing.Hash, parents []plumbing.Hash, author *object.Signature) (plumbing.Hash, error) {
	committer, err := e.signature()
	if err != nil {
		return plumbing.ZeroHash, err
	}
	if author == nil {
		author = &committer
	}

	commitObj := &object.Commit{
		Author:       *author,
		Committer:    committer,
		Message:      message,
		TreeHash:     tree,
		ParentHashes: parents,
	}

	obj := e.repo.Storer.NewEncodedObject()
	if err := commitObj.Encode(obj); err != nil {
		return plumbing.ZeroHash, fmt.Errorf("failed to encode commit: %w", err)
	}
	hash, err := e.repo.Storer.SetEncodedObject(obj)
	if err != nil {
		return plumbing.ZeroHash, fmt.Errorf("failed to write commit: %w", err)
	}
	return hash, nil
}

func (e *Engine) signature() (object.Signature, error) {
	sig := object.Signature{
		Name:  "workbench",
		Email: "workbench@localhost",
		When:  time.Now(),
	}
	cfg, err := e.repo.ConfigScoped(config.SystemScope)
	if err != nil {
		return sig, nil
	}
	if cfg.User.Name != "" {
		sig.Name = cfg.User.Name
	}
	if cfg.User.Email != "" {
		sig.Email = cfg.User.Email
	}
	return sig, nil
}

// worktreeFile reads a file from the working tree; ok is false when the
// file does not exist (a deletion).
func (e *Engine) worktreeFile(path string) (content []byte, executable, ok bool, err error) {
	full := filepath.Join(e.repo.Root(), path)
	info, err := os.Lstat(full)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, false, false, nil
		}
		return nil, false, false, fmt.Errorf("failed to stat %s: %w", path, err)
	}
	content, err = os.ReadFile(full)
	if err != nil {
		return nil, false, false, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return content, info.Mode()&0o111 != 0, true, nil
}
