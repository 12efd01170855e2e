package git

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
)

// Repository wraps a go-git repository together with a shell-out runner
// for the few operations go-git does not cover.
type Repository struct {
	*gogit.Repository
	path   string
	runner *CommandRunner
}

// OpenRepository opens the git repository containing the given path
func OpenRepository(path string) (*Repository, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve path: %w", err)
	}

	repo, err := gogit.PlainOpenWithOptions(absPath, &gogit.PlainOpenOptions{
		DetectDotGit: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open repository: %w", err)
	}

	root := absPath
	if wt, err := repo.Worktree(); err == nil {
		root = wt.Filesystem.Root()
	}

	return &Repository{
		Repository: repo,
		path:       root,
		runner:     NewCommandRunner(root),
	}, nil
}

// Root returns the root directory of the working tree
func (r *Repository) Root() string {
	return r.path
}

// Runner returns the shell-out command runner bound to this repository
func (r *Repository) Runner() *CommandRunner {
	return r.runner
}

// ResolveRevision resolves a revision spec (sha prefix, ref name, HEAD~N,
// ...) to a commit id. Failure to resolve is an error.
func (r *Repository) ResolveRevision(revspec string) (string, error) {
	hash, err := r.Repository.ResolveRevision(plumbing.Revision(revspec))
	if err != nil {
		return "", err
	}
	return hash.String(), nil
}

// PeelReferenceToCommit looks up a reference by short or qualified name
// and peels it to the commit it points at. A missing reference returns an
// empty id and no error.
func (r *Repository) PeelReferenceToCommit(name string) (string, error) {
	ref, err := r.findReference(name)
	if err != nil {
		if errors.Is(err, plumbing.ErrReferenceNotFound) {
			return "", nil
		}
		return "", fmt.Errorf("failed to look up reference %q: %w", name, err)
	}

	hash := ref.Hash()
	if commit, err := r.CommitObject(hash); err == nil {
		return commit.Hash.String(), nil
	}

	// The ref may point at an annotated tag; peel it.
	tag, err := r.TagObject(hash)
	if err != nil {
		return "", fmt.Errorf("reference %q does not peel to a commit", name)
	}
	commit, err := tag.Commit()
	if err != nil {
		return "", fmt.Errorf("reference %q does not peel to a commit: %w", name, err)
	}
	return commit.Hash.String(), nil
}

// HeadCommit returns the commit id HEAD points at
func (r *Repository) HeadCommit() (string, error) {
	head, err := r.Head()
	if err != nil {
		return "", fmt.Errorf("failed to get HEAD: %w", err)
	}
	return head.Hash().String(), nil
}

// HeadBranchRef returns the fully-qualified name of the branch HEAD is
// on, or an empty string when HEAD is detached.
func (r *Repository) HeadBranchRef() (string, error) {
	ref, err := r.Reference(plumbing.HEAD, false)
	if err != nil {
		return "", fmt.Errorf("failed to read HEAD: %w", err)
	}
	if ref.Type() != plumbing.SymbolicReference {
		return "", nil
	}
	return ref.Target().String(), nil
}

func (r *Repository) findReference(name string) (*plumbing.Reference, error) {
	if strings.HasPrefix(name, "refs/") {
		return r.Reference(plumbing.ReferenceName(name), true)
	}
	ref, err := r.Reference(plumbing.NewBranchReferenceName(name), true)
	if err == nil {
		return ref, nil
	}
	if !errors.Is(err, plumbing.ErrReferenceNotFound) {
		return nil, err
	}
	// Fall back to the literal name (tags, HEAD, ...)
	return r.Reference(plumbing.ReferenceName(name), true)
}
