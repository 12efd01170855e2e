// Package testhelpers provides scratch git repositories for tests.
package testhelpers

import (
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
)

// GitRepo is a scratch git repository rooted in a temp directory.
type GitRepo struct {
	t   *testing.T
	Dir string
}

// NewGitRepo initializes a new git repository in a temp directory with a
// "main" default branch and a throwaway identity.
func NewGitRepo(t *testing.T) *GitRepo {
	t.Helper()

	repo := &GitRepo{t: t, Dir: t.TempDir()}
	repo.Git("init", "-b", "main")
	repo.Git("config", "user.name", "Test User")
	repo.Git("config", "user.email", "test@example.com")
	repo.Git("config", "commit.gpgsign", "false")
	return repo
}

// Git runs a git command in the repository and returns its trimmed output,
// failing the test on error.
func (r *GitRepo) Git(args ...string) string {
	r.t.Helper()

	cmd := exec.Command("git", args...)
	cmd.Dir = r.Dir
	output, err := cmd.CombinedOutput()
	if err != nil {
		r.t.Fatalf("git %s failed: %v\n%s", strings.Join(args, " "), err, output)
	}
	return strings.TrimSpace(string(output))
}

// WriteFile writes content to a path relative to the repository root,
// creating parent directories as needed.
func (r *GitRepo) WriteFile(name, content string) {
	r.t.Helper()

	path := filepath.Join(r.Dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		r.t.Fatalf("failed to create dir for %s: %v", name, err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		r.t.Fatalf("failed to write %s: %v", name, err)
	}
}

// RemoveFile deletes a path relative to the repository root.
func (r *GitRepo) RemoveFile(name string) {
	r.t.Helper()

	if err := os.Remove(filepath.Join(r.Dir, name)); err != nil {
		r.t.Fatalf("failed to remove %s: %v", name, err)
	}
}

// CreateChangeAndCommit writes a file and commits it.
func (r *GitRepo) CreateChangeAndCommit(name, content, message string) {
	r.t.Helper()

	r.WriteFile(name, content)
	r.Git("add", "--", name)
	r.Git("commit", "-m", message)
}

// CreateAndCheckoutBranch creates a branch at HEAD and checks it out.
func (r *GitRepo) CreateAndCheckoutBranch(name string) {
	r.t.Helper()
	r.Git("checkout", "-b", name)
}

// CheckoutBranch checks out an existing branch.
func (r *GitRepo) CheckoutBranch(name string) {
	r.t.Helper()
	r.Git("checkout", name)
}

// GetRef returns the commit id a revision resolves to.
func (r *GitRepo) GetRef(rev string) string {
	r.t.Helper()
	return r.Git("rev-parse", rev)
}

// ReadFile returns the content of a path relative to the repository root.
func (r *GitRepo) ReadFile(name string) string {
	r.t.Helper()

	content, err := os.ReadFile(filepath.Join(r.Dir, name))
	if err != nil {
		r.t.Fatalf("failed to read %s: %v", name, err)
	}
	return string(content)
}
