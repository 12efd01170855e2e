// Package project provides the optional project context: a per-repository
// data directory holding workspace state, plus exclusive access to the
// working copy while a commit operation runs.
package project

import (
	"fmt"
	"os"
	"path/filepath"

	"workbench.dev/workbench/internal/stacks"
)

const dataDirName = "workbench"

// Project is an initialized workbench project rooted at a git worktree.
type Project struct {
	root    string
	dataDir string
}

// Init creates the project data directory for the repository at root.
func Init(root string) (*Project, error) {
	dataDir := filepath.Join(root, ".git", dataDirName)
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create project directory: %w", err)
	}
	return &Project{root: root, dataDir: dataDir}, nil
}

// Find returns the project for the repository at root, or nil if the
// repository was never initialized as a project. Absence is not an error:
// commands fall back to headless operation.
func Find(root string) (*Project, error) {
	dataDir := filepath.Join(root, ".git", dataDirName)
	info, err := os.Stat(dataDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to stat project directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%s exists but is not a directory", dataDir)
	}
	return &Project{root: root, dataDir: dataDir}, nil
}

// Root returns the worktree root the project belongs to
func (p *Project) Root() string {
	return p.root
}

// DataDir returns the project's data directory
func (p *Project) DataDir() string {
	return p.dataDir
}

// Stacks returns a handle on the project's stack registry
func (p *Project) Stacks() *stacks.Handle {
	return stacks.NewHandle(p.dataDir)
}
