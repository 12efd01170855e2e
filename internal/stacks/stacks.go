// Package stacks persists the registry of multi-branch workspace stacks
// and the segment heads each one owns.
package stacks

import (
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"workbench.dev/workbench/internal/commit"
)

const stateFileName = "stacks.json"

// Stack is one registered workspace stack.
type Stack struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	// Heads are the short branch names of the stack's segment heads,
	// bottom to top.
	Heads []string `json:"heads"`
}

// Handle reads and writes the stack registry in a project data directory.
type Handle struct {
	path string
}

// NewHandle creates a handle for the registry stored under dataDir
func NewHandle(dataDir string) *Handle {
	return &Handle{path: filepath.Join(dataDir, stateFileName)}
}

// List returns all registered stacks in registration order. A missing
// state file means an empty registry.
func (h *Handle) List() ([]Stack, error) {
	data, err := os.ReadFile(h.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read stack registry: %w", err)
	}

	var stacks []Stack
	if err := json.Unmarshal(data, &stacks); err != nil {
		return nil, fmt.Errorf("failed to parse stack registry: %w", err)
	}
	return stacks, nil
}

// ListStacks adapts the registry to the resolver's view of it.
func (h *Handle) ListStacks() ([]commit.StackInfo, error) {
	stacks, err := h.List()
	if err != nil {
		return nil, err
	}
	infos := make([]commit.StackInfo, 0, len(stacks))
	for _, stack := range stacks {
		infos = append(infos, commit.StackInfo{ID: stack.ID, Heads: stack.Heads})
	}
	return infos, nil
}

// Track registers a new stack with the given name and segment heads.
func (h *Handle) Track(name string, heads []string) (*Stack, error) {
	stacks, err := h.List()
	if err != nil {
		return nil, err
	}
	for _, existing := range stacks {
		if existing.Name == name {
			return nil, fmt.Errorf("stack %q is already tracked", name)
		}
	}

	stack := Stack{ID: newStackID(), Name: name, Heads: heads}
	stacks = append(stacks, stack)
	if err := h.save(stacks); err != nil {
		return nil, err
	}
	return &stack, nil
}

// Untrack removes a stack by name or id.
func (h *Handle) Untrack(nameOrID string) error {
	stacks, err := h.List()
	if err != nil {
		return err
	}

	kept := stacks[:0]
	for _, stack := range stacks {
		if stack.Name != nameOrID && stack.ID != nameOrID {
			kept = append(kept, stack)
		}
	}
	if len(kept) == len(stacks) {
		return fmt.Errorf("no tracked stack named %q", nameOrID)
	}
	return h.save(kept)
}

func (h *Handle) save(stacks []Stack) error {
	data, err := json.MarshalIndent(stacks, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal stack registry: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(h.path), 0o755); err != nil {
		return fmt.Errorf("failed to create registry directory: %w", err)
	}
	if err := os.WriteFile(h.path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write stack registry: %w", err)
	}
	return nil
}

func newStackID() string {
	var buf [8]byte
	_, _ = rand.Read(buf[:])
	return hex.EncodeToString(buf[:])
}
