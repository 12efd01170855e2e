package engine

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/filemode"
	"github.com/go-git/go-git/v5/plumbing/object"

	"workbench.dev/workbench/internal/commit"
)

// treeEntry is one blob in the flattened view of a tree.
type treeEntry struct {
	hash plumbing.Hash
	mode filemode.FileMode
}

// flattenTree maps every file of the commit's tree by its full path. A
// nil commit yields an empty tree.
func (e *Engine) flattenTree(parent *object.Commit) (map[string]treeEntry, error) {
	entries := make(map[string]treeEntry)
	if parent == nil {
		return entries, nil
	}

	tree, err := parent.Tree()
	if err != nil {
		return nil, fmt.Errorf("failed to load tree of %s: %w", parent.Hash, err)
	}
	err = tree.Files().ForEach(func(f *object.File) error {
		entries[f.Name] = treeEntry{hash: f.Hash, mode: f.Mode}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to walk tree of %s: %w", parent.Hash, err)
	}
	return entries, nil
}

// applyChanges applies each spec to the flattened tree, reading new
// content from the working tree. Specs that cannot be applied are
// collected and skipped, they never fail the whole commit.
func (e *Engine) applyChanges(entries map[string]treeEntry, changes []commit.DiffSpec) []commit.DiffSpec {
	var rejected []commit.DiffSpec
	for _, spec := range changes {
		if err := e.applyChange(entries, spec); err != nil {
			rejected = append(rejected, spec)
		}
	}
	return rejected
}

func (e *Engine) applyChange(entries map[string]treeEntry, spec commit.DiffSpec) error {
	base, baseExists := entries[spec.Path]
	if spec.PreviousPath != "" {
		if prev, ok := entries[spec.PreviousPath]; ok {
			base, baseExists = prev, true
			delete(entries, spec.PreviousPath)
		}
	}

	content, executable, ok, err := e.worktreeFile(spec.Path)
	if err != nil {
		return err
	}
	if !ok {
		// The file is gone from the working tree: a deletion.
		if !baseExists {
			return fmt.Errorf("%s exists neither in the tree nor the worktree", spec.Path)
		}
		delete(entries, spec.Path)
		return nil
	}

	if !spec.WholeFile() {
		if !baseExists {
			return fmt.Errorf("cannot apply hunks to %s: no base version", spec.Path)
		}
		baseContent, err := e.blobContent(base.hash)
		if err != nil {
			return err
		}
		content, err = applyHunks(baseContent, content, spec.HunkHeaders)
		if err != nil {
			return err
		}
	}

	hash, err := e.writeBlob(content)
	if err != nil {
		return err
	}

	mode := filemode.Regular
	if executable {
		mode = filemode.Executable
	}
	if baseExists && base.mode == filemode.Symlink {
		mode = filemode.Symlink
	}
	entries[spec.Path] = treeEntry{hash: hash, mode: mode}
	return nil
}

func (e *Engine) blobContent(hash plumbing.Hash) ([]byte, error) {
	blob, err := e.repo.BlobObject(hash)
	if err != nil {
		return nil, fmt.Errorf("failed to load blob %s: %w", hash, err)
	}
	reader, err := blob.Reader()
	if err != nil {
		return nil, fmt.Errorf("failed to read blob %s: %w", hash, err)
	}
	defer reader.Close()

	content, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("failed to read blob %s: %w", hash, err)
	}
	return content, nil
}

func (e *Engine) writeBlob(content []byte) (plumbing.Hash, error) {
	obj := e.repo.Storer.NewEncodedObject()
	obj.SetType(plumbing.BlobObject)

	writer, err := obj.Writer()
	if err != nil {
		return plumbing.ZeroHash, fmt.Errorf("failed to write blob: %w", err)
	}
	if _, err := writer.Write(content); err != nil {
		writer.Close()
		return plumbing.ZeroHash, fmt.Errorf("failed to write blob: %w", err)
	}
	if err := writer.Close(); err != nil {
		return plumbing.ZeroHash, fmt.Errorf("failed to write blob: %w", err)
	}
	return e.repo.Storer.SetEncodedObject(obj)
}

// writeTree rebuilds the nested tree objects from the flattened entries
// and returns the root tree hash.
func (e *Engine) writeTree(entries map[string]treeEntry) (plumbing.Hash, error) {
	root := newTreeNode()
	for path, entry := range entries {
		node := root
		components := strings.Split(path, "/")
		for _, dir := range components[:len(components)-1] {
			child, ok := node.dirs[dir]
			if !ok {
				child = newTreeNode()
				node.dirs[dir] = child
			}
			node = child
		}
		node.files[components[len(components)-1]] = entry
	}
	return e.encodeTreeNode(root)
}

type treeNode struct {
	dirs  map[string]*treeNode
	files map[string]treeEntry
}

func newTreeNode() *treeNode {
	return &treeNode{dirs: make(map[string]*treeNode), files: make(map[string]treeEntry)}
}

func (e *Engine) encodeTreeNode(node *treeNode) (plumbing.Hash, error) {
	var entries []object.TreeEntry
	for name, child := range node.dirs {
		hash, err := e.encodeTreeNode(child)
		if err != nil {
			return plumbing.ZeroHash, err
		}
		entries = append(entries, object.TreeEntry{Name: name, Mode: filemode.Dir, Hash: hash})
	}
	for name, entry := range node.files {
		entries = append(entries, object.TreeEntry{Name: name, Mode: entry.mode, Hash: entry.hash})
	}

	// Git orders tree entries by name, with directories sorting as if
	// their name ended in "/".
	sort.Slice(entries, func(i, j int) bool {
		return treeSortKey(entries[i]) < treeSortKey(entries[j])
	})

	tree := &object.Tree{Entries: entries}
	obj := e.repo.Storer.NewEncodedObject()
	if err := tree.Encode(obj); err != nil {
		return plumbing.ZeroHash, fmt.Errorf("failed to encode tree: %w", err)
	}
	return e.repo.Storer.SetEncodedObject(obj)
}

func treeSortKey(entry object.TreeEntry) string {
	if entry.Mode == filemode.Dir {
		return entry.Name + "/"
	}
	return entry.Name
}
