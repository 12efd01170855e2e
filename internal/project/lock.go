package project

import (
	"fmt"
	"os"
	"path/filepath"
	"time"
)

const (
	lockFileName    = "worktree.lock"
	lockWaitTimeout = 10 * time.Second
	lockPollDelay   = 50 * time.Millisecond
)

// ExclusiveWorktreeAccess acquires exclusive write access to the
// project's working copy, serializing commit operations against the same
// project. It blocks until the lock is free or the wait times out, and
// returns a release func that must be called when the operation finishes.
func (p *Project) ExclusiveWorktreeAccess() (func(), error) {
	lockPath := filepath.Join(p.dataDir, lockFileName)
	deadline := time.Now().Add(lockWaitTimeout)

	for {
		file, err := os.OpenFile(lockPath, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
		if err == nil {
			fmt.Fprintf(file, "%d\n", os.Getpid())
			file.Close()
			return func() { os.Remove(lockPath) }, nil
		}
		if !os.IsExist(err) {
			return nil, fmt.Errorf("failed to lock working copy: %w", err)
		}
		if time.Now().After(deadline) {
			return nil, fmt.Errorf("working copy is locked by another process (%s)", lockPath)
		}
		time.Sleep(lockPollDelay)
	}
}
