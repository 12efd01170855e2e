package commit

import (
	"errors"
	"fmt"
)

// Sentinel errors for precondition violations. These are raised before any
// resolution work starts; use errors.Is() to check for them.
var (
	// ErrMissingMessage indicates a new commit was requested without a message
	ErrMissingMessage = errors.New("need a message when creating a new commit")

	// ErrMessageOnAmend indicates a message was supplied while amending
	ErrMessageOnAmend = errors.New("messages aren't used when amending")

	// ErrRevisionResolution indicates a revision spec could not be resolved
	ErrRevisionResolution = errors.New("revision resolution failed")
)

// RevisionResolutionError represents a failure to resolve an explicit
// revision spec to an object id. This is always fatal: nothing has been
// written when it surfaces.
type RevisionResolutionError struct {
	Revspec string
	Err     error
}

func (e *RevisionResolutionError) Error() string {
	return fmt.Sprintf("failed to resolve revision %q: %v", e.Revspec, e.Err)
}

func (e *RevisionResolutionError) Unwrap() error {
	return e.Err
}

// Is returns true if the target error is ErrRevisionResolution
func (e *RevisionResolutionError) Is(target error) bool {
	return target == ErrRevisionResolution
}
