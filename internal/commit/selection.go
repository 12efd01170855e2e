package commit

import "fmt"

// Selection is the closed set of change-selection modes. Exactly one mode
// is active per request; the sealed interface makes contradictory
// combinations unrepresentable.
type Selection interface {
	isSelection()
}

// ExplicitChanges passes a caller-supplied, already-structured change list
// through unchanged.
type ExplicitChanges struct {
	Specs []DiffSpec
}

func (ExplicitChanges) isSelection() {}

// WorktreeChanges selects every changed file in the working tree, each as
// a whole-file change.
type WorktreeChanges struct{}

func (WorktreeChanges) isSelection() {}

// FileSelection selects a single file, either whole or restricted to a set
// of hunks. Hunks are given as selection indices into the file's diff, or
// as already-resolved headers; when both are empty the whole file is
// selected.
type FileSelection struct {
	Path         string
	PreviousPath string
	// Indices selects hunks by position in the file's diff.
	Indices []int
	// Headers carries already-resolved hunk headers, bypassing translation.
	Headers []HunkHeader
}

func (FileSelection) isSelection() {}

// NormalizeSelection converts a selection into the canonical ordered
// change list, delegating worktree enumeration and hunk-index translation
// to the diff engine. A nil selection means whole-worktree mode.
func NormalizeSelection(diff DiffEngine, sel Selection) ([]DiffSpec, error) {
	if sel == nil {
		sel = WorktreeChanges{}
	}
	switch sel := sel.(type) {
	case ExplicitChanges:
		return sel.Specs, nil

	case WorktreeChanges:
		changes, err := diff.WorktreeChanges()
		if err != nil {
			return nil, fmt.Errorf("failed to enumerate worktree changes: %w", err)
		}
		specs := make([]DiffSpec, 0, len(changes))
		for _, change := range changes {
			specs = append(specs, DiffSpec{
				PreviousPath: change.PreviousPath,
				Path:         change.Path,
			})
		}
		return specs, nil

	case FileSelection:
		headers := sel.Headers
		if len(headers) == 0 && len(sel.Indices) > 0 {
			var err error
			headers, err = diff.HunkHeadersForSelection(sel.Path, sel.PreviousPath, sel.Indices)
			if err != nil {
				return nil, fmt.Errorf("failed to resolve hunk selection for %s: %w", sel.Path, err)
			}
		}
		return []DiffSpec{{
			PreviousPath: sel.PreviousPath,
			Path:         sel.Path,
			HunkHeaders:  headers,
		}}, nil

	default:
		// The interface is sealed; a foreign implementation is a caller
		// bug, not user input.
		panic(fmt.Sprintf("BUG: unknown selection type %T", sel))
	}
}
