// Package refname normalizes and validates git reference names.
package refname

import (
	"fmt"
	"strings"
)

// BranchPrefix is the namespace under which local branch refs live.
const BranchPrefix = "refs/heads/"

// InvalidReferenceNameError indicates that a reference name is not
// syntactically valid according to git's ref-format rules.
type InvalidReferenceNameError struct {
	Name string
}

func (e *InvalidReferenceNameError) Error() string {
	return fmt.Sprintf("invalid reference name: %q", e.Name)
}

// NormalizeBranchRef turns a short or qualified branch name into a
// fully-qualified refs/heads/ name. Names that already carry the prefix
// are used as-is, so the function is idempotent on qualified names.
func NormalizeBranchRef(name string) (string, error) {
	full := name
	if !strings.HasPrefix(full, BranchPrefix) {
		full = BranchPrefix + full
	}
	if !IsValidRefName(full) {
		return "", &InvalidReferenceNameError{Name: full}
	}
	return full, nil
}

// IsValidRefName reports whether name satisfies the rules of
// git-check-ref-format for a fully-qualified reference.
func IsValidRefName(name string) bool {
	if name == "" || strings.HasSuffix(name, "/") || strings.HasSuffix(name, ".") {
		return false
	}
	if strings.Contains(name, "..") || strings.Contains(name, "@{") {
		return false
	}
	if name == "@" {
		return false
	}
	for _, component := range strings.Split(name, "/") {
		if !isValidComponent(component) {
			return false
		}
	}
	return true
}

func isValidComponent(component string) bool {
	if component == "" {
		return false
	}
	if strings.HasPrefix(component, ".") || strings.HasSuffix(component, ".lock") {
		return false
	}
	for _, r := range component {
		if r < 0x20 || r == 0x7f {
			return false
		}
		switch r {
		case ' ', '~', '^', ':', '?', '*', '[', '\\':
			return false
		}
	}
	return true
}
