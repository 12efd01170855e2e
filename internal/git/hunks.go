package git

import (
	"context"
	"fmt"
	"regexp"
	"strconv"

	"workbench.dev/workbench/internal/commit"
)

// Regex to match hunk headers: @@ -old_start,old_count +new_start,new_count @@
// Example: @@ -10,5 +10,6 @@
var hunkHeaderRegex = regexp.MustCompile(`(?m)^@@ -(\d+)(?:,(\d+))? \+(\d+)(?:,(\d+))? @@`)

// HunkHeadersForSelection diffs the given path pair against HEAD and
// translates the selected hunk indices into concrete hunk headers.
func (r *Repository) HunkHeadersForSelection(path, previousPath string, indices []int) ([]commit.HunkHeader, error) {
	args := []string{"diff", "-M", "HEAD", "--"}
	if previousPath != "" {
		args = append(args, previousPath)
	}
	args = append(args, path)

	diff, err := r.runner.RunRaw(context.Background(), args...)
	if err != nil {
		return nil, fmt.Errorf("failed to diff %s: %w", path, err)
	}

	all := ParseHunkHeaders(diff)
	var selected []commit.HunkHeader
	for _, i := range indices {
		if i < 0 || i >= len(all) {
			return nil, fmt.Errorf("hunk index %d out of range: %s has %d hunks", i, path, len(all))
		}
		selected = append(selected, all[i])
	}
	return selected, nil
}

// ParseHunkHeaders extracts the hunk headers from unified diff output, in
// the order the diff lists them (ascending old-range start per file).
func ParseHunkHeaders(diff string) []commit.HunkHeader {
	var headers []commit.HunkHeader
	for _, match := range hunkHeaderRegex.FindAllStringSubmatch(diff, -1) {
		headers = append(headers, commit.HunkHeader{
			OldStart: parseLineNumber(match[1]),
			OldLines: parseCount(match[2]),
			NewStart: parseLineNumber(match[3]),
			NewLines: parseCount(match[4]),
		})
	}
	return headers
}

func parseLineNumber(s string) uint32 {
	n, _ := strconv.ParseUint(s, 10, 32)
	return uint32(n)
}

// parseCount parses an optional hunk line count; an omitted count means 1.
func parseCount(s string) uint32 {
	if s == "" {
		return 1
	}
	n, _ := strconv.ParseUint(s, 10, 32)
	return uint32(n)
}
