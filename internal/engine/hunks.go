package engine

import (
	"fmt"
	"sort"
	"strings"

	"workbench.dev/workbench/internal/commit"
)

// applyHunks splices the selected hunks of newContent onto oldContent,
// producing the partially-committed file version. Headers use 1-based
// line numbers; a zero-length old range inserts after the named line.
func applyHunks(oldContent, newContent []byte, headers []commit.HunkHeader) ([]byte, error) {
	oldLines := splitLines(oldContent)
	newLines := splitLines(newContent)

	// Apply bottom-up so earlier offsets stay valid.
	ordered := make([]commit.HunkHeader, len(headers))
	copy(ordered, headers)
	sort.Slice(ordered, func(i, j int) bool {
		return ordered[i].OldStart > ordered[j].OldStart
	})

	result := oldLines
	for _, h := range ordered {
		start := int(h.OldStart) - 1
		if h.OldLines == 0 {
			// Insertion point: after the named line.
			start = int(h.OldStart)
		}
		end := start + int(h.OldLines)
		if start < 0 || end > len(result) {
			return nil, fmt.Errorf("hunk -%d,%d does not fit the base of %d lines", h.OldStart, h.OldLines, len(result))
		}

		newStart, newEnd := 0, 0
		if h.NewLines > 0 {
			newStart = int(h.NewStart) - 1
			newEnd = newStart + int(h.NewLines)
			if newStart < 0 || newEnd > len(newLines) {
				return nil, fmt.Errorf("hunk +%d,%d does not fit the new content of %d lines", h.NewStart, h.NewLines, len(newLines))
			}
		}

		spliced := make([]string, 0, len(result)-(end-start)+(newEnd-newStart))
		spliced = append(spliced, result[:start]...)
		spliced = append(spliced, newLines[newStart:newEnd]...)
		spliced = append(spliced, result[end:]...)
		result = spliced
	}
	return joinLines(result), nil
}

// splitLines splits content into lines, each keeping its trailing
// newline, so hunk line counts match git's.
func splitLines(content []byte) []string {
	if len(content) == 0 {
		return nil
	}
	var lines []string
	s := string(content)
	for {
		i := strings.IndexByte(s, '\n')
		if i < 0 {
			lines = append(lines, s)
			return lines
		}
		lines = append(lines, s[:i+1])
		s = s[i+1:]
		if s == "" {
			return lines
		}
	}
}

func joinLines(lines []string) []byte {
	return []byte(strings.Join(lines, ""))
}
