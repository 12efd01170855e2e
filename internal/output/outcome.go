package output

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"

	"workbench.dev/workbench/internal/commit"
)

var (
	commitStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#4dca7d")).Bold(true)
	refStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#5084f3"))
	rejectedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#f46251"))
)

// FormatOutcome renders the engine's result for the terminal. Styling is
// dropped when stdout is not a terminal.
func FormatOutcome(outcome *commit.Outcome) string {
	styled := isatty.IsTerminal(os.Stdout.Fd())
	var b strings.Builder

	fmt.Fprintf(&b, "commit %s\n", render(commitStyle, shortID(outcome.NewCommitID), styled))
	for _, edit := range outcome.RefEdits {
		fmt.Fprintf(&b, "  %s: %s -> %s\n",
			render(refStyle, edit.Ref, styled), shortID(edit.Old), shortID(edit.New))
	}
	for _, spec := range outcome.Rejected {
		fmt.Fprintf(&b, "  %s %s\n", render(rejectedStyle, "rejected:", styled), spec.Path)
	}
	return b.String()
}

func render(style lipgloss.Style, text string, styled bool) string {
	if !styled {
		return text
	}
	return style.Render(text)
}

func shortID(id string) string {
	if id == "" {
		return "(none)"
	}
	if len(id) > 7 {
		return id[:7]
	}
	return id
}
