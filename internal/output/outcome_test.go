package output_test

import (
	"testing"

	"github.com/stretchr/testify/require"
	"workbench.dev/workbench/internal/commit"
	"workbench.dev/workbench/internal/output"
)

func TestFormatOutcome(t *testing.T) {
	outcome := &commit.Outcome{
		NewCommitID: "0123456789abcdef0123456789abcdef01234567",
		RefEdits: []commit.RefEdit{
			{Ref: "refs/heads/feature-x", Old: "aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa", New: "0123456789abcdef0123456789abcdef01234567"},
		},
		Rejected: []commit.DiffSpec{{Path: "ghost.txt"}},
	}

	rendered := output.FormatOutcome(outcome)
	require.Contains(t, rendered, "commit 0123456")
	require.Contains(t, rendered, "refs/heads/feature-x")
	require.Contains(t, rendered, "aaaaaaa -> 0123456")
	require.Contains(t, rendered, "rejected: ghost.txt")
}

func TestFormatOutcomeWithoutRefEdits(t *testing.T) {
	rendered := output.FormatOutcome(&commit.Outcome{NewCommitID: "abc"})
	require.Contains(t, rendered, "commit abc")
	require.NotContains(t, rendered, "rejected")
}
