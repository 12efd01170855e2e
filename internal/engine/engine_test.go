package engine_test

import (
	"testing"

	"github.com/stretchr/testify/require"
	"workbench.dev/workbench/internal/commit"
	"workbench.dev/workbench/internal/engine"
	"workbench.dev/workbench/internal/git"
	"workbench.dev/workbench/testhelpers"
)

func openEngine(t *testing.T, scratch *testhelpers.GitRepo) (*engine.Engine, *git.Repository) {
	t.Helper()
	repo, err := git.OpenRepository(scratch.Dir)
	require.NoError(t, err)
	return engine.New(repo), repo
}

func TestCreateCommitWholeFiles(t *testing.T) {
	scratch := testhelpers.NewGitRepo(t)
	scratch.CreateChangeAndCommit("a.txt", "original\n", "first")
	base := scratch.GetRef("main")

	scratch.WriteFile("a.txt", "modified\n")
	scratch.WriteFile("sub/b.txt", "new file\n")

	eng, _ := openEngine(t, scratch)
	outcome, err := eng.CreateCommit(
		commit.ReferenceFrame{BranchTip: base},
		commit.NewCommit{ParentCommitID: base, Message: "commit everything\n"},
		[]commit.DiffSpec{{Path: "a.txt"}, {Path: "sub/b.txt"}},
		0,
	)
	require.NoError(t, err)
	require.Empty(t, outcome.Rejected)

	// The branch whose tip was the parent advanced to the new commit.
	require.Equal(t, outcome.NewCommitID, scratch.GetRef("main"))
	require.Equal(t, base, scratch.GetRef("main~1"))
	require.Equal(t, []commit.RefEdit{
		{Ref: "refs/heads/main", Old: base, New: outcome.NewCommitID},
	}, outcome.RefEdits)

	require.Equal(t, "modified", scratch.Git("show", "main:a.txt"))
	require.Equal(t, "new file", scratch.Git("show", "main:sub/b.txt"))
	require.Equal(t, "commit everything", scratch.Git("log", "-1", "--format=%s", "main"))
}

func TestCreateCommitUpdatesStackSegment(t *testing.T) {
	scratch := testhelpers.NewGitRepo(t)
	scratch.CreateChangeAndCommit("a.txt", "original\n", "first")
	base := scratch.GetRef("main")
	scratch.Git("branch", "feature-x")

	scratch.WriteFile("a.txt", "feature work\n")

	eng, _ := openEngine(t, scratch)
	outcome, err := eng.CreateCommitInWorkspace(
		commit.NewCommit{
			ParentCommitID: base,
			Message:        "feature commit\n",
			StackSegment:   &commit.StackSegmentID{SegmentRef: "refs/heads/feature-x", StackID: "stack-1"},
		},
		[]commit.DiffSpec{{Path: "a.txt"}},
		0,
	)
	require.NoError(t, err)

	// Only the segment ref follows the commit.
	require.Equal(t, outcome.NewCommitID, scratch.GetRef("feature-x"))
	require.Equal(t, base, scratch.GetRef("main"))
	require.Equal(t, []commit.RefEdit{
		{Ref: "refs/heads/feature-x", Old: base, New: outcome.NewCommitID},
	}, outcome.RefEdits)
}

func TestCreateCommitPartialHunks(t *testing.T) {
	scratch := testhelpers.NewGitRepo(t)
	content := "alpha\nbravo\ncharlie\ndelta\necho\nfoxtrot\ngolf\nhotel\nindia\njuliett\nkilo\nlima\n"
	scratch.CreateChangeAndCommit("f.txt", content, "first")
	base := scratch.GetRef("main")

	edited := "ALPHA\nbravo\ncharlie\ndelta\necho\nfoxtrot\ngolf\nhotel\nindia\njuliett\nkilo\nLIMA\n"
	scratch.WriteFile("f.txt", edited)

	eng, repo := openEngine(t, scratch)
	headers, err := repo.HunkHeadersForSelection("f.txt", "", []int{0})
	require.NoError(t, err)
	require.Len(t, headers, 1)

	outcome, err := eng.CreateCommit(
		commit.ReferenceFrame{BranchTip: base},
		commit.NewCommit{ParentCommitID: base, Message: "partial\n"},
		[]commit.DiffSpec{{Path: "f.txt", HunkHeaders: headers}},
		0,
	)
	require.NoError(t, err)
	require.Empty(t, outcome.Rejected)

	// Only the first edit is committed; the second stays in the worktree.
	committed := scratch.Git("show", "main:f.txt")
	require.Contains(t, committed, "ALPHA")
	require.Contains(t, committed, "lima")
	require.NotContains(t, committed, "LIMA")
}

func TestCreateCommitRename(t *testing.T) {
	scratch := testhelpers.NewGitRepo(t)
	scratch.CreateChangeAndCommit("old.txt", "stable content\n", "first")
	base := scratch.GetRef("main")
	scratch.Git("mv", "old.txt", "new.txt")

	eng, _ := openEngine(t, scratch)
	_, err := eng.CreateCommit(
		commit.ReferenceFrame{BranchTip: base},
		commit.NewCommit{ParentCommitID: base, Message: "rename\n"},
		[]commit.DiffSpec{{Path: "new.txt", PreviousPath: "old.txt"}},
		0,
	)
	require.NoError(t, err)

	require.Equal(t, "stable content", scratch.Git("show", "main:new.txt"))
	files := scratch.Git("ls-tree", "--name-only", "main")
	require.NotContains(t, files, "old.txt")
}

func TestCreateCommitDeletion(t *testing.T) {
	scratch := testhelpers.NewGitRepo(t)
	scratch.CreateChangeAndCommit("a.txt", "keep\n", "first")
	scratch.CreateChangeAndCommit("b.txt", "remove\n", "second")
	base := scratch.GetRef("main")
	scratch.RemoveFile("b.txt")

	eng, _ := openEngine(t, scratch)
	outcome, err := eng.CreateCommit(
		commit.ReferenceFrame{BranchTip: base},
		commit.NewCommit{ParentCommitID: base, Message: "drop b\n"},
		[]commit.DiffSpec{{Path: "b.txt"}},
		0,
	)
	require.NoError(t, err)
	require.Empty(t, outcome.Rejected)

	files := scratch.Git("ls-tree", "--name-only", "main")
	require.Contains(t, files, "a.txt")
	require.NotContains(t, files, "b.txt")
}

func TestCreateCommitRejectsImpossibleSpec(t *testing.T) {
	scratch := testhelpers.NewGitRepo(t)
	scratch.CreateChangeAndCommit("a.txt", "original\n", "first")
	base := scratch.GetRef("main")
	scratch.WriteFile("a.txt", "modified\n")

	eng, _ := openEngine(t, scratch)
	outcome, err := eng.CreateCommit(
		commit.ReferenceFrame{BranchTip: base},
		commit.NewCommit{ParentCommitID: base, Message: "partial failure\n"},
		[]commit.DiffSpec{{Path: "a.txt"}, {Path: "ghost.txt"}},
		0,
	)
	require.NoError(t, err)
	require.Equal(t, []commit.DiffSpec{{Path: "ghost.txt"}}, outcome.Rejected)
	require.Equal(t, "modified", scratch.Git("show", "main:a.txt"))
}

func TestAmendCommit(t *testing.T) {
	scratch := testhelpers.NewGitRepo(t)
	scratch.CreateChangeAndCommit("a.txt", "v1\n", "first")
	scratch.CreateChangeAndCommit("a.txt", "v2\n", "second")
	parent := scratch.GetRef("main~1")
	target := scratch.GetRef("main")

	scratch.WriteFile("a.txt", "v2 fixed\n")

	eng, _ := openEngine(t, scratch)
	outcome, err := eng.CreateCommitInWorkspace(
		commit.AmendCommit{CommitID: target},
		[]commit.DiffSpec{{Path: "a.txt"}},
		0,
	)
	require.NoError(t, err)
	require.NotEqual(t, target, outcome.NewCommitID)

	// The branch follows the rewritten commit; message and parent stay.
	require.Equal(t, outcome.NewCommitID, scratch.GetRef("main"))
	require.Equal(t, parent, scratch.GetRef("main~1"))
	require.Equal(t, "second", scratch.Git("log", "-1", "--format=%s", "main"))
	require.Equal(t, "v2 fixed", scratch.Git("show", "main:a.txt"))
}

func TestCreateRootCommit(t *testing.T) {
	scratch := testhelpers.NewGitRepo(t)
	scratch.WriteFile("a.txt", "first ever\n")

	eng, _ := openEngine(t, scratch)
	outcome, err := eng.CreateCommit(
		commit.ReferenceFrame{},
		commit.NewCommit{Message: "root\n"},
		[]commit.DiffSpec{{Path: "a.txt"}},
		0,
	)
	require.NoError(t, err)

	// The unborn branch materializes at the new root commit.
	require.Equal(t, outcome.NewCommitID, scratch.GetRef("main"))
	require.Equal(t, "first ever", scratch.Git("show", "main:a.txt"))
}
