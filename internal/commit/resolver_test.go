package commit_test

import (
	"testing"

	"github.com/stretchr/testify/require"
	"workbench.dev/workbench/internal/commit"
)

func TestResolvePreconditions(t *testing.T) {
	resolver := &commit.Resolver{Repo: &fakeRepo{head: "ccccccc"}, Diff: &fakeDiff{}}

	t.Run("new commit without message fails", func(t *testing.T) {
		_, err := resolver.Resolve(commit.Request{}, &commit.FrameExecutor{})
		require.ErrorIs(t, err, commit.ErrMissingMessage)
	})

	t.Run("amend with message fails", func(t *testing.T) {
		_, err := resolver.Resolve(commit.Request{Message: "nope", Amend: true}, &commit.FrameExecutor{})
		require.ErrorIs(t, err, commit.ErrMessageOnAmend)
	})

	t.Run("unresolvable parent revspec aborts", func(t *testing.T) {
		_, err := resolver.Resolve(commit.Request{
			Message:       "msg",
			ParentRevspec: "nonsense~~~",
		}, &commit.FrameExecutor{})
		require.ErrorIs(t, err, commit.ErrRevisionResolution)

		var revErr *commit.RevisionResolutionError
		require.ErrorAs(t, err, &revErr)
		require.Equal(t, "nonsense~~~", revErr.Revspec)
	})
}

func TestResolveWithProjectExecutor(t *testing.T) {
	repo := &fakeRepo{
		revisions: map[string]string{"v1.0": "aaaaaaa"},
		refs:      map[string]string{"refs/heads/feature-x": "ddddddd"},
		head:      "ccccccc",
	}
	registry := &fakeRegistry{stacks: []commit.StackInfo{
		{ID: "stack-1", Heads: []string{"feature-x"}},
	}}

	newExecutor := func(engine *fakeEngine) *commit.ProjectExecutor {
		return &commit.ProjectExecutor{Repo: repo, Registry: registry, Engine: engine}
	}
	resolver := &commit.Resolver{Repo: repo, Diff: &fakeDiff{changes: []commit.TreeChange{{Path: "f.txt"}}}}

	t.Run("amend with no hints targets HEAD", func(t *testing.T) {
		engine := &fakeEngine{}
		_, err := resolver.Resolve(commit.Request{Amend: true}, newExecutor(engine))
		require.NoError(t, err)
		require.True(t, engine.inWorkspace)
		require.Equal(t, commit.AmendCommit{CommitID: "ccccccc"}, engine.dest)
	})

	t.Run("amend with explicit parent targets it", func(t *testing.T) {
		engine := &fakeEngine{}
		_, err := resolver.Resolve(commit.Request{Amend: true, ParentRevspec: "v1.0"}, newExecutor(engine))
		require.NoError(t, err)
		require.Equal(t, commit.AmendCommit{CommitID: "aaaaaaa"}, engine.dest)
	})

	t.Run("branch on a registered stack resolves segment and parent", func(t *testing.T) {
		engine := &fakeEngine{}
		_, err := resolver.Resolve(commit.Request{
			Message:         "msg",
			StackSegmentRef: "feature-x",
		}, newExecutor(engine))
		require.NoError(t, err)

		dest, ok := engine.dest.(commit.NewCommit)
		require.True(t, ok)
		require.Equal(t, "ddddddd", dest.ParentCommitID)
		require.Equal(t, "msg", dest.Message)
		require.NotNil(t, dest.StackSegment)
		require.Equal(t, "refs/heads/feature-x", dest.StackSegment.SegmentRef)
		require.Equal(t, "stack-1", dest.StackSegment.StackID)
	})

	t.Run("explicit parent beats the branch reference", func(t *testing.T) {
		engine := &fakeEngine{}
		_, err := resolver.Resolve(commit.Request{
			Message:         "msg",
			ParentRevspec:   "v1.0",
			StackSegmentRef: "feature-x",
		}, newExecutor(engine))
		require.NoError(t, err)

		dest := engine.dest.(commit.NewCommit)
		require.Equal(t, "aaaaaaa", dest.ParentCommitID)
	})

	t.Run("untracked branch degrades to no segment", func(t *testing.T) {
		engine := &fakeEngine{}
		_, err := resolver.Resolve(commit.Request{
			Message:         "msg",
			StackSegmentRef: "loose-branch",
		}, newExecutor(engine))
		require.NoError(t, err)

		dest := engine.dest.(commit.NewCommit)
		require.Nil(t, dest.StackSegment)
		require.Empty(t, dest.ParentCommitID)
	})

	t.Run("lock is held around the engine call", func(t *testing.T) {
		engine := &fakeEngine{}
		var acquired, released bool
		exec := newExecutor(engine)
		exec.Lock = func() (func(), error) {
			acquired = true
			return func() { released = true }, nil
		}

		_, err := resolver.Resolve(commit.Request{Message: "msg"}, exec)
		require.NoError(t, err)
		require.True(t, acquired)
		require.True(t, released)
	})
}

func TestResolveWithFrameExecutor(t *testing.T) {
	repo := &fakeRepo{
		revisions: map[string]string{"ws-tip": "1111111", "v2": "2222222"},
		refs:      map[string]string{"refs/heads/feature-x": "ddddddd"},
		head:      "ccccccc",
	}
	resolver := &commit.Resolver{Repo: repo, Diff: &fakeDiff{changes: []commit.TreeChange{{Path: "f.txt"}}}}

	t.Run("branch tip falls back to HEAD", func(t *testing.T) {
		engine := &fakeEngine{}
		_, err := resolver.Resolve(commit.Request{Message: "msg"}, &commit.FrameExecutor{Repo: repo, Engine: engine})
		require.NoError(t, err)
		require.False(t, engine.inWorkspace)
		require.Equal(t, commit.ReferenceFrame{BranchTip: "ccccccc"}, engine.frame)

		dest := engine.dest.(commit.NewCommit)
		require.Empty(t, dest.ParentCommitID)
		require.Nil(t, dest.StackSegment)
	})

	t.Run("branch reference feeds the branch tip", func(t *testing.T) {
		engine := &fakeEngine{}
		_, err := resolver.Resolve(commit.Request{
			Message:         "msg",
			StackSegmentRef: "feature-x",
			WorkspaceTip:    "ws-tip",
		}, &commit.FrameExecutor{Repo: repo, Engine: engine})
		require.NoError(t, err)
		require.Equal(t, commit.ReferenceFrame{WorkspaceTip: "1111111", BranchTip: "ddddddd"}, engine.frame)
	})

	t.Run("explicit branch tip hint wins", func(t *testing.T) {
		engine := &fakeEngine{}
		_, err := resolver.Resolve(commit.Request{
			Message:         "msg",
			StackSegmentRef: "feature-x",
			BranchTip:       "v2",
		}, &commit.FrameExecutor{Repo: repo, Engine: engine})
		require.NoError(t, err)
		require.Equal(t, "2222222", engine.frame.BranchTip)
	})

	t.Run("unresolvable workspace tip aborts", func(t *testing.T) {
		engine := &fakeEngine{}
		_, err := resolver.Resolve(commit.Request{
			Message:      "msg",
			WorkspaceTip: "missing",
		}, &commit.FrameExecutor{Repo: repo, Engine: engine})
		require.ErrorIs(t, err, commit.ErrRevisionResolution)
	})

	t.Run("changes reach the engine", func(t *testing.T) {
		engine := &fakeEngine{}
		_, err := resolver.Resolve(commit.Request{Message: "msg"}, &commit.FrameExecutor{Repo: repo, Engine: engine})
		require.NoError(t, err)
		require.Equal(t, []commit.DiffSpec{{Path: "f.txt"}}, engine.changes)
	})
}
