package commit

// Request is the raw, user-facing commit request: partially specified,
// with mutually-exclusive parts already encoded in Selection.
type Request struct {
	// Message is the commit message; required unless amending.
	Message string
	// Amend rewrites the target commit instead of creating a new one.
	Amend bool
	// ParentRevspec names the parent commit (or the commit to amend)
	// explicitly; resolved once, up front.
	ParentRevspec string
	// StackSegmentRef is a short or qualified branch name selecting the
	// workspace segment the commit belongs to.
	StackSegmentRef string
	// WorkspaceTip and BranchTip are reference-frame hints, used only in
	// headless mode.
	WorkspaceTip string
	BranchTip    string
	// Selection picks the change-selection mode; nil means whole-worktree.
	Selection Selection
	// ContextLines is passed through to the engine's diff application.
	ContextLines int
}

// ResolvedRequest is a Request after precondition checks, revision
// resolution and change-set normalization. It is what executors consume.
type ResolvedRequest struct {
	Message         string
	Amend           bool
	ParentID        string
	StackSegmentRef string
	WorkspaceTip    string
	BranchTip       string
	Changes         []DiffSpec
	ContextLines    int
}

// Executor turns a resolved request into a destination and runs the
// engine. There are two implementations: ProjectExecutor commits against
// a project's persisted workspace state, FrameExecutor commits headless
// against an explicit reference frame.
type Executor interface {
	Execute(req ResolvedRequest) (*Outcome, error)
}

// Resolver normalizes raw commit requests and dispatches them to an
// executor. It is synchronous, never retries, and writes nothing itself.
type Resolver struct {
	Repo RepoReader
	Diff DiffEngine
}

// Resolve checks preconditions, resolves the explicit parent revspec,
// normalizes the change selection and hands the result to exec. Any
// failure aborts the whole call before anything has been written.
func (r *Resolver) Resolve(req Request, exec Executor) (*Outcome, error) {
	if req.Message == "" && !req.Amend {
		return nil, ErrMissingMessage
	}
	if req.Amend && req.Message != "" {
		return nil, ErrMessageOnAmend
	}

	var parentID string
	if req.ParentRevspec != "" {
		id, err := r.Repo.ResolveRevision(req.ParentRevspec)
		if err != nil {
			return nil, &RevisionResolutionError{Revspec: req.ParentRevspec, Err: err}
		}
		parentID = id
	}

	changes, err := NormalizeSelection(r.Diff, req.Selection)
	if err != nil {
		return nil, err
	}

	return exec.Execute(ResolvedRequest{
		Message:         req.Message,
		Amend:           req.Amend,
		ParentID:        parentID,
		StackSegmentRef: req.StackSegmentRef,
		WorkspaceTip:    req.WorkspaceTip,
		BranchTip:       req.BranchTip,
		Changes:         changes,
		ContextLines:    req.ContextLines,
	})
}

// amendDestination picks the commit to amend: the explicit parent if
// given, otherwise the current HEAD commit.
func amendDestination(repo RepoReader, req ResolvedRequest) (Destination, error) {
	id, err := ResolveParent(repo, req.ParentID, "", true)
	if err != nil {
		return nil, err
	}
	return AmendCommit{CommitID: id}, nil
}
