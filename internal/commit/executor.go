package commit

// ProjectExecutor commits against a project's persisted workspace state.
// Destination resolution consults the project's stack registry, and the
// engine call runs under exclusive access to the project's working copy.
type ProjectExecutor struct {
	Repo     RepoReader
	Registry StackRegistry
	Engine   Engine
	// Lock acquires exclusive write access to the project's working copy
	// and returns a release func. Nil means no serialization (tests).
	Lock func() (func(), error)
}

func (e *ProjectExecutor) Execute(req ResolvedRequest) (*Outcome, error) {
	dest, err := e.destination(req)
	if err != nil {
		return nil, err
	}

	if e.Lock != nil {
		release, err := e.Lock()
		if err != nil {
			return nil, err
		}
		defer release()
	}
	return e.Engine.CreateCommitInWorkspace(dest, req.Changes, req.ContextLines)
}

func (e *ProjectExecutor) destination(req ResolvedRequest) (Destination, error) {
	if req.Amend {
		return amendDestination(e.Repo, req)
	}

	var segment *StackSegmentID
	parentID := req.ParentID
	if req.StackSegmentRef != "" {
		seg, err := LocateStackSegment(e.Registry, req.StackSegmentRef)
		if err != nil {
			return nil, err
		}
		segment = seg

		if parentID == "" {
			// A missing reference is a soft miss: the parent stays
			// unresolved and the engine decides.
			id, err := e.Repo.PeelReferenceToCommit(req.StackSegmentRef)
			if err != nil {
				return nil, err
			}
			parentID = id
		}
	}
	return NewCommit{
		ParentCommitID: parentID,
		Message:        req.Message,
		StackSegment:   segment,
	}, nil
}

// FrameExecutor commits in headless mode: no stack registry, no worktree
// lock, destination and reference frame built purely from repository-level
// lookups and caller hints.
type FrameExecutor struct {
	Repo   RepoReader
	Engine Engine
}

func (e *FrameExecutor) Execute(req ResolvedRequest) (*Outcome, error) {
	var dest Destination
	if req.Amend {
		var err error
		dest, err = amendDestination(e.Repo, req)
		if err != nil {
			return nil, err
		}
	} else {
		dest = NewCommit{
			ParentCommitID: req.ParentID,
			Message:        req.Message,
		}
	}

	frame, err := e.frame(req)
	if err != nil {
		return nil, err
	}
	return e.Engine.CreateCommit(frame, dest, req.Changes, req.ContextLines)
}

// frame builds the reference frame from the caller's tip hints. The
// branch tip falls back to the named branch reference, then to HEAD, so
// the engine always has an anchor to reconcile against.
func (e *FrameExecutor) frame(req ResolvedRequest) (ReferenceFrame, error) {
	var frame ReferenceFrame

	if req.WorkspaceTip != "" {
		id, err := e.Repo.ResolveRevision(req.WorkspaceTip)
		if err != nil {
			return frame, &RevisionResolutionError{Revspec: req.WorkspaceTip, Err: err}
		}
		frame.WorkspaceTip = id
	}

	if req.BranchTip != "" {
		id, err := e.Repo.ResolveRevision(req.BranchTip)
		if err != nil {
			return frame, &RevisionResolutionError{Revspec: req.BranchTip, Err: err}
		}
		frame.BranchTip = id
		return frame, nil
	}

	if req.StackSegmentRef != "" {
		id, err := e.Repo.PeelReferenceToCommit(req.StackSegmentRef)
		if err != nil {
			return frame, err
		}
		if id != "" {
			frame.BranchTip = id
			return frame, nil
		}
	}

	head, err := e.Repo.HeadCommit()
	if err != nil {
		return frame, err
	}
	frame.BranchTip = head
	return frame, nil
}
