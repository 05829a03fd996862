package engine

import (
	"context"
	"errors"
	"fmt"
	"path"
	"slices"
	"strings"

	pserrors "pstack.dev/pstack/internal/errors"
)

// errNoEditor is returned when an edit is requested without an editor
var errNoEditor = errors.New("no editor available to edit the patch message")

// refreshPlan is everything a refresh decides before it touches the stack
type refreshPlan struct {
	patch    *Patch
	parent   string
	files    []string
	tree     string
	metadata Metadata
	above    []string
}

// Refresh folds working-tree changes into a patch. The target defaults to the
// current patch. Patches above the target are popped with their local changes
// kept, and pushed back afterwards; a conflict while pushing them back is
// returned as a PushConflictError together with the partial result.
func Refresh(ctx context.Context, s *Stack, opts RefreshOptions) (*RefreshResult, error) {
	if _, err := s.conflicts.AutoResolveConflicts(ctx); err != nil {
		return nil, err
	}

	p, err := s.refreshTarget(opts.Patch)
	if err != nil {
		return nil, err
	}

	if err := s.conflicts.Check(ctx); err != nil {
		return nil, err
	}

	if opts.Undo {
		return undoRefresh(detach(ctx), s, p)
	}

	head, err := s.repo.ReadRef(ctx, HeadRef)
	if err != nil {
		return nil, fmt.Errorf("failed to read HEAD: %w", err)
	}
	headTop := head == s.Top()
	if !headTop && !opts.Force {
		return nil, &pserrors.HeadTopMismatchError{Head: head, Top: s.Top()}
	}

	if opts.SignOff && opts.Ack {
		return nil, pserrors.ErrConflictingSignOptions
	}

	commit, err := s.repo.ReadCommit(ctx, p.Commit)
	if err != nil {
		return nil, err
	}

	files, err := s.selectFiles(ctx, commit, opts)
	if err != nil {
		return nil, err
	}
	if opts.Update && len(files) == 0 {
		s.log.Info("No modified files for updating patch %s", p.Name)
		return &RefreshResult{Patch: p.Name, Status: RefreshNothingToUpdate, Commit: p.Commit, Empty: p.Empty}, nil
	}

	if !shouldRewrite(opts, files, headTop) {
		if opts.Annotate != "" {
			return annotate(detach(ctx), s, p, opts.Annotate)
		}
		s.log.Info("Patch %s is already up to date", p.Name)
		return &RefreshResult{Patch: p.Name, Status: RefreshUpToDate, Commit: p.Commit, Empty: p.Empty}, nil
	}

	plan := &refreshPlan{
		patch:  p,
		parent: commit.Parent,
		files:  files,
		above:  s.patchesAbove(p.Name),
	}
	// The working-tree content of the selected files is the same before and
	// after a keep-pop, so the tree and message are settled before popping.
	treeBase := head
	if len(plan.above) > 0 {
		treeBase = p.Commit
	}
	plan.tree, err = s.repo.WriteTree(ctx, treeBase, files)
	if err != nil {
		return nil, fmt.Errorf("failed to write tree for %s: %w", p.Name, err)
	}
	plan.metadata, err = s.refreshMetadata(ctx, plan, opts)
	if err != nil {
		return nil, err
	}

	return rewrite(detach(ctx), s, plan, opts.Annotate)
}

// refreshTarget resolves the patch a refresh acts on
func (s *Stack) refreshTarget(name string) (*Patch, error) {
	if name == "" {
		p := s.CurrentPatch()
		if p == nil {
			return nil, &pserrors.NoSuchAppliedPatchError{}
		}
		return p, nil
	}
	i := s.appliedIndex(name)
	if i < 0 {
		return nil, &pserrors.NoSuchAppliedPatchError{Patch: name}
	}
	return s.Applied[i], nil
}

// selectFiles computes the effective file set: locally changed paths,
// restricted to the requested paths and, for an update, to the paths the
// patch already touches.
func (s *Stack) selectFiles(ctx context.Context, commit *Commit, opts RefreshOptions) ([]string, error) {
	status, err := s.repo.WorkingTreeStatus(ctx, false)
	if err != nil {
		return nil, fmt.Errorf("failed to read working tree status: %w", err)
	}

	var files []string
	for _, e := range status {
		if e.Code == StatusUntracked {
			continue
		}
		if len(opts.Files) > 0 && !matchesAny(e.Path, opts.Files) {
			continue
		}
		files = append(files, e.Path)
	}

	if opts.Update && len(files) > 0 {
		touched, err := s.repo.DiffTree(ctx, commit.Parent, commit.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to list files of %s: %w", commit.ID, err)
		}
		files = slices.DeleteFunc(files, func(f string) bool {
			return !slices.Contains(touched, f)
		})
	}

	slices.Sort(files)
	return slices.Compact(files), nil
}

// matchesAny reports whether file equals one of the given paths or lies
// below one of them
func matchesAny(file string, paths []string) bool {
	for _, p := range paths {
		p = path.Clean(strings.TrimPrefix(p, "./"))
		if p == "." || file == p || strings.HasPrefix(file, p+"/") {
			return true
		}
	}
	return false
}

func shouldRewrite(opts RefreshOptions, files []string, headTop bool) bool {
	return len(files) > 0 ||
		!headTop ||
		opts.Message != "" ||
		opts.Edit ||
		opts.ShowPatch ||
		opts.Author.IsSet() ||
		opts.Committer.IsSet() ||
		opts.SignOff ||
		opts.Ack
}

// refreshMetadata applies overrides, the edited message and trailers
func (s *Stack) refreshMetadata(ctx context.Context, plan *refreshPlan, opts RefreshOptions) (Metadata, error) {
	md := plan.patch.Metadata
	md.Author = opts.Author.apply(md.Author)
	md.Committer.When = s.now()
	md.Committer = opts.Committer.apply(md.Committer)
	if opts.Message != "" {
		md.Message = opts.Message
	}

	if opts.Edit || opts.ShowPatch {
		if opts.Editor == nil {
			return Metadata{}, errNoEditor
		}
		req := EditRequest{Patch: plan.patch.Name, Message: md.Message}
		if opts.ShowPatch {
			diff, err := s.repo.PatchText(ctx, plan.parent, plan.tree)
			if err != nil {
				return Metadata{}, err
			}
			req.Diff = diff
		}
		edited, err := opts.Editor(req)
		if err != nil {
			return Metadata{}, fmt.Errorf("failed to edit message: %w", err)
		}
		if strings.TrimSpace(edited) != "" {
			md.Message = edited
		}
	}

	if opts.SignOff || opts.Ack {
		id, err := s.repo.Identity(ctx)
		if err != nil {
			return Metadata{}, err
		}
		id = opts.Signer.apply(id)
		kind := TrailerSignedOff
		if opts.Ack {
			kind = TrailerAcked
		}
		md.Message = AddTrailer(md.Message, kind, id)
	}
	return md, nil
}

// rewrite pops the patches above the target, commits the new version of the
// target and pushes the popped patches back
func rewrite(ctx context.Context, s *Stack, plan *refreshPlan, note string) (*RefreshResult, error) {
	p := plan.patch
	result := &RefreshResult{Patch: p.Name, Status: RefreshDone, Files: plan.files}

	if len(plan.above) > 0 {
		s.log.Info("Popping %s", joinNames(plan.above))
		if err := pop(ctx, s, plan.above, true); err != nil {
			return nil, err
		}
		result.Popped = plan.above
	}

	s.log.Info("Refreshing patch %s", p.Name)
	id, err := s.repo.CreateCommit(ctx, CommitSpec{
		Parent:   plan.parent,
		Tree:     plan.tree,
		Metadata: plan.metadata,
	})
	if err != nil {
		return result, fmt.Errorf("failed to create commit for %s: %w", p.Name, err)
	}

	s.recordUndo(p)
	entry := LogEntry{Time: s.now(), Action: LogRefresh, Note: note}
	if err := s.MarkRefreshed(ctx, p, id, entry); err != nil {
		return result, err
	}
	if err := s.moveHead(ctx, id); err != nil {
		return result, err
	}
	if err := s.repo.StagePaths(ctx, plan.files); err != nil {
		return result, fmt.Errorf("failed to update index: %w", err)
	}

	result.Commit = id
	result.Empty = p.Empty
	if p.Empty {
		s.log.Info("Patch %s is now empty", p.Name)
	}

	if len(plan.above) > 0 {
		pushed, err := push(ctx, s, plan.above)
		if pushed != nil {
			result.Pushed = pushed.Pushed
		}
		if err != nil {
			return result, err
		}
	}
	return result, nil
}

// annotate records a note in the patch log without creating a commit
func annotate(ctx context.Context, s *Stack, p *Patch, note string) (*RefreshResult, error) {
	p.Log = append(p.Log, LogEntry{
		Time:   s.now(),
		Action: LogAnnotate,
		Commit: p.Commit,
		Note:   note,
	})
	if err := s.save(ctx); err != nil {
		return nil, err
	}
	s.log.Info("Annotated patch %s", p.Name)
	return &RefreshResult{Patch: p.Name, Status: RefreshAnnotated, Commit: p.Commit, Empty: p.Empty}, nil
}
