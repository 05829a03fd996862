package engine

import (
	"context"
	"fmt"
	"strings"

	pserrors "pstack.dev/pstack/internal/errors"
)

// Pop removes the named patches from the applied list. The names must form a
// contiguous suffix of the applied patches, in any order. With keep, local
// modifications survive; without it the working tree is reset to the new top.
func Pop(ctx context.Context, s *Stack, names []string, keep bool) error {
	if err := checkMutable(ctx, s); err != nil {
		return err
	}
	if _, err := s.validatePop(names); err != nil {
		return err
	}
	s.clearUndo()
	s.log.Info("Popping %s", joinNames(names))
	return pop(detach(ctx), s, names, keep)
}

// Push applies the named unapplied patches in order. It stops at the first
// patch that does not apply cleanly, leaving it applied as the current patch
// with its conflicts in the working tree, and returns a PushConflictError.
func Push(ctx context.Context, s *Stack, names []string) (*PushResult, error) {
	if err := checkMutable(ctx, s); err != nil {
		return nil, err
	}
	if err := s.validatePush(names); err != nil {
		return nil, err
	}
	s.clearUndo()
	return push(detach(ctx), s, names)
}

// detach keeps ctx's values but drops its cancellation. Once a sequence of
// ref and worktree writes has started it runs to the end, so an interrupt
// cannot leave a half-moved stack behind.
func detach(ctx context.Context) context.Context {
	return context.WithoutCancel(ctx)
}

// PatchesFrom returns the applied patches from name up to the top
func (s *Stack) PatchesFrom(name string) ([]string, error) {
	i := s.appliedIndex(name)
	if i < 0 {
		return nil, &pserrors.PatchNotAppliedError{Patches: []string{name}, Reason: "not applied"}
	}
	return namesOf(s.Applied[i:]), nil
}

// PatchesUpTo returns the unapplied patches from the next one down to name
func (s *Stack) PatchesUpTo(name string) ([]string, error) {
	i := s.unappliedIndex(name)
	if i < 0 {
		return nil, &pserrors.PatchNotUnappliedError{Patch: name}
	}
	return namesOf(s.Unapplied[:i+1]), nil
}

// patchesAbove returns the applied patches strictly above name, bottom to top
func (s *Stack) patchesAbove(name string) []string {
	i := s.appliedIndex(name)
	if i < 0 {
		return nil
	}
	return namesOf(s.Applied[i+1:])
}

func checkMutable(ctx context.Context, s *Stack) error {
	if _, err := s.conflicts.AutoResolveConflicts(ctx); err != nil {
		return err
	}
	if err := s.conflicts.Check(ctx); err != nil {
		return err
	}
	equal, err := s.HeadTopEqual(ctx)
	if err != nil {
		return err
	}
	if !equal {
		head, err := s.repo.ReadRef(ctx, HeadRef)
		if err != nil {
			return err
		}
		return &pserrors.HeadTopMismatchError{Head: head, Top: s.Top()}
	}
	return nil
}

// validatePop returns the index in Applied where the popped suffix starts
func (s *Stack) validatePop(names []string) (int, error) {
	if len(names) == 0 {
		return 0, &pserrors.PatchNotAppliedError{Reason: "no patches given"}
	}

	var missing []string
	want := make(map[string]bool, len(names))
	for _, name := range names {
		if !s.IsApplied(name) {
			missing = append(missing, name)
		}
		want[name] = true
	}
	if len(missing) > 0 {
		return 0, &pserrors.PatchNotAppliedError{Patches: missing, Reason: "not applied"}
	}
	if len(want) != len(names) {
		return 0, &pserrors.PatchNotAppliedError{Patches: names, Reason: "patch listed twice"}
	}

	start := len(s.Applied) - len(names)
	for _, p := range s.Applied[start:] {
		if !want[p.Name] {
			return 0, &pserrors.PatchNotAppliedError{
				Patches: names,
				Reason:  "not a contiguous run at the top of the stack",
			}
		}
	}
	return start, nil
}

func (s *Stack) validatePush(names []string) error {
	seen := make(map[string]bool, len(names))
	for _, name := range names {
		if seen[name] || s.unappliedIndex(name) < 0 {
			return &pserrors.PatchNotUnappliedError{Patch: name}
		}
		seen[name] = true
	}
	return nil
}

// pop moves the named suffix of Applied to the front of Unapplied, keeping
// stack order, and moves HEAD to the commit below it.
func pop(ctx context.Context, s *Stack, names []string, keep bool) error {
	start, err := s.validatePop(names)
	if err != nil {
		return err
	}

	head, err := s.repo.ReadRef(ctx, HeadRef)
	if err != nil {
		return fmt.Errorf("failed to read HEAD: %w", err)
	}
	newTop := s.Base
	if start > 0 {
		newTop = s.Applied[start-1].Commit
	}

	if err := s.repo.Checkout(ctx, head, newTop, keep); err != nil {
		return fmt.Errorf("failed to pop %s: %w", joinNames(names), err)
	}

	popped := append([]*Patch{}, s.Applied[start:]...)
	now := s.now()
	for _, p := range popped {
		p.Log = append(p.Log, LogEntry{Time: now, Action: LogPop, Commit: p.Commit})
	}
	s.Applied = s.Applied[:start]
	s.Unapplied = append(popped, s.Unapplied...)

	if err := s.save(ctx); err != nil {
		return err
	}
	return s.moveHead(ctx, newTop)
}

// push applies names one at a time onto the top of the stack
func push(ctx context.Context, s *Stack, names []string) (*PushResult, error) {
	if err := s.validatePush(names); err != nil {
		return nil, err
	}

	result := &PushResult{}
	for _, name := range names {
		p := s.Unapplied[s.unappliedIndex(name)]
		s.log.Info("Pushing %s", name)

		paths, err := pushOne(ctx, s, p)
		if err != nil {
			return result, err
		}
		if len(paths) > 0 {
			result.Conflict = name
			result.Paths = paths
			return result, &pserrors.PushConflictError{Patch: name, Paths: paths}
		}
		result.Pushed = append(result.Pushed, name)
	}
	return result, nil
}

// pushOne applies p on top of the stack. A non-empty return value lists the
// conflicting paths; p is then applied with an empty commit and the
// conflicts are checked out for the user to resolve.
func pushOne(ctx context.Context, s *Stack, p *Patch) ([]string, error) {
	head := s.Top()
	commit, err := s.repo.ReadCommit(ctx, p.Commit)
	if err != nil {
		return nil, err
	}

	if commit.Parent == head {
		if err := s.repo.Checkout(ctx, head, p.Commit, true); err != nil {
			return nil, fmt.Errorf("failed to push %s: %w", p.Name, err)
		}
		return nil, s.applyPushed(ctx, p, p.Commit, LogPush)
	}

	applied, err := s.repo.ApplyDiff(ctx, p.Commit, head)
	if err != nil {
		return nil, fmt.Errorf("failed to apply %s: %w", p.Name, err)
	}

	if applied.Clean() {
		id, err := s.repo.CreateCommit(ctx, CommitSpec{Parent: head, Tree: applied.Tree, Metadata: p.Metadata})
		if err != nil {
			return nil, err
		}
		if err := s.repo.Checkout(ctx, head, id, true); err != nil {
			return nil, fmt.Errorf("failed to push %s: %w", p.Name, err)
		}
		return nil, s.applyPushed(ctx, p, id, LogPush)
	}

	base, err := s.repo.ReadCommit(ctx, head)
	if err != nil {
		return nil, err
	}
	id, err := s.repo.CreateCommit(ctx, CommitSpec{Parent: head, Tree: base.Tree, Metadata: p.Metadata})
	if err != nil {
		return nil, err
	}
	if err := s.repo.WriteConflicts(ctx, head, applied); err != nil {
		return nil, fmt.Errorf("failed to check out conflicts of %s: %w", p.Name, err)
	}
	if err := s.applyPushed(ctx, p, id, LogConflict); err != nil {
		return nil, err
	}
	return applied.Conflicts, nil
}

// applyPushed moves p from Unapplied to the top of Applied at commit id
func (s *Stack) applyPushed(ctx context.Context, p *Patch, id, action string) error {
	if err := s.setCommit(ctx, p, id); err != nil {
		return err
	}
	p.Log = append(p.Log, LogEntry{Time: s.now(), Action: action, Commit: id})

	i := s.unappliedIndex(p.Name)
	s.Unapplied = append(s.Unapplied[:i:i], s.Unapplied[i+1:]...)
	s.Applied = append(s.Applied, p)

	if err := s.save(ctx); err != nil {
		return err
	}
	return s.moveHead(ctx, id)
}

func namesOf(patches []*Patch) []string {
	names := make([]string, len(patches))
	for i, p := range patches {
		names[i] = p.Name
	}
	return names
}

func joinNames(names []string) string {
	return strings.Join(names, ", ")
}
