package engine

import (
	"context"
	"fmt"

	pserrors "pstack.dev/pstack/internal/errors"
)

// recordUndo captures p's current commit and metadata in the single undo
// slot, replacing whatever was retained before. It is persisted by the next save.
func (s *Stack) recordUndo(p *Patch) {
	s.Undo = &UndoEntry{
		Patch:    p.Name,
		Commit:   p.Commit,
		Metadata: p.Metadata,
	}
}

// clearUndo drops the undo slot. Mutations other than refresh supersede it.
func (s *Stack) clearUndo() {
	s.Undo = nil
}

// undoEntryFor returns the retained entry for name, or NoUndoAvailableError
func (s *Stack) undoEntryFor(name string) (*UndoEntry, error) {
	if s.Undo == nil || s.Undo.Patch != name {
		return nil, &pserrors.NoUndoAvailableError{Patch: name}
	}
	return s.Undo, nil
}

// undoRefresh restores the target patch to the commit it had before its last
// refresh. Patches above it are popped and pushed back around the restore.
// HEAD and the index move back to the old commit while the working tree
// keeps the refreshed content, so the folded-in edits become local
// modifications again.
func undoRefresh(ctx context.Context, s *Stack, p *Patch) (*RefreshResult, error) {
	entry, err := s.undoEntryFor(p.Name)
	if err != nil {
		return nil, err
	}

	result := &RefreshResult{Patch: p.Name, Status: RefreshUndone}

	above := s.patchesAbove(p.Name)
	if len(above) > 0 {
		s.log.Info("Popping %s", joinNames(above))
		if err := pop(ctx, s, above, true); err != nil {
			return nil, err
		}
		result.Popped = above
	}

	if err := s.repo.ResetIndex(ctx, entry.Commit); err != nil {
		return nil, fmt.Errorf("failed to restore index of %s: %w", p.Name, err)
	}

	if err := s.setCommit(ctx, p, entry.Commit); err != nil {
		return nil, err
	}
	p.Metadata = entry.Metadata
	p.Log = append(p.Log, LogEntry{
		Time:   s.now(),
		Action: LogUndo,
		Commit: entry.Commit,
	})
	s.clearUndo()
	if err := s.save(ctx); err != nil {
		return nil, err
	}
	if err := s.moveHead(ctx, entry.Commit); err != nil {
		return nil, err
	}
	s.log.Info("Undid refresh of patch %s", p.Name)

	result.Commit = p.Commit
	result.Empty = p.Empty

	if len(above) > 0 {
		pushed, err := push(ctx, s, above)
		if pushed != nil {
			result.Pushed = pushed.Pushed
		}
		if err != nil {
			return result, err
		}
	}
	return result, nil
}
