package engine_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"pstack.dev/pstack/internal/engine"
	pserrors "pstack.dev/pstack/internal/errors"
)

func TestRefreshUndo(t *testing.T) {
	t.Run("restores the previous commit and metadata once", func(t *testing.T) {
		f := newFixture(t)
		p := f.addPatch("a", map[string]string{"a.txt": "a1\n"})
		oldCommit := p.Commit
		oldMetadata := p.Metadata

		f.repo.WriteFile("a.txt", "a2\n")
		_, err := engine.Refresh(f.ctx, f.stack, engine.RefreshOptions{Message: "reworded"})
		require.NoError(t, err)
		require.NotEqual(t, oldCommit, f.stack.Patch("a").Commit)
		commits := f.repo.CommitsCreated

		res, err := engine.Refresh(f.ctx, f.stack, engine.RefreshOptions{Undo: true})
		require.NoError(t, err)
		require.Equal(t, engine.RefreshUndone, res.Status)
		require.Equal(t, oldCommit, res.Commit)
		require.Equal(t, commits, f.repo.CommitsCreated)

		restored := f.stack.Patch("a")
		require.Equal(t, oldCommit, restored.Commit)
		require.Equal(t, oldMetadata, restored.Metadata)
		require.Equal(t, oldCommit, f.repo.Head())
		require.Equal(t, "a1\n", f.repo.Index["a.txt"])
		require.Equal(t, "a2\n", f.repo.Worktree["a.txt"])
		f.requireHeadTopEqual()

		_, err = engine.Refresh(f.ctx, f.stack, engine.RefreshOptions{Undo: true})
		var noUndo *pserrors.NoUndoAvailableError
		require.True(t, errors.As(err, &noUndo))
		require.Equal(t, "a", noUndo.Patch)
	})

	t.Run("is persisted", func(t *testing.T) {
		f := newFixture(t)
		p := f.addPatch("a", map[string]string{"a.txt": "a1\n"})
		oldCommit := p.Commit
		f.repo.WriteFile("a.txt", "a2\n")
		_, err := engine.Refresh(f.ctx, f.stack, engine.RefreshOptions{})
		require.NoError(t, err)

		s := f.reload()
		require.NotNil(t, s.Undo)
		require.Equal(t, "a", s.Undo.Patch)
		require.Equal(t, oldCommit, s.Undo.Commit)

		_, err = engine.Refresh(f.ctx, s, engine.RefreshOptions{Undo: true})
		require.NoError(t, err)

		s = f.reload()
		require.Nil(t, s.Undo)
		require.Equal(t, oldCommit, s.Patch("a").Commit)
		log := s.Patch("a").Log
		require.Equal(t, engine.LogUndo, log[len(log)-1].Action)
	})

	t.Run("only the last refreshed patch can be undone", func(t *testing.T) {
		f := newFixture(t)
		f.addPatch("a", map[string]string{"a.txt": "a1\n"})
		f.addPatch("b", map[string]string{"b.txt": "b1\n"})

		_, err := engine.Refresh(f.ctx, f.stack, engine.RefreshOptions{Patch: "a", Undo: true})
		require.ErrorIs(t, err, pserrors.ErrNoUndoAvailable)
	})

	t.Run("skips the head check", func(t *testing.T) {
		f := newFixture(t)
		p := f.addPatch("a", map[string]string{"a.txt": "a1\n"})
		oldCommit := p.Commit
		_, err := engine.Refresh(f.ctx, f.stack, engine.RefreshOptions{Message: "x"})
		require.NoError(t, err)

		f.repo.CommitFiles("foreign", map[string]*string{"x.txt": ptr("x\n")})
		_, err = engine.Refresh(f.ctx, f.stack, engine.RefreshOptions{})
		require.ErrorIs(t, err, pserrors.ErrHeadTopMismatch)

		_, err = engine.Refresh(f.ctx, f.stack, engine.RefreshOptions{Undo: true})
		require.NoError(t, err)
		require.Equal(t, oldCommit, f.stack.Patch("a").Commit)
	})

	t.Run("still refuses pending conflicts", func(t *testing.T) {
		f := newFixture(t)
		f.addPatch("a", map[string]string{"a.txt": "a1\n"})
		f.repo.Unmerged["a.txt"] = true

		_, err := engine.Refresh(f.ctx, f.stack, engine.RefreshOptions{Undo: true})
		require.ErrorIs(t, err, pserrors.ErrConflictsPending)
	})

	t.Run("undoes a lower patch and pushes the rest back", func(t *testing.T) {
		f := newFixture(t)
		f.addPatch("a", map[string]string{"a.txt": "a1\n"})
		f.addPatch("b", map[string]string{"b.txt": "b1\n"})
		f.addPatch("c", map[string]string{"c.txt": "c1\n"})
		oldA := f.stack.Patch("a").Commit

		f.repo.WriteFile("a.txt", "a2\n")
		_, err := engine.Refresh(f.ctx, f.stack, engine.RefreshOptions{Patch: "a"})
		require.NoError(t, err)

		res, err := engine.Refresh(f.ctx, f.stack, engine.RefreshOptions{Patch: "a", Undo: true})
		require.NoError(t, err)
		require.Equal(t, []string{"b", "c"}, res.Popped)
		require.Equal(t, []string{"b", "c"}, res.Pushed)

		require.Equal(t, oldA, f.stack.Patch("a").Commit)
		require.Equal(t, []string{"a", "b", "c"}, names(f.stack.Applied))
		require.Equal(t, "a1\n", f.repo.Files(f.stack.Top())["a.txt"])
		require.Equal(t, "a2\n", f.repo.Worktree["a.txt"])
		require.Equal(t, "b1\n", f.repo.Worktree["b.txt"])
		f.requireHeadTopEqual()
		f.requireParentChain()
	})

	t.Run("keeps the refreshed edits as local changes", func(t *testing.T) {
		f := newFixture(t)
		f.addPatch("a", map[string]string{"a.txt": "a1\n"})
		f.repo.WriteFile("a.txt", "a2 my edit\n")
		_, err := engine.Refresh(f.ctx, f.stack, engine.RefreshOptions{})
		require.NoError(t, err)

		_, err = engine.Refresh(f.ctx, f.stack, engine.RefreshOptions{Undo: true})
		require.NoError(t, err)

		status, err := f.repo.WorkingTreeStatus(f.ctx, false)
		require.NoError(t, err)
		require.Equal(t, []engine.StatusEntry{{Code: engine.StatusModified, Path: "a.txt"}}, status)

		// refreshing again folds the same edit back in
		res, err := engine.Refresh(f.ctx, f.stack, engine.RefreshOptions{})
		require.NoError(t, err)
		require.Equal(t, engine.RefreshDone, res.Status)
		require.Equal(t, "a2 my edit\n", f.repo.Files(f.stack.Top())["a.txt"])
	})

	t.Run("pop and push discard the undo entry", func(t *testing.T) {
		f := newFixture(t)
		f.addPatch("a", map[string]string{"a.txt": "a1\n"})
		f.addPatch("b", map[string]string{"b.txt": "b1\n"})
		require.NotNil(t, f.stack.Undo)

		require.NoError(t, engine.Pop(f.ctx, f.stack, []string{"b"}, true))
		require.Nil(t, f.stack.Undo)
		require.Nil(t, f.reload().Undo)
	})
}
