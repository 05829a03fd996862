package engine_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"pstack.dev/pstack/internal/engine"
	pserrors "pstack.dev/pstack/internal/errors"
)

func threePatches(t *testing.T) *fixture {
	t.Helper()
	f := newFixture(t)
	f.addPatch("a", map[string]string{"a.txt": "a1\n"})
	f.addPatch("b", map[string]string{"b.txt": "b1\n"})
	f.addPatch("c", map[string]string{"c.txt": "c1\n"})
	return f
}

func TestPop(t *testing.T) {
	t.Run("moves a suffix to the front of unapplied in stack order", func(t *testing.T) {
		f := threePatches(t)
		require.NoError(t, engine.Pop(f.ctx, f.stack, []string{"c"}, false))
		require.NoError(t, engine.Pop(f.ctx, f.stack, []string{"b", "a"}, false))

		require.Empty(t, f.stack.Applied)
		require.Equal(t, []string{"a", "b", "c"}, names(f.stack.Unapplied))
		require.Equal(t, f.stack.Base, f.repo.Head())
		require.NotContains(t, f.repo.Worktree, "a.txt")
		f.requireHeadTopEqual()

		reloaded := f.reload()
		require.Equal(t, []string{"a", "b", "c"}, names(reloaded.Unapplied))
	})

	t.Run("rejects patches that are not applied", func(t *testing.T) {
		f := threePatches(t)
		require.NoError(t, engine.Pop(f.ctx, f.stack, []string{"c"}, false))
		state := f.repo.State("main")

		err := engine.Pop(f.ctx, f.stack, []string{"c"}, false)
		var notApplied *pserrors.PatchNotAppliedError
		require.True(t, errors.As(err, &notApplied))
		require.Equal(t, []string{"c"}, notApplied.Patches)
		require.Equal(t, state, f.repo.State("main"))
	})

	t.Run("rejects a selection that is not a contiguous suffix", func(t *testing.T) {
		f := threePatches(t)
		state := f.repo.State("main")
		head := f.repo.Head()

		for _, sel := range [][]string{{"a"}, {"a", "c"}, {"b"}, {}} {
			err := engine.Pop(f.ctx, f.stack, sel, false)
			require.ErrorIs(t, err, pserrors.ErrPatchNotApplied, "selection %v", sel)
		}
		require.Equal(t, state, f.repo.State("main"))
		require.Equal(t, head, f.repo.Head())
		require.Equal(t, []string{"a", "b", "c"}, names(f.stack.Applied))
	})

	t.Run("keep preserves local modifications", func(t *testing.T) {
		f := threePatches(t)
		f.repo.WriteFile("a.txt", "local\n")

		require.NoError(t, engine.Pop(f.ctx, f.stack, []string{"b", "c"}, true))
		require.Equal(t, "local\n", f.repo.Worktree["a.txt"])
		require.NotContains(t, f.repo.Worktree, "b.txt")
		require.NotContains(t, f.repo.Worktree, "c.txt")

		status, err := f.repo.WorkingTreeStatus(f.ctx, false)
		require.NoError(t, err)
		require.Equal(t, []engine.StatusEntry{{Code: engine.StatusModified, Path: "a.txt"}}, status)
	})

	t.Run("without keep local modifications are discarded", func(t *testing.T) {
		f := threePatches(t)
		f.repo.WriteFile("a.txt", "local\n")

		require.NoError(t, engine.Pop(f.ctx, f.stack, []string{"c"}, false))
		require.Equal(t, "a1\n", f.repo.Worktree["a.txt"])
	})

	t.Run("refuses to pop over foreign commits", func(t *testing.T) {
		f := threePatches(t)
		f.repo.CommitFiles("foreign", map[string]*string{"x.txt": ptr("x\n")})

		err := engine.Pop(f.ctx, f.stack, []string{"c"}, true)
		require.ErrorIs(t, err, pserrors.ErrHeadTopMismatch)
	})
}

func TestPush(t *testing.T) {
	t.Run("pushes back unchanged patches without new commits", func(t *testing.T) {
		f := threePatches(t)
		oldB := f.stack.Patch("b").Commit
		require.NoError(t, engine.Pop(f.ctx, f.stack, []string{"b", "c"}, false))
		commits := f.repo.CommitsCreated

		res, err := engine.Push(f.ctx, f.stack, []string{"b", "c"})
		require.NoError(t, err)
		require.Equal(t, []string{"b", "c"}, res.Pushed)
		require.Equal(t, commits, f.repo.CommitsCreated)
		require.Equal(t, oldB, f.stack.Patch("b").Commit)
		require.Equal(t, "c1\n", f.repo.Worktree["c.txt"])
		f.requireHeadTopEqual()
		f.requireParentChain()
	})

	t.Run("rebases a patch onto a new parent", func(t *testing.T) {
		f := threePatches(t)
		require.NoError(t, engine.Pop(f.ctx, f.stack, []string{"b", "c"}, false))
		require.NoError(t, engine.Pop(f.ctx, f.stack, []string{"a"}, false))

		res, err := engine.Push(f.ctx, f.stack, []string{"c"})
		require.NoError(t, err)
		require.Equal(t, []string{"c"}, res.Pushed)
		require.Equal(t, []string{"c"}, names(f.stack.Applied))
		require.Equal(t, []string{"a", "b"}, names(f.stack.Unapplied))

		files := f.repo.Files(f.stack.Top())
		require.Equal(t, "c1\n", files["c.txt"])
		require.NotContains(t, files, "a.txt")
		f.requireParentChain()

		log := f.stack.Patch("c").Log
		require.Equal(t, engine.LogPush, log[len(log)-1].Action)
	})

	t.Run("stops at the first conflict", func(t *testing.T) {
		f := threePatches(t)
		require.NoError(t, engine.Pop(f.ctx, f.stack, []string{"a", "b", "c"}, false))
		f.repo.ConflictPaths["b.txt"] = true

		// a goes back on a different parent than before so the pushes apply diffs
		_, err := engine.NewPatch(f.ctx, f.stack, "z", "")
		require.NoError(t, err)
		f.repo.AddFile("z.txt", "z\n")
		_, err = engine.Refresh(f.ctx, f.stack, engine.RefreshOptions{})
		require.NoError(t, err)

		res, err := engine.Push(f.ctx, f.stack, []string{"a", "b", "c"})
		var conflict *pserrors.PushConflictError
		require.True(t, errors.As(err, &conflict))
		require.Equal(t, "b", conflict.Patch)
		require.Equal(t, []string{"a"}, res.Pushed)
		require.Equal(t, "b", res.Conflict)
		require.Equal(t, []string{"b.txt"}, res.Paths)

		require.Equal(t, []string{"z", "a", "b"}, names(f.stack.Applied))
		require.Equal(t, []string{"c"}, names(f.stack.Unapplied))
		require.True(t, f.repo.Unmerged["b.txt"])
		require.Contains(t, f.repo.Worktree["b.txt"], "<<<<<<<")
		f.requireHeadTopEqual()
		f.requireParentChain()
	})

	t.Run("rejects patches that are not unapplied", func(t *testing.T) {
		f := threePatches(t)
		require.NoError(t, engine.Pop(f.ctx, f.stack, []string{"c"}, false))

		_, err := engine.Push(f.ctx, f.stack, []string{"b"})
		require.ErrorIs(t, err, pserrors.ErrPatchNotUnapplied)

		_, err = engine.Push(f.ctx, f.stack, []string{"c", "c"})
		require.ErrorIs(t, err, pserrors.ErrPatchNotUnapplied)
		require.Equal(t, []string{"c"}, names(f.stack.Unapplied))
	})

	t.Run("refuses to push with conflicts pending", func(t *testing.T) {
		f := threePatches(t)
		require.NoError(t, engine.Pop(f.ctx, f.stack, []string{"c"}, false))
		f.repo.Unmerged["a.txt"] = true

		_, err := engine.Push(f.ctx, f.stack, []string{"c"})
		require.ErrorIs(t, err, pserrors.ErrConflictsPending)
	})
}

func TestPatchRanges(t *testing.T) {
	f := threePatches(t)

	t.Run("patches from a name to the top", func(t *testing.T) {
		got, err := f.stack.PatchesFrom("b")
		require.NoError(t, err)
		require.Equal(t, []string{"b", "c"}, got)

		_, err = f.stack.PatchesFrom("zz")
		require.ErrorIs(t, err, pserrors.ErrPatchNotApplied)
	})

	t.Run("unapplied patches up to a name", func(t *testing.T) {
		require.NoError(t, engine.Pop(f.ctx, f.stack, []string{"b", "c"}, false))

		got, err := f.stack.PatchesUpTo("c")
		require.NoError(t, err)
		require.Equal(t, []string{"b", "c"}, got)

		_, err = f.stack.PatchesUpTo("a")
		require.ErrorIs(t, err, pserrors.ErrPatchNotUnapplied)
	})
}
