package integration

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRefresh(t *testing.T) {
	t.Parallel()

	t.Run("folds changes into the top patch", func(t *testing.T) {
		t.Parallel()
		sh := NewTestShell(t)

		sh.Run("new first -m 'First patch'").
			Write("base.txt", "changed\n").
			Run("refresh").
			OutputContains("Refreshed first").
			FileAt("HEAD", "base.txt", "changed\n").
			Commits("First patch", "initial").
			Status().
			Series("> first\n")
	})

	t.Run("refreshes a lower patch and pushes the rest back", func(t *testing.T) {
		t.Parallel()
		sh := NewTestShell(t)

		sh.Patch("a", map[string]string{"a.txt": "a\n"}).
			Patch("b", map[string]string{"b.txt": "b\n"}).
			Write("base.txt", "changed\n").
			Run("refresh --patch a").
			OutputContains("Popping b").
			OutputContains("Refreshed a").
			FileAt("HEAD~1", "base.txt", "changed\n").
			FileAt("HEAD", "b.txt", "b\n").
			Commits("b", "a", "initial").
			Status().
			Series("+ a\n> b\n")
	})

	t.Run("update only takes files the patch already touches", func(t *testing.T) {
		t.Parallel()
		sh := NewTestShell(t)

		sh.Patch("a", map[string]string{"a.txt": "a\n"}).
			Write("a.txt", "a2\n").
			Write("base.txt", "changed\n").
			Run("refresh --update").
			FileAt("HEAD", "a.txt", "a2\n").
			FileAt("HEAD", "base.txt", "base\n").
			Status("M  base.txt")

		sh.Run("refresh --update base.txt").
			OutputContains("a: nothing to update")
	})

	t.Run("explicit paths limit the refresh", func(t *testing.T) {
		t.Parallel()
		sh := NewTestShell(t)

		sh.Run("new a").
			Write("x.txt", "x\n").
			Write("y.txt", "y\n").
			Run("refresh x.txt").
			FileAt("HEAD", "x.txt", "x\n").
			Status("A  y.txt")
	})

	t.Run("message, author and trailers", func(t *testing.T) {
		t.Parallel()
		sh := NewTestShell(t)

		sh.Run("new a").
			Run(`refresh -m "Better message" --author "Jane Doe <jane@example.com>" --sign`).
			Commits("Better message", "initial")

		sh.Git("log -1 --format=%an|%ae|%cn")
		require.Equal(t, "Jane Doe|jane@example.com|Test User", sh.Output())
		sh.Git("log -1 --format=%B")
		require.Contains(t, sh.Output(), "Signed-off-by: Test User <test@example.com>")

		sh.RunExpectError("refresh --sign --ack")
	})

	t.Run("reports an empty patch", func(t *testing.T) {
		t.Parallel()
		sh := NewTestShell(t)

		sh.Run("new a").
			Run("refresh -m 'Nothing yet'").
			OutputContains("(empty patch)")
	})

	t.Run("undo restores the previous version", func(t *testing.T) {
		t.Parallel()
		sh := NewTestShell(t)

		sh.Patch("a", map[string]string{"base.txt": "one\n"}).
			Write("base.txt", "two\n").
			Run("refresh").
			FileAt("HEAD", "base.txt", "two\n").
			Run("refresh --undo").
			OutputContains("Undid the last refresh of a").
			FileAt("HEAD", "base.txt", "one\n").
			Status(" M base.txt").
			Run("log").
			OutputContains("undo")
	})

	t.Run("annotate records a note", func(t *testing.T) {
		t.Parallel()
		sh := NewTestShell(t)

		sh.Patch("a", map[string]string{"a.txt": "a\n"}).
			Run("refresh --annotate 'ready for review'").
			OutputContains("Annotated a").
			Run("log a").
			OutputContains("ready for review")
	})

	t.Run("refuses when HEAD moved outside pstack", func(t *testing.T) {
		t.Parallel()
		sh := NewTestShell(t)

		sh.Patch("a", map[string]string{"a.txt": "a\n"}).
			Git("commit --allow-empty -m outside").
			RunExpectError("refresh").
			OutputContains("--force")
	})

	t.Run("requires an initialized branch", func(t *testing.T) {
		t.Parallel()
		sh := NewTestShell(t)

		sh.Git("checkout -b other").
			RunExpectError("refresh").
			OutputContains("pstack init")
	})
}

func TestStateIsPersisted(t *testing.T) {
	t.Parallel()
	sh := NewTestShell(t)

	sh.Patch("a", map[string]string{"a.txt": "a\n"}).
		Git("for-each-ref --format=%(refname) refs/pstack/")
	require.Equal(t, "refs/pstack/main", sh.Output())
}
