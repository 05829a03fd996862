package actions_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"pstack.dev/pstack/internal/actions"
	"pstack.dev/pstack/internal/config"
	pserrors "pstack.dev/pstack/internal/errors"
	"pstack.dev/pstack/testhelpers"
)

func TestRefreshAction(t *testing.T) {
	t.Run("folds working tree changes into the top patch", func(t *testing.T) {
		env := newTestEnv(t)
		env.newPatch(t, "a", "add change")
		require.NoError(t, env.Scene.Repo.WriteFile("base.txt", "changed\n"))

		require.NoError(t, actions.RefreshAction(env.Ctx, actions.RefreshOptions{}))

		testhelpers.ExpectFileAt(t, env.Scene.Repo, "HEAD", "base.txt", "changed\n")
		testhelpers.ExpectCommits(t, env.Scene.Repo, []string{"add change", "initial"})
		testhelpers.ExpectStatus(t, env.Scene.Repo)
		require.Contains(t, env.Out.String(), "Refreshed a")
	})

	t.Run("refreshes a patch below the top", func(t *testing.T) {
		env := newTestEnv(t)
		env.patch(t, "a", map[string]string{"a.txt": "a\n"})
		env.patch(t, "b", map[string]string{"b.txt": "b\n"})
		require.NoError(t, env.Scene.Repo.WriteFile("base.txt", "changed\n"))

		require.NoError(t, actions.RefreshAction(env.Ctx, actions.RefreshOptions{Patch: "a"}))

		testhelpers.ExpectFileAt(t, env.Scene.Repo, "HEAD~1", "base.txt", "changed\n")
		testhelpers.ExpectFileAt(t, env.Scene.Repo, "HEAD", "b.txt", "b\n")
		testhelpers.ExpectCommits(t, env.Scene.Repo, []string{"b", "a", "initial"})
		testhelpers.ExpectStatus(t, env.Scene.Repo)
		require.Equal(t, "+ a\n> b\n", env.series(t))
	})

	t.Run("overrides the author", func(t *testing.T) {
		env := newTestEnv(t)
		env.newPatch(t, "a", "a")
		require.NoError(t, env.Scene.Repo.WriteFile("base.txt", "changed\n"))

		require.NoError(t, actions.RefreshAction(env.Ctx, actions.RefreshOptions{
			Author:    "Jane Doe <jane@example.com>",
			AuthEmail: "jd@example.com",
			AuthDate:  "@1700000000 +0100",
		}))

		out, err := env.Scene.Repo.RunGitCommandAndGetOutput("log", "-1", "--format=%an <%ae> %at %ad", "--date=format:%z")
		require.NoError(t, err)
		require.Equal(t, "Jane Doe <jd@example.com> 1700000000 +0100", strings.TrimSpace(out))
	})

	t.Run("overrides the committer", func(t *testing.T) {
		env := newTestEnv(t)
		env.newPatch(t, "a", "a")
		require.NoError(t, env.Scene.Repo.WriteFile("base.txt", "changed\n"))

		require.NoError(t, actions.RefreshAction(env.Ctx, actions.RefreshOptions{
			CommName:  "Build Bot",
			CommEmail: "bot@example.com",
		}))

		out, err := env.Scene.Repo.RunGitCommandAndGetOutput("log", "-1", "--format=%cn <%ce> %an")
		require.NoError(t, err)
		require.Equal(t, "Build Bot <bot@example.com> Test User", strings.TrimSpace(out))
	})

	t.Run("rejects a malformed author before touching anything", func(t *testing.T) {
		env := newTestEnv(t)
		env.newPatch(t, "a", "a")
		require.NoError(t, env.Scene.Repo.WriteFile("base.txt", "changed\n"))
		before := testhelpers.Must(env.Scene.Repo.GetCurrentSHA())

		err := actions.RefreshAction(env.Ctx, actions.RefreshOptions{Author: "nobody"})
		require.Error(t, err)
		require.Contains(t, err.Error(), "--author")
		require.Equal(t, before, testhelpers.Must(env.Scene.Repo.GetCurrentSHA()))
		testhelpers.ExpectStatus(t, env.Scene.Repo, " M base.txt")
	})

	t.Run("signs off with the configured identity", func(t *testing.T) {
		env := newTestEnv(t)
		env.newPatch(t, "a", "a")
		require.NoError(t, config.SetSignOffIdentity(env.Ctx.Store.GitDir(), "Release Bot <bot@example.com>"))
		repoConfig, err := config.GetRepoConfig(env.Ctx.Store.GitDir())
		require.NoError(t, err)
		env.Ctx.RepoConfig = repoConfig

		require.NoError(t, actions.RefreshAction(env.Ctx, actions.RefreshOptions{SignOff: true}))

		body, err := env.Scene.Repo.RunGitCommandAndGetOutput("log", "-1", "--format=%B")
		require.NoError(t, err)
		require.Contains(t, body, "Signed-off-by: Release Bot <bot@example.com>")
	})

	t.Run("acks with the git identity", func(t *testing.T) {
		env := newTestEnv(t)
		env.newPatch(t, "a", "a")

		require.NoError(t, actions.RefreshAction(env.Ctx, actions.RefreshOptions{Ack: true}))

		body, err := env.Scene.Repo.RunGitCommandAndGetOutput("log", "-1", "--format=%B")
		require.NoError(t, err)
		require.Contains(t, body, "Acked-by: Test User <test@example.com>")
	})

	t.Run("sign and ack together are rejected", func(t *testing.T) {
		env := newTestEnv(t)
		env.newPatch(t, "a", "a")

		err := actions.RefreshAction(env.Ctx, actions.RefreshOptions{SignOff: true, Ack: true})
		require.ErrorIs(t, err, pserrors.ErrConflictingSignOptions)
	})

	t.Run("edits the message in the configured editor", func(t *testing.T) {
		env := newTestEnv(t)
		env.newPatch(t, "a", "original")
		require.NoError(t, env.Scene.Repo.WriteFile("base.txt", "changed\n"))
		t.Setenv("GIT_EDITOR", `sh -c 'printf "edited message\n" > "$1"' sh`)

		require.NoError(t, actions.RefreshAction(env.Ctx, actions.RefreshOptions{Edit: true}))

		testhelpers.ExpectCommits(t, env.Scene.Repo, []string{"edited message", "initial"})
	})

	t.Run("undo restores the previous version", func(t *testing.T) {
		env := newTestEnv(t)
		env.patch(t, "a", map[string]string{"base.txt": "one\n"})
		require.NoError(t, env.Scene.Repo.WriteFile("base.txt", "two\n"))
		require.NoError(t, actions.RefreshAction(env.Ctx, actions.RefreshOptions{}))
		testhelpers.ExpectFileAt(t, env.Scene.Repo, "HEAD", "base.txt", "two\n")

		env.Out.Reset()
		require.NoError(t, actions.RefreshAction(env.Ctx, actions.RefreshOptions{Undo: true}))

		testhelpers.ExpectFileAt(t, env.Scene.Repo, "HEAD", "base.txt", "one\n")
		testhelpers.ExpectWorkingFile(t, env.Scene.Repo, "base.txt", "two\n")
		testhelpers.ExpectStatus(t, env.Scene.Repo, " M base.txt")
		require.Contains(t, env.Out.String(), "Undid the last refresh of a")
	})

	t.Run("annotates without a new commit", func(t *testing.T) {
		env := newTestEnv(t)
		env.patch(t, "a", map[string]string{"a.txt": "a\n"})
		before := testhelpers.Must(env.Scene.Repo.GetCurrentSHA())

		require.NoError(t, actions.RefreshAction(env.Ctx, actions.RefreshOptions{Annotate: "reviewed"}))

		require.Equal(t, before, testhelpers.Must(env.Scene.Repo.GetCurrentSHA()))
		require.Contains(t, env.Out.String(), "Annotated a")
	})

	t.Run("refuses when HEAD moved outside the stack", func(t *testing.T) {
		env := newTestEnv(t)
		env.patch(t, "a", map[string]string{"a.txt": "a\n"})
		require.NoError(t, env.Scene.Repo.CreateChangeAndCommit("outside", map[string]string{"x.txt": "x\n"}))
		require.NoError(t, env.Scene.Repo.WriteFile("a.txt", "changed\n"))

		err := actions.RefreshAction(env.Ctx, actions.RefreshOptions{})
		require.ErrorIs(t, err, pserrors.ErrHeadTopMismatch)
	})

	t.Run("fails without an applied patch", func(t *testing.T) {
		env := newTestEnv(t)

		err := actions.RefreshAction(env.Ctx, actions.RefreshOptions{})
		require.ErrorIs(t, err, pserrors.ErrNoSuchAppliedPatch)
	})
}
