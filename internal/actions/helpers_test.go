package actions_test

import (
	"bytes"
	"context"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/stretchr/testify/require"

	"pstack.dev/pstack/internal/actions"
	"pstack.dev/pstack/internal/config"
	"pstack.dev/pstack/internal/git"
	"pstack.dev/pstack/internal/output"
	"pstack.dev/pstack/internal/runtime"
	"pstack.dev/pstack/internal/tui"
	"pstack.dev/pstack/testhelpers"
)

type testEnv struct {
	Scene *testhelpers.Scene
	Ctx   *runtime.Context
	Out   *bytes.Buffer
	Err   *bytes.Buffer
}

// newTestEnv returns an initialized stack on a repository holding base.txt
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	scene := testhelpers.NewScene(t, testhelpers.BasicSceneSetup)
	t.Setenv(config.UserConfigPathEnv, scene.Repo.UserConfigPath)
	t.Setenv(tui.NonInteractiveEnv, "1")
	t.Setenv("GIT_CONFIG_GLOBAL", "/dev/null")
	t.Setenv("GIT_CONFIG_NOSYSTEM", "1")

	store, err := git.Open(context.Background(), scene.Dir)
	require.NoError(t, err)

	var out, errOut bytes.Buffer
	splog, err := output.NewSplogWithOptions(output.SplogOptions{Out: &out, Err: &errOut})
	require.NoError(t, err)

	ctx, err := runtime.NewContext(context.Background(), store, splog)
	require.NoError(t, err)

	env := &testEnv{Scene: scene, Ctx: ctx, Out: &out, Err: &errOut}
	require.NoError(t, actions.InitAction(ctx))
	out.Reset()
	return env
}

func (e *testEnv) newPatch(t *testing.T, name, message string) {
	t.Helper()
	require.NoError(t, actions.NewAction(e.Ctx, actions.NewOptions{Name: name, Message: message}))
}

// patch creates a patch holding files, refreshed from the working tree
func (e *testEnv) patch(t *testing.T, name string, files map[string]string) {
	t.Helper()
	e.newPatch(t, name, name)
	for path, content := range files {
		require.NoError(t, e.Scene.Repo.WriteFile(path, content))
		require.NoError(t, e.Scene.Repo.RunGitCommand("add", path))
	}
	require.NoError(t, actions.RefreshAction(e.Ctx, actions.RefreshOptions{}))
}

func (e *testEnv) series(t *testing.T) string {
	t.Helper()
	e.Out.Reset()
	require.NoError(t, actions.SeriesAction(e.Ctx, actions.SeriesOptions{}))
	return e.Out.String()
}

func init() {
	lipgloss.SetColorProfile(termenv.Ascii)
}
