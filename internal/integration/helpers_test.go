package integration

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"pstack.dev/pstack/internal/engine"
	"pstack.dev/pstack/internal/git"
	"pstack.dev/pstack/testhelpers"
)

type fixture struct {
	t     *testing.T
	ctx   context.Context
	scene *testhelpers.Scene
	store *git.Store
	stack *engine.Stack
}

// newFixture initializes a stack on a repository holding base.txt
func newFixture(t *testing.T) *fixture {
	t.Helper()
	scene := testhelpers.NewScene(t, testhelpers.BasicSceneSetup)
	ctx := context.Background()

	store, err := git.Open(ctx, scene.Dir)
	require.NoError(t, err)
	stack, err := engine.Initialize(ctx, store, engine.Options{})
	require.NoError(t, err)

	return &fixture{t: t, ctx: ctx, scene: scene, store: store, stack: stack}
}

// reload reads the persisted stack back, as a new invocation would
func (f *fixture) reload(opts engine.Options) *engine.Stack {
	f.t.Helper()
	stack, err := engine.Load(f.ctx, f.store, opts)
	require.NoError(f.t, err)
	f.stack = stack
	return stack
}

// write changes a file in the working tree and adds it to the index
func (f *fixture) write(path, content string) {
	f.t.Helper()
	require.NoError(f.t, f.scene.Repo.WriteFile(path, content))
	require.NoError(f.t, f.scene.Repo.RunGitCommand("add", path))
}

// patch creates a patch named name holding files
func (f *fixture) patch(name string, files map[string]string) {
	f.t.Helper()
	_, err := engine.NewPatch(f.ctx, f.stack, name, name)
	require.NoError(f.t, err)
	for path, content := range files {
		f.write(path, content)
	}
	_, err = engine.Refresh(f.ctx, f.stack, engine.RefreshOptions{})
	require.NoError(f.t, err)
}

func (f *fixture) head() string {
	f.t.Helper()
	return testhelpers.Must(f.scene.Repo.GetCurrentSHA())
}

func (f *fixture) state() []byte {
	f.t.Helper()
	data, _, err := f.store.ReadState(f.ctx, f.stack.Branch)
	require.NoError(f.t, err)
	return data
}
