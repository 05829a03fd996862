package engine_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"pstack.dev/pstack/internal/engine"
	"pstack.dev/pstack/testhelpers/memstore"
)

var fixedNow = time.Date(2025, 3, 14, 9, 26, 53, 0, time.UTC)

type fixture struct {
	t     *testing.T
	ctx   context.Context
	repo  *memstore.Store
	stack *engine.Stack
	opts  engine.Options
}

// newFixture creates an initialized stack over a base commit holding base.txt
func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		t:    t,
		ctx:  context.Background(),
		repo: memstore.New(map[string]string{"base.txt": "base\n"}),
		opts: engine.Options{Now: func() time.Time { return fixedNow }},
	}
	s, err := engine.Initialize(f.ctx, f.repo, f.opts)
	require.NoError(t, err)
	f.stack = s
	return f
}

// addPatch creates a patch whose commit writes files
func (f *fixture) addPatch(name string, files map[string]string) *engine.Patch {
	f.t.Helper()
	p, err := engine.NewPatch(f.ctx, f.stack, name, name+" message")
	require.NoError(f.t, err)
	if len(files) == 0 {
		return p
	}
	for path, content := range files {
		f.repo.AddFile(path, content)
	}
	_, err = engine.Refresh(f.ctx, f.stack, engine.RefreshOptions{})
	require.NoError(f.t, err)
	return p
}

// reload reads the stack back from the store
func (f *fixture) reload() *engine.Stack {
	f.t.Helper()
	s, err := engine.Load(f.ctx, f.repo, f.opts)
	require.NoError(f.t, err)
	return s
}

func (f *fixture) commitOf(name string) *engine.Commit {
	f.t.Helper()
	p := f.stack.Patch(name)
	require.NotNil(f.t, p, "patch %s", name)
	c, err := f.repo.ReadCommit(f.ctx, p.Commit)
	require.NoError(f.t, err)
	return c
}

func (f *fixture) requireHeadTopEqual() {
	f.t.Helper()
	equal, err := f.stack.HeadTopEqual(f.ctx)
	require.NoError(f.t, err)
	require.True(f.t, equal, "HEAD should match the top patch")
}

// requireParentChain checks that every applied patch sits on the one below it
func (f *fixture) requireParentChain() {
	f.t.Helper()
	parent := f.stack.Base
	for _, p := range f.stack.Applied {
		c, err := f.repo.ReadCommit(f.ctx, p.Commit)
		require.NoError(f.t, err)
		require.Equal(f.t, parent, c.Parent, "parent of %s", p.Name)
		parent = p.Commit
	}
}

func names(patches []*engine.Patch) []string {
	out := make([]string, 0, len(patches))
	for _, p := range patches {
		out = append(out, p.Name)
	}
	return out
}

func ptr(s string) *string {
	return &s
}
