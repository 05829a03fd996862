package runtime

import (
	"context"
	"fmt"
	"os"
	"time"

	"pstack.dev/pstack/internal/config"
	"pstack.dev/pstack/internal/engine"
	"pstack.dev/pstack/internal/git"
	"pstack.dev/pstack/internal/output"
	"pstack.dev/pstack/internal/tui"
)

// AutoResolveGitConfig is the git config key that turns on conflict auto-resolution
const AutoResolveGitConfig = "pstack.autoresolved"

// Context provides access to the repository and output for commands
type Context struct {
	context.Context
	Store      *git.Store
	Splog      *output.Splog
	RepoRoot   string
	RepoConfig *config.RepoConfig
	UserConfig *config.UserConfig
	// Now is the clock used for commit and log timestamps
	Now func() time.Time
}

// NewContext creates a context around an opened store
func NewContext(ctx context.Context, store *git.Store, splog *output.Splog) (*Context, error) {
	repoConfig, err := config.GetRepoConfig(store.GitDir())
	if err != nil {
		return nil, err
	}
	userConfig, err := config.LoadUserConfig()
	if err != nil {
		return nil, err
	}
	return &Context{
		Context:    ctx,
		Store:      store,
		Splog:      splog,
		RepoRoot:   store.Root(),
		RepoConfig: repoConfig,
		UserConfig: userConfig,
		Now:        time.Now,
	}, nil
}

// GetContext opens the repository containing the working directory
func GetContext(ctx context.Context, splog *output.Splog) (*Context, error) {
	wd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("failed to get working directory: %w", err)
	}
	store, err := git.Open(ctx, wd)
	if err != nil {
		return nil, fmt.Errorf("not a git repository: %w", err)
	}
	return NewContext(ctx, store, splog)
}

// AutoResolve reports whether pending conflicts are resolved automatically.
// The git config key overrides the repository config when set.
func (c *Context) AutoResolve() (bool, error) {
	return c.Store.GetConfigBool(c, AutoResolveGitConfig, c.RepoConfig.GetAutoResolve())
}

// EngineOptions returns the options every stack is loaded with
func (c *Context) EngineOptions() (engine.Options, error) {
	autoResolve, err := c.AutoResolve()
	if err != nil {
		return engine.Options{}, err
	}
	return engine.Options{
		AutoResolve: autoResolve,
		Logger:      c.Splog,
		Now:         c.Now,
	}, nil
}

// LoadStack loads the stack of the current branch
func (c *Context) LoadStack() (*engine.Stack, error) {
	opts, err := c.EngineOptions()
	if err != nil {
		return nil, err
	}
	return engine.Load(c, c.Store, opts)
}

// Editor returns the message editor configured for this repository
func (c *Context) Editor() *tui.Editor {
	return &tui.Editor{
		Command:     c.UserConfig.Editor,
		Interactive: tui.IsInteractive(),
		Runner:      c.Store.Runner(),
	}
}

// SignOffIdentity returns the configured trailer identity; the repository
// setting wins over the user setting
func (c *Context) SignOffIdentity() string {
	if id := c.RepoConfig.GetSignOffIdentity(); id != "" {
		return id
	}
	return c.UserConfig.SignOff
}
