package git

import (
	"context"
	"fmt"
	"path/filepath"

	gogit "github.com/go-git/go-git/v5"

	"pstack.dev/pstack/internal/engine"
)

// Store implements engine.Repository for a git working copy
type Store struct {
	repo   *gogit.Repository
	runner *CommandRunner
	root   string
	gitDir string
}

var _ engine.Repository = (*Store)(nil)

// Open opens the repository containing path
func Open(ctx context.Context, path string) (*Store, error) {
	// Resolve to absolute path
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve path: %w", err)
	}

	repo, err := gogit.PlainOpenWithOptions(absPath, &gogit.PlainOpenOptions{
		DetectDotGit: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open repository: %w", err)
	}

	runner := NewCommandRunner(absPath)
	if err := checkVersion(ctx, runner); err != nil {
		return nil, err
	}
	root, err := runner.Run(ctx, "rev-parse", "--show-toplevel")
	if err != nil {
		return nil, fmt.Errorf("not inside a git working tree: %w", err)
	}
	gitDir, err := runner.Run(ctx, "rev-parse", "--absolute-git-dir")
	if err != nil {
		return nil, fmt.Errorf("failed to locate git directory: %w", err)
	}

	return &Store{
		repo:   repo,
		runner: NewCommandRunner(root),
		root:   root,
		gitDir: gitDir,
	}, nil
}

// Root returns the top-level directory of the working tree
func (s *Store) Root() string {
	return s.root
}

// GitDir returns the absolute path of the .git directory
func (s *Store) GitDir() string {
	return s.gitDir
}

// Runner returns the command runner bound to the working tree
func (s *Store) Runner() *CommandRunner {
	return s.runner
}
