package git

import (
	"context"
	"fmt"
	"os"
)

// WriteTree builds a tree from base with the working-tree content of paths
// laid over it. A path missing from the working tree is removed. The real
// index is left untouched.
func (s *Store) WriteTree(ctx context.Context, base string, paths []string) (string, error) {
	indexFile, cleanup, err := s.tempIndex()
	if err != nil {
		return "", err
	}
	defer cleanup()

	env := []string{"GIT_INDEX_FILE=" + indexFile}
	if _, err := s.runner.RunWithEnv(ctx, env, "read-tree", base); err != nil {
		return "", fmt.Errorf("failed to read tree %s: %w", base, err)
	}
	if len(paths) > 0 {
		args := append([]string{"update-index", "--add", "--remove", "--"}, paths...)
		if _, err := s.runner.RunWithEnv(ctx, env, args...); err != nil {
			return "", fmt.Errorf("failed to update temporary index: %w", err)
		}
	}
	tree, err := s.runner.RunWithEnv(ctx, env, "write-tree")
	if err != nil {
		return "", fmt.Errorf("failed to write tree: %w", err)
	}
	return tree, nil
}

// tempIndex reserves a path for a throwaway index inside the git directory
func (s *Store) tempIndex() (string, func(), error) {
	f, err := os.CreateTemp(s.gitDir, "pstack-index-*")
	if err != nil {
		return "", nil, fmt.Errorf("failed to create temporary index: %w", err)
	}
	name := f.Name()
	_ = f.Close()
	// git refuses an empty file as an index; let it create its own
	if err := os.Remove(name); err != nil {
		return "", nil, fmt.Errorf("failed to create temporary index: %w", err)
	}
	return name, func() { _ = os.Remove(name) }, nil
}

// StagePaths records the working-tree state of paths in the index
func (s *Store) StagePaths(ctx context.Context, paths []string) error {
	if len(paths) == 0 {
		return nil
	}
	args := append([]string{"update-index", "--add", "--remove", "--"}, paths...)
	if _, err := s.runner.Run(ctx, args...); err != nil {
		return fmt.Errorf("failed to stage files: %w", err)
	}
	return nil
}

// ResolveConflicts marks every unmerged path as resolved using its
// working-tree content and returns the paths it resolved
func (s *Store) ResolveConflicts(ctx context.Context) ([]string, error) {
	paths, err := s.unmergedPaths(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.StagePaths(ctx, paths); err != nil {
		return nil, fmt.Errorf("failed to resolve conflicts: %w", err)
	}
	return paths, nil
}
