package engine

import (
	"context"
	"fmt"

	pserrors "pstack.dev/pstack/internal/errors"
)

// ConflictTracker gates stack mutations on the absence of unmerged paths
type ConflictTracker struct {
	repo        SnapshotStore
	autoResolve bool
	log         Logger
}

// NewConflictTracker creates a tracker over repo. With autoResolve, unmerged
// paths are staged as resolved by AutoResolveConflicts instead of blocking.
func NewConflictTracker(repo SnapshotStore, autoResolve bool, log Logger) *ConflictTracker {
	if log == nil {
		log = nopLogger{}
	}
	return &ConflictTracker{repo: repo, autoResolve: autoResolve, log: log}
}

// AutoResolve reports whether auto-resolve mode is active
func (c *ConflictTracker) AutoResolve() bool {
	return c.autoResolve
}

// UnresolvedPaths returns the unmerged paths in the working tree
func (c *ConflictTracker) UnresolvedPaths(ctx context.Context) ([]string, error) {
	status, err := c.repo.WorkingTreeStatus(ctx, false)
	if err != nil {
		return nil, fmt.Errorf("failed to read working tree status: %w", err)
	}
	var paths []string
	for _, e := range status {
		if e.Code == StatusUnmerged {
			paths = append(paths, e.Path)
		}
	}
	return paths, nil
}

// HasUnresolvedConflicts reports whether any path is still unmerged
func (c *ConflictTracker) HasUnresolvedConflicts(ctx context.Context) (bool, error) {
	paths, err := c.UnresolvedPaths(ctx)
	if err != nil {
		return false, err
	}
	return len(paths) > 0, nil
}

// AutoResolveConflicts stages every unmerged path as resolved. It is a no-op
// unless auto-resolve mode is active and returns the paths it resolved.
func (c *ConflictTracker) AutoResolveConflicts(ctx context.Context) ([]string, error) {
	if !c.autoResolve {
		return nil, nil
	}
	paths, err := c.UnresolvedPaths(ctx)
	if err != nil || len(paths) == 0 {
		return nil, err
	}
	c.log.Info("Auto-resolving conflicts in %d file(s)", len(paths))
	resolved, err := c.repo.ResolveConflicts(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to auto-resolve conflicts: %w", err)
	}
	for _, p := range resolved {
		c.log.Debug("resolved %s", p)
	}
	return resolved, nil
}

// Check fails with ConflictsPendingError when unmerged paths remain.
// In auto-resolve mode it always passes.
func (c *ConflictTracker) Check(ctx context.Context) error {
	if c.autoResolve {
		return nil
	}
	paths, err := c.UnresolvedPaths(ctx)
	if err != nil {
		return err
	}
	if len(paths) > 0 {
		return &pserrors.ConflictsPendingError{Paths: paths}
	}
	return nil
}
