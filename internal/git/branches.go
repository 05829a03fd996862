package git

import (
	"context"
	"fmt"

	"github.com/go-git/go-git/v5/plumbing"

	"pstack.dev/pstack/internal/engine"
	pserrors "pstack.dev/pstack/internal/errors"
)

// ReadRef resolves a ref or revision to a commit id
func (s *Store) ReadRef(_ context.Context, name string) (string, error) {
	if name == engine.HeadRef {
		ref, err := s.repo.Head()
		if err != nil {
			return "", fmt.Errorf("failed to resolve HEAD: %w", err)
		}
		return ref.Hash().String(), nil
	}

	hash, err := s.repo.ResolveRevision(plumbing.Revision(name))
	if err != nil {
		return "", fmt.Errorf("failed to resolve %s: %w", name, err)
	}
	return hash.String(), nil
}

// WriteRef points a ref at a commit. Writing HEAD moves the checked-out
// branch and leaves the index and working tree alone.
func (s *Store) WriteRef(ctx context.Context, name, id string) error {
	if _, err := s.runner.Run(ctx, "update-ref", "-m", "pstack", name, id); err != nil {
		return fmt.Errorf("failed to update %s: %w", name, err)
	}
	return nil
}

// CurrentBranch returns the checked-out branch name
func (s *Store) CurrentBranch(_ context.Context) (string, error) {
	ref, err := s.repo.Reference(plumbing.HEAD, false)
	if err != nil {
		return "", fmt.Errorf("failed to read HEAD: %w", err)
	}
	if ref.Type() != plumbing.SymbolicReference || !ref.Target().IsBranch() {
		return "", pserrors.ErrNotOnBranch
	}
	return ref.Target().Short(), nil
}
