package git

import (
	"context"
	"fmt"
)

// Checkout moves the index and working tree from one commit to the other.
// With keep, local changes are carried over and git refuses the switch when
// one of them touches a path that differs between the commits. HEAD is not
// moved.
func (s *Store) Checkout(ctx context.Context, from, to string, keep bool) error {
	var err error
	if keep {
		s.refreshIndex(ctx)
		_, err = s.runner.Run(ctx, "read-tree", "-m", "-u", from, to)
	} else {
		_, err = s.runner.Run(ctx, "read-tree", "--reset", "-u", to)
	}
	if err != nil {
		return fmt.Errorf("failed to check out %s: %w", shortID(to), err)
	}
	return nil
}

// ResetIndex reads to's tree into the index without updating the working
// tree, like `git reset --mixed` minus the HEAD move
func (s *Store) ResetIndex(ctx context.Context, to string) error {
	if _, err := s.runner.Run(ctx, "read-tree", to); err != nil {
		return fmt.Errorf("failed to reset index to %s: %w", shortID(to), err)
	}
	s.refreshIndex(ctx)
	return nil
}

// refreshIndex updates cached stat data so read-tree compares content
// rather than timestamps. Modified files make it exit non-zero, which is
// expected.
func (s *Store) refreshIndex(ctx context.Context) {
	_, _ = s.runner.Run(ctx, "update-index", "-q", "--refresh")
}

func shortID(id string) string {
	if len(id) > 7 {
		return id[:7]
	}
	return id
}
