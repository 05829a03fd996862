package git

import (
	"context"
	"fmt"
	"strings"

	"pstack.dev/pstack/internal/engine"
)

// WorkingTreeStatus reports changed paths relative to HEAD. Untracked files
// are only listed when verbose is set.
func (s *Store) WorkingTreeStatus(ctx context.Context, verbose bool) ([]engine.StatusEntry, error) {
	untracked := "--untracked-files=no"
	if verbose {
		untracked = "--untracked-files=all"
	}
	out, err := s.runner.RunRaw(ctx, "status", "--porcelain=v1", "-z", untracked)
	if err != nil {
		return nil, fmt.Errorf("failed to get status: %w", err)
	}
	return parseStatus(out)
}

// parseStatus parses `git status --porcelain=v1 -z` output. A rename is
// reported as an addition of the new path and a deletion of the old one.
func parseStatus(out string) ([]engine.StatusEntry, error) {
	var entries []engine.StatusEntry
	fields := strings.Split(out, "\x00")
	for i := 0; i < len(fields); i++ {
		field := fields[i]
		if field == "" {
			continue
		}
		if len(field) < 4 || field[2] != ' ' {
			return nil, fmt.Errorf("unexpected status entry %q", field)
		}
		x, y, path := field[0], field[1], field[3:]

		switch {
		case x == '!':
			continue
		case x == '?':
			entries = append(entries, engine.StatusEntry{Code: engine.StatusUntracked, Path: path})
		case isUnmerged(x, y):
			entries = append(entries, engine.StatusEntry{Code: engine.StatusUnmerged, Path: path})
		case x == 'R' || x == 'C':
			// the source path follows as its own field
			i++
			if i >= len(fields) {
				return nil, fmt.Errorf("missing source path for %q", path)
			}
			entries = append(entries, engine.StatusEntry{Code: engine.StatusAdded, Path: path})
			if x == 'R' {
				entries = append(entries, engine.StatusEntry{Code: engine.StatusDeleted, Path: fields[i]})
			}
		case x == 'D' || y == 'D':
			entries = append(entries, engine.StatusEntry{Code: engine.StatusDeleted, Path: path})
		case x == 'A':
			entries = append(entries, engine.StatusEntry{Code: engine.StatusAdded, Path: path})
		default:
			entries = append(entries, engine.StatusEntry{Code: engine.StatusModified, Path: path})
		}
	}
	return entries, nil
}

func isUnmerged(x, y byte) bool {
	return x == 'U' || y == 'U' || (x == 'A' && y == 'A') || (x == 'D' && y == 'D')
}

// unmergedPaths lists the paths with conflict stages in the index
func (s *Store) unmergedPaths(ctx context.Context) ([]string, error) {
	status, err := s.WorkingTreeStatus(ctx, false)
	if err != nil {
		return nil, err
	}
	var paths []string
	for _, e := range status {
		if e.Code == engine.StatusUnmerged {
			paths = append(paths, e.Path)
		}
	}
	return paths, nil
}
