package git

import (
	"context"
	"fmt"
	"strings"

	"github.com/sourcegraph/go-diff/diff"
)

// PatchText renders the unified diff between two tree-ish ids
func (s *Store) PatchText(ctx context.Context, from, to string) (string, error) {
	out, err := s.runner.RunRaw(ctx, "diff", "--no-color", "--no-ext-diff", "--binary", from, to)
	if err != nil {
		return "", fmt.Errorf("failed to diff %s..%s: %w", shortID(from), shortID(to), err)
	}
	return out, nil
}

// FileStat is the per-file line count of a diff
type FileStat struct {
	Path    string
	Added   int
	Deleted int
}

// DiffStat counts added and deleted lines per file of a unified diff
func DiffStat(patch string) ([]FileStat, error) {
	if strings.TrimSpace(patch) == "" {
		return nil, nil
	}
	files, err := diff.NewMultiFileDiffReader(strings.NewReader(patch)).ReadAllFiles()
	if err != nil {
		return nil, fmt.Errorf("failed to parse diff: %w", err)
	}

	stats := make([]FileStat, 0, len(files))
	for _, fd := range files {
		st := FileStat{Path: diffPath(fd)}
		for _, hunk := range fd.Hunks {
			s := hunk.Stat()
			st.Added += int(s.Added + s.Changed)
			st.Deleted += int(s.Deleted + s.Changed)
		}
		stats = append(stats, st)
	}
	return stats, nil
}

func diffPath(fd *diff.FileDiff) string {
	name := fd.NewName
	if name == "/dev/null" || name == "" {
		name = fd.OrigName
	}
	if strings.HasPrefix(name, "a/") || strings.HasPrefix(name, "b/") {
		name = name[2:]
	}
	return name
}

// FormatDiffStat renders stats the way `git diff --stat` does
func FormatDiffStat(stats []FileStat) string {
	if len(stats) == 0 {
		return ""
	}

	width := 0
	for _, st := range stats {
		width = max(width, len(st.Path))
	}

	var b strings.Builder
	added, deleted := 0, 0
	for _, st := range stats {
		fmt.Fprintf(&b, " %-*s | %d %s%s\n", width, st.Path, st.Added+st.Deleted,
			strings.Repeat("+", min(st.Added, 40)), strings.Repeat("-", min(st.Deleted, 40)))
		added += st.Added
		deleted += st.Deleted
	}

	files := "files"
	if len(stats) == 1 {
		files = "file"
	}
	fmt.Fprintf(&b, " %d %s changed, %d insertion(s)(+), %d deletion(s)(-)\n", len(stats), files, added, deleted)
	return b.String()
}
