package git

import (
	"context"
	"fmt"
	"slices"
	"strconv"
	"strings"

	"pstack.dev/pstack/internal/engine"
)

const zeroOID = "0000000000000000000000000000000000000000"

// ApplyDiff replays the change introduced by commit onto another commit with
// a three-way merge against commit's parent. Nothing in the working tree or
// index is touched.
func (s *Store) ApplyDiff(ctx context.Context, commit, onto string) (*engine.ApplyResult, error) {
	c, err := s.ReadCommit(ctx, commit)
	if err != nil {
		return nil, err
	}
	if c.Parent == "" {
		return nil, fmt.Errorf("cannot replay root commit %s", shortID(commit))
	}

	out, err := s.runner.RunRaw(ctx, "merge-tree", "--write-tree", "-z", "--no-messages",
		"--merge-base="+c.Parent, onto, commit)
	if err != nil {
		// exit status 1 reports conflicts, with the result still on stdout
		if exitCode(err) != 1 {
			return nil, fmt.Errorf("failed to merge %s onto %s: %w", shortID(commit), shortID(onto), err)
		}
		out = commandStdout(err)
	}
	return parseMergeTree(out)
}

// parseMergeTree reads `git merge-tree --write-tree -z` output: the tree id
// followed by one "<mode> <object> <stage>\t<path>" record per conflicted
// stage.
func parseMergeTree(out string) (*engine.ApplyResult, error) {
	records := strings.Split(out, "\x00")
	if len(records) == 0 || records[0] == "" {
		return nil, fmt.Errorf("unexpected merge-tree output %q", out)
	}

	result := &engine.ApplyResult{Tree: strings.TrimSpace(records[0])}
	for _, rec := range records[1:] {
		if rec == "" {
			// an empty record ends the conflicted file section
			break
		}
		meta, path, ok := strings.Cut(rec, "\t")
		if !ok {
			return nil, fmt.Errorf("unexpected merge-tree record %q", rec)
		}
		fields := strings.Fields(meta)
		if len(fields) != 3 {
			return nil, fmt.Errorf("unexpected merge-tree record %q", rec)
		}
		stage, err := strconv.Atoi(fields[2])
		if err != nil {
			return nil, fmt.Errorf("bad stage in merge-tree record %q: %w", rec, err)
		}
		result.Stages = append(result.Stages, engine.IndexStage{
			Mode:   fields[0],
			Object: fields[1],
			Stage:  stage,
			Path:   path,
		})
		if !slices.Contains(result.Conflicts, path) {
			result.Conflicts = append(result.Conflicts, path)
		}
	}
	return result, nil
}

// WriteConflicts moves the working tree from onto to the conflicted merge
// result and records the conflict stages in the index
func (s *Store) WriteConflicts(ctx context.Context, onto string, result *engine.ApplyResult) error {
	s.refreshIndex(ctx)
	if _, err := s.runner.Run(ctx, "read-tree", "-m", "-u", onto, result.Tree); err != nil {
		return fmt.Errorf("failed to check out conflicted tree: %w", err)
	}
	if len(result.Stages) == 0 {
		return nil
	}

	var info strings.Builder
	for _, path := range result.Conflicts {
		fmt.Fprintf(&info, "0 %s\t%s\n", zeroOID, path)
	}
	for _, st := range result.Stages {
		fmt.Fprintf(&info, "%s %s %d\t%s\n", st.Mode, st.Object, st.Stage, st.Path)
	}
	if _, err := s.runner.RunWithInput(ctx, info.String(), "update-index", "--index-info"); err != nil {
		return fmt.Errorf("failed to record conflicts in the index: %w", err)
	}
	return nil
}
