package engine

import (
	"context"
	"fmt"
	"regexp"

	pserrors "pstack.dev/pstack/internal/errors"
)

var patchNamePattern = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9._-]*$`)

// ValidatePatchName checks that name can be used as a patch name
func ValidatePatchName(name string) error {
	if !patchNamePattern.MatchString(name) {
		return fmt.Errorf("%w: %q", pserrors.ErrInvalidPatchName, name)
	}
	return nil
}

// NewPatch creates an empty patch on top of the stack and makes it current.
// Local modifications are left in the working tree.
func NewPatch(ctx context.Context, s *Stack, name, message string) (*Patch, error) {
	if err := ValidatePatchName(name); err != nil {
		return nil, err
	}
	if s.Patch(name) != nil {
		return nil, &pserrors.PatchExistsError{Patch: name}
	}
	if err := checkMutable(ctx, s); err != nil {
		return nil, err
	}

	top, err := s.repo.ReadCommit(ctx, s.Top())
	if err != nil {
		return nil, err
	}
	who, err := s.repo.Identity(ctx)
	if err != nil {
		return nil, err
	}
	who.When = s.now()
	if message == "" {
		message = name
	}

	id, err := s.repo.CreateCommit(ctx, CommitSpec{
		Parent: top.ID,
		Tree:   top.Tree,
		Metadata: Metadata{
			Author:    who,
			Committer: who,
			Message:   message,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create commit for %s: %w", name, err)
	}

	ctx = detach(ctx)
	p := &Patch{Name: name}
	if err := s.setCommit(ctx, p, id); err != nil {
		return nil, err
	}
	p.Log = []LogEntry{{Time: who.When, Action: LogNew, Commit: id}}

	s.clearUndo()
	s.Applied = append(s.Applied, p)
	if err := s.save(ctx); err != nil {
		return nil, err
	}
	if err := s.moveHead(ctx, id); err != nil {
		return nil, err
	}
	s.log.Info("Now at patch %s", name)
	return p, nil
}
