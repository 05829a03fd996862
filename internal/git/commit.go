package git

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"

	"pstack.dev/pstack/internal/engine"
)

// ReadCommit loads a commit object
func (s *Store) ReadCommit(_ context.Context, id string) (*engine.Commit, error) {
	c, err := s.repo.CommitObject(plumbing.NewHash(id))
	if err != nil {
		return nil, fmt.Errorf("failed to read commit %s: %w", id, err)
	}

	commit := &engine.Commit{
		ID:   c.Hash.String(),
		Tree: c.TreeHash.String(),
		Metadata: engine.Metadata{
			Author:    fromSignature(c.Author),
			Committer: fromSignature(c.Committer),
			Message:   c.Message,
		},
	}
	if len(c.ParentHashes) > 0 {
		commit.Parent = c.ParentHashes[0].String()
	}
	return commit, nil
}

// CreateCommit writes a commit object. It does not move any ref.
func (s *Store) CreateCommit(_ context.Context, spec engine.CommitSpec) (string, error) {
	message := spec.Message
	if !strings.HasSuffix(message, "\n") {
		message += "\n"
	}

	c := &object.Commit{
		Author:    toSignature(spec.Author),
		Committer: toSignature(spec.Committer),
		Message:   message,
		TreeHash:  plumbing.NewHash(spec.Tree),
	}
	if spec.Parent != "" {
		c.ParentHashes = []plumbing.Hash{plumbing.NewHash(spec.Parent)}
	}

	obj := s.repo.Storer.NewEncodedObject()
	if err := c.Encode(obj); err != nil {
		return "", fmt.Errorf("failed to encode commit: %w", err)
	}
	hash, err := s.repo.Storer.SetEncodedObject(obj)
	if err != nil {
		return "", fmt.Errorf("failed to store commit: %w", err)
	}
	return hash.String(), nil
}

// DiffTree lists the paths that differ between two commits
func (s *Store) DiffTree(_ context.Context, from, to string) ([]string, error) {
	a, err := s.commitTree(from)
	if err != nil {
		return nil, err
	}
	b, err := s.commitTree(to)
	if err != nil {
		return nil, err
	}

	changes, err := object.DiffTree(a, b)
	if err != nil {
		return nil, fmt.Errorf("failed to diff %s..%s: %w", from, to, err)
	}

	var paths []string
	for _, ch := range changes {
		if ch.From.Name != "" {
			paths = append(paths, ch.From.Name)
		}
		if ch.To.Name != "" {
			paths = append(paths, ch.To.Name)
		}
	}
	slices.Sort(paths)
	return slices.Compact(paths), nil
}

func (s *Store) commitTree(id string) (*object.Tree, error) {
	c, err := s.repo.CommitObject(plumbing.NewHash(id))
	if err != nil {
		return nil, fmt.Errorf("failed to read commit %s: %w", id, err)
	}
	tree, err := c.Tree()
	if err != nil {
		return nil, fmt.Errorf("failed to read tree of %s: %w", id, err)
	}
	return tree, nil
}

func fromSignature(sig object.Signature) engine.Signature {
	return engine.Signature{Name: sig.Name, Email: sig.Email, When: sig.When}
}

func toSignature(sig engine.Signature) object.Signature {
	return object.Signature{Name: sig.Name, Email: sig.Email, When: sig.When}
}
