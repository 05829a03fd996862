package git

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"

	pserrors "pstack.dev/pstack/internal/errors"
)

// StateRefPrefix is where stack state blobs are referenced, one ref per branch
const StateRefPrefix = "refs/pstack/"

func stateRef(branch string) plumbing.ReferenceName {
	return plumbing.ReferenceName(StateRefPrefix + branch)
}

// ReadState returns the state blob for branch and its object id, which
// serves as the version. Absent state yields nil data.
func (s *Store) ReadState(_ context.Context, branch string) ([]byte, string, error) {
	ref, err := s.repo.Reference(stateRef(branch), true)
	if err != nil {
		if errors.Is(err, plumbing.ErrReferenceNotFound) {
			return nil, "", nil
		}
		return nil, "", fmt.Errorf("failed to read state ref for %s: %w", branch, err)
	}

	blob, err := s.repo.BlobObject(ref.Hash())
	if err != nil {
		return nil, "", fmt.Errorf("failed to read state blob for %s: %w", branch, err)
	}
	data, err := readBlob(blob)
	if err != nil {
		return nil, "", fmt.Errorf("failed to read state blob for %s: %w", branch, err)
	}
	return data, ref.Hash().String(), nil
}

func readBlob(blob *object.Blob) ([]byte, error) {
	reader, err := blob.Reader()
	if err != nil {
		return nil, err
	}
	defer reader.Close()
	return io.ReadAll(reader)
}

// WriteState stores data as a new blob and swings the state ref to it,
// provided the ref still points at expected. An empty expected version
// requires that no state exists yet.
func (s *Store) WriteState(ctx context.Context, branch string, data []byte, expected string) (string, error) {
	sha, err := s.runner.RunWithInput(ctx, string(data), "hash-object", "-w", "--stdin")
	if err != nil {
		return "", fmt.Errorf("failed to create state blob: %w", err)
	}

	refName := stateRef(branch).String()
	if _, err := s.runner.Run(ctx, "update-ref", "-m", "pstack: update state", refName, sha, expected); err != nil {
		_, current, readErr := s.ReadState(ctx, branch)
		if readErr == nil && current != expected {
			return "", fmt.Errorf("%w: branch %s", pserrors.ErrStaleState, branch)
		}
		return "", fmt.Errorf("failed to write state ref: %w", err)
	}
	return sha, nil
}
