package engine

import (
	"context"
)

// HeadRef names the checked-out head in ReadRef/WriteRef
const HeadRef = "HEAD"

// SnapshotStore is the versioned snapshot store the stack is layered on.
// It is implemented by git.Store for real repositories.
type SnapshotStore interface {
	// Commit objects
	ReadCommit(ctx context.Context, id string) (*Commit, error)
	CreateCommit(ctx context.Context, spec CommitSpec) (string, error)
	DiffTree(ctx context.Context, from, to string) ([]string, error)
	PatchText(ctx context.Context, from, to string) (string, error)

	// Working tree
	WorkingTreeStatus(ctx context.Context, verbose bool) ([]StatusEntry, error)
	WriteTree(ctx context.Context, base string, paths []string) (string, error)
	StagePaths(ctx context.Context, paths []string) error
	ResolveConflicts(ctx context.Context) ([]string, error)

	// Checkout moves the index and working tree from one commit to another.
	// With keep, local modifications survive; it fails without touching
	// anything if a modified path differs between the two commits.
	Checkout(ctx context.Context, from, to string, keep bool) error
	// ResetIndex loads commit's tree into the index and leaves the working
	// tree alone, so its differences show up as local modifications
	ResetIndex(ctx context.Context, commit string) error

	// ApplyDiff replays the change commit introduces onto another commit
	ApplyDiff(ctx context.Context, commit, onto string) (*ApplyResult, error)
	// WriteConflicts checks out a conflicted ApplyResult on top of onto
	WriteConflicts(ctx context.Context, onto string, result *ApplyResult) error

	// Refs
	ReadRef(ctx context.Context, name string) (string, error)
	WriteRef(ctx context.Context, name, id string) error
	CurrentBranch(ctx context.Context) (string, error)

	// Identity returns the configured user, used for new patches and trailers
	Identity(ctx context.Context) (Signature, error)
}

// StateStore persists the serialized stack for a branch.
// WriteState must replace the committed state atomically and fail with
// errors.ErrStaleState when the stored version no longer matches expected.
type StateStore interface {
	ReadState(ctx context.Context, branch string) (data []byte, version string, err error)
	WriteState(ctx context.Context, branch string, data []byte, expected string) (version string, err error)
}

// Repository combines the stores a Stack needs
type Repository interface {
	SnapshotStore
	StateStore
}

// Logger receives progress messages. *output.Splog satisfies it.
type Logger interface {
	Info(format string, args ...interface{})
	Debug(format string, args ...interface{})
}

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Debug(string, ...interface{}) {}
