// Package errors provides sentinel errors and custom error types for pstack.
// Use errors.Is() and errors.As() to check for specific error types.
package errors

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for the stack mutation failure kinds
var (
	// ErrConflictsPending indicates that the working tree has unresolved merge conflicts
	ErrConflictsPending = errors.New("unresolved conflicts pending")

	// ErrNoSuchAppliedPatch indicates that the requested patch is not applied
	ErrNoSuchAppliedPatch = errors.New("no such applied patch")

	// ErrHeadTopMismatch indicates that HEAD was moved outside pstack
	ErrHeadTopMismatch = errors.New("HEAD and top are not the same")

	// ErrConflictingSignOptions indicates that both sign-off and ack were requested
	ErrConflictingSignOptions = errors.New("--ack and --sign were both specified")

	// ErrNoUndoAvailable indicates that there is no refresh to undo
	ErrNoUndoAvailable = errors.New("no undo information available")

	// ErrPatchNotApplied indicates an invalid pop selection
	ErrPatchNotApplied = errors.New("patch not applied")

	// ErrPatchNotUnapplied indicates an invalid push selection
	ErrPatchNotUnapplied = errors.New("patch not unapplied")

	// ErrPushConflict indicates that a push stopped on a conflicting patch
	ErrPushConflict = errors.New("push conflict")
)

// Sentinel errors for stack lifecycle conditions
var (
	// ErrNotOnBranch indicates that HEAD is not on a branch
	ErrNotOnBranch = errors.New("not on a branch")

	// ErrNotInitialized indicates that the current branch has no stack
	ErrNotInitialized = errors.New("branch not initialized")

	// ErrAlreadyInitialized indicates that the current branch already has a stack
	ErrAlreadyInitialized = errors.New("branch already initialized")

	// ErrStaleState indicates that the persisted stack changed under us
	ErrStaleState = errors.New("stack state changed concurrently")

	// ErrPatchExists indicates that a patch name is already taken
	ErrPatchExists = errors.New("patch already exists")

	// ErrInvalidPatchName indicates that a patch name cannot be used
	ErrInvalidPatchName = errors.New("invalid patch name")

	// ErrNoIdentity indicates that no committer identity is configured
	ErrNoIdentity = errors.New("no user identity configured")

	// ErrUnsupportedGit indicates that the git binary is too old
	ErrUnsupportedGit = errors.New("unsupported git version")
)

// ConflictsPendingError reports the paths that still carry unresolved conflicts
type ConflictsPendingError struct {
	Paths []string
}

func (e *ConflictsPendingError) Error() string {
	if len(e.Paths) == 0 {
		return "unresolved conflicts; resolve them first or revert the changes with 'git checkout'"
	}
	return fmt.Sprintf("unresolved conflicts in %s; resolve them first or revert the changes with 'git checkout'",
		strings.Join(e.Paths, ", "))
}

// Is returns true if the target error is ErrConflictsPending
func (e *ConflictsPendingError) Is(target error) bool {
	return target == ErrConflictsPending
}

// NoSuchAppliedPatchError reports a refresh target that is not applied.
// An empty Patch means no patch is applied at all.
type NoSuchAppliedPatchError struct {
	Patch string
}

func (e *NoSuchAppliedPatchError) Error() string {
	if e.Patch == "" {
		return "no patches applied"
	}
	return fmt.Sprintf("patch %q not applied", e.Patch)
}

// Is returns true if the target error is ErrNoSuchAppliedPatch
func (e *NoSuchAppliedPatchError) Is(target error) bool {
	return target == ErrNoSuchAppliedPatch
}

// HeadTopMismatchError reports that HEAD no longer points at the top patch
type HeadTopMismatchError struct {
	Head string
	Top  string
}

func (e *HeadTopMismatchError) Error() string {
	return fmt.Sprintf("HEAD (%s) and top (%s) are not the same; use --force to refresh anyway",
		shortID(e.Head), shortID(e.Top))
}

// Is returns true if the target error is ErrHeadTopMismatch
func (e *HeadTopMismatchError) Is(target error) bool {
	return target == ErrHeadTopMismatch
}

// NoUndoAvailableError reports that no undo entry is retained for a patch
type NoUndoAvailableError struct {
	Patch string
}

func (e *NoUndoAvailableError) Error() string {
	return fmt.Sprintf("no refresh to undo for patch %q", e.Patch)
}

// Is returns true if the target error is ErrNoUndoAvailable
func (e *NoUndoAvailableError) Is(target error) bool {
	return target == ErrNoUndoAvailable
}

// PatchNotAppliedError reports a pop request that cannot be satisfied
type PatchNotAppliedError struct {
	Patches []string
	Reason  string
}

func (e *PatchNotAppliedError) Error() string {
	msg := fmt.Sprintf("cannot pop %s", strings.Join(e.Patches, ", "))
	if e.Reason != "" {
		msg += ": " + e.Reason
	}
	return msg
}

// Is returns true if the target error is ErrPatchNotApplied
func (e *PatchNotAppliedError) Is(target error) bool {
	return target == ErrPatchNotApplied
}

// PatchNotUnappliedError reports a push request for a patch that is not unapplied
type PatchNotUnappliedError struct {
	Patch string
}

func (e *PatchNotUnappliedError) Error() string {
	return fmt.Sprintf("patch %q is not unapplied", e.Patch)
}

// Is returns true if the target error is ErrPatchNotUnapplied
func (e *PatchNotUnappliedError) Is(target error) bool {
	return target == ErrPatchNotUnapplied
}

// PushConflictError reports the patch a push stopped on. The stack is left
// with Patch applied as current and its conflicts in the working tree.
type PushConflictError struct {
	Patch string
	Paths []string
}

func (e *PushConflictError) Error() string {
	return fmt.Sprintf("merge conflict pushing patch %q in %s; resolve the conflicts and run 'pstack refresh'",
		e.Patch, strings.Join(e.Paths, ", "))
}

// Is returns true if the target error is ErrPushConflict
func (e *PushConflictError) Is(target error) bool {
	return target == ErrPushConflict
}

// PatchExistsError reports a duplicate patch name
type PatchExistsError struct {
	Patch string
}

func (e *PatchExistsError) Error() string {
	return fmt.Sprintf("patch %q already exists", e.Patch)
}

// Is returns true if the target error is ErrPatchExists
func (e *PatchExistsError) Is(target error) bool {
	return target == ErrPatchExists
}

// GitCommandError represents an error from a git command execution
type GitCommandError struct {
	Command string
	Args    []string
	Stdout  string
	Stderr  string
	Err     error
}

func (e *GitCommandError) Error() string {
	msg := fmt.Sprintf("git command failed: %s", e.Command)
	if len(e.Args) > 0 {
		msg += fmt.Sprintf(" %v", e.Args)
	}
	if e.Stderr != "" {
		msg += fmt.Sprintf("\nstderr: %s", e.Stderr)
	}
	if e.Err != nil {
		msg += fmt.Sprintf("\n%v", e.Err)
	}
	return msg
}

func (e *GitCommandError) Unwrap() error {
	return e.Err
}

// NewGitCommandError creates a new GitCommandError
func NewGitCommandError(command string, args []string, stdout, stderr string, err error) *GitCommandError {
	return &GitCommandError{
		Command: command,
		Args:    args,
		Stdout:  stdout,
		Stderr:  stderr,
		Err:     err,
	}
}

func shortID(id string) string {
	if len(id) > 7 {
		return id[:7]
	}
	if id == "" {
		return "none"
	}
	return id
}
