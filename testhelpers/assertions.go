// Package testhelpers provides testing utilities for pstack, including a
// scene system, Git repository helpers, and custom assertions.
package testhelpers

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// Must is a generic helper function that panics if err is not nil,
// otherwise returns the value. This is useful for test setup code
// where errors are not expected and should halt execution immediately.
func Must[T any](val T, err error) T {
	if err != nil {
		panic(err)
	}
	return val
}

// ExpectCommits asserts that the newest commit subjects on the current
// branch match expected, newest first.
func ExpectCommits(t *testing.T, repo *GitRepo, expected []string) {
	t.Helper()

	messages, err := repo.ListCurrentBranchCommitMessages()
	require.NoError(t, err, "Failed to list commits")
	if len(messages) < len(expected) {
		require.Fail(t, "Not enough commits", "Expected %d commits, got %d", len(expected), len(messages))
		return
	}
	require.Equal(t, expected, messages[:len(expected)], "Commits do not match")
}

// ExpectFileAt asserts the content of path in the given revision.
func ExpectFileAt(t *testing.T, repo *GitRepo, rev, path, expected string) {
	t.Helper()

	content, err := repo.ShowFile(rev, path)
	require.NoError(t, err)
	require.Equal(t, expected, content, "content of %s at %s", path, rev)
}

// ExpectWorkingFile asserts the working-tree content of path.
func ExpectWorkingFile(t *testing.T, repo *GitRepo, path, expected string) {
	t.Helper()

	content, err := repo.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, expected, content, "working tree content of %s", path)
}

// ExpectStatus asserts the `git status --porcelain` lines.
func ExpectStatus(t *testing.T, repo *GitRepo, expected ...string) {
	t.Helper()

	status, err := repo.Status()
	require.NoError(t, err)
	if len(expected) == 0 {
		require.Empty(t, status, "expected a clean working tree")
		return
	}
	require.ElementsMatch(t, expected, status)
}
