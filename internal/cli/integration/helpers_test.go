package integration

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"pstack.dev/pstack/testhelpers"
)

// =============================================================================
// Test Shell - A helper to make integration tests read like terminal sessions
// =============================================================================

// TestShell wraps a test scene and provides a fluent interface for running
// commands. Tests using this read like a series of terminal commands.
type TestShell struct {
	t          *testing.T
	scene      *testhelpers.Scene
	lastOutput string
}

// NewTestShell creates a shell-like test environment with an initialized stack
// on top of a repository holding base.txt.
func NewTestShell(t *testing.T) *TestShell {
	t.Helper()
	if testhelpers.GetSharedBinaryPath() == "" {
		t.Fatalf("pstack binary not built: %v", testhelpers.GetBinaryError())
	}
	scene := testhelpers.NewScene(t, testhelpers.BasicSceneSetup)
	s := &TestShell{t: t, scene: scene}
	return s.Run("init")
}

// Repo returns the underlying repository for direct assertions.
func (s *TestShell) Repo() *testhelpers.GitRepo {
	return s.scene.Repo
}

// =============================================================================
// Command Execution
// =============================================================================

// Run executes a pstack CLI command (e.g., "new feature-a -m 'Add feature'")
func (s *TestShell) Run(args string) *TestShell {
	s.t.Helper()
	output, err := s.scene.Repo.RunCliCommandAndGetOutput(splitArgs(args))
	s.lastOutput = output
	require.NoError(s.t, err, "$ pstack %s\n%s", args, s.lastOutput)
	return s
}

// RunExpectError executes a pstack CLI command and expects it to fail.
func (s *TestShell) RunExpectError(args string) *TestShell {
	s.t.Helper()
	output, err := s.scene.Repo.RunCliCommandAndGetOutput(splitArgs(args))
	s.lastOutput = output
	require.Error(s.t, err, "$ pstack %s (expected error)\n%s", args, s.lastOutput)
	return s
}

// Git executes a raw git command (use sparingly - prefer pstack commands)
func (s *TestShell) Git(args string) *TestShell {
	s.t.Helper()
	output, err := s.scene.Repo.RunGitCommandAndGetOutput(splitArgs(args)...)
	s.lastOutput = output
	require.NoError(s.t, err, "$ git %s", args)
	return s
}

// =============================================================================
// File Operations
// =============================================================================

// Write modifies a tracked file, or creates and adds a new one
func (s *TestShell) Write(filename, content string) *TestShell {
	s.t.Helper()
	require.NoError(s.t, s.scene.Repo.WriteFile(filename, content), "failed to write %s", filename)
	require.NoError(s.t, s.scene.Repo.RunGitCommand("add", filename))
	return s
}

// Patch creates a patch named name holding files
func (s *TestShell) Patch(name string, files map[string]string) *TestShell {
	s.t.Helper()
	s.Run("new " + name)
	for filename, content := range files {
		s.Write(filename, content)
	}
	return s.Run("refresh")
}

// =============================================================================
// Output Inspection
// =============================================================================

// Output returns the last command's output
func (s *TestShell) Output() string {
	return s.lastOutput
}

// OutputContains asserts the last output contains the given string
func (s *TestShell) OutputContains(substr string) *TestShell {
	s.t.Helper()
	require.Contains(s.t, s.lastOutput, substr)
	return s
}

// =============================================================================
// Assertions
// =============================================================================

// Series asserts the output of `pstack series`
func (s *TestShell) Series(expected string) *TestShell {
	s.t.Helper()
	s.Run("series")
	require.Equal(s.t, expected, s.lastOutput)
	return s
}

// FileAt asserts the content of path at rev
func (s *TestShell) FileAt(rev, path, expected string) *TestShell {
	s.t.Helper()
	testhelpers.ExpectFileAt(s.t, s.scene.Repo, rev, path, expected)
	return s
}

// Status asserts the porcelain status lines; none means clean
func (s *TestShell) Status(expected ...string) *TestShell {
	s.t.Helper()
	testhelpers.ExpectStatus(s.t, s.scene.Repo, expected...)
	return s
}

// Commits asserts the newest commit subjects, newest first
func (s *TestShell) Commits(expected ...string) *TestShell {
	s.t.Helper()
	testhelpers.ExpectCommits(s.t, s.scene.Repo, expected)
	return s
}

// =============================================================================
// Utility Functions
// =============================================================================

// splitArgs splits a command string into args, respecting quotes
func splitArgs(s string) []string {
	var args []string
	var current strings.Builder
	inQuote := false
	quoteChar := rune(0)

	for _, r := range s {
		switch {
		case r == '"' || r == '\'':
			if inQuote && r == quoteChar {
				inQuote = false
			} else if !inQuote {
				inQuote = true
				quoteChar = r
			} else {
				current.WriteRune(r)
			}
		case r == ' ' && !inQuote:
			if current.Len() > 0 {
				args = append(args, current.String())
				current.Reset()
			}
		default:
			current.WriteRune(r)
		}
	}
	if current.Len() > 0 {
		args = append(args, current.String())
	}
	return args
}
