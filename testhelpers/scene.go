package testhelpers

import (
	"os"
	"os/exec"
	"regexp"
	"strconv"
	"testing"
)

// Scene represents a test scene with a temporary directory and Git repository.
type Scene struct {
	Dir  string
	Repo *GitRepo
}

// SceneSetup is a function type for setting up a scene.
type SceneSetup func(*Scene) error

// NewScene creates a new test scene with a temporary directory and Git repository.
// The directory is removed by t.Cleanup unless DEBUG is set.
func NewScene(t *testing.T, setup SceneSetup) *Scene {
	t.Helper()
	RequireGitVersion(t, 2, 40)

	tmpDir, err := os.MkdirTemp("", "pstack-test-*")
	if err != nil {
		t.Fatalf("Failed to create temp dir: %v", err)
	}
	t.Cleanup(func() {
		if os.Getenv("DEBUG") == "" {
			_ = os.RemoveAll(tmpDir)
		}
	})

	repo, err := NewGitRepo(tmpDir)
	if err != nil {
		t.Fatalf("Failed to create Git repo: %v", err)
	}

	scene := &Scene{
		Dir:  tmpDir,
		Repo: repo,
	}

	if err := scene.writeDefaultConfigs(); err != nil {
		t.Fatalf("Failed to write config files: %v", err)
	}

	if setup != nil {
		if err := setup(scene); err != nil {
			t.Fatalf("Setup failed: %v", err)
		}
	}

	return scene
}

// writeDefaultConfigs writes an empty user config so the developer's own
// settings never leak into a test.
func (s *Scene) writeDefaultConfigs() error {
	return os.WriteFile(s.Repo.UserConfigPath, []byte("# pstack test config\n"), 0600)
}

// BasicSceneSetup is a setup function that creates a basic scene with a single commit.
func BasicSceneSetup(scene *Scene) error {
	return scene.Repo.CreateChangeAndCommit("initial", map[string]string{"base.txt": "base\n"})
}

var gitVersionPattern = regexp.MustCompile(`(\d+)\.(\d+)`)

// RequireGitVersion skips the test when the git binary is older than major.minor.
func RequireGitVersion(t *testing.T, major, minor int) {
	t.Helper()
	out, err := exec.Command("git", "version").Output()
	if err != nil {
		t.Skipf("git not available: %v", err)
	}
	m := gitVersionPattern.FindStringSubmatch(string(out))
	if m == nil {
		t.Skipf("cannot parse git version %q", out)
	}
	gotMajor, _ := strconv.Atoi(m[1])
	gotMinor, _ := strconv.Atoi(m[2])
	if gotMajor < major || (gotMajor == major && gotMinor < minor) {
		t.Skipf("git %d.%d or newer required, have %s.%s", major, minor, m[1], m[2])
	}
}
