package git

import (
	"context"
	"fmt"
	"regexp"
	"strconv"

	pserrors "pstack.dev/pstack/internal/errors"
)

// MinVersion is the oldest git release pstack runs on. Pushing relies on
// `merge-tree --write-tree --merge-base`, added in 2.40.
var MinVersion = Version{Major: 2, Minor: 40}

// Version is a git release number
type Version struct {
	Major int
	Minor int
}

func (v Version) String() string {
	return fmt.Sprintf("%d.%d", v.Major, v.Minor)
}

// AtLeast reports whether v is other or newer
func (v Version) AtLeast(other Version) bool {
	if v.Major != other.Major {
		return v.Major > other.Major
	}
	return v.Minor >= other.Minor
}

var versionPattern = regexp.MustCompile(`^git version (\d+)\.(\d+)`)

// parseVersion reads the output of `git version`
func parseVersion(out string) (Version, error) {
	m := versionPattern.FindStringSubmatch(out)
	if m == nil {
		return Version{}, fmt.Errorf("cannot parse git version %q", out)
	}
	major, _ := strconv.Atoi(m[1])
	minor, _ := strconv.Atoi(m[2])
	return Version{Major: major, Minor: minor}, nil
}

// checkVersion fails with ErrUnsupportedGit when the git binary is too old
func checkVersion(ctx context.Context, runner *CommandRunner) error {
	out, err := runner.Run(ctx, "version")
	if err != nil {
		return fmt.Errorf("failed to run git: %w", err)
	}
	v, err := parseVersion(out)
	if err != nil {
		return err
	}
	if !v.AtLeast(MinVersion) {
		return fmt.Errorf("%w: need %s or newer, found %s", pserrors.ErrUnsupportedGit, MinVersion, v)
	}
	return nil
}
