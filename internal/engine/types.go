package engine

import (
	"strings"
	"time"
)

// Signature identifies the author or committer of a patch commit
type Signature struct {
	Name  string    `json:"name"`
	Email string    `json:"email"`
	When  time.Time `json:"when"`
}

// Metadata is the commit metadata carried by a patch
type Metadata struct {
	Author    Signature `json:"author"`
	Committer Signature `json:"committer"`
	Message   string    `json:"message"`
}

// Log actions recorded on a patch
const (
	LogNew      = "new"
	LogRefresh  = "refresh"
	LogAnnotate = "annotate"
	LogUndo     = "undo"
	LogPush     = "push"
	LogPop      = "pop"
	LogConflict = "push(conflict)"
)

// LogEntry is one append-only record in a patch's history
type LogEntry struct {
	Time   time.Time `json:"time"`
	Action string    `json:"action"`
	Commit string    `json:"commit"`
	Note   string    `json:"note,omitempty"`
}

// Patch is one named unit of change in the stack
type Patch struct {
	Name   string
	Commit string
	Metadata
	Log []LogEntry

	// Empty is true when Commit has the same tree as its parent
	Empty bool
}

// Summary returns the first line of the patch message
func (p *Patch) Summary() string {
	line, _, _ := strings.Cut(strings.TrimSpace(p.Message), "\n")
	return line
}

// Commit is a commit object as seen through the snapshot store
type Commit struct {
	ID     string
	Parent string
	Tree   string
	Metadata
}

// CommitSpec describes a commit to create
type CommitSpec struct {
	Parent string
	Tree   string
	Metadata
}

// StatusCode classifies a working-tree status entry
type StatusCode byte

const (
	StatusModified  StatusCode = 'M'
	StatusAdded     StatusCode = 'A'
	StatusDeleted   StatusCode = 'D'
	StatusUnmerged  StatusCode = 'U'
	StatusUntracked StatusCode = '?'
)

// StatusEntry is one path reported by WorkingTreeStatus
type StatusEntry struct {
	Code StatusCode
	Path string
}

// IndexStage is one stage entry of a conflicted path
type IndexStage struct {
	Mode   string
	Object string
	Stage  int
	Path   string
}

// ApplyResult is the outcome of replaying a patch onto another commit.
// When Conflicts is non-empty, Tree holds the conflicted files with markers.
type ApplyResult struct {
	Tree      string
	Conflicts []string
	Stages    []IndexStage
}

// Clean reports whether the patch applied without conflicts
func (r *ApplyResult) Clean() bool {
	return len(r.Conflicts) == 0
}

// UndoEntry holds the state of a patch before its last refresh
type UndoEntry struct {
	Patch    string   `json:"patch"`
	Commit   string   `json:"commit"`
	Metadata Metadata `json:"metadata"`
}

// RefreshStatus describes what a refresh did
type RefreshStatus int

const (
	// RefreshDone indicates a new commit was written for the patch
	RefreshDone RefreshStatus = iota
	// RefreshUpToDate indicates nothing needed to change
	RefreshUpToDate
	// RefreshNothingToUpdate indicates an update-only refresh found no patch files modified
	RefreshNothingToUpdate
	// RefreshAnnotated indicates only a log annotation was recorded
	RefreshAnnotated
	// RefreshUndone indicates the previous refresh was reverted
	RefreshUndone
)

func (s RefreshStatus) String() string {
	switch s {
	case RefreshDone:
		return "refreshed"
	case RefreshUpToDate:
		return "up to date"
	case RefreshNothingToUpdate:
		return "nothing to update"
	case RefreshAnnotated:
		return "annotated"
	case RefreshUndone:
		return "undone"
	default:
		return "unknown"
	}
}

// SignatureOverride replaces individual signature fields when set
type SignatureOverride struct {
	Name  string
	Email string
	When  *time.Time
}

// IsSet reports whether any field is overridden
func (o SignatureOverride) IsSet() bool {
	return o.Name != "" || o.Email != "" || o.When != nil
}

func (o SignatureOverride) apply(sig Signature) Signature {
	if o.Name != "" {
		sig.Name = o.Name
	}
	if o.Email != "" {
		sig.Email = o.Email
	}
	if o.When != nil {
		sig.When = *o.When
	}
	return sig
}

// EditRequest is handed to the message editor
type EditRequest struct {
	Patch   string
	Message string
	// Diff is the patch content, set only when the caller asked to see it
	Diff string
}

// EditFunc returns the edited message for a patch
type EditFunc func(req EditRequest) (string, error)

// RefreshOptions contains options for a refresh
type RefreshOptions struct {
	// Patch is the target patch; empty means the top patch
	Patch string
	// Files restricts the refresh to these paths when non-empty
	Files []string

	Message   string
	Edit      bool
	ShowPatch bool
	Update    bool
	Force     bool
	Undo      bool

	Author    SignatureOverride
	Committer SignatureOverride

	SignOff  bool
	Ack      bool
	Annotate string
	// Signer overrides the configured identity used in trailers
	Signer SignatureOverride

	// Editor is consulted when Edit or ShowPatch is set
	Editor EditFunc
}

// RefreshResult reports the outcome of a refresh
type RefreshResult struct {
	Patch  string
	Status RefreshStatus
	Commit string
	Files  []string
	Empty  bool
	// Popped lists the patches moved out of the way, bottom to top
	Popped []string
	// Pushed lists the popped patches that went back cleanly
	Pushed []string
}

// PushResult reports the outcome of a push
type PushResult struct {
	Pushed   []string
	Conflict string
	Paths    []string
}
