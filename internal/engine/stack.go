package engine

import (
	"context"
	"fmt"
	"slices"
	"time"

	pserrors "pstack.dev/pstack/internal/errors"
)

// Options configures how a Stack is loaded
type Options struct {
	// AutoResolve treats unresolved conflict markers as resolved
	AutoResolve bool
	Logger      Logger
	// Now overrides the clock, mainly for tests
	Now func() time.Time
}

// Stack is the patch stack of one branch. It is not safe for concurrent use;
// each invocation loads its own Stack and threads it through the operations.
type Stack struct {
	Branch    string
	Base      string
	Applied   []*Patch
	Unapplied []*Patch
	Undo      *UndoEntry

	repo      Repository
	version   string
	conflicts *ConflictTracker
	log       Logger
	now       func() time.Time
}

func newStack(repo Repository, branch string, opts Options) *Stack {
	s := &Stack{
		Branch: branch,
		repo:   repo,
		log:    opts.Logger,
		now:    opts.Now,
	}
	if s.log == nil {
		s.log = nopLogger{}
	}
	if s.now == nil {
		s.now = time.Now
	}
	s.conflicts = NewConflictTracker(repo, opts.AutoResolve, s.log)
	return s
}

// Initialize creates an empty stack on the current branch based at HEAD
func Initialize(ctx context.Context, repo Repository, opts Options) (*Stack, error) {
	branch, err := repo.CurrentBranch(ctx)
	if err != nil {
		return nil, err
	}

	data, _, err := repo.ReadState(ctx, branch)
	if err != nil {
		return nil, err
	}
	if data != nil {
		return nil, fmt.Errorf("%w: %s", pserrors.ErrAlreadyInitialized, branch)
	}

	head, err := repo.ReadRef(ctx, HeadRef)
	if err != nil {
		return nil, fmt.Errorf("failed to read HEAD: %w", err)
	}

	s := newStack(repo, branch, opts)
	s.Base = head
	if err := s.save(ctx); err != nil {
		return nil, err
	}
	return s, nil
}

// Load reads the stack of the current branch
func Load(ctx context.Context, repo Repository, opts Options) (*Stack, error) {
	branch, err := repo.CurrentBranch(ctx)
	if err != nil {
		return nil, err
	}

	data, version, err := repo.ReadState(ctx, branch)
	if err != nil {
		return nil, err
	}
	if data == nil {
		return nil, fmt.Errorf("%w: %s (run 'pstack init' first)", pserrors.ErrNotInitialized, branch)
	}

	doc, err := decodeState(data)
	if err != nil {
		return nil, err
	}

	s := newStack(repo, branch, opts)
	s.Base = doc.Base
	s.Undo = doc.Undo
	s.version = version

	for _, name := range doc.Applied {
		p, err := s.loadPatch(ctx, name, doc.Patches[name])
		if err != nil {
			return nil, err
		}
		s.Applied = append(s.Applied, p)
	}
	for _, name := range doc.Unapplied {
		p, err := s.loadPatch(ctx, name, doc.Patches[name])
		if err != nil {
			return nil, err
		}
		s.Unapplied = append(s.Unapplied, p)
	}
	return s, nil
}

func (s *Stack) loadPatch(ctx context.Context, name string, rec *patchRecord) (*Patch, error) {
	p := &Patch{Name: name, Log: rec.Log}
	if err := s.setCommit(ctx, p, rec.Commit); err != nil {
		return nil, fmt.Errorf("failed to load patch %s: %w", name, err)
	}
	return p, nil
}

// setCommit points p at id and refreshes the metadata and emptiness derived from it
func (s *Stack) setCommit(ctx context.Context, p *Patch, id string) error {
	c, err := s.repo.ReadCommit(ctx, id)
	if err != nil {
		return err
	}
	parent, err := s.repo.ReadCommit(ctx, c.Parent)
	if err != nil {
		return fmt.Errorf("failed to read parent of %s: %w", id, err)
	}
	p.Commit = c.ID
	p.Metadata = c.Metadata
	p.Empty = c.Tree == parent.Tree
	return nil
}

// CurrentPatch returns the topmost applied patch, or nil when none is applied
func (s *Stack) CurrentPatch() *Patch {
	if len(s.Applied) == 0 {
		return nil
	}
	return s.Applied[len(s.Applied)-1]
}

// IsApplied reports whether name is an applied patch
func (s *Stack) IsApplied(name string) bool {
	return s.appliedIndex(name) >= 0
}

// Patch returns the named patch, applied or not
func (s *Stack) Patch(name string) *Patch {
	for _, p := range s.Applied {
		if p.Name == name {
			return p
		}
	}
	for _, p := range s.Unapplied {
		if p.Name == name {
			return p
		}
	}
	return nil
}

// Names returns all patch names, applied first
func (s *Stack) Names() []string {
	names := make([]string, 0, len(s.Applied)+len(s.Unapplied))
	for _, p := range s.Applied {
		names = append(names, p.Name)
	}
	for _, p := range s.Unapplied {
		names = append(names, p.Name)
	}
	return names
}

// Top returns the commit HEAD should point at: the top patch, or the base
func (s *Stack) Top() string {
	if p := s.CurrentPatch(); p != nil {
		return p.Commit
	}
	return s.Base
}

// HeadTopEqual reports whether HEAD still points at the top of the stack.
// False means HEAD was moved by something other than pstack.
func (s *Stack) HeadTopEqual(ctx context.Context) (bool, error) {
	head, err := s.repo.ReadRef(ctx, HeadRef)
	if err != nil {
		return false, fmt.Errorf("failed to read HEAD: %w", err)
	}
	return head == s.Top(), nil
}

// Conflicts returns the stack's conflict tracker
func (s *Stack) Conflicts() *ConflictTracker {
	return s.conflicts
}

func (s *Stack) appliedIndex(name string) int {
	return slices.IndexFunc(s.Applied, func(p *Patch) bool { return p.Name == name })
}

func (s *Stack) unappliedIndex(name string) int {
	return slices.IndexFunc(s.Unapplied, func(p *Patch) bool { return p.Name == name })
}

// parentOf returns the commit below an applied patch
func (s *Stack) parentOf(name string) string {
	i := s.appliedIndex(name)
	if i <= 0 {
		return s.Base
	}
	return s.Applied[i-1].Commit
}

// MarkRefreshed records a new commit for p and persists the stack
func (s *Stack) MarkRefreshed(ctx context.Context, p *Patch, commit string, entry LogEntry) error {
	if s.Patch(p.Name) != p {
		return fmt.Errorf("patch %s does not belong to this stack", p.Name)
	}
	if err := s.setCommit(ctx, p, commit); err != nil {
		return err
	}
	entry.Commit = commit
	p.Log = append(p.Log, entry)
	return s.save(ctx)
}

// Reorder replaces the applied/unapplied partition and persists the stack.
// Both lists together must name every patch exactly once. No commits are
// rewritten, so applied must match the current applied patches in order;
// only the unapplied side can move.
func (s *Stack) Reorder(ctx context.Context, applied, unapplied []string) error {
	all := append(append([]string{}, applied...), unapplied...)
	if len(all) != len(s.Applied)+len(s.Unapplied) {
		return fmt.Errorf("reorder must name all %d patches, got %d", len(s.Applied)+len(s.Unapplied), len(all))
	}
	if !slices.Equal(applied, namesOf(s.Applied)) {
		return fmt.Errorf("reorder cannot change applied patches %s; pop them first", joinNames(namesOf(s.Applied)))
	}

	byName := make(map[string]*Patch, len(all))
	for _, p := range append(append([]*Patch{}, s.Applied...), s.Unapplied...) {
		byName[p.Name] = p
	}

	newApplied := make([]*Patch, 0, len(applied))
	newUnapplied := make([]*Patch, 0, len(unapplied))
	seen := make(map[string]bool, len(all))
	for i, name := range all {
		p, ok := byName[name]
		if !ok {
			return fmt.Errorf("unknown patch %s", name)
		}
		if seen[name] {
			return fmt.Errorf("patch %s listed twice", name)
		}
		seen[name] = true
		if i < len(applied) {
			newApplied = append(newApplied, p)
		} else {
			newUnapplied = append(newUnapplied, p)
		}
	}

	if err := checkMutable(ctx, s); err != nil {
		return err
	}

	s.Applied = newApplied
	s.Unapplied = newUnapplied
	return s.save(detach(ctx))
}

// save writes the stack through the state store. The store stages the new
// document and swaps it in only if nobody else wrote in between.
func (s *Stack) save(ctx context.Context) error {
	data, err := encodeState(s)
	if err != nil {
		return err
	}
	version, err := s.repo.WriteState(ctx, s.Branch, data, s.version)
	if err != nil {
		return fmt.Errorf("failed to save stack state: %w", err)
	}
	s.version = version
	return nil
}

// moveHead points HEAD at commit
func (s *Stack) moveHead(ctx context.Context, commit string) error {
	if err := s.repo.WriteRef(ctx, HeadRef, commit); err != nil {
		return fmt.Errorf("failed to update HEAD: %w", err)
	}
	return nil
}
