// Package memstore provides an in-memory engine.Repository for unit tests.
//
// Files are whole strings and merges work at file granularity: a path changed
// on both sides to different content is a conflict. Object IDs are SHA-1
// hashes so they look and sort like git IDs.
package memstore

import (
	"context"
	"crypto/sha1" //nolint:gosec // object naming only
	"encoding/hex"
	"fmt"
	"maps"
	"slices"
	"strings"
	"time"

	"pstack.dev/pstack/internal/engine"
	pserrors "pstack.dev/pstack/internal/errors"
)

// Store is an in-memory snapshot and state store. It is not safe for concurrent use.
type Store struct {
	// Branch is the checked-out branch; empty means detached
	Branch string
	// Ident is returned by Identity
	Ident engine.Signature

	// Worktree and Index hold file contents by path
	Worktree map[string]string
	Index    map[string]string
	// Unmerged marks conflicted index paths
	Unmerged map[string]bool
	// ConflictPaths always conflict in ApplyDiff when the applied patch changes them
	ConflictPaths map[string]bool

	// CommitsCreated counts CreateCommit calls
	CommitsCreated int
	// StateWrites counts successful WriteState calls
	StateWrites int

	head     string
	refs     map[string]string
	commits  map[string]*engine.Commit
	trees    map[string]map[string]string
	states   map[string][]byte
	versions map[string]string
	clock    time.Time
	seq      int
}

// New creates a store on branch main whose HEAD is a root commit holding files
func New(files map[string]string) *Store {
	s := &Store{
		Branch:        "main",
		Ident:         engine.Signature{Name: "Test User", Email: "test@example.com"},
		Worktree:      map[string]string{},
		Index:         map[string]string{},
		Unmerged:      map[string]bool{},
		ConflictPaths: map[string]bool{},
		refs:          map[string]string{},
		commits:       map[string]*engine.Commit{},
		trees:         map[string]map[string]string{},
		states:        map[string][]byte{},
		versions:      map[string]string{},
		clock:         time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC),
	}
	root := s.commit("", s.putTree(files), "initial commit")
	s.checkoutHard(root)
	return s
}

// Head returns the commit HEAD points at
func (s *Store) Head() string {
	return s.head
}

// CommitFiles creates a commit on top of HEAD outside the stack, like a plain
// `git commit -a` would, and checks it out. nil content deletes a path.
func (s *Store) CommitFiles(message string, files map[string]*string) string {
	next := maps.Clone(s.trees[s.commits[s.head].Tree])
	for p, c := range files {
		if c == nil {
			delete(next, p)
		} else {
			next[p] = *c
		}
	}
	id := s.commit(s.head, s.putTree(next), message)
	s.checkoutHard(id)
	return id
}

// WriteFile writes a working-tree file
func (s *Store) WriteFile(path, content string) {
	s.Worktree[path] = content
}

// AddFile writes a working-tree file and stages it, like `git add`
func (s *Store) AddFile(path, content string) {
	s.Worktree[path] = content
	s.Index[path] = content
}

// RemoveFile deletes a working-tree file
func (s *Store) RemoveFile(path string) {
	delete(s.Worktree, path)
}

// Files returns the files of a commit or tree
func (s *Store) Files(id string) map[string]string {
	files, err := s.resolveTree(id)
	if err != nil {
		return nil
	}
	return maps.Clone(files)
}

// State returns the raw persisted state of branch
func (s *Store) State(branch string) []byte {
	return slices.Clone(s.states[branch])
}

// ClobberState simulates another writer replacing the state of branch
func (s *Store) ClobberState(branch string, data []byte) {
	s.states[branch] = slices.Clone(data)
	s.versions[branch] = hash("state", string(data), fmt.Sprint(s.nextSeq()))
}

func (s *Store) nextSeq() int {
	s.seq++
	return s.seq
}

func hash(parts ...string) string {
	h := sha1.New() //nolint:gosec
	for _, p := range parts {
		h.Write([]byte(p))
		h.Write([]byte{0})
	}
	return hex.EncodeToString(h.Sum(nil))
}

func (s *Store) putTree(files map[string]string) string {
	var b strings.Builder
	for _, p := range slices.Sorted(maps.Keys(files)) {
		b.WriteString(p)
		b.WriteByte(0)
		b.WriteString(files[p])
		b.WriteByte(0)
	}
	id := hash("tree", b.String())
	if _, ok := s.trees[id]; !ok {
		s.trees[id] = maps.Clone(files)
	}
	return id
}

func (s *Store) commit(parent, tree, message string) string {
	s.clock = s.clock.Add(time.Minute)
	sig := s.Ident
	sig.When = s.clock
	return s.storeCommit(engine.CommitSpec{
		Parent:   parent,
		Tree:     tree,
		Metadata: engine.Metadata{Author: sig, Committer: sig, Message: message},
	})
}

func (s *Store) storeCommit(spec engine.CommitSpec) string {
	id := hash("commit", spec.Parent, spec.Tree, spec.Message, fmt.Sprint(s.nextSeq()))
	s.commits[id] = &engine.Commit{
		ID:       id,
		Parent:   spec.Parent,
		Tree:     spec.Tree,
		Metadata: spec.Metadata,
	}
	return id
}

func (s *Store) checkoutHard(id string) {
	files := s.trees[s.commits[id].Tree]
	s.head = id
	s.Worktree = maps.Clone(files)
	s.Index = maps.Clone(files)
	s.Unmerged = map[string]bool{}
}

// resolveTree accepts a commit or tree ID
func (s *Store) resolveTree(id string) (map[string]string, error) {
	if c, ok := s.commits[id]; ok {
		return s.trees[c.Tree], nil
	}
	if t, ok := s.trees[id]; ok {
		return t, nil
	}
	return nil, fmt.Errorf("unknown object %s", id)
}

func (s *Store) headFiles() map[string]string {
	return s.trees[s.commits[s.head].Tree]
}

// ReadCommit implements engine.SnapshotStore
func (s *Store) ReadCommit(_ context.Context, id string) (*engine.Commit, error) {
	c, ok := s.commits[id]
	if !ok {
		return nil, fmt.Errorf("unknown commit %s", id)
	}
	cp := *c
	return &cp, nil
}

// CreateCommit implements engine.SnapshotStore
func (s *Store) CreateCommit(_ context.Context, spec engine.CommitSpec) (string, error) {
	if _, ok := s.trees[spec.Tree]; !ok {
		return "", fmt.Errorf("unknown tree %s", spec.Tree)
	}
	if _, ok := s.commits[spec.Parent]; !ok {
		return "", fmt.Errorf("unknown parent %s", spec.Parent)
	}
	s.CommitsCreated++
	return s.storeCommit(spec), nil
}

// DiffTree implements engine.SnapshotStore
func (s *Store) DiffTree(_ context.Context, from, to string) ([]string, error) {
	a, err := s.resolveTree(from)
	if err != nil {
		return nil, err
	}
	b, err := s.resolveTree(to)
	if err != nil {
		return nil, err
	}
	return changedPaths(a, b), nil
}

func changedPaths(a, b map[string]string) []string {
	var paths []string
	for _, p := range unionKeys(a, b) {
		av, aok := a[p]
		bv, bok := b[p]
		if aok != bok || av != bv {
			paths = append(paths, p)
		}
	}
	return paths
}

func unionKeys(ms ...map[string]string) []string {
	set := map[string]bool{}
	for _, m := range ms {
		for k := range m {
			set[k] = true
		}
	}
	return slices.Sorted(maps.Keys(set))
}

// PatchText implements engine.SnapshotStore with a minimal unified diff
func (s *Store) PatchText(_ context.Context, from, to string) (string, error) {
	a, err := s.resolveTree(from)
	if err != nil {
		return "", err
	}
	b, err := s.resolveTree(to)
	if err != nil {
		return "", err
	}

	var out strings.Builder
	for _, p := range changedPaths(a, b) {
		oldLines := splitLines(a[p])
		newLines := splitLines(b[p])
		fmt.Fprintf(&out, "diff --git a/%s b/%s\n--- a/%s\n+++ b/%s\n", p, p, p, p)
		fmt.Fprintf(&out, "@@ -1,%d +1,%d @@\n", len(oldLines), len(newLines))
		for _, l := range oldLines {
			out.WriteString("-" + l + "\n")
		}
		for _, l := range newLines {
			out.WriteString("+" + l + "\n")
		}
	}
	return out.String(), nil
}

func splitLines(content string) []string {
	if content == "" {
		return nil
	}
	return strings.Split(strings.TrimSuffix(content, "\n"), "\n")
}

// WorkingTreeStatus implements engine.SnapshotStore
func (s *Store) WorkingTreeStatus(_ context.Context, verbose bool) ([]engine.StatusEntry, error) {
	head := s.headFiles()
	var entries []engine.StatusEntry
	for _, p := range unionKeys(head, s.Index, s.Worktree) {
		hv, inHead := head[p]
		iv, inIndex := s.Index[p]
		wv, inWorktree := s.Worktree[p]

		switch {
		case s.Unmerged[p]:
			entries = append(entries, engine.StatusEntry{Code: engine.StatusUnmerged, Path: p})
		case !inHead && !inIndex:
			if verbose {
				entries = append(entries, engine.StatusEntry{Code: engine.StatusUntracked, Path: p})
			}
		case !inHead:
			entries = append(entries, engine.StatusEntry{Code: engine.StatusAdded, Path: p})
		case !inIndex || !inWorktree:
			entries = append(entries, engine.StatusEntry{Code: engine.StatusDeleted, Path: p})
		case hv != iv || iv != wv:
			entries = append(entries, engine.StatusEntry{Code: engine.StatusModified, Path: p})
		}
	}
	return entries, nil
}

// WriteTree implements engine.SnapshotStore
func (s *Store) WriteTree(_ context.Context, base string, paths []string) (string, error) {
	files, err := s.resolveTree(base)
	if err != nil {
		return "", err
	}
	next := maps.Clone(files)
	for _, p := range paths {
		if c, ok := s.Worktree[p]; ok {
			next[p] = c
		} else {
			delete(next, p)
		}
	}
	return s.putTree(next), nil
}

// StagePaths implements engine.SnapshotStore
func (s *Store) StagePaths(_ context.Context, paths []string) error {
	for _, p := range paths {
		s.stage(p)
	}
	return nil
}

func (s *Store) stage(p string) {
	if c, ok := s.Worktree[p]; ok {
		s.Index[p] = c
	} else {
		delete(s.Index, p)
	}
	delete(s.Unmerged, p)
}

// ResolveConflicts implements engine.SnapshotStore
func (s *Store) ResolveConflicts(_ context.Context) ([]string, error) {
	paths := slices.Sorted(maps.Keys(s.Unmerged))
	for _, p := range paths {
		s.stage(p)
	}
	return paths, nil
}

// Checkout implements engine.SnapshotStore
func (s *Store) Checkout(_ context.Context, from, to string, keep bool) error {
	a, err := s.resolveTree(from)
	if err != nil {
		return err
	}
	b, err := s.resolveTree(to)
	if err != nil {
		return err
	}

	if !keep {
		s.Worktree = maps.Clone(b)
		s.Index = maps.Clone(b)
		s.Unmerged = map[string]bool{}
		return nil
	}

	changed := changedPaths(a, b)
	for _, p := range changed {
		if !sameEntry(s.Worktree, a, p) || !sameEntry(s.Index, a, p) {
			return fmt.Errorf("your local changes to %s would be overwritten", p)
		}
	}
	for _, p := range changed {
		if c, ok := b[p]; ok {
			s.Worktree[p] = c
			s.Index[p] = c
		} else {
			delete(s.Worktree, p)
			delete(s.Index, p)
		}
	}
	return nil
}

// ResetIndex implements engine.SnapshotStore
func (s *Store) ResetIndex(_ context.Context, commit string) error {
	files, err := s.resolveTree(commit)
	if err != nil {
		return err
	}
	s.Index = maps.Clone(files)
	s.Unmerged = map[string]bool{}
	return nil
}

func sameEntry(m, ref map[string]string, p string) bool {
	mv, mok := m[p]
	rv, rok := ref[p]
	return mok == rok && mv == rv
}

// ApplyDiff implements engine.SnapshotStore
func (s *Store) ApplyDiff(_ context.Context, commit, onto string) (*engine.ApplyResult, error) {
	c, ok := s.commits[commit]
	if !ok {
		return nil, fmt.Errorf("unknown commit %s", commit)
	}
	base := s.trees[s.commits[c.Parent].Tree]
	theirs := s.trees[c.Tree]
	ours, err := s.resolveTree(onto)
	if err != nil {
		return nil, err
	}

	result := &engine.ApplyResult{}
	merged := map[string]string{}
	for _, p := range unionKeys(base, ours, theirs) {
		switch {
		case sameEntry(theirs, base, p):
			copyEntry(merged, ours, p)
		case s.ConflictPaths[p]:
			s.conflict(result, merged, p, base, ours, theirs)
		case sameEntry(ours, base, p), sameEntry(ours, theirs, p):
			copyEntry(merged, theirs, p)
		default:
			s.conflict(result, merged, p, base, ours, theirs)
		}
	}
	result.Tree = s.putTree(merged)
	return result, nil
}

func (s *Store) conflict(result *engine.ApplyResult, merged map[string]string, p string, base, ours, theirs map[string]string) {
	result.Conflicts = append(result.Conflicts, p)
	merged[p] = fmt.Sprintf("<<<<<<< ours\n%s=======\n%s>>>>>>> theirs\n", ours[p], theirs[p])
	for stage, side := range []map[string]string{base, ours, theirs} {
		if content, ok := side[p]; ok {
			result.Stages = append(result.Stages, engine.IndexStage{
				Mode:   "100644",
				Object: hash("blob", content),
				Stage:  stage + 1,
				Path:   p,
			})
		}
	}
}

func copyEntry(dst, src map[string]string, p string) {
	if c, ok := src[p]; ok {
		dst[p] = c
	}
}

// WriteConflicts implements engine.SnapshotStore. Cleanly merged paths are
// staged, conflicted paths are left unmerged with markers in the worktree.
func (s *Store) WriteConflicts(_ context.Context, onto string, result *engine.ApplyResult) error {
	a, err := s.resolveTree(onto)
	if err != nil {
		return err
	}
	b := s.trees[result.Tree]
	for _, p := range changedPaths(a, b) {
		if c, ok := b[p]; ok {
			s.Worktree[p] = c
			s.Index[p] = c
		} else {
			delete(s.Worktree, p)
			delete(s.Index, p)
		}
	}
	for _, p := range result.Conflicts {
		copyEntry(s.Index, a, p)
		s.Unmerged[p] = true
	}
	return nil
}

// ReadRef implements engine.SnapshotStore
func (s *Store) ReadRef(_ context.Context, name string) (string, error) {
	if name == engine.HeadRef {
		return s.head, nil
	}
	id, ok := s.refs[name]
	if !ok {
		return "", fmt.Errorf("unknown ref %s", name)
	}
	return id, nil
}

// WriteRef implements engine.SnapshotStore
func (s *Store) WriteRef(_ context.Context, name, id string) error {
	if _, ok := s.commits[id]; !ok {
		return fmt.Errorf("unknown commit %s", id)
	}
	if name == engine.HeadRef {
		s.head = id
		return nil
	}
	s.refs[name] = id
	return nil
}

// CurrentBranch implements engine.SnapshotStore
func (s *Store) CurrentBranch(_ context.Context) (string, error) {
	if s.Branch == "" {
		return "", pserrors.ErrNotOnBranch
	}
	return s.Branch, nil
}

// Identity implements engine.SnapshotStore
func (s *Store) Identity(_ context.Context) (engine.Signature, error) {
	return s.Ident, nil
}

// ReadState implements engine.StateStore
func (s *Store) ReadState(_ context.Context, branch string) ([]byte, string, error) {
	data, ok := s.states[branch]
	if !ok {
		return nil, "", nil
	}
	return slices.Clone(data), s.versions[branch], nil
}

// WriteState implements engine.StateStore
func (s *Store) WriteState(_ context.Context, branch string, data []byte, expected string) (string, error) {
	if s.versions[branch] != expected {
		return "", fmt.Errorf("%w: branch %s", pserrors.ErrStaleState, branch)
	}
	version := hash("state", string(data), fmt.Sprint(s.nextSeq()))
	s.states[branch] = slices.Clone(data)
	s.versions[branch] = version
	s.StateWrites++
	return version, nil
}

var _ engine.Repository = (*Store)(nil)
