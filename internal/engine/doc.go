// Package engine manages the patch stack of a branch.
//
// It is the core of pstack, responsible for:
//   - Tracking which patches are applied on top of the base and in what order
//   - Persisting the stack and its per-patch logs through a StateStore
//   - Refreshing a patch from working-tree changes, wherever it sits in the stack
//   - Popping and pushing patches, surfacing conflicts as they happen
//   - Keeping a single level of refresh undo
//
// The engine never talks to git directly. It works through the SnapshotStore
// and StateStore interfaces, which git.Store implements for real repositories.
package engine
