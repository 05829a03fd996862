// Package actions provides the logic behind each pstack command.
//
// Each action takes a runtime.Context, loads the stack of the current branch
// through it and hands the work to the engine. Actions own everything the
// engine does not: parsing user-facing option values, choosing the editor,
// and printing results through the context's splog.
package actions
