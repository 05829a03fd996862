// Package tui holds the interactive pieces of pstack: the message editor
// and terminal prompts.
package tui
