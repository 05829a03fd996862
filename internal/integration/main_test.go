// Package integration runs stack operations end to end against real git
// repositories, without going through the CLI.
package integration
