// Package config manages pstack configuration.
//
// It handles:
//   - Repository-specific configuration stored in the git directory
//   - Per-user configuration stored as TOML
package config
