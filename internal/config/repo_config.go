package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// RepoConfigFile is the repository config file name inside the git directory
const RepoConfigFile = ".pstack_config"

// DefaultLogLimit is how many log entries `pstack log` shows when unset
const DefaultLogLimit = 20

// RepoConfig represents the repository configuration
type RepoConfig struct {
	AutoResolve     *bool   `json:"autoResolve,omitempty"`
	SignOffIdentity *string `json:"signOffIdentity,omitempty"`
	LogLimit        *int    `json:"logLimit,omitempty"`
}

func repoConfigPath(gitDir string) string {
	return filepath.Join(gitDir, RepoConfigFile)
}

// GetRepoConfig reads the repository configuration. A missing file yields
// the defaults.
func GetRepoConfig(gitDir string) (*RepoConfig, error) {
	data, err := os.ReadFile(repoConfigPath(gitDir))
	if err != nil {
		if os.IsNotExist(err) {
			return &RepoConfig{}, nil
		}
		return nil, fmt.Errorf("failed to read repo config: %w", err)
	}

	var config RepoConfig
	if err := json.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse repo config: %w", err)
	}
	return &config, nil
}

// Save writes the repository configuration
func (c *RepoConfig) Save(gitDir string) error {
	configJSON, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	return os.WriteFile(repoConfigPath(gitDir), configJSON, 0600)
}

// GetAutoResolve returns whether pending conflicts are resolved automatically, false by default
func (c *RepoConfig) GetAutoResolve() bool {
	return c.AutoResolve != nil && *c.AutoResolve
}

// GetSignOffIdentity returns the configured trailer identity, or ""
func (c *RepoConfig) GetSignOffIdentity() string {
	if c.SignOffIdentity == nil {
		return ""
	}
	return *c.SignOffIdentity
}

// GetLogLimit returns the number of log entries to show
func (c *RepoConfig) GetLogLimit() int {
	if c.LogLimit == nil || *c.LogLimit <= 0 {
		return DefaultLogLimit
	}
	return *c.LogLimit
}

// SetAutoResolve updates the autoResolve setting
func SetAutoResolve(gitDir string, enabled bool) error {
	config, err := GetRepoConfig(gitDir)
	if err != nil {
		return err
	}
	config.AutoResolve = &enabled
	return config.Save(gitDir)
}

// SetSignOffIdentity updates the signOffIdentity setting; "" clears it
func SetSignOffIdentity(gitDir string, identity string) error {
	config, err := GetRepoConfig(gitDir)
	if err != nil {
		return err
	}
	if identity == "" {
		config.SignOffIdentity = nil
	} else {
		config.SignOffIdentity = &identity
	}
	return config.Save(gitDir)
}

// SetLogLimit updates the logLimit setting
func SetLogLimit(gitDir string, limit int) error {
	if limit <= 0 {
		return fmt.Errorf("log limit must be positive, got %d", limit)
	}
	config, err := GetRepoConfig(gitDir)
	if err != nil {
		return err
	}
	config.LogLimit = &limit
	return config.Save(gitDir)
}
