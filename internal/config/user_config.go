package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
)

// UserConfigPathEnv overrides the user config location
const UserConfigPathEnv = "PSTACK_USER_CONFIG_PATH"

// UserConfig holds per-user preferences
type UserConfig struct {
	Editor  string `toml:"editor,omitempty"`
	SignOff string `toml:"sign_off,omitempty"`
	path    string
}

// UserConfigPath returns where the user config lives
func UserConfigPath() (string, error) {
	if p := os.Getenv(UserConfigPathEnv); p != "" {
		return p, nil
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("failed to locate user config directory: %w", err)
	}
	return filepath.Join(dir, "pstack", "config.toml"), nil
}

// LoadUserConfig reads the user config. A missing file yields an empty config.
func LoadUserConfig() (*UserConfig, error) {
	path, err := UserConfigPath()
	if err != nil {
		return nil, err
	}

	cfg := &UserConfig{path: path}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read user config: %w", err)
	}
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse user config %s: %w", path, err)
	}
	return cfg, nil
}

// Save writes the user config, creating its directory if needed
func (c *UserConfig) Save() error {
	data, err := toml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal user config: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(c.path), 0750); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	return os.WriteFile(c.path, data, 0600)
}

// Path returns the file the config was loaded from
func (c *UserConfig) Path() string {
	return c.path
}
