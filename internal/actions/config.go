package actions

import (
	"fmt"
	"strconv"

	"pstack.dev/pstack/internal/config"
	"pstack.dev/pstack/internal/output"
	"pstack.dev/pstack/internal/runtime"
)

// Configuration keys understood by the config command
const (
	ConfigAutoResolve = "auto-resolve"
	ConfigSignOff     = "sign-off"
	ConfigLogLimit    = "log-limit"
	ConfigEditor      = "editor"
)

// ConfigKeys lists the configuration keys in display order
var ConfigKeys = []string{ConfigAutoResolve, ConfigSignOff, ConfigLogLimit, ConfigEditor}

// ConfigListAction prints every configuration value
func ConfigListAction(ctx *runtime.Context) error {
	width := 0
	for _, key := range ConfigKeys {
		width = max(width, len(key))
	}
	for _, key := range ConfigKeys {
		value, err := configValue(ctx, key)
		if err != nil {
			return err
		}
		if value == "" {
			value = output.ColorDim("(unset)")
		}
		ctx.Splog.Page(fmt.Sprintf("%-*s  %s\n", width, key, value))
	}
	return nil
}

// ConfigGetAction prints the effective value of key
func ConfigGetAction(ctx *runtime.Context, key string) error {
	value, err := configValue(ctx, key)
	if err != nil {
		return err
	}
	ctx.Splog.Page(value + "\n")
	return nil
}

func configValue(ctx *runtime.Context, key string) (string, error) {
	var value string
	switch key {
	case ConfigAutoResolve:
		enabled, err := ctx.AutoResolve()
		if err != nil {
			return "", err
		}
		value = strconv.FormatBool(enabled)
	case ConfigSignOff:
		value = ctx.SignOffIdentity()
	case ConfigLogLimit:
		value = strconv.Itoa(ctx.RepoConfig.GetLogLimit())
	case ConfigEditor:
		value = ctx.UserConfig.Editor
	default:
		return "", fmt.Errorf("unknown configuration key: %s", key)
	}
	return value, nil
}

// ConfigSetAction stores value under key. Repository keys go to the repo
// config; the editor goes to the user config.
func ConfigSetAction(ctx *runtime.Context, key, value string) error {
	gitDir := ctx.Store.GitDir()
	switch key {
	case ConfigAutoResolve:
		enabled, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("invalid value for %s: %s (must be 'true' or 'false')", key, value)
		}
		if err := config.SetAutoResolve(gitDir, enabled); err != nil {
			return fmt.Errorf("failed to set %s: %w", key, err)
		}
	case ConfigSignOff:
		if value != "" {
			if _, _, err := ParseIdentity(value); err != nil {
				return err
			}
		}
		if err := config.SetSignOffIdentity(gitDir, value); err != nil {
			return fmt.Errorf("failed to set %s: %w", key, err)
		}
	case ConfigLogLimit:
		limit, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid value for %s: %s (must be a number)", key, value)
		}
		if err := config.SetLogLimit(gitDir, limit); err != nil {
			return fmt.Errorf("failed to set %s: %w", key, err)
		}
	case ConfigEditor:
		ctx.UserConfig.Editor = value
		if err := ctx.UserConfig.Save(); err != nil {
			return fmt.Errorf("failed to set %s: %w", key, err)
		}
	default:
		return fmt.Errorf("unknown configuration key: %s", key)
	}

	repoConfig, err := config.GetRepoConfig(gitDir)
	if err != nil {
		return err
	}
	ctx.RepoConfig = repoConfig
	ctx.Splog.Info("Set %s to: %s", key, value)
	return nil
}
