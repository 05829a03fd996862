package git

import (
	"context"
	"fmt"
	"strings"

	"pstack.dev/pstack/internal/engine"
	pserrors "pstack.dev/pstack/internal/errors"
)

// GetConfig returns a git config value. A missing key yields "" and no error.
func (s *Store) GetConfig(ctx context.Context, key string) (string, error) {
	value, err := s.runner.Run(ctx, "config", "--get", key)
	if err != nil {
		// exit status 1 means the key is not set
		if exitCode(err) == 1 {
			return "", nil
		}
		return "", fmt.Errorf("failed to read git config %s: %w", key, err)
	}
	return value, nil
}

// GetConfigBool reads a boolean git config value, falling back to def when unset
func (s *Store) GetConfigBool(ctx context.Context, key string, def bool) (bool, error) {
	value, err := s.runner.Run(ctx, "config", "--type=bool", "--get", key)
	if err != nil {
		if exitCode(err) == 1 {
			return def, nil
		}
		return def, fmt.Errorf("failed to read git config %s: %w", key, err)
	}
	return value == "true", nil
}

// Identity returns the configured user.name and user.email
func (s *Store) Identity(ctx context.Context) (engine.Signature, error) {
	name, err := s.GetConfig(ctx, "user.name")
	if err != nil {
		return engine.Signature{}, err
	}
	email, err := s.GetConfig(ctx, "user.email")
	if err != nil {
		return engine.Signature{}, err
	}
	if strings.TrimSpace(name) == "" || strings.TrimSpace(email) == "" {
		return engine.Signature{}, fmt.Errorf("%w: set user.name and user.email", pserrors.ErrNoIdentity)
	}
	return engine.Signature{Name: name, Email: email}, nil
}
