package actions

import (
	"fmt"

	pserrors "pstack.dev/pstack/internal/errors"
	"pstack.dev/pstack/internal/output"
	"pstack.dev/pstack/internal/runtime"
)

// LogOptions contains options for the log command
type LogOptions struct {
	// Patch defaults to the current patch
	Patch string
	// Limit overrides the configured number of entries; 0 uses the config
	Limit int
	All   bool
}

// LogAction prints the history of a patch, newest first
func LogAction(ctx *runtime.Context, opts LogOptions) error {
	stack, err := ctx.LoadStack()
	if err != nil {
		return err
	}

	name := opts.Patch
	if name == "" {
		current := stack.CurrentPatch()
		if current == nil {
			return &pserrors.NoSuchAppliedPatchError{}
		}
		name = current.Name
	}
	p := stack.Patch(name)
	if p == nil {
		return fmt.Errorf("unknown patch %q", name)
	}

	limit := opts.Limit
	if limit <= 0 {
		limit = ctx.RepoConfig.GetLogLimit()
	}
	if opts.All {
		limit = 0
	}
	ctx.Splog.Page(output.FormatLog(p.Log, limit))
	return nil
}
