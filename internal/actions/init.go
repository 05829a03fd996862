package actions

import (
	"pstack.dev/pstack/internal/engine"
	"pstack.dev/pstack/internal/output"
	"pstack.dev/pstack/internal/runtime"
)

// InitAction creates an empty stack on the current branch
func InitAction(ctx *runtime.Context) error {
	opts, err := ctx.EngineOptions()
	if err != nil {
		return err
	}
	stack, err := engine.Initialize(ctx, ctx.Store, opts)
	if err != nil {
		return err
	}
	ctx.Splog.Info("Initialized stack on %s at %s", stack.Branch, output.ColorCommit(shortID(stack.Base)))
	return nil
}

func shortID(id string) string {
	if len(id) > 12 {
		return id[:12]
	}
	return id
}
