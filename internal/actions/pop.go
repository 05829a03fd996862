package actions

import (
	"fmt"

	"pstack.dev/pstack/internal/engine"
	"pstack.dev/pstack/internal/output"
	"pstack.dev/pstack/internal/runtime"
)

// PopOptions contains options for the pop command
type PopOptions struct {
	// Patch pops this patch and everything above it; empty pops the top one
	Patch string
	All   bool
}

// PopAction unapplies patches from the top of the stack, keeping local
// changes in the working tree
func PopAction(ctx *runtime.Context, opts PopOptions) error {
	stack, err := ctx.LoadStack()
	if err != nil {
		return err
	}
	var names []string
	switch {
	case opts.Patch != "":
		names, err = stack.PatchesFrom(opts.Patch)
	case len(stack.Applied) == 0:
		return fmt.Errorf("no patches applied")
	case opts.All:
		names = stack.Names()[:len(stack.Applied)]
	default:
		names = []string{stack.CurrentPatch().Name}
	}
	if err != nil {
		return err
	}

	if err := engine.Pop(ctx, stack, names, true); err != nil {
		return err
	}
	printPosition(ctx, stack)
	return nil
}

func printPosition(ctx *runtime.Context, stack *engine.Stack) {
	if p := stack.CurrentPatch(); p != nil {
		ctx.Splog.Info("Now at patch %s", output.ColorPatchName(p.Name, true, true))
		return
	}
	ctx.Splog.Info("No patches applied")
}
