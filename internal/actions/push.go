package actions

import (
	"errors"
	"fmt"

	"pstack.dev/pstack/internal/engine"
	pserrors "pstack.dev/pstack/internal/errors"
	"pstack.dev/pstack/internal/runtime"
)

// PushOptions contains options for the push command
type PushOptions struct {
	// Patch pushes every unapplied patch down to and including this one;
	// empty pushes the next one
	Patch string
	All   bool
}

// PushAction applies unapplied patches on top of the stack
func PushAction(ctx *runtime.Context, opts PushOptions) error {
	stack, err := ctx.LoadStack()
	if err != nil {
		return err
	}
	var names []string
	switch {
	case opts.Patch != "":
		names, err = stack.PatchesUpTo(opts.Patch)
	case len(stack.Unapplied) == 0:
		return fmt.Errorf("no unapplied patches")
	case opts.All:
		names, err = stack.PatchesUpTo(stack.Unapplied[len(stack.Unapplied)-1].Name)
	default:
		names = []string{stack.Unapplied[0].Name}
	}
	if err != nil {
		return err
	}

	if _, err := engine.Push(ctx, stack, names); err != nil {
		var conflict *pserrors.PushConflictError
		if errors.As(err, &conflict) {
			PrintConflictStatus(ctx, conflict)
		}
		return err
	}
	printPosition(ctx, stack)
	return nil
}
