package actions

import (
	"fmt"

	"pstack.dev/pstack/internal/output"
	"pstack.dev/pstack/internal/runtime"
	"pstack.dev/pstack/internal/tui"
)

// ReorderOptions contains options for the reorder command
type ReorderOptions struct {
	// Order is the new push order of the unapplied patches; empty prompts
	Order []string
}

// ReorderAction changes the order in which unapplied patches will be pushed.
// Applied patches keep their commits and position.
func ReorderAction(ctx *runtime.Context, opts ReorderOptions) error {
	stack, err := ctx.LoadStack()
	if err != nil {
		return err
	}
	if len(stack.Unapplied) == 0 {
		return fmt.Errorf("no unapplied patches")
	}

	names := stack.Names()
	applied, unapplied := names[:len(stack.Applied)], names[len(stack.Applied):]

	order := opts.Order
	if len(order) == 0 {
		if order, err = tui.PromptPatchOrder(unapplied); err != nil {
			return err
		}
	}
	for _, name := range order {
		if stack.IsApplied(name) {
			return fmt.Errorf("patch %s is applied; pop it before reordering", name)
		}
	}

	if err := stack.Reorder(ctx, applied, order); err != nil {
		return err
	}
	ctx.Splog.Info("Push order:")
	for _, name := range order {
		ctx.Splog.Info("- %s", output.ColorPatchName(name, false, false))
	}
	return nil
}
