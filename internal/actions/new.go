package actions

import (
	"fmt"

	"pstack.dev/pstack/internal/engine"
	"pstack.dev/pstack/internal/output"
	"pstack.dev/pstack/internal/runtime"
	"pstack.dev/pstack/internal/tui"
)

// NewOptions contains options for the new command
type NewOptions struct {
	Name    string
	Message string
}

// NewAction creates an empty patch on top of the stack. Without a name the
// user is prompted for one.
func NewAction(ctx *runtime.Context, opts NewOptions) error {
	stack, err := ctx.LoadStack()
	if err != nil {
		return err
	}

	name := opts.Name
	if name == "" {
		if !tui.IsInteractive() {
			return fmt.Errorf("patch name required")
		}
		name, err = tui.PromptTextInput("Patch name:", "", engine.ValidatePatchName)
		if err != nil {
			return err
		}
	}

	message := opts.Message
	if message == "" {
		message = name
	}

	p, err := engine.NewPatch(ctx, stack, name, message)
	if err != nil {
		return err
	}
	ctx.Splog.Info("Now at patch %s", output.ColorPatchName(p.Name, true, true))
	return nil
}
