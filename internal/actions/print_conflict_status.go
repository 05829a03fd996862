package actions

import (
	pserrors "pstack.dev/pstack/internal/errors"
	"pstack.dev/pstack/internal/output"
	"pstack.dev/pstack/internal/runtime"
)

// PrintConflictStatus explains a push that stopped on a conflicting patch
func PrintConflictStatus(ctx *runtime.Context, conflict *pserrors.PushConflictError) {
	ctx.Splog.Info("%s", output.ColorConflict("Hit conflict pushing "+conflict.Patch))
	ctx.Splog.Newline()

	if len(conflict.Paths) > 0 {
		ctx.Splog.Info("%s", output.ColorWarning("Unmerged files:"))
		for _, path := range conflict.Paths {
			ctx.Splog.Info("%s", output.ColorConflict(path))
		}
		ctx.Splog.Newline()
	}

	ctx.Splog.Tip("%s is applied with the conflicts in the working tree.", conflict.Patch)
	ctx.Splog.Tip("(1) resolve the conflicts and mark them with 'git add'")
	ctx.Splog.Tip("(2) run 'pstack refresh' to record the resolution")
}
