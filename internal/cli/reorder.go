package cli

import (
	"github.com/spf13/cobra"

	"pstack.dev/pstack/internal/actions"
	"pstack.dev/pstack/internal/cli/common"
	"pstack.dev/pstack/internal/runtime"
)

// newReorderCmd creates the reorder command
func newReorderCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "reorder [patch...]",
		Short: "Change the order in which unapplied patches are pushed",
		Long: `Change the order in which unapplied patches are pushed.

Name every unapplied patch in the new push order, or run without arguments
to arrange them interactively. Applied patches are not affected.`,
		ValidArgsFunction: common.CompletePatches,
		RunE: func(cmd *cobra.Command, args []string) error {
			return common.Run(cmd, func(ctx *runtime.Context) error {
				return actions.ReorderAction(ctx, actions.ReorderOptions{Order: args})
			})
		},
	}
	return cmd
}
