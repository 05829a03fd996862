package cli

import (
	"github.com/spf13/cobra"

	"pstack.dev/pstack/internal/actions"
	"pstack.dev/pstack/internal/cli/common"
	"pstack.dev/pstack/internal/runtime"
)

// newPopCmd creates the pop command
func newPopCmd() *cobra.Command {
	var opts actions.PopOptions

	cmd := &cobra.Command{
		Use:   "pop [patch]",
		Short: "Unapply the top patch, or a patch and everything above it",
		Long: `Unapply the top patch, or a patch and everything above it.

Local changes are kept in the working tree; the pop fails without touching
anything if they overlap the popped patches.`,
		Args:              cobra.MaximumNArgs(1),
		ValidArgsFunction: common.CompletePatches,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) > 0 {
				opts.Patch = args[0]
			}
			return common.Run(cmd, func(ctx *runtime.Context) error {
				return actions.PopAction(ctx, opts)
			})
		},
	}

	cmd.Flags().BoolVarP(&opts.All, "all", "a", false, "Pop every applied patch")

	return cmd
}
