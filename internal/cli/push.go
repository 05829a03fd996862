package cli

import (
	"github.com/spf13/cobra"

	"pstack.dev/pstack/internal/actions"
	"pstack.dev/pstack/internal/cli/common"
	"pstack.dev/pstack/internal/runtime"
)

// newPushCmd creates the push command
func newPushCmd() *cobra.Command {
	var opts actions.PushOptions

	cmd := &cobra.Command{
		Use:   "push [patch]",
		Short: "Apply the next patch, or every patch up to the named one",
		Long: `Apply the next patch, or every patch up to the named one.

A push stops at the first patch that does not apply cleanly. That patch is
left applied with the conflicts in the working tree; resolve them and run
'pstack refresh'.`,
		Args:              cobra.MaximumNArgs(1),
		ValidArgsFunction: common.CompletePatches,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) > 0 {
				opts.Patch = args[0]
			}
			return common.Run(cmd, func(ctx *runtime.Context) error {
				return actions.PushAction(ctx, opts)
			})
		},
	}

	cmd.Flags().BoolVarP(&opts.All, "all", "a", false, "Push every unapplied patch")

	return cmd
}
