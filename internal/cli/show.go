package cli

import (
	"github.com/spf13/cobra"

	"pstack.dev/pstack/internal/actions"
	"pstack.dev/pstack/internal/cli/common"
	"pstack.dev/pstack/internal/runtime"
)

// newShowCmd creates the show command
func newShowCmd() *cobra.Command {
	var opts actions.ShowOptions

	cmd := &cobra.Command{
		Use:               "show [patch]",
		Short:             "Show a patch's message and diff",
		Args:              cobra.MaximumNArgs(1),
		ValidArgsFunction: common.CompletePatches,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) > 0 {
				opts.Patch = args[0]
			}
			return common.Run(cmd, func(ctx *runtime.Context) error {
				return actions.ShowAction(ctx, opts)
			})
		},
	}

	cmd.Flags().BoolVar(&opts.Stat, "stat", false, "Show only the diffstat")

	return cmd
}
