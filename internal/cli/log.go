package cli

import (
	"github.com/spf13/cobra"

	"pstack.dev/pstack/internal/actions"
	"pstack.dev/pstack/internal/cli/common"
	"pstack.dev/pstack/internal/runtime"
)

// newLogCmd creates the log command
func newLogCmd() *cobra.Command {
	var opts actions.LogOptions

	cmd := &cobra.Command{
		Use:               "log [patch]",
		Short:             "Show the history of a patch",
		Args:              cobra.MaximumNArgs(1),
		ValidArgsFunction: common.CompletePatches,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) > 0 {
				opts.Patch = args[0]
			}
			return common.Run(cmd, func(ctx *runtime.Context) error {
				return actions.LogAction(ctx, opts)
			})
		},
	}

	cmd.Flags().IntVarP(&opts.Limit, "number", "n", 0, "Show at most this many entries")
	cmd.Flags().BoolVar(&opts.All, "all", false, "Show every entry")

	return cmd
}
