package cli

import (
	"github.com/spf13/cobra"

	"pstack.dev/pstack/internal/actions"
	"pstack.dev/pstack/internal/cli/common"
	"pstack.dev/pstack/internal/runtime"
)

// newSeriesCmd creates the series command
func newSeriesCmd() *cobra.Command {
	var opts actions.SeriesOptions

	cmd := &cobra.Command{
		Use:     "series",
		Short:   "List the patches of the stack",
		Aliases: []string{"ls"},
		Long: `List the patches of the stack, bottom to top.

Applied patches are marked with '+', the current patch with '>' and
unapplied patches with '-'.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return common.Run(cmd, func(ctx *runtime.Context) error {
				return actions.SeriesAction(ctx, opts)
			})
		},
	}

	cmd.Flags().BoolVarP(&opts.ShowSummary, "description", "d", false, "Show the first line of each patch message")
	cmd.Flags().BoolVarP(&opts.ShowEmpty, "empty", "e", false, "Mark patches that change nothing")

	return cmd
}
