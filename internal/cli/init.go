package cli

import (
	"github.com/spf13/cobra"

	"pstack.dev/pstack/internal/actions"
	"pstack.dev/pstack/internal/cli/common"
	"pstack.dev/pstack/internal/runtime"
)

// newInitCmd creates the init command
func newInitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Start an empty patch stack on the current branch",
		Long: `Start an empty patch stack on the current branch.

The current HEAD becomes the base of the stack; patches are created on top
of it with 'pstack new'.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return common.Run(cmd, func(ctx *runtime.Context) error {
				return actions.InitAction(ctx)
			})
		},
	}
}
