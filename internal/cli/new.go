package cli

import (
	"github.com/spf13/cobra"

	"pstack.dev/pstack/internal/actions"
	"pstack.dev/pstack/internal/cli/common"
	"pstack.dev/pstack/internal/runtime"
)

// newNewCmd creates the new command
func newNewCmd() *cobra.Command {
	var message string

	cmd := &cobra.Command{
		Use:   "new [name]",
		Short: "Create an empty patch on top of the stack",
		Long: `Create an empty patch on top of the stack and make it current.

Local changes stay in the working tree; fold them into the new patch with
'pstack refresh'. Without a name you are prompted for one.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := actions.NewOptions{Message: message}
			if len(args) > 0 {
				opts.Name = args[0]
			}
			return common.Run(cmd, func(ctx *runtime.Context) error {
				return actions.NewAction(ctx, opts)
			})
		},
	}

	cmd.Flags().StringVarP(&message, "message", "m", "", "Patch message; defaults to the patch name")

	return cmd
}
