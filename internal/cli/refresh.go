package cli

import (
	"github.com/spf13/cobra"

	"pstack.dev/pstack/internal/actions"
	"pstack.dev/pstack/internal/cli/common"
	"pstack.dev/pstack/internal/runtime"
)

// newRefreshCmd creates the refresh command
func newRefreshCmd() *cobra.Command {
	var opts actions.RefreshOptions

	cmd := &cobra.Command{
		Use:   "refresh [files...]",
		Short: "Fold local changes into a patch",
		Long: `Fold local changes into a patch.

By default the top patch is refreshed with every modified tracked file. With
file arguments only those paths are included; with --update only files the
patch already touches are. --patch refreshes a lower patch: the patches above
it are popped, the patch is rewritten and they are pushed back.

Untracked files are never included; add them with 'git add' first.`,
		ValidArgsFunction: func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
			return nil, cobra.ShellCompDirectiveDefault
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.Files = args
			return common.Run(cmd, func(ctx *runtime.Context) error {
				return actions.RefreshAction(ctx, opts)
			})
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&opts.Patch, "patch", "p", "", "Refresh this patch instead of the top one")
	flags.StringVarP(&opts.Message, "message", "m", "", "Replace the patch message")
	flags.BoolVarP(&opts.Edit, "edit", "e", false, "Edit the patch message")
	flags.BoolVarP(&opts.ShowPatch, "showpatch", "s", false, "Show the diff when editing the message")
	flags.BoolVar(&opts.Update, "update", false, "Only include files the patch already modifies")
	flags.BoolVarP(&opts.Force, "force", "f", false, "Refresh even if HEAD is not the top patch")
	flags.BoolVar(&opts.Undo, "undo", false, "Revert the last refresh of the patch")
	flags.StringVarP(&opts.Annotate, "annotate", "a", "", "Record a note in the patch log")
	flags.StringVar(&opts.Author, "author", "", `Set the author as "Name <email>"`)
	flags.StringVar(&opts.AuthName, "authname", "", "Set the author name")
	flags.StringVar(&opts.AuthEmail, "authemail", "", "Set the author email")
	flags.StringVar(&opts.AuthDate, "authdate", "", "Set the author date")
	flags.StringVar(&opts.CommName, "commname", "", "Set the committer name")
	flags.StringVar(&opts.CommEmail, "commemail", "", "Set the committer email")
	flags.BoolVar(&opts.SignOff, "sign", false, "Add a Signed-off-by trailer")
	flags.BoolVar(&opts.Ack, "ack", false, "Add an Acked-by trailer")

	cmd.MarkFlagsMutuallyExclusive("sign", "ack")
	_ = cmd.RegisterFlagCompletionFunc("patch", common.CompletePatches)

	return cmd
}
