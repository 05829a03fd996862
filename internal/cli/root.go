package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"pstack.dev/pstack/internal/cli/common"
)

// NewRootCmd creates the root cobra command
func NewRootCmd(version, commit, date string) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "pstack",
		Short: "pstack manages a stack of patches on top of a git branch",
		Long: `pstack manages a stack of patches on top of a git branch.

Each patch is a commit that can be refreshed with new changes, reordered
by popping and pushing, and annotated with a history of what happened to it.`,
		Version:       fmt.Sprintf("%s (commit %s, built %s)", version, commit, date),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().Bool(common.DebugFlag, false, "Show debug output")

	rootCmd.AddCommand(newInitCmd())
	rootCmd.AddCommand(newNewCmd())
	rootCmd.AddCommand(newRefreshCmd())
	rootCmd.AddCommand(newSeriesCmd())
	rootCmd.AddCommand(newPopCmd())
	rootCmd.AddCommand(newPushCmd())
	rootCmd.AddCommand(newReorderCmd())
	rootCmd.AddCommand(newLogCmd())
	rootCmd.AddCommand(newShowCmd())
	rootCmd.AddCommand(newConfigCmd())

	return rootCmd
}
