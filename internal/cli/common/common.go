// Package common provides shared helper functions for CLI commands.
package common

import (
	"os"

	"github.com/spf13/cobra"

	"pstack.dev/pstack/internal/output"
	"pstack.dev/pstack/internal/runtime"
)

// DebugFlag is the persistent flag that shows debug output
const DebugFlag = "debug"

// NewSplog creates the splog for a command, mirroring output to the log file
func NewSplog(cmd *cobra.Command) (*output.Splog, error) {
	debug, _ := cmd.Flags().GetBool(DebugFlag)
	return output.NewSplogWithOptions(output.SplogOptions{
		Out:     cmd.OutOrStdout(),
		Err:     cmd.ErrOrStderr(),
		LogFile: output.LogFilePath(),
		Debug:   debug || os.Getenv("DEBUG") != "",
	})
}

// Run is a helper that provides a runtime context to a command's execution function
func Run(cmd *cobra.Command, fn func(ctx *runtime.Context) error) error {
	splog, err := NewSplog(cmd)
	if err != nil {
		return err
	}
	defer func() { _ = splog.Close() }()

	splog.Debug("pstack %s", cmd.CommandPath())
	ctx, err := runtime.GetContext(cmd.Context(), splog)
	if err != nil {
		return err
	}
	if err := fn(ctx); err != nil {
		splog.Debug("command failed: %v", err)
		return err
	}
	return nil
}

// CompletePatches is a helper for cobra.ValidArgsFunction that returns the
// patch names of the current branch's stack
func CompletePatches(cmd *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
	splog, err := output.NewSplogWithOptions(output.SplogOptions{Out: cmd.OutOrStdout(), Err: cmd.ErrOrStderr()})
	if err != nil {
		return nil, cobra.ShellCompDirectiveError
	}
	ctx, err := runtime.GetContext(cmd.Context(), splog)
	if err != nil {
		return nil, cobra.ShellCompDirectiveError
	}
	stack, err := ctx.LoadStack()
	if err != nil {
		return nil, cobra.ShellCompDirectiveError
	}
	return stack.Names(), cobra.ShellCompDirectiveNoFileComp
}
