package main

import (
	"context"
	"os"
	"os/signal"

	"pstack.dev/pstack/internal/cli"
	"pstack.dev/pstack/internal/output"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	output.ConfigureColor(os.Stdout)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	rootCmd := cli.NewRootCmd(version, commit, date)
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		output.NewSplog().Error("%v", err)
		stop()
		os.Exit(1)
	}
}
