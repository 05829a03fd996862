package actions

import (
	"pstack.dev/pstack/internal/output"
	"pstack.dev/pstack/internal/runtime"
)

// SeriesOptions contains options for the series command
type SeriesOptions struct {
	ShowSummary bool
	ShowEmpty   bool
}

// SeriesAction lists the patches of the stack
func SeriesAction(ctx *runtime.Context, opts SeriesOptions) error {
	stack, err := ctx.LoadStack()
	if err != nil {
		return err
	}

	entries := stack.Series()
	if len(entries) == 0 {
		ctx.Splog.Info("No patches")
		return nil
	}
	ctx.Splog.Page(output.FormatSeries(entries, output.SeriesOptions{
		ShowSummary: opts.ShowSummary,
		ShowEmpty:   opts.ShowEmpty,
	}))
	return nil
}
