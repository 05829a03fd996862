package output

import (
	"fmt"
	"strings"

	"pstack.dev/pstack/internal/engine"
)

// SeriesOptions controls FormatSeries
type SeriesOptions struct {
	ShowSummary bool
	// ShowEmpty marks empty patches with a trailing "(empty)"
	ShowEmpty bool
}

// FormatSeries renders the stack one patch per line: "+" for applied,
// ">" for the current patch and "-" for unapplied ones.
func FormatSeries(entries []engine.SeriesEntry, opts SeriesOptions) string {
	width := 0
	for _, e := range entries {
		width = max(width, len(e.Name))
	}

	var b strings.Builder
	for _, e := range entries {
		marker := "-"
		switch {
		case e.Current:
			marker = ">"
		case e.Applied:
			marker = "+"
		}

		line := marker + " " + ColorPatchName(e.Name, e.Applied, e.Current)
		if opts.ShowSummary && e.Summary != "" {
			line += strings.Repeat(" ", width-len(e.Name)) + "  # " + e.Summary
		}
		if opts.ShowEmpty && e.Empty {
			line += " " + ColorDim("(empty)")
		}
		b.WriteString(line + "\n")
	}
	return b.String()
}

// FormatLog renders log entries newest first, at most limit of them
func FormatLog(entries []engine.LogEntry, limit int) string {
	var b strings.Builder
	shown := 0
	for i := len(entries) - 1; i >= 0; i-- {
		if limit > 0 && shown == limit {
			break
		}
		e := entries[i]
		fmt.Fprintf(&b, "%s  %-10s %s", e.Time.Local().Format("2006-01-02 15:04:05"), e.Action, ColorCommit(shortCommit(e.Commit)))
		if e.Note != "" {
			b.WriteString("  " + e.Note)
		}
		b.WriteString("\n")
		shown++
	}
	return b.String()
}

func shortCommit(id string) string {
	if len(id) > 12 {
		return id[:12]
	}
	return id
}

// FormatRefresh renders the one-line outcome of a refresh
func FormatRefresh(result *engine.RefreshResult) string {
	name := ColorPatchName(result.Patch, true, false)
	switch result.Status {
	case engine.RefreshDone:
		msg := fmt.Sprintf("Refreshed %s (%s)", name, ColorCommit(shortCommit(result.Commit)))
		if result.Empty {
			msg += " " + ColorWarning("(empty patch)")
		}
		return msg
	case engine.RefreshUndone:
		return fmt.Sprintf("Undid the last refresh of %s", name)
	case engine.RefreshAnnotated:
		return fmt.Sprintf("Annotated %s", name)
	default:
		return fmt.Sprintf("%s: %s", name, result.Status)
	}
}
