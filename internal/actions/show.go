package actions

import (
	"fmt"
	"strings"

	pserrors "pstack.dev/pstack/internal/errors"
	"pstack.dev/pstack/internal/git"
	"pstack.dev/pstack/internal/output"
	"pstack.dev/pstack/internal/runtime"
)

// ShowOptions contains options for the show command
type ShowOptions struct {
	// Patch defaults to the current patch
	Patch string
	// Stat prints only the diffstat
	Stat bool
}

// ShowAction prints a patch's header, diffstat and diff
func ShowAction(ctx *runtime.Context, opts ShowOptions) error {
	stack, err := ctx.LoadStack()
	if err != nil {
		return err
	}

	name := opts.Patch
	if name == "" {
		current := stack.CurrentPatch()
		if current == nil {
			return &pserrors.NoSuchAppliedPatchError{}
		}
		name = current.Name
	}
	p := stack.Patch(name)
	if p == nil {
		return fmt.Errorf("unknown patch %q", name)
	}

	commit, err := ctx.Store.ReadCommit(ctx, p.Commit)
	if err != nil {
		return err
	}
	diff, err := ctx.Store.PatchText(ctx, commit.Parent, commit.ID)
	if err != nil {
		return err
	}
	stats, err := git.DiffStat(diff)
	if err != nil {
		return err
	}

	ctx.Splog.Page(fmt.Sprintf("%s %s\n", output.ColorWarning("commit"), output.ColorCommit(commit.ID)))
	ctx.Splog.Page(fmt.Sprintf("Patch:  %s\n", output.ColorPatchName(p.Name, stack.IsApplied(p.Name), p == stack.CurrentPatch())))
	ctx.Splog.Page(fmt.Sprintf("Author: %s <%s>\n", p.Author.Name, p.Author.Email))
	ctx.Splog.Page(fmt.Sprintf("Date:   %s\n\n", p.Author.When.Format("Mon Jan 2 15:04:05 2006 -0700")))
	ctx.Splog.Page(indent(p.Message) + "\n")
	ctx.Splog.Page("---\n" + git.FormatDiffStat(stats))
	if !opts.Stat && diff != "" {
		ctx.Splog.Page("\n" + diff)
	}
	return nil
}

func indent(message string) string {
	var b strings.Builder
	for _, line := range strings.Split(strings.TrimRight(message, "\n"), "\n") {
		if line != "" {
			b.WriteString("    " + line)
		}
		b.WriteString("\n")
	}
	return b.String()
}
