package output

import (
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
	"github.com/muesli/termenv"
)

// ConfigureColor picks the lipgloss color profile for f. Color is dropped
// when NO_COLOR is set or f is not a terminal.
func ConfigureColor(f *os.File) {
	if os.Getenv("NO_COLOR") != "" || !IsTerminal(f) {
		lipgloss.SetColorProfile(termenv.Ascii)
		return
	}
	lipgloss.SetColorProfile(termenv.NewOutput(f).EnvColorProfile())
}

// IsTerminal reports whether f is attached to a terminal
func IsTerminal(f *os.File) bool {
	fd := f.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

var (
	currentStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("6")).Bold(true)
	appliedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	unappliedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	warnStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
	errorStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	commitStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("5"))
)

// ColorPatchName colors a patch name by its position in the stack
func ColorPatchName(name string, applied, current bool) string {
	switch {
	case current:
		return currentStyle.Render(name)
	case applied:
		return appliedStyle.Render(name)
	default:
		return unappliedStyle.Render(name)
	}
}

// ColorDim makes text dim/gray
func ColorDim(text string) string {
	return unappliedStyle.Render(text)
}

// ColorWarning colors text yellow
func ColorWarning(text string) string {
	return warnStyle.Render(text)
}

// ColorConflict colors text red
func ColorConflict(text string) string {
	return errorStyle.Render(text)
}

// ColorCommit colors a commit id magenta
func ColorCommit(id string) string {
	return commitStyle.Render(id)
}
