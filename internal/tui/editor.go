package tui

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/AlecAivazis/survey/v2"

	"pstack.dev/pstack/internal/engine"
	"pstack.dev/pstack/internal/git"
)

// PatchSeparator divides the message from the diff in the editor buffer
const PatchSeparator = "---"

// Editor edits patch messages
type Editor struct {
	// Command is the configured editor command; empty falls back to the
	// usual git lookup
	Command string
	// Interactive uses the survey prompt instead of a bare temp file
	Interactive bool
	// Runner resolves core.editor; nil skips that lookup
	Runner *git.CommandRunner
}

// EditFunc adapts the editor to the engine's callback
func (e *Editor) EditFunc(ctx context.Context) engine.EditFunc {
	return func(req engine.EditRequest) (string, error) {
		buffer, err := EditBuffer(req)
		if err != nil {
			return "", err
		}

		var edited string
		if e.Interactive {
			edited, err = e.prompt(ctx, req.Patch, buffer)
		} else {
			edited, err = OpenEditor(e.command(ctx), buffer, "pstack-"+req.Patch+"-*.txt")
		}
		if err != nil {
			return "", err
		}
		return ParseEditedMessage(edited, req.Diff != ""), nil
	}
}

func (e *Editor) prompt(ctx context.Context, patch, buffer string) (string, error) {
	var edited string
	prompt := &survey.Editor{
		Message:       fmt.Sprintf("Message for patch %s", patch),
		Default:       buffer,
		HideDefault:   true,
		AppendDefault: true,
		Editor:        e.command(ctx),
		FileName:      "pstack-*.txt",
	}
	if err := survey.AskOne(prompt, &edited); err != nil {
		return "", fmt.Errorf("editor prompt failed: %w", err)
	}
	return edited, nil
}

// command resolves the editor the way git does, with the configured
// command ahead of core.editor
func (e *Editor) command(ctx context.Context) string {
	if v := os.Getenv("GIT_EDITOR"); v != "" {
		return v
	}
	if e.Command != "" {
		return e.Command
	}
	if e.Runner != nil {
		if v, err := e.Runner.Run(ctx, "config", "--get", "core.editor"); err == nil && v != "" {
			return v
		}
	}
	for _, env := range []string{"VISUAL", "EDITOR"} {
		if v := os.Getenv(env); v != "" {
			return v
		}
	}
	return "vi"
}

// EditBuffer builds the text handed to the editor: the message, and when a
// diff is attached, a separator line, a diffstat and the diff itself
func EditBuffer(req engine.EditRequest) (string, error) {
	message := strings.TrimRight(req.Message, "\n") + "\n"
	if req.Diff == "" {
		return message, nil
	}

	stats, err := git.DiffStat(req.Diff)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	b.WriteString(message)
	b.WriteString(PatchSeparator + "\n")
	b.WriteString(git.FormatDiffStat(stats))
	b.WriteString("\n")
	b.WriteString(req.Diff)
	return b.String(), nil
}

// ParseEditedMessage returns the message part of an edited buffer. With
// withPatch, everything from the first separator line on is dropped.
func ParseEditedMessage(content string, withPatch bool) string {
	if withPatch {
		lines := strings.Split(content, "\n")
		for i, line := range lines {
			if strings.TrimRight(line, " \t\r") == PatchSeparator {
				content = strings.Join(lines[:i], "\n")
				break
			}
		}
	}
	return strings.TrimRight(content, " \t\r\n")
}

// OpenEditor runs editor on a temp file holding initialContent and returns
// what the user saved
func OpenEditor(editor, initialContent, filenamePattern string) (string, error) {
	tmpFile, err := os.CreateTemp("", filenamePattern)
	if err != nil {
		return "", fmt.Errorf("failed to create temp file: %w", err)
	}
	defer func() { _ = os.Remove(tmpFile.Name()) }()

	if _, err := tmpFile.WriteString(initialContent); err != nil {
		return "", fmt.Errorf("failed to write temp file: %w", err)
	}
	if err := tmpFile.Close(); err != nil {
		return "", fmt.Errorf("failed to close temp file: %w", err)
	}

	// the editor string may carry arguments, so let the shell split it
	cmd := exec.Command("sh", "-c", editor+` "$1"`, "sh", tmpFile.Name())
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stderr
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("editor exited with error: %w", err)
	}

	content, err := os.ReadFile(tmpFile.Name())
	if err != nil {
		return "", fmt.Errorf("failed to read edited file: %w", err)
	}
	return string(content), nil
}
