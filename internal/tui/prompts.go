package tui

import (
	"errors"
	"fmt"
	"os"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"pstack.dev/pstack/internal/output"
)

// NonInteractiveEnv disables prompts when set
const NonInteractiveEnv = "PSTACK_NON_INTERACTIVE"

// ErrInteractiveDisabled is returned when a prompt is needed but prompts are off
var ErrInteractiveDisabled = errors.New("interactive prompts are disabled")

// ErrCanceled is returned when the user aborts a prompt
var ErrCanceled = errors.New("canceled")

// IsInteractive reports whether prompts may be shown: stdin and stdout are
// terminals and PSTACK_NON_INTERACTIVE is unset
func IsInteractive() bool {
	if os.Getenv(NonInteractiveEnv) != "" {
		return false
	}
	return output.IsTerminal(os.Stdin) && output.IsTerminal(os.Stdout)
}

// textInputModel is a single-line text prompt
type textInputModel struct {
	textInput textinput.Model
	prompt    string
	validate  func(string) error
	done      bool
	err       error
	invalid   error
}

func (m textInputModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m textInputModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.Type {
		case tea.KeyEnter:
			if m.validate != nil {
				if err := m.validate(m.textInput.Value()); err != nil {
					m.invalid = err
					return m, nil
				}
			}
			m.done = true
			return m, tea.Quit
		case tea.KeyCtrlC, tea.KeyEsc:
			m.err = ErrCanceled
			m.done = true
			return m, tea.Quit
		}
	}

	var cmd tea.Cmd
	m.textInput, cmd = m.textInput.Update(msg)
	return m, cmd
}

var (
	promptStyle  = lipgloss.NewStyle().Margin(1, 0)
	invalidStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
)

func (m textInputModel) View() string {
	if m.done {
		return ""
	}
	view := fmt.Sprintf("%s\n%s", m.prompt, m.textInput.View())
	if m.invalid != nil {
		view += "\n" + invalidStyle.Render(m.invalid.Error())
	}
	return promptStyle.Render(view + "\n\n(Enter to submit, Ctrl+C to cancel)")
}

// PromptTextInput asks for one line of text. validate, when non-nil, keeps
// the prompt open until it accepts the value.
func PromptTextInput(prompt, defaultValue string, validate func(string) error) (string, error) {
	if !IsInteractive() {
		return "", ErrInteractiveDisabled
	}

	ti := textinput.New()
	ti.SetValue(defaultValue)
	ti.Focus()
	ti.CharLimit = 200
	ti.Width = 60

	p := tea.NewProgram(textInputModel{textInput: ti, prompt: prompt, validate: validate},
		tea.WithInput(os.Stdin), tea.WithOutput(os.Stdout))
	model, err := p.Run()
	if err != nil {
		return "", err
	}

	final, ok := model.(textInputModel)
	if !ok {
		return "", fmt.Errorf("unexpected model type")
	}
	if final.err != nil {
		return "", final.err
	}
	return final.textInput.Value(), nil
}
