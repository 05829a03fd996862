package tui

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

type orderKeys struct {
	Up       key.Binding
	Down     key.Binding
	MoveUp   key.Binding
	MoveDown key.Binding
	Confirm  key.Binding
	Cancel   key.Binding
}

func (k orderKeys) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.MoveUp, k.MoveDown, k.Confirm, k.Cancel}
}

func (k orderKeys) FullHelp() [][]key.Binding {
	return [][]key.Binding{{k.Up, k.Down}, {k.MoveUp, k.MoveDown}, {k.Confirm, k.Cancel}}
}

var patchOrderKeys = orderKeys{
	Up:       key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
	Down:     key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
	MoveUp:   key.NewBinding(key.WithKeys("shift+up", "K"), key.WithHelp("K", "move up")),
	MoveDown: key.NewBinding(key.WithKeys("shift+down", "J"), key.WithHelp("J", "move down")),
	Confirm:  key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "confirm")),
	Cancel:   key.NewBinding(key.WithKeys("ctrl+c", "q", "esc"), key.WithHelp("q/esc", "cancel")),
}

var (
	orderTitleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39")).MarginBottom(1)
	orderCursorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))
	orderActiveStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("205")).Bold(true)
	orderPatchStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("39"))
)

// patchOrderModel lets the user move patches up and down a list. The list
// is shown in push order, first entry pushed first.
type patchOrderModel struct {
	patches  []string
	cursor   int
	canceled bool
	keys     orderKeys
	help     help.Model
}

func newPatchOrderModel(patches []string) patchOrderModel {
	return patchOrderModel{
		patches: append([]string{}, patches...),
		keys:    patchOrderKeys,
		help:    help.New(),
	}
}

func (m patchOrderModel) Init() tea.Cmd {
	return nil
}

func (m patchOrderModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	last := len(m.patches) - 1
	switch {
	case key.Matches(keyMsg, m.keys.Cancel):
		m.canceled = true
		return m, tea.Quit
	case key.Matches(keyMsg, m.keys.Confirm):
		return m, tea.Quit
	case key.Matches(keyMsg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(keyMsg, m.keys.Down):
		if m.cursor < last {
			m.cursor++
		}
	case key.Matches(keyMsg, m.keys.MoveUp):
		if m.cursor > 0 {
			m.patches[m.cursor], m.patches[m.cursor-1] = m.patches[m.cursor-1], m.patches[m.cursor]
			m.cursor--
		}
	case key.Matches(keyMsg, m.keys.MoveDown):
		if m.cursor < last {
			m.patches[m.cursor], m.patches[m.cursor+1] = m.patches[m.cursor+1], m.patches[m.cursor]
			m.cursor++
		}
	}
	return m, nil
}

func (m patchOrderModel) View() string {
	var b strings.Builder
	b.WriteString(orderTitleStyle.Render("Push order of unapplied patches"))
	b.WriteString("\n")
	for i, name := range m.patches {
		if i == m.cursor {
			fmt.Fprintf(&b, "%s%s\n", orderCursorStyle.Render("▸ "), orderActiveStyle.Render(name))
			continue
		}
		fmt.Fprintf(&b, "  %s\n", orderPatchStyle.Render(name))
	}
	b.WriteString("\n")
	b.WriteString(m.help.View(m.keys))
	b.WriteString("\n")
	return b.String()
}

// PromptPatchOrder shows the patches and returns them in the order the user
// arranged them
func PromptPatchOrder(patches []string) ([]string, error) {
	if !IsInteractive() {
		return nil, ErrInteractiveDisabled
	}
	p := tea.NewProgram(newPatchOrderModel(patches), tea.WithInput(os.Stdin), tea.WithOutput(os.Stdout))
	final, err := p.Run()
	if err != nil {
		return nil, err
	}
	res := final.(patchOrderModel)
	if res.canceled {
		return nil, ErrCanceled
	}
	return res.patches, nil
}
