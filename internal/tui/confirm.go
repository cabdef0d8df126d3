package tui

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

var (
	confirmLabelStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212"))
	confirmDetailStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("252")).PaddingLeft(2)
	confirmHintStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	confirmButtonStyle = lipgloss.NewStyle().Padding(0, 2)
	confirmActiveStyle = confirmButtonStyle.Background(lipgloss.Color("212")).Foreground(lipgloss.Color("0"))
)

type confirmKeyMap struct {
	Switch key.Binding
	Yes    key.Binding
	No     key.Binding
	Accept key.Binding
	Cancel key.Binding
}

var confirmKeys = confirmKeyMap{
	Switch: key.NewBinding(key.WithKeys("left", "right", "tab", "h", "l")),
	Yes:    key.NewBinding(key.WithKeys("y", "Y")),
	No:     key.NewBinding(key.WithKeys("n", "N")),
	Accept: key.NewBinding(key.WithKeys("enter")),
	Cancel: key.NewBinding(key.WithKeys("ctrl+c", "esc")),
}

// ConfirmResult is the answer to a yes/no question.
type ConfirmResult struct {
	Confirmed bool
	Aborted   bool
}

type confirmModel struct {
	question string
	details  []string
	yes      bool
	result   ConfirmResult
}

func newConfirmModel(question string, details []string, defaultYes bool) confirmModel {
	return confirmModel{question: question, details: details, yes: defaultYes}
}

func (m confirmModel) Init() tea.Cmd {
	return nil
}

func (m confirmModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch {
	case key.Matches(keyMsg, confirmKeys.Cancel):
		m.result.Aborted = true
		return m, tea.Quit
	case key.Matches(keyMsg, confirmKeys.Switch):
		m.yes = !m.yes
		return m, nil
	case key.Matches(keyMsg, confirmKeys.Yes):
		m.yes = true
		m.result.Confirmed = true
		return m, tea.Quit
	case key.Matches(keyMsg, confirmKeys.No):
		m.yes = false
		return m, tea.Quit
	case key.Matches(keyMsg, confirmKeys.Accept):
		m.result.Confirmed = m.yes
		return m, tea.Quit
	}
	return m, nil
}

func (m confirmModel) View() string {
	var sb strings.Builder

	sb.WriteString(confirmLabelStyle.Render(m.question) + "\n")
	for _, d := range m.details {
		sb.WriteString(confirmDetailStyle.Render(d) + "\n")
	}
	sb.WriteString("\n")

	yes, no := confirmButtonStyle, confirmActiveStyle
	if m.yes {
		yes, no = confirmActiveStyle, confirmButtonStyle
	}
	sb.WriteString(fmt.Sprintf("  %s  %s\n", yes.Render("Yes"), no.Render("No")))
	sb.WriteString("\n" + confirmHintStyle.Render("←/→: select • enter: confirm • y/n: quick select • esc: cancel"))

	return sb.String()
}

// RunConfirm asks a yes/no question on stderr. details are listed under the
// question, one per line.
func RunConfirm(question string, details []string, defaultYes bool) (ConfirmResult, error) {
	lipgloss.SetDefaultRenderer(lipgloss.NewRenderer(os.Stderr, termenv.WithColorCache(true)))

	p := tea.NewProgram(newConfirmModel(question, details, defaultYes), tea.WithOutput(os.Stderr))
	finalModel, err := p.Run()
	if err != nil {
		return ConfirmResult{Aborted: true}, err
	}
	return finalModel.(confirmModel).result, nil
}
