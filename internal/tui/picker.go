package tui

import (
	"fmt"
	"os"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

var (
	pickerTitleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212")).MarginBottom(1)
	pickerHintStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

// TemplateSummary is one row in the template picker.
type TemplateSummary struct {
	Name    string
	Folders int
}

// PickResult holds the outcome of the template picker.
type PickResult struct {
	Selected string
	Abort    bool
}

type templateItem struct {
	TemplateSummary
}

func (i templateItem) Title() string { return i.Name }
func (i templateItem) Description() string {
	if i.Folders == 1 {
		return "1 folder"
	}
	return fmt.Sprintf("%d folders", i.Folders)
}
func (i templateItem) FilterValue() string { return i.Name }

type pickerModel struct {
	list   list.Model
	result PickResult
}

func newPickerModel(templates []TemplateSummary) pickerModel {
	items := make([]list.Item, 0, len(templates))
	for _, t := range templates {
		items = append(items, templateItem{t})
	}

	delegate := list.NewDefaultDelegate()
	delegate.Styles.SelectedTitle = delegate.Styles.SelectedTitle.Foreground(lipgloss.Color("212"))
	delegate.Styles.SelectedDesc = delegate.Styles.SelectedDesc.Foreground(lipgloss.Color("241"))

	l := list.New(items, delegate, 60, 15)
	l.Title = "Select Template"
	l.Styles.Title = pickerTitleStyle
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(true)
	l.SetShowHelp(false)

	return pickerModel{list: l}
}

func (m pickerModel) Init() tea.Cmd {
	return nil
}

func (m pickerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.list.SetSize(msg.Width-4, msg.Height-4)
		return m, nil

	case tea.KeyMsg:
		if m.list.FilterState() == list.Filtering {
			break
		}

		switch msg.String() {
		case "ctrl+c", "esc", "q":
			m.result.Abort = true
			return m, tea.Quit

		case "enter":
			if item, ok := m.list.SelectedItem().(templateItem); ok {
				m.result.Selected = item.Name
				return m, tea.Quit
			}
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m pickerModel) View() string {
	return m.list.View() + "\n" + pickerHintStyle.Render("enter: edit • /: search • esc: cancel")
}

// RunPicker lets the user choose a template to edit.
func RunPicker(templates []TemplateSummary) (PickResult, error) {
	if len(templates) == 0 {
		return PickResult{Abort: true}, fmt.Errorf("no templates found")
	}

	lipgloss.SetDefaultRenderer(lipgloss.NewRenderer(os.Stderr, termenv.WithColorCache(true)))

	p := tea.NewProgram(newPickerModel(templates), tea.WithOutput(os.Stderr))
	finalModel, err := p.Run()
	if err != nil {
		return PickResult{Abort: true}, err
	}
	return finalModel.(pickerModel).result, nil
}
