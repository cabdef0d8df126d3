package tui

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/tormodhaugland/ft/internal/format"
	"github.com/tormodhaugland/ft/internal/store"
	"github.com/tormodhaugland/ft/internal/tree"
)

// editorMode is what the editor is currently doing with keystrokes.
type editorMode int

const (
	modeBrowse editorMode = iota
	modeCreate
	modeRename
	modeConfirmDelete
	modeMerge
)

type editorKeyMap struct {
	Up      key.Binding
	Down    key.Binding
	Enter   key.Binding
	Back    key.Binding
	Create  key.Binding
	Rename  key.Binding
	Delete  key.Binding
	Merge   key.Binding
	Save    key.Binding
	Format  key.Binding
	Quit    key.Binding
	Discard key.Binding
}

var editorKeys = editorKeyMap{
	Up:      key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
	Down:    key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
	Enter:   key.NewBinding(key.WithKeys("enter", "l", "right"), key.WithHelp("enter", "open")),
	Back:    key.NewBinding(key.WithKeys("backspace", "h", "left"), key.WithHelp("h", "parent")),
	Create:  key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "add")),
	Rename:  key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "rename")),
	Delete:  key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "delete")),
	Merge:   key.NewBinding(key.WithKeys("m"), key.WithHelp("m", "merge template")),
	Save:    key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "save")),
	Format:  key.NewBinding(key.WithKeys("f"), key.WithHelp("f", "raw/formatted")),
	Quit:    key.NewBinding(key.WithKeys("q"), key.WithHelp("q", "save & quit")),
	Discard: key.NewBinding(key.WithKeys("ctrl+c"), key.WithHelp("ctrl+c", "quit without saving")),
}

var (
	editorTitleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212"))
	editorPathStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("63"))
	editorItemStyle    = lipgloss.NewStyle().PaddingLeft(2)
	editorCursorStyle  = lipgloss.NewStyle().PaddingLeft(2).Foreground(lipgloss.Color("212")).Bold(true)
	editorCountStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	editorHintStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	editorErrorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	editorMessageStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
)

// EditorModel edits one template interactively.
type EditorModel struct {
	ctx      context.Context
	store    *store.Store
	name     string
	tree     *tree.Tree
	pipeline *format.Pipeline

	mode      editorMode
	cursor    int
	input     textinput.Model
	showRaw   bool
	dirty     bool
	message   string
	errMsg    string
	quitting  bool
	saveError error
}

// NewEditor returns an editor for the named template, which must be loadable from st.
func NewEditor(ctx context.Context, st *store.Store, name string, pipeline *format.Pipeline) (EditorModel, error) {
	t, err := st.Load(ctx, name)
	if err != nil {
		return EditorModel{}, err
	}
	if pipeline == nil {
		pipeline = format.NewPipeline()
	}

	ti := textinput.New()
	ti.CharLimit = 256
	ti.Width = 40

	return EditorModel{
		ctx:      ctx,
		store:    st,
		name:     name,
		tree:     t,
		pipeline: pipeline,
		input:    ti,
	}, nil
}

func (m EditorModel) Init() tea.Cmd {
	return nil
}

func (m EditorModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	if key.Matches(keyMsg, editorKeys.Discard) {
		m.quitting = true
		return m, tea.Quit
	}

	switch m.mode {
	case modeCreate, modeRename, modeMerge:
		return m.updateInput(keyMsg)
	case modeConfirmDelete:
		return m.updateConfirmDelete(keyMsg)
	}
	return m.updateBrowse(keyMsg)
}

func (m EditorModel) updateBrowse(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	children := m.tree.CurrentChildren()
	m.errMsg = ""
	m.message = ""

	switch {
	case key.Matches(msg, editorKeys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(msg, editorKeys.Down):
		if m.cursor < len(children)-1 {
			m.cursor++
		}
	case key.Matches(msg, editorKeys.Enter):
		if name, ok := m.selected(); ok {
			if err := m.tree.NavigateInto(name); err != nil {
				m.errMsg = err.Error()
			} else {
				m.cursor = 0
			}
		}
	case key.Matches(msg, editorKeys.Back):
		path := m.tree.CurrentPath()
		if err := m.tree.NavigateUp(); err != nil {
			m.errMsg = err.Error()
		} else {
			m.cursor = indexOf(m.tree.CurrentChildren(), path[len(path)-1])
		}
	case key.Matches(msg, editorKeys.Create):
		return m.startInput(modeCreate, "", "names, comma separated")
	case key.Matches(msg, editorKeys.Rename):
		if name, ok := m.selected(); ok {
			return m.startInput(modeRename, name, "new name")
		}
	case key.Matches(msg, editorKeys.Merge):
		return m.startInput(modeMerge, "", "template to merge here")
	case key.Matches(msg, editorKeys.Delete):
		if _, ok := m.selected(); ok {
			m.mode = modeConfirmDelete
		}
	case key.Matches(msg, editorKeys.Format):
		m.showRaw = !m.showRaw
	case key.Matches(msg, editorKeys.Save):
		if err := m.store.Save(m.ctx, m.name); err != nil {
			m.errMsg = err.Error()
		} else {
			m.dirty = false
			m.message = "saved"
		}
	case key.Matches(msg, editorKeys.Quit):
		if m.dirty {
			m.saveError = m.store.Save(m.ctx, m.name)
		}
		m.quitting = true
		return m, tea.Quit
	}
	return m, nil
}

func (m EditorModel) startInput(mode editorMode, value, placeholder string) (tea.Model, tea.Cmd) {
	m.mode = mode
	m.input.Placeholder = placeholder
	m.input.SetValue(value)
	m.input.CursorEnd()
	return m, m.input.Focus()
}

func (m EditorModel) updateInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.mode = modeBrowse
		m.input.Blur()
		return m, nil
	case "enter":
		value := m.input.Value()
		mode := m.mode
		m.mode = modeBrowse
		m.input.Blur()
		m.apply(mode, value)
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *EditorModel) apply(mode editorMode, value string) {
	switch mode {
	case modeCreate:
		created, err := m.tree.CreateFolders(strings.Split(value, ",")...)
		if err != nil {
			m.errMsg = err.Error()
			return
		}
		if len(created) > 0 {
			m.dirty = true
			m.cursor = indexOf(m.tree.CurrentChildren(), created[len(created)-1])
		}
		m.message = fmt.Sprintf("created %d folder(s)", len(created))

	case modeRename:
		oldName, ok := m.selected()
		if !ok {
			return
		}
		if err := m.tree.RenameFolder(oldName, value); err != nil {
			m.errMsg = err.Error()
			return
		}
		m.dirty = true
		m.cursor = indexOf(m.tree.CurrentChildren(), strings.TrimSpace(value))

	case modeMerge:
		source := strings.TrimSpace(value)
		var src *tree.Tree
		var err error
		if source == m.name {
			src = m.tree
		} else {
			src, err = m.store.Load(m.ctx, source)
		}
		if err == nil {
			err = m.tree.CopyInto(src.Root(), m.tree.CurrentPath())
		}
		if err != nil {
			m.errMsg = err.Error()
			return
		}
		m.dirty = true
		m.message = fmt.Sprintf("merged %s", source)
	}
}

func (m EditorModel) updateConfirmDelete(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.mode = modeBrowse
	if msg.String() != "y" && msg.String() != "Y" {
		return m, nil
	}
	name, ok := m.selected()
	if !ok {
		return m, nil
	}
	if err := m.tree.DeleteFolder(name); err != nil {
		m.errMsg = err.Error()
		return m, nil
	}
	m.dirty = true
	if n := len(m.tree.CurrentChildren()); m.cursor >= n && n > 0 {
		m.cursor = n - 1
	}
	return m, nil
}

func (m EditorModel) selected() (string, bool) {
	children := m.tree.CurrentChildren()
	if m.cursor < 0 || m.cursor >= len(children) {
		return "", false
	}
	return children[m.cursor], true
}

func (m EditorModel) displayName(raw string) string {
	if m.showRaw {
		return raw
	}
	return m.pipeline.Apply(raw)
}

func (m EditorModel) View() string {
	if m.quitting {
		return ""
	}
	var sb strings.Builder

	sb.WriteString(editorTitleStyle.Render("Template: "+m.name))
	if m.dirty {
		sb.WriteString(editorCountStyle.Render(" (modified)"))
	}
	sb.WriteString("\n")

	path := make([]string, 0, len(m.tree.CurrentPath()))
	for _, seg := range m.tree.CurrentPath() {
		path = append(path, m.displayName(seg))
	}
	sb.WriteString(editorPathStyle.Render("/"+strings.Join(path, "/")) + "\n\n")

	current := m.tree.Current()
	names := current.Names()
	if len(names) == 0 {
		sb.WriteString(editorCountStyle.Render("  (empty)") + "\n")
	}
	for i, name := range names {
		line := m.displayName(name) + "/"
		if n := current.Child(name).Len(); n > 0 {
			line += editorCountStyle.Render(fmt.Sprintf(" %d", n))
		}
		if i == m.cursor {
			sb.WriteString(editorCursorStyle.Render("> "+line) + "\n")
		} else {
			sb.WriteString(editorItemStyle.Render("  "+line) + "\n")
		}
	}

	sb.WriteString("\n")
	switch m.mode {
	case modeCreate:
		sb.WriteString("Add: " + m.input.View() + "\n")
	case modeRename:
		sb.WriteString("Rename to: " + m.input.View() + "\n")
	case modeMerge:
		sb.WriteString("Merge template: " + m.input.View() + "\n")
	case modeConfirmDelete:
		name, _ := m.selected()
		sb.WriteString(editorErrorStyle.Render(fmt.Sprintf("Delete %s and everything below it? (y/n)", name)) + "\n")
	}

	if m.errMsg != "" {
		sb.WriteString(editorErrorStyle.Render("Error: "+m.errMsg) + "\n")
	} else if m.message != "" {
		sb.WriteString(editorMessageStyle.Render(m.message) + "\n")
	}

	sb.WriteString(editorHintStyle.Render(m.helpLine()))
	return sb.String()
}

func (m EditorModel) helpLine() string {
	if m.mode != modeBrowse {
		return "enter: confirm • esc: cancel"
	}
	bindings := []key.Binding{
		editorKeys.Enter, editorKeys.Back, editorKeys.Create, editorKeys.Rename,
		editorKeys.Delete, editorKeys.Merge, editorKeys.Format, editorKeys.Save, editorKeys.Quit,
	}
	parts := make([]string, 0, len(bindings))
	for _, b := range bindings {
		parts = append(parts, b.Help().Key+": "+b.Help().Desc)
	}
	return strings.Join(parts, " • ")
}

func indexOf(names []string, name string) int {
	for i, n := range names {
		if n == name {
			return i
		}
	}
	return 0
}

// RunEditor opens the editor TUI for a template.
func RunEditor(ctx context.Context, st *store.Store, name string, pipeline *format.Pipeline) error {
	m, err := NewEditor(ctx, st, name, pipeline)
	if err != nil {
		return err
	}

	lipgloss.SetDefaultRenderer(lipgloss.NewRenderer(os.Stderr, termenv.WithColorCache(true)))
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithOutput(os.Stderr))

	finalModel, err := p.Run()
	if err != nil {
		return err
	}
	return finalModel.(EditorModel).saveError
}
