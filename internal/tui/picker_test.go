package tui

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPickerSelectsTemplate(t *testing.T) {
	m := newPickerModel([]TemplateSummary{{Name: "go-service", Folders: 4}, {Name: "notes", Folders: 1}})

	updated, _ := m.Update(tea.KeyMsg{Type: tea.KeyDown})
	updated, cmd := updated.(pickerModel).Update(tea.KeyMsg{Type: tea.KeyEnter})

	require.NotNil(t, cmd)
	result := updated.(pickerModel).result
	assert.False(t, result.Abort)
	assert.Equal(t, "notes", result.Selected)
}

func TestPickerEscAborts(t *testing.T) {
	m := newPickerModel([]TemplateSummary{{Name: "go-service"}})

	updated, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEsc})

	require.NotNil(t, cmd)
	assert.True(t, updated.(pickerModel).result.Abort)
}

func TestTemplateItemDescription(t *testing.T) {
	assert.Equal(t, "1 folder", templateItem{TemplateSummary{Folders: 1}}.Description())
	assert.Equal(t, "3 folders", templateItem{TemplateSummary{Folders: 3}}.Description())
}
