package tui

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
)

func TestConfirmKeys(t *testing.T) {
	tests := []struct {
		name       string
		defaultYes bool
		keys       []tea.KeyMsg
		want       ConfirmResult
	}{
		{"enter takes default yes", true, []tea.KeyMsg{{Type: tea.KeyEnter}}, ConfirmResult{Confirmed: true}},
		{"enter takes default no", false, []tea.KeyMsg{{Type: tea.KeyEnter}}, ConfirmResult{}},
		{"switch then enter", true, []tea.KeyMsg{{Type: tea.KeyTab}, {Type: tea.KeyEnter}}, ConfirmResult{}},
		{"quick yes", false, []tea.KeyMsg{{Type: tea.KeyRunes, Runes: []rune("y")}}, ConfirmResult{Confirmed: true}},
		{"quick no", true, []tea.KeyMsg{{Type: tea.KeyRunes, Runes: []rune("n")}}, ConfirmResult{}},
		{"esc aborts", true, []tea.KeyMsg{{Type: tea.KeyEsc}}, ConfirmResult{Aborted: true}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var model tea.Model = newConfirmModel("Remove?", nil, tt.defaultYes)
			for _, k := range tt.keys {
				model, _ = model.Update(k)
			}
			assert.Equal(t, tt.want, model.(confirmModel).result)
		})
	}
}

func TestConfirmViewListsDetails(t *testing.T) {
	view := newConfirmModel("Remove 2 files?", []string{"/a.tmp", "/b.tmp"}, true).View()
	assert.Contains(t, view, "Remove 2 files?")
	assert.Contains(t, view, "/a.tmp")
	assert.Contains(t, view, "/b.tmp")
}
