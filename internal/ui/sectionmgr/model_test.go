package sectionmgr

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhle/taskdash/internal/keys"
	"github.com/nhle/taskdash/internal/model"
)

func newManager() Model {
	m := New(keys.DefaultKeyMap(), 80, 24)
	m.SetSections([]model.Section{
		{ID: model.DefaultSectionID, Name: "General"},
		{ID: "work", Name: "Work"},
	}, model.DefaultSectionID, map[string]int{"work": 2})
	return m
}

func press(m Model, s string) (Model, tea.Cmd) {
	return m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)})
}

func TestSelectEmitsID(t *testing.T) {
	m := newManager()
	m, _ = press(m, "j")

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)
	assert.Equal(t, SelectMsg{ID: "work"}, cmd())
}

func TestDeleteDefaultIsRefused(t *testing.T) {
	m := newManager()

	m, cmd := press(m, "d")
	assert.Nil(t, cmd)
	assert.False(t, m.InForm())
	assert.Contains(t, m.View(), "cannot be deleted")
}

func TestRenameDefaultIsRefused(t *testing.T) {
	m := newManager()

	m, cmd := press(m, "e")
	assert.Nil(t, cmd)
	assert.False(t, m.InForm())
	assert.Contains(t, m.View(), "cannot be renamed")
}

func TestRenameOpensForm(t *testing.T) {
	m := newManager()
	m, _ = press(m, "j")

	m, _ = press(m, "e")
	assert.True(t, m.InForm())
}

func TestDeleteOpensConfirmation(t *testing.T) {
	m := newManager()
	m, _ = press(m, "j")

	m, _ = press(m, "d")
	assert.True(t, m.InForm())
	assert.Contains(t, m.View(), `Delete section "Work"?`)
}

func TestNewOpensForm(t *testing.T) {
	m := newManager()
	m, _ = press(m, "n")
	assert.True(t, m.InForm())
}

func TestBackCloses(t *testing.T) {
	m := newManager()
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	require.NotNil(t, cmd)
	assert.Equal(t, CloseMsg{}, cmd())
}

func TestSetSectionsClampsCursor(t *testing.T) {
	m := newManager()
	m, _ = press(m, "j")
	m.SetSections([]model.Section{{ID: model.DefaultSectionID, Name: "General"}}, model.DefaultSectionID, nil)

	s, ok := m.selected()
	require.True(t, ok)
	assert.Equal(t, model.DefaultSectionID, s.ID)
}

func TestEscLeavesForm(t *testing.T) {
	m := newManager()
	m, _ = press(m, "n")
	require.True(t, m.InForm())

	m, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	assert.Nil(t, cmd)
	assert.False(t, m.InForm())
}
