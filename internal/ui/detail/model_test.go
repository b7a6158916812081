package detail

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhle/taskdash/internal/keys"
	"github.com/nhle/taskdash/internal/model"
)

func sample() model.Task {
	return model.Task{
		ID:       3,
		Text:     "Pack bags",
		Status:   model.StatusInProgress,
		Priority: model.PriorityHigh,
		DueDate:  "2026-10-20",
		DueTime:  "07:00",
		SubTasks: []model.SubTask{{ID: 0, Text: "socks"}, {ID: 1, Text: "charger", Completed: true}},
	}
}

func TestView_EmptyWithoutTask(t *testing.T) {
	m := New(keys.DefaultKeyMap(), 80, 30)
	assert.Contains(t, m.View(), "No task selected")
}

func TestToggleSubTaskUnderCursor(t *testing.T) {
	m := New(keys.DefaultKeyMap(), 80, 30)
	m.SetTask(sample(), "General")
	assert.Contains(t, m.View(), "Pack bags")

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyDown})
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)
	assert.Equal(t, ToggleSubTaskMsg{TaskID: 3, Index: 1}, cmd())
}

func TestCursorStaysInRange(t *testing.T) {
	m := New(keys.DefaultKeyMap(), 80, 30)
	m.SetTask(sample(), "General")

	for i := 0; i < 5; i++ {
		m, _ = m.Update(tea.KeyMsg{Type: tea.KeyDown})
	}
	assert.Equal(t, 1, m.cursor)

	shorter := sample()
	shorter.SubTasks = shorter.SubTasks[:1]
	m.SetTask(shorter, "General")
	assert.Equal(t, 0, m.cursor)
}

func TestBack(t *testing.T) {
	m := New(keys.DefaultKeyMap(), 80, 30)
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	require.NotNil(t, cmd)
	assert.Equal(t, BackMsg{}, cmd())
}

func TestClear(t *testing.T) {
	m := New(keys.DefaultKeyMap(), 80, 30)
	m.SetTask(sample(), "General")
	m.Clear()

	_, ok := m.Task()
	assert.False(t, ok)
}
