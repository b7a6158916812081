package todoform

import (
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhle/taskdash/internal/board"
	"github.com/nhle/taskdash/internal/model"
)

func TestParseSubTasks(t *testing.T) {
	assert.Nil(t, ParseSubTasks(""))
	assert.Equal(t, []string{"a", "b"}, ParseSubTasks("  a \n\n   \nb\n"))
}

func TestStartEdit_PrefillsValues(t *testing.T) {
	m := New(80, 40)
	m.StartEdit(model.Task{
		ID:       4,
		Text:     "Pack",
		DueDate:  "2026-10-20",
		DueTime:  "07:15",
		Priority: model.PriorityLow,
		SubTasks: []model.SubTask{{ID: 0, Text: "socks", Completed: true}, {ID: 1, Text: "charger"}},
	})

	assert.True(t, m.Editing())
	in := m.Input()
	assert.Equal(t, "Pack", in.Text)
	assert.Equal(t, "07:15", in.DueTime)
	assert.Equal(t, model.PriorityLow, in.Priority)
	assert.Equal(t, []string{"socks", "charger"}, in.SubTasks)
}

func TestStartCreate_DefaultsDueDate(t *testing.T) {
	m := New(80, 40)
	m.StartCreate(time.Date(2026, 10, 19, 8, 0, 0, 0, time.UTC))

	assert.False(t, m.Editing())
	in := m.Input()
	assert.Equal(t, "2026-10-19", in.DueDate)
	assert.Empty(t, in.DueTime)
	assert.Equal(t, model.PriorityMedium, in.Priority)
}

func TestHandleSubmit_BlocksMissingFields(t *testing.T) {
	m := New(80, 40)
	m.StartCreate(time.Date(2026, 10, 19, 8, 0, 0, 0, time.UTC))
	m.fb.text = "Call bank"

	m, _ = m.handleSubmit()
	assert.Equal(t, board.RequiredFieldsMessage, m.Err())
	assert.Contains(t, m.View(), board.RequiredFieldsMessage)
	assert.Equal(t, "Call bank", m.Input().Text, "entered values survive")
}

func TestHandleSubmit_EmitsInput(t *testing.T) {
	m := New(80, 40)
	m.StartEdit(model.Task{ID: 9, Text: "x", DueDate: "2026-10-19", DueTime: "10:00", Priority: model.PriorityHigh})

	m, cmd := m.handleSubmit()
	require.NotNil(t, cmd)
	assert.Empty(t, m.Err())

	msg, ok := cmd().(SubmittedMsg)
	require.True(t, ok)
	assert.Equal(t, int64(9), msg.TaskID)
	assert.Equal(t, "x", msg.Input.Text)
}

func TestUpdate_WithoutFormIsNoOp(t *testing.T) {
	m := New(80, 40)
	m, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	assert.Nil(t, cmd)
	assert.Empty(t, m.View())
}

func TestUpdate_EscCancels(t *testing.T) {
	m := New(80, 24)
	m.StartCreate(time.Date(2026, 10, 19, 9, 0, 0, 0, time.Local))

	m, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	require.NotNil(t, cmd)
	assert.Equal(t, CancelMsg{}, cmd())
	assert.Empty(t, m.View())
}
