package todoform

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/taskdash/internal/board"
	"github.com/nhle/taskdash/internal/model"
	"github.com/nhle/taskdash/internal/theme"
)

// SubmittedMsg is dispatched when the form passes validation. TaskID is
// zero when creating a task.
type SubmittedMsg struct {
	TaskID int64
	Input  board.TaskInput
}

// CancelMsg is dispatched when the user cancels the form.
type CancelMsg struct{}

// formBindings holds form field values on the heap so that huh's Value()
// pointers remain valid across Bubble Tea model copies.
type formBindings struct {
	text        string
	description string
	dueDate     string
	dueTime     string
	priority    model.Priority
	subtasks    string
}

// Model is the Bubble Tea model for the task create/edit form.
type Model struct {
	form     *huh.Form
	fb       *formBindings
	editMode bool
	editID   int64
	err      string
	width    int
	height   int
}

// New creates a new task form model.
func New(width, height int) Model {
	return Model{
		fb:     &formBindings{priority: model.PriorityMedium},
		width:  width,
		height: height,
	}
}

// StartCreate opens an empty form. The due date defaults to today.
func (m *Model) StartCreate(now time.Time) tea.Cmd {
	m.editMode = false
	m.editID = 0
	m.err = ""
	*m.fb = formBindings{
		dueDate:  now.Format(model.DateLayout),
		priority: model.PriorityMedium,
	}
	m.form = m.buildForm()
	return m.form.Init()
}

// StartEdit opens the form filled with task's values.
func (m *Model) StartEdit(task model.Task) tea.Cmd {
	m.editMode = true
	m.editID = task.ID
	m.err = ""

	lines := make([]string, len(task.SubTasks))
	for i, s := range task.SubTasks {
		lines[i] = s.Text
	}
	*m.fb = formBindings{
		text:        task.Text,
		description: task.Description,
		dueDate:     task.DueDate,
		dueTime:     task.DueTime,
		priority:    task.Priority,
		subtasks:    strings.Join(lines, "\n"),
	}
	m.form = m.buildForm()
	return m.form.Init()
}

// Editing reports whether the form edits an existing task.
func (m Model) Editing() bool {
	return m.editMode
}

// Err returns the message that blocked the last submission.
func (m Model) Err() string {
	return m.err
}

// Update handles messages for the task form.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if m.form == nil {
		return m, nil
	}
	if k, ok := msg.(tea.KeyMsg); ok && k.Type == tea.KeyEsc {
		m.form = nil
		return m, func() tea.Msg { return CancelMsg{} }
	}

	mdl, cmd := m.form.Update(msg)
	if f, ok := mdl.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State == huh.StateCompleted {
		return m.handleSubmit()
	}
	if m.form.State == huh.StateAborted {
		return m, func() tea.Msg { return CancelMsg{} }
	}

	return m, cmd
}

// View renders the task form.
func (m Model) View() string {
	if m.form == nil {
		return ""
	}

	titleText := "New Task"
	if m.editMode {
		titleText = "Edit Task"
	}

	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(theme.ColorWhite).
		MarginBottom(1)

	content := titleStyle.Render(titleText) + "\n"
	if m.err != "" {
		content += theme.ErrorStyle.Render(m.err) + "\n\n"
	}
	content += m.form.View()

	return lipgloss.NewStyle().
		Padding(1, 2).
		Render(content)
}

// SetSize updates the form dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}

func (m *Model) buildForm() *huh.Form {
	priorities := make([]huh.Option[model.Priority], len(model.Priorities))
	for i, p := range model.Priorities {
		priorities[i] = huh.NewOption(PriorityLabel(p), p)
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Todo name").
				Placeholder("What needs to be done?").
				Value(&m.fb.text),
			huh.NewText().
				Title("Description").
				Placeholder("Optional details...").
				Value(&m.fb.description),
			huh.NewInput().
				Title("Due date").
				Placeholder("YYYY-MM-DD").
				Value(&m.fb.dueDate).
				Validate(validateOptionalLayout(model.DateLayout, "YYYY-MM-DD")),
			huh.NewInput().
				Title("Due time").
				Placeholder("HH:MM").
				Value(&m.fb.dueTime).
				Validate(validateOptionalLayout(model.TimeLayout, "HH:MM")),
			huh.NewSelect[model.Priority]().
				Title("Priority").
				Options(priorities...).
				Value(&m.fb.priority),
			huh.NewText().
				Title("Subtasks").
				Placeholder("One per line").
				Value(&m.fb.subtasks),
		),
	).WithWidth(m.formWidth()).WithHeight(m.formHeight()).WithShowErrors(true)
}

// handleSubmit checks the required fields. On failure the form is rebuilt
// with the entered values and stays open.
func (m Model) handleSubmit() (Model, tea.Cmd) {
	input := m.Input()
	if err := input.Validate(); err != nil {
		m.err = err.Error()
		m.form = m.buildForm()
		return m, m.form.Init()
	}

	m.err = ""
	id := m.editID
	if !m.editMode {
		id = 0
	}
	return m, func() tea.Msg { return SubmittedMsg{TaskID: id, Input: input} }
}

// Input returns the current field values as a TaskInput. Blank subtask
// lines are dropped.
func (m Model) Input() board.TaskInput {
	return board.TaskInput{
		Text:        strings.TrimSpace(m.fb.text),
		Description: strings.TrimSpace(m.fb.description),
		DueDate:     strings.TrimSpace(m.fb.dueDate),
		DueTime:     strings.TrimSpace(m.fb.dueTime),
		Priority:    m.fb.priority,
		SubTasks:    ParseSubTasks(m.fb.subtasks),
	}
}

// PriorityLabel returns the display name of p.
func PriorityLabel(p model.Priority) string {
	switch p {
	case model.PriorityHigh:
		return "High"
	case model.PriorityLow:
		return "Low"
	default:
		return "Medium"
	}
}

// ParseSubTasks splits text into one subtask per non-blank line.
func ParseSubTasks(text string) []string {
	var out []string
	for _, line := range strings.Split(text, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			out = append(out, line)
		}
	}
	return out
}

func (m Model) formWidth() int {
	w := m.width - 4
	if w < 40 {
		w = 40
	}
	if w > 100 {
		w = 100
	}
	return w
}

func (m Model) formHeight() int {
	h := m.height - 6
	if h < 12 {
		h = 12
	}
	return h
}

// validateOptionalLayout accepts an empty value or one that parses with
// layout. Emptiness is checked on submit.
func validateOptionalLayout(layout, hint string) func(string) error {
	return func(s string) error {
		s = strings.TrimSpace(s)
		if s == "" {
			return nil
		}
		if _, err := time.Parse(layout, s); err != nil {
			return fmt.Errorf("invalid format, use %s", hint)
		}
		return nil
	}
}
