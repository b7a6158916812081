package detail

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/taskdash/internal/derived"
	"github.com/nhle/taskdash/internal/keys"
	"github.com/nhle/taskdash/internal/model"
	"github.com/nhle/taskdash/internal/theme"
)

// BackMsg signals the parent to navigate back to the previous view.
type BackMsg struct{}

// ToggleSubTaskMsg asks the parent to flip one subtask.
type ToggleSubTaskMsg struct {
	TaskID int64
	Index  int
}

// Model is the task detail view component.
type Model struct {
	task        *model.Task
	sectionName string
	cursor      int
	viewport    viewport.Model
	bar         progress.Model
	keys        *keys.KeyMap
	width       int
	height      int
}

// New creates a new detail view model.
func New(k *keys.KeyMap, width, height int) Model {
	vp := viewport.New(width, height)
	vp.Style = lipgloss.NewStyle()

	from, to := theme.ProgressColors()
	return Model{
		viewport: vp,
		bar:      progress.New(progress.WithGradient(from, to)),
		keys:     k,
		width:    width,
		height:   height,
	}
}

// SetTask shows task. A task with a different id resets the subtask cursor.
func (m *Model) SetTask(task model.Task, sectionName string) {
	if m.task == nil || m.task.ID != task.ID {
		m.cursor = 0
		m.viewport.GotoTop()
	}
	if m.cursor >= len(task.SubTasks) {
		m.cursor = max(len(task.SubTasks)-1, 0)
	}
	m.task = &task
	m.sectionName = sectionName
	m.viewport.SetContent(m.renderContent())
}

// Clear removes the shown task, for example after it was deleted.
func (m *Model) Clear() {
	m.task = nil
	m.viewport.SetContent("")
}

// Task returns the task being shown.
func (m Model) Task() (model.Task, bool) {
	if m.task == nil {
		return model.Task{}, false
	}
	return *m.task, true
}

// Update handles messages for the detail view.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(msg, m.keys.Back):
			return m, func() tea.Msg { return BackMsg{} }

		case key.Matches(msg, m.keys.Down):
			if m.task != nil && m.cursor < len(m.task.SubTasks)-1 {
				m.cursor++
				m.viewport.SetContent(m.renderContent())
			}
			return m, nil

		case key.Matches(msg, m.keys.Up):
			if m.cursor > 0 {
				m.cursor--
				m.viewport.SetContent(m.renderContent())
			}
			return m, nil

		case key.Matches(msg, m.keys.Select):
			if m.task == nil || len(m.task.SubTasks) == 0 {
				return m, nil
			}
			id, idx := m.task.ID, m.task.SubTasks[m.cursor].ID
			return m, func() tea.Msg { return ToggleSubTaskMsg{TaskID: id, Index: idx} }
		}
	}

	// Delegate to viewport for scrolling (pgup/pgdn)
	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

// View renders the detail view.
func (m Model) View() string {
	if m.task == nil {
		return lipgloss.NewStyle().
			Width(m.width).
			Height(m.height).
			Align(lipgloss.Center, lipgloss.Center).
			Foreground(theme.ColorGray).
			Render("No task selected")
	}
	return m.viewport.View()
}

// renderContent builds the full detail content string for the viewport.
func (m Model) renderContent() string {
	if m.task == nil {
		return ""
	}
	task := m.task
	var sections []string

	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(theme.ColorWhite)
	title := task.Text
	if task.Important {
		title = theme.ImportantStyle.Render("★ ") + title
	}
	sections = append(sections, titleStyle.Render(title))

	meta := []string{
		field("Status", theme.StatusStyle(task.Status).Render(string(task.Status))),
		field("Priority", theme.PriorityStyle(task.Priority).Render(string(task.Priority))),
		field("Due", strings.TrimSpace(task.DueDate+" "+task.DueTime)),
		field("Section", m.sectionName),
		field("Done", yesNo(task.Completed)),
	}
	sections = append(sections, strings.Join(meta, "\n"))

	if task.Description != "" {
		sections = append(sections,
			theme.LabelStyle.Render("Description"),
			lipgloss.NewStyle().Width(m.contentWidth()).Render(task.Description))
	}

	if len(task.SubTasks) > 0 {
		bar := m.bar
		bar.Width = min(m.contentWidth(), 40)
		sections = append(sections,
			theme.LabelStyle.Render(fmt.Sprintf("Subtasks (%.0f%%)", derived.SubTaskProgress(*task))),
			bar.ViewAs(derived.SubTaskProgress(*task)/100))

		var rows []string
		for i, s := range task.SubTasks {
			box := "[ ]"
			if s.Completed {
				box = "[x]"
			}
			line := fmt.Sprintf("%s %s", box, s.Text)
			if i == m.cursor {
				rows = append(rows, theme.SelectedItemStyle.Render(line))
			} else {
				rows = append(rows, theme.ListItemStyle.Render(line))
			}
		}
		sections = append(sections, strings.Join(rows, "\n"))
	}

	sections = append(sections, theme.HelpStyle.Render(
		"j/k move | enter toggle subtask | e edit | s status | * important | esc back"))

	return theme.DetailPanelStyle.
		Width(m.contentWidth() + 4).
		Render(strings.Join(sections, "\n\n"))
}

func (m Model) contentWidth() int {
	w := m.width - 8
	if w < 20 {
		w = 20
	}
	return w
}

func field(label, value string) string {
	return theme.LabelStyle.Render(fmt.Sprintf("%-9s", label)) + " " + value
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

// SetSize updates the detail view dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.viewport.Width = width
	m.viewport.Height = height
	m.viewport.SetContent(m.renderContent())
}
