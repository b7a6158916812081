package notifications

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/taskdash/internal/keys"
	"github.com/nhle/taskdash/internal/model"
	"github.com/nhle/taskdash/internal/theme"
)

// DismissMsg asks the parent to hide one notification.
type DismissMsg struct{ ID string }

// OpenTaskMsg asks the parent to show the task behind a notification.
type OpenTaskMsg struct{ TaskID int64 }

// Model lists the current due-soon and overdue notifications.
type Model struct {
	keys   *keys.KeyMap
	items  []model.Notification
	cursor int
	width  int
}

// New creates a notification list view.
func New(k *keys.KeyMap, width int) Model {
	return Model{keys: k, width: width}
}

// SetNotifications replaces the list, keeping the cursor in range.
func (m *Model) SetNotifications(items []model.Notification) {
	m.items = items
	if m.cursor >= len(items) {
		m.cursor = max(len(items)-1, 0)
	}
}

// Count returns the number of notifications shown.
func (m Model) Count() int {
	return len(m.items)
}

// Update handles messages for the notification list.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok || len(m.items) == 0 {
		return m, nil
	}

	switch {
	case key.Matches(keyMsg, m.keys.Down):
		m.cursor = (m.cursor + 1) % len(m.items)
	case key.Matches(keyMsg, m.keys.Up):
		m.cursor = (m.cursor - 1 + len(m.items)) % len(m.items)
	case key.Matches(keyMsg, m.keys.Dismiss):
		id := m.items[m.cursor].ID
		return m, func() tea.Msg { return DismissMsg{ID: id} }
	case key.Matches(keyMsg, m.keys.Select):
		id := m.items[m.cursor].TaskID
		return m, func() tea.Msg { return OpenTaskMsg{TaskID: id} }
	}
	return m, nil
}

// View renders the notification list.
func (m Model) View() string {
	var b strings.Builder
	b.WriteString(theme.HeaderStyle.Render(fmt.Sprintf("Notifications (%d)", len(m.items))))
	b.WriteString("\n\n")

	if len(m.items) == 0 {
		b.WriteString(theme.HelpStyle.Render("Nothing due in the next hour."))
		return lipgloss.NewStyle().Padding(1, 2).Render(b.String())
	}

	for i, n := range m.items {
		icon := "ⓘ"
		if n.Severity == model.SeverityWarning {
			icon = "⚠"
		}
		line := theme.SeverityStyle(n.Severity).Render(icon) + " " + n.Message
		if i == m.cursor {
			b.WriteString(theme.SelectedItemStyle.Render(line))
		} else {
			b.WriteString(theme.ListItemStyle.Render(line))
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(theme.HelpStyle.Render("x dismiss | enter open task"))
	return lipgloss.NewStyle().Padding(1, 2).Render(b.String())
}

// SetSize updates the view width.
func (m *Model) SetSize(width int) {
	m.width = width
}
