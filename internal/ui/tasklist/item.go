package tasklist

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/nhle/taskdash/internal/model"
	"github.com/nhle/taskdash/internal/theme"
)

// TaskItem wraps a model.Task so it can be used in a bubbles/list.
type TaskItem struct {
	Task model.Task
}

// FilterValue returns the string used for filtering.
func (i TaskItem) FilterValue() string { return i.Task.Text }

// Title returns the task text for the list.
func (i TaskItem) Title() string { return i.Task.Text }

// Description returns a short summary line for the list.
func (i TaskItem) Description() string {
	parts := []string{string(i.Task.Status), string(i.Task.Priority)}
	if i.Task.DueDate != "" {
		parts = append(parts, strings.TrimSpace(i.Task.DueDate+" "+i.Task.DueTime))
	}
	return strings.Join(parts, " | ")
}

// ItemDelegate implements list.ItemDelegate for rendering task rows.
type ItemDelegate struct {
	// now is shared with the Model so overdue markers follow the clock.
	now *time.Time
}

// Height returns the number of lines each item takes.
func (d ItemDelegate) Height() int { return 1 }

// Spacing returns the number of blank lines between items.
func (d ItemDelegate) Spacing() int { return 0 }

// Update handles per-item messages (unused).
func (d ItemDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd {
	return nil
}

// Render draws a single task row.
func (d ItemDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	ti, ok := item.(TaskItem)
	if !ok {
		return
	}
	task := ti.Task

	prefix := "○"
	if task.Completed {
		prefix = "✓"
	}

	star := " "
	if task.Important {
		star = theme.ImportantStyle.Render("★")
	}

	statusBadge := theme.StatusStyle(task.Status).Render(string(task.Status))
	priBadge := theme.PriorityStyle(task.Priority).Render(priorityLabel(task.Priority))

	due := ""
	if task.DueDate != "" {
		due = theme.DueDateStyle.Render(" " + formatDue(task))
	}

	overdue := ""
	if d.now != nil && isOverdue(task, *d.now) {
		overdue = theme.OverdueStyle.Render(" OVERDUE")
	}

	subs := ""
	if n := len(task.SubTasks); n > 0 {
		done := 0
		for _, s := range task.SubTasks {
			if s.Completed {
				done++
			}
		}
		subs = theme.DueDateStyle.Render(fmt.Sprintf(" [%d/%d]", done, n))
	}

	line := fmt.Sprintf("%s %s %s %s %s%s%s%s",
		prefix, star, priBadge, statusBadge, task.Text, subs, due, overdue)

	if task.Completed {
		line = theme.DimmedStyle.Render(line)
	}

	if index == m.Index() {
		line = theme.SelectedItemStyle.Render(line)
	} else {
		line = theme.ListItemStyle.Render(line)
	}

	fmt.Fprint(w, line)
}

// formatDue renders the due date in a short, locale-neutral form.
func formatDue(t model.Task) string {
	date, err := time.Parse(model.DateLayout, t.DueDate)
	if err != nil {
		return t.DueDate
	}
	s := date.Format("Mon Jan 02")
	if t.DueTime != "" {
		s += " " + t.DueTime
	}
	return s
}

func isOverdue(t model.Task, now time.Time) bool {
	if t.Completed {
		return false
	}
	due, ok := t.Due(now.Location())
	return ok && !due.After(now)
}

// priorityLabel returns a short label for the given priority.
func priorityLabel(p model.Priority) string {
	switch p {
	case model.PriorityHigh:
		return "H"
	case model.PriorityMedium:
		return "M"
	case model.PriorityLow:
		return "L"
	default:
		return "?"
	}
}
