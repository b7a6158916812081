package calendar

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/taskdash/internal/derived"
	"github.com/nhle/taskdash/internal/keys"
	"github.com/nhle/taskdash/internal/model"
	"github.com/nhle/taskdash/internal/theme"
)

var weekdays = []string{"Sun", "Mon", "Tue", "Wed", "Thu", "Fri", "Sat"}

// Model is the month calendar view. Days with tasks are highlighted and the
// tasks of the selected day are listed under the grid.
type Model struct {
	keys  *keys.KeyMap
	tasks []model.Task
	grid  derived.Month
	year  int
	month time.Month
	day   int
	today time.Time
	width int
}

// New creates a calendar showing the month of now.
func New(k *keys.KeyMap, now time.Time, width int) Model {
	m := Model{
		keys:  k,
		year:  now.Year(),
		month: now.Month(),
		day:   now.Day(),
		today: now,
		width: width,
	}
	m.rebuild()
	return m
}

// SetTasks replaces the tasks and the reference time for "today".
func (m *Model) SetTasks(tasks []model.Task, now time.Time) {
	m.tasks = tasks
	m.today = now
	m.rebuild()
}

// Month returns the displayed year and month.
func (m Model) Month() (int, time.Month) {
	return m.year, m.month
}

// SelectedDay returns the highlighted day of month.
func (m Model) SelectedDay() int {
	return m.day
}

// Grid returns the bucketed month being shown.
func (m Model) Grid() derived.Month {
	return m.grid
}

// Update handles messages for the calendar.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch {
	case key.Matches(keyMsg, m.keys.PrevMonth):
		m.shiftMonth(-1)
	case key.Matches(keyMsg, m.keys.NextMonth):
		m.shiftMonth(1)
	case key.Matches(keyMsg, m.keys.Down):
		m.shiftDay(1)
	case key.Matches(keyMsg, m.keys.Up):
		m.shiftDay(-1)
	}
	return m, nil
}

func (m *Model) shiftMonth(delta int) {
	first := time.Date(m.year, m.month+time.Month(delta), 1, 0, 0, 0, 0, time.Local)
	m.year, m.month = first.Year(), first.Month()
	m.rebuild()
}

func (m *Model) shiftDay(delta int) {
	d := time.Date(m.year, m.month, m.day+delta, 0, 0, 0, 0, time.Local)
	if d.Year() != m.year || d.Month() != m.month {
		m.year, m.month = d.Year(), d.Month()
	}
	m.day = d.Day()
	m.rebuild()
}

func (m *Model) rebuild() {
	m.grid = derived.CalendarMonth(m.tasks, m.year, m.month)
	if m.day > m.grid.DaysInMonth {
		m.day = m.grid.DaysInMonth
	}
	if m.day < 1 {
		m.day = 1
	}
}

// View renders the month grid and the selected day's tasks.
func (m Model) View() string {
	var b strings.Builder

	first := time.Date(m.year, m.month, 1, 0, 0, 0, 0, time.Local)
	b.WriteString(theme.HeaderStyle.Render(first.Format("January 2006")))
	b.WriteString("\n")
	b.WriteString(theme.HelpStyle.Render("h/l prev/next month | j/k next/prev day"))
	b.WriteString("\n\n")

	for _, wd := range weekdays {
		b.WriteString(theme.CalendarHeaderStyle.Render(wd))
	}
	b.WriteString("\n")

	cells := make([]string, 0, m.grid.LeadingBlanks+m.grid.DaysInMonth)
	for i := 0; i < m.grid.LeadingBlanks; i++ {
		cells = append(cells, theme.CalendarDayStyle.Render(""))
	}
	for day := 1; day <= m.grid.DaysInMonth; day++ {
		cells = append(cells, m.renderDay(day))
	}
	for i := 0; i < len(cells); i += 7 {
		end := min(i+7, len(cells))
		b.WriteString(strings.Join(cells[i:end], ""))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(m.renderAgenda())

	return lipgloss.NewStyle().Padding(1, 2).Render(b.String())
}

func (m Model) renderDay(day int) string {
	label := fmt.Sprintf("%2d", day)
	if n := len(m.grid.TasksOn(day)); n > 0 {
		label = fmt.Sprintf("%2d•%d", day, n)
	}

	isToday := m.today.Year() == m.year && m.today.Month() == m.month && m.today.Day() == day
	switch {
	case day == m.day:
		return theme.CalendarSelectedStyle.Render(label)
	case isToday:
		return theme.CalendarTodayStyle.Render(label)
	case len(m.grid.TasksOn(day)) > 0:
		return theme.CalendarBusyDayStyle.Render(label)
	default:
		return theme.CalendarDayStyle.Render(label)
	}
}

func (m Model) renderAgenda() string {
	date := time.Date(m.year, m.month, m.day, 0, 0, 0, 0, time.Local)
	var b strings.Builder
	b.WriteString(theme.LabelStyle.Render(date.Format("Monday, January 2")))
	b.WriteString("\n")

	tasks := m.grid.TasksOn(m.day)
	if len(tasks) == 0 {
		b.WriteString(theme.HelpStyle.Render("  nothing due"))
		return b.String()
	}
	for _, t := range tasks {
		box := "○"
		if t.Completed {
			box = "✓"
		}
		line := fmt.Sprintf("  %s %s %s", box, t.DueTime, t.Text)
		if t.Completed {
			line = theme.DimmedStyle.Render(line)
		}
		b.WriteString(line)
		b.WriteString("\n")
	}
	return b.String()
}

// SetSize updates the calendar width.
func (m *Model) SetSize(width int) {
	m.width = width
}
