package tasklist

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/taskdash/internal/keys"
	"github.com/nhle/taskdash/internal/model"
	"github.com/nhle/taskdash/internal/theme"
)

// SelectedTaskMsg is sent when a user selects a task to view details.
type SelectedTaskMsg struct {
	TaskID int64
}

// SearchMsg is sent when the search term is submitted or cleared.
type SearchMsg struct {
	Term string
}

// progressHeight is the number of lines taken by the progress bars.
const progressHeight = 2

// Model is a task list view. It renders whatever tasks it is given; the
// caller filters them.
type Model struct {
	list         list.Model
	keys         *keys.KeyMap
	searchable   bool
	searchMode   bool
	searchInput  textinput.Model
	term         string
	showProgress bool
	sectionBar   progress.Model
	overallBar   progress.Model
	sectionPct   float64
	overallPct   float64
	emptyText    string
	now          *time.Time
	width        int
	height       int
}

// Options configures a task list.
type Options struct {
	Title        string
	Searchable   bool
	ShowProgress bool
	EmptyText    string
}

// New creates a new task list model.
func New(k *keys.KeyMap, opts Options, width, height int) Model {
	now := time.Now()
	delegate := ItemDelegate{now: &now}

	l := list.New([]list.Item{}, delegate, width, height)
	l.Title = opts.Title
	l.SetShowStatusBar(true)
	l.SetShowHelp(false)
	l.SetFilteringEnabled(false)
	l.Styles.Title = theme.HeaderStyle

	si := textinput.New()
	si.Placeholder = "search tasks..."
	si.Prompt = "/ "
	si.Width = width - 4

	from, to := theme.ProgressColors()

	m := Model{
		list:         l,
		keys:         k,
		searchable:   opts.Searchable,
		searchInput:  si,
		showProgress: opts.ShowProgress,
		sectionBar:   progress.New(progress.WithGradient(from, to)),
		overallBar:   progress.New(progress.WithGradient(from, to)),
		emptyText:    opts.EmptyText,
		now:          &now,
	}
	m.SetSize(width, height)
	return m
}

// SetTasks replaces the rows, keeping the cursor in range.
func (m *Model) SetTasks(tasks []model.Task) tea.Cmd {
	items := make([]list.Item, len(tasks))
	for i, t := range tasks {
		items[i] = TaskItem{Task: t}
	}
	return m.list.SetItems(items)
}

// SetTitle sets the list heading.
func (m *Model) SetTitle(title string) {
	m.list.Title = title
}

// SetProgress sets the section (credit-weighted) and overall percentages.
func (m *Model) SetProgress(section, overall float64) {
	m.sectionPct = section
	m.overallPct = overall
}

// SetNow sets the time used for overdue markers.
func (m *Model) SetNow(now time.Time) {
	*m.now = now
}

// SetSearchTerm shows term as the active filter.
func (m *Model) SetSearchTerm(term string) {
	m.term = term
}

// SelectedTask returns the task under the cursor.
func (m Model) SelectedTask() (model.Task, bool) {
	item, ok := m.list.SelectedItem().(TaskItem)
	if !ok {
		return model.Task{}, false
	}
	return item.Task, true
}

// Searching reports whether the search input has focus.
func (m Model) Searching() bool {
	return m.searchMode
}

// Update handles messages for the task list view.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		if m.searchMode {
			return m.handleSearchKeys(msg)
		}
		return m.handleNormalKeys(msg)
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

// handleSearchKeys processes key input while in search mode.
func (m Model) handleSearchKeys(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		m.searchMode = false
		m.searchInput.Blur()
		term := m.searchInput.Value()
		return m, func() tea.Msg { return SearchMsg{Term: term} }

	case "esc":
		m.searchMode = false
		m.searchInput.Blur()
		m.searchInput.Reset()
		return m, func() tea.Msg { return SearchMsg{Term: ""} }
	}

	var cmd tea.Cmd
	m.searchInput, cmd = m.searchInput.Update(msg)
	return m, cmd
}

// handleNormalKeys processes key input in normal (non-search) mode.
func (m Model) handleNormalKeys(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Select):
		task, ok := m.SelectedTask()
		if !ok {
			return m, nil
		}
		return m, func() tea.Msg {
			return SelectedTaskMsg{TaskID: task.ID}
		}

	case m.searchable && key.Matches(msg, m.keys.Search):
		m.searchMode = true
		m.searchInput.SetValue(m.term)
		m.searchInput.CursorEnd()
		return m, m.searchInput.Focus()
	}

	// Delegate to the list for navigation keys (up/down/pgup/pgdn)
	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

// View renders the task list view.
func (m Model) View() string {
	var parts []string

	if m.showProgress {
		parts = append(parts, m.renderProgress())
	}

	switch {
	case m.searchMode:
		parts = append(parts, lipgloss.NewStyle().
			Foreground(theme.ColorWhite).
			Padding(0, 1).
			Render(m.searchInput.View()))
	case m.term != "":
		parts = append(parts, theme.HelpStyle.Padding(0, 1).
			Render(fmt.Sprintf("filter: %q  (/ to change, esc in search to clear)", m.term)))
	}

	if len(m.list.Items()) == 0 {
		parts = append(parts, m.renderEmptyState())
	} else {
		parts = append(parts, m.list.View())
	}

	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func (m Model) renderProgress() string {
	section := fmt.Sprintf(" Section  %s", m.sectionBar.ViewAs(m.sectionPct/100))
	overall := fmt.Sprintf(" Overall  %s", m.overallBar.ViewAs(m.overallPct/100))
	return lipgloss.JoinVertical(lipgloss.Left, section, overall)
}

// renderEmptyState shows guidance text when no tasks are available.
func (m Model) renderEmptyState() string {
	style := lipgloss.NewStyle().
		Width(m.width).
		Height(m.listHeight()).
		Align(lipgloss.Center, lipgloss.Center).
		Foreground(theme.ColorGray)

	if m.term != "" {
		return style.Render("No matching tasks.\nTry a different search.")
	}
	return style.Render(m.emptyText)
}

func (m Model) listHeight() int {
	h := m.height - 1
	if m.showProgress {
		h -= progressHeight
	}
	if h < 1 {
		h = 1
	}
	return h
}

// SetSize updates the list dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.list.SetSize(width, m.listHeight())
	m.searchInput.Width = width - 4

	barWidth := width - 12
	if barWidth < 10 {
		barWidth = 10
	}
	m.sectionBar.Width = barWidth
	m.overallBar.Width = barWidth
}
