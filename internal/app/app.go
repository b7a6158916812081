package app

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/log"

	"github.com/nhle/taskdash/internal/board"
	"github.com/nhle/taskdash/internal/keys"
	"github.com/nhle/taskdash/internal/model"
	"github.com/nhle/taskdash/internal/notify"
	"github.com/nhle/taskdash/internal/ui"
	"github.com/nhle/taskdash/internal/ui/calendar"
	"github.com/nhle/taskdash/internal/ui/command"
	configview "github.com/nhle/taskdash/internal/ui/config"
	"github.com/nhle/taskdash/internal/ui/detail"
	helpview "github.com/nhle/taskdash/internal/ui/help"
	"github.com/nhle/taskdash/internal/ui/notifications"
	"github.com/nhle/taskdash/internal/ui/sectionmgr"
	"github.com/nhle/taskdash/internal/ui/stats"
	"github.com/nhle/taskdash/internal/ui/tasklist"
	"github.com/nhle/taskdash/internal/ui/todoform"
)

// ViewState represents the current active view in the application.
type ViewState int

const (
	ViewTasks ViewState = iota
	ViewImportant
	ViewCalendar
	ViewStats
	ViewNotifications
	ViewSections
	ViewForm
	ViewDetail
	ViewHelp
	ViewCommand
	ViewConfirmDelete
	ViewSettings
)

// tabs are the views reachable with tab / shift+tab, in order.
var tabs = []ViewState{ViewTasks, ViewImportant, ViewCalendar, ViewStats, ViewNotifications}

var tabNames = []string{"Tasks", "Important", "Calendar", "Statistics", "Notifications"}

// Options wires the root model to its collaborators.
type Options struct {
	Board  *board.Board
	Center *notify.Center
	Ticker *notify.Ticker
	Logger *log.Logger

	// Config and ConfigPath back the settings view. Alerter is the host
	// alert used when settings turn system alerts on.
	Config     *model.AppConfig
	ConfigPath string
	Alerter    notify.Alerter

	// Now defaults to time.Now.
	Now func() time.Time

	// CopyText defaults to the system clipboard.
	CopyText func(string) error
}

type confirmBindings struct {
	confirm bool
	taskID  int64
}

// Model is the root Bubble Tea model. It routes key presses to board
// operations and re-renders every view from a fresh snapshot.
type Model struct {
	ctx     context.Context
	board   *board.Board
	center  *notify.Center
	ticker  *notify.Ticker
	logger  *log.Logger
	cfg     model.AppConfig
	cfgPath string
	alerter notify.Alerter
	now     func() time.Time
	copy    func(string) error

	keys   *keys.KeyMap
	layout ui.Layout
	snap   board.Snapshot

	currentView ViewState
	tab         ViewState

	taskList      tasklist.Model
	importantList tasklist.Model
	calendarView  calendar.Model
	statsView     stats.Model
	notifyView    notifications.Model
	sectionView   sectionmgr.Model
	formView      todoform.Model
	detailView    detail.Model
	helpView      helpview.Model
	commandView   command.Model
	settingsView  configview.Model

	confirmForm *huh.Form
	cb          *confirmBindings

	status    string
	statusErr bool
	ready     bool
}

// New creates the root application model and loads the first snapshot.
func New(opts Options) Model {
	k := keys.DefaultKeyMap()
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	copyText := opts.CopyText
	if copyText == nil {
		copyText = clipboard.WriteAll
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	center := opts.Center
	if center == nil {
		center = notify.NewCenter(nil, 0, logger)
	}

	cfg := model.DefaultAppConfig()
	if opts.Config != nil {
		cfg = opts.Config
	}

	m := Model{
		ctx:     context.Background(),
		board:   opts.Board,
		center:  center,
		ticker:  opts.Ticker,
		logger:  logger,
		cfg:     *cfg,
		cfgPath: opts.ConfigPath,
		alerter: opts.Alerter,
		now:     now,
		copy:    copyText,
		keys:    k,
		layout:  ui.NewLayout(80, 24),

		currentView: ViewTasks,
		tab:         ViewTasks,

		taskList: tasklist.New(k, tasklist.Options{
			Title:        "Tasks",
			Searchable:   true,
			ShowProgress: true,
			EmptyText:    "No tasks in this section. Press n to add one.",
		}, 80, 21),
		importantList: tasklist.New(k, tasklist.Options{
			Title:     "Important",
			EmptyText: "No important tasks. Press * on a task to mark it.",
		}, 80, 21),
		calendarView: calendar.New(k, now(), 80),
		statsView:    stats.New(80),
		notifyView:   notifications.New(k, 80),
		sectionView:  sectionmgr.New(k, 80, 21),
		formView:     todoform.New(80, 21),
		detailView:   detail.New(k, 80, 21),
		helpView:     helpview.New(k, 80, 21),
		commandView:  command.New(80, 21),
		settingsView: configview.New(k, opts.ConfigPath, 80, 21),
		cb:           &confirmBindings{},
	}
	m.refresh()
	return m
}

// Init starts the notification ticker.
func (m Model) Init() tea.Cmd {
	if m.ticker == nil {
		return nil
	}
	return m.ticker.Start()
}

// Update handles messages and dispatches to the active view.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.layout = ui.NewLayout(msg.Width, msg.Height)
		m.ready = true
		w, h := m.layout.ContentWidth(), m.layout.ContentHeight()
		m.taskList.SetSize(w, h)
		m.importantList.SetSize(w, h)
		m.calendarView.SetSize(w)
		m.statsView.SetSize(w)
		m.notifyView.SetSize(w)
		m.sectionView.SetSize(w, h)
		m.formView.SetSize(w, h)
		m.detailView.SetSize(w, h)
		m.helpView.SetSize(w, h)
		m.commandView.SetSize(w, h)
		m.settingsView.SetSize(w, h)
		// Forward to active view so huh forms can calculate their layout.
		return m.updateActiveView(msg)

	case notify.TickMsg:
		cmd := m.refresh()
		if m.ticker == nil {
			return m, cmd
		}
		return m, tea.Batch(cmd, m.ticker.WaitForNext())

	case tasklist.SelectedTaskMsg:
		return m, m.openDetail(msg.TaskID)

	case tasklist.SearchMsg:
		m.board.SetSearchTerm(msg.Term)
		return m, m.refresh()

	case notifications.OpenTaskMsg:
		return m, m.openDetail(msg.TaskID)

	case notifications.DismissMsg:
		m.center.Dismiss(msg.ID)
		m.notifyView.SetNotifications(m.center.Notifications())
		return m, nil

	case detail.BackMsg:
		m.back()
		return m, nil

	case detail.ToggleSubTaskMsg:
		return m, m.apply(m.board.ToggleSubTask(m.ctx, msg.TaskID, msg.Index))

	case todoform.SubmittedMsg:
		m.back()
		return m, m.submitTask(msg)

	case todoform.CancelMsg:
		m.back()
		return m, nil

	case sectionmgr.CloseMsg:
		m.back()
		return m, nil

	case sectionmgr.SelectMsg:
		m.tab, m.currentView = ViewTasks, ViewTasks
		return m, m.apply(m.board.SetActiveSection(m.ctx, msg.ID))

	case sectionmgr.AddMsg:
		s, err := m.board.AddSection(m.ctx, msg.Name)
		if err == nil {
			m.sectionView.SetStatus(fmt.Sprintf("Added section %q", s.Name))
		}
		return m, m.apply(err)

	case sectionmgr.RenameMsg:
		err := m.board.RenameSection(m.ctx, msg.ID, msg.Name)
		if err == nil {
			m.sectionView.SetStatus(fmt.Sprintf("Renamed section to %q", msg.Name))
		}
		return m, m.apply(err)

	case sectionmgr.DeleteMsg:
		name := m.snap.SectionName(msg.ID)
		err := m.board.DeleteSection(m.ctx, msg.ID)
		if err == nil {
			m.sectionView.SetStatus(fmt.Sprintf("Deleted section %q", name))
		}
		return m, m.apply(err)

	case command.CommandMsg:
		m.back()
		return m, m.executeCommand(command.Command(msg))

	case command.CancelMsg:
		m.back()
		return m, nil

	case configview.DoneMsg:
		m.back()
		return m, nil

	case configview.SavedMsg:
		m.back()
		m.saveSettings(msg.Config)
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, m.quit()
		}
		m.status, m.statusErr = "", false
		if m.inputFocused() {
			return m.updateActiveView(msg)
		}
		if cmd, handled := m.handleGlobalKey(msg); handled {
			return m, cmd
		}
		if m.onTaskView() {
			if cmd, handled := m.handleTaskKey(msg); handled {
				return m, cmd
			}
		}
	}

	return m.updateActiveView(msg)
}

// inputFocused reports whether the active view owns every key press.
func (m Model) inputFocused() bool {
	switch m.currentView {
	case ViewForm, ViewCommand, ViewConfirmDelete, ViewSettings:
		return true
	case ViewSections:
		return m.sectionView.InForm()
	case ViewTasks:
		return m.taskList.Searching()
	}
	return false
}

// onTaskView reports whether the task-level shortcuts apply.
func (m Model) onTaskView() bool {
	switch m.currentView {
	case ViewTasks, ViewImportant, ViewDetail:
		return true
	}
	return false
}

// isTab reports whether v is one of the tabbed views.
func isTab(v ViewState) bool {
	for _, t := range tabs {
		if t == v {
			return true
		}
	}
	return false
}

func (m *Model) handleGlobalKey(msg tea.KeyMsg) (tea.Cmd, bool) {
	onTab := isTab(m.currentView)

	switch {
	case key.Matches(msg, m.keys.Help):
		if m.currentView == ViewHelp {
			m.back()
			return nil, true
		}
		m.currentView = ViewHelp
		return nil, true

	case m.currentView == ViewHelp && key.Matches(msg, m.keys.Back):
		m.back()
		return nil, true

	case key.Matches(msg, m.keys.Quit) && onTab:
		return m.quit(), true

	case key.Matches(msg, m.keys.Command) && onTab:
		m.currentView = ViewCommand
		return m.commandView.Focus(), true

	case key.Matches(msg, m.keys.NextView) && onTab:
		m.switchTab(1)
		return nil, true

	case key.Matches(msg, m.keys.PrevView) && onTab:
		m.switchTab(-1)
		return nil, true

	case key.Matches(msg, m.keys.New) && onTab:
		return m.openCreateForm(), true

	case key.Matches(msg, m.keys.Sections) && onTab:
		m.currentView = ViewSections
		return nil, true
	}
	return nil, false
}

func (m *Model) handleTaskKey(msg tea.KeyMsg) (tea.Cmd, bool) {
	switch {
	case key.Matches(msg, m.keys.ToggleComplete):
		return m.withSelected(func(id int64) error {
			return m.board.ToggleCompleted(m.ctx, id)
		}), true

	case key.Matches(msg, m.keys.ToggleImportant):
		return m.withSelected(func(id int64) error {
			return m.board.ToggleImportant(m.ctx, id)
		}), true

	case key.Matches(msg, m.keys.CycleStatus):
		t, ok := m.selectedTask()
		if !ok {
			return nil, true
		}
		return m.apply(m.board.SetStatus(m.ctx, t.ID, t.Status.Next())), true

	case key.Matches(msg, m.keys.Edit):
		t, ok := m.selectedTask()
		if !ok {
			return nil, true
		}
		m.currentView = ViewForm
		return m.formView.StartEdit(t), true

	case key.Matches(msg, m.keys.Delete):
		t, ok := m.selectedTask()
		if !ok {
			return nil, true
		}
		return m.confirmDelete(t), true

	case key.Matches(msg, m.keys.Yank):
		t, ok := m.selectedTask()
		if !ok {
			return nil, true
		}
		m.yank(t)
		return nil, true
	}
	return nil, false
}

// updateActiveView dispatches the message to the currently active view.
func (m Model) updateActiveView(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch m.currentView {
	case ViewTasks:
		m.taskList, cmd = m.taskList.Update(msg)
	case ViewImportant:
		m.importantList, cmd = m.importantList.Update(msg)
	case ViewCalendar:
		m.calendarView, cmd = m.calendarView.Update(msg)
	case ViewNotifications:
		m.notifyView, cmd = m.notifyView.Update(msg)
	case ViewSections:
		m.sectionView, cmd = m.sectionView.Update(msg)
	case ViewForm:
		m.formView, cmd = m.formView.Update(msg)
	case ViewDetail:
		m.detailView, cmd = m.detailView.Update(msg)
	case ViewCommand:
		m.commandView, cmd = m.commandView.Update(msg)
	case ViewSettings:
		m.settingsView, cmd = m.settingsView.Update(msg)
	case ViewConfirmDelete:
		return m.updateConfirm(msg)
	}

	return m, cmd
}

// View renders the full terminal UI using the layout manager.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}

	header := m.layout.RenderHeader("taskdash", m.headerStatus())
	tabsLine := m.layout.RenderTabs(tabNames, m.tabIndex())
	statusBar := m.layout.RenderStatusBar(m.keyHints(), m.status, m.statusErr)

	return m.layout.RenderWithFrame(header, tabsLine, m.renderContent(), statusBar)
}

// renderContent returns the rendered string for the current active view.
func (m Model) renderContent() string {
	switch m.currentView {
	case ViewTasks:
		return m.taskList.View()
	case ViewImportant:
		return m.importantList.View()
	case ViewCalendar:
		return m.calendarView.View()
	case ViewStats:
		return m.statsView.View()
	case ViewNotifications:
		return m.notifyView.View()
	case ViewSections:
		return m.sectionView.View()
	case ViewForm:
		return m.formView.View()
	case ViewDetail:
		return m.detailView.View()
	case ViewHelp:
		return m.helpView.View()
	case ViewCommand:
		return m.commandView.View()
	case ViewSettings:
		return m.settingsView.View()
	case ViewConfirmDelete:
		if m.confirmForm != nil {
			return m.confirmForm.View()
		}
	}
	return ""
}

// headerStatus summarizes the active section and pending notifications.
func (m Model) headerStatus() string {
	section := m.snap.SectionName(m.snap.ActiveSection)
	if n := m.notifyView.Count(); n > 0 {
		return fmt.Sprintf("%s | %d notification(s)", section, n)
	}
	return section
}

// keyHints returns keyboard shortcut hints for the status bar.
func (m Model) keyHints() string {
	switch m.currentView {
	case ViewHelp:
		return "? close help | esc back"
	case ViewCommand:
		return "enter run | tab complete | esc back"
	case ViewDetail:
		return "esc back | j/k subtask | enter toggle subtask | e edit | d delete | y copy"
	case ViewForm, ViewConfirmDelete, ViewSettings:
		return "enter submit | esc cancel"
	case ViewSections:
		return "enter open | n new | e rename | d delete | esc back"
	case ViewCalendar:
		return "h/l month | j/k day | tab view | q quit"
	case ViewNotifications:
		return "x dismiss | enter open | tab view | q quit"
	case ViewStats:
		return "tab view | : command | q quit"
	default:
		if m.taskList.Searching() {
			return "enter apply | esc clear"
		}
		return "q quit | ? help | n new | space done | * important | s status | / search | g sections"
	}
}

func (m Model) tabIndex() int {
	for i, t := range tabs {
		if t == m.tab {
			return i
		}
	}
	return 0
}

func (m *Model) switchTab(delta int) {
	i := (m.tabIndex() + delta + len(tabs)) % len(tabs)
	m.tab = tabs[i]
	m.currentView = m.tab
}

// back returns from an overlay to the last tabbed view.
func (m *Model) back() {
	m.currentView = m.tab
}

func (m *Model) quit() tea.Cmd {
	if m.ticker != nil {
		m.ticker.Stop()
	}
	return tea.Quit
}
