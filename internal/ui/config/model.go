package config

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/taskdash/internal/keys"
	"github.com/nhle/taskdash/internal/model"
	"github.com/nhle/taskdash/internal/theme"
)

// DoneMsg signals the settings view should close without saving.
type DoneMsg struct{}

// SavedMsg carries the edited configuration.
type SavedMsg struct {
	Config model.AppConfig
}

// formBindings is heap allocated so huh's value pointers survive copies
// of Model.
type formBindings struct {
	intervalSec  string
	alertMinutes string
	systemAlerts bool
	logLevel     string
}

// Model edits the notification and logging settings.
type Model struct {
	keys   *keys.KeyMap
	base   model.AppConfig
	form   *huh.Form
	fb     *formBindings
	path   string
	width  int
	height int
}

// New creates a settings view for the config file at path.
func New(k *keys.KeyMap, path string, width, height int) Model {
	return Model{
		keys:   k,
		fb:     &formBindings{},
		path:   path,
		width:  width,
		height: height,
	}
}

// Start opens the form pre-filled from cfg.
func (m *Model) Start(cfg model.AppConfig) tea.Cmd {
	m.base = cfg
	m.fb.intervalSec = strconv.Itoa(cfg.Notifications.IntervalSec)
	m.fb.alertMinutes = strconv.Itoa(cfg.Notifications.AlertMinutes)
	m.fb.systemAlerts = cfg.Notifications.SystemAlerts
	m.fb.logLevel = strings.ToLower(cfg.Log.Level)
	m.form = m.buildForm()
	return m.form.Init()
}

// Update handles messages for the settings form.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if k, ok := msg.(tea.KeyMsg); ok && key.Matches(k, m.keys.Back) {
		m.form = nil
		return m, func() tea.Msg { return DoneMsg{} }
	}
	if m.form == nil {
		return m, nil
	}

	mdl, cmd := m.form.Update(msg)
	if f, ok := mdl.(*huh.Form); ok {
		m.form = f
	}

	switch m.form.State {
	case huh.StateCompleted:
		m.form = nil
		cfg := m.Config()
		return m, func() tea.Msg { return SavedMsg{Config: cfg} }
	case huh.StateAborted:
		m.form = nil
		return m, func() tea.Msg { return DoneMsg{} }
	}
	return m, cmd
}

// Config returns the base configuration with the form values applied.
func (m Model) Config() model.AppConfig {
	cfg := m.base
	if n, err := strconv.Atoi(strings.TrimSpace(m.fb.intervalSec)); err == nil {
		cfg.Notifications.IntervalSec = n
	}
	if n, err := strconv.Atoi(strings.TrimSpace(m.fb.alertMinutes)); err == nil {
		cfg.Notifications.AlertMinutes = n
	}
	cfg.Notifications.SystemAlerts = m.fb.systemAlerts
	cfg.Log.Level = m.fb.logLevel
	return cfg
}

func (m Model) buildForm() *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Notification check interval (seconds)").
				Value(&m.fb.intervalSec).
				Validate(intBetween(1, 3600)),
			huh.NewConfirm().
				Title("Ring the terminal bell for due tasks?").
				Affirmative("Yes").
				Negative("No").
				Value(&m.fb.systemAlerts),
			huh.NewInput().
				Title("Bell when a task is this many minutes from due").
				Value(&m.fb.alertMinutes).
				Validate(intBetween(1, 60)),
			huh.NewSelect[string]().
				Title("Log level").
				Options(
					huh.NewOption("debug", "debug"),
					huh.NewOption("info", "info"),
					huh.NewOption("warn", "warn"),
					huh.NewOption("error", "error"),
				).
				Value(&m.fb.logLevel),
		),
	).WithWidth(m.formWidth()).WithShowHelp(true)
}

func intBetween(lo, hi int) func(string) error {
	return func(s string) error {
		n, err := strconv.Atoi(strings.TrimSpace(s))
		if err != nil {
			return fmt.Errorf("enter a whole number")
		}
		if n < lo || n > hi {
			return fmt.Errorf("must be between %d and %d", lo, hi)
		}
		return nil
	}
}

// View renders the settings form.
func (m Model) View() string {
	title := lipgloss.NewStyle().Bold(true).Foreground(theme.ColorWhite).MarginBottom(1).Render("Settings")
	body := theme.HelpStyle.Render("Nothing to edit.")
	if m.form != nil {
		body = m.form.View()
	}
	footer := theme.HelpStyle.Render("Saved to " + m.path + " | esc cancel")
	return lipgloss.NewStyle().Padding(1, 2).Render(
		lipgloss.JoinVertical(lipgloss.Left, title, body, "", footer),
	)
}

// SetSize updates the view dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}

func (m Model) formWidth() int {
	return min(max(m.width-8, 30), 70)
}
