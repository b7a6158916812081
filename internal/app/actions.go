package app

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/nhle/taskdash/internal/board"
	"github.com/nhle/taskdash/internal/logging"
	"github.com/nhle/taskdash/internal/model"
	"github.com/nhle/taskdash/internal/notify"
	"github.com/nhle/taskdash/internal/ui/todoform"
)

// refresh reloads the snapshot and pushes it into every view.
func (m *Model) refresh() tea.Cmd {
	now := m.now()
	snap, err := m.board.Snapshot(m.ctx, now)
	if err != nil {
		m.setError(err)
		return nil
	}
	m.snap = snap

	counts := make(map[string]int, len(snap.Sections))
	for _, t := range snap.Tasks {
		counts[t.Section]++
	}

	m.taskList.SetNow(now)
	m.taskList.SetTitle(snap.SectionName(snap.ActiveSection))
	m.taskList.SetSearchTerm(snap.SearchTerm)
	m.taskList.SetProgress(snap.SectionProgress, snap.Progress)
	m.importantList.SetNow(now)
	m.calendarView.SetTasks(snap.Tasks, now)
	m.statsView.SetStats(snap.Stats, snap.Progress)
	m.sectionView.SetSections(snap.Sections, snap.ActiveSection, counts)
	m.notifyView.SetNotifications(m.center.Set(snap.Notifications))

	if open, ok := m.detailView.Task(); ok {
		if t, found := snap.Task(open.ID); found {
			m.detailView.SetTask(t, snap.SectionName(t.Section))
		} else {
			m.detailView.Clear()
			if m.currentView == ViewDetail {
				m.back()
			}
		}
	}

	return tea.Batch(
		m.taskList.SetTasks(snap.Visible),
		m.importantList.SetTasks(snap.Important),
	)
}

// apply reports err, if any, and refreshes the views.
func (m *Model) apply(err error) tea.Cmd {
	if err != nil {
		m.setError(err)
	}
	return m.refresh()
}

func (m *Model) setError(err error) {
	if errors.Is(err, board.ErrValidation) {
		m.status = err.Error()
	} else {
		m.status = "Error: " + err.Error()
	}
	m.statusErr = true
}

func (m *Model) setErrorf(format string, args ...any) {
	m.status = fmt.Sprintf(format, args...)
	m.statusErr = true
}

func (m *Model) setStatus(format string, args ...any) {
	m.status = fmt.Sprintf(format, args...)
	m.statusErr = false
}

// selectedTask returns the task the task-level shortcuts act on.
func (m Model) selectedTask() (model.Task, bool) {
	switch m.currentView {
	case ViewTasks:
		return m.taskList.SelectedTask()
	case ViewImportant:
		return m.importantList.SelectedTask()
	case ViewDetail:
		return m.detailView.Task()
	}
	return model.Task{}, false
}

func (m *Model) withSelected(op func(id int64) error) tea.Cmd {
	t, ok := m.selectedTask()
	if !ok {
		return nil
	}
	return m.apply(op(t.ID))
}

func (m *Model) openDetail(id int64) tea.Cmd {
	t, ok := m.snap.Task(id)
	if !ok {
		return nil
	}
	m.detailView.SetTask(t, m.snap.SectionName(t.Section))
	m.currentView = ViewDetail
	return nil
}

func (m *Model) openCreateForm() tea.Cmd {
	m.currentView = ViewForm
	return m.formView.StartCreate(m.now())
}

// submitTask creates or updates a task from a submitted form.
func (m *Model) submitTask(msg todoform.SubmittedMsg) tea.Cmd {
	if msg.TaskID == 0 {
		t, err := m.board.AddTask(m.ctx, msg.Input)
		if err != nil {
			return m.apply(err)
		}
		cmd := m.refresh()
		m.setStatus("Added %q to %s", t.Text, m.snap.SectionName(t.Section))
		return cmd
	}

	if err := m.board.UpdateTask(m.ctx, msg.TaskID, msg.Input); err != nil {
		return m.apply(err)
	}
	cmd := m.refresh()
	m.setStatus("Updated %q", strings.TrimSpace(msg.Input.Text))
	return cmd
}

// confirmDelete asks before removing t.
func (m *Model) confirmDelete(t model.Task) tea.Cmd {
	m.cb.confirm = false
	m.cb.taskID = t.ID
	m.confirmForm = huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(fmt.Sprintf("Delete %q?", t.Text)).
				Affirmative("Yes, delete").
				Negative("Cancel").
				Value(&m.cb.confirm),
		),
	).WithWidth(min(m.layout.ContentWidth(), 60))
	m.currentView = ViewConfirmDelete
	return m.confirmForm.Init()
}

func (m Model) updateConfirm(msg tea.Msg) (tea.Model, tea.Cmd) {
	if k, ok := msg.(tea.KeyMsg); ok && key.Matches(k, m.keys.Back) {
		m.confirmForm = nil
	}
	if m.confirmForm == nil {
		m.back()
		return m, nil
	}
	mdl, cmd := m.confirmForm.Update(msg)
	if f, ok := mdl.(*huh.Form); ok {
		m.confirmForm = f
	}

	switch m.confirmForm.State {
	case huh.StateCompleted:
		m.confirmForm = nil
		m.back()
		if !m.cb.confirm {
			return m, nil
		}
		name := ""
		if t, ok := m.snap.Task(m.cb.taskID); ok {
			name = t.Text
		}
		if err := m.board.DeleteTask(m.ctx, m.cb.taskID); err != nil {
			return m, m.apply(err)
		}
		refreshCmd := m.refresh()
		m.setStatus("Deleted %q", name)
		return m, refreshCmd

	case huh.StateAborted:
		m.confirmForm = nil
		m.back()
		return m, nil
	}
	return m, cmd
}

// yank copies a one-line summary of t to the clipboard.
func (m *Model) yank(t model.Task) {
	if err := m.copy(TaskSummary(t)); err != nil {
		m.logger.Warn("copying to clipboard", "err", err)
		m.setError(fmt.Errorf("copying to clipboard: %w", err))
		return
	}
	m.setStatus("Copied %q to clipboard", t.Text)
}

// TaskSummary renders t as a single line of plain text.
func TaskSummary(t model.Task) string {
	mark := "[ ]"
	if t.Completed {
		mark = "[x]"
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%s %s (due %s %s, %s priority, %s)", mark, t.Text, t.DueDate, t.DueTime, t.Priority, t.Status)
	if len(t.SubTasks) > 0 {
		done := 0
		for _, s := range t.SubTasks {
			if s.Completed {
				done++
			}
		}
		fmt.Fprintf(&b, " [%d/%d subtasks]", done, len(t.SubTasks))
	}
	return b.String()
}

// saveSettings writes cfg to the config file and applies what can change
// while running. The ticker interval takes effect on the next start.
func (m *Model) saveSettings(cfg model.AppConfig) {
	var alerter notify.Alerter
	if cfg.Notifications.SystemAlerts {
		alerter = m.alerter
	}
	m.center.Configure(alerter, cfg.Notifications.AlertMinutes)
	m.logger.SetLevel(logging.ParseLevel(cfg.Log.Level))
	m.cfg = cfg

	if m.cfgPath == "" {
		m.setStatus("Settings applied")
		return
	}
	if err := model.SaveConfig(m.cfgPath, &cfg); err != nil {
		m.logger.Error("saving config", "path", m.cfgPath, "err", err)
		m.setError(err)
		return
	}
	m.setStatus("Settings saved to %s", m.cfgPath)
}
