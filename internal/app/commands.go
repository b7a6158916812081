package app

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/nhle/taskdash/internal/importer"
	"github.com/nhle/taskdash/internal/ui/command"
)

// executeCommand runs a command from the command palette.
func (m *Model) executeCommand(c command.Command) tea.Cmd {
	switch c.Name {
	case "tasks":
		m.showTab(ViewTasks)
	case "important":
		m.showTab(ViewImportant)
	case "calendar":
		m.showTab(ViewCalendar)
	case "stats":
		m.showTab(ViewStats)
	case "notifications":
		m.showTab(ViewNotifications)
	case "sections":
		m.currentView = ViewSections
	case "new":
		return m.openCreateForm()

	case "section":
		for _, s := range m.snap.Sections {
			if strings.EqualFold(s.Name, c.Arg) {
				m.showTab(ViewTasks)
				return m.apply(m.board.SetActiveSection(m.ctx, s.ID))
			}
		}
		m.setErrorf("No section named %q", c.Arg)

	case "search":
		m.board.SetSearchTerm(c.Arg)
		m.showTab(ViewTasks)
		return m.refresh()

	case "clear":
		m.board.SetSearchTerm("")
		return m.refresh()

	case "dismiss":
		m.center.DismissAll()
		m.notifyView.SetNotifications(m.center.Notifications())
		m.setStatus("Dismissed all notifications")

	case "import":
		if c.Arg == "" {
			m.setErrorf("Usage: import <path>")
			return nil
		}
		res, err := importer.ImportFile(m.ctx, m.board, c.Arg)
		cmd := m.refresh()
		if err != nil {
			m.logger.Error("import failed", "path", c.Arg, "err", err)
			m.setError(err)
			return cmd
		}
		m.setStatus("Imported %d task(s), %d new section(s) from %s", res.Tasks, res.Sections, c.Arg)
		return cmd

	case "settings":
		m.currentView = ViewSettings
		return m.settingsView.Start(m.cfg)

	case "quit", "q":
		return m.quit()

	default:
		m.setErrorf("Unknown command %q", c.Name)
	}
	return nil
}

func (m *Model) showTab(v ViewState) {
	m.tab = v
	m.currentView = v
}
