package sectionmgr

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/taskdash/internal/keys"
	"github.com/nhle/taskdash/internal/model"
	"github.com/nhle/taskdash/internal/theme"
)

// CloseMsg signals the parent to close the section view.
type CloseMsg struct{}

// SelectMsg asks the parent to make a section active.
type SelectMsg struct{ ID string }

// AddMsg asks the parent to create a section.
type AddMsg struct{ Name string }

// RenameMsg asks the parent to rename a section.
type RenameMsg struct {
	ID   string
	Name string
}

// DeleteMsg asks the parent to delete a section.
type DeleteMsg struct{ ID string }

type sectionMode int

const (
	modeList sectionMode = iota
	modeForm
	modeConfirmDelete
)

type formBindings struct {
	name    string
	confirm bool
}

// Model is the Bubble Tea model for section management.
type Model struct {
	mode        sectionMode
	keys        *keys.KeyMap
	sections    []model.Section
	counts      map[string]int
	active      string
	selectedIdx int
	editingID   string
	form        *huh.Form
	confirmForm *huh.Form
	fb          *formBindings
	statusMsg   string
	width       int
	height      int
}

// New creates a new section manager model.
func New(k *keys.KeyMap, width, height int) Model {
	return Model{
		mode:   modeList,
		keys:   k,
		fb:     &formBindings{},
		counts: map[string]int{},
		width:  width, height: height,
	}
}

// SetSections replaces the listed sections. counts maps section id to the
// number of tasks in it.
func (m *Model) SetSections(sections []model.Section, active string, counts map[string]int) {
	m.sections = sections
	m.active = active
	m.counts = counts
	if m.selectedIdx >= len(m.sections) {
		m.selectedIdx = max(len(m.sections)-1, 0)
	}
}

// SetStatus shows a one-line message under the list.
func (m *Model) SetStatus(msg string) {
	m.statusMsg = msg
}

// InForm reports whether a form or confirmation has focus.
func (m Model) InForm() bool {
	return m.mode != modeList
}

// Update handles messages.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		if m.mode != modeList && key.Matches(msg, m.keys.Back) {
			m.mode = modeList
			return m, nil
		}
		switch m.mode {
		case modeList:
			return m.handleListKey(msg)
		case modeForm:
			return m.updateForm(msg)
		case modeConfirmDelete:
			return m.updateConfirm(msg)
		}
	}

	switch m.mode {
	case modeForm:
		return m.updateForm(msg)
	case modeConfirmDelete:
		return m.updateConfirm(msg)
	}
	return m, nil
}

func (m Model) selected() (model.Section, bool) {
	if m.selectedIdx < 0 || m.selectedIdx >= len(m.sections) {
		return model.Section{}, false
	}
	return m.sections[m.selectedIdx], true
}

func (m Model) handleListKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Back):
		return m, func() tea.Msg { return CloseMsg{} }

	case key.Matches(msg, m.keys.Down):
		if len(m.sections) > 0 {
			m.selectedIdx = (m.selectedIdx + 1) % len(m.sections)
		}
		return m, nil

	case key.Matches(msg, m.keys.Up):
		if len(m.sections) > 0 {
			m.selectedIdx--
			if m.selectedIdx < 0 {
				m.selectedIdx = len(m.sections) - 1
			}
		}
		return m, nil

	case key.Matches(msg, m.keys.Select):
		s, ok := m.selected()
		if !ok {
			return m, nil
		}
		return m, func() tea.Msg { return SelectMsg{ID: s.ID} }

	case key.Matches(msg, m.keys.New):
		m.editingID = ""
		m.fb.name = ""
		m.form = m.buildForm("New section")
		m.mode = modeForm
		return m, m.form.Init()

	case key.Matches(msg, m.keys.Edit):
		s, ok := m.selected()
		if !ok {
			return m, nil
		}
		if s.IsDefault() {
			m.statusMsg = fmt.Sprintf("%q is the default section and cannot be renamed", s.Name)
			return m, nil
		}
		m.editingID = s.ID
		m.fb.name = s.Name
		m.form = m.buildForm("Rename section")
		m.mode = modeForm
		return m, m.form.Init()

	case key.Matches(msg, m.keys.Delete):
		s, ok := m.selected()
		if !ok {
			return m, nil
		}
		if s.IsDefault() {
			m.statusMsg = fmt.Sprintf("%q is the default section and cannot be deleted", s.Name)
			return m, nil
		}
		m.fb.confirm = false
		m.confirmForm = m.buildConfirmForm(s)
		m.mode = modeConfirmDelete
		return m, m.confirmForm.Init()
	}
	return m, nil
}

func (m Model) buildForm(title string) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title(title).
				Placeholder("Section name").
				Value(&m.fb.name).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return fmt.Errorf("name is required")
					}
					return nil
				}),
		),
	).WithWidth(m.formWidth())
}

func (m Model) buildConfirmForm(s model.Section) *huh.Form {
	desc := "It has no tasks."
	if n := m.counts[s.ID]; n > 0 {
		desc = fmt.Sprintf("Its %d task(s) stay in place but will no longer be listed under any section.", n)
	}
	return huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(fmt.Sprintf("Delete section %q?", s.Name)).
				Description(desc).
				Affirmative("Yes, delete").
				Negative("Cancel").
				Value(&m.fb.confirm),
		),
	).WithWidth(m.formWidth())
}

func (m Model) updateForm(msg tea.Msg) (Model, tea.Cmd) {
	if m.form == nil {
		return m, nil
	}
	mdl, cmd := m.form.Update(msg)
	if f, ok := mdl.(*huh.Form); ok {
		m.form = f
	}
	if m.form.State == huh.StateCompleted {
		m.mode = modeList
		name := strings.TrimSpace(m.fb.name)
		if m.editingID == "" {
			return m, func() tea.Msg { return AddMsg{Name: name} }
		}
		id := m.editingID
		return m, func() tea.Msg { return RenameMsg{ID: id, Name: name} }
	}
	if m.form.State == huh.StateAborted {
		m.mode = modeList
		return m, nil
	}
	return m, cmd
}

func (m Model) updateConfirm(msg tea.Msg) (Model, tea.Cmd) {
	if m.confirmForm == nil {
		return m, nil
	}
	mdl, cmd := m.confirmForm.Update(msg)
	if f, ok := mdl.(*huh.Form); ok {
		m.confirmForm = f
	}
	if m.confirmForm.State == huh.StateCompleted {
		m.mode = modeList
		s, ok := m.selected()
		if m.fb.confirm && ok {
			return m, func() tea.Msg { return DeleteMsg{ID: s.ID} }
		}
		return m, nil
	}
	if m.confirmForm.State == huh.StateAborted {
		m.mode = modeList
		return m, nil
	}
	return m, cmd
}

// View renders the section manager.
func (m Model) View() string {
	switch m.mode {
	case modeForm:
		return m.viewForm(m.form)
	case modeConfirmDelete:
		return m.viewForm(m.confirmForm)
	default:
		return m.viewList()
	}
}

func (m Model) viewList() string {
	var b strings.Builder

	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(theme.ColorWhite).MarginBottom(1)
	b.WriteString(titleStyle.Render("Sections"))
	b.WriteString("\n\n")

	for i, s := range m.sections {
		marker := "  "
		if s.ID == m.active {
			marker = "▸ "
		}
		label := fmt.Sprintf("%s%s (%d)", marker, s.Name, m.counts[s.ID])
		if s.IsDefault() {
			label += " · default"
		}

		if i == m.selectedIdx {
			b.WriteString(theme.SelectedItemStyle.Render(label))
		} else {
			b.WriteString(theme.ListItemStyle.Render(label))
		}
		b.WriteString("\n")
	}

	if m.statusMsg != "" {
		b.WriteString("\n")
		b.WriteString(lipgloss.NewStyle().Foreground(theme.ColorYellow).Italic(true).Render(m.statusMsg))
	}

	b.WriteString("\n\n")
	b.WriteString(lipgloss.NewStyle().Foreground(theme.ColorGray).Render(
		"enter select | n new | e rename | d delete | esc back",
	))

	return lipgloss.NewStyle().Padding(1, 2).Width(m.width).Render(b.String())
}

func (m Model) viewForm(f *huh.Form) string {
	if f == nil {
		return ""
	}
	return lipgloss.NewStyle().Padding(1, 2).Render(f.View())
}

// SetSize updates dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}

func (m Model) formWidth() int {
	w := m.width - 4
	if w < 40 {
		w = 40
	}
	if w > 80 {
		w = 80
	}
	return w
}
