package command

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/taskdash/internal/theme"
)

// Command is a parsed palette entry: a verb and its optional argument.
type Command struct {
	Name string
	Arg  string
}

// CommandMsg is emitted when the user executes a command.
type CommandMsg Command

// CancelMsg is emitted when the user closes the palette without running
// anything.
type CancelMsg struct{}

// Entry describes one palette command for completion and help.
type Entry struct {
	Name    string
	Usage   string
	Summary string
}

// Commands lists every palette command.
var Commands = []Entry{
	{"tasks", "tasks", "show the task list"},
	{"important", "important", "show important tasks"},
	{"calendar", "calendar", "show the month calendar"},
	{"stats", "stats", "show statistics"},
	{"notifications", "notifications", "show notifications"},
	{"sections", "sections", "manage sections"},
	{"new", "new", "create a task"},
	{"section", "section <name>", "switch to a section by name"},
	{"search", "search <term>", "filter the task list"},
	{"clear", "clear", "clear the search filter"},
	{"dismiss", "dismiss", "dismiss all notifications"},
	{"import", "import <path>", "import tasks from a YAML file"},
	{"settings", "settings", "edit notification and log settings"},
	{"quit", "quit", "exit taskdash"},
}

// Parse splits input into a lowercase verb and the remaining argument.
func Parse(input string) Command {
	input = strings.TrimSpace(input)
	name, arg, _ := strings.Cut(input, " ")
	return Command{Name: strings.ToLower(name), Arg: strings.TrimSpace(arg)}
}

// Known reports whether name is a palette command.
func Known(name string) bool {
	for _, c := range Commands {
		if c.Name == name {
			return true
		}
	}
	return false
}

// Model is the command palette view.
type Model struct {
	input  textinput.Model
	width  int
	height int
}

// New creates a new command palette model.
func New(width, height int) Model {
	ti := textinput.New()
	ti.Placeholder = "type a command..."
	ti.Prompt = ": "
	ti.Width = width - 6
	ti.ShowSuggestions = true

	names := make([]string, len(Commands))
	for i, c := range Commands {
		names[i] = c.Name
	}
	ti.SetSuggestions(names)

	return Model{
		input:  ti,
		width:  width,
		height: height,
	}
}

// Update handles messages for the command palette.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "enter":
			c := Parse(m.input.Value())
			m.input.Reset()
			if c.Name == "" {
				return m, func() tea.Msg { return CancelMsg{} }
			}
			return m, func() tea.Msg { return CommandMsg(c) }

		case "esc":
			m.input.Reset()
			return m, func() tea.Msg { return CancelMsg{} }
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// View renders the command palette.
func (m Model) View() string {
	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(theme.ColorWhite).
		MarginBottom(1)

	content := lipgloss.JoinVertical(lipgloss.Left,
		titleStyle.Render("Command Palette"),
		m.input.View(),
		theme.HelpStyle.Render("tab completes | enter runs | esc closes | ? lists commands"),
	)

	return theme.DetailPanelStyle.
		Width(max(m.width-4, 20)).
		Render(content)
}

// SetSize updates the command palette dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.input.Width = width - 6
}

// Focus gives keyboard focus to the text input.
func (m *Model) Focus() tea.Cmd {
	return m.input.Focus()
}
