package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/taskdash/internal/theme"
)

// Layout manages the terminal frame: header, view tabs, content and
// status bar.
type Layout struct {
	Width           int
	Height          int
	HeaderHeight    int
	TabsHeight      int
	StatusBarHeight int
}

// NewLayout creates a Layout with the given terminal dimensions.
func NewLayout(width, height int) Layout {
	return Layout{
		Width:           width,
		Height:          height,
		HeaderHeight:    1,
		TabsHeight:      1,
		StatusBarHeight: 1,
	}
}

// ContentWidth returns the full available width.
func (l Layout) ContentWidth() int {
	return l.Width
}

// ContentHeight returns the height left for the active view.
func (l Layout) ContentHeight() int {
	h := l.Height - l.HeaderHeight - l.TabsHeight - l.StatusBarHeight
	if h < 0 {
		return 0
	}
	return h
}

// RenderHeader renders the top bar with title on the left and status text
// on the right.
func (l Layout) RenderHeader(title string, status string) string {
	titleRendered := theme.HeaderStyle.Render(title)
	statusRendered := theme.HeaderStyle.Align(lipgloss.Right).Render(status)

	gap := l.Width - lipgloss.Width(titleRendered) - lipgloss.Width(statusRendered)
	if gap < 0 {
		gap = 0
	}
	filler := lipgloss.NewStyle().
		Width(gap).
		Background(theme.HeaderStyle.GetBackground()).
		Render("")

	return lipgloss.JoinHorizontal(lipgloss.Top, titleRendered, filler, statusRendered)
}

// RenderTabs renders the view names with the active one highlighted.
func (l Layout) RenderTabs(names []string, active int) string {
	tabs := make([]string, len(names))
	for i, name := range names {
		if i == active {
			tabs[i] = theme.ActiveTabStyle.Render(name)
		} else {
			tabs[i] = theme.TabStyle.Render(name)
		}
	}
	return lipgloss.NewStyle().MaxWidth(l.Width).Render(strings.Join(tabs, " "))
}

// RenderStatusBar renders the bottom bar. A non-empty message replaces
// the key hints; isErr styles it as an error.
func (l Layout) RenderStatusBar(hints, message string, isErr bool) string {
	text := hints
	if message != "" {
		text = message
		if isErr {
			text = theme.ErrorStyle.Render(message)
		}
	}
	return theme.StatusBarStyle.Width(l.Width).MaxWidth(l.Width).Render(text)
}

// RenderWithFrame stacks header, tabs, content and status bar. Content is
// padded to the available height so the status bar stays at the bottom.
func (l Layout) RenderWithFrame(header, tabs, content, statusBar string) string {
	body := lipgloss.NewStyle().
		Height(l.ContentHeight()).
		MaxHeight(l.ContentHeight()).
		Render(content)
	return lipgloss.JoinVertical(lipgloss.Left, header, tabs, body, statusBar)
}
