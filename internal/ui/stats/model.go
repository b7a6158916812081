package stats

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/taskdash/internal/derived"
	"github.com/nhle/taskdash/internal/theme"
)

// Model renders task statistics as labelled bars.
type Model struct {
	stats    derived.Stats
	progress float64
	bar      progress.Model
	width    int
}

// New creates a statistics view.
func New(width int) Model {
	from, to := theme.ProgressColors()
	m := Model{bar: progress.New(progress.WithGradient(from, to))}
	m.SetSize(width)
	return m
}

// SetStats replaces the figures shown.
func (m *Model) SetStats(s derived.Stats, overallProgress float64) {
	m.stats = s
	m.progress = overallProgress
}

// View renders the statistics.
func (m Model) View() string {
	var b strings.Builder

	b.WriteString(theme.HeaderStyle.Render("Statistics"))
	b.WriteString("\n\n")
	b.WriteString(fmt.Sprintf("%s %d   %s %.0f%%\n\n",
		theme.LabelStyle.Render("Total tasks"), m.stats.Total,
		theme.LabelStyle.Render("Progress"), m.progress))

	b.WriteString(theme.LabelStyle.Render("By status"))
	b.WriteString("\n")
	b.WriteString(m.row("Completed", m.stats.Completed, theme.ColorGreen))
	b.WriteString(m.row("In progress", m.stats.InProgress, theme.ColorYellow))
	b.WriteString(m.row("Pending", m.stats.Pending, theme.ColorBlue))
	b.WriteString("\n")

	b.WriteString(theme.LabelStyle.Render("By priority"))
	b.WriteString("\n")
	b.WriteString(m.row("High", m.stats.High, theme.ColorRed))
	b.WriteString(m.row("Medium", m.stats.Medium, theme.ColorYellow))
	b.WriteString(m.row("Low", m.stats.Low, theme.ColorBlue))
	b.WriteString("\n")

	b.WriteString(m.row("Important", m.stats.Important, theme.ColorOrange))

	return lipgloss.NewStyle().Padding(1, 2).Render(b.String())
}

func (m Model) row(label string, c derived.Count, color lipgloss.AdaptiveColor) string {
	name := lipgloss.NewStyle().Foreground(color).Width(12).Render(label)
	bar := m.bar
	bar.ShowPercentage = false
	return fmt.Sprintf("  %s %s %3d  %5.1f%%\n", name, bar.ViewAs(c.Percent/100), c.N, c.Percent)
}

// SetSize updates the view width.
func (m *Model) SetSize(width int) {
	m.width = width
	w := width - 36
	if w < 10 {
		w = 10
	}
	if w > 50 {
		w = 50
	}
	m.bar.Width = w
}
