package derived

import (
	"strings"

	"github.com/nhle/taskdash/internal/model"
)

// Visible returns the tasks of sectionID whose text contains search,
// ignoring case. An empty search matches everything in the section.
func Visible(tasks []model.Task, sectionID, search string) []model.Task {
	needle := strings.ToLower(strings.TrimSpace(search))
	out := make([]model.Task, 0, len(tasks))
	for _, t := range tasks {
		if t.Section != sectionID {
			continue
		}
		if needle != "" && !strings.Contains(strings.ToLower(t.Text), needle) {
			continue
		}
		out = append(out, t.Clone())
	}
	return out
}

// Important returns every task flagged important, across all sections.
func Important(tasks []model.Task) []model.Task {
	out := make([]model.Task, 0)
	for _, t := range tasks {
		if t.Important {
			out = append(out, t.Clone())
		}
	}
	return out
}

// InSection returns the tasks that belong to sectionID.
func InSection(tasks []model.Task, sectionID string) []model.Task {
	return Visible(tasks, sectionID, "")
}
