// Package derived computes read-only views over a task collection:
// progress, statistics, calendar buckets, filters and due notifications.
// Every function is pure and never modifies its input.
package derived

import "github.com/nhle/taskdash/internal/model"

// Progress returns the percentage of completed tasks, or 0 for an empty list.
func Progress(tasks []model.Task) float64 {
	if len(tasks) == 0 {
		return 0
	}
	var done int
	for _, t := range tasks {
		if t.Completed {
			done++
		}
	}
	return 100 * float64(done) / float64(len(tasks))
}

// SectionProgress returns credit-weighted progress for the tasks in
// sectionID. Completed tasks earn full credit and in-progress tasks half.
func SectionProgress(tasks []model.Task, sectionID string) float64 {
	var total int
	var credit float64
	for _, t := range tasks {
		if t.Section != sectionID {
			continue
		}
		total++
		credit += creditFor(t.Status)
	}
	if total == 0 {
		return 0
	}
	return 100 * credit / float64(total)
}

func creditFor(s model.Status) float64 {
	switch s {
	case model.StatusCompleted:
		return 1
	case model.StatusInProgress:
		return 0.5
	default:
		return 0
	}
}

// SubTaskProgress returns the percentage of a task's subtasks that are
// completed, or 0 when it has none.
func SubTaskProgress(t model.Task) float64 {
	if len(t.SubTasks) == 0 {
		return 0
	}
	var done int
	for _, s := range t.SubTasks {
		if s.Completed {
			done++
		}
	}
	return 100 * float64(done) / float64(len(t.SubTasks))
}
