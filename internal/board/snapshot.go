package board

import (
	"context"
	"time"

	"github.com/nhle/taskdash/internal/derived"
	"github.com/nhle/taskdash/internal/model"
	"github.com/nhle/taskdash/internal/store"
)

// Snapshot is a read-only view of the board at one moment. Its slices are
// owned by the caller; changing them does not affect the board.
type Snapshot struct {
	Tasks    []model.Task
	Sections []model.Section

	ActiveSection string
	SearchTerm    string

	// Visible is the active section filtered by the search term.
	Visible   []model.Task
	Important []model.Task

	Progress        float64
	SectionProgress float64
	Stats           derived.Stats
	Notifications   []model.Notification

	Now time.Time
}

// Snapshot reads the current state and recomputes every derived view.
func (b *Board) Snapshot(ctx context.Context, now time.Time) (Snapshot, error) {
	tasks, err := b.store.GetTasks(ctx, store.TaskFilter{})
	if err != nil {
		b.logger.Error("loading tasks", "err", err)
		return Snapshot{}, err
	}
	sections, err := b.store.GetSections(ctx)
	if err != nil {
		b.logger.Error("loading sections", "err", err)
		return Snapshot{}, err
	}

	b.mu.Lock()
	active, search := b.activeSection, b.searchTerm
	b.mu.Unlock()

	return Snapshot{
		Tasks:           tasks,
		Sections:        sections,
		ActiveSection:   active,
		SearchTerm:      search,
		Visible:         derived.Visible(tasks, active, search),
		Important:       derived.Important(tasks),
		Progress:        derived.Progress(tasks),
		SectionProgress: derived.SectionProgress(tasks, active),
		Stats:           derived.ComputeStats(tasks),
		Notifications:   derived.DueNotifications(tasks, now),
		Now:             now,
	}, nil
}

// Calendar buckets the snapshot's tasks for the given month.
func (s Snapshot) Calendar(year int, month time.Month) derived.Month {
	return derived.CalendarMonth(s.Tasks, year, month)
}

// Task returns the task with the given id.
func (s Snapshot) Task(id int64) (model.Task, bool) {
	for _, t := range s.Tasks {
		if t.ID == id {
			return t.Clone(), true
		}
	}
	return model.Task{}, false
}

// Section returns the section with the given id.
func (s Snapshot) Section(id string) (model.Section, bool) {
	for _, sec := range s.Sections {
		if sec.ID == id {
			return sec, true
		}
	}
	return model.Section{}, false
}

// SectionName returns the display name of id, or id itself when the
// section no longer exists.
func (s Snapshot) SectionName(id string) string {
	if sec, ok := s.Section(id); ok {
		return sec.Name
	}
	return id
}
