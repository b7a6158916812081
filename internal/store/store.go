package store

import (
	"context"

	"github.com/nhle/taskdash/internal/model"
)

// TaskFilter controls filtering and sorting for task queries.
type TaskFilter struct {
	SectionID *string // exact section id, or nil (all sections)
	Important *bool   // important flag, or nil (all)
	Query     *string // case-insensitive substring of text
	SortBy    string  // "id", "due", "priority", "text"
	SortDesc  bool
}

// Store defines the persistence interface for tasks, their subtasks,
// and sections.
type Store interface {
	// === Tasks ===

	CreateTask(ctx context.Context, task model.Task) (model.Task, error)
	UpdateTask(ctx context.Context, task model.Task) error
	DeleteTask(ctx context.Context, id int64) error
	GetTaskByID(ctx context.Context, id int64) (*model.Task, error)
	GetTasks(ctx context.Context, filter TaskFilter) ([]model.Task, error)
	SetCompleted(ctx context.Context, id int64, completed bool) error
	SetImportant(ctx context.Context, id int64, important bool) error
	SetStatus(ctx context.Context, id int64, status model.Status) error

	// === Subtasks ===

	ToggleSubTask(ctx context.Context, taskID int64, position int) error

	// === Sections ===

	CreateSection(ctx context.Context, section model.Section) (model.Section, error)
	RenameSection(ctx context.Context, id, name string) error
	DeleteSection(ctx context.Context, id string) error
	GetSectionByID(ctx context.Context, id string) (*model.Section, error)
	GetSections(ctx context.Context) ([]model.Section, error)
}
