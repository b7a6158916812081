// Package board owns the task collection and the user's selection state.
// All mutations go through Board; readers receive a Snapshot.
package board

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/nhle/taskdash/internal/model"
	"github.com/nhle/taskdash/internal/store"
)

// RequiredFieldsMessage is shown when a task is submitted without its
// required fields.
const RequiredFieldsMessage = "Please fill in all required fields (Todo name, Due date, and Due time)"

// ErrValidation is matched by every input validation failure.
var ErrValidation = errors.New("validation failed")

// ValidationError carries a user-facing message. errors.Is(err,
// ErrValidation) holds for every ValidationError.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// Is makes ValidationError match ErrValidation.
func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

func invalid(format string, args ...any) error {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

// TaskInput holds the user-editable fields of a task.
type TaskInput struct {
	Text        string
	Description string
	DueDate     string
	DueTime     string
	Priority    model.Priority
	SubTasks    []string
}

// Validate checks the required fields.
func (in TaskInput) Validate() error {
	if strings.TrimSpace(in.Text) == "" ||
		strings.TrimSpace(in.DueDate) == "" ||
		strings.TrimSpace(in.DueTime) == "" {
		return invalid(RequiredFieldsMessage)
	}
	return nil
}

// Board is the single owner of tasks, sections, the active section and the
// search term. Operations on ids that do not exist are silent no-ops.
type Board struct {
	store  store.Store
	logger *log.Logger

	mu            sync.Mutex
	activeSection string
	searchTerm    string
}

// New creates a Board over s with the default section active.
func New(s store.Store, logger *log.Logger) *Board {
	return &Board{
		store:         s,
		logger:        logger,
		activeSection: model.DefaultSectionID,
	}
}

// ActiveSection returns the id of the section new tasks are created in.
func (b *Board) ActiveSection() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.activeSection
}

// SearchTerm returns the current task list filter.
func (b *Board) SearchTerm() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.searchTerm
}

// AddTask validates in and creates a pending, unflagged task in the active
// section. Nothing is stored when validation fails.
func (b *Board) AddTask(ctx context.Context, in TaskInput) (model.Task, error) {
	if err := in.Validate(); err != nil {
		return model.Task{}, err
	}

	priority := in.Priority
	if !priority.Valid() {
		priority = model.PriorityMedium
	}

	task := model.Task{
		Text:        strings.TrimSpace(in.Text),
		Description: in.Description,
		DueDate:     strings.TrimSpace(in.DueDate),
		DueTime:     strings.TrimSpace(in.DueTime),
		Section:     b.ActiveSection(),
		Priority:    priority,
		Status:      model.StatusPending,
		SubTasks:    subTasksFrom(in.SubTasks),
	}

	created, err := b.store.CreateTask(ctx, task)
	if err != nil {
		b.logger.Error("creating task", "err", err)
		return model.Task{}, err
	}
	b.logger.Debug("task created", "id", created.ID, "section", created.Section)
	return created, nil
}

// UpdateTask replaces the editable fields of task id. Subtasks are rebuilt
// from in.SubTasks and start uncompleted, even if the old ones were done.
func (b *Board) UpdateTask(ctx context.Context, id int64, in TaskInput) error {
	if err := in.Validate(); err != nil {
		return err
	}

	existing, err := b.store.GetTaskByID(ctx, id)
	if err != nil {
		return b.ignoreMissing("loading task for update", err)
	}

	existing.Text = strings.TrimSpace(in.Text)
	existing.Description = in.Description
	existing.DueDate = strings.TrimSpace(in.DueDate)
	existing.DueTime = strings.TrimSpace(in.DueTime)
	if in.Priority.Valid() {
		existing.Priority = in.Priority
	}

	existing.SubTasks = subTasksFrom(in.SubTasks)

	return b.ignoreMissing("updating task", b.store.UpdateTask(ctx, *existing))
}

// ToggleCompleted flips the completed flag. Status is left as is.
func (b *Board) ToggleCompleted(ctx context.Context, id int64) error {
	task, err := b.store.GetTaskByID(ctx, id)
	if err != nil {
		return b.ignoreMissing("loading task", err)
	}
	return b.ignoreMissing("toggling completed", b.store.SetCompleted(ctx, id, !task.Completed))
}

// ToggleImportant flips the important flag.
func (b *Board) ToggleImportant(ctx context.Context, id int64) error {
	task, err := b.store.GetTaskByID(ctx, id)
	if err != nil {
		return b.ignoreMissing("loading task", err)
	}
	return b.ignoreMissing("toggling important", b.store.SetImportant(ctx, id, !task.Important))
}

// SetStatus sets the status of task id and marks it completed exactly when
// the new status is completed.
func (b *Board) SetStatus(ctx context.Context, id int64, status model.Status) error {
	if !status.Valid() {
		return invalid("unknown status %q", status)
	}
	return b.ignoreMissing("setting status", b.store.SetStatus(ctx, id, status))
}

// DeleteTask removes task id.
func (b *Board) DeleteTask(ctx context.Context, id int64) error {
	return b.ignoreMissing("deleting task", b.store.DeleteTask(ctx, id))
}

// ToggleSubTask flips subtask index of task id.
func (b *Board) ToggleSubTask(ctx context.Context, id int64, index int) error {
	return b.ignoreMissing("toggling subtask", b.store.ToggleSubTask(ctx, id, index))
}

// AddSection appends a new section named name.
func (b *Board) AddSection(ctx context.Context, name string) (model.Section, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return model.Section{}, invalid("Section name is required")
	}
	section, err := b.store.CreateSection(ctx, model.Section{Name: name})
	if err != nil {
		b.logger.Error("creating section", "err", err)
		return model.Section{}, err
	}
	return section, nil
}

// RenameSection changes the display name of section id. The default
// section keeps its name.
func (b *Board) RenameSection(ctx context.Context, id, name string) error {
	if id == model.DefaultSectionID {
		return nil
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return invalid("Section name is required")
	}
	return b.ignoreMissing("renaming section", b.store.RenameSection(ctx, id, name))
}

// DeleteSection removes section id. Its tasks keep pointing at the removed
// id. Deleting the default section does nothing; deleting the active one
// makes the default section active.
func (b *Board) DeleteSection(ctx context.Context, id string) error {
	if id == model.DefaultSectionID {
		return nil
	}
	if err := b.ignoreMissing("deleting section", b.store.DeleteSection(ctx, id)); err != nil {
		return err
	}

	b.mu.Lock()
	if b.activeSection == id {
		b.activeSection = model.DefaultSectionID
	}
	b.mu.Unlock()
	return nil
}

// SetActiveSection selects the section new tasks go to and the task list
// shows. Unknown ids are ignored.
func (b *Board) SetActiveSection(ctx context.Context, id string) error {
	if _, err := b.store.GetSectionByID(ctx, id); err != nil {
		return b.ignoreMissing("selecting section", err)
	}
	b.mu.Lock()
	b.activeSection = id
	b.mu.Unlock()
	return nil
}

// SetSearchTerm sets the case-insensitive filter applied to the task list.
func (b *Board) SetSearchTerm(term string) {
	b.mu.Lock()
	b.searchTerm = term
	b.mu.Unlock()
}

// ignoreMissing swallows store.ErrNotFound and logs anything else.
func (b *Board) ignoreMissing(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, store.ErrNotFound) {
		b.logger.Debug(op+": not found", "err", err)
		return nil
	}
	b.logger.Error(op, "err", err)
	return err
}

func subTasksFrom(texts []string) []model.SubTask {
	subs := make([]model.SubTask, len(texts))
	for i, text := range texts {
		subs[i] = model.SubTask{ID: i, Text: text}
	}
	return subs
}
