package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/nhle/taskdash/internal/model"
)

const taskColumns = `id, text, description, completed, important,
	due_date, due_time, section, priority, status, created_at`

// CreateTask inserts a new task with its subtasks and returns it with the
// assigned ID. IDs come from an AUTOINCREMENT sequence and are never reused.
func (s *SQLiteStore) CreateTask(ctx context.Context, task model.Task) (model.Task, error) {
	if task.Status == "" {
		task.Status = model.StatusPending
	}
	if !task.Priority.Valid() {
		task.Priority = model.PriorityMedium
	}
	if task.Section == "" {
		task.Section = model.DefaultSectionID
	}
	task.CreatedAt = time.Now().UTC()

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return model.Task{}, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	result, err := tx.ExecContext(ctx, `
		INSERT INTO tasks (
			text, description, completed, important,
			due_date, due_time, section, priority, status, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		task.Text, task.Description, boolToInt(task.Completed), boolToInt(task.Important),
		task.DueDate, task.DueTime, task.Section, string(task.Priority), string(task.Status),
		task.CreatedAt,
	)
	if err != nil {
		return model.Task{}, fmt.Errorf("creating task: %w", err)
	}

	task.ID, err = result.LastInsertId()
	if err != nil {
		return model.Task{}, fmt.Errorf("reading task id: %w", err)
	}

	for i := range task.SubTasks {
		task.SubTasks[i].ID = i
	}
	if err := insertSubTasks(ctx, tx, task.ID, task.SubTasks); err != nil {
		return model.Task{}, err
	}

	if err := tx.Commit(); err != nil {
		return model.Task{}, fmt.Errorf("committing task: %w", err)
	}
	return task, nil
}

// UpdateTask overwrites the editable columns of an existing task and
// replaces its subtasks with task.SubTasks, positioned by their IDs. Both
// happen in one transaction.
func (s *SQLiteStore) UpdateTask(ctx context.Context, task model.Task) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	result, err := tx.ExecContext(ctx, `
		UPDATE tasks SET
			text = ?, description = ?, due_date = ?, due_time = ?,
			priority = ?, section = ?
		WHERE id = ?`,
		task.Text, task.Description, task.DueDate, task.DueTime,
		string(task.Priority), task.Section,
		task.ID,
	)
	if err != nil {
		return fmt.Errorf("updating task %d: %w", task.ID, err)
	}
	if err := expectRow(result, "task", task.ID); err != nil {
		return err
	}

	if _, err := tx.ExecContext(ctx, "DELETE FROM subtasks WHERE task_id = ?", task.ID); err != nil {
		return fmt.Errorf("clearing subtasks of task %d: %w", task.ID, err)
	}
	if err := insertSubTasks(ctx, tx, task.ID, task.SubTasks); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing task %d: %w", task.ID, err)
	}
	return nil
}

// DeleteTask removes a task by ID. Its subtasks cascade.
func (s *SQLiteStore) DeleteTask(ctx context.Context, id int64) error {
	result, err := s.db.ExecContext(ctx, "DELETE FROM tasks WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting task %d: %w", id, err)
	}
	return expectRow(result, "task", id)
}

// GetTaskByID retrieves a single task by ID, including its subtasks.
func (s *SQLiteStore) GetTaskByID(ctx context.Context, id int64) (*model.Task, error) {
	var task model.Task
	err := s.db.GetContext(ctx, &task,
		"SELECT "+taskColumns+" FROM tasks WHERE id = ?", id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("task %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("getting task %d: %w", id, err)
	}

	tasks := []model.Task{task}
	if err := s.attachSubTasks(ctx, tasks); err != nil {
		return nil, err
	}
	return &tasks[0], nil
}

// GetTasks retrieves tasks matching the filter, with subtasks attached.
func (s *SQLiteStore) GetTasks(ctx context.Context, filter TaskFilter) ([]model.Task, error) {
	query, args := buildTaskQuery(filter)

	var tasks []model.Task
	if err := s.db.SelectContext(ctx, &tasks, query, args...); err != nil {
		return nil, fmt.Errorf("querying tasks: %w", err)
	}
	if err := s.attachSubTasks(ctx, tasks); err != nil {
		return nil, err
	}
	return tasks, nil
}

// SetCompleted sets the completed flag without touching status.
func (s *SQLiteStore) SetCompleted(ctx context.Context, id int64, completed bool) error {
	result, err := s.db.ExecContext(ctx,
		"UPDATE tasks SET completed = ? WHERE id = ?", boolToInt(completed), id)
	if err != nil {
		return fmt.Errorf("setting completed on task %d: %w", id, err)
	}
	return expectRow(result, "task", id)
}

// SetImportant sets the important flag.
func (s *SQLiteStore) SetImportant(ctx context.Context, id int64, important bool) error {
	result, err := s.db.ExecContext(ctx,
		"UPDATE tasks SET important = ? WHERE id = ?", boolToInt(important), id)
	if err != nil {
		return fmt.Errorf("setting important on task %d: %w", id, err)
	}
	return expectRow(result, "task", id)
}

// SetStatus sets the status and derives completed from it.
func (s *SQLiteStore) SetStatus(ctx context.Context, id int64, status model.Status) error {
	result, err := s.db.ExecContext(ctx,
		"UPDATE tasks SET status = ?, completed = ? WHERE id = ?",
		string(status), boolToInt(status == model.StatusCompleted), id)
	if err != nil {
		return fmt.Errorf("setting status on task %d: %w", id, err)
	}
	return expectRow(result, "task", id)
}

// ToggleSubTask flips the completed state of one subtask.
func (s *SQLiteStore) ToggleSubTask(ctx context.Context, taskID int64, position int) error {
	result, err := s.db.ExecContext(ctx,
		"UPDATE subtasks SET completed = CASE WHEN completed = 0 THEN 1 ELSE 0 END WHERE task_id = ? AND position = ?",
		taskID, position)
	if err != nil {
		return fmt.Errorf("toggling subtask %d of task %d: %w", position, taskID, err)
	}
	return expectRow(result, "subtask", taskID)
}

func insertSubTasks(ctx context.Context, tx *sqlx.Tx, taskID int64, subs []model.SubTask) error {
	if len(subs) == 0 {
		return nil
	}

	stmt, err := tx.PreparexContext(ctx,
		"INSERT INTO subtasks (task_id, position, text, completed) VALUES (?, ?, ?, ?)")
	if err != nil {
		return fmt.Errorf("preparing subtask insert: %w", err)
	}
	defer stmt.Close()

	for _, sub := range subs {
		if _, err := stmt.ExecContext(ctx, taskID, sub.ID, sub.Text, boolToInt(sub.Completed)); err != nil {
			return fmt.Errorf("inserting subtask %d of task %d: %w", sub.ID, taskID, err)
		}
	}
	return nil
}

type subTaskRow struct {
	TaskID int64 `db:"task_id"`
	model.SubTask
}

// attachSubTasks loads subtasks for all tasks in one query.
func (s *SQLiteStore) attachSubTasks(ctx context.Context, tasks []model.Task) error {
	if len(tasks) == 0 {
		return nil
	}

	ids := make([]int64, len(tasks))
	byID := make(map[int64]int, len(tasks))
	for i, t := range tasks {
		ids[i] = t.ID
		byID[t.ID] = i
		tasks[i].SubTasks = []model.SubTask{}
	}

	query, args, err := sqlx.In(
		"SELECT task_id, position, text, completed FROM subtasks WHERE task_id IN (?) ORDER BY task_id, position",
		ids)
	if err != nil {
		return fmt.Errorf("building subtask query: %w", err)
	}

	var rows []subTaskRow
	if err := s.db.SelectContext(ctx, &rows, s.db.Rebind(query), args...); err != nil {
		return fmt.Errorf("querying subtasks: %w", err)
	}

	for _, r := range rows {
		i := byID[r.TaskID]
		tasks[i].SubTasks = append(tasks[i].SubTasks, r.SubTask)
	}
	return nil
}

// buildTaskQuery constructs the SQL query and args for a TaskFilter.
func buildTaskQuery(filter TaskFilter) (string, []interface{}) {
	var conditions []string
	var args []interface{}

	if filter.SectionID != nil {
		conditions = append(conditions, "section = ?")
		args = append(args, *filter.SectionID)
	}
	if filter.Important != nil {
		conditions = append(conditions, "important = ?")
		args = append(args, boolToInt(*filter.Important))
	}
	if filter.Query != nil && *filter.Query != "" {
		conditions = append(conditions, "LOWER(text) LIKE ?")
		args = append(args, "%"+strings.ToLower(*filter.Query)+"%")
	}

	query := "SELECT " + taskColumns + " FROM tasks"
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}

	sortBy := "id"
	allowed := map[string]string{
		"id":       "id",
		"due":      "due_date || ' ' || due_time",
		"priority": "CASE priority WHEN 'high' THEN 0 WHEN 'medium' THEN 1 ELSE 2 END",
		"text":     "text COLLATE NOCASE",
	}
	if col, ok := allowed[filter.SortBy]; ok {
		sortBy = col
	}
	direction := "ASC"
	if filter.SortDesc {
		direction = "DESC"
	}
	query += fmt.Sprintf(" ORDER BY %s %s, id ASC", sortBy, direction)

	return query, args
}

// expectRow turns a zero-row update or delete into ErrNotFound.
func expectRow(result sql.Result, kind string, id interface{}) error {
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return fmt.Errorf("%s %v: %w", kind, id, ErrNotFound)
	}
	return nil
}
