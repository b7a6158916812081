package model

import "time"

// Status is the workflow state of a task.
type Status string

// Task status values.
const (
	StatusPending    Status = "pending"
	StatusInProgress Status = "in-progress"
	StatusCompleted  Status = "completed"
)

// Statuses lists every status in workflow order.
var Statuses = []Status{StatusPending, StatusInProgress, StatusCompleted}

// Valid reports whether s is one of the known statuses.
func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusInProgress, StatusCompleted:
		return true
	}
	return false
}

// Next returns the status that follows s in workflow order, wrapping
// completed back to pending.
func (s Status) Next() Status {
	switch s {
	case StatusPending:
		return StatusInProgress
	case StatusInProgress:
		return StatusCompleted
	default:
		return StatusPending
	}
}

// Priority is the user-assigned urgency of a task.
type Priority string

// Priority values.
const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// Priorities lists every priority from highest to lowest.
var Priorities = []Priority{PriorityHigh, PriorityMedium, PriorityLow}

// Valid reports whether p is one of the known priorities.
func (p Priority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

// Date and time layouts used for DueDate and DueTime.
const (
	DateLayout = "2006-01-02"
	TimeLayout = "15:04"
)

// Task is a single todo item owned by a section.
type Task struct {
	ID          int64     `json:"id" db:"id"`
	Text        string    `json:"text" db:"text"`
	Description string    `json:"description" db:"description"`
	Completed   bool      `json:"completed" db:"completed"`
	Important   bool      `json:"important" db:"important"`
	DueDate     string    `json:"due_date,omitempty" db:"due_date"`
	DueTime     string    `json:"due_time,omitempty" db:"due_time"`
	Section     string    `json:"section" db:"section"`
	Priority    Priority  `json:"priority" db:"priority"`
	Status      Status    `json:"status" db:"status"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`

	// SubTasks is loaded separately from the subtasks table.
	SubTasks []SubTask `json:"sub_tasks" db:"-"`
}

// SubTask is an ordered checklist entry inside a task. Its ID is the
// position within the parent and is only unique per task.
type SubTask struct {
	ID        int    `json:"id" db:"position"`
	Text      string `json:"text" db:"text"`
	Completed bool   `json:"completed" db:"completed"`
}

// Due returns the combined due date and time in loc. The second return
// value is false when either part is missing or unparseable.
func (t Task) Due(loc *time.Location) (time.Time, bool) {
	if t.DueDate == "" || t.DueTime == "" {
		return time.Time{}, false
	}
	due, err := time.ParseInLocation(DateLayout+" "+TimeLayout, t.DueDate+" "+t.DueTime, loc)
	if err != nil {
		return time.Time{}, false
	}
	return due, true
}

// Clone returns a copy of t that shares no memory with the original.
func (t Task) Clone() Task {
	c := t
	if t.SubTasks != nil {
		c.SubTasks = make([]SubTask, len(t.SubTasks))
		copy(c.SubTasks, t.SubTasks)
	}
	return c
}
