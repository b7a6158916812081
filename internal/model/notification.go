package model

// Severity classifies how urgent a notification is.
type Severity string

// Severity values.
const (
	SeverityInfo    Severity = "info"
	SeverityWarning Severity = "warning"
)

// Notification is a due-soon or overdue alert derived from a task.
// Notifications are recomputed from the task list and never stored.
type Notification struct {
	// ID is stable for a given task and minute offset, so the user can
	// dismiss a single entry.
	ID string `json:"id"`

	// TaskID links this notification to the originating task.
	TaskID int64 `json:"task_id"`

	// Message is the human-readable notification text.
	Message string `json:"message"`

	Severity Severity `json:"severity"`

	// MinutesUntilDue is negative or zero once the task is past due.
	MinutesUntilDue int `json:"minutes_until_due"`

	Overdue bool `json:"overdue"`
}
