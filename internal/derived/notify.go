package derived

import (
	"fmt"
	"math"
	"strconv"
	"time"

	"github.com/nhle/taskdash/internal/model"
)

// Due windows, in minutes relative to the task's due time.
const (
	LookAheadMinutes = 60
	WarningMinutes   = 15
	LookBackMinutes  = 60
)

// MinutesUntilDue returns floor((due - now) / 1m) for a task with both a
// due date and a due time. The second value is false otherwise.
func MinutesUntilDue(t model.Task, now time.Time) (int, bool) {
	due, ok := t.Due(now.Location())
	if !ok {
		return 0, false
	}
	return int(math.Floor(due.Sub(now).Minutes())), true
}

// DueNotifications builds the due-soon and overdue notifications for the
// incomplete tasks in the list, in task order. The result is computed from
// scratch on each call.
func DueNotifications(tasks []model.Task, now time.Time) []model.Notification {
	out := make([]model.Notification, 0)
	for _, t := range tasks {
		if t.Completed {
			continue
		}
		minutes, ok := MinutesUntilDue(t, now)
		if !ok {
			continue
		}

		switch {
		case minutes > 0 && minutes <= LookAheadMinutes:
			sev := model.SeverityInfo
			if minutes <= WarningMinutes {
				sev = model.SeverityWarning
			}
			out = append(out, model.Notification{
				ID:              NotificationID(t.ID, minutes),
				TaskID:          t.ID,
				Message:         fmt.Sprintf("\"%s\" is due in %d %s!", t.Text, minutes, plural(minutes, "minute")),
				Severity:        sev,
				MinutesUntilDue: minutes,
			})
		case minutes <= 0 && minutes >= -LookBackMinutes:
			out = append(out, model.Notification{
				ID:              OverdueID(t.ID),
				TaskID:          t.ID,
				Message:         fmt.Sprintf("\"%s\" is overdue!", t.Text),
				Severity:        model.SeverityWarning,
				MinutesUntilDue: minutes,
				Overdue:         true,
			})
		}
	}
	return out
}

// NotificationID identifies the due-soon notification for a task at a given
// minute offset.
func NotificationID(taskID int64, minutes int) string {
	return strconv.FormatInt(taskID, 10) + "-" + strconv.Itoa(minutes)
}

// OverdueID identifies the overdue notification for a task.
func OverdueID(taskID int64) string {
	return strconv.FormatInt(taskID, 10) + "-overdue"
}

func plural(n int, word string) string {
	if n == 1 {
		return word
	}
	return word + "s"
}
