package derived

import (
	"time"

	"github.com/nhle/taskdash/internal/model"
)

// Month is a calendar month with tasks bucketed by day.
type Month struct {
	Year  int
	Month time.Month

	DaysInMonth int

	// LeadingBlanks is the weekday of the 1st with Sunday = 0, i.e. the
	// number of empty cells before day 1 in a Sunday-first grid.
	LeadingBlanks int

	// Days[i] holds the tasks due on day i+1.
	Days [][]model.Task
}

// CalendarMonth buckets tasks by due day for the given month. Tasks with no
// parseable due date, or a due date in another month, are left out.
func CalendarMonth(tasks []model.Task, year int, month time.Month) Month {
	first := time.Date(year, month, 1, 0, 0, 0, 0, time.Local)
	days := first.AddDate(0, 1, -1).Day()

	m := Month{
		Year:          first.Year(),
		Month:         first.Month(),
		DaysInMonth:   days,
		LeadingBlanks: int(first.Weekday()),
		Days:          make([][]model.Task, days),
	}

	for _, t := range tasks {
		due, err := time.ParseInLocation(model.DateLayout, t.DueDate, time.Local)
		if err != nil {
			continue
		}
		if due.Year() != m.Year || due.Month() != m.Month {
			continue
		}
		d := due.Day() - 1
		m.Days[d] = append(m.Days[d], t.Clone())
	}
	return m
}

// TasksOn returns the tasks due on day (1-based), or nil when day is out of range.
func (m Month) TasksOn(day int) []model.Task {
	if day < 1 || day > m.DaysInMonth {
		return nil
	}
	return m.Days[day-1]
}
