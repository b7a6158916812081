package derived

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhle/taskdash/internal/model"
)

func task(id int64, status model.Status, completed bool) model.Task {
	return model.Task{
		ID:        id,
		Text:      "task",
		Section:   model.DefaultSectionID,
		Status:    status,
		Completed: completed,
		Priority:  model.PriorityMedium,
	}
}

func TestProgress(t *testing.T) {
	assert.Equal(t, 0.0, Progress(nil))
	assert.Equal(t, 0.0, Progress([]model.Task{}))

	tasks := []model.Task{
		task(1, model.StatusCompleted, true),
		task(2, model.StatusPending, false),
		task(3, model.StatusPending, false),
		task(4, model.StatusPending, true),
	}
	assert.Equal(t, 50.0, Progress(tasks))

	for n := 0; n <= len(tasks); n++ {
		p := Progress(tasks[:n])
		assert.GreaterOrEqual(t, p, 0.0)
		assert.LessOrEqual(t, p, 100.0)
	}
}

func TestSectionProgress(t *testing.T) {
	tests := []struct {
		name   string
		status model.Status
		want   float64
	}{
		{"all pending", model.StatusPending, 0},
		{"all completed", model.StatusCompleted, 100},
		{"all in progress", model.StatusInProgress, 50},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tasks := []model.Task{task(1, tt.status, false), task(2, tt.status, false)}
			assert.Equal(t, tt.want, SectionProgress(tasks, model.DefaultSectionID))
		})
	}

	t.Run("other sections ignored", func(t *testing.T) {
		other := task(3, model.StatusPending, false)
		other.Section = "work"
		tasks := []model.Task{task(1, model.StatusCompleted, true), other}
		assert.Equal(t, 100.0, SectionProgress(tasks, model.DefaultSectionID))
		assert.Equal(t, 0.0, SectionProgress(tasks, "empty"))
	})
}

func TestSubTaskProgress(t *testing.T) {
	tk := task(1, model.StatusPending, false)
	assert.Equal(t, 0.0, SubTaskProgress(tk))

	tk.SubTasks = []model.SubTask{{ID: 0, Completed: true}, {ID: 1}, {ID: 2}, {ID: 3, Completed: true}}
	assert.Equal(t, 50.0, SubTaskProgress(tk))
}

func TestVisible(t *testing.T) {
	a := task(1, model.StatusPending, false)
	a.Text = "Buy Milk"
	b := task(2, model.StatusPending, false)
	b.Text = "Call mom"
	c := task(3, model.StatusPending, false)
	c.Text = "milk the cow"
	c.Section = "farm"

	got := Visible([]model.Task{a, b, c}, model.DefaultSectionID, "MILK")
	require.Len(t, got, 1)
	assert.Equal(t, int64(1), got[0].ID)

	assert.Len(t, Visible([]model.Task{a, b, c}, model.DefaultSectionID, ""), 2)
	assert.Len(t, InSection([]model.Task{a, b, c}, "farm"), 1)
}

func TestImportant(t *testing.T) {
	a := task(1, model.StatusPending, false)
	b := task(2, model.StatusPending, false)
	b.Important = true
	b.Section = "elsewhere"

	got := Important([]model.Task{a, b})
	require.Len(t, got, 1)
	assert.Equal(t, int64(2), got[0].ID)
	assert.Empty(t, Important(nil))
}

func TestCalendarMonth(t *testing.T) {
	due := func(id int64, date string) model.Task {
		tk := task(id, model.StatusPending, false)
		tk.DueDate = date
		return tk
	}
	tasks := []model.Task{
		due(1, "2026-10-01"),
		due(2, "2026-10-31"),
		due(3, "2026-10-31"),
		due(4, "2026-11-01"),
		due(5, "not a date"),
		due(6, ""),
	}

	m := CalendarMonth(tasks, 2026, time.October)
	assert.Equal(t, 31, m.DaysInMonth)
	// 1 October 2026 is a Thursday.
	assert.Equal(t, 4, m.LeadingBlanks)
	require.Len(t, m.Days, 31)
	assert.Len(t, m.TasksOn(1), 1)
	assert.Len(t, m.TasksOn(31), 2)
	assert.Nil(t, m.TasksOn(32))

	var bucketed int
	for _, d := range m.Days {
		for _, tk := range d {
			assert.NotEqual(t, int64(4), tk.ID, "next month's task must not appear")
			bucketed++
		}
	}
	assert.Equal(t, 3, bucketed)
}

func TestCalendarMonth_LeapFebruary(t *testing.T) {
	m := CalendarMonth(nil, 2028, time.February)
	assert.Equal(t, 29, m.DaysInMonth)
	// 1 February 2028 is a Tuesday.
	assert.Equal(t, 2, m.LeadingBlanks)
}

func TestComputeStats(t *testing.T) {
	empty := ComputeStats(nil)
	assert.Equal(t, 0, empty.Total)
	assert.Equal(t, 0.0, empty.Completed.Percent)
	assert.Equal(t, 0.0, empty.InProgress.Percent)
	assert.Equal(t, 0.0, empty.Pending.Percent)
	assert.Equal(t, 0.0, empty.High.Percent)

	high := task(1, model.StatusCompleted, true)
	high.Priority = model.PriorityHigh
	low := task(2, model.StatusInProgress, false)
	low.Priority = model.PriorityLow
	tasks := []model.Task{
		high,
		low,
		task(3, model.StatusPending, false),
		// Toggled complete without a status change.
		task(4, model.StatusPending, true),
		task(5, model.StatusPending, false),
		task(6, model.StatusInProgress, false),
	}

	s := ComputeStats(tasks)
	assert.Equal(t, 6, s.Total)
	assert.Equal(t, 2, s.Completed.N)
	assert.Equal(t, 2, s.InProgress.N)
	assert.Equal(t, 2, s.Pending.N)
	assert.Equal(t, 1, s.High.N)
	assert.Equal(t, 4, s.Medium.N)
	assert.Equal(t, 1, s.Low.N)
	assert.InDelta(t, 100.0, s.Completed.Percent+s.InProgress.Percent+s.Pending.Percent, 0.001)
	assert.InDelta(t, 100.0, s.High.Percent+s.Medium.Percent+s.Low.Percent, 0.001)
}

func TestDueNotifications(t *testing.T) {
	loc := time.Local
	dueAt := time.Date(2026, 10, 19, 14, 0, 0, 0, loc)
	tk := task(7, model.StatusPending, false)
	tk.Text = "Submit report"
	tk.DueDate = "2026-10-19"
	tk.DueTime = "14:00"
	tasks := []model.Task{tk}

	t.Run("ten minutes before is a warning", func(t *testing.T) {
		got := DueNotifications(tasks, dueAt.Add(-10*time.Minute))
		require.Len(t, got, 1)
		assert.Equal(t, model.SeverityWarning, got[0].Severity)
		assert.Contains(t, got[0].Message, "10 minute")
		assert.Equal(t, `"Submit report" is due in 10 minutes!`, got[0].Message)
		assert.Equal(t, "7-10", got[0].ID)
		assert.Equal(t, int64(7), got[0].TaskID)
		assert.False(t, got[0].Overdue)
	})

	t.Run("forty minutes before is info", func(t *testing.T) {
		got := DueNotifications(tasks, dueAt.Add(-40*time.Minute))
		require.Len(t, got, 1)
		assert.Equal(t, model.SeverityInfo, got[0].Severity)
	})

	t.Run("singular minute", func(t *testing.T) {
		got := DueNotifications(tasks, dueAt.Add(-1*time.Minute))
		require.Len(t, got, 1)
		assert.Equal(t, `"Submit report" is due in 1 minute!`, got[0].Message)
	})

	t.Run("partial minutes round down", func(t *testing.T) {
		got := DueNotifications(tasks, dueAt.Add(-10*time.Minute-30*time.Second))
		require.Len(t, got, 1)
		assert.Equal(t, 10, got[0].MinutesUntilDue)
	})

	t.Run("seventy minutes before is outside the look-ahead", func(t *testing.T) {
		assert.Empty(t, DueNotifications(tasks, dueAt.Add(-70*time.Minute)))
	})

	t.Run("due now is overdue", func(t *testing.T) {
		got := DueNotifications(tasks, dueAt)
		require.Len(t, got, 1)
		assert.True(t, got[0].Overdue)
	})

	t.Run("thirty minutes after has no due-soon entry", func(t *testing.T) {
		got := DueNotifications(tasks, dueAt.Add(30*time.Minute))
		require.Len(t, got, 1)
		assert.True(t, got[0].Overdue)
		assert.Equal(t, "7-overdue", got[0].ID)
		assert.Equal(t, model.SeverityWarning, got[0].Severity)
		assert.Equal(t, `"Submit report" is overdue!`, got[0].Message)
		assert.NotContains(t, got[0].Message, "minute")
	})

	t.Run("ninety minutes after is outside the look-back", func(t *testing.T) {
		assert.Empty(t, DueNotifications(tasks, dueAt.Add(90*time.Minute)))
	})

	t.Run("completed tasks are skipped", func(t *testing.T) {
		done := tk
		done.Completed = true
		assert.Empty(t, DueNotifications([]model.Task{done}, dueAt.Add(-10*time.Minute)))
	})

	t.Run("missing due time is skipped", func(t *testing.T) {
		noTime := tk
		noTime.DueTime = ""
		assert.Empty(t, DueNotifications([]model.Task{noTime}, dueAt.Add(-10*time.Minute)))
	})

	t.Run("recomputed wholesale", func(t *testing.T) {
		now := dueAt.Add(-10 * time.Minute)
		first := DueNotifications(tasks, now)
		second := DueNotifications(tasks, now)
		assert.Equal(t, first, second)
	})
}
