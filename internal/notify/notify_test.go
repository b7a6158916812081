package notify

import (
	"bytes"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhle/taskdash/internal/model"
	"github.com/nhle/taskdash/internal/testutil"
)

type recordingAlerter struct {
	got []model.Notification
	err error
}

func (r *recordingAlerter) Alert(n model.Notification) error {
	r.got = append(r.got, n)
	return r.err
}

var dueAt = time.Date(2026, 10, 19, 9, 0, 0, 0, time.Local)

func dueTask(id int64, text string) model.Task {
	return model.Task{
		ID:      id,
		Text:    text,
		DueDate: dueAt.Format(model.DateLayout),
		DueTime: dueAt.Format(model.TimeLayout),
		Status:  model.StatusPending,
	}
}

func TestCenter_RefreshReplacesList(t *testing.T) {
	c := NewCenter(nil, 15, testutil.NewTestLogger())
	tasks := []model.Task{dueTask(1, "standup")}

	got := c.Refresh(tasks, dueAt.Add(-10*time.Minute))
	require.Len(t, got, 1)
	assert.Equal(t, "1-10", got[0].ID)

	got = c.Refresh(tasks, dueAt.Add(-9*time.Minute))
	require.Len(t, got, 1)
	assert.Equal(t, "1-9", got[0].ID)

	assert.Empty(t, c.Refresh(tasks, dueAt.Add(2*time.Hour)))
	assert.Empty(t, c.Notifications())
}

func TestCenter_DismissSurvivesRefresh(t *testing.T) {
	c := NewCenter(nil, 15, testutil.NewTestLogger())
	tasks := []model.Task{dueTask(1, "standup"), dueTask(2, "lunch")}
	now := dueAt.Add(5 * time.Minute)

	require.Len(t, c.Refresh(tasks, now), 2)
	c.Dismiss("1-overdue")
	require.Len(t, c.Notifications(), 1)
	assert.Equal(t, "2-overdue", c.Notifications()[0].ID)

	got := c.Refresh(tasks, now.Add(time.Minute))
	require.Len(t, got, 1)
	assert.Equal(t, "2-overdue", got[0].ID)
}

func TestCenter_DismissedIDsPrunedWhenGone(t *testing.T) {
	c := NewCenter(nil, 15, testutil.NewTestLogger())
	tasks := []model.Task{dueTask(1, "standup")}
	now := dueAt.Add(5 * time.Minute)

	c.Refresh(tasks, now)
	c.Dismiss("1-overdue")
	assert.Empty(t, c.Refresh(tasks, now))

	// The overdue window lapses, then the task is rescheduled into it again.
	assert.Empty(t, c.Refresh(tasks, now.Add(3*time.Hour)))
	got := c.Refresh(tasks, now)
	require.Len(t, got, 1)
}

func TestCenter_DismissAll(t *testing.T) {
	c := NewCenter(nil, 15, testutil.NewTestLogger())
	tasks := []model.Task{dueTask(1, "a"), dueTask(2, "b")}

	c.Refresh(tasks, dueAt)
	c.DismissAll()
	assert.Empty(t, c.Notifications())
	assert.Empty(t, c.Refresh(tasks, dueAt))
}

func TestCenter_DismissDoesNotTouchTasks(t *testing.T) {
	c := NewCenter(nil, 15, testutil.NewTestLogger())
	tasks := []model.Task{dueTask(1, "a")}

	c.Refresh(tasks, dueAt)
	c.Dismiss("1-overdue")
	assert.False(t, tasks[0].Completed)
	assert.Equal(t, "a", tasks[0].Text)
}

func TestCenter_AlertsOncePerID(t *testing.T) {
	alerter := &recordingAlerter{}
	c := NewCenter(alerter, 15, testutil.NewTestLogger())
	tasks := []model.Task{dueTask(1, "standup")}

	c.Refresh(tasks, dueAt.Add(-16*time.Minute))
	assert.Empty(t, alerter.got)

	c.Refresh(tasks, dueAt.Add(-15*time.Minute))
	c.Refresh(tasks, dueAt.Add(-15*time.Minute))
	require.Len(t, alerter.got, 1)
	assert.Equal(t, "1-15", alerter.got[0].ID)

	c.Refresh(tasks, dueAt.Add(-14*time.Minute))
	assert.Len(t, alerter.got, 1)
}

func TestCenter_AlerterFailureKeepsList(t *testing.T) {
	alerter := &recordingAlerter{err: errors.New("no terminal")}
	withAlerts := NewCenter(alerter, 15, testutil.NewTestLogger())
	without := NewCenter(nil, 15, testutil.NewTestLogger())
	tasks := []model.Task{dueTask(1, "standup")}
	now := dueAt.Add(-15 * time.Minute)

	assert.Equal(t, without.Refresh(tasks, now), withAlerts.Refresh(tasks, now))
	assert.Len(t, alerter.got, 1)
}

func TestBellAlerter(t *testing.T) {
	var buf bytes.Buffer
	a := NewBellAlerter(&buf, testutil.NewTestLogger())

	require.NoError(t, a.Alert(model.Notification{ID: "1-15", TaskID: 1, Message: "x"}))
	assert.Equal(t, "\a", buf.String())
}

func TestTicker_DeliversTicks(t *testing.T) {
	tk := NewTicker(10 * time.Millisecond)
	defer tk.Stop()

	cmd := tk.Start()
	require.NotNil(t, cmd)
	assert.True(t, tk.Running())
	assert.Nil(t, tk.Start(), "second Start is a no-op")

	msg, ok := cmd().(TickMsg)
	require.True(t, ok)
	assert.False(t, msg.Time.IsZero())

	_, ok = tk.WaitForNext()().(TickMsg)
	assert.True(t, ok)
}

func TestTicker_StopIsIdempotent(t *testing.T) {
	tk := NewTicker(time.Hour)
	cmd := tk.Start()
	require.NotNil(t, cmd)

	tk.Stop()
	tk.Stop()
	assert.False(t, tk.Running())

	assert.Nil(t, cmd(), "pending wait returns once stopped")
	assert.Nil(t, tk.Start(), "a stopped ticker cannot restart")
}

func TestNewTicker_DefaultInterval(t *testing.T) {
	assert.Equal(t, DefaultInterval, NewTicker(0).Interval())
	assert.Equal(t, 5*time.Second, NewTicker(5*time.Second).Interval())
}
