package store_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhle/taskdash/internal/model"
	"github.com/nhle/taskdash/internal/store"
	"github.com/nhle/taskdash/internal/testutil"
)

func newTask(text, section string, subtasks ...string) model.Task {
	t := model.Task{
		Text:     text,
		DueDate:  "2026-10-20",
		DueTime:  "09:30",
		Section:  section,
		Priority: model.PriorityHigh,
	}
	for _, s := range subtasks {
		t.SubTasks = append(t.SubTasks, model.SubTask{Text: s})
	}
	return t
}

func TestCreateTask_AssignsIncreasingIDs(t *testing.T) {
	s := testutil.NewTestStore(t)
	ctx := context.Background()

	first, err := s.CreateTask(ctx, newTask("write report", model.DefaultSectionID))
	require.NoError(t, err)
	second, err := s.CreateTask(ctx, newTask("send report", model.DefaultSectionID))
	require.NoError(t, err)

	assert.Greater(t, second.ID, first.ID)
	assert.Equal(t, model.StatusPending, first.Status)
	assert.False(t, first.Completed)
}

func TestCreateTask_IDsNotReusedAfterDelete(t *testing.T) {
	s := testutil.NewTestStore(t)
	ctx := context.Background()

	first, err := s.CreateTask(ctx, newTask("a", model.DefaultSectionID))
	require.NoError(t, err)
	require.NoError(t, s.DeleteTask(ctx, first.ID))

	second, err := s.CreateTask(ctx, newTask("b", model.DefaultSectionID))
	require.NoError(t, err)
	assert.NotEqual(t, first.ID, second.ID)
}

func TestGetTaskByID_LoadsSubTasksInOrder(t *testing.T) {
	s := testutil.NewTestStore(t)
	ctx := context.Background()

	created, err := s.CreateTask(ctx, newTask("pack", model.DefaultSectionID, "socks", "charger", "passport"))
	require.NoError(t, err)

	got, err := s.GetTaskByID(ctx, created.ID)
	require.NoError(t, err)
	require.Len(t, got.SubTasks, 3)
	for i, sub := range got.SubTasks {
		assert.Equal(t, i, sub.ID)
	}
	assert.Equal(t, "charger", got.SubTasks[1].Text)
	assert.Equal(t, "2026-10-20", got.DueDate)
	assert.Equal(t, "09:30", got.DueTime)
	assert.Equal(t, model.PriorityHigh, got.Priority)
}

func TestGetTaskByID_Missing(t *testing.T) {
	s := testutil.NewTestStore(t)

	_, err := s.GetTaskByID(context.Background(), 42)
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestSetCompleted_LeavesStatus(t *testing.T) {
	s := testutil.NewTestStore(t)
	ctx := context.Background()

	task, err := s.CreateTask(ctx, newTask("a", model.DefaultSectionID))
	require.NoError(t, err)
	require.NoError(t, s.SetCompleted(ctx, task.ID, true))

	got, err := s.GetTaskByID(ctx, task.ID)
	require.NoError(t, err)
	assert.True(t, got.Completed)
	assert.Equal(t, model.StatusPending, got.Status)
}

func TestSetStatus_SyncsCompleted(t *testing.T) {
	s := testutil.NewTestStore(t)
	ctx := context.Background()

	task, err := s.CreateTask(ctx, newTask("a", model.DefaultSectionID))
	require.NoError(t, err)

	require.NoError(t, s.SetStatus(ctx, task.ID, model.StatusCompleted))
	got, err := s.GetTaskByID(ctx, task.ID)
	require.NoError(t, err)
	assert.True(t, got.Completed)

	require.NoError(t, s.SetStatus(ctx, task.ID, model.StatusInProgress))
	got, err = s.GetTaskByID(ctx, task.ID)
	require.NoError(t, err)
	assert.False(t, got.Completed)
	assert.Equal(t, model.StatusInProgress, got.Status)
}

func TestUpdateTask_ReplacesSubTasks(t *testing.T) {
	s := testutil.NewTestStore(t)
	ctx := context.Background()

	task, err := s.CreateTask(ctx, newTask("a", model.DefaultSectionID, "one", "two"))
	require.NoError(t, err)
	require.NoError(t, s.ToggleSubTask(ctx, task.ID, 0))

	task.Text = "b"
	task.SubTasks = []model.SubTask{{ID: 0, Text: "one"}, {ID: 1, Text: "two"}, {ID: 2, Text: "three"}}
	require.NoError(t, s.UpdateTask(ctx, task))

	got, err := s.GetTaskByID(ctx, task.ID)
	require.NoError(t, err)
	assert.Equal(t, "b", got.Text)
	require.Len(t, got.SubTasks, 3)
	for _, sub := range got.SubTasks {
		assert.False(t, sub.Completed)
	}
}

func TestUpdateTask_SubTaskFailureRollsBack(t *testing.T) {
	s := testutil.NewTestStore(t)
	ctx := context.Background()

	task, err := s.CreateTask(ctx, newTask("a", model.DefaultSectionID, "one"))
	require.NoError(t, err)

	changed := task
	changed.Text = "b"
	// Two subtasks at the same position violate the primary key.
	changed.SubTasks = []model.SubTask{{ID: 0, Text: "x"}, {ID: 0, Text: "y"}}
	require.Error(t, s.UpdateTask(ctx, changed))

	got, err := s.GetTaskByID(ctx, task.ID)
	require.NoError(t, err)
	assert.Equal(t, "a", got.Text)
	require.Len(t, got.SubTasks, 1)
	assert.Equal(t, "one", got.SubTasks[0].Text)
}

func TestUpdateTask_Missing(t *testing.T) {
	s := testutil.NewTestStore(t)

	err := s.UpdateTask(context.Background(), model.Task{ID: 42, Text: "x", Priority: model.PriorityLow})
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestDeleteTask_Missing(t *testing.T) {
	s := testutil.NewTestStore(t)

	err := s.DeleteTask(context.Background(), 7)
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestGetTasks_Filters(t *testing.T) {
	s := testutil.NewTestStore(t)
	ctx := context.Background()

	work, err := s.CreateSection(ctx, model.Section{Name: "Work"})
	require.NoError(t, err)

	_, err = s.CreateTask(ctx, newTask("Buy milk", model.DefaultSectionID))
	require.NoError(t, err)
	report, err := s.CreateTask(ctx, newTask("Quarterly REPORT", work.ID))
	require.NoError(t, err)
	require.NoError(t, s.SetImportant(ctx, report.ID, true))

	sectionID := work.ID
	tasks, err := s.GetTasks(ctx, store.TaskFilter{SectionID: &sectionID})
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, report.ID, tasks[0].ID)

	important := true
	tasks, err = s.GetTasks(ctx, store.TaskFilter{Important: &important})
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.True(t, tasks[0].Important)

	q := "report"
	tasks, err = s.GetTasks(ctx, store.TaskFilter{Query: &q})
	require.NoError(t, err)
	require.Len(t, tasks, 1)

	tasks, err = s.GetTasks(ctx, store.TaskFilter{SortBy: "text", SortDesc: true})
	require.NoError(t, err)
	require.Len(t, tasks, 2)
	assert.Equal(t, "Quarterly REPORT", tasks[0].Text)
	assert.NotNil(t, tasks[1].SubTasks)
}

func TestSections_DefaultExistsAndIsPermanent(t *testing.T) {
	s := testutil.NewTestStore(t)
	ctx := context.Background()

	sections, err := s.GetSections(ctx)
	require.NoError(t, err)
	require.Len(t, sections, 1)
	assert.Equal(t, model.DefaultSectionID, sections[0].ID)
	assert.Equal(t, "General", sections[0].Name)

	require.NoError(t, s.DeleteSection(ctx, model.DefaultSectionID))
	sections, err = s.GetSections(ctx)
	require.NoError(t, err)
	assert.Len(t, sections, 1)
}

func TestDeleteSection_OrphansTasks(t *testing.T) {
	s := testutil.NewTestStore(t)
	ctx := context.Background()

	home, err := s.CreateSection(ctx, model.Section{Name: "Home"})
	require.NoError(t, err)
	task, err := s.CreateTask(ctx, newTask("mow lawn", home.ID))
	require.NoError(t, err)

	require.NoError(t, s.DeleteSection(ctx, home.ID))

	got, err := s.GetTaskByID(ctx, task.ID)
	require.NoError(t, err)
	assert.Equal(t, home.ID, got.Section)

	_, err = s.GetSectionByID(ctx, home.ID)
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestSections_OrderAndRename(t *testing.T) {
	s := testutil.NewTestStore(t)
	ctx := context.Background()

	a, err := s.CreateSection(ctx, model.Section{Name: "A"})
	require.NoError(t, err)
	b, err := s.CreateSection(ctx, model.Section{Name: "B"})
	require.NoError(t, err)
	require.NoError(t, s.RenameSection(ctx, a.ID, "Alpha"))

	sections, err := s.GetSections(ctx)
	require.NoError(t, err)
	require.Len(t, sections, 3)
	assert.Equal(t, "Alpha", sections[1].Name)
	assert.Equal(t, b.ID, sections[2].ID)

	err = s.RenameSection(ctx, "nope", "x")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestCreateSection_RejectsBlankName(t *testing.T) {
	s := testutil.NewTestStore(t)

	_, err := s.CreateSection(context.Background(), model.Section{Name: "  "})
	assert.Error(t, err)
}
