package stats

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/nhle/taskdash/internal/derived"
	"github.com/nhle/taskdash/internal/model"
)

func TestView_ShowsCountsAndPercents(t *testing.T) {
	m := New(100)
	tasks := []model.Task{
		{Completed: true, Status: model.StatusCompleted, Priority: model.PriorityHigh},
		{Status: model.StatusPending, Priority: model.PriorityLow},
	}
	m.SetStats(derived.ComputeStats(tasks), derived.Progress(tasks))

	out := m.View()
	assert.Contains(t, out, "Total tasks 2")
	assert.Contains(t, out, "50.0%")
	assert.Contains(t, out, "Completed")
}

func TestView_EmptyCollection(t *testing.T) {
	m := New(100)
	m.SetStats(derived.ComputeStats(nil), 0)

	out := m.View()
	assert.Contains(t, out, "Total tasks 0")
	assert.Contains(t, out, "0.0%")
	assert.NotContains(t, out, "NaN")
}
