package derived

import "github.com/nhle/taskdash/internal/model"

// Count is a tally together with its share of the total, in percent.
type Count struct {
	N       int
	Percent float64
}

// Stats aggregates a task collection by completion, status and priority.
type Stats struct {
	Total int

	Completed  Count
	InProgress Count
	Pending    Count

	High   Count
	Medium Count
	Low    Count

	Important Count
}

// ComputeStats tallies tasks. Percentages are 0 when there are no tasks.
func ComputeStats(tasks []model.Task) Stats {
	s := Stats{Total: len(tasks)}
	for _, t := range tasks {
		switch {
		case t.Completed:
			s.Completed.N++
		case t.Status == model.StatusInProgress:
			s.InProgress.N++
		default:
			s.Pending.N++
		}

		switch t.Priority {
		case model.PriorityHigh:
			s.High.N++
		case model.PriorityLow:
			s.Low.N++
		default:
			s.Medium.N++
		}

		if t.Important {
			s.Important.N++
		}
	}

	for _, c := range []*Count{
		&s.Completed, &s.InProgress, &s.Pending,
		&s.High, &s.Medium, &s.Low, &s.Important,
	} {
		c.Percent = percent(c.N, s.Total)
	}
	return s
}

func percent(n, total int) float64 {
	if total == 0 {
		return 0
	}
	return 100 * float64(n) / float64(total)
}
