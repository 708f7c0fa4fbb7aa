package scheduler

import (
	"sort"
	"time"

	"github.com/joaoVitorVallim/ToDoList/internal/model"
)

// Scan returns the reminders due within the lead window: every pending,
// not yet notified day of a timed task whose deadline falls strictly between
// now and now+lead. Deadlines are read in now's location.
func Scan(tasks []model.Task, now time.Time, lead time.Duration) []model.Reminder {
	horizon := now.Add(lead)
	out := make([]model.Reminder, 0)
	for _, task := range tasks {
		if task.Time == nil {
			continue
		}
		for day := range task.Pending {
			if task.Notified.Has(day) {
				continue
			}
			deadline := day.At(*task.Time, now.Location())
			if !now.Before(deadline) || !deadline.Before(horizon) {
				continue
			}
			out = append(out, model.Reminder{
				TaskID:     task.ID,
				OwnerID:    task.OwnerID,
				Title:      task.Title,
				Day:        day,
				Time:       *task.Time,
				DeadlineAt: deadline,
			})
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].DeadlineAt.Equal(out[j].DeadlineAt) {
			return out[i].DeadlineAt.Before(out[j].DeadlineAt)
		}
		return out[i].Key() < out[j].Key()
	})
	return out
}
