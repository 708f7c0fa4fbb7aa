package tasks

import (
	"context"
	"sort"
	"time"

	"github.com/joaoVitorVallim/ToDoList/internal/model"
	"github.com/joaoVitorVallim/ToDoList/internal/storage"
)

type DayEntry struct {
	Task   model.Task
	Status model.DateStatus
}

// DayView lists every task scheduled on day, pending or completed, with its
// status at the current clock. Timed tasks come first by time, then untimed
// tasks; ties are broken by title.
func (s *Service) DayView(ctx context.Context, ownerID string, day model.Day) ([]DayEntry, error) {
	tasks, err := s.list(ctx, storage.TaskListFilter{OwnerID: ownerID, Day: day.String()})
	if err != nil {
		return nil, err
	}
	now := s.clock.Now()
	out := make([]DayEntry, 0, len(tasks))
	for _, task := range tasks {
		if !task.Pending.Has(day) && !task.Completed.Has(day) {
			continue
		}
		out = append(out, DayEntry{Task: task, Status: model.Evaluate(task, day, now)})
	}
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i].Task, out[j].Task
		if ka, kb := timeSortKey(a.Time), timeSortKey(b.Time); ka != kb {
			return ka < kb
		}
		if a.Title != b.Title {
			return a.Title < b.Title
		}
		return a.ID < b.ID
	})
	return out, nil
}

func timeSortKey(t *model.TimeOfDay) int {
	if t == nil {
		return 24 * 60
	}
	return t.Hour()*60 + t.Minute()
}

type DaySummary struct {
	Day       model.Day
	Pending   int
	Completed int
	Failed    int
}

func (d DaySummary) Total() int {
	return d.Pending + d.Completed + d.Failed
}

type MonthSummary struct {
	Year  int
	Month time.Month
	Days  []DaySummary
}

// Day returns the summary of a day of this month, or a zero summary.
func (m MonthSummary) Day(dayOfMonth int) DaySummary {
	if dayOfMonth < 1 || dayOfMonth > len(m.Days) {
		return DaySummary{}
	}
	return m.Days[dayOfMonth-1]
}

// MonthView counts task statuses for every day of the month.
func (s *Service) MonthView(ctx context.Context, ownerID string, year int, month time.Month) (MonthSummary, error) {
	tasks, err := s.List(ctx, ownerID)
	if err != nil {
		return MonthSummary{}, err
	}
	first := model.NewDay(year, month, 1)
	last := first.LastOfMonth()
	out := MonthSummary{Year: first.Year(), Month: first.Month(), Days: make([]DaySummary, 0, last.DayOfMonth())}
	for d := first; !d.After(last); d = d.AddDays(1) {
		out.Days = append(out.Days, DaySummary{Day: d})
	}

	now := s.clock.Now()
	for _, task := range tasks {
		for d := range task.Scheduled() {
			if d.Year() != out.Year || d.Month() != out.Month {
				continue
			}
			summary := &out.Days[d.DayOfMonth()-1]
			switch model.Evaluate(task, d, now) {
			case model.StatusPending:
				summary.Pending++
			case model.StatusCompleted:
				summary.Completed++
			case model.StatusFailed:
				summary.Failed++
			}
		}
	}
	return out, nil
}
