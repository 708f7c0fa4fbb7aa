package model

import "time"

type DateStatus string

const (
	StatusPending   DateStatus = "Pending"
	StatusCompleted DateStatus = "Completed"
	StatusFailed    DateStatus = "Failed"
)

func (s DateStatus) IsValid() bool {
	switch s {
	case StatusPending, StatusCompleted, StatusFailed:
		return true
	default:
		return false
	}
}

// Evaluate computes the status of day for task at instant now. The calendar
// day of now is taken in now's location, and the task time is interpreted in
// that same location.
//
// A day that is not pending counts as completed, including days the task no
// longer tracks at all.
func Evaluate(task Task, day Day, now time.Time) DateStatus {
	if task.Completed.Has(day) || !task.Pending.Has(day) {
		return StatusCompleted
	}
	today := DayOf(now)
	switch day.Compare(today) {
	case -1:
		return StatusFailed
	case 1:
		return StatusPending
	}
	if task.Time == nil {
		return StatusPending
	}
	if !now.Before(Deadline(day, *task.Time, now.Location())) {
		return StatusFailed
	}
	return StatusPending
}

// Deadline is the first instant after the scheduled minute has fully
// elapsed; a task timed 14:30 is still on time at 14:30:59.999.
func Deadline(day Day, t TimeOfDay, loc *time.Location) time.Time {
	return day.At(t, loc).Add(time.Minute)
}
