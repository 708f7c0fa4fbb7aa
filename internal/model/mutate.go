package model

import "fmt"

// Toggle moves day from pending to completed or back. The input task is never
// modified.
func Toggle(task Task, day Day) (Task, error) {
	return ToggleAll(task, []Day{day})
}

// ToggleAll toggles every distinct day in days. Either all days are moved or,
// when any of them is tracked by neither set, none are.
func ToggleAll(task Task, days []Day) (Task, error) {
	unique := NewDaySet(days...)
	for d := range unique {
		if !task.Pending.Has(d) && !task.Completed.Has(d) {
			return task, fmt.Errorf("%w: %s", ErrDateNotAssociated, d)
		}
	}
	out := task.Clone()
	for d := range unique {
		if out.Pending.Remove(d) {
			out.Completed.Add(d)
			continue
		}
		out.Completed.Remove(d)
		out.Pending.Add(d)
	}
	return out, nil
}

// RemoveDate drops day from whichever set holds it. The returned flag is true
// when the task no longer tracks any day; deleting it is left to the caller.
func RemoveDate(task Task, day Day) (Task, bool) {
	out := task.Clone()
	out.Pending.Remove(day)
	out.Completed.Remove(day)
	out.Notified.Remove(day)
	return out, out.IsEmpty()
}

// ReplaceDates installs days as the task's full schedule and t as its time.
// Days that were already completed stay completed; every other day becomes
// pending. Notification history is cleared whenever the schedule or the time
// changes.
func ReplaceDates(task Task, days []Day, t *TimeOfDay) (Task, error) {
	next := NewDaySet(days...)
	if next.Len() == 0 {
		return task, ErrEmptyDateSet
	}
	out := task.Clone()
	out.Pending = make(DaySet, next.Len())
	out.Completed = make(DaySet)
	for d := range next {
		if task.Completed.Has(d) {
			out.Completed.Add(d)
		} else {
			out.Pending.Add(d)
		}
	}
	if t != nil {
		tm := *t
		out.Time = &tm
	} else {
		out.Time = nil
	}
	if !next.Equal(task.Scheduled()) || !SameTime(task.Time, t) {
		out.Notified = make(DaySet)
	}
	return out, nil
}

// AddDates merges additions into the task's schedule, keeping its time.
func AddDates(task Task, additions []Day) (Task, error) {
	merged := MergeUnique(task.Scheduled().Sorted(), additions)
	return ReplaceDates(task, merged, task.Time)
}

// MarkNotified records that the reminder for day was delivered. It reports
// false, leaving the task untouched, when day is no longer pending or was
// already notified.
func MarkNotified(task Task, day Day) (Task, bool) {
	if !task.Pending.Has(day) || task.Notified.Has(day) {
		return task, false
	}
	out := task.Clone()
	out.Notified.Add(day)
	return out, true
}
