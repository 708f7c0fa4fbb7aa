package model

import (
	"errors"
	"strings"
	"time"
)

// Reminder is a due notification for one task day. It is derived by the
// scanner and never stored; delivery is recorded in Task.Notified.
type Reminder struct {
	TaskID     string
	OwnerID    string
	Title      string
	Day        Day
	Time       TimeOfDay
	DeadlineAt time.Time
}

// Key identifies the (task, day) pair a reminder belongs to.
func (r Reminder) Key() string {
	return r.TaskID + "|" + r.Day.String()
}

func (r Reminder) Validate() error {
	if strings.TrimSpace(r.TaskID) == "" {
		return errors.New("model: reminder task_id is required")
	}
	if r.Day.IsZero() {
		return errors.New("model: reminder day is required")
	}
	if r.DeadlineAt.IsZero() {
		return errors.New("model: reminder deadline is required")
	}
	return nil
}
