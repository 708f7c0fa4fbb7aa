package model

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	ErrEmptyDateSet      = errors.New("model: task requires at least one date")
	ErrOverlappingDates  = errors.New("model: date is both pending and completed")
	ErrDateNotAssociated = errors.New("model: date not associated with task")
)

type Task struct {
	ID          string
	OwnerID     string
	Title       string
	Description string
	// Time is the optional deadline within each scheduled day. Nil means
	// the deadline is the end of the day.
	Time      *TimeOfDay
	Pending   DaySet
	Completed DaySet
	Notified  DaySet
	Version   int64
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (t Task) Validate() error {
	if strings.TrimSpace(t.ID) == "" {
		return errors.New("model: task id is required")
	}
	if strings.TrimSpace(t.Title) == "" {
		return errors.New("model: task title is required")
	}
	if strings.TrimSpace(t.Description) == "" {
		return errors.New("model: task description is required")
	}
	if t.CreatedAt.IsZero() {
		return errors.New("model: task created_at is required")
	}
	for d := range t.Pending {
		if t.Completed.Has(d) {
			return fmt.Errorf("%w: %s", ErrOverlappingDates, d)
		}
	}
	return nil
}

// ValidateNew checks the extra rules a task must satisfy when first created.
func (t Task) ValidateNew() error {
	if err := t.Validate(); err != nil {
		return err
	}
	if t.Pending.Len() == 0 {
		return ErrEmptyDateSet
	}
	if t.Completed.Len() > 0 || t.Notified.Len() > 0 {
		return errors.New("model: new task must not carry completed or notified dates")
	}
	return nil
}

// Clone returns a deep copy so mutations never alias the original sets.
func (t Task) Clone() Task {
	out := t
	out.Pending = t.Pending.Clone()
	out.Completed = t.Completed.Clone()
	out.Notified = t.Notified.Clone()
	if t.Time != nil {
		tm := *t.Time
		out.Time = &tm
	}
	return out
}

// Scheduled returns every day the task is associated with, pending or completed.
func (t Task) Scheduled() DaySet {
	return t.Pending.Union(t.Completed)
}

// IsEmpty reports whether the task no longer tracks any day.
func (t Task) IsEmpty() bool {
	return t.Pending.Len() == 0 && t.Completed.Len() == 0
}

func (t Task) TimeLabel() string {
	if t.Time == nil {
		return "--:--"
	}
	return t.Time.String()
}
