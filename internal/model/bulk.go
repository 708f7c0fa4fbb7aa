package model

import (
	"errors"
	"fmt"
	"time"
)

var (
	ErrInvalidRange = errors.New("model: invalid date range")
	// ErrRangeTooLong rejects a well-formed range that spans more than
	// MaxRangeDays days.
	ErrRangeTooLong = errors.New("model: date range too long")
)

// MaxRangeDays bounds a single range expansion to roughly ten years.
const MaxRangeDays = 3700

// GenerateRange lists every day from start to end inclusive.
func GenerateRange(start, end Day) ([]Day, error) {
	if start.IsZero() || end.IsZero() {
		return nil, fmt.Errorf("%w: missing bound", ErrInvalidRange)
	}
	if start.After(end) {
		return nil, fmt.Errorf("%w: %s is after %s", ErrInvalidRange, start, end)
	}
	n := int(end.Start(time.UTC).Sub(start.Start(time.UTC))/(24*time.Hour)) + 1
	if n > MaxRangeDays {
		return nil, fmt.Errorf("%w: %s to %s is %d days, limit %d", ErrRangeTooLong, start, end, n, MaxRangeDays)
	}
	out := make([]Day, 0, n)
	for d := start; !d.After(end); d = d.AddDays(1) {
		out = append(out, d)
	}
	return out, nil
}

// MonthRemainder lists today through the last day of its month.
func MonthRemainder(today Day) []Day {
	out, _ := GenerateRange(today, today.LastOfMonth())
	return out
}

// YearRemainder lists today through December 31 of its year.
func YearRemainder(today Day) []Day {
	out, _ := GenerateRange(today, today.LastOfYear())
	return out
}

// MergeUnique combines both lists without duplicates, ascending.
func MergeUnique(existing, additions []Day) []Day {
	set := NewDaySet(existing...)
	for _, d := range additions {
		set.Add(d)
	}
	return set.Sorted()
}
