package model

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var ErrInvalidTime = errors.New("model: invalid time of day")

var timeOfDayPattern = regexp.MustCompile(`^([01]?[0-9]|2[0-3]):([0-5][0-9])$`)

// TimeOfDay is a 24h wall clock time with minute precision.
type TimeOfDay struct {
	hour   int
	minute int
}

func NewTimeOfDay(hour, minute int) (TimeOfDay, error) {
	if hour < 0 || hour > 23 || minute < 0 || minute > 59 {
		return TimeOfDay{}, fmt.Errorf("%w: %02d:%02d", ErrInvalidTime, hour, minute)
	}
	return TimeOfDay{hour: hour, minute: minute}, nil
}

// ParseTimeOfDay accepts "H:MM" or "HH:MM".
func ParseTimeOfDay(raw string) (TimeOfDay, error) {
	match := timeOfDayPattern.FindStringSubmatch(strings.TrimSpace(raw))
	if match == nil {
		return TimeOfDay{}, fmt.Errorf("%w: %q", ErrInvalidTime, raw)
	}
	h, _ := strconv.Atoi(match[1])
	m, _ := strconv.Atoi(match[2])
	return TimeOfDay{hour: h, minute: m}, nil
}

// ParseOptionalTimeOfDay returns nil for blank input.
func ParseOptionalTimeOfDay(raw string) (*TimeOfDay, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, nil
	}
	t, err := ParseTimeOfDay(raw)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (t TimeOfDay) Hour() int   { return t.hour }
func (t TimeOfDay) Minute() int { return t.minute }

func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", t.hour, t.minute)
}

func (t TimeOfDay) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

func (t *TimeOfDay) UnmarshalText(text []byte) error {
	parsed, err := ParseTimeOfDay(string(text))
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// SameTime reports whether two optional times are equal; two nils are equal.
func SameTime(a, b *TimeOfDay) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}
