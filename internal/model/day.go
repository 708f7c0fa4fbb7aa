package model

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"
)

const DayLayout = "2006-01-02"

var ErrInvalidDate = errors.New("model: invalid date")

var (
	isoDayPattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
	// isoTimeSuffix is what may follow the date: a clock time with optional
	// seconds, fraction and zone.
	isoTimeSuffix = regexp.MustCompile(`^[Tt ]([01]\d|2[0-3]):[0-5]\d(:[0-5]\d(\.\d+)?)?([Zz]|[+-]([01]\d|2[0-3]):?[0-5]\d)?$`)
)

// Day identifies a calendar date by year, month and day only. It carries no
// clock or zone, so two Days are equal exactly when they name the same date.
// The zero Day is not a valid date.
type Day struct {
	year  int
	month time.Month
	day   int
}

// NewDay builds a Day, normalizing overflow the same way time.Date does
// (January 32 becomes February 1).
func NewDay(year int, month time.Month, day int) Day {
	y, m, d := time.Date(year, month, day, 0, 0, 0, 0, time.UTC).Date()
	return Day{year: y, month: m, day: d}
}

// DayOf returns the calendar date of t as seen in t's own location.
func DayOf(t time.Time) Day {
	return NewDay(t.Date())
}

// ParseDay reads an ISO date, optionally followed by a time and zone suffix
// ("2024-06-01", "2024-06-01T23:10:00-03:00"). Only the date portion is used.
func ParseDay(raw string) (Day, error) {
	s := strings.TrimSpace(raw)
	if len(s) > len(DayLayout) {
		if !isoTimeSuffix.MatchString(s[len(DayLayout):]) {
			return Day{}, fmt.Errorf("%w: %q", ErrInvalidDate, raw)
		}
		s = s[:len(DayLayout)]
	}
	if !isoDayPattern.MatchString(s) {
		return Day{}, fmt.Errorf("%w: %q", ErrInvalidDate, raw)
	}
	t, err := time.Parse(DayLayout, s)
	if err != nil {
		return Day{}, fmt.Errorf("%w: %q", ErrInvalidDate, raw)
	}
	return DayOf(t), nil
}

// Normalize converts any supported date representation into a Day. Strings
// and byte slices go through ParseDay, time values are read in their own
// location, and maps holding a "date" key are unwrapped.
func Normalize(v any) (Day, error) {
	switch typed := v.(type) {
	case Day:
		if typed.IsZero() {
			return Day{}, fmt.Errorf("%w: zero day", ErrInvalidDate)
		}
		return typed, nil
	case *Day:
		if typed == nil {
			return Day{}, fmt.Errorf("%w: nil day", ErrInvalidDate)
		}
		return Normalize(*typed)
	case string:
		return ParseDay(typed)
	case []byte:
		return ParseDay(string(typed))
	case time.Time:
		if typed.IsZero() {
			return Day{}, fmt.Errorf("%w: zero time", ErrInvalidDate)
		}
		return DayOf(typed), nil
	case *time.Time:
		if typed == nil {
			return Day{}, fmt.Errorf("%w: nil time", ErrInvalidDate)
		}
		return Normalize(*typed)
	case map[string]string:
		date, ok := typed["date"]
		if !ok {
			return Day{}, fmt.Errorf("%w: missing date field", ErrInvalidDate)
		}
		return ParseDay(date)
	case map[string]any:
		date, ok := typed["date"]
		if !ok {
			return Day{}, fmt.Errorf("%w: missing date field", ErrInvalidDate)
		}
		return Normalize(date)
	default:
		return Day{}, fmt.Errorf("%w: unsupported type %T", ErrInvalidDate, v)
	}
}

// NormalizeAll normalizes every value, failing on the first invalid one.
func NormalizeAll[T any](values []T) ([]Day, error) {
	out := make([]Day, 0, len(values))
	for _, v := range values {
		d, err := Normalize(v)
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, nil
}

func (d Day) Date() (int, time.Month, int) { return d.year, d.month, d.day }
func (d Day) Year() int                    { return d.year }
func (d Day) Month() time.Month            { return d.month }
func (d Day) DayOfMonth() int              { return d.day }
func (d Day) IsZero() bool                 { return d == Day{} }

func (d Day) Weekday() time.Weekday {
	return d.Start(time.UTC).Weekday()
}

func (d Day) String() string {
	if d.IsZero() {
		return ""
	}
	return fmt.Sprintf("%04d-%02d-%02d", d.year, d.month, d.day)
}

// Compare returns -1, 0 or +1 depending on whether d is before, equal to or
// after other.
func (d Day) Compare(other Day) int {
	switch {
	case d.year != other.year:
		return cmpInt(d.year, other.year)
	case d.month != other.month:
		return cmpInt(int(d.month), int(other.month))
	default:
		return cmpInt(d.day, other.day)
	}
}

func (d Day) Before(other Day) bool { return d.Compare(other) < 0 }
func (d Day) After(other Day) bool  { return d.Compare(other) > 0 }

func (d Day) AddDays(n int) Day {
	return NewDay(d.year, d.month, d.day+n)
}

// Start returns midnight of d in loc.
func (d Day) Start(loc *time.Location) time.Time {
	if loc == nil {
		loc = time.Local
	}
	return time.Date(d.year, d.month, d.day, 0, 0, 0, 0, loc)
}

// At returns the instant of d at the given time of day in loc.
func (d Day) At(t TimeOfDay, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.Local
	}
	return time.Date(d.year, d.month, d.day, t.Hour(), t.Minute(), 0, 0, loc)
}

func (d Day) LastOfMonth() Day {
	return NewDay(d.year, d.month+1, 0)
}

func (d Day) LastOfYear() Day {
	return NewDay(d.year, time.December, 31)
}

func (d Day) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

func (d *Day) UnmarshalText(text []byte) error {
	parsed, err := ParseDay(string(text))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

func cmpInt(a, b int) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}
