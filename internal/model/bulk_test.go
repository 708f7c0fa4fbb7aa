package model

import (
	"errors"
	"testing"
)

func dayStrings(days []Day) []string {
	out := make([]string, 0, len(days))
	for _, d := range days {
		out = append(out, d.String())
	}
	return out
}

func assertDays(t *testing.T, got []Day, want []string) {
	t.Helper()
	gotStr := dayStrings(got)
	if len(gotStr) != len(want) {
		t.Fatalf("got %v want %v", gotStr, want)
	}
	for i := range want {
		if gotStr[i] != want[i] {
			t.Fatalf("day[%d] = %s want %s (all: %v)", i, gotStr[i], want[i], gotStr)
		}
	}
}

func TestGenerateRangeInclusive(t *testing.T) {
	got, err := GenerateRange(mustDay(t, "2024-01-05"), mustDay(t, "2024-01-08"))
	if err != nil {
		t.Fatalf("generate range: %v", err)
	}
	assertDays(t, got, []string{"2024-01-05", "2024-01-06", "2024-01-07", "2024-01-08"})

	single, err := GenerateRange(mustDay(t, "2024-01-05"), mustDay(t, "2024-01-05"))
	if err != nil || len(single) != 1 {
		t.Fatalf("single-day range: %v %v", single, err)
	}
}

func TestGenerateRangeRejectsReversed(t *testing.T) {
	_, err := GenerateRange(mustDay(t, "2024-01-08"), mustDay(t, "2024-01-05"))
	if !errors.Is(err, ErrInvalidRange) {
		t.Fatalf("expected ErrInvalidRange, got %v", err)
	}
}

func TestGenerateRangeRejectsTooLong(t *testing.T) {
	start := mustDay(t, "2020-01-01")
	if _, err := GenerateRange(start, start.AddDays(MaxRangeDays-1)); err != nil {
		t.Fatalf("range at the limit: %v", err)
	}
	_, err := GenerateRange(start, start.AddDays(MaxRangeDays))
	if !errors.Is(err, ErrRangeTooLong) {
		t.Fatalf("expected ErrRangeTooLong, got %v", err)
	}
	if errors.Is(err, ErrInvalidRange) {
		t.Fatalf("a long but well-formed range is not an invalid range: %v", err)
	}
}

func TestMonthAndYearRemainder(t *testing.T) {
	month := MonthRemainder(mustDay(t, "2024-02-27"))
	assertDays(t, month, []string{"2024-02-27", "2024-02-28", "2024-02-29"})

	year := YearRemainder(mustDay(t, "2024-12-30"))
	assertDays(t, year, []string{"2024-12-30", "2024-12-31"})

	if got := len(YearRemainder(mustDay(t, "2023-01-01"))); got != 365 {
		t.Fatalf("expected 365 days, got %d", got)
	}
}

func TestMergeUnique(t *testing.T) {
	existing := []Day{mustDay(t, "2024-01-02"), mustDay(t, "2024-01-01")}
	additions := []Day{mustDay(t, "2024-01-02"), mustDay(t, "2024-01-03")}
	assertDays(t, MergeUnique(existing, additions), []string{"2024-01-01", "2024-01-02", "2024-01-03"})
}
