package model

import (
	"testing"
	"time"
)

func TestReminderValidateSuccess(t *testing.T) {
	rem := Reminder{
		TaskID:     "task-1",
		Day:        NewDay(2026, 2, 9),
		DeadlineAt: time.Date(2026, 2, 9, 13, 0, 0, 0, time.UTC),
	}
	if err := rem.Validate(); err != nil {
		t.Fatalf("expected valid reminder, got error: %v", err)
	}
	if rem.Key() != "task-1|2026-02-09" {
		t.Fatalf("unexpected key: %s", rem.Key())
	}
}

func TestReminderValidateMissingDay(t *testing.T) {
	rem := Reminder{TaskID: "task-1", DeadlineAt: time.Now()}
	if err := rem.Validate(); err == nil {
		t.Fatal("expected error, got nil")
	}
}
