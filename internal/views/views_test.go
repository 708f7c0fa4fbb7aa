package views

import (
	"strings"
	"testing"
)

func TestRenderDayPanelMarksSelection(t *testing.T) {
	out := RenderDayPanel(DayPanelData{
		Day:     "2024-06-01",
		Weekday: "Saturday",
		IsToday: true,
		Items: []DayItemData{
			{ID: "a", Title: "Stretch", Time: "08:00", Status: "Completed"},
			{ID: "b", Title: "Pills", Time: "10:05", Status: "Pending"},
		},
		SelectedID: "b",
	})
	if !strings.Contains(out, "2024-06-01 (Saturday) today") {
		t.Fatalf("missing day header: %q", out)
	}
	if !strings.Contains(out, "> 10:05") || !strings.Contains(out, "  08:00") {
		t.Fatalf("expected cursor on selected item: %q", out)
	}
	if !strings.Contains(out, "[COMPLETED]") || !strings.Contains(out, "[PENDING]") {
		t.Fatalf("expected status badges: %q", out)
	}
}

func TestRenderDayPanelEmpty(t *testing.T) {
	out := RenderDayPanel(DayPanelData{Day: "2024-06-01", Weekday: "Saturday"})
	if !strings.Contains(out, "no tasks scheduled") {
		t.Fatalf("expected empty marker: %q", out)
	}
}

func TestRenderTaskDetailTruncatesLongLists(t *testing.T) {
	out := RenderTaskDetail(TaskDetailData{
		ID:      "t1",
		Title:   "Water",
		Time:    "--:--",
		Pending: []string{"1", "2", "3", "4", "5", "6", "7", "8"},
	})
	if !strings.Contains(out, "(+2)") || !strings.Contains(out, "completed: -") {
		t.Fatalf("unexpected detail: %q", out)
	}
	if RenderTaskDetail(TaskDetailData{}) != "task:\n(no selection)" {
		t.Fatalf("expected placeholder for empty selection")
	}
}

func TestRenderAppJoinsSections(t *testing.T) {
	out := RenderApp(AppData{
		Header:        "todolist",
		LeftPane:      "left",
		RightPane:     "right",
		StatusLine:    "status: error: boom",
		StatusIsError: true,
		Notification:  "notification: [INFO] hi",
		Footer:        "keys",
	})
	for _, want := range []string{"todolist", "left", "right", "boom", "hi", "keys"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in output", want)
		}
	}
	if n := strings.Count(RenderApp(AppData{Header: "h", LeftPane: "only"}), "╭"); n != 1 {
		t.Fatalf("expected empty right pane to be omitted")
	}
	if RenderCommandPalette(false, "x") != "" || RenderCommandPalette(true, "goto today") != "command: /goto today" {
		t.Fatalf("unexpected palette rendering")
	}
}

func TestRenderMarkdown(t *testing.T) {
	if RenderMarkdown("   ", 40) != "" {
		t.Fatalf("expected blank input to render empty")
	}
	out := RenderMarkdown("# Plan\n\n- buy *milk*", 40)
	if !strings.Contains(out, "Plan") || !strings.Contains(out, "milk") {
		t.Fatalf("unexpected markdown output: %q", out)
	}
}
