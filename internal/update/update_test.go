package update

import (
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/joaoVitorVallim/ToDoList/internal/clock"
	"github.com/joaoVitorVallim/ToDoList/internal/model"
	"github.com/joaoVitorVallim/ToDoList/internal/notify"
	"github.com/joaoVitorVallim/ToDoList/internal/storage"
	"github.com/joaoVitorVallim/ToDoList/internal/tasks"
)

type harness struct {
	svc   *tasks.Service
	owner model.User
}

func setupHarness(t *testing.T) harness {
	t.Helper()
	repo, err := storage.OpenSQLite(filepath.Join(t.TempDir(), "tui-test.db"))
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { _ = repo.Close() })
	clk := clock.NewFixed(time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC))
	svc := tasks.NewService(repo, clk)
	owner, err := svc.CreateUser(context.Background(), tasks.UserInput{Name: "Ana", Email: "ana@example.com"})
	if err != nil {
		t.Fatalf("create user: %v", err)
	}
	return harness{svc: svc, owner: owner}
}

func (h harness) addTask(t *testing.T, title, at string, days ...string) model.Task {
	t.Helper()
	parsed, err := model.NormalizeAll(days)
	if err != nil {
		t.Fatalf("normalize: %v", err)
	}
	var tm *model.TimeOfDay
	if at != "" {
		v, err := model.ParseTimeOfDay(at)
		if err != nil {
			t.Fatalf("parse time: %v", err)
		}
		tm = &v
	}
	task, err := h.svc.CreateTask(context.Background(), tasks.CreateInput{
		OwnerID:     h.owner.ID,
		Title:       title,
		Description: "**" + title + "**",
		Days:        parsed,
		Time:        tm,
	})
	if err != nil {
		t.Fatalf("create task: %v", err)
	}
	return task
}

func (h harness) model(reminders <-chan notify.Delivery) Model {
	return NewModel(context.Background(), h.svc, h.owner, reminders)
}

func send(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()
	next, _ := m.Update(msg)
	out, ok := next.(Model)
	if !ok {
		t.Fatalf("expected update.Model, got %T", next)
	}
	return out
}

func keys(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func runPalette(t *testing.T, m Model, input string) Model {
	t.Helper()
	m = send(t, m, keys("/"))
	if !m.Palette.Active {
		t.Fatalf("expected palette to open")
	}
	m = send(t, m, keys(input))
	return send(t, m, tea.KeyMsg{Type: tea.KeyEnter})
}

func mustDay(t *testing.T, raw string) model.Day {
	t.Helper()
	d, err := model.ParseDay(raw)
	if err != nil {
		t.Fatalf("parse day %q: %v", raw, err)
	}
	return d
}

func TestNewModelLoadsFocusDay(t *testing.T) {
	h := setupHarness(t)
	h.addTask(t, "Lunch", "12:00", "2024-06-01")
	h.addTask(t, "Standup", "09:30", "2024-06-01", "2024-06-02")
	h.addTask(t, "Tomorrow only", "", "2024-06-02")

	m := h.model(nil)
	if m.FocusDay != mustDay(t, "2024-06-01") {
		t.Fatalf("expected focus on today, got %s", m.FocusDay)
	}
	if len(m.Entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(m.Entries))
	}
	if m.Entries[0].Task.Title != "Standup" {
		t.Fatalf("expected earliest task first, got %q", m.Entries[0].Task.Title)
	}
	if m.SelectedID != m.Entries[0].Task.ID {
		t.Fatalf("expected first entry selected")
	}
	if m.Month.Month != time.June || len(m.Month.Days) != 30 {
		t.Fatalf("unexpected month summary: %+v", m.Month)
	}
	out := m.View()
	if !strings.Contains(out, "Standup") || !strings.Contains(out, "view: Day") {
		t.Fatalf("expected day view in output:\n%s", out)
	}
}

func TestDayKeysToggleAndNavigate(t *testing.T) {
	h := setupHarness(t)
	first := h.addTask(t, "A", "08:00", "2024-06-01")
	second := h.addTask(t, "B", "10:00", "2024-06-01")

	m := h.model(nil)
	m = send(t, m, keys("j"))
	if m.SelectedID != second.ID {
		t.Fatalf("expected second task selected, got %q", m.SelectedID)
	}
	m = send(t, m, tea.KeyMsg{Type: tea.KeySpace})
	if m.Status.IsError {
		t.Fatalf("unexpected error: %s", m.Status.Text)
	}
	got, err := h.svc.Get(context.Background(), second.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if !got.Completed.Has(mustDay(t, "2024-06-01")) {
		t.Fatalf("expected day completed after toggle")
	}
	if m.SelectedID != second.ID {
		t.Fatalf("selection should survive reload")
	}
	if m.Entries[1].Status != model.StatusCompleted {
		t.Fatalf("expected completed status in agenda, got %s", m.Entries[1].Status)
	}

	m = send(t, m, keys("k"))
	if m.SelectedID != first.ID {
		t.Fatalf("expected first task selected")
	}
	m = send(t, m, keys("l"))
	if m.FocusDay != mustDay(t, "2024-06-02") || len(m.Entries) != 0 {
		t.Fatalf("expected empty next day, got %s with %d entries", m.FocusDay, len(m.Entries))
	}
	m = send(t, m, tea.KeyMsg{Type: tea.KeySpace})
	if !m.Status.IsError {
		t.Fatalf("expected error toggling with no selection")
	}
	m = send(t, m, keys("t"))
	if m.FocusDay != mustDay(t, "2024-06-01") {
		t.Fatalf("expected t to jump to today")
	}
}

func TestRemoveKeyKeepsEmptiedTask(t *testing.T) {
	h := setupHarness(t)
	task := h.addTask(t, "Once", "", "2024-06-01")

	m := h.model(nil)
	m = send(t, m, keys("x"))
	if !strings.Contains(m.Status.Text, "no dates left") {
		t.Fatalf("expected emptied notice, got %q", m.Status.Text)
	}
	if len(m.Entries) != 0 {
		t.Fatalf("expected task gone from agenda")
	}
	if _, err := h.svc.Get(context.Background(), task.ID); err != nil {
		t.Fatalf("expected emptied task to persist: %v", err)
	}
}

func TestPaletteRemovePrune(t *testing.T) {
	h := setupHarness(t)
	task := h.addTask(t, "Once", "", "2024-06-01")

	m := runPalette(t, h.model(nil), "remove 2024-06-01 --prune")
	if m.Status.IsError {
		t.Fatalf("unexpected error: %s", m.Status.Text)
	}
	if m.Palette.Active {
		t.Fatalf("expected palette closed after command")
	}
	if _, err := h.svc.Get(context.Background(), task.ID); err == nil {
		t.Fatalf("expected pruned task to be deleted")
	}
}

func TestPaletteAddAndTime(t *testing.T) {
	h := setupHarness(t)
	m := runPalette(t, h.model(nil), "add Water plants | use the *blue* can @18:30")
	if m.Status.IsError {
		t.Fatalf("unexpected error: %s", m.Status.Text)
	}
	if len(m.Entries) != 1 {
		t.Fatalf("expected new task on focus day, got %d", len(m.Entries))
	}
	added := m.Entries[0].Task
	if added.Title != "Water plants" || added.TimeLabel() != "18:30" {
		t.Fatalf("unexpected task: %+v", added)
	}
	if m.SelectedID != added.ID {
		t.Fatalf("expected new task selected")
	}

	m = runPalette(t, m, "time none")
	got, err := h.svc.Get(context.Background(), added.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Time != nil {
		t.Fatalf("expected time cleared, got %s", got.TimeLabel())
	}
	if !strings.Contains(m.Status.Text, "--:--") {
		t.Fatalf("unexpected status %q", m.Status.Text)
	}
}

func TestPaletteDatesMonthAndRange(t *testing.T) {
	h := setupHarness(t)
	task := h.addTask(t, "Gym", "07:00", "2024-06-01")
	m := h.model(nil)

	m = send(t, m, keys("l"))
	m = send(t, m, keys("h"))
	m = runPalette(t, m, "goto 2024-06-20")
	if m.FocusDay != mustDay(t, "2024-06-20") {
		t.Fatalf("goto failed: %s", m.FocusDay)
	}
	// nothing scheduled on the 20th, so there is no selection
	m = runPalette(t, m, "dates month")
	if !m.Status.IsError {
		t.Fatalf("expected error without a selected task")
	}

	m = runPalette(t, m, "goto today")
	m = runPalette(t, m, "dates range 2024-06-10 2024-06-12")
	if m.Status.IsError {
		t.Fatalf("unexpected error: %s", m.Status.Text)
	}
	got, err := h.svc.Get(context.Background(), task.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Pending.Len() != 4 {
		t.Fatalf("expected 4 pending days, got %v", got.Pending.Strings())
	}

	m = runPalette(t, m, "dates month")
	got, _ = h.svc.Get(context.Background(), task.ID)
	if got.Pending.Len() != 30 {
		t.Fatalf("expected the rest of June, got %d days", got.Pending.Len())
	}
	if m.Month.Day(30).Pending != 1 {
		t.Fatalf("expected month view refreshed")
	}
}

func TestPaletteErrors(t *testing.T) {
	h := setupHarness(t)
	m := runPalette(t, h.model(nil), "frobnicate")
	if !m.Status.IsError || !strings.Contains(m.Status.Text, "unsupported command") {
		t.Fatalf("expected unsupported command error, got %+v", m.Status)
	}

	m = send(t, m, keys("/"))
	m = send(t, m, keys("add x"))
	m = send(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	if m.Palette.Active || m.Palette.Input != "" {
		t.Fatalf("expected esc to close and clear palette")
	}
	if len(m.Entries) != 0 {
		t.Fatalf("esc must not run the command")
	}
}

func TestCalendarNavigation(t *testing.T) {
	h := setupHarness(t)
	h.addTask(t, "Past", "08:00", "2024-05-31")
	m := h.model(nil)

	m = send(t, m, keys("2"))
	if m.CurrentView != ViewCalendar {
		t.Fatalf("expected calendar view")
	}
	m = runPalette(t, m, "goto 2024-01-31")
	m = send(t, m, keys("l"))
	if m.FocusDay != mustDay(t, "2024-02-29") {
		t.Fatalf("expected clamp to leap day, got %s", m.FocusDay)
	}
	if m.Month.Month != time.February || len(m.Month.Days) != 29 {
		t.Fatalf("expected february summary, got %+v", m.Month.Month)
	}
	m = send(t, m, keys("j"))
	if m.FocusDay != mustDay(t, "2024-03-01") {
		t.Fatalf("expected next day, got %s", m.FocusDay)
	}
	m = runPalette(t, m, "goto 2024-05-31")
	if m.Month.Day(31).Failed != 1 {
		t.Fatalf("expected failed count for past pending task")
	}
	if !strings.Contains(m.View(), "May 2024") {
		t.Fatalf("expected month title in calendar view")
	}
	m = send(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	if m.CurrentView != ViewDay || len(m.Entries) != 1 {
		t.Fatalf("expected enter to open the focused day")
	}
}

func TestMonthRowsLayout(t *testing.T) {
	days := make([]tasks.DaySummary, 0, 30)
	for d := 1; d <= 30; d++ {
		days = append(days, tasks.DaySummary{Day: model.NewDay(2024, time.June, d)})
	}
	days[0].Pending = 1
	days[1].Completed = 2
	days[2].Failed = 1
	days[2].Pending = 1
	month := tasks.MonthSummary{Year: 2024, Month: time.June, Days: days}

	rows, cursor := monthRows(month, model.NewDay(2024, time.June, 10))
	if len(rows) != 5 {
		t.Fatalf("expected 5 weeks, got %d", len(rows))
	}
	// June 1 2024 is a Saturday.
	if rows[0][5] != " 1*" || rows[0][6] != " 2+" || rows[0][0] != "" {
		t.Fatalf("unexpected first week: %q", rows[0])
	}
	if rows[1][0] != " 3!" {
		t.Fatalf("failed should win over pending, got %q", rows[1][0])
	}
	if cursor != 2 || rows[2][0] != "[10]" {
		t.Fatalf("expected focus in third row, got row %d %q", cursor, rows[2][0])
	}
	if rows[4][0] != "24" || rows[4][6] != "30" {
		t.Fatalf("unexpected last row: %q", rows[4])
	}
}

func TestReminderDeliveryShowsNotification(t *testing.T) {
	h := setupHarness(t)
	task := h.addTask(t, "Call", "09:05", "2024-06-01")
	ch := make(chan notify.Delivery, 1)
	m := h.model(ch)

	ch <- notify.Delivery{To: h.owner, Message: notify.Message{
		Title:    "Call",
		Body:     "due at 09:05",
		Reminder: model.Reminder{TaskID: task.ID, OwnerID: h.owner.ID, Title: "Call", Day: mustDay(t, "2024-06-01")},
	}}
	msg := waitForReminderCmd(ch)()
	due, ok := msg.(ReminderDueMsg)
	if !ok {
		t.Fatalf("expected ReminderDueMsg, got %T", msg)
	}
	next, cmd := m.Update(due)
	m = next.(Model)
	if cmd == nil {
		t.Fatalf("expected the model to keep waiting for reminders")
	}
	if len(m.Notifications) == 0 || m.Notifications[len(m.Notifications)-1].Level != "reminder" {
		t.Fatalf("expected reminder notification, got %+v", m.Notifications)
	}
	if !strings.Contains(m.View(), "REMINDER") {
		t.Fatalf("expected notification line in view")
	}

	close(ch)
	if msg := waitForReminderCmd(ch)(); msg != nil {
		t.Fatalf("expected nil message from closed channel, got %T", msg)
	}
	if waitForReminderCmd(nil) != nil {
		t.Fatalf("expected no command without a channel")
	}
}

func TestHelpAndQuit(t *testing.T) {
	h := setupHarness(t)
	m := h.model(nil)
	m = send(t, m, keys("?"))
	if !m.HelpVisible || !strings.Contains(m.View(), "toggle selected task") {
		t.Fatalf("expected day help in view")
	}
	next, cmd := m.Update(keys("q"))
	if !next.(Model).Quitting || cmd == nil {
		t.Fatalf("expected quit")
	}
}
