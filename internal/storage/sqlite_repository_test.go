package storage

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"reflect"
	"testing"
	"time"
)

func setupRepo(t *testing.T) *SQLiteRepository {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "todolist-test.db")
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	if err := MigrateUp(db); err != nil {
		t.Fatalf("migrate up: %v", err)
	}

	repo, err := NewSQLiteRepository(db)
	if err != nil {
		t.Fatalf("new repo: %v", err)
	}
	return repo
}

func parseRFC3339(t *testing.T, value string) time.Time {
	t.Helper()
	out, err := time.Parse(time.RFC3339, value)
	if err != nil {
		t.Fatalf("parse time: %v", err)
	}
	return out
}

func seedUser(t *testing.T, repo *SQLiteRepository, id, email string) User {
	t.Helper()
	u := User{
		ID:                   id,
		Name:                 "User " + id,
		Email:                email,
		NotificationsEnabled: true,
		CreatedAt:            parseRFC3339(t, "2026-02-01T08:00:00Z"),
	}
	if err := repo.CreateUser(context.Background(), u); err != nil {
		t.Fatalf("create user: %v", err)
	}
	return u
}

func TestTaskCRUDAndList(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()
	owner := seedUser(t, repo, "user-1", "ana@example.com")
	created := parseRFC3339(t, "2026-02-09T12:00:00Z")

	task := Task{
		ID:          "task-1",
		OwnerID:     owner.ID,
		Title:       "Water plants",
		Description: "Balcony and kitchen",
		TimeOfDay:   "09:30",
		PendingDays: []string{"2026-02-10", "2026-02-11"},
		CreatedAt:   created,
	}
	if err := repo.CreateTask(ctx, task); err != nil {
		t.Fatalf("create task: %v", err)
	}

	got, err := repo.GetTask(ctx, task.ID)
	if err != nil {
		t.Fatalf("get task: %v", err)
	}
	if got.Title != task.Title || got.TimeOfDay != "09:30" || got.Version != 1 {
		t.Fatalf("unexpected task get result: %#v", got)
	}
	if !reflect.DeepEqual(got.PendingDays, []string{"2026-02-10", "2026-02-11"}) {
		t.Fatalf("unexpected pending days: %v", got.PendingDays)
	}
	if len(got.CompletedDays) != 0 || len(got.NotifiedDays) != 0 {
		t.Fatalf("expected empty completed/notified, got %#v", got)
	}
	if !got.UpdatedAt.Equal(created) {
		t.Fatalf("expected updated_at to default to created_at, got %v", got.UpdatedAt)
	}

	got.PendingDays = []string{"2026-02-11"}
	got.CompletedDays = []string{"2026-02-10"}
	got.NotifiedDays = []string{"2026-02-11"}
	got.UpdatedAt = created.Add(time.Hour)
	if err := repo.UpdateTask(ctx, got); err != nil {
		t.Fatalf("update task: %v", err)
	}

	updated, err := repo.GetTask(ctx, task.ID)
	if err != nil {
		t.Fatalf("get updated task: %v", err)
	}
	if updated.Version != 2 {
		t.Fatalf("expected version 2, got %d", updated.Version)
	}
	if !reflect.DeepEqual(updated.CompletedDays, []string{"2026-02-10"}) ||
		!reflect.DeepEqual(updated.PendingDays, []string{"2026-02-11"}) ||
		!reflect.DeepEqual(updated.NotifiedDays, []string{"2026-02-11"}) {
		t.Fatalf("unexpected days after update: %#v", updated)
	}

	onDay, err := repo.ListTasks(ctx, TaskListFilter{OwnerID: owner.ID, Day: "2026-02-10"})
	if err != nil {
		t.Fatalf("list tasks: %v", err)
	}
	if len(onDay) != 1 || onDay[0].ID != task.ID {
		t.Fatalf("unexpected day list: %#v", onDay)
	}

	none, err := repo.ListTasks(ctx, TaskListFilter{Day: "2026-03-01"})
	if err != nil {
		t.Fatalf("list tasks: %v", err)
	}
	if len(none) != 0 {
		t.Fatalf("expected no tasks on unrelated day, got %d", len(none))
	}

	if err := repo.DeleteTask(ctx, task.ID); err != nil {
		t.Fatalf("delete task: %v", err)
	}
	if _, err := repo.GetTask(ctx, task.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected not found after delete, got %v", err)
	}
	if err := repo.DeleteTask(ctx, task.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected not found on second delete, got %v", err)
	}
}

func TestUpdateTaskVersionConflict(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()
	owner := seedUser(t, repo, "user-1", "ana@example.com")

	task := Task{
		ID:          "task-1",
		OwnerID:     owner.ID,
		Title:       "Pay rent",
		Description: "Transfer before noon",
		PendingDays: []string{"2026-03-01"},
		CreatedAt:   parseRFC3339(t, "2026-02-09T12:00:00Z"),
	}
	if err := repo.CreateTask(ctx, task); err != nil {
		t.Fatalf("create task: %v", err)
	}

	first, _ := repo.GetTask(ctx, task.ID)
	second, _ := repo.GetTask(ctx, task.ID)

	first.CompletedDays = []string{"2026-03-01"}
	first.PendingDays = nil
	if err := repo.UpdateTask(ctx, first); err != nil {
		t.Fatalf("first update: %v", err)
	}

	second.Title = "Pay rent (late)"
	if err := repo.UpdateTask(ctx, second); !errors.Is(err, ErrVersionConflict) {
		t.Fatalf("expected version conflict, got %v", err)
	}

	stored, err := repo.GetTask(ctx, task.ID)
	if err != nil {
		t.Fatalf("get task: %v", err)
	}
	if stored.Title != "Pay rent" || !reflect.DeepEqual(stored.CompletedDays, []string{"2026-03-01"}) {
		t.Fatalf("stale write must not apply, got %#v", stored)
	}

	missing := Task{ID: "nope", Version: 1, CreatedAt: time.Now()}
	if err := repo.UpdateTask(ctx, missing); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected not found for missing task, got %v", err)
	}
}

func TestListTasksPaginationAndOwner(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()
	ana := seedUser(t, repo, "user-1", "ana@example.com")
	bia := seedUser(t, repo, "user-2", "bia@example.com")
	base := parseRFC3339(t, "2026-02-09T12:00:00Z")

	for i, owner := range []string{ana.ID, ana.ID, ana.ID, bia.ID} {
		in := Task{
			ID:          "task-" + string(rune('a'+i)),
			OwnerID:     owner,
			Title:       "Task",
			Description: "Body",
			PendingDays: []string{"2026-02-10"},
			CreatedAt:   base.Add(time.Duration(i) * time.Minute),
		}
		if err := repo.CreateTask(ctx, in); err != nil {
			t.Fatalf("create task %d: %v", i, err)
		}
	}

	page, err := repo.ListTasks(ctx, TaskListFilter{OwnerID: ana.ID, Limit: 2, Offset: 1})
	if err != nil {
		t.Fatalf("list tasks: %v", err)
	}
	if len(page) != 2 || page[0].ID != "task-b" || page[1].ID != "task-c" {
		t.Fatalf("unexpected page: %#v", page)
	}

	tail, err := repo.ListTasks(ctx, TaskListFilter{Offset: 3})
	if err != nil {
		t.Fatalf("list tasks: %v", err)
	}
	if len(tail) != 1 || tail[0].ID != "task-d" {
		t.Fatalf("unexpected offset-only list: %#v", tail)
	}
}

func TestListTasksKeepsRowsWithUndecodableValues(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()
	owner := seedUser(t, repo, "user-1", "ana@example.com")
	if err := repo.CreateTask(ctx, Task{
		ID: "good", OwnerID: owner.ID, Title: "Good", TimeOfDay: "10:05",
		PendingDays: []string{"2024-06-01"}, CreatedAt: parseRFC3339(t, "2024-06-01T08:00:00Z"),
	}); err != nil {
		t.Fatalf("create task: %v", err)
	}
	if _, err := repo.DB().ExecContext(ctx, `
		INSERT INTO tasks (id, owner_id, title, description, time_of_day, version, created_at, updated_at)
		VALUES ('bad', ?, 'Bad', '', '10:05', 1, 'not-a-time', 'not-a-time')`, owner.ID); err != nil {
		t.Fatalf("insert corrupt row: %v", err)
	}

	list, err := repo.ListTasks(ctx, TaskListFilter{OwnerID: owner.ID})
	if err != nil {
		t.Fatalf("list must not fail on one bad row: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("expected both rows, got %d", len(list))
	}
	var good, bad Task
	for _, task := range list {
		switch task.ID {
		case "good":
			good = task
		case "bad":
			bad = task
		}
	}
	if good.DecodeErr != nil || !reflect.DeepEqual(good.PendingDays, []string{"2024-06-01"}) {
		t.Fatalf("unexpected healthy row: %#v", good)
	}
	if bad.DecodeErr == nil {
		t.Fatalf("expected decode error on bad row")
	}

	got, err := repo.GetTask(ctx, "bad")
	if err != nil || got.DecodeErr == nil {
		t.Fatalf("expected bad row with decode error, got %#v (%v)", got, err)
	}
}

func TestUserCRUD(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()
	u := seedUser(t, repo, "user-1", "ana@example.com")

	byEmail, err := repo.GetUserByEmail(ctx, "ANA@example.com")
	if err != nil {
		t.Fatalf("get by email: %v", err)
	}
	if byEmail.ID != u.ID || !byEmail.NotificationsEnabled {
		t.Fatalf("unexpected user: %#v", byEmail)
	}

	u.TelegramChatID = 4242
	u.NotificationsEnabled = false
	if err := repo.UpdateUser(ctx, u); err != nil {
		t.Fatalf("update user: %v", err)
	}

	enabled := true
	active, err := repo.ListUsers(ctx, UserListFilter{NotificationsEnabled: &enabled})
	if err != nil {
		t.Fatalf("list users: %v", err)
	}
	if len(active) != 0 {
		t.Fatalf("expected no notification-enabled users, got %#v", active)
	}

	all, err := repo.ListUsers(ctx, UserListFilter{})
	if err != nil {
		t.Fatalf("list users: %v", err)
	}
	if len(all) != 1 || all[0].TelegramChatID != 4242 {
		t.Fatalf("unexpected users: %#v", all)
	}

	if err := repo.DeleteUser(ctx, u.ID); err != nil {
		t.Fatalf("delete user: %v", err)
	}
	if _, err := repo.GetUser(ctx, u.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
	if err := repo.UpdateUser(ctx, u); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected not found on update, got %v", err)
	}
}

func TestDeleteUserCascadesTasks(t *testing.T) {
	repo, err := OpenSQLite(filepath.Join(t.TempDir(), "cascade.db"))
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { _ = repo.Close() })
	ctx := context.Background()

	u := seedUser(t, repo, "user-1", "ana@example.com")
	if err := repo.CreateTask(ctx, Task{
		ID:          "task-1",
		OwnerID:     u.ID,
		Title:       "Stretch",
		Description: "Ten minutes",
		PendingDays: []string{"2026-02-10"},
		CreatedAt:   parseRFC3339(t, "2026-02-09T12:00:00Z"),
	}); err != nil {
		t.Fatalf("create task: %v", err)
	}

	if err := repo.DeleteUser(ctx, u.ID); err != nil {
		t.Fatalf("delete user: %v", err)
	}
	if _, err := repo.GetTask(ctx, "task-1"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected task removed with owner, got %v", err)
	}
}

func TestCreateTaskRequiresOwner(t *testing.T) {
	repo, err := OpenSQLite(filepath.Join(t.TempDir(), "fk.db"))
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { _ = repo.Close() })

	err = repo.CreateTask(context.Background(), Task{
		ID:          "task-1",
		OwnerID:     "ghost",
		Title:       "Orphan",
		Description: "No owner",
		PendingDays: []string{"2026-02-10"},
		CreatedAt:   time.Now(),
	})
	if err == nil {
		t.Fatalf("expected foreign key failure for unknown owner")
	}
}
