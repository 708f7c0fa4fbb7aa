package storage

import "time"

// Task is the persisted form of a task. Days are stored as YYYY-MM-DD text;
// TimeOfDay is "" when the task has no deadline time.
type Task struct {
	ID            string
	OwnerID       string
	Title         string
	Description   string
	TimeOfDay     string
	PendingDays   []string
	CompletedDays []string
	NotifiedDays  []string
	Version       int64
	CreatedAt     time.Time
	UpdatedAt     time.Time
	// DecodeErr is set when the row was read but a stored value did not
	// decode. It is never written back.
	DecodeErr error
}

type User struct {
	ID                   string
	Name                 string
	Email                string
	TelegramChatID       int64
	NotificationsEnabled bool
	CreatedAt            time.Time
}

type TaskListFilter struct {
	OwnerID string
	// Day restricts results to tasks pending or completed on that day.
	Day    string
	Limit  int
	Offset int
}

type UserListFilter struct {
	NotificationsEnabled *bool
	Limit                int
	Offset               int
}
