package storage

import (
	"context"
	"errors"
)

var (
	ErrNotFound        = errors.New("storage: not found")
	ErrVersionConflict = errors.New("storage: version conflict")
)

type Repository interface {
	CreateTask(ctx context.Context, in Task) error
	GetTask(ctx context.Context, id string) (Task, error)
	// UpdateTask stores in only if the stored version still equals
	// in.Version; the stored version is then incremented by one.
	UpdateTask(ctx context.Context, in Task) error
	DeleteTask(ctx context.Context, id string) error
	ListTasks(ctx context.Context, filter TaskListFilter) ([]Task, error)

	CreateUser(ctx context.Context, in User) error
	GetUser(ctx context.Context, id string) (User, error)
	GetUserByEmail(ctx context.Context, email string) (User, error)
	UpdateUser(ctx context.Context, in User) error
	DeleteUser(ctx context.Context, id string) error
	ListUsers(ctx context.Context, filter UserListFilter) ([]User, error)
}
