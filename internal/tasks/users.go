package tasks

import (
	"context"
	"fmt"
	"strings"

	"github.com/joaoVitorVallim/ToDoList/internal/model"
	"github.com/joaoVitorVallim/ToDoList/internal/storage"
)

type UserInput struct {
	Name                 string
	Email                string
	TelegramChatID       int64
	NotificationsEnabled bool
}

func (s *Service) CreateUser(ctx context.Context, in UserInput) (model.User, error) {
	u := model.User{
		ID:                   s.newID(),
		Name:                 strings.TrimSpace(in.Name),
		Email:                strings.ToLower(strings.TrimSpace(in.Email)),
		TelegramChatID:       in.TelegramChatID,
		NotificationsEnabled: in.NotificationsEnabled,
		CreatedAt:            s.clock.Now(),
	}
	if err := u.Validate(); err != nil {
		return model.User{}, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	if err := s.repo.CreateUser(ctx, userToRecord(u)); err != nil {
		return model.User{}, fmt.Errorf("tasks: create user: %w", err)
	}
	return u, nil
}

// ListUsers returns all users, or only those accepting reminders.
func (s *Service) ListUsers(ctx context.Context, notifyingOnly bool) ([]model.User, error) {
	filter := storage.UserListFilter{}
	if notifyingOnly {
		enabled := true
		filter.NotificationsEnabled = &enabled
	}
	recs, err := s.repo.ListUsers(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("tasks: list users: %w", err)
	}
	out := make([]model.User, 0, len(recs))
	for _, rec := range recs {
		out = append(out, userFromRecord(rec))
	}
	return out, nil
}

func (s *Service) GetUser(ctx context.Context, id string) (model.User, error) {
	rec, err := s.repo.GetUser(ctx, id)
	if err != nil {
		return model.User{}, fmt.Errorf("tasks: get user %s: %w", id, err)
	}
	return userFromRecord(rec), nil
}

// ResolveUser finds a user by id, or by email when ref contains an @.
func (s *Service) ResolveUser(ctx context.Context, ref string) (model.User, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return model.User{}, fmt.Errorf("%w: user reference is empty", ErrInvalidInput)
	}
	if !strings.Contains(ref, "@") {
		return s.GetUser(ctx, ref)
	}
	rec, err := s.repo.GetUserByEmail(ctx, ref)
	if err != nil {
		return model.User{}, fmt.Errorf("tasks: get user %s: %w", ref, err)
	}
	return userFromRecord(rec), nil
}

// SetNotifications toggles reminder delivery for a user.
func (s *Service) SetNotifications(ctx context.Context, id string, enabled bool) (model.User, error) {
	rec, err := s.repo.GetUser(ctx, id)
	if err != nil {
		return model.User{}, fmt.Errorf("tasks: get user %s: %w", id, err)
	}
	rec.NotificationsEnabled = enabled
	if err := s.repo.UpdateUser(ctx, rec); err != nil {
		return model.User{}, fmt.Errorf("tasks: update user %s: %w", id, err)
	}
	return userFromRecord(rec), nil
}
