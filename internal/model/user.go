package model

import (
	"errors"
	"net/mail"
	"strings"
	"time"
)

var ErrInvalidEmail = errors.New("model: invalid email")

type User struct {
	ID    string
	Name  string
	Email string
	// TelegramChatID routes reminders to a Telegram chat; zero disables it.
	TelegramChatID       int64
	NotificationsEnabled bool
	CreatedAt            time.Time
}

func (u User) Validate() error {
	if strings.TrimSpace(u.ID) == "" {
		return errors.New("model: user id is required")
	}
	if strings.TrimSpace(u.Name) == "" {
		return errors.New("model: user name is required")
	}
	if _, err := mail.ParseAddress(u.Email); err != nil {
		return ErrInvalidEmail
	}
	if u.CreatedAt.IsZero() {
		return errors.New("model: user created_at is required")
	}
	return nil
}
