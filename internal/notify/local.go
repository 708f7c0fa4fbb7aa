package notify

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/joaoVitorVallim/ToDoList/internal/model"
)

// Log writes reminders to a structured logger. It always succeeds.
type Log struct {
	logger *slog.Logger
}

func NewLog(logger *slog.Logger) *Log {
	if logger == nil {
		logger = slog.Default()
	}
	return &Log{logger: logger}
}

func (l *Log) Send(ctx context.Context, to model.User, msg Message) error {
	l.logger.InfoContext(ctx, "reminder",
		"user_id", to.ID,
		"task_id", msg.Reminder.TaskID,
		"day", msg.Reminder.Day.String(),
		"title", msg.Title,
		"body", msg.Body,
	)
	return nil
}

type Delivery struct {
	To      model.User
	Message Message
}

// Channel hands reminders to an in-process consumer such as the TUI. A full
// buffer is a dispatch failure so the reminder is retried later.
type Channel struct {
	out chan Delivery
}

func NewChannel(size int) *Channel {
	if size <= 0 {
		size = 1
	}
	return &Channel{out: make(chan Delivery, size)}
}

func (c *Channel) C() <-chan Delivery {
	return c.out
}

func (c *Channel) Send(ctx context.Context, to model.User, msg Message) error {
	select {
	case c.out <- Delivery{To: to, Message: msg}:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("%w: %v", ErrDispatch, ctx.Err())
	default:
		return fmt.Errorf("%w: channel buffer full", ErrDispatch)
	}
}
