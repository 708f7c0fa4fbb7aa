package notify

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/joaoVitorVallim/ToDoList/internal/model"
)

var (
	// ErrDispatch marks a transport failure. The reminder stays unnotified
	// and is retried on the next scan.
	ErrDispatch = errors.New("notify: dispatch failed")
	// ErrNoRoute means the dispatcher has no address for the recipient.
	ErrNoRoute = errors.New("notify: no route for recipient")
)

type Message struct {
	Title    string
	Body     string
	Reminder model.Reminder
}

// Text joins title and body for transports that take a single string.
func (m Message) Text() string {
	if m.Body == "" {
		return m.Title
	}
	return m.Title + "\n" + m.Body
}

type Dispatcher interface {
	Send(ctx context.Context, to model.User, msg Message) error
}

// Render builds the reminder message shown to the user at instant now.
func Render(r model.Reminder, now time.Time) Message {
	due := humanize.RelTime(r.DeadlineAt, now, "ago", "from now")
	body := fmt.Sprintf("Due %s, %s at %s.", due, r.Day.Start(r.DeadlineAt.Location()).Format("Mon Jan 2"), r.Time)
	return Message{
		Title:    "Reminder: " + r.Title,
		Body:     body,
		Reminder: r,
	}
}

// Multi fans a message out to every dispatcher. The send only counts as
// delivered when every route that has an address for the recipient accepted
// it; one failing transport fails the whole send so the reminder is retried
// instead of being recorded as delivered by the log or the TUI alone.
// Routes that succeeded may see the message again on that retry.
type Multi []Dispatcher

func (m Multi) Send(ctx context.Context, to model.User, msg Message) error {
	var errs []string
	delivered := false
	for _, d := range m {
		if d == nil {
			continue
		}
		err := d.Send(ctx, to, msg)
		switch {
		case err == nil:
			delivered = true
		case errors.Is(err, ErrNoRoute):
		default:
			errs = append(errs, err.Error())
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("%w: %s", ErrDispatch, strings.Join(errs, "; "))
	}
	if !delivered {
		return fmt.Errorf("%w: user %s", ErrNoRoute, to.ID)
	}
	return nil
}
