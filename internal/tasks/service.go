package tasks

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/joaoVitorVallim/ToDoList/internal/clock"
	"github.com/joaoVitorVallim/ToDoList/internal/model"
	"github.com/joaoVitorVallim/ToDoList/internal/storage"
)

var (
	ErrCorruptRecord = errors.New("tasks: corrupt record")
	ErrInvalidInput  = errors.New("tasks: invalid input")
	ErrConflict      = errors.New("tasks: concurrent update, retries exhausted")
)

const defaultMaxRetries = 3

// errUnchanged lets a mutation report that nothing needs to be written.
var errUnchanged = errors.New("tasks: unchanged")

type Service struct {
	repo       storage.Repository
	clock      clock.Clock
	logger     *slog.Logger
	locks      *keyedMutex
	newID      func() string
	maxRetries int
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

func WithIDGenerator(fn func() string) Option {
	return func(s *Service) {
		if fn != nil {
			s.newID = fn
		}
	}
}

func WithMaxRetries(n int) Option {
	return func(s *Service) {
		if n >= 0 {
			s.maxRetries = n
		}
	}
}

func NewService(repo storage.Repository, clk clock.Clock, opts ...Option) *Service {
	if clk == nil {
		clk = clock.System{}
	}
	s := &Service{
		repo:       repo,
		clock:      clk,
		logger:     slog.Default(),
		locks:      newKeyedMutex(),
		newID:      uuid.NewString,
		maxRetries: defaultMaxRetries,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Service) Clock() clock.Clock {
	return s.clock
}

// Today is the calendar day of the service clock.
func (s *Service) Today() model.Day {
	return model.DayOf(s.clock.Now())
}

type CreateInput struct {
	OwnerID     string
	Title       string
	Description string
	Days        []model.Day
	Time        *model.TimeOfDay
}

func (s *Service) CreateTask(ctx context.Context, in CreateInput) (model.Task, error) {
	if _, err := s.repo.GetUser(ctx, in.OwnerID); err != nil {
		return model.Task{}, fmt.Errorf("tasks: owner %q: %w", in.OwnerID, err)
	}
	now := s.clock.Now()
	task := model.Task{
		ID:          s.newID(),
		OwnerID:     in.OwnerID,
		Title:       strings.TrimSpace(in.Title),
		Description: strings.TrimSpace(in.Description),
		Pending:     model.NewDaySet(in.Days...),
		Completed:   model.NewDaySet(),
		Notified:    model.NewDaySet(),
		Version:     1,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if in.Time != nil {
		tm := *in.Time
		task.Time = &tm
	}
	if err := task.ValidateNew(); err != nil {
		return model.Task{}, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	if err := s.repo.CreateTask(ctx, toRecord(task)); err != nil {
		return model.Task{}, fmt.Errorf("tasks: create: %w", err)
	}
	s.logger.Debug("task created", "task_id", task.ID, "owner_id", task.OwnerID, "days", task.Pending.Len())
	return task, nil
}

func (s *Service) Get(ctx context.Context, id string) (model.Task, error) {
	rec, err := s.repo.GetTask(ctx, id)
	if err != nil {
		return model.Task{}, fmt.Errorf("tasks: get %s: %w", id, err)
	}
	return fromRecord(rec)
}

// List returns the owner's tasks. Records that fail to load are logged and
// skipped so one bad row does not hide the rest.
func (s *Service) List(ctx context.Context, ownerID string) ([]model.Task, error) {
	return s.list(ctx, storage.TaskListFilter{OwnerID: ownerID})
}

func (s *Service) list(ctx context.Context, filter storage.TaskListFilter) ([]model.Task, error) {
	recs, err := s.repo.ListTasks(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("tasks: list: %w", err)
	}
	out := make([]model.Task, 0, len(recs))
	for _, rec := range recs {
		task, err := fromRecord(rec)
		if err != nil {
			s.logger.Warn("skipping corrupt task record", "task_id", rec.ID, "error", err)
			continue
		}
		out = append(out, task)
	}
	return out, nil
}

// Status evaluates one day of a task against the service clock.
func (s *Service) Status(ctx context.Context, id string, day model.Day) (model.DateStatus, error) {
	task, err := s.Get(ctx, id)
	if err != nil {
		return "", err
	}
	return model.Evaluate(task, day, s.clock.Now()), nil
}

// Toggle flips every given day between pending and completed. No day moves
// unless all of them belong to the task.
func (s *Service) Toggle(ctx context.Context, id string, days ...model.Day) (model.Task, error) {
	if len(days) == 0 {
		return model.Task{}, fmt.Errorf("%w: no dates to toggle", ErrInvalidInput)
	}
	return s.mutate(ctx, id, func(cur model.Task) (model.Task, error) {
		return model.ToggleAll(cur, days)
	})
}

// RemoveDate drops day from the task. The flag reports that the task tracks
// no day anymore; the record is kept and deleting it is up to the caller.
func (s *Service) RemoveDate(ctx context.Context, id string, day model.Day) (model.Task, bool, error) {
	var emptied bool
	task, err := s.mutate(ctx, id, func(cur model.Task) (model.Task, error) {
		next, empty := model.RemoveDate(cur, day)
		emptied = empty
		if next.Scheduled().Equal(cur.Scheduled()) && next.Notified.Equal(cur.Notified) {
			return cur, errUnchanged
		}
		return next, nil
	})
	if err != nil {
		return model.Task{}, false, err
	}
	return task, emptied, nil
}

// AssignDates replaces the task's schedule and time.
func (s *Service) AssignDates(ctx context.Context, id string, days []model.Day, t *model.TimeOfDay) (model.Task, error) {
	return s.mutate(ctx, id, func(cur model.Task) (model.Task, error) {
		return model.ReplaceDates(cur, days, t)
	})
}

// AddDates merges days into the task's schedule.
func (s *Service) AddDates(ctx context.Context, id string, days []model.Day) (model.Task, error) {
	if len(days) == 0 {
		return model.Task{}, fmt.Errorf("%w: no dates to add", ErrInvalidInput)
	}
	return s.mutate(ctx, id, func(cur model.Task) (model.Task, error) {
		return model.AddDates(cur, days)
	})
}

// SetTime changes only the time of day, keeping the schedule.
func (s *Service) SetTime(ctx context.Context, id string, t *model.TimeOfDay) (model.Task, error) {
	return s.mutate(ctx, id, func(cur model.Task) (model.Task, error) {
		if model.SameTime(cur.Time, t) {
			return cur, errUnchanged
		}
		return model.ReplaceDates(cur, cur.Scheduled().Sorted(), t)
	})
}

// UpdateDetails changes title and description; nil leaves a field as is.
func (s *Service) UpdateDetails(ctx context.Context, id string, title, description *string) (model.Task, error) {
	if title != nil && strings.TrimSpace(*title) == "" {
		return model.Task{}, fmt.Errorf("%w: title must not be empty", ErrInvalidInput)
	}
	if description != nil && strings.TrimSpace(*description) == "" {
		return model.Task{}, fmt.Errorf("%w: description must not be empty", ErrInvalidInput)
	}
	return s.mutate(ctx, id, func(cur model.Task) (model.Task, error) {
		next := cur.Clone()
		if title != nil {
			next.Title = strings.TrimSpace(*title)
		}
		if description != nil {
			next.Description = strings.TrimSpace(*description)
		}
		if next.Title == cur.Title && next.Description == cur.Description {
			return cur, errUnchanged
		}
		return next, nil
	})
}

func (s *Service) Delete(ctx context.Context, id string) error {
	unlock := s.locks.Lock(id)
	defer unlock()
	if err := s.repo.DeleteTask(ctx, id); err != nil {
		return fmt.Errorf("tasks: delete %s: %w", id, err)
	}
	s.logger.Debug("task deleted", "task_id", id)
	return nil
}

// MarkNotified records a delivered reminder. It reports false without
// writing when day is no longer pending or was already notified, which
// happens when the task changed between scan and delivery.
func (s *Service) MarkNotified(ctx context.Context, id string, day model.Day) (bool, error) {
	var marked bool
	_, err := s.mutate(ctx, id, func(cur model.Task) (model.Task, error) {
		next, ok := model.MarkNotified(cur, day)
		marked = ok
		if !ok {
			return cur, errUnchanged
		}
		return next, nil
	})
	if err != nil {
		return false, err
	}
	return marked, nil
}

// mutate runs a read-modify-write cycle under the task's lock. A version
// conflict means another process wrote in between; the cycle is retried on
// fresh state up to maxRetries times.
func (s *Service) mutate(ctx context.Context, id string, fn func(model.Task) (model.Task, error)) (model.Task, error) {
	unlock := s.locks.Lock(id)
	defer unlock()

	for attempt := 0; ; attempt++ {
		cur, err := s.Get(ctx, id)
		if err != nil {
			return model.Task{}, err
		}
		next, err := fn(cur)
		if errors.Is(err, errUnchanged) {
			return cur, nil
		}
		if err != nil {
			return model.Task{}, err
		}
		next.UpdatedAt = s.clock.Now()
		if err := next.Validate(); err != nil {
			return model.Task{}, fmt.Errorf("%w: %w", ErrInvalidInput, err)
		}

		err = s.repo.UpdateTask(ctx, toRecord(next))
		if err == nil {
			next.Version = cur.Version + 1
			return next, nil
		}
		if !errors.Is(err, storage.ErrVersionConflict) {
			return model.Task{}, fmt.Errorf("tasks: update %s: %w", id, err)
		}
		if attempt >= s.maxRetries {
			return model.Task{}, fmt.Errorf("%w: task %s: %w", ErrConflict, id, err)
		}
		s.logger.Debug("retrying task update after version conflict", "task_id", id, "attempt", attempt+1)
	}
}
