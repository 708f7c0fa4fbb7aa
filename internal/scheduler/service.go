package scheduler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	rcron "github.com/robfig/cron/v3"

	"github.com/joaoVitorVallim/ToDoList/internal/clock"
	"github.com/joaoVitorVallim/ToDoList/internal/model"
	"github.com/joaoVitorVallim/ToDoList/internal/notify"
	"github.com/joaoVitorVallim/ToDoList/internal/storage"
)

const (
	DefaultLeadWindow = 10 * time.Minute
	DefaultSchedule   = "0 * * * * *"
)

// TaskStore is what the scheduler needs from the task service.
type TaskStore interface {
	ListUsers(ctx context.Context, notifyingOnly bool) ([]model.User, error)
	List(ctx context.Context, ownerID string) ([]model.Task, error)
	Get(ctx context.Context, id string) (model.Task, error)
	MarkNotified(ctx context.Context, id string, day model.Day) (bool, error)
}

type Options struct {
	LeadWindow time.Duration
	// Schedule is a cron expression with a seconds field.
	Schedule  string
	Workers   int
	QueueSize int
	Logger    *slog.Logger
}

// Due pairs a reminder with the user it goes to.
type Due struct {
	Reminder model.Reminder
	User     model.User
}

type Service struct {
	store      TaskStore
	dispatcher notify.Dispatcher
	clock      clock.Clock
	lead       time.Duration
	schedule   string
	logger     *slog.Logger
	engine     *Engine

	mu      sync.Mutex
	cron    *rcron.Cron
	running bool
}

func NewService(store TaskStore, dispatcher notify.Dispatcher, clk clock.Clock, opts Options) *Service {
	if clk == nil {
		clk = clock.System{}
	}
	if opts.LeadWindow <= 0 {
		opts.LeadWindow = DefaultLeadWindow
	}
	if opts.Schedule == "" {
		opts.Schedule = DefaultSchedule
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	s := &Service{
		store:      store,
		dispatcher: dispatcher,
		clock:      clk,
		lead:       opts.LeadWindow,
		schedule:   opts.Schedule,
		logger:     opts.Logger,
	}
	s.engine = NewEngine(s.deliver, opts.Workers, opts.QueueSize)
	return s
}

func (s *Service) Engine() *Engine {
	return s.engine
}

// ScanForDueReminders lists every reminder due at now for users that accept
// notifications. A failure for one user is logged and the scan moves on.
func (s *Service) ScanForDueReminders(ctx context.Context, now time.Time) ([]Due, error) {
	users, err := s.store.ListUsers(ctx, true)
	if err != nil {
		return nil, fmt.Errorf("scheduler: list users: %w", err)
	}
	out := make([]Due, 0)
	for _, user := range users {
		if err := ctx.Err(); err != nil {
			return out, err
		}
		tasks, err := s.store.List(ctx, user.ID)
		if err != nil {
			s.logger.Error("scan user tasks", "user_id", user.ID, "error", err)
			continue
		}
		for _, r := range Scan(tasks, now, s.lead) {
			out = append(out, Due{Reminder: r, User: user})
		}
	}
	return out, nil
}

// RunOnce scans at the current clock and queues what is due. It returns the
// number of newly queued reminders.
func (s *Service) RunOnce(ctx context.Context) (int, error) {
	due, err := s.ScanForDueReminders(ctx, s.clock.Now())
	if err != nil {
		return 0, err
	}
	queued := 0
	for _, d := range due {
		err := s.engine.Enqueue(Job{Reminder: d.Reminder, Recipient: d.User})
		switch {
		case err == nil:
			queued++
		case errors.Is(err, ErrDuplicateJob):
			s.logger.Debug("reminder already in flight", "task_id", d.Reminder.TaskID, "day", d.Reminder.Day.String())
		default:
			s.logger.Warn("queue reminder", "task_id", d.Reminder.TaskID, "day", d.Reminder.Day.String(), "error", err)
		}
	}
	return queued, nil
}

// Start runs the dispatch workers and the periodic scan until Stop is
// called or ctx is done.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running {
		return nil
	}
	c := rcron.New(rcron.WithSeconds())
	if _, err := c.AddFunc(s.schedule, func() {
		n, err := s.RunOnce(ctx)
		if err != nil {
			s.logger.Error("reminder scan failed", "error", err)
			return
		}
		if n > 0 {
			s.logger.Info("reminders queued", "count", n)
		}
	}); err != nil {
		return fmt.Errorf("scheduler: invalid schedule %q: %w", s.schedule, err)
	}
	s.engine.Start(ctx)
	c.Start()
	s.cron = c
	s.running = true
	s.logger.Info("scheduler started", "schedule", s.schedule, "lead_window", s.lead.String())

	go func() {
		<-ctx.Done()
		s.Stop()
	}()
	return nil
}

// Stop halts scanning, then waits for deliveries already running.
func (s *Service) Stop() {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return
	}
	s.running = false
	c := s.cron
	s.mu.Unlock()

	stopCtx := c.Stop()
	select {
	case <-stopCtx.Done():
	case <-time.After(5 * time.Second):
		s.logger.Warn("stop timeout waiting for running scan")
	}
	s.engine.Stop()
	s.logger.Info("scheduler stopped", "dropped", s.engine.Dropped())
}

// deliver re-reads the task, sends, and records the notification only after
// the send succeeded. The record is written even if ctx is cancelled
// meanwhile, so a delivered reminder is never sent again.
func (s *Service) deliver(ctx context.Context, job Job) {
	r, ok := s.refresh(ctx, job.Reminder)
	if !ok {
		return
	}
	msg := notify.Render(r, s.clock.Now())
	if err := s.dispatcher.Send(ctx, job.Recipient, msg); err != nil {
		s.logger.Warn("reminder dispatch failed", "task_id", r.TaskID, "day", r.Day.String(), "user_id", job.Recipient.ID, "error", err)
		return
	}
	marked, err := s.store.MarkNotified(context.WithoutCancel(ctx), r.TaskID, r.Day)
	if err != nil {
		s.logger.Error("mark reminder notified", "task_id", r.TaskID, "day", r.Day.String(), "error", err)
		return
	}
	if !marked {
		s.logger.Debug("reminder no longer pending", "task_id", r.TaskID, "day", r.Day.String())
		return
	}
	s.logger.Info("reminder sent", "task_id", r.TaskID, "day", r.Day.String(), "user_id", job.Recipient.ID)
}

// refresh checks a queued reminder against the stored task. Jobs can wait
// in the queue past a delivery of the same day or an edit, so the snapshot
// taken at scan time is only trusted if the day is still pending, not yet
// notified, and keeps the same time.
func (s *Service) refresh(ctx context.Context, r model.Reminder) (model.Reminder, bool) {
	task, err := s.store.Get(ctx, r.TaskID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			s.logger.Debug("reminder task deleted", "task_id", r.TaskID, "day", r.Day.String())
		} else {
			s.logger.Warn("reload reminder task", "task_id", r.TaskID, "day", r.Day.String(), "error", err)
		}
		return model.Reminder{}, false
	}
	switch {
	case !task.Pending.Has(r.Day):
		s.logger.Debug("reminder no longer pending", "task_id", r.TaskID, "day", r.Day.String())
		return model.Reminder{}, false
	case task.Notified.Has(r.Day):
		s.logger.Debug("reminder already sent", "task_id", r.TaskID, "day", r.Day.String())
		return model.Reminder{}, false
	case task.Time == nil || *task.Time != r.Time:
		s.logger.Debug("reminder time changed", "task_id", r.TaskID, "day", r.Day.String())
		return model.Reminder{}, false
	}
	r.Title = task.Title
	return r, true
}
