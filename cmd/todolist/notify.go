package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/joaoVitorVallim/ToDoList/internal/config"
	"github.com/joaoVitorVallim/ToDoList/internal/notify"
	"github.com/joaoVitorVallim/ToDoList/internal/scheduler"
)

// telegramFactory is swapped in tests.
var telegramFactory = notify.NewTelegram

// buildDispatchers returns the configured outbound routes on top of base.
func buildDispatchers(cfg config.RuntimeConfig, logger *slog.Logger, base ...notify.Dispatcher) (notify.Multi, error) {
	out := append(notify.Multi{}, base...)
	if cfg.TelegramToken != "" {
		tg, err := telegramFactory(cfg.TelegramToken)
		if err != nil {
			return nil, err
		}
		logger.Info("telegram dispatcher ready", "bot", tg.BotName())
		out = append(out, tg)
	}
	if cfg.DesktopNotifications {
		out = append(out, notify.NewDesktop())
	}
	return out, nil
}

func (a *app) newScheduler(dispatcher notify.Dispatcher, logger *slog.Logger) *scheduler.Service {
	return scheduler.NewService(a.svc, dispatcher, a.clock, scheduler.Options{
		LeadWindow: a.cfg.LeadWindow,
		Schedule:   a.cfg.ScanSchedule,
		Workers:    a.cfg.DispatchWorkers,
		QueueSize:  a.cfg.QueueSize,
		Logger:     logger,
	})
}

func newNotifyCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "notify",
		Short: "Run the reminder scheduler until interrupted",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			dispatcher, err := buildDispatchers(a.cfg, a.logger, notify.NewLog(a.logger))
			if err != nil {
				return err
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return runScheduler(ctx, a.newScheduler(dispatcher, a.logger), a.logger)
		},
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "scan",
		Short: "Print the reminders due now without sending them",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			now := a.clock.Now()
			due, err := a.newScheduler(notify.NewLog(a.logger), a.logger).ScanForDueReminders(cmd.Context(), now)
			if err != nil {
				return err
			}
			renderDue(cmd.OutOrStdout(), due, now)
			return nil
		},
	})
	return cmd
}

// runScheduler starts sched, runs one scan right away, and blocks until ctx
// is done.
func runScheduler(ctx context.Context, sched *scheduler.Service, logger *slog.Logger) error {
	if err := sched.Start(ctx); err != nil {
		return fmt.Errorf("start scheduler: %w", err)
	}
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		n, err := sched.RunOnce(ctx)
		if err != nil {
			logger.Warn("initial reminder scan failed", "error", err)
			return nil
		}
		logger.Info("initial reminder scan", "queued", n)
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		sched.Stop()
		return nil
	})
	err := g.Wait()
	logger.Info("scheduler stopped")
	return err
}
