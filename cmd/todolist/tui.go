package main

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/joaoVitorVallim/ToDoList/internal/logging"
	"github.com/joaoVitorVallim/ToDoList/internal/notify"
	"github.com/joaoVitorVallim/ToDoList/internal/update"
)

func newTUICmd(a *app) *cobra.Command {
	var noScheduler bool
	cmd := &cobra.Command{
		Use:   "tui",
		Short: "Open the interactive day and calendar view",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			owner, err := a.owner(cmd.Context())
			if err != nil {
				return err
			}
			ctx, cancel := context.WithCancel(cmd.Context())
			defer cancel()

			var reminders <-chan notify.Delivery
			if !noScheduler {
				// Logs would draw over the UI.
				quiet := logging.Discard()
				ch := notify.NewChannel(a.cfg.QueueSize)
				dispatcher, err := buildDispatchers(a.cfg, quiet, ch)
				if err != nil {
					return err
				}
				sched := a.newScheduler(dispatcher, quiet)
				if err := sched.Start(ctx); err != nil {
					return err
				}
				defer sched.Stop()
				reminders = ch.C()
			}

			program := tea.NewProgram(update.NewModel(ctx, a.svc, owner, reminders), tea.WithAltScreen(), tea.WithContext(ctx))
			_, err = program.Run()
			return err
		},
	}
	cmd.Flags().BoolVar(&noScheduler, "no-scheduler", false, "do not scan for reminders while the UI is open")
	return cmd
}
