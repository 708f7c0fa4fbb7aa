package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/joaoVitorVallim/ToDoList/internal/model"
	"github.com/joaoVitorVallim/ToDoList/internal/tasks"
	"github.com/joaoVitorVallim/ToDoList/internal/views"
)

func newTaskCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "task",
		Short: "Manage dated tasks",
	}
	cmd.AddCommand(
		newTaskAddCmd(a),
		newTaskListCmd(a),
		newTaskShowCmd(a),
		newTaskDayCmd(a),
		newTaskMonthCmd(a),
		newTaskToggleCmd(a),
		newTaskRemoveCmd(a),
		newTaskAssignCmd(a),
		newTaskAddDatesCmd(a),
		newTaskEditCmd(a),
		newTaskDeleteCmd(a),
		newTaskStatusCmd(a),
	)
	return cmd
}

func newTaskAddCmd(a *app) *cobra.Command {
	var title, desc, at string
	var df dateFlags
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Create a task on one or more dates",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			owner, err := a.owner(cmd.Context())
			if err != nil {
				return err
			}
			days, err := df.resolve(a.svc.Today(), nil)
			if err != nil {
				return err
			}
			tm, err := model.ParseOptionalTimeOfDay(at)
			if err != nil {
				return err
			}
			if strings.TrimSpace(desc) == "" {
				desc = title
			}
			task, err := a.svc.CreateTask(cmd.Context(), tasks.CreateInput{
				OwnerID:     owner.ID,
				Title:       title,
				Description: desc,
				Days:        days,
				Time:        tm,
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "created task %s (%d dates)\n", task.ID, task.Pending.Len())
			return nil
		},
	}
	cmd.Flags().StringVar(&title, "title", "", "task title")
	cmd.Flags().StringVar(&desc, "desc", "", "task description (markdown, defaults to the title)")
	cmd.Flags().StringVar(&at, "time", "", "deadline HH:MM within each day")
	_ = cmd.MarkFlagRequired("title")
	df.register(cmd)
	return cmd
}

func newTaskListCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List the user's tasks",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			owner, err := a.owner(cmd.Context())
			if err != nil {
				return err
			}
			list, err := a.svc.List(cmd.Context(), owner.ID)
			if err != nil {
				return err
			}
			renderTasks(cmd.OutOrStdout(), list, a.svc.Today())
			return nil
		},
	}
}

func newTaskShowCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "show ID",
		Short: "Show a task with the status of each date",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			task, err := a.svc.Get(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s  %s\n", task.Title, task.TimeLabel())
			fmt.Fprintf(out, "id: %s  version: %d\n", task.ID, task.Version)
			renderTaskDays(out, task, a.clock.Now())
			if md := views.RenderMarkdown(task.Description, 80); md != "" {
				fmt.Fprintln(out, md)
			}
			return nil
		},
	}
}

func newTaskDayCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "day [DATE]",
		Short: "Show the agenda of a day (default today)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			owner, err := a.owner(cmd.Context())
			if err != nil {
				return err
			}
			raw := ""
			if len(args) == 1 {
				raw = args[0]
			}
			day, err := parseDayArg(raw, a.svc.Today())
			if err != nil {
				return err
			}
			entries, err := a.svc.DayView(cmd.Context(), owner.ID, day)
			if err != nil {
				return err
			}
			renderDay(cmd.OutOrStdout(), day, entries)
			return nil
		},
	}
}

func newTaskMonthCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "month [YYYY-MM]",
		Short: "Show per-day status counts for a month",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			owner, err := a.owner(cmd.Context())
			if err != nil {
				return err
			}
			today := a.svc.Today()
			year, month := today.Year(), today.Month()
			if len(args) == 1 {
				t, err := time.Parse("2006-01", args[0])
				if err != nil {
					return fmt.Errorf("month %q: expected YYYY-MM", args[0])
				}
				year, month = t.Year(), t.Month()
			}
			summary, err := a.svc.MonthView(cmd.Context(), owner.ID, year, month)
			if err != nil {
				return err
			}
			renderMonth(cmd.OutOrStdout(), summary)
			return nil
		},
	}
}

func newTaskToggleCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "toggle ID DATE...",
		Short: "Flip dates between pending and completed",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			days, err := model.NormalizeAll(args[1:])
			if err != nil {
				return err
			}
			task, err := a.svc.Toggle(cmd.Context(), args[0], days...)
			if err != nil {
				return err
			}
			for _, d := range model.NewDaySet(days...).Sorted() {
				fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", d, colorStatus(model.Evaluate(task, d, a.clock.Now())))
			}
			return nil
		},
	}
}

func newTaskRemoveCmd(a *app) *cobra.Command {
	var prune bool
	cmd := &cobra.Command{
		Use:   "remove ID DATE",
		Short: "Remove a date from a task",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			day, err := model.ParseDay(args[1])
			if err != nil {
				return err
			}
			task, emptied, err := a.svc.RemoveDate(cmd.Context(), args[0], day)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if !emptied {
				fmt.Fprintf(out, "removed %s from %s\n", day, task.ID)
				return nil
			}
			if !prune {
				fmt.Fprintf(out, "removed %s from %s; the task has no dates left (use --prune to delete it)\n", day, task.ID)
				return nil
			}
			if err := a.svc.Delete(cmd.Context(), task.ID); err != nil {
				return err
			}
			fmt.Fprintf(out, "deleted task %s\n", task.ID)
			return nil
		},
	}
	cmd.Flags().BoolVar(&prune, "prune", false, "delete the task when no dates remain")
	return cmd
}

func newTaskAssignCmd(a *app) *cobra.Command {
	var at string
	cmd := &cobra.Command{
		Use:   "assign ID DATE...",
		Short: "Replace a task's dates and time",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			days, err := model.NormalizeAll(args[1:])
			if err != nil {
				return err
			}
			tm, err := model.ParseOptionalTimeOfDay(at)
			if err != nil {
				return err
			}
			task, err := a.svc.AssignDates(cmd.Context(), args[0], days, tm)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: %d pending, %d completed, time %s\n",
				task.ID, task.Pending.Len(), task.Completed.Len(), task.TimeLabel())
			return nil
		},
	}
	cmd.Flags().StringVar(&at, "time", "", "deadline HH:MM (empty clears it)")
	return cmd
}

func newTaskAddDatesCmd(a *app) *cobra.Command {
	var df dateFlags
	cmd := &cobra.Command{
		Use:   "add-dates ID [DATE...]",
		Short: "Merge more dates into a task",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			days, err := df.resolve(a.svc.Today(), args[1:])
			if err != nil {
				return err
			}
			task, err := a.svc.AddDates(cmd.Context(), args[0], days)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: %d pending, %d completed\n", task.ID, task.Pending.Len(), task.Completed.Len())
			return nil
		},
	}
	df.register(cmd)
	return cmd
}

func newTaskEditCmd(a *app) *cobra.Command {
	var title, desc string
	cmd := &cobra.Command{
		Use:   "edit ID",
		Short: "Change a task's title or description",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var tp, dp *string
			if cmd.Flags().Changed("title") {
				tp = &title
			}
			if cmd.Flags().Changed("desc") {
				dp = &desc
			}
			if tp == nil && dp == nil {
				return fmt.Errorf("nothing to change: pass --title or --desc")
			}
			task, err := a.svc.UpdateDetails(cmd.Context(), args[0], tp, dp)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "updated %s: %s\n", task.ID, task.Title)
			return nil
		},
	}
	cmd.Flags().StringVar(&title, "title", "", "new title")
	cmd.Flags().StringVar(&desc, "desc", "", "new description")
	return cmd
}

func newTaskDeleteCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "delete ID",
		Short: "Delete a task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.svc.Delete(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "deleted task %s\n", args[0])
			return nil
		},
	}
}

func newTaskStatusCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "status ID DATE",
		Short: "Print the status of a task on a date",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			day, err := model.ParseDay(args[1])
			if err != nil {
				return err
			}
			status, err := a.svc.Status(cmd.Context(), args[0], day)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), status)
			return nil
		},
	}
}
