package main

import (
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/joaoVitorVallim/ToDoList/internal/model"
	"github.com/joaoVitorVallim/ToDoList/internal/scheduler"
	"github.com/joaoVitorVallim/ToDoList/internal/tasks"
)

func newTable(w io.Writer) table.Writer {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleRounded)
	t.Style().Options.SeparateRows = false
	return t
}

func header(cols ...string) table.Row {
	row := make(table.Row, 0, len(cols))
	for _, c := range cols {
		row = append(row, text.FgGreen.Sprint(c))
	}
	return row
}

func colorStatus(s model.DateStatus) string {
	switch s {
	case model.StatusPending:
		return text.FgHiYellow.Sprint(string(s))
	case model.StatusCompleted:
		return text.FgHiGreen.Sprint(string(s))
	case model.StatusFailed:
		return text.FgHiRed.Sprint(string(s))
	default:
		return string(s)
	}
}

func renderUsers(w io.Writer, users []model.User) {
	t := newTable(w)
	t.AppendHeader(header("ID", "Name", "Email", "Telegram", "Reminders", "Created"))
	for _, u := range users {
		chat := "-"
		if u.TelegramChatID != 0 {
			chat = strconv.FormatInt(u.TelegramChatID, 10)
		}
		reminders := text.FgHiRed.Sprint("off")
		if u.NotificationsEnabled {
			reminders = text.FgHiGreen.Sprint("on")
		}
		t.AppendRow(table.Row{u.ID, u.Name, u.Email, chat, reminders, u.CreatedAt.Format("2006-01-02")})
	}
	t.Render()
}

func renderTasks(w io.Writer, list []model.Task, today model.Day) {
	t := newTable(w)
	t.AppendHeader(header("ID", "Title", "Time", "Pending", "Completed", "Next"))
	for _, task := range list {
		next := "-"
		for _, d := range task.Pending.Sorted() {
			if !d.Before(today) {
				next = d.String()
				break
			}
		}
		t.AppendRow(table.Row{task.ID, task.Title, task.TimeLabel(), task.Pending.Len(), task.Completed.Len(), next})
	}
	t.AppendFooter(table.Row{"", fmt.Sprintf("%d tasks", len(list))})
	t.Render()
}

func renderTaskDays(w io.Writer, task model.Task, now time.Time) {
	t := newTable(w)
	t.AppendHeader(header("Date", "Weekday", "Status", "Notified"))
	for _, d := range task.Scheduled().Sorted() {
		notified := ""
		if task.Notified.Has(d) {
			notified = "yes"
		}
		t.AppendRow(table.Row{d.String(), d.Weekday().String()[:3], colorStatus(model.Evaluate(task, d, now)), notified})
	}
	t.Render()
}

func renderDay(w io.Writer, day model.Day, entries []tasks.DayEntry) {
	fmt.Fprintf(w, "%s (%s)\n", day, day.Weekday())
	if len(entries) == 0 {
		fmt.Fprintln(w, "no tasks scheduled")
		return
	}
	t := newTable(w)
	t.AppendHeader(header("Time", "Title", "Status", "ID"))
	for _, e := range entries {
		t.AppendRow(table.Row{e.Task.TimeLabel(), e.Task.Title, colorStatus(e.Status), e.Task.ID})
	}
	t.Render()
}

func renderMonth(w io.Writer, m tasks.MonthSummary) {
	fmt.Fprintf(w, "%s %d\n", m.Month, m.Year)
	t := newTable(w)
	t.AppendHeader(header("Date", "Pending", "Completed", "Failed"))
	var pending, completed, failed int
	for _, d := range m.Days {
		if d.Total() == 0 {
			continue
		}
		pending += d.Pending
		completed += d.Completed
		failed += d.Failed
		t.AppendRow(table.Row{d.Day.String(), d.Pending, d.Completed, d.Failed})
	}
	t.AppendFooter(table.Row{"total", pending, completed, failed})
	t.Render()
}

func renderDue(w io.Writer, due []scheduler.Due, now time.Time) {
	if len(due) == 0 {
		fmt.Fprintln(w, "no reminders due")
		return
	}
	t := newTable(w)
	t.AppendHeader(header("Task", "Title", "User", "Day", "Time", "Due"))
	for _, d := range due {
		r := d.Reminder
		t.AppendRow(table.Row{r.TaskID, r.Title, d.User.Email, r.Day.String(), r.Time.String(), humanize.RelTime(r.DeadlineAt, now, "ago", "from now")})
	}
	t.Render()
}
