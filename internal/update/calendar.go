package update

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/joaoVitorVallim/ToDoList/internal/model"
	"github.com/joaoVitorVallim/ToDoList/internal/tasks"
	"github.com/joaoVitorVallim/ToDoList/internal/views"
)

func (m Model) handleCalendarKey(msg tea.KeyMsg) Model {
	switch msg.String() {
	case "h", "left":
		m.shiftMonth(-1)
	case "l", "right":
		m.shiftMonth(1)
	case "k", "up":
		m.focus(m.FocusDay.AddDays(-1))
	case "j", "down":
		m.focus(m.FocusDay.AddDays(1))
	case "t":
		m.focus(m.backend.Today())
	case "enter":
		m.CurrentView = ViewDay
		m.Status = StatusBar{Text: fmt.Sprintf("day: %s", m.FocusDay)}
	}
	return m
}

// shiftMonth moves focus by delta months, clamping the day of month.
func (m *Model) shiftMonth(delta int) {
	first := model.NewDay(m.FocusDay.Year(), m.FocusDay.Month()+time.Month(delta), 1)
	day := m.FocusDay.DayOfMonth()
	if last := first.LastOfMonth().DayOfMonth(); day > last {
		day = last
	}
	m.focus(model.NewDay(first.Year(), first.Month(), day))
}

// monthRows lays the month out in Monday-first weeks and reports the row of
// the focused day.
func monthRows(month tasks.MonthSummary, focus model.Day) ([]table.Row, int) {
	if len(month.Days) == 0 {
		return nil, 0
	}
	offset := (int(month.Days[0].Day.Weekday()) + 6) % 7
	var rows []table.Row
	row := make(table.Row, 7)
	cursor := 0
	col := offset
	for _, summary := range month.Days {
		row[col] = dayCell(summary, summary.Day == focus)
		if summary.Day == focus {
			cursor = len(rows)
		}
		col++
		if col == 7 {
			rows = append(rows, row)
			row = make(table.Row, 7)
			col = 0
		}
	}
	if col > 0 {
		rows = append(rows, row)
	}
	return rows, cursor
}

func dayCell(s tasks.DaySummary, focused bool) string {
	label := fmt.Sprintf("%2d", s.Day.DayOfMonth())
	if focused {
		label = "[" + label + "]"
	}
	switch {
	case s.Failed > 0:
		return label + "!"
	case s.Pending > 0:
		return label + "*"
	case s.Completed > 0:
		return label + "+"
	default:
		return label
	}
}

func (m Model) renderCalendarView() string {
	var pending, completed, failed int
	for _, d := range m.Month.Days {
		pending += d.Pending
		completed += d.Completed
		failed += d.Failed
	}
	return views.RenderCalendarPanel(views.CalendarPanelData{
		Month:     fmt.Sprintf("%s %d", m.Month.Month, m.Month.Year),
		FocusDate: m.FocusDay.String(),
		TableView: m.monthTable.View(),
		Pending:   pending,
		Completed: completed,
		Failed:    failed,
	})
}
