package update

import (
	"errors"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/joaoVitorVallim/ToDoList/internal/model"
	"github.com/joaoVitorVallim/ToDoList/internal/views"
)

var errNoSelection = errors.New("no task selected")

func (m Model) handleDayKey(msg tea.KeyMsg) Model {
	switch msg.String() {
	case "up", "k":
		if m.Cursor > 0 {
			m.Cursor--
		}
		m.syncSelected()
	case "down", "j":
		if m.Cursor < len(m.Entries)-1 {
			m.Cursor++
		}
		m.syncSelected()
	case "h", "left":
		m.focus(m.FocusDay.AddDays(-1))
	case "l", "right":
		m.focus(m.FocusDay.AddDays(1))
	case "t":
		m.focus(m.backend.Today())
	case " ", "space":
		m.report(m.toggleSelected(m.FocusDay))
	case "x":
		m.report(m.removeSelected(m.FocusDay, false))
	}
	return m
}

// focus moves the agenda to day and reloads it.
func (m *Model) focus(day model.Day) {
	m.FocusDay = day
	m.reload()
	m.Status = StatusBar{Text: fmt.Sprintf("focus: %s", day)}
}

// toggleSelected flips day on the selected task and describes the outcome.
func (m *Model) toggleSelected(day model.Day) (string, error) {
	entry, ok := m.selectedEntry()
	if !ok {
		return "", errNoSelection
	}
	task, err := m.backend.Toggle(m.ctx, entry.Task.ID, day)
	if err != nil {
		return "", err
	}
	state := "pending"
	if task.Completed.Has(day) {
		state = "completed"
	}
	m.reload()
	return fmt.Sprintf("%s on %s: %s", task.Title, day, state), nil
}

// removeSelected drops day from the selected task. With prune, a task left
// without days is deleted.
func (m *Model) removeSelected(day model.Day, prune bool) (string, error) {
	entry, ok := m.selectedEntry()
	if !ok {
		return "", errNoSelection
	}
	task, emptied, err := m.backend.RemoveDate(m.ctx, entry.Task.ID, day)
	if err != nil {
		return "", err
	}
	text := fmt.Sprintf("removed %s from %s", day, task.Title)
	if emptied {
		if prune {
			if err := m.backend.Delete(m.ctx, task.ID); err != nil {
				return "", err
			}
			text = fmt.Sprintf("deleted %s (no dates left)", task.Title)
		} else {
			text += " (no dates left)"
		}
	}
	m.reload()
	return text, nil
}

func (m *Model) report(text string, err error) {
	if err != nil {
		m.setError(err)
		return
	}
	m.Status = StatusBar{Text: text}
}

func (m Model) renderDayView() string {
	items := make([]views.DayItemData, 0, len(m.Entries))
	for _, e := range m.Entries {
		items = append(items, views.DayItemData{
			ID:     e.Task.ID,
			Title:  e.Task.Title,
			Time:   e.Task.TimeLabel(),
			Status: string(e.Status),
		})
	}
	return views.RenderDayPanel(views.DayPanelData{
		Day:        m.FocusDay.String(),
		Weekday:    m.FocusDay.Weekday().String(),
		IsToday:    m.FocusDay == m.backend.Today(),
		ListView:   m.dayList.View(),
		Items:      items,
		SelectedID: m.SelectedID,
	})
}
