package update

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/joaoVitorVallim/ToDoList/internal/commands"
	"github.com/joaoVitorVallim/ToDoList/internal/model"
	"github.com/joaoVitorVallim/ToDoList/internal/tasks"
	"github.com/joaoVitorVallim/ToDoList/internal/views"
)

func (m Model) handlePaletteKey(msg tea.KeyMsg) Model {
	switch msg.String() {
	case "esc":
		m.closePalette()
		m.Status = StatusBar{Text: "command palette closed"}
	case "enter":
		m.Palette.Input = m.commandInput.Value()
		m = m.executePaletteCommand()
	default:
		if msg.Type == tea.KeyRunes {
			m.commandInput.SetValue(m.commandInput.Value() + string(msg.Runes))
			m.Palette.Input = m.commandInput.Value()
			return m
		}
		if msg.Type == tea.KeySpace {
			m.commandInput.SetValue(m.commandInput.Value() + " ")
			m.Palette.Input = m.commandInput.Value()
			return m
		}
		m.commandInput, _ = m.commandInput.Update(msg)
		m.Palette.Input = m.commandInput.Value()
	}
	return m
}

func (m *Model) closePalette() {
	m.Palette.Active = false
	m.Palette.Input = ""
	m.commandInput.SetValue("")
	m.commandInput.Blur()
}

func (m Model) executePaletteCommand() Model {
	raw := strings.TrimSpace(m.Palette.Input)
	cmd, err := commands.Parse(raw)
	if err != nil {
		m.Status = StatusBar{Text: err.Error(), IsError: true}
		m.closePalette()
		return m
	}

	res, err := commands.Execute(cmd, commands.Handlers{
		Add: func(a commands.AddArgs) (commands.Result, error) {
			task, err := m.backend.CreateTask(m.ctx, tasks.CreateInput{
				OwnerID:     m.Owner.ID,
				Title:       a.Title,
				Description: a.Description,
				Days:        []model.Day{m.FocusDay},
				Time:        a.Time,
			})
			if err != nil {
				return commands.Result{}, err
			}
			m.SelectedID = task.ID
			m.CurrentView = ViewDay
			m.reload()
			return commands.Result{Message: fmt.Sprintf("added %s on %s", task.Title, m.FocusDay)}, nil
		},
		Dates: func(d commands.DatesArgs) (commands.Result, error) {
			entry, ok := m.selectedEntry()
			if !ok {
				return commands.Result{}, errNoSelection
			}
			var days []model.Day
			switch d.Mode {
			case commands.DatesRange:
				r, err := model.GenerateRange(d.From, d.To)
				if err != nil {
					return commands.Result{}, err
				}
				days = r
			case commands.DatesMonth:
				days = model.MonthRemainder(m.FocusDay)
			case commands.DatesYear:
				days = model.YearRemainder(m.FocusDay)
			default:
				days = d.Days
			}
			task, err := m.backend.AddDates(m.ctx, entry.Task.ID, days)
			if err != nil {
				return commands.Result{}, err
			}
			m.reload()
			return commands.Result{Message: fmt.Sprintf("%s now has %d date(s)", task.Title, task.Scheduled().Len())}, nil
		},
		Toggle: func(d commands.DayArgs) (commands.Result, error) {
			text, err := m.toggleSelected(m.targetDay(d))
			return commands.Result{Message: text}, err
		},
		Remove: func(d commands.DayArgs) (commands.Result, error) {
			text, err := m.removeSelected(m.targetDay(d), d.Prune)
			return commands.Result{Message: text}, err
		},
		Time: func(t commands.TimeArgs) (commands.Result, error) {
			entry, ok := m.selectedEntry()
			if !ok {
				return commands.Result{}, errNoSelection
			}
			task, err := m.backend.SetTime(m.ctx, entry.Task.ID, t.Time)
			if err != nil {
				return commands.Result{}, err
			}
			m.reload()
			return commands.Result{Message: fmt.Sprintf("%s time: %s", task.Title, task.TimeLabel())}, nil
		},
		Goto: func(g commands.GotoArgs) (commands.Result, error) {
			day := g.Day
			if g.Today {
				day = m.backend.Today()
			}
			m.focus(day)
			return commands.Result{Message: fmt.Sprintf("focus: %s", day)}, nil
		},
	})
	if err != nil {
		m.Status = StatusBar{Text: err.Error(), IsError: true}
		m.notify("Command Failed", err.Error(), "error")
	} else {
		m.Status = StatusBar{Text: res.Message}
		m.notify("Command", res.Message, "info")
	}

	m.closePalette()
	return m
}

func (m Model) targetDay(d commands.DayArgs) model.Day {
	if d.Day != nil {
		return *d.Day
	}
	return m.FocusDay
}

func (m Model) renderCommandPalette() string {
	return views.RenderCommandPalette(m.Palette.Active, m.Palette.Input)
}
