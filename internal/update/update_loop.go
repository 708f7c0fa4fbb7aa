package update

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/joaoVitorVallim/ToDoList/internal/views"
)

// refreshEvery re-evaluates statuses so tasks turn failed while the UI is idle.
const refreshEvery = time.Minute

func (m Model) Init() tea.Cmd {
	return tea.Batch(waitForReminderCmd(m.reminders), refreshTickCmd())
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	next, cmd := m.update(msg)
	next.syncBubbleData()
	return next, cmd
}

func (m Model) update(msg tea.Msg) (Model, tea.Cmd) {
	switch typed := msg.(type) {
	case tea.KeyMsg:
		if m.Palette.Active {
			if typed.String() == m.Keys.Help {
				m.HelpVisible = !m.HelpVisible
				return m, nil
			}
			return m.handlePaletteKey(typed), nil
		}

		switch typed.String() {
		case "/":
			m.Palette.Active = true
			m.Palette.Input = ""
			m.commandInput.Focus()
			m.commandInput.SetValue("")
			m.Status = StatusBar{Text: "command palette active"}
			return m, nil
		case m.Keys.Day:
			m.CurrentView = ViewDay
			return m, nil
		case m.Keys.Calendar:
			m.CurrentView = ViewCalendar
			return m, nil
		case m.Keys.Help:
			m.HelpVisible = !m.HelpVisible
			if m.HelpVisible {
				m.Status = StatusBar{Text: "help shown"}
			} else {
				m.Status = StatusBar{Text: "help hidden"}
			}
			return m, nil
		case "ctrl+c", m.Keys.Quit:
			m.Quitting = true
			return m, tea.Quit
		}
		switch m.CurrentView {
		case ViewDay:
			return m.handleDayKey(typed), nil
		case ViewCalendar:
			return m.handleCalendarKey(typed), nil
		}
	case SwitchViewMsg:
		if isKnownView(typed.View) {
			m.CurrentView = typed.View
		}
		return m, nil
	case SetStatusMsg:
		m.Status = StatusBar{Text: typed.Text, IsError: typed.IsError}
		m.notify("Status", typed.Text, levelFromError(typed.IsError))
		return m, nil
	case ClearStatusMsg:
		m.Status = StatusBar{}
		return m, nil
	case AppErrorMsg:
		if typed.Err != nil {
			m.setError(typed.Err)
		}
		return m, nil
	case RefreshMsg:
		m.reload()
		return m, refreshTickCmd()
	case ReminderDueMsg:
		m.onReminder(typed.Delivery)
		return m, waitForReminderCmd(m.reminders)
	}
	return m, nil
}

func (m Model) View() string {
	if m.Quitting {
		return ""
	}
	status := ""
	if m.Status.Text != "" {
		if m.Status.IsError {
			status = fmt.Sprintf("status: error: %s", m.Status.Text)
		} else {
			status = fmt.Sprintf("status: %s", m.Status.Text)
		}
	}
	leftPane := ""
	switch m.CurrentView {
	case ViewDay:
		leftPane = m.renderDayView()
	case ViewCalendar:
		leftPane = m.renderCalendarView()
	}
	rightPane := strings.TrimSpace(strings.Join([]string{
		m.renderTaskDetail(),
		m.renderCommandPalette(),
		m.renderHelpIfVisible(),
	}, "\n\n"))

	owner := m.Owner.Name
	if owner == "" {
		owner = m.Owner.ID
	}
	return views.RenderApp(views.AppData{
		Header:        fmt.Sprintf("todolist | %s | view: %s | day: %s", owner, m.CurrentView, m.FocusDay),
		LeftPane:      leftPane,
		RightPane:     rightPane,
		StatusLine:    status,
		StatusIsError: m.Status.IsError,
		Notification:  m.renderNotificationsView(),
		Footer:        fmt.Sprintf("keys: %s day | %s cal | / cmd | %s help | %s quit", m.Keys.Day, m.Keys.Calendar, m.Keys.Help, m.Keys.Quit),
	})
}

func isKnownView(v View) bool {
	switch v {
	case ViewDay, ViewCalendar:
		return true
	default:
		return false
	}
}

func levelFromError(isErr bool) string {
	if isErr {
		return "error"
	}
	return "info"
}

func refreshTickCmd() tea.Cmd {
	return tea.Tick(refreshEvery, func(time.Time) tea.Msg { return RefreshMsg{} })
}
