package update

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"

	"github.com/joaoVitorVallim/ToDoList/internal/model"
	"github.com/joaoVitorVallim/ToDoList/internal/notify"
	"github.com/joaoVitorVallim/ToDoList/internal/tasks"
)

type View string

const (
	ViewDay      View = "Day"
	ViewCalendar View = "Calendar"
)

// Backend is the task service as seen by the TUI.
type Backend interface {
	Today() model.Day
	DayView(ctx context.Context, ownerID string, day model.Day) ([]tasks.DayEntry, error)
	MonthView(ctx context.Context, ownerID string, year int, month time.Month) (tasks.MonthSummary, error)
	CreateTask(ctx context.Context, in tasks.CreateInput) (model.Task, error)
	Toggle(ctx context.Context, id string, days ...model.Day) (model.Task, error)
	RemoveDate(ctx context.Context, id string, day model.Day) (model.Task, bool, error)
	Delete(ctx context.Context, id string) error
	AddDates(ctx context.Context, id string, days []model.Day) (model.Task, error)
	SetTime(ctx context.Context, id string, t *model.TimeOfDay) (model.Task, error)
}

type StatusBar struct {
	Text    string
	IsError bool
}

type GlobalKeyMap struct {
	Day      string
	Calendar string
	Help     string
	Quit     string
}

type CommandPaletteState struct {
	Active bool
	Input  string
}

type Notification struct {
	Title string
	Body  string
	Level string
	At    time.Time
}

type Model struct {
	CurrentView   View
	Owner         model.User
	FocusDay      model.Day
	Entries       []tasks.DayEntry
	Cursor        int
	SelectedID    string
	Month         tasks.MonthSummary
	Palette       CommandPaletteState
	HelpVisible   bool
	Notifications []Notification
	Status        StatusBar
	Keys          GlobalKeyMap
	Quitting      bool
	LastError     error

	ctx       context.Context
	backend   Backend
	reminders <-chan notify.Delivery

	dayList        list.Model
	monthTable     table.Model
	commandInput   textinput.Model
	helpModel      help.Model
	detailViewport viewport.Model
}

type listItem struct {
	title       string
	description string
}

func (i listItem) FilterValue() string { return i.title + " " + i.description }
func (i listItem) Title() string       { return i.title }
func (i listItem) Description() string { return i.description }

type SwitchViewMsg struct {
	View View
}

type SetStatusMsg struct {
	Text    string
	IsError bool
}

type ClearStatusMsg struct{}

type AppErrorMsg struct {
	Err error
}

// RefreshMsg reloads the day and month views from the backend.
type RefreshMsg struct{}

type ReminderDueMsg struct {
	Delivery notify.Delivery
}

// NewModel builds the TUI for owner. reminders may be nil when no scheduler
// runs alongside the UI.
func NewModel(ctx context.Context, backend Backend, owner model.User, reminders <-chan notify.Delivery) Model {
	if ctx == nil {
		ctx = context.Background()
	}
	m := Model{
		CurrentView: ViewDay,
		Owner:       owner,
		FocusDay:    backend.Today(),
		ctx:         ctx,
		backend:     backend,
		reminders:   reminders,
		Keys: GlobalKeyMap{
			Day:      "1",
			Calendar: "2",
			Help:     "?",
			Quit:     "q",
		},
	}
	m.initBubbleComponents()
	m.reload()
	m.syncBubbleData()
	return m
}

func (m Model) selectedEntry() (tasks.DayEntry, bool) {
	if m.Cursor < 0 || m.Cursor >= len(m.Entries) {
		return tasks.DayEntry{}, false
	}
	return m.Entries[m.Cursor], true
}

// reload fetches the focused day and its month, keeping the selection on
// the same task when it is still listed.
func (m *Model) reload() {
	entries, err := m.backend.DayView(m.ctx, m.Owner.ID, m.FocusDay)
	if err != nil {
		m.setError(err)
		return
	}
	m.Entries = entries
	m.Cursor = 0
	for i, e := range entries {
		if e.Task.ID == m.SelectedID {
			m.Cursor = i
			break
		}
	}
	m.syncSelected()

	month, err := m.backend.MonthView(m.ctx, m.Owner.ID, m.FocusDay.Year(), m.FocusDay.Month())
	if err != nil {
		m.setError(err)
		return
	}
	m.Month = month
}

func (m *Model) syncSelected() {
	if e, ok := m.selectedEntry(); ok {
		m.SelectedID = e.Task.ID
		return
	}
	m.SelectedID = ""
}

func (m *Model) setError(err error) {
	m.LastError = err
	m.Status = StatusBar{Text: err.Error(), IsError: true}
	m.notify("Error", err.Error(), "error")
}
