package update

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"

	"github.com/joaoVitorVallim/ToDoList/internal/views"
)

func bind(keys, label, desc string) key.Binding {
	return key.NewBinding(key.WithKeys(keys), key.WithHelp(label, desc))
}

var (
	dayBindings = []key.Binding{
		bind("j", "j/k", "move selection"),
		bind(" ", "space", "toggle selected task on this day"),
		bind("x", "x", "remove this day from selected task"),
		bind("h", "h/l", "previous/next day"),
		bind("t", "t", "jump to today"),
	}
	calendarBindings = []key.Binding{
		bind("h", "h/l", "previous/next month"),
		bind("j", "j/k", "next/previous day"),
		bind("enter", "enter", "open focused day"),
	}
)

// helpKeyMap feeds the bubbles help model: the short view lists global
// keys, the full view adds the current view's keys.
type helpKeyMap struct {
	global []key.Binding
	view   []key.Binding
}

func (k helpKeyMap) ShortHelp() []key.Binding { return k.global }
func (k helpKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.global, k.view}
}

func (m Model) keyMap() helpKeyMap {
	global := []key.Binding{
		bind(m.Keys.Day, m.Keys.Day, "day"),
		bind(m.Keys.Calendar, m.Keys.Calendar, "calendar"),
		bind("/", "/", "command"),
		bind(m.Keys.Help, m.Keys.Help, "help"),
		bind(m.Keys.Quit, m.Keys.Quit, "quit"),
	}
	var view []key.Binding
	switch m.CurrentView {
	case ViewDay:
		view = dayBindings
	case ViewCalendar:
		view = calendarBindings
	}
	return helpKeyMap{global: global, view: view}
}

func (m Model) renderHelpIfVisible() string {
	if !m.HelpVisible {
		return ""
	}
	km := m.keyMap()
	lines := make([]string, 0, len(km.view))
	for _, b := range km.view {
		h := b.Help()
		lines = append(lines, fmt.Sprintf("- %s: %s", h.Key, h.Desc))
	}
	return views.RenderHelpPanel(views.HelpPanelData{
		CurrentView: string(m.CurrentView),
		Bindings:    lines,
		HelpView:    m.helpModel.View(km),
	})
}
