package update

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"

	"github.com/joaoVitorVallim/ToDoList/internal/views"
)

const detailWidth = views.DefaultPaneWidth - 4

func (m *Model) initBubbleComponents() {
	m.dayList = list.New([]list.Item{}, list.NewDefaultDelegate(), 56, 12)
	m.dayList.Title = "Agenda"
	m.dayList.SetShowHelp(false)
	m.dayList.SetFilteringEnabled(false)

	cols := make([]table.Column, 0, 7)
	for _, name := range []string{"Mon", "Tue", "Wed", "Thu", "Fri", "Sat", "Sun"} {
		cols = append(cols, table.Column{Title: name, Width: 6})
	}
	m.monthTable = table.New(table.WithColumns(cols), table.WithRows([]table.Row{}), table.WithFocused(true), table.WithHeight(7))

	m.commandInput = textinput.New()
	m.commandInput.Prompt = "/"
	m.commandInput.CharLimit = 256
	m.commandInput.Width = 48

	m.helpModel = help.New()
	m.detailViewport = viewport.New(detailWidth, 12)
}

func (m *Model) syncBubbleData() {
	items := make([]list.Item, 0, len(m.Entries))
	for _, e := range m.Entries {
		items = append(items, listItem{
			title:       fmt.Sprintf("%s %s", e.Task.TimeLabel(), e.Task.Title),
			description: string(e.Status),
		})
	}
	m.dayList.SetItems(items)
	if len(items) > 0 {
		m.dayList.Select(m.Cursor)
	}

	rows, cursorRow := monthRows(m.Month, m.FocusDay)
	m.monthTable.SetRows(rows)
	if len(rows) > 0 {
		m.monthTable.SetCursor(cursorRow)
	}

	m.commandInput.SetValue(m.Palette.Input)
	if m.Palette.Active {
		m.commandInput.Focus()
	} else {
		m.commandInput.Blur()
	}

	if e, ok := m.selectedEntry(); ok {
		md := e.Task.Description
		if strings.TrimSpace(md) == "" {
			md = "_No description_"
		}
		m.detailViewport.SetContent(views.RenderMarkdown(md, detailWidth))
	} else {
		m.detailViewport.SetContent("")
	}
}
