package update

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/joaoVitorVallim/ToDoList/internal/notify"
)

// waitForReminderCmd blocks on the next delivery. A nil or closed channel
// ends the wait.
func waitForReminderCmd(ch <-chan notify.Delivery) tea.Cmd {
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		d, ok := <-ch
		if !ok {
			return nil
		}
		return ReminderDueMsg{Delivery: d}
	}
}

func (m *Model) onReminder(d notify.Delivery) {
	text := d.Message.Text()
	m.notify("Reminder", text, "reminder")
	m.Status = StatusBar{Text: "reminder: " + d.Message.Title}
	m.reload()
}
