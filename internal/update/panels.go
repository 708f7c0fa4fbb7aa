package update

import (
	"strings"
	"time"

	"github.com/joaoVitorVallim/ToDoList/internal/views"
)

const maxNotifications = 40

func (m Model) renderNotificationsView() string {
	if len(m.Notifications) == 0 {
		return ""
	}
	n := m.Notifications[len(m.Notifications)-1]
	return views.RenderNotification(n.Level, n.Body)
}

func (m Model) renderTaskDetail() string {
	entry, ok := m.selectedEntry()
	if !ok {
		return views.RenderTaskDetail(views.TaskDetailData{})
	}
	return views.RenderTaskDetail(views.TaskDetailData{
		ID:        entry.Task.ID,
		Title:     entry.Task.Title,
		Time:      entry.Task.TimeLabel(),
		Pending:   entry.Task.Pending.Strings(),
		Completed: entry.Task.Completed.Strings(),
		Markdown:  m.detailViewport.View(),
	})
}

func (m *Model) notify(title, body, level string) {
	if strings.TrimSpace(body) == "" {
		return
	}
	m.Notifications = append(m.Notifications, Notification{
		Title: title,
		Body:  body,
		Level: level,
		At:    time.Now().UTC(),
	})
	if len(m.Notifications) > maxNotifications {
		m.Notifications = m.Notifications[len(m.Notifications)-maxNotifications:]
	}
}
