package views

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

type DayItemData struct {
	ID     string
	Title  string
	Time   string
	Status string
}

type DayPanelData struct {
	Day        string
	Weekday    string
	IsToday    bool
	ListView   string
	Items      []DayItemData
	SelectedID string
}

type CalendarPanelData struct {
	Month     string
	FocusDate string
	TableView string
	Pending   int
	Completed int
	Failed    int
}

type TaskDetailData struct {
	ID        string
	Title     string
	Time      string
	Pending   []string
	Completed []string
	Markdown  string
}

type HelpPanelData struct {
	CurrentView string
	Bindings    []string
	HelpView    string
}

var (
	pendingBadge   = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	completedBadge = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	failedBadge    = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
	mutedStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

// StatusBadge colors a date status label.
func StatusBadge(status string) string {
	label := "[" + strings.ToUpper(status) + "]"
	switch strings.ToLower(status) {
	case "completed":
		return completedBadge.Render(label)
	case "failed":
		return failedBadge.Render(label)
	default:
		return pendingBadge.Render(label)
	}
}

func RenderDayPanel(data DayPanelData) string {
	var b strings.Builder
	title := fmt.Sprintf("day: %s (%s)", data.Day, data.Weekday)
	if data.IsToday {
		title += " today"
	}
	b.WriteString(title + "\n")
	b.WriteString("actions: [j/k]move [space]toggle [x]remove [h/l]day [t]today\n")
	if len(data.Items) == 0 {
		b.WriteString(mutedStyle.Render("(no tasks scheduled)"))
		return b.String()
	}
	b.WriteString(data.ListView + "\n")
	for _, item := range data.Items {
		cursor := " "
		if item.ID == data.SelectedID {
			cursor = ">"
		}
		b.WriteString(fmt.Sprintf("%s %s %s %s\n", cursor, item.Time, StatusBadge(item.Status), item.Title))
	}
	return strings.TrimSpace(b.String())
}

func RenderCalendarPanel(data CalendarPanelData) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("calendar: %s | focus: %s\n", data.Month, data.FocusDate))
	b.WriteString("actions: [h/l]month [j/k]day [enter]open day\n")
	b.WriteString(data.TableView + "\n")
	b.WriteString(fmt.Sprintf("%s %d  %s %d  %s %d\n",
		StatusBadge("pending"), data.Pending,
		StatusBadge("completed"), data.Completed,
		StatusBadge("failed"), data.Failed,
	))
	b.WriteString(mutedStyle.Render("legend: * pending  ! failed  + all done  [dd] focus"))
	return strings.TrimSpace(b.String())
}

func RenderTaskDetail(data TaskDetailData) string {
	if strings.TrimSpace(data.ID) == "" {
		return "task:\n(no selection)"
	}
	return fmt.Sprintf("task: %s\nid: %s\ntime: %s\npending: %s\ncompleted: %s\n\n%s",
		data.Title,
		data.ID,
		data.Time,
		joinOrDash(data.Pending),
		joinOrDash(data.Completed),
		data.Markdown,
	)
}

func RenderCommandPalette(active bool, input string) string {
	if !active {
		return ""
	}
	return fmt.Sprintf("command: /%s", input)
}

func RenderNotification(level string, body string) string {
	if strings.TrimSpace(body) == "" {
		return ""
	}
	return fmt.Sprintf("notification: [%s] %s", strings.ToUpper(level), body)
}

func RenderHelpPanel(data HelpPanelData) string {
	return fmt.Sprintf("help:\n%s view:\n%s\n%s",
		strings.ToLower(data.CurrentView),
		strings.Join(data.Bindings, "\n"),
		data.HelpView,
	)
}

func joinOrDash(items []string) string {
	if len(items) == 0 {
		return "-"
	}
	const max = 6
	if len(items) > max {
		return strings.Join(items[:max], ", ") + fmt.Sprintf(" (+%d)", len(items)-max)
	}
	return strings.Join(items, ", ")
}
