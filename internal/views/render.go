package views

import (
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
)

// DefaultPaneWidth fits two panes side by side in a 120 column terminal.
const DefaultPaneWidth = 58

type AppData struct {
	Header        string
	LeftPane      string
	RightPane     string
	StatusLine    string
	StatusIsError bool
	Notification  string
	Footer        string
	PaneWidth     int
}

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	statusStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	panelStyle  = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	noticeStyle = panelStyle.BorderForeground(lipgloss.Color("11"))
	footerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

// RenderApp lays out the header, the agenda and detail panes, then the
// status, notification and footer lines.
func RenderApp(data AppData) string {
	width := data.PaneWidth
	if width <= 0 {
		width = DefaultPaneWidth
	}
	panes := []string{panelStyle.Width(width).Render(data.LeftPane)}
	if strings.TrimSpace(data.RightPane) != "" {
		panes = append(panes, panelStyle.Width(width).Render(data.RightPane))
	}

	lines := []string{
		headerStyle.Render(data.Header),
		lipgloss.JoinHorizontal(lipgloss.Top, panes...),
	}
	if data.StatusLine != "" {
		style := statusStyle
		if data.StatusIsError {
			style = errorStyle
		}
		lines = append(lines, style.Render(data.StatusLine))
	}
	if data.Notification != "" {
		lines = append(lines, noticeStyle.Width(width*2).Render(data.Notification))
	}
	if data.Footer != "" {
		lines = append(lines, footerStyle.Render(data.Footer))
	}
	return strings.Join(lines, "\n")
}

// RenderMarkdown renders a task description for the terminal, wrapped at
// width columns. Input that fails to render is returned as is.
func RenderMarkdown(md string, width int) string {
	if strings.TrimSpace(md) == "" {
		return ""
	}
	opts := []glamour.TermRendererOption{glamour.WithStandardStyle("dark")}
	if width > 0 {
		opts = append(opts, glamour.WithWordWrap(width))
	}
	r, err := glamour.NewTermRenderer(opts...)
	if err != nil {
		return md
	}
	out, err := r.Render(md)
	if err != nil {
		return md
	}
	return strings.TrimSpace(out)
}
