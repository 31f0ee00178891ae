package tui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/synapsechat/synapsechat/internal/controller"
)

const toastDuration = 4 * time.Second

// showToastMsg displays a toast notification.
type showToastMsg struct {
	notification controller.Notification
}

// dismissToastMsg removes a specific toast.
type dismissToastMsg struct {
	id string
}

type toast struct {
	id           string
	notification controller.Notification
}

// toastManager stacks short-lived notifications in the corner of the view.
type toastManager struct {
	toasts []toast
}

func (tm *toastManager) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case showToastMsg:
		t := toast{
			id:           fmt.Sprintf("toast-%d", time.Now().UnixNano()),
			notification: msg.notification,
		}
		tm.toasts = append(tm.toasts, t)
		return tea.Tick(toastDuration, func(time.Time) tea.Msg {
			return dismissToastMsg{id: t.id}
		})

	case dismissToastMsg:
		var kept []toast
		for _, t := range tm.toasts {
			if t.id != msg.id {
				kept = append(kept, t)
			}
		}
		tm.toasts = kept
	}
	return nil
}

func (tm *toastManager) View(width int) string {
	if len(tm.toasts) == 0 {
		return ""
	}

	var views []string
	for _, t := range tm.toasts {
		views = append(views, renderToast(t.notification, width))
	}
	return strings.Join(views, "\n")
}

func renderToast(n controller.Notification, width int) string {
	borderColor := colorPrimary
	switch n.Severity {
	case controller.SeverityError:
		borderColor = colorError
	case controller.SeveritySuccess:
		borderColor = colorSuccess
	}

	maxWidth := width / 3
	if maxWidth < 40 {
		maxWidth = 40
	}

	var content strings.Builder
	if n.Title != "" {
		content.WriteString(lipgloss.NewStyle().Bold(true).Foreground(borderColor).Render(n.Title))
		content.WriteString("\n")
	}
	content.WriteString(n.Message)

	return lipgloss.NewStyle().
		Padding(0, 1).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(borderColor).
		MaxWidth(maxWidth).
		Render(content.String())
}
