// Package tui implements the interactive chat interface. It is
// presentation only: every state change flows through the controller's
// protocols, and the view re-renders from controller snapshots.
package tui

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/synapsechat/synapsechat/internal/controller"
	"github.com/synapsechat/synapsechat/internal/export"
)

// StateChangedMsg signals that the controller's state changed and the view
// should re-render from a fresh snapshot.
type StateChangedMsg struct{}

// NotificationMsg carries a controller notification into the UI.
type NotificationMsg struct {
	Notification controller.Notification
}

const (
	focusEditor = iota
	focusSessions
)

// Model is the root bubbletea model.
type Model struct {
	ctrl *controller.Controller

	transcript transcriptPanel
	editor     textarea.Model
	sessions   sessionsPanel
	spinner    spinner.Model
	toasts     toastManager

	width       int
	height      int
	showSidebar bool
	focus       int

	state controller.State
}

// New creates the chat UI over the given controller.
func New(ctrl *controller.Controller) *Model {
	ta := textarea.New()
	ta.Placeholder = "Ask a neurosurgery question..."
	ta.ShowLineNumbers = false
	ta.SetHeight(3)
	ta.Focus()

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(colorPrimary)

	return &Model{
		ctrl:        ctrl,
		transcript:  newTranscriptPanel(),
		editor:      ta,
		sessions:    newSessionsPanel(),
		spinner:     sp,
		showSidebar: true,
	}
}

func (m *Model) Init() tea.Cmd {
	return tea.Batch(
		m.spinner.Tick,
		textarea.Blink,
		func() tea.Msg {
			m.ctrl.Initialize(context.Background())
			return nil
		},
	)
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.layout()
		m.refresh()
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Quit):
			return m, tea.Quit

		case key.Matches(msg, keys.NewChat):
			m.ctrl.NewChat()
			return m, nil

		case key.Matches(msg, keys.ToggleSidebar):
			m.showSidebar = !m.showSidebar
			if !m.showSidebar && m.focus == focusSessions {
				m.setFocus(focusEditor)
			}
			m.layout()
			return m, nil

		case key.Matches(msg, keys.FocusNext):
			if m.showSidebar {
				if m.focus == focusEditor {
					m.setFocus(focusSessions)
				} else {
					m.setFocus(focusEditor)
				}
			}
			return m, nil

		case key.Matches(msg, keys.Export):
			return m, m.exportChat()

		case key.Matches(msg, keys.Submit) && m.focus == focusEditor:
			return m, m.submit()
		}

	case StateChangedMsg:
		m.refresh()
		return m, nil

	case NotificationMsg:
		return m, m.toasts.Update(showToastMsg{notification: msg.Notification})

	case dismissToastMsg:
		return m, m.toasts.Update(msg)

	case switchSessionMsg:
		id := msg.sessionID
		return m, func() tea.Msg {
			m.ctrl.SwitchSession(context.Background(), id)
			return nil
		}

	case deleteSessionMsg:
		id := msg.sessionID
		return m, func() tea.Msg {
			m.ctrl.DeleteSession(context.Background(), id)
			return nil
		}

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		if m.state.LoadingMessage || m.state.LoadingHistory {
			m.transcript.setMessages(m.state.Messages, m.state.LoadingMessage, m.spinner.View())
		}
		return m, cmd
	}

	// Route everything else to the focused component.
	switch m.focus {
	case focusEditor:
		var cmd tea.Cmd
		m.editor, cmd = m.editor.Update(msg)
		cmds = append(cmds, cmd)
	case focusSessions:
		cmds = append(cmds, m.sessions.update(msg))
	}

	return m, tea.Batch(cmds...)
}

// submit dispatches the editor's content through the controller.
func (m *Model) submit() tea.Cmd {
	if m.state.LoadingMessage {
		return nil
	}
	q := m.editor.Value()
	m.editor.Reset()

	return func() tea.Msg {
		m.ctrl.Submit(context.Background(), q)
		return nil
	}
}

// exportChat writes the current transcript next to the working directory.
func (m *Model) exportChat() tea.Cmd {
	state := m.ctrl.Snapshot()
	return func() tea.Msg {
		exporter, err := export.NewExporter("txt")
		if err != nil {
			return NotificationMsg{Notification: controller.Notification{
				Severity: controller.SeverityError,
				Title:    "Export failed",
				Message:  err.Error(),
			}}
		}

		name := fmt.Sprintf("synapse-chat-export-%s.%s",
			time.Now().Format("2006-01-02T15-04-05"), exporter.Extension())
		path := filepath.Join(".", name)

		f, err := os.Create(path)
		if err != nil {
			return NotificationMsg{Notification: controller.Notification{
				Severity: controller.SeverityError,
				Title:    "Export failed",
				Message:  err.Error(),
			}}
		}
		defer f.Close()

		t := export.Transcript{SessionID: state.SessionID, Messages: state.Messages}
		if err := exporter.Export(t, f); err != nil {
			os.Remove(path)
			if err == export.ErrEmptyTranscript {
				return NotificationMsg{Notification: controller.Notification{
					Severity: controller.SeverityError,
					Title:    "Cannot export empty chat",
					Message:  "Please ask some questions before exporting.",
				}}
			}
			return NotificationMsg{Notification: controller.Notification{
				Severity: controller.SeverityError,
				Title:    "Export failed",
				Message:  err.Error(),
			}}
		}

		return NotificationMsg{Notification: controller.Notification{
			Severity: controller.SeveritySuccess,
			Title:    "Chat exported",
			Message:  "Saved to " + name,
		}}
	}
}

// refresh re-renders panels from a fresh controller snapshot.
func (m *Model) refresh() {
	m.state = m.ctrl.Snapshot()
	m.transcript.setMessages(m.state.Messages, m.state.LoadingMessage, m.spinner.View())
	m.sessions.setSessions(m.state.Sessions, m.state.SessionID)
}

func (m *Model) setFocus(target int) {
	m.focus = target
	m.sessions.focused = target == focusSessions
	if target == focusEditor {
		m.editor.Focus()
	} else {
		m.editor.Blur()
	}
}

func (m *Model) layout() {
	sidebarWidth := 0
	if m.showSidebar {
		sidebarWidth = m.width / 4
		if sidebarWidth < 24 {
			sidebarWidth = 24
		}
	}

	editorHeight := 4
	statusHeight := 1
	mainWidth := m.width - sidebarWidth
	transcriptHeight := m.height - editorHeight - statusHeight - 1

	m.transcript.setSize(mainWidth-2, transcriptHeight)
	m.editor.SetWidth(mainWidth - 2)
	m.sessions.setSize(sidebarWidth-2, m.height-2)
}

func (m *Model) View() string {
	status := m.statusLine()

	main := lipgloss.JoinVertical(lipgloss.Left,
		m.transcript.view(),
		editorStyle.Width(m.width-m.sidebarWidth()).Render(m.editor.View()),
		status,
	)

	var view string
	if m.showSidebar {
		sidebar := sidebarStyle.Height(m.height).Render(m.sessions.view())
		view = lipgloss.JoinHorizontal(lipgloss.Top, sidebar, main)
	} else {
		view = main
	}

	if toasts := m.toasts.View(m.width); toasts != "" {
		view = lipgloss.JoinVertical(lipgloss.Left, toasts, view)
	}
	return view
}

func (m *Model) sidebarWidth() int {
	if !m.showSidebar {
		return 0
	}
	w := m.width / 4
	if w < 24 {
		w = 24
	}
	return w
}

func (m *Model) statusLine() string {
	parts := "enter send · tab focus · ctrl+n new · ctrl+s sessions · ctrl+e export · ctrl+c quit"
	if m.state.LoadingHistory {
		parts = m.spinner.View() + " loading history · " + parts
	}
	return statusStyle.Render(parts)
}
