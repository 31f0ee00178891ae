package tui

import (
	"fmt"
	"io"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/synapsechat/synapsechat/internal/model"
)

// switchSessionMsg asks the app to switch to a session.
type switchSessionMsg struct {
	sessionID string
}

// deleteSessionMsg asks the app to delete a session.
type deleteSessionMsg struct {
	sessionID string
}

// sessionItem adapts a SessionSummary for the bubbles list.
type sessionItem struct {
	summary model.SessionSummary
	current bool
}

func (i sessionItem) FilterValue() string { return i.summary.Title }

func (i sessionItem) description() string {
	return fmt.Sprintf("%d messages · %s",
		i.summary.MessageCount,
		i.summary.UpdatedAt.Format("Jan 2, 15:04"))
}

// sessionDelegate renders session entries.
type sessionDelegate struct{}

func (d sessionDelegate) Height() int                             { return 2 }
func (d sessionDelegate) Spacing() int                            { return 1 }
func (d sessionDelegate) Update(tea.Msg, *list.Model) tea.Cmd     { return nil }
func (d sessionDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	i, ok := item.(sessionItem)
	if !ok {
		return
	}

	title := i.summary.Title
	if title == "" {
		title = "New Chat"
	}

	titleStyle := lipgloss.NewStyle()
	if i.current {
		titleStyle = titleStyle.Bold(true).Foreground(colorPrimary)
	}
	if index == m.Index() {
		titleStyle = titleStyle.Underline(true)
	}

	fmt.Fprintf(w, "%s\n%s",
		titleStyle.Render(truncate(title, m.Width()-2)),
		statusStyle.Render(truncate(i.description(), m.Width()-2)))
}

// sessionsPanel is the session sidebar.
type sessionsPanel struct {
	list      list.Model
	currentID string
	focused   bool
}

func newSessionsPanel() sessionsPanel {
	l := list.New(nil, sessionDelegate{}, 0, 0)
	l.Title = "Sessions"
	l.SetShowStatusBar(false)
	l.SetShowHelp(false)
	l.SetFilteringEnabled(false)
	l.Styles.Title = titleStyle

	return sessionsPanel{list: l}
}

// setSessions replaces the entries, keeping the active session marked.
func (p *sessionsPanel) setSessions(sessions []model.SessionSummary, currentID string) {
	p.currentID = currentID
	items := make([]list.Item, len(sessions))
	for i, s := range sessions {
		items[i] = sessionItem{summary: s, current: s.SessionID == currentID}
	}
	p.list.SetItems(items)
}

func (p *sessionsPanel) setSize(width, height int) {
	p.list.SetSize(width, height)
}

func (p *sessionsPanel) update(msg tea.Msg) tea.Cmd {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && p.focused {
		switch {
		case key.Matches(keyMsg, sessionKeys.Select):
			if i, ok := p.list.SelectedItem().(sessionItem); ok {
				id := i.summary.SessionID
				return func() tea.Msg {
					return switchSessionMsg{sessionID: id}
				}
			}
			return nil

		case key.Matches(keyMsg, sessionKeys.Delete):
			if i, ok := p.list.SelectedItem().(sessionItem); ok {
				id := i.summary.SessionID
				return func() tea.Msg {
					return deleteSessionMsg{sessionID: id}
				}
			}
			return nil
		}
	}

	var cmd tea.Cmd
	if p.focused {
		p.list, cmd = p.list.Update(msg)
	}
	return cmd
}

func (p *sessionsPanel) view() string {
	return p.list.View()
}

func truncate(s string, max int) string {
	if max <= 0 || len(s) <= max {
		return s
	}
	if max <= 1 {
		return s[:max]
	}
	return s[:max-1] + "…"
}
