package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	"github.com/charmbracelet/glamour"

	"github.com/synapsechat/synapsechat/internal/model"
)

// transcriptPanel renders the message history in a scrolling viewport.
// Assistant answers pass through glamour so markdown-ish content reads
// well; user messages stay plain.
type transcriptPanel struct {
	viewport viewport.Model
	renderer *glamour.TermRenderer
	width    int
}

func newTranscriptPanel() transcriptPanel {
	return transcriptPanel{viewport: viewport.New(0, 0)}
}

func (p *transcriptPanel) setSize(width, height int) {
	p.viewport.Width = width
	p.viewport.Height = height
	if width != p.width {
		p.width = width
		// Renderer wrap width follows the panel; rebuild lazily.
		p.renderer = nil
	}
}

// setMessages re-renders the transcript and scrolls to the bottom.
func (p *transcriptPanel) setMessages(messages []model.Message, thinking bool, spinnerView string) {
	var b strings.Builder

	if len(messages) == 0 && !thinking {
		b.WriteString(statusStyle.Render("Ask a neurosurgery question to get started."))
	}

	for i, msg := range messages {
		if i > 0 {
			b.WriteString("\n")
		}
		switch msg.Role {
		case model.RoleUser:
			b.WriteString(userLabelStyle.Render("You"))
			b.WriteString("\n")
			b.WriteString(msg.Content)
			b.WriteString("\n")
		case model.RoleAssistant:
			b.WriteString(assistantLabelStyle.Render("SynapseChat"))
			b.WriteString("\n")
			b.WriteString(p.renderMarkdown(msg.Content))
			if msg.Source != "" {
				b.WriteString(sourceStyle.Render("Source: " + msg.Source))
				b.WriteString("\n")
			}
		}
	}

	if thinking {
		b.WriteString("\n")
		b.WriteString(spinnerView)
		b.WriteString(statusStyle.Render(" Thinking..."))
	}

	p.viewport.SetContent(b.String())
	p.viewport.GotoBottom()
}

func (p *transcriptPanel) renderMarkdown(content string) string {
	if p.renderer == nil {
		wrap := p.width - 2
		if wrap < 20 {
			wrap = 20
		}
		r, err := glamour.NewTermRenderer(
			glamour.WithAutoStyle(),
			glamour.WithWordWrap(wrap),
		)
		if err != nil {
			return content + "\n"
		}
		p.renderer = r
	}

	out, err := p.renderer.Render(content)
	if err != nil {
		return content + "\n"
	}
	return out
}

func (p *transcriptPanel) view() string {
	return p.viewport.View()
}
