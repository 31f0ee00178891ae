package export

import (
	"fmt"
	"io"

	"github.com/synapsechat/synapsechat/internal/model"
)

// MarkdownExporter writes transcripts as Markdown.
type MarkdownExporter struct{}

// Export writes the transcript as a Markdown document.
func (e *MarkdownExporter) Export(t Transcript, w io.Writer) error {
	if len(t.Messages) == 0 {
		return ErrEmptyTranscript
	}

	if _, err := fmt.Fprintf(w, "# SynapseChat transcript\n\n**Session:** %s  \n**Messages:** %d\n\n---\n\n", t.SessionID, len(t.Messages)); err != nil {
		return err
	}

	for _, msg := range t.Messages {
		heading := "You"
		if msg.Role == model.RoleAssistant {
			heading = "SynapseChat"
		}

		if _, err := fmt.Fprintf(w, "**%s:**\n\n%s\n\n", heading, msg.Content); err != nil {
			return err
		}
		if msg.Source != "" {
			if _, err := fmt.Fprintf(w, "> Source: %s\n\n", msg.Source); err != nil {
				return err
			}
		}
	}
	return nil
}

// Extension returns the file extension for this format.
func (e *MarkdownExporter) Extension() string {
	return "md"
}
