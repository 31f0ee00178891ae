package export

import (
	"fmt"
	"io"

	"github.com/synapsechat/synapsechat/internal/model"
)

// TextExporter writes the plain-text transcript format: "You:" and
// "SynapseChat:" blocks separated by rules, with source citations inline.
type TextExporter struct{}

// Export writes the transcript as plain text.
func (e *TextExporter) Export(t Transcript, w io.Writer) error {
	if len(t.Messages) == 0 {
		return ErrEmptyTranscript
	}

	for i, msg := range t.Messages {
		prefix := "You"
		if msg.Role == model.RoleAssistant {
			prefix = "SynapseChat"
		}

		if _, err := fmt.Fprintf(w, "%s:\n%s\n", prefix, msg.Content); err != nil {
			return err
		}
		if msg.Source != "" {
			if _, err := fmt.Fprintf(w, "Source: %s\n", msg.Source); err != nil {
				return err
			}
		}
		if i < len(t.Messages)-1 {
			if _, err := fmt.Fprint(w, "\n---\n\n"); err != nil {
				return err
			}
		}
	}
	return nil
}

// Extension returns the file extension for this format.
func (e *TextExporter) Extension() string {
	return "txt"
}
