package export

import (
	"encoding/json"
	"io"
)

// JSONExporter writes transcripts as a single JSON document.
type JSONExporter struct{}

type jsonTranscript struct {
	SessionID string        `json:"session_id"`
	Messages  []jsonMessage `json:"messages"`
}

type jsonMessage struct {
	ID      string `json:"id"`
	Role    string `json:"role"`
	Content string `json:"content"`
	Source  string `json:"source,omitempty"`
}

// Export writes the transcript as indented JSON.
func (e *JSONExporter) Export(t Transcript, w io.Writer) error {
	if len(t.Messages) == 0 {
		return ErrEmptyTranscript
	}

	out := jsonTranscript{SessionID: t.SessionID}
	for _, msg := range t.Messages {
		out.Messages = append(out.Messages, jsonMessage{
			ID:      msg.ID,
			Role:    string(msg.Role),
			Content: msg.Content,
			Source:  msg.Source,
		})
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

// Extension returns the file extension for this format.
func (e *JSONExporter) Extension() string {
	return "json"
}
