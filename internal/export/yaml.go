package export

import (
	"io"

	"gopkg.in/yaml.v3"
)

// YAMLExporter writes transcripts as YAML.
type YAMLExporter struct{}

type yamlTranscript struct {
	SessionID string        `yaml:"session_id"`
	Messages  []yamlMessage `yaml:"messages"`
}

type yamlMessage struct {
	ID      string `yaml:"id"`
	Role    string `yaml:"role"`
	Content string `yaml:"content"`
	Source  string `yaml:"source,omitempty"`
}

// Export writes the transcript as YAML.
func (e *YAMLExporter) Export(t Transcript, w io.Writer) error {
	if len(t.Messages) == 0 {
		return ErrEmptyTranscript
	}

	out := yamlTranscript{SessionID: t.SessionID}
	for _, msg := range t.Messages {
		out.Messages = append(out.Messages, yamlMessage{
			ID:      msg.ID,
			Role:    string(msg.Role),
			Content: msg.Content,
			Source:  msg.Source,
		})
	}

	enc := yaml.NewEncoder(w)
	defer enc.Close()
	return enc.Encode(out)
}

// Extension returns the file extension for this format.
func (e *YAMLExporter) Extension() string {
	return "yaml"
}
