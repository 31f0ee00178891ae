// Package export writes chat transcripts to files in several formats.
package export

import (
	"errors"
	"fmt"
	"io"

	"github.com/synapsechat/synapsechat/internal/model"
)

// ErrEmptyTranscript reports an attempt to export a chat with no messages.
var ErrEmptyTranscript = errors.New("cannot export an empty chat")

// Transcript is the exportable view of a session.
type Transcript struct {
	SessionID string
	Messages  []model.Message
}

// Exporter writes a transcript in one format.
type Exporter interface {
	Export(t Transcript, w io.Writer) error
	Extension() string
}

// NewExporter creates an exporter for the given format name.
func NewExporter(format string) (Exporter, error) {
	switch format {
	case "txt", "text":
		return &TextExporter{}, nil
	case "md", "markdown":
		return &MarkdownExporter{}, nil
	case "json":
		return &JSONExporter{}, nil
	case "yaml", "yml":
		return &YAMLExporter{}, nil
	default:
		return nil, fmt.Errorf("unsupported format: %s (supported: txt, md, json, yaml)", format)
	}
}
