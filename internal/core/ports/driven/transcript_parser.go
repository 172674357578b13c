package driven

import (
	"io"

	"github.com/trinoor/o365-cli/internal/core/domain"
)

// TranscriptParser decodes raw transcript content into timed cues.
type TranscriptParser interface {
	// Parse reads transcript content and returns its cues in order.
	Parse(r io.Reader) (domain.Transcript, error)
}
