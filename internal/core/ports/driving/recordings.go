package driving

import (
	"context"

	"github.com/trinoor/o365-cli/internal/core/domain"
)

// RecordingsService exposes Teams meeting recordings to external
// actors. Recordings live as video files in the OneDrive Recordings
// folder; transcripts are WebVTT files stored alongside them.
type RecordingsService interface {
	// List returns recordings from the Recordings folder, filtered
	// and capped per opts. A missing Recordings folder yields an
	// empty list, not an error.
	List(ctx context.Context, opts domain.RecordingListOptions) ([]domain.DriveItem, error)

	// Search finds recordings by name across the whole drive.
	Search(ctx context.Context, query string, opts domain.RecordingListOptions) ([]domain.DriveItem, error)

	// Info fetches a single recording's metadata by item ID.
	Info(ctx context.Context, id string) (*domain.DriveItem, error)

	// Download fetches a recording into destDir and returns the
	// written path.
	Download(ctx context.Context, id, destDir string) (string, error)

	// Transcript fetches and parses the transcript stored alongside
	// a recording. Returns domain.ErrNoTranscript when none exists.
	Transcript(ctx context.Context, id string) (domain.Transcript, error)

	// RawTranscript fetches the transcript's unparsed WebVTT text.
	RawTranscript(ctx context.Context, id string) (string, error)
}
