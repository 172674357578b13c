package services

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/trinoor/o365-cli/internal/core/domain"
	"github.com/trinoor/o365-cli/internal/core/ports/driven"
	"github.com/trinoor/o365-cli/internal/core/ports/driving"
	"github.com/trinoor/o365-cli/internal/logger"
)

// Ensure RecordingsService implements the interface.
var _ driving.RecordingsService = (*RecordingsService)(nil)

// recordingsFolder is where Teams stores meeting recordings in the
// user's OneDrive.
const recordingsFolder = "Recordings"

// RecordingsService reads Teams meeting recordings and their
// transcripts from OneDrive.
type RecordingsService struct {
	graph       driven.GraphClient
	transcripts driven.TranscriptParser
}

// NewRecordingsService creates a new recordings service.
func NewRecordingsService(graph driven.GraphClient, transcripts driven.TranscriptParser) *RecordingsService {
	return &RecordingsService{graph: graph, transcripts: transcripts}
}

// List returns recordings from the Recordings folder, newest entries
// as the drive orders them. Users who have never recorded a meeting
// have no such folder, which reads as an empty list.
func (s *RecordingsService) List(ctx context.Context, opts domain.RecordingListOptions) ([]domain.DriveItem, error) {
	limit := opts.EffectiveLimit()
	pager := s.graph.List("me/drive/root:/"+recordingsFolder+":/children", domain.ListOptions{})

	var out []domain.DriveItem
	first := true
	for {
		page, err := pager.NextPage(ctx)
		if err != nil {
			if first {
				logger.Debug("recordings folder unavailable: %v", err)
				return nil, nil
			}
			return out, fmt.Errorf("list recordings: %w", err)
		}
		if page == nil {
			return out, nil
		}
		first = false
		for _, raw := range page {
			var item domain.DriveItem
			if err := json.Unmarshal(raw, &item); err != nil {
				return out, fmt.Errorf("decode recording: %w", err)
			}
			if !item.IsVideoRecording() || !opts.Accepts(item.CreatedDateTime) {
				continue
			}
			out = append(out, item)
			if len(out) >= limit {
				return out, nil
			}
		}
	}
}

// Search finds recordings by name across the whole drive, keeping only
// video files that live under the Recordings folder.
func (s *RecordingsService) Search(ctx context.Context, query string, opts domain.RecordingListOptions) ([]domain.DriveItem, error) {
	if strings.TrimSpace(query) == "" {
		return nil, fmt.Errorf("%w: empty search query", domain.ErrInvalidInput)
	}
	limit := opts.EffectiveLimit()
	pager := s.graph.List("me/drive/root/search(q='"+searchTerm(query)+"')", domain.ListOptions{})

	var out []domain.DriveItem
	for {
		page, err := pager.NextPage(ctx)
		if err != nil {
			return out, fmt.Errorf("search recordings: %w", err)
		}
		if page == nil {
			return out, nil
		}
		for _, raw := range page {
			var item domain.DriveItem
			if err := json.Unmarshal(raw, &item); err != nil {
				return out, fmt.Errorf("decode recording: %w", err)
			}
			if !item.IsVideoRecording() || !opts.Accepts(item.CreatedDateTime) {
				continue
			}
			if item.ParentReference == nil || !strings.Contains(item.ParentReference.Path, recordingsFolder) {
				continue
			}
			out = append(out, item)
			if len(out) >= limit {
				return out, nil
			}
		}
	}
}

// Info fetches a single recording's metadata by item ID.
func (s *RecordingsService) Info(ctx context.Context, id string) (*domain.DriveItem, error) {
	var item domain.DriveItem
	if err := s.graph.GetJSON(ctx, "me/drive/items/"+id, &item); err != nil {
		return nil, fmt.Errorf("get recording %s: %w", id, err)
	}
	return &item, nil
}

// Download fetches a recording into destDir and returns the written
// path.
func (s *RecordingsService) Download(ctx context.Context, id, destDir string) (string, error) {
	item, err := s.Info(ctx, id)
	if err != nil {
		return "", err
	}
	body, err := s.graph.Download(ctx, "me/drive/items/"+id+"/content")
	if err != nil {
		return "", fmt.Errorf("download recording %s: %w", id, err)
	}
	defer body.Close()

	if destDir == "" {
		destDir = "."
	}
	if err := os.MkdirAll(destDir, 0o755); err != nil {
		return "", fmt.Errorf("create directory %s: %w", destDir, err)
	}
	dest := filepath.Join(destDir, item.Name)
	if err := writeStream(dest, body); err != nil {
		return "", err
	}
	logger.Debug("downloaded recording %s (%d bytes) to %s", item.Name, item.Size, dest)
	return dest, nil
}

// Transcript fetches and parses the transcript stored alongside a
// recording.
func (s *RecordingsService) Transcript(ctx context.Context, id string) (domain.Transcript, error) {
	raw, err := s.RawTranscript(ctx, id)
	if err != nil {
		return nil, err
	}
	transcript, err := s.transcripts.Parse(strings.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("parse transcript: %w", err)
	}
	return transcript, nil
}

// RawTranscript fetches the transcript's unparsed WebVTT text. Teams
// saves transcripts next to the recording, named after it with a .vtt
// extension.
func (s *RecordingsService) RawTranscript(ctx context.Context, id string) (string, error) {
	item, err := s.Info(ctx, id)
	if err != nil {
		return "", err
	}
	if item.ParentReference == nil || item.ParentReference.ID == "" {
		return "", fmt.Errorf("%s: %w", item.Name, domain.ErrNoTranscript)
	}

	siblings, pageErr := s.graph.List("me/drive/items/"+item.ParentReference.ID+"/children", domain.ListOptions{}).All(ctx)
	base := item.BaseName()
	for _, raw := range siblings {
		var sibling domain.DriveItem
		if err := json.Unmarshal(raw, &sibling); err != nil {
			return "", fmt.Errorf("decode transcript candidate: %w", err)
		}
		if !strings.Contains(sibling.Name, base) || !strings.HasSuffix(strings.ToLower(sibling.Name), ".vtt") {
			continue
		}
		body, err := s.graph.Download(ctx, "me/drive/items/"+sibling.ID+"/content")
		if err != nil {
			return "", fmt.Errorf("download transcript %s: %w", sibling.Name, err)
		}
		defer body.Close()
		content, err := io.ReadAll(body)
		if err != nil {
			return "", fmt.Errorf("read transcript %s: %w", sibling.Name, err)
		}
		return string(content), nil
	}
	if pageErr != nil {
		return "", fmt.Errorf("list transcript candidates: %w", pageErr)
	}
	return "", fmt.Errorf("%s: %w", item.Name, domain.ErrNoTranscript)
}
