package mcp

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/trinoor/o365-cli/internal/core/domain"
)

// ListRecordingsInput is the input schema for the list_recordings tool.
type ListRecordingsInput struct {
	Query  string `json:"query,omitempty" jsonschema:"search recordings by name instead of listing the Recordings folder"`
	Since  string `json:"since,omitempty" jsonschema:"only recordings created since this time"`
	Before string `json:"before,omitempty" jsonschema:"only recordings created before this time"`
	Limit  int    `json:"limit,omitempty" jsonschema:"maximum number of recordings to return (default 50)"`
}

// ListRecordingsOutput is the output schema for the list_recordings tool.
type ListRecordingsOutput struct {
	Recordings []RecordingSummary `json:"recordings"`
	Count      int                `json:"count"`
}

// RecordingSummary is one meeting recording in a listing.
type RecordingSummary struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Size    int64  `json:"size,omitempty"`
	Created string `json:"created,omitempty"`
	WebURL  string `json:"web_url,omitempty"`
}

// handleListRecordings handles the list_recordings tool invocation.
func (s *Server) handleListRecordings(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input ListRecordingsInput,
) (*mcp.CallToolResult, ListRecordingsOutput, error) {
	since, err := parseWhen(input.Since)
	if err != nil {
		return nil, ListRecordingsOutput{}, err
	}
	before, err := parseWhen(input.Before)
	if err != nil {
		return nil, ListRecordingsOutput{}, err
	}

	opts := domain.RecordingListOptions{
		Since:  since,
		Before: before,
		Limit:  input.Limit,
	}

	var recordings []domain.DriveItem
	if input.Query != "" {
		recordings, err = s.ports.Recordings.Search(ctx, input.Query, opts)
	} else {
		recordings, err = s.ports.Recordings.List(ctx, opts)
	}
	if err != nil {
		return nil, ListRecordingsOutput{}, err
	}

	output := ListRecordingsOutput{
		Recordings: make([]RecordingSummary, len(recordings)),
		Count:      len(recordings),
	}
	for i := range recordings {
		r := &recordings[i]
		output.Recordings[i] = RecordingSummary{
			ID:      r.ID,
			Name:    r.Name,
			Size:    r.Size,
			Created: stamp(r.CreatedDateTime),
			WebURL:  r.WebURL,
		}
	}

	return nil, output, nil
}

// GetRecordingTranscriptInput is the input schema for the
// get_recording_transcript tool.
type GetRecordingTranscriptInput struct {
	ID string `json:"id" jsonschema:"the recording ID from a list_recordings result"`
}

// GetRecordingTranscriptOutput is the output schema for the
// get_recording_transcript tool.
type GetRecordingTranscriptOutput struct {
	Speakers []string `json:"speakers,omitempty"`
	Duration string   `json:"duration,omitempty"`
	Text     string   `json:"text"`
}

// handleGetRecordingTranscript handles the get_recording_transcript
// tool invocation.
func (s *Server) handleGetRecordingTranscript(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input GetRecordingTranscriptInput,
) (*mcp.CallToolResult, GetRecordingTranscriptOutput, error) {
	transcript, err := s.ports.Recordings.Transcript(ctx, input.ID)
	if err != nil {
		return nil, GetRecordingTranscriptOutput{}, err
	}

	output := GetRecordingTranscriptOutput{
		Speakers: transcript.Speakers(),
		Text:     transcript.PlainText(),
	}
	if d := transcript.Duration(); d > 0 {
		output.Duration = d.String()
	}

	return nil, output, nil
}
