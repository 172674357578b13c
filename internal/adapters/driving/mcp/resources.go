package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/trinoor/o365-cli/internal/core/domain"
)

const (
	// uriScheme is the custom URI scheme for o365 resources.
	uriScheme = "o365://"
)

// registerResources registers all resource handlers with the MCP server.
func (s *Server) registerResources() {
	// Static resource for the sanitized configuration snapshot.
	s.server.AddResource(&mcp.Resource{
		URI:         uriScheme + "config",
		Name:        "config",
		Description: "Current o365 configuration with secrets redacted",
		MIMEType:    "application/json",
	}, s.handleConfigResource)

	// Static resource for mailbox folders.
	s.server.AddResource(&mcp.Resource{
		URI:         uriScheme + "mail/folders",
		Name:        "mail-folders",
		Description: "Mailbox folders with unread and total counts",
		MIMEType:    "application/json",
	}, s.handleFoldersResource)

	// Template for raw meeting transcripts.
	s.server.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: uriScheme + "recordings/{recordingId}/transcript",
		Name:        "recording-transcript",
		Description: "Raw WebVTT transcript of a meeting recording",
		MIMEType:    "text/vtt",
	}, s.handleTranscriptResource)
}

// handleConfigResource returns the configuration snapshot with
// secret-bearing keys redacted.
func (s *Server) handleConfigResource(
	_ context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	snapshot := map[string]any{}
	if s.ports.Settings != nil {
		for _, key := range s.ports.Settings.Keys() {
			value, ok := s.ports.Settings.Get(key)
			if !ok {
				continue
			}
			if sensitiveKey(key) {
				value = "[redacted]"
			}
			snapshot[key] = value
		}
	}

	data, err := json.MarshalIndent(snapshot, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling config: %w", err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      req.Params.URI,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}

// handleFoldersResource returns the mailbox folder list.
func (s *Server) handleFoldersResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	folders, err := s.ports.Mail.Folders(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing folders: %w", err)
	}

	type folderInfo struct {
		Name   string `json:"name"`
		Unread int    `json:"unread"`
		Total  int    `json:"total"`
	}

	infos := make([]folderInfo, len(folders))
	for i, f := range folders {
		infos[i] = folderInfo{
			Name:   f.DisplayName,
			Unread: f.UnreadItemCount,
			Total:  f.TotalItemCount,
		}
	}

	data, err := json.MarshalIndent(infos, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling folders: %w", err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      req.Params.URI,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}

// handleTranscriptResource returns the raw WebVTT transcript for a
// recording.
func (s *Server) handleTranscriptResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	if s.ports.Recordings == nil {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	recordingID := extractRecordingID(req.Params.URI)
	if recordingID == "" {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	raw, err := s.ports.Recordings.RawTranscript(ctx, recordingID)
	if err != nil {
		if errors.Is(err, domain.ErrNoTranscript) || errors.Is(err, domain.ErrNotFound) {
			return nil, mcp.ResourceNotFoundError(req.Params.URI)
		}
		return nil, fmt.Errorf("fetching transcript: %w", err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      req.Params.URI,
			MIMEType: "text/vtt",
			Text:     raw,
		}},
	}, nil
}

// sensitiveKey reports whether a configuration key holds a secret that
// must not leave the process.
func sensitiveKey(key string) bool {
	lower := strings.ToLower(key)
	for _, marker := range []string{"secret", "password", "credential"} {
		if strings.Contains(lower, marker) {
			return true
		}
	}
	return false
}

// extractRecordingID extracts the recording ID from a URI like
// o365://recordings/{recordingId}/transcript.
func extractRecordingID(uri string) string {
	const prefix = uriScheme + "recordings/"
	const suffix = "/transcript"

	if !strings.HasPrefix(uri, prefix) {
		return ""
	}

	uri = strings.TrimPrefix(uri, prefix)
	if !strings.HasSuffix(uri, suffix) {
		return ""
	}

	return strings.TrimSuffix(uri, suffix)
}
