package mcp

import (
	"context"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/trinoor/o365-cli/internal/core/domain"
)

// ListDrivesInput is the input schema for the list_drives tool.
type ListDrivesInput struct{}

// ListDrivesOutput is the output schema for the list_drives tool.
type ListDrivesOutput struct {
	Drives []DriveSummary `json:"drives"`
	Count  int            `json:"count"`
}

// DriveSummary is one drive in a listing.
type DriveSummary struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Type  string `json:"type,omitempty"`
	Owner string `json:"owner,omitempty"`
}

// handleListDrives handles the list_drives tool invocation.
func (s *Server) handleListDrives(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	_ ListDrivesInput,
) (*mcp.CallToolResult, ListDrivesOutput, error) {
	drives, err := s.ports.Drive.Drives(ctx)
	if err != nil {
		return nil, ListDrivesOutput{}, err
	}

	output := ListDrivesOutput{
		Drives: make([]DriveSummary, len(drives)),
		Count:  len(drives),
	}
	for i := range drives {
		d := &drives[i]
		output.Drives[i] = DriveSummary{
			ID:    d.ID,
			Name:  d.Name,
			Type:  d.DriveType,
			Owner: d.OwnerName(),
		}
	}

	return nil, output, nil
}

// ListFilesInput is the input schema for the list_files tool.
type ListFilesInput struct {
	Drive     string `json:"drive,omitempty" jsonschema:"drive ID or name (default the personal OneDrive)"`
	Path      string `json:"path,omitempty" jsonschema:"folder path to list (default the drive root)"`
	Recursive bool   `json:"recursive,omitempty" jsonschema:"descend into subfolders"`
	Since     string `json:"since,omitempty" jsonschema:"only items modified since this time"`
}

// ListFilesOutput is the output schema for the list_files tool.
type ListFilesOutput struct {
	Items []FileSummary `json:"items"`
	Count int           `json:"count"`
}

// FileSummary is one file or folder in a listing.
type FileSummary struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Path     string `json:"path,omitempty"`
	Folder   bool   `json:"folder,omitempty"`
	Size     int64  `json:"size,omitempty"`
	Modified string `json:"modified,omitempty"`
	WebURL   string `json:"web_url,omitempty"`
}

// handleListFiles handles the list_files tool invocation.
func (s *Server) handleListFiles(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input ListFilesInput,
) (*mcp.CallToolResult, ListFilesOutput, error) {
	since, err := parseWhen(input.Since)
	if err != nil {
		return nil, ListFilesOutput{}, err
	}

	opts := domain.FileListOptions{Since: since, Recursive: input.Recursive}
	items, err := s.ports.Drive.List(ctx, input.Drive, input.Path, opts)
	if err != nil {
		return nil, ListFilesOutput{}, err
	}

	output := ListFilesOutput{
		Items: make([]FileSummary, len(items)),
		Count: len(items),
	}
	for i := range items {
		output.Items[i] = summarizeItem(&items[i])
	}

	return nil, output, nil
}

// SearchFilesInput is the input schema for the search_files tool.
type SearchFilesInput struct {
	Query string `json:"query" jsonschema:"the file name or content to search for"`
	Drive string `json:"drive,omitempty" jsonschema:"drive ID or name (default the personal OneDrive)"`
	Type  string `json:"type,omitempty" jsonschema:"only files of this kind, e.g. docx, pdf, video"`
	Since string `json:"since,omitempty" jsonschema:"only items modified since this time"`
	Limit int    `json:"limit,omitempty" jsonschema:"maximum number of results to return (default 50)"`
}

// SearchFilesOutput is the output schema for the search_files tool.
type SearchFilesOutput struct {
	Items []FileSummary `json:"items"`
	Count int           `json:"count"`
}

// handleSearchFiles handles the search_files tool invocation.
func (s *Server) handleSearchFiles(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input SearchFilesInput,
) (*mcp.CallToolResult, SearchFilesOutput, error) {
	since, err := parseWhen(input.Since)
	if err != nil {
		return nil, SearchFilesOutput{}, err
	}

	opts := domain.FileSearchOptions{
		Type:  input.Type,
		Since: since,
		Limit: input.Limit,
	}
	items, err := s.ports.Drive.Search(ctx, input.Drive, input.Query, opts)
	if err != nil {
		return nil, SearchFilesOutput{}, err
	}

	output := SearchFilesOutput{
		Items: make([]FileSummary, len(items)),
		Count: len(items),
	}
	for i := range items {
		output.Items[i] = summarizeItem(&items[i])
	}

	return nil, output, nil
}

// summarizeItem flattens a drive item for tool output.
func summarizeItem(item *domain.DriveItem) FileSummary {
	return FileSummary{
		ID:       item.ID,
		Name:     item.Name,
		Path:     itemPath(item),
		Folder:   item.IsFolder(),
		Size:     item.Size,
		Modified: stamp(item.LastModifiedDateTime),
		WebURL:   item.WebURL,
	}
}

// itemPath renders an item's drive-relative path. parentReference.path
// has the shape "/drives/{id}/root:/Documents"; everything after the
// "root:" marker is the folder path.
func itemPath(item *domain.DriveItem) string {
	if item.ParentReference != nil {
		if idx := strings.Index(item.ParentReference.Path, "root:"); idx >= 0 {
			folder := strings.TrimPrefix(item.ParentReference.Path[idx+len("root:"):], "/")
			if folder != "" {
				return folder + "/" + item.Name
			}
		}
	}
	return item.Name
}
