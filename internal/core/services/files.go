package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/trinoor/o365-cli/internal/core/domain"
	"github.com/trinoor/o365-cli/internal/core/ports/driven"
	"github.com/trinoor/o365-cli/internal/core/ports/driving"
	"github.com/trinoor/o365-cli/internal/logger"
)

// Ensure FilesService implements the interface.
var _ driving.FilesService = (*FilesService)(nil)

// FilesService reads and writes OneDrive and SharePoint drives.
type FilesService struct {
	graph driven.GraphClient
}

// NewFilesService creates a new files service.
func NewFilesService(graph driven.GraphClient) *FilesService {
	return &FilesService{graph: graph}
}

// Drives lists the drives visible to the user, personal drive first.
func (s *FilesService) Drives(ctx context.Context) ([]domain.Drive, error) {
	var personal domain.Drive
	if err := s.graph.GetJSON(ctx, "me/drive", &personal); err != nil {
		return nil, fmt.Errorf("get personal drive: %w", err)
	}
	drives := []domain.Drive{personal}
	seen := map[string]bool{personal.ID: true}

	items, pageErr := s.graph.List("me/drives", domain.ListOptions{}).All(ctx)
	for _, raw := range items {
		var d domain.Drive
		if err := json.Unmarshal(raw, &d); err != nil {
			return drives, fmt.Errorf("decode drive: %w", err)
		}
		if seen[d.ID] {
			continue
		}
		seen[d.ID] = true
		drives = append(drives, d)
	}
	return drives, pageErr
}

// List returns the children of a folder path within a drive.
func (s *FilesService) List(ctx context.Context, driveRef, path string, opts domain.FileListOptions) ([]domain.DriveItem, error) {
	driveID, err := s.resolveDriveID(ctx, driveRef)
	if err != nil {
		return nil, err
	}
	return s.listFolder(ctx, driveID, path, opts)
}

func (s *FilesService) listFolder(ctx context.Context, driveID, path string, opts domain.FileListOptions) ([]domain.DriveItem, error) {
	items, pageErr := s.graph.List(folderChildrenPath(driveID, path), domain.ListOptions{}).All(ctx)

	var out []domain.DriveItem
	var folders []string
	for _, raw := range items {
		var item domain.DriveItem
		if err := json.Unmarshal(raw, &item); err != nil {
			return out, fmt.Errorf("decode drive item: %w", err)
		}
		if !opts.Since.IsZero() && item.LastModifiedDateTime.Before(opts.Since) && !item.IsFolder() {
			continue
		}
		if item.IsFolder() && opts.Recursive {
			folders = append(folders, item.Name)
		}
		out = append(out, item)
	}
	if pageErr != nil {
		return out, pageErr
	}

	for _, name := range folders {
		sub := name
		if path != "" {
			sub = strings.TrimSuffix(path, "/") + "/" + name
		}
		children, err := s.listFolder(ctx, driveID, sub, opts)
		out = append(out, children...)
		if err != nil {
			return out, err
		}
	}
	return out, nil
}

// Search finds files by name or content across a drive. Type and time
// filters are applied locally; the search endpoint only matches text.
func (s *FilesService) Search(ctx context.Context, driveRef, query string, opts domain.FileSearchOptions) ([]domain.DriveItem, error) {
	if strings.TrimSpace(query) == "" {
		return nil, fmt.Errorf("%w: empty search query", domain.ErrInvalidInput)
	}
	base := "me/drive"
	if driveRef != "" {
		driveID, err := s.resolveDriveID(ctx, driveRef)
		if err != nil {
			return nil, err
		}
		base = "drives/" + driveID
	}
	limit := opts.EffectiveLimit()

	pager := s.graph.List(base+"/root/search(q='"+searchTerm(query)+"')", domain.ListOptions{})
	var out []domain.DriveItem
	for {
		page, err := pager.NextPage(ctx)
		if err != nil {
			return out, fmt.Errorf("search files: %w", err)
		}
		if page == nil {
			break
		}
		for _, raw := range page {
			var item domain.DriveItem
			if err := json.Unmarshal(raw, &item); err != nil {
				return out, fmt.Errorf("decode drive item: %w", err)
			}
			if opts.Type != "" && !opts.MatchesType(item.Name) {
				continue
			}
			if !opts.Since.IsZero() && item.LastModifiedDateTime.Before(opts.Since) {
				continue
			}
			out = append(out, item)
			if len(out) >= limit {
				return out, nil
			}
		}
	}
	return out, nil
}

// Download fetches a file into destDir and returns the written path.
func (s *FilesService) Download(ctx context.Context, driveRef, path, destDir string) (string, error) {
	driveID, err := s.resolveDriveID(ctx, driveRef)
	if err != nil {
		return "", err
	}
	item, err := s.itemByPath(ctx, driveID, path)
	if err != nil {
		return "", err
	}
	if item.IsFolder() {
		return "", fmt.Errorf("%w: %s is a folder", domain.ErrInvalidInput, path)
	}

	body, err := s.graph.Download(ctx, "drives/"+driveID+"/items/"+item.ID+"/content")
	if err != nil {
		return "", fmt.Errorf("download %s: %w", path, err)
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
	logger.Debug("downloaded %s (%d bytes) to %s", item.Name, item.Size, dest)
	return dest, nil
}

// Upload sends a local file to a drive folder and returns the created
// item.
func (s *FilesService) Upload(ctx context.Context, driveRef, localPath, remoteDir string) (*domain.DriveItem, error) {
	driveID, err := s.resolveDriveID(ctx, driveRef)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(localPath)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", localPath, err)
	}
	defer f.Close()
	info, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("stat %s: %w", localPath, err)
	}

	name := filepath.Base(localPath)
	remote := name
	if dir := strings.Trim(remoteDir, "/"); dir != "" {
		remote = dir + "/" + name
	}
	raw, err := s.graph.Upload(ctx, "drives/"+driveID+"/root:/"+escapeDrivePath(remote), f, info.Size())
	if err != nil {
		return nil, err
	}
	var item domain.DriveItem
	if err := json.Unmarshal(raw, &item); err != nil {
		return nil, fmt.Errorf("decode uploaded item: %w", err)
	}
	logger.Info("Uploaded %s (%d bytes)", item.Name, item.Size)
	return &item, nil
}

// Delete removes a file or folder.
func (s *FilesService) Delete(ctx context.Context, driveRef, path string) error {
	if strings.Trim(path, "/") == "" {
		return fmt.Errorf("%w: refusing to delete the drive root", domain.ErrInvalidInput)
	}
	driveID, err := s.resolveDriveID(ctx, driveRef)
	if err != nil {
		return err
	}
	if err := s.graph.Delete(ctx, "drives/"+driveID+"/root:/"+escapeDrivePath(path)); err != nil {
		return fmt.Errorf("delete %s: %w", path, err)
	}
	return nil
}

// Mkdir creates a folder under parentPath and returns it.
func (s *FilesService) Mkdir(ctx context.Context, driveRef, parentPath, name string) (*domain.DriveItem, error) {
	if strings.TrimSpace(name) == "" {
		return nil, fmt.Errorf("%w: empty folder name", domain.ErrInvalidInput)
	}
	driveID, err := s.resolveDriveID(ctx, driveRef)
	if err != nil {
		return nil, err
	}
	payload := map[string]any{
		"name":   name,
		"folder": map[string]any{},
	}
	raw, err := s.graph.Post(ctx, folderChildrenPath(driveID, parentPath), payload)
	if err != nil {
		return nil, fmt.Errorf("create folder %s: %w", name, err)
	}
	var item domain.DriveItem
	if err := json.Unmarshal(raw, &item); err != nil {
		return nil, fmt.Errorf("decode created folder: %w", err)
	}
	return &item, nil
}

// resolveDriveID turns a drive reference into a drive ID. An empty
// reference means the personal drive.
func (s *FilesService) resolveDriveID(ctx context.Context, ref string) (string, error) {
	if ref == "" {
		var personal domain.Drive
		if err := s.graph.GetJSON(ctx, "me/drive", &personal); err != nil {
			return "", fmt.Errorf("get personal drive: %w", err)
		}
		return personal.ID, nil
	}
	drives, err := s.Drives(ctx)
	if err != nil {
		return "", err
	}
	drive, err := domain.ResolveDrive(drives, ref)
	if err != nil {
		return "", err
	}
	return drive.ID, nil
}

func (s *FilesService) itemByPath(ctx context.Context, driveID, path string) (*domain.DriveItem, error) {
	trimmed := strings.Trim(path, "/")
	if trimmed == "" {
		return nil, fmt.Errorf("%w: empty file path", domain.ErrInvalidInput)
	}
	var item domain.DriveItem
	if err := s.graph.GetJSON(ctx, "drives/"+driveID+"/root:/"+escapeDrivePath(trimmed), &item); err != nil {
		return nil, fmt.Errorf("get item %s: %w", path, err)
	}
	return &item, nil
}

// folderChildrenPath builds the children endpoint for a folder path.
// The drive root has a plain children segment; nested folders use the
// colon-delimited path form.
func folderChildrenPath(driveID, path string) string {
	trimmed := strings.Trim(path, "/")
	if trimmed == "" {
		return "drives/" + driveID + "/root/children"
	}
	return "drives/" + driveID + "/root:/" + escapeDrivePath(trimmed) + ":/children"
}

// escapeDrivePath encodes each path segment while keeping the
// separators, since slashes delimit folders in the colon form.
func escapeDrivePath(path string) string {
	segments := strings.Split(strings.Trim(path, "/"), "/")
	for i, seg := range segments {
		segments[i] = url.PathEscape(seg)
	}
	return strings.Join(segments, "/")
}

// searchTerm escapes a query for the search(q='...') path segment.
// Single quotes double per OData; the rest percent-encodes.
func searchTerm(query string) string {
	return url.PathEscape(strings.ReplaceAll(query, "'", "''"))
}
