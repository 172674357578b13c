package driving

import (
	"context"

	"github.com/trinoor/o365-cli/internal/core/domain"
)

// FilesService exposes OneDrive and SharePoint drive operations to
// external actors. Drive references accept an ID, an exact name, or a
// unique name fragment; an empty reference means the personal drive.
type FilesService interface {
	// Drives lists the drives visible to the user: the personal
	// OneDrive plus shared libraries, deduplicated by ID.
	Drives(ctx context.Context) ([]domain.Drive, error)

	// List returns the children of a folder path within a drive.
	// An empty path lists the drive root.
	List(ctx context.Context, driveRef, path string, opts domain.FileListOptions) ([]domain.DriveItem, error)

	// Search finds files by name or content across a drive.
	Search(ctx context.Context, driveRef, query string, opts domain.FileSearchOptions) ([]domain.DriveItem, error)

	// Download fetches a file into destDir and returns the written
	// path.
	Download(ctx context.Context, driveRef, path, destDir string) (string, error)

	// Upload sends a local file to a drive folder and returns the
	// created item.
	Upload(ctx context.Context, driveRef, localPath, remoteDir string) (*domain.DriveItem, error)

	// Delete removes a file or folder.
	Delete(ctx context.Context, driveRef, path string) error

	// Mkdir creates a folder under parentPath and returns it.
	Mkdir(ctx context.Context, driveRef, parentPath, name string) (*domain.DriveItem, error)
}
