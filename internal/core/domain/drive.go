package domain

import (
	"strings"
	"time"
)

// Drive is a document library: the personal OneDrive or a shared library.
type Drive struct {
	ID        string      `json:"id"`
	Name      string      `json:"name,omitempty"`
	DriveType string      `json:"driveType,omitempty"`
	Owner     *DriveOwner `json:"owner,omitempty"`
}

// DriveOwner identifies who owns a drive.
type DriveOwner struct {
	User *ChatUser `json:"user,omitempty"`
}

// OwnerName returns the owner display name, if known.
func (d *Drive) OwnerName() string {
	if d.Owner == nil || d.Owner.User == nil {
		return ""
	}
	return d.Owner.User.DisplayName
}

// DriveItem is a file or folder inside a drive.
type DriveItem struct {
	ID                   string           `json:"id"`
	Name                 string           `json:"name,omitempty"`
	Size                 int64            `json:"size,omitempty"`
	WebURL               string           `json:"webUrl,omitempty"`
	CreatedDateTime      time.Time        `json:"createdDateTime,omitempty"`
	LastModifiedDateTime time.Time        `json:"lastModifiedDateTime,omitempty"`
	Folder               *FolderFacet     `json:"folder,omitempty"`
	File                 *FileFacet       `json:"file,omitempty"`
	ParentReference      *ParentReference `json:"parentReference,omitempty"`
}

// FolderFacet marks an item as a folder.
type FolderFacet struct {
	ChildCount int `json:"childCount,omitempty"`
}

// FileFacet marks an item as a file.
type FileFacet struct {
	MimeType string `json:"mimeType,omitempty"`
}

// ParentReference locates an item within its drive.
type ParentReference struct {
	ID      string `json:"id,omitempty"`
	DriveID string `json:"driveId,omitempty"`
	Path    string `json:"path,omitempty"`
}

// IsFolder reports whether the item is a folder.
func (i *DriveItem) IsFolder() bool {
	return i.Folder != nil
}

// IsVideoRecording reports whether the item looks like a meeting
// recording: a video mime type or a known video extension.
func (i *DriveItem) IsVideoRecording() bool {
	if i.File != nil && strings.HasPrefix(i.File.MimeType, "video/") {
		return true
	}
	lower := strings.ToLower(i.Name)
	return strings.HasSuffix(lower, ".mp4") || strings.HasSuffix(lower, ".webm")
}

// BaseName returns the item name without its final extension.
func (i *DriveItem) BaseName() string {
	name := i.Name
	if idx := strings.LastIndex(name, "."); idx > 0 {
		return name[:idx]
	}
	return name
}

// FileListOptions narrows a folder listing. Zero values leave the
// corresponding dimension unconstrained.
type FileListOptions struct {
	// Since drops items last modified before the given instant.
	Since time.Time
	// Recursive descends into subfolders.
	Recursive bool
}

// FileSearchOptions narrows a drive search. Zero values leave the
// corresponding dimension unconstrained.
type FileSearchOptions struct {
	// Type keeps only files with the given extension, with or
	// without the leading dot.
	Type string
	// Since drops items last modified before the given instant.
	Since time.Time
	// Limit caps the number of items returned. Zero means the
	// default of 50.
	Limit int
}

// DefaultFileSearchLimit is applied when FileSearchOptions.Limit is
// zero.
const DefaultFileSearchLimit = 50

// EffectiveLimit resolves the configured limit against the default.
func (o FileSearchOptions) EffectiveLimit() int {
	if o.Limit > 0 {
		return o.Limit
	}
	return DefaultFileSearchLimit
}

// MatchesType reports whether a file name carries the configured
// extension. An empty Type matches everything.
func (o FileSearchOptions) MatchesType(name string) bool {
	if o.Type == "" {
		return true
	}
	ext := o.Type
	if !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	return strings.HasSuffix(strings.ToLower(name), strings.ToLower(ext))
}

// ResolveDrive finds a drive by ID or name. Exact ID match wins, then
// case-insensitive exact name, then unique case-insensitive substring.
// Multiple substring matches report ErrAmbiguousDrive; none reports
// ErrDriveNotFound.
func ResolveDrive(drives []Drive, nameOrID string) (*Drive, error) {
	for i := range drives {
		if drives[i].ID == nameOrID {
			return &drives[i], nil
		}
	}

	needle := strings.ToLower(nameOrID)
	for i := range drives {
		if strings.ToLower(drives[i].Name) == needle {
			return &drives[i], nil
		}
	}

	var matches []*Drive
	for i := range drives {
		if strings.Contains(strings.ToLower(drives[i].Name), needle) {
			matches = append(matches, &drives[i])
		}
	}
	switch len(matches) {
	case 1:
		return matches[0], nil
	case 0:
		return nil, ErrDriveNotFound
	default:
		return nil, ErrAmbiguousDrive
	}
}
