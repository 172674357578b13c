package cli

import (
	"errors"
	"strings"

	"github.com/spf13/cobra"

	"github.com/trinoor/o365-cli/internal/core/domain"
)

var filesCmd = &cobra.Command{
	Use:   "files",
	Short: "Browse and transfer OneDrive files",
	Long: `Browse and transfer files in OneDrive and shared drives.

--drive accepts a drive ID, an exact drive name, or a unique name
fragment; without it commands use the personal OneDrive. Remote paths
are always relative to the drive root.

Examples:
  # What's in the Reports folder
  o365 files list Reports

  # Find last week's spreadsheets anywhere in the drive
  o365 files search budget --type xlsx --since "1 week ago"

  # Fetch and push files
  o365 files download "Reports/Q3 Final.xlsx" -o /tmp
  o365 files upload ./slides.pptx Presentations`,
}

var filesDrivesCmd = &cobra.Command{
	Use:   "drives",
	Short: "List the drives visible to you",
	RunE:  runFilesDrives,
}

var filesListCmd = &cobra.Command{
	Use:   "list [path]",
	Short: "List a folder's contents",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runFilesList,
}

var filesSearchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search a drive by file name or content",
	Args:  cobra.ExactArgs(1),
	RunE:  runFilesSearch,
}

var filesDownloadCmd = &cobra.Command{
	Use:   "download <path>",
	Short: "Download a file",
	Args:  cobra.ExactArgs(1),
	RunE:  runFilesDownload,
}

var filesUploadCmd = &cobra.Command{
	Use:   "upload <local> [remote-dir]",
	Short: "Upload a local file to a drive folder",
	Args:  cobra.RangeArgs(1, 2),
	RunE:  runFilesUpload,
}

var filesDeleteCmd = &cobra.Command{
	Use:   "delete <path>",
	Short: "Delete a file or folder",
	Args:  cobra.ExactArgs(1),
	RunE:  runFilesDelete,
}

var filesMkdirCmd = &cobra.Command{
	Use:   "mkdir <path>",
	Short: "Create a folder",
	Args:  cobra.ExactArgs(1),
	RunE:  runFilesMkdir,
}

// Flags for the files commands.
var (
	filesListDrive     string
	filesListSince     string
	filesListRecursive bool
	filesListJSON      bool

	filesSearchDrive string
	filesSearchType  string
	filesSearchSince string
	filesSearchMax   int

	filesDownloadDrive string
	filesDownloadOut   string

	filesUploadDrive string

	filesDeleteDrive string

	filesMkdirDrive string
)

func init() {
	filesListCmd.Flags().StringVar(
		&filesListDrive, "drive", "", "Drive ID, name, or name fragment")
	filesListCmd.Flags().StringVar(
		&filesListSince, "since", "", "Only files modified since this time")
	filesListCmd.Flags().BoolVar(
		&filesListRecursive, "recursive", false, "Descend into subfolders")
	filesListCmd.Flags().BoolVar(
		&filesListJSON, "json", false, "Output as JSON")

	filesSearchCmd.Flags().StringVar(
		&filesSearchDrive, "drive", "", "Drive ID, name, or name fragment")
	filesSearchCmd.Flags().StringVar(
		&filesSearchType, "type", "", "Only files with this extension")
	filesSearchCmd.Flags().StringVar(
		&filesSearchSince, "since", "", "Only files modified since this time")
	filesSearchCmd.Flags().IntVar(
		&filesSearchMax, "max", 0, "Maximum results (default 50)")

	filesDownloadCmd.Flags().StringVar(
		&filesDownloadDrive, "drive", "", "Drive ID, name, or name fragment")
	filesDownloadCmd.Flags().StringVarP(
		&filesDownloadOut, "output", "o", "", "Destination directory (default .)")

	filesUploadCmd.Flags().StringVar(
		&filesUploadDrive, "drive", "", "Drive ID, name, or name fragment")

	filesDeleteCmd.Flags().StringVar(
		&filesDeleteDrive, "drive", "", "Drive ID, name, or name fragment")

	filesMkdirCmd.Flags().StringVar(
		&filesMkdirDrive, "drive", "", "Drive ID, name, or name fragment")

	filesCmd.AddCommand(filesDrivesCmd)
	filesCmd.AddCommand(filesListCmd)
	filesCmd.AddCommand(filesSearchCmd)
	filesCmd.AddCommand(filesDownloadCmd)
	filesCmd.AddCommand(filesUploadCmd)
	filesCmd.AddCommand(filesDeleteCmd)
	filesCmd.AddCommand(filesMkdirCmd)
	rootCmd.AddCommand(filesCmd)
}

func runFilesDrives(cmd *cobra.Command, _ []string) error {
	if filesService == nil {
		return errors.New("files service not configured")
	}

	drives, err := filesService.Drives(cmd.Context())
	if err != nil {
		return err
	}

	for _, d := range drives {
		cmd.Printf("%-28s %-10s %s\n", d.Name, d.DriveType, d.OwnerName())
		cmd.Printf("    id: %s\n", d.ID)
	}
	return nil
}

func runFilesList(cmd *cobra.Command, args []string) error {
	if filesService == nil {
		return errors.New("files service not configured")
	}

	path := ""
	if len(args) > 0 {
		path = args[0]
	}
	since, err := parseTimeFlag(filesListSince)
	if err != nil {
		return err
	}

	items, err := filesService.List(cmd.Context(), filesListDrive, path, domain.FileListOptions{
		Since:     since,
		Recursive: filesListRecursive,
	})
	if err != nil {
		return err
	}

	if filesListJSON {
		return outputJSON(cmd, items)
	}

	if len(items) == 0 {
		cmd.Println("No files found")
		return nil
	}

	for _, item := range items {
		kind := "-"
		if item.IsFolder() {
			kind = "d"
		}
		cmd.Printf("%s %10s  %s  %s\n",
			kind, formatSize(item.Size), formatTime(item.LastModifiedDateTime), item.Name)
	}
	return nil
}

func runFilesSearch(cmd *cobra.Command, args []string) error {
	if filesService == nil {
		return errors.New("files service not configured")
	}

	since, err := parseTimeFlag(filesSearchSince)
	if err != nil {
		return err
	}

	items, err := filesService.Search(cmd.Context(), filesSearchDrive, args[0], domain.FileSearchOptions{
		Type:  filesSearchType,
		Since: since,
		Limit: filesSearchMax,
	})
	if err != nil {
		return err
	}

	if len(items) == 0 {
		cmd.Println("No files found")
		return nil
	}

	for _, item := range items {
		cmd.Printf("%10s  %s  %s\n",
			formatSize(item.Size), formatTime(item.LastModifiedDateTime), itemPath(item))
	}
	cmd.Printf("\n%d result(s)\n", len(items))
	return nil
}

func runFilesDownload(cmd *cobra.Command, args []string) error {
	if filesService == nil {
		return errors.New("files service not configured")
	}

	path, err := filesService.Download(cmd.Context(), filesDownloadDrive, args[0], filesDownloadOut)
	if err != nil {
		return err
	}
	cmd.Printf("Downloaded to %s\n", path)
	return nil
}

func runFilesUpload(cmd *cobra.Command, args []string) error {
	if filesService == nil {
		return errors.New("files service not configured")
	}

	remoteDir := ""
	if len(args) > 1 {
		remoteDir = args[1]
	}

	item, err := filesService.Upload(cmd.Context(), filesUploadDrive, args[0], remoteDir)
	if err != nil {
		return err
	}
	cmd.Printf("Uploaded %s (%s)\n", itemPath(*item), formatSize(item.Size))
	return nil
}

func runFilesDelete(cmd *cobra.Command, args []string) error {
	if filesService == nil {
		return errors.New("files service not configured")
	}

	if err := filesService.Delete(cmd.Context(), filesDeleteDrive, args[0]); err != nil {
		return err
	}
	cmd.Printf("Deleted %s\n", args[0])
	return nil
}

func runFilesMkdir(cmd *cobra.Command, args []string) error {
	if filesService == nil {
		return errors.New("files service not configured")
	}

	full := strings.Trim(args[0], "/")
	parent, name := "", full
	if idx := strings.LastIndex(full, "/"); idx >= 0 {
		parent, name = full[:idx], full[idx+1:]
	}

	item, err := filesService.Mkdir(cmd.Context(), filesMkdirDrive, parent, name)
	if err != nil {
		return err
	}
	cmd.Printf("Created folder %s\n", itemPath(*item))
	return nil
}

// itemPath renders an item's drive-relative path. parentReference.path
// has the shape "/drives/{id}/root:/Documents"; everything after the
// "root:" marker is the folder path.
func itemPath(item domain.DriveItem) string {
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
