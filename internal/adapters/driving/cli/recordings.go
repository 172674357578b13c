package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/trinoor/o365-cli/internal/core/domain"
)

var recordingsCmd = &cobra.Command{
	Use:   "recordings",
	Short: "List and fetch Teams meeting recordings",
	Long: `List and fetch Teams meeting recordings.

Recordings are the video files Teams saves into the OneDrive Recordings
folder. Download and transcript accept a recording's item ID or any
unique part of its name.

Examples:
  # Recent recordings
  o365 recordings list

  # Everything from a recurring meeting
  o365 recordings search standup

  # Read a meeting transcript
  o365 recordings transcript "Planning 2026-08-20"`,
}

var recordingsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recordings, newest first",
	RunE:  runRecordingsList,
}

var recordingsSearchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search recordings by name",
	Args:  cobra.ExactArgs(1),
	RunE:  runRecordingsSearch,
}

var recordingsDownloadCmd = &cobra.Command{
	Use:   "download <name>",
	Short: "Download a recording",
	Args:  cobra.ExactArgs(1),
	RunE:  runRecordingsDownload,
}

var recordingsTranscriptCmd = &cobra.Command{
	Use:   "transcript <name>",
	Short: "Show a recording's transcript",
	Args:  cobra.ExactArgs(1),
	RunE:  runRecordingsTranscript,
}

// Flags for the recordings commands.
var (
	recordingsListMax    int
	recordingsListSince  string
	recordingsListBefore string

	recordingsSearchMax   int
	recordingsSearchSince string

	recordingsDownloadOut string

	recordingsTranscriptJSON bool
	recordingsTranscriptRaw  bool
)

func init() {
	recordingsListCmd.Flags().IntVar(
		&recordingsListMax, "max", 0, "Maximum recordings to return (default 50)")
	recordingsListCmd.Flags().StringVar(
		&recordingsListSince, "since", "", "Only recordings since this time")
	recordingsListCmd.Flags().StringVar(
		&recordingsListBefore, "before", "", "Only recordings before this time")

	recordingsSearchCmd.Flags().IntVar(
		&recordingsSearchMax, "max", 0, "Maximum results (default 50)")
	recordingsSearchCmd.Flags().StringVar(
		&recordingsSearchSince, "since", "", "Only recordings since this time")

	recordingsDownloadCmd.Flags().StringVarP(
		&recordingsDownloadOut, "output", "o", "", "Destination directory (default .)")

	recordingsTranscriptCmd.Flags().BoolVar(
		&recordingsTranscriptJSON, "json", false, "Output cues as JSON")
	recordingsTranscriptCmd.Flags().BoolVar(
		&recordingsTranscriptRaw, "raw", false, "Output the unparsed WebVTT text")

	recordingsCmd.AddCommand(recordingsListCmd)
	recordingsCmd.AddCommand(recordingsSearchCmd)
	recordingsCmd.AddCommand(recordingsDownloadCmd)
	recordingsCmd.AddCommand(recordingsTranscriptCmd)
	rootCmd.AddCommand(recordingsCmd)
}

func runRecordingsList(cmd *cobra.Command, _ []string) error {
	if recordingsService == nil {
		return errors.New("recordings service not configured")
	}

	since, err := parseTimeFlag(recordingsListSince)
	if err != nil {
		return err
	}
	before, err := parseTimeFlag(recordingsListBefore)
	if err != nil {
		return err
	}

	recordings, err := recordingsService.List(cmd.Context(), domain.RecordingListOptions{
		Since:  since,
		Before: before,
		Limit:  recordingsListMax,
	})
	if err != nil {
		return err
	}

	printRecordings(cmd, recordings)
	return nil
}

func runRecordingsSearch(cmd *cobra.Command, args []string) error {
	if recordingsService == nil {
		return errors.New("recordings service not configured")
	}

	since, err := parseTimeFlag(recordingsSearchSince)
	if err != nil {
		return err
	}

	recordings, err := recordingsService.Search(cmd.Context(), args[0], domain.RecordingListOptions{
		Since: since,
		Limit: recordingsSearchMax,
	})
	if err != nil {
		return err
	}

	printRecordings(cmd, recordings)
	return nil
}

func runRecordingsDownload(cmd *cobra.Command, args []string) error {
	if recordingsService == nil {
		return errors.New("recordings service not configured")
	}
	ctx := cmd.Context()

	rec, err := findRecording(ctx, args[0])
	if err != nil {
		return err
	}

	cmd.Printf("Downloading %s (%s)...\n", rec.Name, formatSize(rec.Size))
	path, err := recordingsService.Download(ctx, rec.ID, recordingsDownloadOut)
	if err != nil {
		return err
	}
	cmd.Printf("Downloaded to %s\n", path)
	return nil
}

func runRecordingsTranscript(cmd *cobra.Command, args []string) error {
	if recordingsService == nil {
		return errors.New("recordings service not configured")
	}
	ctx := cmd.Context()

	rec, err := findRecording(ctx, args[0])
	if err != nil {
		return err
	}

	if recordingsTranscriptRaw {
		raw, err := recordingsService.RawTranscript(ctx, rec.ID)
		if err != nil {
			return err
		}
		cmd.Println(raw)
		return nil
	}

	transcript, err := recordingsService.Transcript(ctx, rec.ID)
	if err != nil {
		return err
	}

	if recordingsTranscriptJSON {
		return outputJSON(cmd, transcriptView(transcript))
	}

	if speakers := transcript.Speakers(); len(speakers) > 0 {
		cmd.Printf("Speakers: %s\n\n", strings.Join(speakers, ", "))
	}
	cmd.Println(transcript.PlainText())
	return nil
}

// printRecordings renders a numbered recordings listing.
func printRecordings(cmd *cobra.Command, recordings []domain.DriveItem) {
	if len(recordings) == 0 {
		cmd.Println("No recordings found")
		return
	}

	for i, r := range recordings {
		cmd.Printf("%d. %s\n", i+1, r.Name)
		cmd.Printf("   %s  %s\n", formatTime(r.CreatedDateTime), formatSize(r.Size))
		cmd.Printf("   id: %s\n\n", r.ID)
	}
	cmd.Println("Use 'o365 recordings download <name>' to download a recording")
	cmd.Println("Use 'o365 recordings transcript <name>' to read its transcript")
}

// findRecording resolves a name or item ID to a single recording. An
// exact ID or name wins; otherwise a name fragment must match exactly
// one recording.
func findRecording(ctx context.Context, ref string) (*domain.DriveItem, error) {
	recordings, err := recordingsService.List(ctx, domain.RecordingListOptions{Limit: 500})
	if err != nil {
		return nil, err
	}

	needle := strings.ToLower(ref)
	var matches []domain.DriveItem
	for _, r := range recordings {
		if r.ID == ref || r.Name == ref {
			rec := r
			return &rec, nil
		}
		if strings.Contains(strings.ToLower(r.Name), needle) {
			matches = append(matches, r)
		}
	}

	switch len(matches) {
	case 0:
		return nil, fmt.Errorf("%w: no recording matching %q", domain.ErrNotFound, ref)
	case 1:
		return &matches[0], nil
	}
	names := make([]string, 0, len(matches))
	for _, m := range matches {
		names = append(names, m.Name)
	}
	return nil, fmt.Errorf("%w: %q matches several recordings: %s",
		domain.ErrInvalidInput, ref, strings.Join(names, ", "))
}

// transcriptCueView is the JSON shape of one transcript cue.
type transcriptCueView struct {
	Start   string `json:"start"`
	End     string `json:"end"`
	Speaker string `json:"speaker,omitempty"`
	Text    string `json:"text"`
}

// transcriptView renders a transcript with durations as strings.
func transcriptView(t domain.Transcript) map[string]any {
	cues := make([]transcriptCueView, 0, len(t))
	for _, cue := range t {
		cues = append(cues, transcriptCueView{
			Start:   cue.Start.String(),
			End:     cue.End.String(),
			Speaker: cue.Speaker,
			Text:    cue.Text,
		})
	}
	return map[string]any{
		"speakers": t.Speakers(),
		"duration": t.Duration().String(),
		"cues":     cues,
	}
}
