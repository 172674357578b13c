package domain

import (
	"strings"
	"time"
)

// RecordingListOptions narrows a recordings listing. Zero values leave
// the corresponding dimension unconstrained.
type RecordingListOptions struct {
	// Since drops recordings created before the given instant.
	Since time.Time
	// Before drops recordings created after the given instant.
	Before time.Time
	// Limit caps the number of recordings returned. Zero means the
	// default of 50.
	Limit int
}

// DefaultRecordingLimit is applied when RecordingListOptions.Limit is
// zero.
const DefaultRecordingLimit = 50

// EffectiveLimit resolves the configured limit against the default.
func (o RecordingListOptions) EffectiveLimit() int {
	if o.Limit > 0 {
		return o.Limit
	}
	return DefaultRecordingLimit
}

// Accepts reports whether a recording created at the given time passes
// the Since and Before filters.
func (o RecordingListOptions) Accepts(created time.Time) bool {
	if !o.Since.IsZero() && created.Before(o.Since) {
		return false
	}
	if !o.Before.IsZero() && created.After(o.Before) {
		return false
	}
	return true
}

// TranscriptCue is one timed caption from a meeting transcript.
type TranscriptCue struct {
	Start   time.Duration
	End     time.Duration
	Speaker string
	Text    string
}

// Transcript is an ordered list of cues.
type Transcript []TranscriptCue

// Speakers returns the distinct speaker names in first-appearance
// order. Cues without a speaker tag are skipped.
func (t Transcript) Speakers() []string {
	seen := make(map[string]struct{}, 4)
	var out []string
	for _, cue := range t {
		if cue.Speaker == "" {
			continue
		}
		if _, ok := seen[cue.Speaker]; ok {
			continue
		}
		seen[cue.Speaker] = struct{}{}
		out = append(out, cue.Speaker)
	}
	return out
}

// PlainText renders the transcript as "Speaker: text" lines,
// collapsing runs of consecutive cues from the same speaker into one
// paragraph.
func (t Transcript) PlainText() string {
	var b strings.Builder
	var lastSpeaker string
	for i, cue := range t {
		switch {
		case i == 0 || cue.Speaker != lastSpeaker:
			if i > 0 {
				b.WriteString("\n")
			}
			if cue.Speaker != "" {
				b.WriteString(cue.Speaker)
				b.WriteString(": ")
			}
		default:
			b.WriteString(" ")
		}
		b.WriteString(cue.Text)
		lastSpeaker = cue.Speaker
	}
	return b.String()
}

// Duration returns the end time of the last cue.
func (t Transcript) Duration() time.Duration {
	if len(t) == 0 {
		return 0
	}
	return t[len(t)-1].End
}
