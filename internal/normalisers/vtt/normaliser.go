// Package vtt decodes WebVTT transcript content, the format Teams
// meeting transcripts are delivered in, into transcript cues.
package vtt

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/trinoor/o365-cli/internal/core/domain"
	"github.com/trinoor/o365-cli/internal/core/ports/driven"
)

// Ensure Normaliser implements the interface.
var _ driven.TranscriptParser = (*Normaliser)(nil)

// Normaliser handles WebVTT transcript content.
type Normaliser struct{}

// New creates a new WebVTT normaliser.
func New() *Normaliser {
	return &Normaliser{}
}

// Parse reads WebVTT content and returns its cues in order.
func (n *Normaliser) Parse(r io.Reader) (domain.Transcript, error) {
	return Parse(r)
}

// Parse reads WebVTT content and returns its cues in order. Voice
// spans (<v Speaker>) become the cue speaker; other markup is
// stripped. Malformed cues are skipped rather than failing the whole
// transcript.
func Parse(r io.Reader) (domain.Transcript, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	if !scanner.Scan() {
		if err := scanner.Err(); err != nil {
			return nil, fmt.Errorf("read transcript: %w", err)
		}
		return nil, fmt.Errorf("empty transcript")
	}
	header := strings.TrimPrefix(strings.TrimSpace(scanner.Text()), "\uFEFF")
	if !strings.HasPrefix(header, "WEBVTT") {
		return nil, fmt.Errorf("not a WebVTT transcript")
	}

	var cues domain.Transcript
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if strings.HasPrefix(line, "NOTE") || strings.HasPrefix(line, "STYLE") || strings.HasPrefix(line, "REGION") {
			skipBlock(scanner)
			continue
		}
		if !strings.Contains(line, "-->") {
			// Cue identifier; the timing line follows.
			continue
		}

		start, end, err := parseTiming(line)
		if err != nil {
			skipBlock(scanner)
			continue
		}

		var payload []string
		for scanner.Scan() {
			text := strings.TrimSpace(scanner.Text())
			if text == "" {
				break
			}
			payload = append(payload, text)
		}

		speaker, text := parseVoice(strings.Join(payload, " "))
		if text == "" {
			continue
		}
		cues = append(cues, domain.TranscriptCue{
			Start:   start,
			End:     end,
			Speaker: speaker,
			Text:    text,
		})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read transcript: %w", err)
	}
	return cues, nil
}

// skipBlock consumes lines until the blank line ending the current
// block.
func skipBlock(scanner *bufio.Scanner) {
	for scanner.Scan() {
		if strings.TrimSpace(scanner.Text()) == "" {
			return
		}
	}
}

// parseTiming decodes a "start --> end" line. Cue settings after the
// end timestamp are ignored.
func parseTiming(line string) (start, end time.Duration, err error) {
	parts := strings.SplitN(line, "-->", 2)
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("bad timing line %q", line)
	}

	start, err = parseTimestamp(strings.TrimSpace(parts[0]))
	if err != nil {
		return 0, 0, err
	}

	endFields := strings.Fields(strings.TrimSpace(parts[1]))
	if len(endFields) == 0 {
		return 0, 0, fmt.Errorf("bad timing line %q", line)
	}
	end, err = parseTimestamp(endFields[0])
	if err != nil {
		return 0, 0, err
	}
	return start, end, nil
}

// parseTimestamp decodes "HH:MM:SS.mmm" with optional hours. Teams
// emits unpadded components ("0:0:5.12"), so each part is parsed as a
// plain integer.
func parseTimestamp(s string) (time.Duration, error) {
	parts := strings.Split(s, ":")
	if len(parts) < 2 || len(parts) > 3 {
		return 0, fmt.Errorf("bad timestamp %q", s)
	}

	secPart := parts[len(parts)-1]
	millis := "0"
	if i := strings.IndexByte(secPart, '.'); i >= 0 {
		secPart, millis = secPart[:i], secPart[i+1:]
	}
	for len(millis) < 3 {
		millis += "0"
	}
	if len(millis) > 3 {
		millis = millis[:3]
	}

	var hours int
	fields := parts
	if len(parts) == 3 {
		h, err := strconv.Atoi(parts[0])
		if err != nil {
			return 0, fmt.Errorf("bad timestamp %q", s)
		}
		hours = h
		fields = parts[1:]
	}
	minutes, err := strconv.Atoi(fields[0])
	if err != nil {
		return 0, fmt.Errorf("bad timestamp %q", s)
	}
	seconds, err := strconv.Atoi(secPart)
	if err != nil {
		return 0, fmt.Errorf("bad timestamp %q", s)
	}
	ms, err := strconv.Atoi(millis)
	if err != nil {
		return 0, fmt.Errorf("bad timestamp %q", s)
	}

	return time.Duration(hours)*time.Hour +
		time.Duration(minutes)*time.Minute +
		time.Duration(seconds)*time.Second +
		time.Duration(ms)*time.Millisecond, nil
}

// parseVoice splits a cue payload into speaker and text. The speaker
// comes from a leading <v Name> span when present.
func parseVoice(payload string) (speaker, text string) {
	if !strings.HasPrefix(payload, "<v") {
		return "", stripTags(payload)
	}
	end := strings.IndexByte(payload, '>')
	if end < 0 {
		return "", stripTags(payload)
	}

	tag := payload[2:end] // ".class Speaker Name" or " Speaker Name"
	if i := strings.IndexFunc(tag, unicode.IsSpace); i >= 0 {
		speaker = strings.TrimSpace(tag[i+1:])
	}
	return speaker, stripTags(payload[end+1:])
}

// stripTags removes markup spans, keeping their text content.
func stripTags(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	inTag := false
	for _, r := range s {
		switch {
		case r == '<':
			inTag = true
		case r == '>':
			inTag = false
		case !inTag:
			b.WriteRune(r)
		}
	}
	return strings.TrimSpace(b.String())
}
