package domain

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ParseSince interprets a human time expression relative to now.
// Accepted forms:
//
//	2026-01-15            calendar date (midnight local)
//	2026-01-15T09:30:00Z  RFC 3339 timestamp
//	today, yesterday, tomorrow
//	3 days, 2 weeks ago, -45 minutes, +1 month
//
// Day and larger units move by calendar arithmetic so "1 month ago" on
// March 31st lands on the right date rather than a fixed hour count.
func ParseSince(expr string, now time.Time) (time.Time, error) {
	s := strings.TrimSpace(strings.ToLower(expr))
	if s == "" {
		return time.Time{}, fmt.Errorf("%w: empty time expression", ErrInvalidInput)
	}

	switch s {
	case "now":
		return now, nil
	case "today":
		return startOfDay(now), nil
	case "yesterday":
		return startOfDay(now).AddDate(0, 0, -1), nil
	case "tomorrow":
		return startOfDay(now).AddDate(0, 0, 1), nil
	}

	for _, layout := range []string{time.RFC3339, "2006-01-02T15:04:05", "2006-01-02 15:04", "2006-01-02"} {
		if t, err := time.ParseInLocation(layout, strings.TrimSpace(expr), now.Location()); err == nil {
			return t, nil
		}
	}

	return parseRelative(s, now)
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// parseRelative handles "[+|-]N unit [ago]" expressions. A trailing
// "ago" or a leading minus both mean the past; a bare "N unit" defaults
// to the past as well, since callers overwhelmingly filter backwards.
func parseRelative(s string, now time.Time) (time.Time, error) {
	fields := strings.Fields(s)
	past := true
	if len(fields) > 0 && fields[len(fields)-1] == "ago" {
		fields = fields[:len(fields)-1]
	}
	if len(fields) != 2 {
		return time.Time{}, fmt.Errorf("%w: cannot parse time expression %q", ErrInvalidInput, s)
	}

	numStr := fields[0]
	if strings.HasPrefix(numStr, "+") {
		past = false
		numStr = numStr[1:]
	} else if strings.HasPrefix(numStr, "-") {
		numStr = numStr[1:]
	}
	n, err := strconv.Atoi(numStr)
	if err != nil || n < 0 {
		return time.Time{}, fmt.Errorf("%w: cannot parse time expression %q", ErrInvalidInput, s)
	}
	if past {
		n = -n
	}

	switch strings.TrimSuffix(fields[1], "s") {
	case "second", "sec":
		return now.Add(time.Duration(n) * time.Second), nil
	case "minute", "min":
		return now.Add(time.Duration(n) * time.Minute), nil
	case "hour", "hr":
		return now.Add(time.Duration(n) * time.Hour), nil
	case "day":
		return now.AddDate(0, 0, n), nil
	case "week":
		return now.AddDate(0, 0, 7*n), nil
	case "month":
		return now.AddDate(0, n, 0), nil
	case "year":
		return now.AddDate(n, 0, 0), nil
	}
	return time.Time{}, fmt.Errorf("%w: unknown time unit %q", ErrInvalidInput, fields[1])
}
