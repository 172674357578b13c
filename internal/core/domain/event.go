package domain

import (
	"fmt"
	"strings"
	"time"
)

// DateTimeZone is the API's split date-time representation.
type DateTimeZone struct {
	// DateTime is a local timestamp like "2024-03-01T09:00:00.0000000".
	DateTime string `json:"dateTime,omitempty"`
	TimeZone string `json:"timeZone,omitempty"`
}

// Time parses the DateTime field, trying the fractional-seconds shape
// the API emits first. Returns the zero time when unparseable.
func (d DateTimeZone) Time() time.Time {
	for _, layout := range []string{
		"2006-01-02T15:04:05.9999999",
		"2006-01-02T15:04:05",
		time.RFC3339,
	} {
		if t, err := time.Parse(layout, d.DateTime); err == nil {
			return t
		}
	}
	return time.Time{}
}

// Event is a calendar event.
type Event struct {
	ID               string       `json:"id"`
	Subject          string       `json:"subject,omitempty"`
	Start            DateTimeZone `json:"start,omitempty"`
	End              DateTimeZone `json:"end,omitempty"`
	Location         *Location    `json:"location,omitempty"`
	Organizer        *Recipient   `json:"organizer,omitempty"`
	Attendees        []Attendee   `json:"attendees,omitempty"`
	BodyPreview      string       `json:"bodyPreview,omitempty"`
	IsOnlineMeeting  bool         `json:"isOnlineMeeting,omitempty"`
	OnlineMeeting    *OnlineInfo  `json:"onlineMeeting,omitempty"`
	IsAllDay         bool         `json:"isAllDay,omitempty"`
	ResponseRequired bool         `json:"responseRequested,omitempty"`
}

// Location is an event location.
type Location struct {
	DisplayName string `json:"displayName,omitempty"`
}

// Attendee is an event participant with their role.
type Attendee struct {
	EmailAddress EmailAddress `json:"emailAddress"`
	Type         string       `json:"type,omitempty"`
}

// OnlineInfo carries the join link for online meetings.
type OnlineInfo struct {
	JoinURL string `json:"joinUrl,omitempty"`
}

// JoinURL returns the online meeting link, empty when not a meeting.
func (e *Event) JoinURL() string {
	if e.OnlineMeeting == nil {
		return ""
	}
	return e.OnlineMeeting.JoinURL
}

// Calendar is a calendar the user can read, own or shared.
type Calendar struct {
	ID    string        `json:"id"`
	Name  string        `json:"name,omitempty"`
	Owner *EmailAddress `json:"owner,omitempty"`
}

// CreateEventInput describes a new calendar event.
type CreateEventInput struct {
	Subject  string
	Start    time.Time
	End      time.Time
	TimeZone string
	Location string
	// Attendees are required participants; OptionalAttendees are
	// invited but not expected.
	Attendees         []string
	OptionalAttendees []string
	Body              string
	// Online requests a Teams meeting link for the event.
	Online bool
}

// EventResponse is the answer sent to a meeting invitation.
type EventResponse string

const (
	ResponseAccept    EventResponse = "accept"
	ResponseTentative EventResponse = "tentativelyAccept"
	ResponseDecline   EventResponse = "decline"
)

// ParseEventResponse maps user-facing spellings onto the API action
// names.
func ParseEventResponse(s string) (EventResponse, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "accept", "yes":
		return ResponseAccept, nil
	case "tentative", "tentativelyaccept", "maybe":
		return ResponseTentative, nil
	case "decline", "no":
		return ResponseDecline, nil
	}
	return "", fmt.Errorf("%w: unknown response %q (accept, tentative, decline)", ErrInvalidInput, s)
}

// AgendaOptions selects the window and calendar for an agenda view.
type AgendaOptions struct {
	// From and To bound the window. Zero values default to the
	// start of today and seven days out.
	From time.Time
	To   time.Time
	// CalendarID selects a non-default calendar when set.
	CalendarID string
	// Limit caps the number of events returned. Zero means 50.
	Limit int
}

// Window resolves the configured bounds against now, applying the
// defaults for unset edges.
func (o AgendaOptions) Window(now time.Time) (time.Time, time.Time) {
	from := o.From
	if from.IsZero() {
		from = startOfDay(now)
	}
	to := o.To
	if to.IsZero() {
		to = from.AddDate(0, 0, 7)
	}
	return from, to
}
