package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/trinoor/o365-cli/internal/core/domain"
	"github.com/trinoor/o365-cli/internal/core/ports/driven"
	"github.com/trinoor/o365-cli/internal/core/ports/driving"
	"github.com/trinoor/o365-cli/internal/logger"
)

// Ensure CalendarService implements the interface.
var _ driving.CalendarService = (*CalendarService)(nil)

const defaultAgendaLimit = 50

// CalendarService reads and writes calendar events.
type CalendarService struct {
	graph driven.GraphClient

	// now is replaceable for tests.
	now func() time.Time
}

// NewCalendarService creates a new calendar service.
func NewCalendarService(graph driven.GraphClient) *CalendarService {
	return &CalendarService{graph: graph, now: time.Now}
}

// Agenda returns events overlapping the window, ordered by start. The
// calendar view expands recurring events into their occurrences.
func (s *CalendarService) Agenda(ctx context.Context, opts domain.AgendaOptions) ([]domain.Event, error) {
	from, to := opts.Window(s.now())
	if !to.After(from) {
		return nil, fmt.Errorf("%w: window end %s is not after start %s", domain.ErrInvalidInput, to.Format(time.RFC3339), from.Format(time.RFC3339))
	}
	limit := opts.Limit
	if limit <= 0 {
		limit = defaultAgendaLimit
	}

	base := "me/calendarView"
	if opts.CalendarID != "" {
		base = "me/calendars/" + opts.CalendarID + "/calendarView"
	}
	window := url.Values{}
	window.Set("startDateTime", from.UTC().Format(time.RFC3339))
	window.Set("endDateTime", to.UTC().Format(time.RFC3339))

	listOpts := domain.ListOptions{
		Top:      limit,
		MaxItems: limit,
		OrderBy:  "start/dateTime",
	}
	items, pageErr := s.graph.List(base+"?"+window.Encode(), listOpts).All(ctx)

	events := make([]domain.Event, 0, len(items))
	for _, raw := range items {
		var e domain.Event
		if err := json.Unmarshal(raw, &e); err != nil {
			return events, fmt.Errorf("decode event: %w", err)
		}
		events = append(events, e)
	}
	return events, pageErr
}

// Get fetches a single event.
func (s *CalendarService) Get(ctx context.Context, id string) (*domain.Event, error) {
	var e domain.Event
	if err := s.graph.GetJSON(ctx, "me/events/"+id, &e); err != nil {
		return nil, fmt.Errorf("get event %s: %w", id, err)
	}
	return &e, nil
}

// Calendars lists the user's calendars, own and shared.
func (s *CalendarService) Calendars(ctx context.Context) ([]domain.Calendar, error) {
	var envelope struct {
		Value []domain.Calendar `json:"value"`
	}
	if err := s.graph.GetJSON(ctx, "me/calendars", &envelope); err != nil {
		return nil, fmt.Errorf("list calendars: %w", err)
	}
	return envelope.Value, nil
}

// FindCalendarByOwner locates a shared calendar by its owner's email
// address.
func (s *CalendarService) FindCalendarByOwner(ctx context.Context, email string) (*domain.Calendar, error) {
	calendars, err := s.Calendars(ctx)
	if err != nil {
		return nil, err
	}
	for i := range calendars {
		owner := calendars[i].Owner
		if owner != nil && strings.EqualFold(owner.Address, email) {
			return &calendars[i], nil
		}
	}
	return nil, fmt.Errorf("%w: no shared calendar owned by %s", domain.ErrNotFound, email)
}

// Create schedules a new event on the default calendar and returns it
// as stored.
func (s *CalendarService) Create(ctx context.Context, input domain.CreateEventInput) (*domain.Event, error) {
	if input.Subject == "" {
		return nil, fmt.Errorf("%w: empty subject", domain.ErrInvalidInput)
	}
	if input.Start.IsZero() {
		return nil, fmt.Errorf("%w: missing start time", domain.ErrInvalidInput)
	}
	end := input.End
	if end.IsZero() {
		end = input.Start.Add(time.Hour)
	}
	if !end.After(input.Start) {
		return nil, fmt.Errorf("%w: event ends before it starts", domain.ErrInvalidInput)
	}
	tz := input.TimeZone
	if tz == "" {
		tz = "UTC"
	}

	payload := map[string]any{
		"subject": input.Subject,
		"start":   eventTime(input.Start, tz),
		"end":     eventTime(end, tz),
	}
	if input.Body != "" {
		payload["body"] = domain.ItemBody{ContentType: "text", Content: input.Body}
	}
	if input.Location != "" {
		payload["location"] = domain.Location{DisplayName: input.Location}
	}
	attendees := buildAttendees(input.Attendees, "required")
	attendees = append(attendees, buildAttendees(input.OptionalAttendees, "optional")...)
	if len(attendees) > 0 {
		payload["attendees"] = attendees
	}
	if input.Online {
		payload["isOnlineMeeting"] = true
		payload["onlineMeetingProvider"] = "teamsForBusiness"
	}

	raw, err := s.graph.Post(ctx, "me/events", payload)
	if err != nil {
		return nil, fmt.Errorf("create event: %w", err)
	}
	var e domain.Event
	if err := json.Unmarshal(raw, &e); err != nil {
		return nil, fmt.Errorf("decode created event: %w", err)
	}
	logger.Info("Created event %q", e.Subject)
	return &e, nil
}

// Respond accepts, tentatively accepts, or declines an invitation. The
// organizer is notified.
func (s *CalendarService) Respond(ctx context.Context, id string, response domain.EventResponse, comment string) error {
	payload := map[string]any{"sendResponse": true}
	if comment != "" {
		payload["comment"] = comment
	}
	if _, err := s.graph.Post(ctx, "me/events/"+id+"/"+string(response), payload); err != nil {
		return fmt.Errorf("%s event %s: %w", response, id, err)
	}
	return nil
}

// Delete cancels and removes an event.
func (s *CalendarService) Delete(ctx context.Context, id string) error {
	if err := s.graph.Delete(ctx, "me/events/"+id); err != nil {
		return fmt.Errorf("delete event %s: %w", id, err)
	}
	return nil
}

// eventTime renders t in the API's split date-time shape. The wall
// clock is expressed in the named zone, which the API requires to
// interpret it.
func eventTime(t time.Time, tz string) domain.DateTimeZone {
	if tz == "UTC" {
		t = t.UTC()
	}
	return domain.DateTimeZone{
		DateTime: t.Format("2006-01-02T15:04:05"),
		TimeZone: tz,
	}
}

func buildAttendees(addrs []string, role string) []domain.Attendee {
	if len(addrs) == 0 {
		return nil
	}
	out := make([]domain.Attendee, 0, len(addrs))
	for _, a := range addrs {
		a = strings.TrimSpace(a)
		if a == "" {
			continue
		}
		out = append(out, domain.Attendee{
			EmailAddress: domain.EmailAddress{Address: a},
			Type:         role,
		})
	}
	return out
}
