package mcp

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/trinoor/o365-cli/internal/core/domain"
)

// ListCalendarEventsInput is the input schema for the list_calendar_events tool.
type ListCalendarEventsInput struct {
	From     string `json:"from,omitempty" jsonschema:"start of the window, e.g. today or 2024-06-01 (default start of today)"`
	To       string `json:"to,omitempty" jsonschema:"end of the window, e.g. '+2 weeks' (default seven days out)"`
	Calendar string `json:"calendar,omitempty" jsonschema:"calendar ID to read instead of the default calendar"`
	Limit    int    `json:"limit,omitempty" jsonschema:"maximum number of events to return (default 50)"`
}

// ListCalendarEventsOutput is the output schema for the list_calendar_events tool.
type ListCalendarEventsOutput struct {
	Events []EventSummary `json:"events"`
	Count  int            `json:"count"`
}

// EventSummary is one event in an agenda listing.
type EventSummary struct {
	ID        string   `json:"id"`
	Subject   string   `json:"subject"`
	Start     string   `json:"start,omitempty"`
	End       string   `json:"end,omitempty"`
	AllDay    bool     `json:"all_day,omitempty"`
	Location  string   `json:"location,omitempty"`
	Organizer string   `json:"organizer,omitempty"`
	Attendees []string `json:"attendees,omitempty"`
	Online    bool     `json:"online,omitempty"`
	JoinURL   string   `json:"join_url,omitempty"`
	Preview   string   `json:"preview,omitempty"`
}

// handleListCalendarEvents handles the list_calendar_events tool invocation.
func (s *Server) handleListCalendarEvents(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input ListCalendarEventsInput,
) (*mcp.CallToolResult, ListCalendarEventsOutput, error) {
	from, err := parseWhen(input.From)
	if err != nil {
		return nil, ListCalendarEventsOutput{}, err
	}
	to, err := parseWhen(input.To)
	if err != nil {
		return nil, ListCalendarEventsOutput{}, err
	}

	opts := domain.AgendaOptions{
		From:       from,
		To:         to,
		CalendarID: input.Calendar,
		Limit:      input.Limit,
	}
	events, err := s.ports.Calendar.Agenda(ctx, opts)
	if err != nil {
		return nil, ListCalendarEventsOutput{}, err
	}

	output := ListCalendarEventsOutput{
		Events: make([]EventSummary, len(events)),
		Count:  len(events),
	}
	for i := range events {
		output.Events[i] = summarizeEvent(&events[i])
	}

	return nil, output, nil
}

// CreateCalendarEventInput is the input schema for the create_calendar_event tool.
type CreateCalendarEventInput struct {
	Subject           string   `json:"subject" jsonschema:"the event subject"`
	Start             string   `json:"start" jsonschema:"start time, e.g. '2024-06-10 14:00' or 'tomorrow'"`
	End               string   `json:"end,omitempty" jsonschema:"end time (default one hour after start)"`
	Location          string   `json:"location,omitempty" jsonschema:"the event location"`
	Attendees         []string `json:"attendees,omitempty" jsonschema:"required attendee email addresses"`
	OptionalAttendees []string `json:"optional_attendees,omitempty" jsonschema:"optional attendee email addresses"`
	Body              string   `json:"body,omitempty" jsonschema:"the event description"`
	Online            bool     `json:"online,omitempty" jsonschema:"create a Teams meeting link for the event"`
}

// CreateCalendarEventOutput is the output schema for the create_calendar_event tool.
type CreateCalendarEventOutput struct {
	Event EventSummary `json:"event"`
}

// handleCreateCalendarEvent handles the create_calendar_event tool invocation.
func (s *Server) handleCreateCalendarEvent(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input CreateCalendarEventInput,
) (*mcp.CallToolResult, CreateCalendarEventOutput, error) {
	start, err := parseWhen(input.Start)
	if err != nil {
		return nil, CreateCalendarEventOutput{}, err
	}
	if start.IsZero() {
		return nil, CreateCalendarEventOutput{}, fmt.Errorf("%w: start time is required", domain.ErrInvalidInput)
	}
	end, err := parseWhen(input.End)
	if err != nil {
		return nil, CreateCalendarEventOutput{}, err
	}

	event, err := s.ports.Calendar.Create(ctx, domain.CreateEventInput{
		Subject:           input.Subject,
		Start:             start,
		End:               end,
		Location:          input.Location,
		Attendees:         input.Attendees,
		OptionalAttendees: input.OptionalAttendees,
		Body:              input.Body,
		Online:            input.Online,
	})
	if err != nil {
		return nil, CreateCalendarEventOutput{}, err
	}

	return nil, CreateCalendarEventOutput{Event: summarizeEvent(event)}, nil
}

// DeleteCalendarEventInput is the input schema for the delete_calendar_event tool.
type DeleteCalendarEventInput struct {
	ID string `json:"id" jsonschema:"the event ID from a list_calendar_events result"`
}

// DeleteCalendarEventOutput is the output schema for the delete_calendar_event tool.
type DeleteCalendarEventOutput struct {
	Deleted bool `json:"deleted"`
}

// handleDeleteCalendarEvent handles the delete_calendar_event tool invocation.
func (s *Server) handleDeleteCalendarEvent(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input DeleteCalendarEventInput,
) (*mcp.CallToolResult, DeleteCalendarEventOutput, error) {
	if err := s.ports.Calendar.Delete(ctx, input.ID); err != nil {
		return nil, DeleteCalendarEventOutput{}, err
	}
	return nil, DeleteCalendarEventOutput{Deleted: true}, nil
}

// summarizeEvent flattens an event for tool output.
func summarizeEvent(e *domain.Event) EventSummary {
	out := EventSummary{
		ID:      e.ID,
		Subject: e.Subject,
		Start:   stamp(e.Start.Time()),
		End:     stamp(e.End.Time()),
		AllDay:  e.IsAllDay,
		Online:  e.IsOnlineMeeting,
		JoinURL: e.JoinURL(),
		Preview: e.BodyPreview,
	}
	if e.Location != nil {
		out.Location = e.Location.DisplayName
	}
	if e.Organizer != nil {
		if e.Organizer.EmailAddress.Name != "" {
			out.Organizer = e.Organizer.EmailAddress.Name
		} else {
			out.Organizer = e.Organizer.EmailAddress.Address
		}
	}
	for _, a := range e.Attendees {
		addr := a.EmailAddress.Address
		if addr == "" {
			addr = a.EmailAddress.Name
		}
		if addr != "" {
			out.Attendees = append(out.Attendees, addr)
		}
	}
	return out
}
