package driving

import (
	"context"

	"github.com/trinoor/o365-cli/internal/core/domain"
)

// CalendarService exposes calendar operations to external actors.
type CalendarService interface {
	// Agenda returns events overlapping the window, ordered by start.
	Agenda(ctx context.Context, opts domain.AgendaOptions) ([]domain.Event, error)

	// Get fetches a single event.
	Get(ctx context.Context, id string) (*domain.Event, error)

	// Calendars lists the user's calendars.
	Calendars(ctx context.Context) ([]domain.Calendar, error)

	// FindCalendarByOwner locates a shared calendar by its owner's
	// email address. Returns domain.ErrNotFound when no calendar
	// from that owner is shared with the user.
	FindCalendarByOwner(ctx context.Context, email string) (*domain.Calendar, error)

	// Create schedules a new event and returns it as stored.
	Create(ctx context.Context, input domain.CreateEventInput) (*domain.Event, error)

	// Respond accepts, tentatively accepts, or declines an invitation.
	Respond(ctx context.Context, id string, response domain.EventResponse, comment string) error

	// Delete cancels and removes an event.
	Delete(ctx context.Context, id string) error
}
