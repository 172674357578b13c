package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/trinoor/o365-cli/internal/core/domain"
	"github.com/trinoor/o365-cli/internal/core/ports/driven"
	"github.com/trinoor/o365-cli/internal/core/ports/driving"
	"github.com/trinoor/o365-cli/internal/logger"
)

// Ensure ContactsService implements the interface.
var _ driving.ContactsService = (*ContactsService)(nil)

// contactsPageSize is the page size hint for the contacts listing.
// The address book is small enough to fetch aggressively.
const contactsPageSize = 999

// ContactsService resolves people from the personal address book and
// the owners of calendars shared with the user.
type ContactsService struct {
	graph driven.GraphClient
}

// NewContactsService creates a new contacts service.
func NewContactsService(graph driven.GraphClient) *ContactsService {
	return &ContactsService{graph: graph}
}

// Contacts returns the personal address book entries.
func (s *ContactsService) Contacts(ctx context.Context) ([]domain.Contact, error) {
	pager := s.graph.List("me/contacts", domain.ListOptions{Top: contactsPageSize})
	items, pageErr := pager.All(ctx)

	contacts := make([]domain.Contact, 0, len(items))
	for _, raw := range items {
		var c domain.Contact
		if err := json.Unmarshal(raw, &c); err != nil {
			return nil, fmt.Errorf("decode contact: %w", err)
		}
		contacts = append(contacts, c)
	}
	return contacts, pageErr
}

// People returns contacts merged with shared-calendar owners,
// deduplicated by email. Contacts win over calendar owners, and
// entries without an email address are dropped. A failure listing
// calendars degrades to contacts only.
func (s *ContactsService) People(ctx context.Context) ([]domain.Person, error) {
	contacts, err := s.Contacts(ctx)
	if err != nil {
		return nil, err
	}

	people := make([]domain.Person, 0, len(contacts))
	for i := range contacts {
		email := contacts[i].PrimaryEmail()
		if email == "" {
			continue
		}
		people = append(people, domain.Person{
			Name:   contacts[i].DisplayName,
			Email:  strings.ToLower(email),
			Source: domain.PersonSourceContact,
		})
	}

	owners, err := s.calendarOwners(ctx)
	if err != nil {
		logger.Debug("shared-calendar owners unavailable: %v", err)
	}
	people = append(people, owners...)

	return domain.DedupePeople(people), nil
}

// Search finds people matching a name or email fragment. A query that
// looks like an email address matches only exactly; otherwise the
// query matches names and addresses by substring.
func (s *ContactsService) Search(ctx context.Context, query string) ([]domain.Person, error) {
	people, err := s.People(ctx)
	if err != nil {
		return nil, err
	}
	return domain.FilterPeople(people, query), nil
}

// Resolve narrows a query to exactly one person.
func (s *ContactsService) Resolve(ctx context.Context, query string) (*domain.Person, error) {
	people, err := s.People(ctx)
	if err != nil {
		return nil, err
	}
	return domain.MatchPeople(people, query)
}

// calendarOwners lists the user's calendars and projects their owners
// into people.
func (s *ContactsService) calendarOwners(ctx context.Context) ([]domain.Person, error) {
	var resp struct {
		Value []domain.Calendar `json:"value"`
	}
	if err := s.graph.GetJSON(ctx, "me/calendars", &resp); err != nil {
		return nil, err
	}

	owners := make([]domain.Person, 0, len(resp.Value))
	for _, cal := range resp.Value {
		if cal.Owner == nil || cal.Owner.Address == "" {
			continue
		}
		owners = append(owners, domain.Person{
			Name:   cal.Owner.Name,
			Email:  strings.ToLower(cal.Owner.Address),
			Source: domain.PersonSourceCalendar,
		})
	}
	return owners, nil
}
