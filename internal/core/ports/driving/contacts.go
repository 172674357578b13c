package driving

import (
	"context"

	"github.com/trinoor/o365-cli/internal/core/domain"
)

// ContactsService exposes the address book to external actors.
type ContactsService interface {
	// Contacts returns the personal address book entries.
	Contacts(ctx context.Context) ([]domain.Contact, error)

	// People returns contacts merged with shared-calendar owners,
	// deduplicated by email.
	People(ctx context.Context) ([]domain.Person, error)

	// Search finds people matching a name or email fragment. An
	// exact email address returns only its owner.
	Search(ctx context.Context, query string) ([]domain.Person, error)

	// Resolve narrows a query to exactly one person. Returns
	// domain.ErrAmbiguousRecipient when several match and
	// domain.ErrNotFound when none do.
	Resolve(ctx context.Context, query string) (*domain.Person, error)
}
