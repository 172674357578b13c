package driving

import (
	"context"
	"time"

	"github.com/trinoor/o365-cli/internal/core/domain"
)

// ChatService exposes Teams chat operations to external actors.
type ChatService interface {
	// List returns the user's chats, most recently active first.
	// filter narrows by topic or member name when non-empty.
	List(ctx context.Context, filter string, limit int) ([]domain.Chat, error)

	// Resolve finds a single chat by ID, topic, or member name.
	// Returns domain.ErrNotFound or domain.ErrInvalidInput when the
	// reference matches zero or several chats.
	Resolve(ctx context.Context, ref string) (*domain.Chat, error)

	// History returns a chat's messages, oldest first, optionally
	// bounded by a start time.
	History(ctx context.Context, ref string, limit int, since time.Time) ([]domain.ChatMessage, error)

	// Send posts a text message to a chat.
	Send(ctx context.Context, ref, text string) (*domain.ChatMessage, error)

	// Search finds messages matching query across chats.
	Search(ctx context.Context, query string, opts domain.SearchOptions) ([]domain.MessageMatch, error)
}
