package driving

import (
	"context"

	"github.com/trinoor/o365-cli/internal/core/domain"
)

// MailService exposes mailbox operations to external actors.
type MailService interface {
	// List returns messages from a well-known or named folder,
	// newest first.
	List(ctx context.Context, folder string, opts domain.MailListOptions) ([]domain.MailMessage, error)

	// Get fetches a single message with its full body.
	Get(ctx context.Context, id string) (*domain.MailMessage, error)

	// Send composes and sends a new message. Recipients may be bare
	// addresses or names resolvable through the contacts service.
	Send(ctx context.Context, input domain.SendMailInput) error

	// Reply answers a message, optionally to all recipients.
	Reply(ctx context.Context, id, comment string, replyAll bool) error

	// Forward sends an existing message on to new recipients.
	Forward(ctx context.Context, id string, to []string, comment string) error

	// Move relocates a message to another folder.
	Move(ctx context.Context, id, folder string) (*domain.MailMessage, error)

	// Delete moves a message to Deleted Items.
	Delete(ctx context.Context, id string) error

	// MarkRead flips a message's read flag.
	MarkRead(ctx context.Context, id string, read bool) error

	// Folders lists the mailbox's folders with unread counts.
	Folders(ctx context.Context) ([]domain.MailFolder, error)

	// Attachments lists a message's attachments.
	Attachments(ctx context.Context, id string) ([]domain.Attachment, error)

	// SaveAttachment downloads one attachment into dir and returns
	// the written path.
	SaveAttachment(ctx context.Context, messageID, attachmentID, dir string) (string, error)
}
