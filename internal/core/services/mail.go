package services

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/trinoor/o365-cli/internal/core/domain"
	"github.com/trinoor/o365-cli/internal/core/ports/driven"
	"github.com/trinoor/o365-cli/internal/core/ports/driving"
	"github.com/trinoor/o365-cli/internal/logger"
)

// Ensure MailService implements the interface.
var _ driving.MailService = (*MailService)(nil)

const defaultMailLimit = 25

// wellKnownFolders maps user-facing folder names onto the Graph
// well-known folder identifiers.
var wellKnownFolders = map[string]string{
	"inbox":        "inbox",
	"drafts":       "drafts",
	"sent":         "sentitems",
	"sentitems":    "sentitems",
	"deleted":      "deleteditems",
	"deleteditems": "deleteditems",
	"trash":        "deleteditems",
	"junk":         "junkemail",
	"junkemail":    "junkemail",
	"spam":         "junkemail",
	"archive":      "archive",
	"outbox":       "outbox",
}

// MailService reads and writes mailbox messages. Recipient arguments
// that are not addresses are resolved through the contacts service.
type MailService struct {
	graph    driven.GraphClient
	contacts driving.ContactsService
}

// NewMailService creates a new mail service.
func NewMailService(graph driven.GraphClient, contacts driving.ContactsService) *MailService {
	return &MailService{graph: graph, contacts: contacts}
}

// List returns messages from a folder, newest first. When a search
// query is set the other filters are applied locally, since the API
// rejects $search combined with $filter or $orderby.
func (s *MailService) List(ctx context.Context, folder string, opts domain.MailListOptions) ([]domain.MailMessage, error) {
	folderID, err := s.resolveFolder(ctx, folder)
	if err != nil {
		return nil, err
	}

	limit := opts.Limit
	if limit <= 0 {
		limit = defaultMailLimit
	}
	top := limit
	if opts.PageSize > 0 {
		top = opts.PageSize
	}

	listOpts := domain.ListOptions{Top: top, MaxItems: limit}
	if opts.Search != "" {
		listOpts.Search = fmt.Sprintf("%q", opts.Search)
		// Leave room for the local unread/since pass to discard.
		if opts.UnreadOnly || !opts.Since.IsZero() {
			listOpts.MaxItems = 0
		}
	} else {
		listOpts.OrderBy = "receivedDateTime desc"
		var filters []string
		if opts.UnreadOnly {
			filters = append(filters, "isRead eq false")
		}
		if !opts.Since.IsZero() {
			filters = append(filters, fmt.Sprintf("receivedDateTime ge %s", opts.Since.UTC().Format(time.RFC3339)))
		}
		listOpts.Filter = strings.Join(filters, " and ")
	}

	items, pageErr := s.graph.List("me/mailFolders/"+folderID+"/messages", listOpts).All(ctx)

	messages := make([]domain.MailMessage, 0, len(items))
	for _, raw := range items {
		var m domain.MailMessage
		if err := json.Unmarshal(raw, &m); err != nil {
			return messages, fmt.Errorf("decode message: %w", err)
		}
		if opts.Search != "" {
			if opts.UnreadOnly && m.IsRead {
				continue
			}
			if !opts.Since.IsZero() && m.ReceivedDateTime.Before(opts.Since) {
				continue
			}
		}
		messages = append(messages, m)
		if len(messages) >= limit {
			break
		}
	}
	if pageErr != nil && len(messages) < limit {
		return messages, pageErr
	}
	return messages, nil
}

// Get fetches a single message with its full body.
func (s *MailService) Get(ctx context.Context, id string) (*domain.MailMessage, error) {
	var m domain.MailMessage
	if err := s.graph.GetJSON(ctx, "me/messages/"+id, &m); err != nil {
		return nil, fmt.Errorf("get message %s: %w", id, err)
	}
	return &m, nil
}

// Send composes and sends a new message.
func (s *MailService) Send(ctx context.Context, input domain.SendMailInput) error {
	if len(input.To) == 0 {
		return fmt.Errorf("%w: no recipients", domain.ErrInvalidInput)
	}
	if input.Subject == "" {
		return fmt.Errorf("%w: empty subject", domain.ErrInvalidInput)
	}

	to, err := s.resolveRecipients(ctx, input.To)
	if err != nil {
		return err
	}
	cc, err := s.resolveRecipients(ctx, input.Cc)
	if err != nil {
		return err
	}
	bcc, err := s.resolveRecipients(ctx, input.Bcc)
	if err != nil {
		return err
	}

	contentType := "text"
	if input.HTML {
		contentType = "html"
	}
	message := map[string]any{
		"subject":      input.Subject,
		"body":         domain.ItemBody{ContentType: contentType, Content: input.Body},
		"toRecipients": to,
	}
	if len(cc) > 0 {
		message["ccRecipients"] = cc
	}
	if len(bcc) > 0 {
		message["bccRecipients"] = bcc
	}

	payload := map[string]any{
		"message":         message,
		"saveToSentItems": input.SaveToSentItems,
	}
	if _, err := s.graph.Post(ctx, "me/sendMail", payload); err != nil {
		return fmt.Errorf("send mail: %w", err)
	}
	logger.Info("Sent %q to %d recipient(s)", input.Subject, len(to)+len(cc)+len(bcc))
	return nil
}

// Reply answers a message, optionally to all recipients.
func (s *MailService) Reply(ctx context.Context, id, comment string, replyAll bool) error {
	action := "reply"
	if replyAll {
		action = "replyAll"
	}
	payload := map[string]any{"comment": comment}
	if _, err := s.graph.Post(ctx, "me/messages/"+id+"/"+action, payload); err != nil {
		return fmt.Errorf("%s to message %s: %w", action, id, err)
	}
	return nil
}

// Forward sends an existing message on to new recipients.
func (s *MailService) Forward(ctx context.Context, id string, to []string, comment string) error {
	if len(to) == 0 {
		return fmt.Errorf("%w: no recipients", domain.ErrInvalidInput)
	}
	recipients, err := s.resolveRecipients(ctx, to)
	if err != nil {
		return err
	}
	payload := map[string]any{
		"comment":      comment,
		"toRecipients": recipients,
	}
	if _, err := s.graph.Post(ctx, "me/messages/"+id+"/forward", payload); err != nil {
		return fmt.Errorf("forward message %s: %w", id, err)
	}
	return nil
}

// Move relocates a message to another folder and returns the moved
// copy, whose ID differs from the original.
func (s *MailService) Move(ctx context.Context, id, folder string) (*domain.MailMessage, error) {
	folderID, err := s.resolveFolder(ctx, folder)
	if err != nil {
		return nil, err
	}
	raw, err := s.graph.Post(ctx, "me/messages/"+id+"/move", map[string]any{"destinationId": folderID})
	if err != nil {
		return nil, fmt.Errorf("move message %s: %w", id, err)
	}
	var m domain.MailMessage
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, fmt.Errorf("decode moved message: %w", err)
	}
	return &m, nil
}

// Delete moves a message to Deleted Items.
func (s *MailService) Delete(ctx context.Context, id string) error {
	if err := s.graph.Delete(ctx, "me/messages/"+id); err != nil {
		return fmt.Errorf("delete message %s: %w", id, err)
	}
	return nil
}

// MarkRead flips a message's read flag.
func (s *MailService) MarkRead(ctx context.Context, id string, read bool) error {
	if _, err := s.graph.Patch(ctx, "me/messages/"+id, map[string]any{"isRead": read}); err != nil {
		return fmt.Errorf("mark message %s: %w", id, err)
	}
	return nil
}

// Folders lists the mailbox's folders with unread counts.
func (s *MailService) Folders(ctx context.Context) ([]domain.MailFolder, error) {
	items, pageErr := s.graph.List("me/mailFolders", domain.ListOptions{}).All(ctx)
	folders := make([]domain.MailFolder, 0, len(items))
	for _, raw := range items {
		var f domain.MailFolder
		if err := json.Unmarshal(raw, &f); err != nil {
			return folders, fmt.Errorf("decode folder: %w", err)
		}
		folders = append(folders, f)
	}
	return folders, pageErr
}

// Attachments lists a message's attachments.
func (s *MailService) Attachments(ctx context.Context, id string) ([]domain.Attachment, error) {
	var envelope struct {
		Value []domain.Attachment `json:"value"`
	}
	if err := s.graph.GetJSON(ctx, "me/messages/"+id+"/attachments", &envelope); err != nil {
		return nil, fmt.Errorf("list attachments of %s: %w", id, err)
	}
	return envelope.Value, nil
}

// SaveAttachment downloads one attachment into dir and returns the
// written path.
func (s *MailService) SaveAttachment(ctx context.Context, messageID, attachmentID, dir string) (string, error) {
	var att domain.Attachment
	if err := s.graph.GetJSON(ctx, "me/messages/"+messageID+"/attachments/"+attachmentID, &att); err != nil {
		return "", fmt.Errorf("get attachment %s: %w", attachmentID, err)
	}
	name := att.Name
	if name == "" {
		name = attachmentID
	}

	body, err := s.graph.Download(ctx, "me/messages/"+messageID+"/attachments/"+attachmentID+"/$value")
	if err != nil {
		return "", fmt.Errorf("download attachment %s: %w", attachmentID, err)
	}
	defer body.Close()

	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create directory %s: %w", dir, err)
	}
	dest := filepath.Join(dir, filepath.Base(name))
	if err := writeStream(dest, body); err != nil {
		return "", err
	}
	logger.Debug("saved attachment %s to %s", name, dest)
	return dest, nil
}

// resolveFolder turns a user-facing folder name into a folder path
// segment. Well-known names map directly; anything else is matched
// against folder display names.
func (s *MailService) resolveFolder(ctx context.Context, folder string) (string, error) {
	name := strings.ToLower(strings.TrimSpace(folder))
	if name == "" {
		return "inbox", nil
	}
	if id, ok := wellKnownFolders[name]; ok {
		return id, nil
	}

	folders, err := s.Folders(ctx)
	if err != nil {
		return "", fmt.Errorf("resolve folder %q: %w", folder, err)
	}
	for _, f := range folders {
		if strings.EqualFold(f.DisplayName, folder) {
			return f.ID, nil
		}
	}
	return "", fmt.Errorf("%w: folder %q", domain.ErrNotFound, folder)
}

// resolveRecipients expands each entry into an addressed recipient.
// Entries containing "@" pass through unchanged; others are looked up
// in contacts.
func (s *MailService) resolveRecipients(ctx context.Context, entries []string) ([]domain.Recipient, error) {
	if len(entries) == 0 {
		return nil, nil
	}
	out := make([]domain.Recipient, 0, len(entries))
	for _, entry := range entries {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		if strings.Contains(entry, "@") {
			out = append(out, domain.Recipient{EmailAddress: domain.EmailAddress{Address: entry}})
			continue
		}
		person, err := s.contacts.Resolve(ctx, entry)
		if err != nil {
			return nil, fmt.Errorf("resolve recipient %q: %w", entry, err)
		}
		logger.Debug("resolved %q to %s", entry, person.Email)
		out = append(out, domain.Recipient{EmailAddress: domain.EmailAddress{Name: person.Name, Address: person.Email}})
	}
	return out, nil
}
