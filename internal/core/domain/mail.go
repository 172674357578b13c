package domain

import "time"

// EmailAddress is a name/address pair as the API represents it.
type EmailAddress struct {
	Name    string `json:"name,omitempty"`
	Address string `json:"address,omitempty"`
}

// Recipient wraps an EmailAddress the way message payloads nest it.
type Recipient struct {
	EmailAddress EmailAddress `json:"emailAddress"`
}

// ItemBody is message or event body content with its format.
type ItemBody struct {
	// ContentType is "text" or "html".
	ContentType string `json:"contentType,omitempty"`
	Content     string `json:"content,omitempty"`
}

// MailMessage is a mailbox message.
type MailMessage struct {
	ID               string      `json:"id"`
	Subject          string      `json:"subject,omitempty"`
	From             *Recipient  `json:"from,omitempty"`
	ToRecipients     []Recipient `json:"toRecipients,omitempty"`
	CcRecipients     []Recipient `json:"ccRecipients,omitempty"`
	ReceivedDateTime time.Time   `json:"receivedDateTime,omitempty"`
	IsRead           bool        `json:"isRead,omitempty"`
	HasAttachments   bool        `json:"hasAttachments,omitempty"`
	BodyPreview      string      `json:"bodyPreview,omitempty"`
	Body             *ItemBody   `json:"body,omitempty"`
	WebLink          string      `json:"webLink,omitempty"`
}

// Sender returns the display name of the sender, falling back to the
// address when no name is set.
func (m *MailMessage) Sender() string {
	if m.From == nil {
		return ""
	}
	if m.From.EmailAddress.Name != "" {
		return m.From.EmailAddress.Name
	}
	return m.From.EmailAddress.Address
}

// MailFolder is a mailbox folder with its message counts.
type MailFolder struct {
	ID               string `json:"id"`
	DisplayName      string `json:"displayName,omitempty"`
	UnreadItemCount  int    `json:"unreadItemCount,omitempty"`
	TotalItemCount   int    `json:"totalItemCount,omitempty"`
	ChildFolderCount int    `json:"childFolderCount,omitempty"`
}

// Attachment is a message attachment's metadata. Content is fetched
// separately through the attachment's $value segment.
type Attachment struct {
	ID          string `json:"id"`
	Name        string `json:"name,omitempty"`
	ContentType string `json:"contentType,omitempty"`
	Size        int64  `json:"size,omitempty"`
	IsInline    bool   `json:"isInline,omitempty"`
}

// MailListOptions narrows a folder listing. Zero values leave the
// corresponding dimension unconstrained.
type MailListOptions struct {
	// Limit caps the number of messages returned. Zero means the
	// folder listing default of 25.
	Limit int
	// PageSize overrides the per-request page size. Zero requests
	// pages of Limit.
	PageSize int
	// UnreadOnly keeps only unread messages.
	UnreadOnly bool
	// Search is a free-text query over subject, sender, and body.
	Search string
	// Since drops messages received before the given instant.
	Since time.Time
}

// SendMailInput describes an outgoing message.
type SendMailInput struct {
	To      []string
	Cc      []string
	Bcc     []string
	Subject string
	Body    string
	// HTML sends the body as text/html instead of text/plain.
	HTML bool
	// SaveToSentItems mirrors the Graph flag; the CLI always saves.
	SaveToSentItems bool
}

// ToRecipients converts a list of addresses into API recipient shapes.
func ToRecipients(addrs []string) []Recipient {
	if len(addrs) == 0 {
		return nil
	}
	out := make([]Recipient, len(addrs))
	for i, a := range addrs {
		out[i] = Recipient{EmailAddress: EmailAddress{Address: a}}
	}
	return out
}
