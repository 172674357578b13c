package mcp

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/trinoor/o365-cli/internal/core/domain"
)

// ReadEmailsInput is the input schema for the read_emails tool.
type ReadEmailsInput struct {
	Folder     string `json:"folder,omitempty" jsonschema:"mailbox folder to read, e.g. inbox or sent (default inbox)"`
	Limit      int    `json:"limit,omitempty" jsonschema:"maximum number of messages to return (default 25)"`
	UnreadOnly bool   `json:"unread_only,omitempty" jsonschema:"return only unread messages"`
	Search     string `json:"search,omitempty" jsonschema:"free-text query over subject, sender, and body"`
	Since      string `json:"since,omitempty" jsonschema:"only messages received since this time, e.g. 2024-06-01 or '3 days ago'"`
}

// ReadEmailsOutput is the output schema for the read_emails tool.
type ReadEmailsOutput struct {
	Messages []EmailSummary `json:"messages"`
	Count    int            `json:"count"`
}

// EmailSummary is one message in a mailbox listing.
type EmailSummary struct {
	ID             string `json:"id"`
	Subject        string `json:"subject"`
	From           string `json:"from,omitempty"`
	Received       string `json:"received,omitempty"`
	IsRead         bool   `json:"is_read"`
	HasAttachments bool   `json:"has_attachments,omitempty"`
	Preview        string `json:"preview,omitempty"`
}

// handleReadEmails handles the read_emails tool invocation.
func (s *Server) handleReadEmails(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input ReadEmailsInput,
) (*mcp.CallToolResult, ReadEmailsOutput, error) {
	since, err := parseWhen(input.Since)
	if err != nil {
		return nil, ReadEmailsOutput{}, err
	}

	opts := domain.MailListOptions{
		Limit:      input.Limit,
		UnreadOnly: input.UnreadOnly,
		Search:     input.Search,
		Since:      since,
	}
	messages, err := s.ports.Mail.List(ctx, input.Folder, opts)
	if err != nil {
		return nil, ReadEmailsOutput{}, err
	}

	output := ReadEmailsOutput{
		Messages: make([]EmailSummary, len(messages)),
		Count:    len(messages),
	}
	for i := range messages {
		m := &messages[i]
		output.Messages[i] = EmailSummary{
			ID:             m.ID,
			Subject:        m.Subject,
			From:           m.Sender(),
			Received:       stamp(m.ReceivedDateTime),
			IsRead:         m.IsRead,
			HasAttachments: m.HasAttachments,
			Preview:        m.BodyPreview,
		}
	}

	return nil, output, nil
}

// GetEmailContentInput is the input schema for the get_email_content tool.
type GetEmailContentInput struct {
	ID string `json:"id" jsonschema:"the message ID from a read_emails result"`
}

// GetEmailContentOutput is the output schema for the get_email_content tool.
type GetEmailContentOutput struct {
	ID             string   `json:"id"`
	Subject        string   `json:"subject"`
	From           string   `json:"from,omitempty"`
	To             []string `json:"to,omitempty"`
	Cc             []string `json:"cc,omitempty"`
	Received       string   `json:"received,omitempty"`
	Body           string   `json:"body"`
	BodyType       string   `json:"body_type,omitempty"`
	HasAttachments bool     `json:"has_attachments,omitempty"`
}

// handleGetEmailContent handles the get_email_content tool invocation.
func (s *Server) handleGetEmailContent(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input GetEmailContentInput,
) (*mcp.CallToolResult, GetEmailContentOutput, error) {
	msg, err := s.ports.Mail.Get(ctx, input.ID)
	if err != nil {
		return nil, GetEmailContentOutput{}, err
	}

	output := GetEmailContentOutput{
		ID:             msg.ID,
		Subject:        msg.Subject,
		From:           msg.Sender(),
		To:             addresses(msg.ToRecipients),
		Cc:             addresses(msg.CcRecipients),
		Received:       stamp(msg.ReceivedDateTime),
		Body:           msg.BodyPreview,
		HasAttachments: msg.HasAttachments,
	}
	if msg.Body != nil {
		output.Body = msg.Body.Content
		output.BodyType = msg.Body.ContentType
	}

	return nil, output, nil
}

// SendEmailInput is the input schema for the send_email tool.
type SendEmailInput struct {
	To      []string `json:"to" jsonschema:"recipient email addresses"`
	Cc      []string `json:"cc,omitempty" jsonschema:"carbon-copy email addresses"`
	Subject string   `json:"subject" jsonschema:"the message subject"`
	Body    string   `json:"body" jsonschema:"the message body as plain text"`
	HTML    bool     `json:"html,omitempty" jsonschema:"send the body as HTML instead of plain text"`
}

// SendEmailOutput is the output schema for the send_email tool.
type SendEmailOutput struct {
	Sent bool `json:"sent"`
}

// handleSendEmail handles the send_email tool invocation.
func (s *Server) handleSendEmail(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input SendEmailInput,
) (*mcp.CallToolResult, SendEmailOutput, error) {
	err := s.ports.Mail.Send(ctx, domain.SendMailInput{
		To:              input.To,
		Cc:              input.Cc,
		Subject:         input.Subject,
		Body:            input.Body,
		HTML:            input.HTML,
		SaveToSentItems: true,
	})
	if err != nil {
		return nil, SendEmailOutput{}, err
	}

	return nil, SendEmailOutput{Sent: true}, nil
}

// addresses flattens recipients to their bare email addresses.
func addresses(recipients []domain.Recipient) []string {
	if len(recipients) == 0 {
		return nil
	}
	out := make([]string, len(recipients))
	for i, r := range recipients {
		out[i] = r.EmailAddress.Address
	}
	return out
}
