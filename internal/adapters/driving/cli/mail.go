package cli

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/trinoor/o365-cli/internal/core/domain"
)

var mailCmd = &cobra.Command{
	Use:   "mail",
	Short: "Read, send, and organise mail",
	Long: `Read, send, and organise mailbox messages.

Folders accept well-known names (inbox, sent, drafts, deleted, junk,
archive) or the display name of any custom folder. Recipients accept
email addresses or contact names; names are resolved through the
address book and must match exactly one person.

Examples:
  # Twenty most recent unread messages
  o365 mail list --unread --max 20

  # Everything since yesterday in the Archive folder
  o365 mail list --folder archive --since yesterday

  # Read one message
  o365 mail read AAMkAGI2...

  # Send from a pipe
  git log -1 | o365 mail send --to bob@example.com --subject "Latest commit"`,
}

var mailListCmd = &cobra.Command{
	Use:   "list",
	Short: "List messages in a folder",
	RunE:  runMailList,
}

var mailReadCmd = &cobra.Command{
	Use:   "read <id>",
	Short: "Show a message with its full body",
	Args:  cobra.ExactArgs(1),
	RunE:  runMailRead,
}

var mailSendCmd = &cobra.Command{
	Use:   "send",
	Short: "Compose and send a message",
	Long: `Compose and send a message. The body comes from --body when given,
otherwise from standard input.`,
	RunE: runMailSend,
}

var mailReplyCmd = &cobra.Command{
	Use:   "reply <id>",
	Short: "Reply to a message",
	Args:  cobra.ExactArgs(1),
	RunE:  runMailReply,
}

var mailForwardCmd = &cobra.Command{
	Use:   "forward <id>",
	Short: "Forward a message",
	Args:  cobra.ExactArgs(1),
	RunE:  runMailForward,
}

var mailMoveCmd = &cobra.Command{
	Use:   "move <id> <folder>",
	Short: "Move a message to another folder",
	Args:  cobra.ExactArgs(2),
	RunE:  runMailMove,
}

var mailDeleteCmd = &cobra.Command{
	Use:   "delete <id>...",
	Short: "Move messages to Deleted Items",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runMailDelete,
}

var mailMarkCmd = &cobra.Command{
	Use:   "mark <id>...",
	Short: "Mark messages as read or unread",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runMailMark,
}

var mailFoldersCmd = &cobra.Command{
	Use:   "folders",
	Short: "List mail folders with unread counts",
	RunE:  runMailFolders,
}

var mailAttachmentsCmd = &cobra.Command{
	Use:   "attachments <id>",
	Short: "List or save a message's attachments",
	Args:  cobra.ExactArgs(1),
	RunE:  runMailAttachments,
}

// Flags for the mail commands.
var (
	mailListFolder string
	mailListTop    int
	mailListMax    int
	mailListSince  string
	mailListUnread bool
	mailListSearch string
	mailListJSON   bool

	mailReadJSON bool

	mailSendTo      []string
	mailSendCc      []string
	mailSendBcc     []string
	mailSendSubject string
	mailSendBody    string
	mailSendHTML    bool

	mailReplyAll  bool
	mailReplyBody string

	mailForwardTo   []string
	mailForwardBody string

	mailMarkUnread bool

	mailAttachmentsSave string
)

func init() {
	mailListCmd.Flags().StringVar(
		&mailListFolder, "folder", "", "Folder to list (default inbox)")
	mailListCmd.Flags().IntVar(
		&mailListTop, "top", 0, "Messages to fetch per request")
	mailListCmd.Flags().IntVar(
		&mailListMax, "max", 0, "Maximum messages to return (default 25)")
	mailListCmd.Flags().StringVar(
		&mailListSince, "since", "", "Only messages since this time (e.g. '2 days ago')")
	mailListCmd.Flags().BoolVar(
		&mailListUnread, "unread", false, "Only unread messages")
	mailListCmd.Flags().StringVar(
		&mailListSearch, "search", "", "Free-text search over subject, sender, and body")
	mailListCmd.Flags().BoolVar(
		&mailListJSON, "json", false, "Output as JSON")

	mailReadCmd.Flags().BoolVar(
		&mailReadJSON, "json", false, "Output as JSON")

	mailSendCmd.Flags().StringArrayVar(
		&mailSendTo, "to", nil, "Recipient address or contact name (repeatable)")
	mailSendCmd.Flags().StringArrayVar(
		&mailSendCc, "cc", nil, "Cc recipient (repeatable)")
	mailSendCmd.Flags().StringArrayVar(
		&mailSendBcc, "bcc", nil, "Bcc recipient (repeatable)")
	mailSendCmd.Flags().StringVar(
		&mailSendSubject, "subject", "", "Message subject")
	mailSendCmd.Flags().StringVar(
		&mailSendBody, "body", "", "Message body (default: read from stdin)")
	mailSendCmd.Flags().BoolVar(
		&mailSendHTML, "html", false, "Send the body as HTML")
	_ = mailSendCmd.MarkFlagRequired("to")
	_ = mailSendCmd.MarkFlagRequired("subject")

	mailReplyCmd.Flags().BoolVar(
		&mailReplyAll, "all", false, "Reply to all recipients")
	mailReplyCmd.Flags().StringVar(
		&mailReplyBody, "body", "", "Reply text (default: read from stdin)")

	mailForwardCmd.Flags().StringArrayVar(
		&mailForwardTo, "to", nil, "Recipient address or contact name (repeatable)")
	mailForwardCmd.Flags().StringVar(
		&mailForwardBody, "body", "", "Comment to send with the forward")
	_ = mailForwardCmd.MarkFlagRequired("to")

	mailMarkCmd.Flags().BoolVar(
		&mailMarkUnread, "unread", false, "Mark as unread instead of read")

	mailAttachmentsCmd.Flags().StringVar(
		&mailAttachmentsSave, "save", "", "Download all attachments into this directory")

	mailCmd.AddCommand(mailListCmd)
	mailCmd.AddCommand(mailReadCmd)
	mailCmd.AddCommand(mailSendCmd)
	mailCmd.AddCommand(mailReplyCmd)
	mailCmd.AddCommand(mailForwardCmd)
	mailCmd.AddCommand(mailMoveCmd)
	mailCmd.AddCommand(mailDeleteCmd)
	mailCmd.AddCommand(mailMarkCmd)
	mailCmd.AddCommand(mailFoldersCmd)
	mailCmd.AddCommand(mailAttachmentsCmd)
	rootCmd.AddCommand(mailCmd)
}

func runMailList(cmd *cobra.Command, _ []string) error {
	if mailService == nil {
		return errors.New("mail service not configured")
	}

	since, err := parseTimeFlag(mailListSince)
	if err != nil {
		return err
	}

	messages, err := mailService.List(cmd.Context(), mailListFolder, domain.MailListOptions{
		Limit:      mailListMax,
		PageSize:   mailListTop,
		UnreadOnly: mailListUnread,
		Search:     mailListSearch,
		Since:      since,
	})
	if err != nil {
		return err
	}

	if mailListJSON {
		return outputJSON(cmd, messages)
	}

	if len(messages) == 0 {
		cmd.Println("No messages found")
		return nil
	}

	for _, m := range messages {
		marker := " "
		if !m.IsRead {
			marker = "*"
		}
		attach := ""
		if m.HasAttachments {
			attach = " [a]"
		}
		cmd.Printf("%s %s  %-24s %s%s\n",
			marker, formatTime(m.ReceivedDateTime), truncate(m.Sender(), 24), m.Subject, attach)
		cmd.Printf("    id: %s\n", m.ID)
	}
	cmd.Printf("\n%d message(s); * marks unread\n", len(messages))
	return nil
}

func runMailRead(cmd *cobra.Command, args []string) error {
	if mailService == nil {
		return errors.New("mail service not configured")
	}

	m, err := mailService.Get(cmd.Context(), args[0])
	if err != nil {
		return err
	}

	if mailReadJSON {
		return outputJSON(cmd, m)
	}

	cmd.Printf("From:    %s\n", formatSender(m.From))
	if len(m.ToRecipients) > 0 {
		cmd.Printf("To:      %s\n", formatRecipients(m.ToRecipients))
	}
	if len(m.CcRecipients) > 0 {
		cmd.Printf("Cc:      %s\n", formatRecipients(m.CcRecipients))
	}
	cmd.Printf("Date:    %s\n", formatTime(m.ReceivedDateTime))
	cmd.Printf("Subject: %s\n\n", m.Subject)

	switch {
	case m.Body != nil && m.Body.Content != "":
		cmd.Println(m.Body.Content)
	case m.BodyPreview != "":
		cmd.Println(m.BodyPreview)
	}
	return nil
}

func runMailSend(cmd *cobra.Command, _ []string) error {
	if mailService == nil {
		return errors.New("mail service not configured")
	}

	body, err := bodyOrStdin(cmd, mailSendBody)
	if err != nil {
		return err
	}

	err = mailService.Send(cmd.Context(), domain.SendMailInput{
		To:              mailSendTo,
		Cc:              mailSendCc,
		Bcc:             mailSendBcc,
		Subject:         mailSendSubject,
		Body:            body,
		HTML:            mailSendHTML,
		SaveToSentItems: true,
	})
	if err != nil {
		return err
	}

	cmd.Println("Message sent.")
	return nil
}

func runMailReply(cmd *cobra.Command, args []string) error {
	if mailService == nil {
		return errors.New("mail service not configured")
	}

	body, err := bodyOrStdin(cmd, mailReplyBody)
	if err != nil {
		return err
	}

	if err := mailService.Reply(cmd.Context(), args[0], body, mailReplyAll); err != nil {
		return err
	}
	cmd.Println("Reply sent.")
	return nil
}

func runMailForward(cmd *cobra.Command, args []string) error {
	if mailService == nil {
		return errors.New("mail service not configured")
	}

	if err := mailService.Forward(cmd.Context(), args[0], mailForwardTo, mailForwardBody); err != nil {
		return err
	}
	cmd.Println("Message forwarded.")
	return nil
}

func runMailMove(cmd *cobra.Command, args []string) error {
	if mailService == nil {
		return errors.New("mail service not configured")
	}

	moved, err := mailService.Move(cmd.Context(), args[0], args[1])
	if err != nil {
		return err
	}

	// Moving a message changes its ID; print the new one so it can
	// be referenced again.
	cmd.Printf("Moved to %s\n", args[1])
	cmd.Printf("New id: %s\n", moved.ID)
	return nil
}

func runMailDelete(cmd *cobra.Command, args []string) error {
	if mailService == nil {
		return errors.New("mail service not configured")
	}

	for _, id := range args {
		if err := mailService.Delete(cmd.Context(), id); err != nil {
			return fmt.Errorf("delete %s: %w", id, err)
		}
		cmd.Printf("Deleted %s\n", id)
	}
	return nil
}

func runMailMark(cmd *cobra.Command, args []string) error {
	if mailService == nil {
		return errors.New("mail service not configured")
	}

	state := "read"
	if mailMarkUnread {
		state = "unread"
	}
	for _, id := range args {
		if err := mailService.MarkRead(cmd.Context(), id, !mailMarkUnread); err != nil {
			return fmt.Errorf("mark %s: %w", id, err)
		}
	}
	cmd.Printf("Marked %d message(s) as %s\n", len(args), state)
	return nil
}

func runMailFolders(cmd *cobra.Command, _ []string) error {
	if mailService == nil {
		return errors.New("mail service not configured")
	}

	folders, err := mailService.Folders(cmd.Context())
	if err != nil {
		return err
	}

	for _, f := range folders {
		cmd.Printf("%-28s %5d unread / %d total\n",
			f.DisplayName, f.UnreadItemCount, f.TotalItemCount)
	}
	return nil
}

func runMailAttachments(cmd *cobra.Command, args []string) error {
	if mailService == nil {
		return errors.New("mail service not configured")
	}
	ctx := cmd.Context()

	attachments, err := mailService.Attachments(ctx, args[0])
	if err != nil {
		return err
	}

	if len(attachments) == 0 {
		cmd.Println("No attachments")
		return nil
	}

	for _, a := range attachments {
		cmd.Printf("%-36s %10s  %s\n", a.Name, formatSize(a.Size), a.ContentType)
	}

	if mailAttachmentsSave == "" {
		return nil
	}
	for _, a := range attachments {
		path, err := mailService.SaveAttachment(ctx, args[0], a.ID, mailAttachmentsSave)
		if err != nil {
			return fmt.Errorf("save %s: %w", a.Name, err)
		}
		cmd.Printf("Saved %s\n", path)
	}
	return nil
}

// bodyOrStdin returns the flag value when set, otherwise reads the
// whole of standard input.
func bodyOrStdin(cmd *cobra.Command, flagValue string) (string, error) {
	if flagValue != "" {
		return flagValue, nil
	}
	data, err := io.ReadAll(cmd.InOrStdin())
	if err != nil {
		return "", fmt.Errorf("reading body from stdin: %w", err)
	}
	return strings.TrimRight(string(data), "\n"), nil
}

// formatSender renders a single optional recipient.
func formatSender(r *domain.Recipient) string {
	if r == nil {
		return "-"
	}
	return formatAddress(r.EmailAddress)
}

// formatRecipients renders a recipient list as a comma-joined string.
func formatRecipients(recipients []domain.Recipient) string {
	parts := make([]string, 0, len(recipients))
	for _, r := range recipients {
		parts = append(parts, formatAddress(r.EmailAddress))
	}
	return strings.Join(parts, ", ")
}

// formatAddress renders "Name <address>", falling back to whichever
// half is present.
func formatAddress(a domain.EmailAddress) string {
	switch {
	case a.Name != "" && a.Address != "":
		return fmt.Sprintf("%s <%s>", a.Name, a.Address)
	case a.Address != "":
		return a.Address
	default:
		return a.Name
	}
}
