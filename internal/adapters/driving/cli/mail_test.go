package cli

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trinoor/o365-cli/internal/core/domain"
)

func TestMailCmd_Use(t *testing.T) {
	assert.Equal(t, "mail", mailCmd.Use)
}

func TestMailCmd_HasSubcommands(t *testing.T) {
	var names []string
	for _, c := range mailCmd.Commands() {
		names = append(names, c.Name())
	}

	for _, want := range []string{
		"list", "read", "send", "reply", "forward",
		"move", "delete", "mark", "folders", "attachments",
	} {
		assert.Contains(t, names, want)
	}
}

func TestMailList(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	mock := &mockMailService{messages: []domain.MailMessage{
		{
			ID:               "msg-1",
			Subject:          "Quarterly review",
			From:             &domain.Recipient{EmailAddress: domain.EmailAddress{Name: "Alice Adams", Address: "alice@contoso.com"}},
			ReceivedDateTime: time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC),
			IsRead:           false,
			HasAttachments:   true,
		},
		{
			ID:               "msg-2",
			Subject:          "Lunch?",
			From:             &domain.Recipient{EmailAddress: domain.EmailAddress{Address: "bob@contoso.com"}},
			ReceivedDateTime: time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC),
			IsRead:           true,
		},
	}}
	mailService = mock

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"mail", "list"})
	defer func() { rootCmd.SetArgs(nil) }()

	err := rootCmd.Execute()
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "Quarterly review [a]")
	assert.Contains(t, out, "Alice Adams")
	assert.Contains(t, out, "id: msg-1")
	assert.Contains(t, out, "Lunch?")
	assert.Contains(t, out, "2 message(s); * marks unread")
	assert.Equal(t, "", mock.listFolder)
}

func TestMailList_PassesOptions(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	mock := &mockMailService{}
	mailService = mock

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{
		"mail", "list", "--folder", "archive", "--max", "50",
		"--top", "10", "--unread", "--search", "invoice",
	})
	defer func() { rootCmd.SetArgs(nil) }()

	err := rootCmd.Execute()
	require.NoError(t, err)

	assert.Equal(t, "archive", mock.listFolder)
	assert.Equal(t, 50, mock.listOpts.Limit)
	assert.Equal(t, 10, mock.listOpts.PageSize)
	assert.True(t, mock.listOpts.UnreadOnly)
	assert.Equal(t, "invoice", mock.listOpts.Search)
}

func TestMailList_Since(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	mock := &mockMailService{}
	mailService = mock

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"mail", "list", "--since", "2024-06-01"})
	defer func() { rootCmd.SetArgs(nil) }()

	err := rootCmd.Execute()
	require.NoError(t, err)
	assert.Equal(t, 2024, mock.listOpts.Since.Year())
	assert.Equal(t, time.June, mock.listOpts.Since.Month())
}

func TestMailList_BadSince(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs([]string{"mail", "list", "--since", "whenever"})
	defer func() { rootCmd.SetArgs(nil) }()

	err := rootCmd.Execute()
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestMailList_Empty(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"mail", "list"})
	defer func() { rootCmd.SetArgs(nil) }()

	err := rootCmd.Execute()
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "No messages found")
}

func TestMailList_JSON(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	mailService = &mockMailService{messages: []domain.MailMessage{
		{ID: "msg-1", Subject: "Hello"},
	}}

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"mail", "list", "--json"})
	defer func() { rootCmd.SetArgs(nil) }()

	err := rootCmd.Execute()
	require.NoError(t, err)
	assert.Contains(t, buf.String(), `"id": "msg-1"`)
	assert.Contains(t, buf.String(), `"subject": "Hello"`)
}

func TestMailRead(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	mock := &mockMailService{message: &domain.MailMessage{
		ID:      "msg-1",
		Subject: "Budget numbers",
		From:    &domain.Recipient{EmailAddress: domain.EmailAddress{Name: "Carol", Address: "carol@contoso.com"}},
		ToRecipients: []domain.Recipient{
			{EmailAddress: domain.EmailAddress{Address: "me@contoso.com"}},
		},
		ReceivedDateTime: time.Date(2024, 6, 2, 8, 30, 0, 0, time.UTC),
		Body:             &domain.ItemBody{ContentType: "text", Content: "Full body here."},
		BodyPreview:      "Full body...",
	}}
	mailService = mock

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"mail", "read", "msg-1"})
	defer func() { rootCmd.SetArgs(nil) }()

	err := rootCmd.Execute()
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "From:    Carol <carol@contoso.com>")
	assert.Contains(t, out, "To:      me@contoso.com")
	assert.Contains(t, out, "Subject: Budget numbers")
	assert.Contains(t, out, "Full body here.")
	assert.Equal(t, "msg-1", mock.got)
}

func TestMailRead_FallsBackToPreview(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	mailService = &mockMailService{message: &domain.MailMessage{
		ID:          "msg-2",
		Subject:     "No body fetched",
		BodyPreview: "Preview only",
	}}

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"mail", "read", "msg-2"})
	defer func() { rootCmd.SetArgs(nil) }()

	err := rootCmd.Execute()
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "Preview only")
	assert.Contains(t, buf.String(), "From:    -")
}

func TestMailRead_RequiresID(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs([]string{"mail", "read"})
	defer func() { rootCmd.SetArgs(nil) }()

	err := rootCmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "accepts 1 arg(s)")
}

func TestMailSend(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	mock := &mockMailService{}
	mailService = mock

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{
		"mail", "send",
		"--to", "alice@contoso.com", "--to", "Bob",
		"--cc", "carol@contoso.com",
		"--subject", "Status",
		"--body", "All green.",
	})
	defer func() { rootCmd.SetArgs(nil) }()

	err := rootCmd.Execute()
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "Message sent.")

	require.NotNil(t, mock.sent)
	assert.Equal(t, []string{"alice@contoso.com", "Bob"}, mock.sent.To)
	assert.Equal(t, []string{"carol@contoso.com"}, mock.sent.Cc)
	assert.Equal(t, "Status", mock.sent.Subject)
	assert.Equal(t, "All green.", mock.sent.Body)
	assert.False(t, mock.sent.HTML)
	assert.True(t, mock.sent.SaveToSentItems)
}

func TestMailSend_BodyFromStdin(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	mock := &mockMailService{}
	mailService = mock

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetIn(strings.NewReader("typed body\n"))
	defer rootCmd.SetIn(nil)
	rootCmd.SetArgs([]string{
		"mail", "send", "--to", "alice@contoso.com", "--subject", "Hi",
	})
	defer func() { rootCmd.SetArgs(nil) }()

	err := rootCmd.Execute()
	require.NoError(t, err)
	require.NotNil(t, mock.sent)
	assert.Equal(t, "typed body", mock.sent.Body)
}

func TestMailSend_ServiceError(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	mailService = &mockMailService{err: errors.New("recipient not found")}

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs([]string{
		"mail", "send", "--to", "nobody", "--subject", "x", "--body", "y",
	})
	defer func() { rootCmd.SetArgs(nil) }()

	err := rootCmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "recipient not found")
}

func TestMailReply(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	mock := &mockMailService{}
	mailService = mock

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"mail", "reply", "msg-1", "--body", "Thanks!", "--all"})
	defer func() { rootCmd.SetArgs(nil) }()

	err := rootCmd.Execute()
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "Reply sent.")
	assert.Equal(t, "msg-1", mock.replyID)
	assert.Equal(t, "Thanks!", mock.replyComment)
	assert.True(t, mock.replyAll)
}

func TestMailForward(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	mock := &mockMailService{}
	mailService = mock

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{
		"mail", "forward", "msg-1", "--to", "dave@contoso.com", "--body", "FYI",
	})
	defer func() { rootCmd.SetArgs(nil) }()

	err := rootCmd.Execute()
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "Message forwarded.")
	assert.Equal(t, "msg-1", mock.forwardID)
	assert.Equal(t, []string{"dave@contoso.com"}, mock.forwardTo)
}

func TestMailMove(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	mock := &mockMailService{moved: &domain.MailMessage{ID: "msg-1b"}}
	mailService = mock

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"mail", "move", "msg-1", "archive"})
	defer func() { rootCmd.SetArgs(nil) }()

	err := rootCmd.Execute()
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "Moved to archive")
	assert.Contains(t, buf.String(), "New id: msg-1b")
	assert.Equal(t, "msg-1", mock.moveID)
	assert.Equal(t, "archive", mock.moveFolder)
}

func TestMailMove_RequiresTwoArgs(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs([]string{"mail", "move", "msg-1"})
	defer func() { rootCmd.SetArgs(nil) }()

	err := rootCmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "accepts 2 arg(s)")
}

func TestMailDelete_Multiple(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	mock := &mockMailService{}
	mailService = mock

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"mail", "delete", "msg-1", "msg-2"})
	defer func() { rootCmd.SetArgs(nil) }()

	err := rootCmd.Execute()
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "Deleted msg-1")
	assert.Contains(t, buf.String(), "Deleted msg-2")
	assert.Equal(t, []string{"msg-1", "msg-2"}, mock.deleted)
}

func TestMailDelete_WrapsError(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	mailService = &mockMailService{err: errors.New("gone")}

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs([]string{"mail", "delete", "msg-9"})
	defer func() { rootCmd.SetArgs(nil) }()

	err := rootCmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "delete msg-9")
}

func TestMailMark(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	mock := &mockMailService{}
	mailService = mock

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"mail", "mark", "msg-1"})
	defer func() { rootCmd.SetArgs(nil) }()

	err := rootCmd.Execute()
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "Marked 1 message(s) as read")
	assert.Equal(t, "msg-1", mock.markedID)
	assert.True(t, mock.markedRead)
}

func TestMailMark_Unread(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	mock := &mockMailService{}
	mailService = mock

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"mail", "mark", "msg-1", "--unread"})
	defer func() { rootCmd.SetArgs(nil) }()

	err := rootCmd.Execute()
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "Marked 1 message(s) as unread")
	assert.False(t, mock.markedRead)
}

func TestMailFolders(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	mailService = &mockMailService{folders: []domain.MailFolder{
		{ID: "f1", DisplayName: "Inbox", UnreadItemCount: 4, TotalItemCount: 120},
		{ID: "f2", DisplayName: "Archive", TotalItemCount: 3000},
	}}

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"mail", "folders"})
	defer func() { rootCmd.SetArgs(nil) }()

	err := rootCmd.Execute()
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "Inbox")
	assert.Contains(t, buf.String(), "4 unread / 120 total")
	assert.Contains(t, buf.String(), "Archive")
}

func TestMailAttachments(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	mailService = &mockMailService{attachments: []domain.Attachment{
		{ID: "a1", Name: "report.pdf", ContentType: "application/pdf", Size: 2048},
	}}

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"mail", "attachments", "msg-1"})
	defer func() { rootCmd.SetArgs(nil) }()

	err := rootCmd.Execute()
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "report.pdf")
	assert.Contains(t, buf.String(), "2.0 KiB")
	assert.Contains(t, buf.String(), "application/pdf")
}

func TestMailAttachments_SaveAll(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	mock := &mockMailService{
		attachments: []domain.Attachment{{ID: "a1", Name: "report.pdf", Size: 10}},
		savedPath:   "/tmp/dl/report.pdf",
	}
	mailService = mock

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"mail", "attachments", "msg-1", "--save", "/tmp/dl"})
	defer func() { rootCmd.SetArgs(nil) }()

	err := rootCmd.Execute()
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "Saved /tmp/dl/report.pdf")
	assert.Equal(t, "msg-1", mock.saveMsgID)
	assert.Equal(t, "a1", mock.saveAttID)
	assert.Equal(t, "/tmp/dl", mock.saveDir)
}

func TestMailAttachments_None(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"mail", "attachments", "msg-1"})
	defer func() { rootCmd.SetArgs(nil) }()

	err := rootCmd.Execute()
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "No attachments")
}

func TestMailList_ServiceNotConfigured(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	mailService = nil

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs([]string{"mail", "list"})
	defer func() { rootCmd.SetArgs(nil) }()

	err := rootCmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "mail service not configured")
}
