package mcp

import (
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/trinoor/o365-cli/internal/core/domain"
)

// registerTools registers all tool handlers with the MCP server. Tools
// for optional ports are registered only when the port is wired.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "read_emails",
		Description: "List recent emails from a mailbox folder",
	}, s.handleReadEmails)
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "get_email_content",
		Description: "Read the full body of a single email by its ID",
	}, s.handleGetEmailContent)
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "send_email",
		Description: "Send an email on the signed-in user's behalf",
	}, s.handleSendEmail)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "list_calendar_events",
		Description: "List calendar events in a time window",
	}, s.handleListCalendarEvents)
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "create_calendar_event",
		Description: "Create a calendar event, optionally as an online Teams meeting",
	}, s.handleCreateCalendarEvent)
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "delete_calendar_event",
		Description: "Delete a calendar event by its ID",
	}, s.handleDeleteCalendarEvent)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "list_drives",
		Description: "List the OneDrive and SharePoint drives visible to the user",
	}, s.handleListDrives)
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "list_files",
		Description: "List files and folders under a drive path",
	}, s.handleListFiles)
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "search_files",
		Description: "Search a drive for files by name or content",
	}, s.handleSearchFiles)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "list_chats",
		Description: "List Teams chats, most recently active first",
	}, s.handleListChats)
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "read_chat_messages",
		Description: "Read messages from a Teams chat identified by ID, topic, or member name",
	}, s.handleReadChatMessages)
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "send_chat_message",
		Description: "Send a text message to a Teams chat",
	}, s.handleSendChatMessage)
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "search_chat_messages",
		Description: "Search Teams chat messages for a text fragment",
	}, s.handleSearchChatMessages)

	if s.ports.Contacts != nil {
		mcp.AddTool(s.server, &mcp.Tool{
			Name:        "list_contacts",
			Description: "List the user's contacts and frequently met people",
		}, s.handleListContacts)
		mcp.AddTool(s.server, &mcp.Tool{
			Name:        "search_contacts",
			Description: "Find people by name or email fragment",
		}, s.handleSearchContacts)
	}

	if s.ports.Recordings != nil {
		mcp.AddTool(s.server, &mcp.Tool{
			Name:        "list_recordings",
			Description: "List Teams meeting recordings from OneDrive",
		}, s.handleListRecordings)
		mcp.AddTool(s.server, &mcp.Tool{
			Name:        "get_recording_transcript",
			Description: "Fetch the transcript of a Teams meeting recording",
		}, s.handleGetRecordingTranscript)
	}
}

// parseWhen turns a natural time expression ("2024-06-01", "3 days ago",
// "yesterday") into a time. Empty input yields the zero time.
func parseWhen(expr string) (time.Time, error) {
	if expr == "" {
		return time.Time{}, nil
	}
	return domain.ParseSince(expr, time.Now())
}

// stamp formats a time for tool output, empty for the zero time.
func stamp(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(time.RFC3339)
}
