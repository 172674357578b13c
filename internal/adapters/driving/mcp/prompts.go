package mcp

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// registerPrompts registers all prompt templates with the MCP server.
func (s *Server) registerPrompts() {
	s.server.AddPrompt(&mcp.Prompt{
		Name:        "triage_mail",
		Description: "Summarize and prioritize unread email",
		Arguments: []*mcp.PromptArgument{
			{Name: "folder", Description: "mailbox folder to triage (default inbox)"},
		},
	}, s.handleTriageMailPrompt)

	s.server.AddPrompt(&mcp.Prompt{
		Name:        "meeting_prep",
		Description: "Build a briefing for an upcoming meeting",
		Arguments: []*mcp.PromptArgument{
			{Name: "meeting", Description: "subject fragment identifying the meeting (default the next meeting)"},
		},
	}, s.handleMeetingPrepPrompt)

	s.server.AddPrompt(&mcp.Prompt{
		Name:        "find_in_chats",
		Description: "Track down a discussion across Teams chats",
		Arguments: []*mcp.PromptArgument{
			{Name: "topic", Description: "what the discussion was about", Required: true},
		},
	}, s.handleFindInChatsPrompt)
}

// handleTriageMailPrompt handles the triage_mail prompt.
func (s *Server) handleTriageMailPrompt(
	_ context.Context,
	req *mcp.GetPromptRequest,
) (*mcp.GetPromptResult, error) {
	folder := req.Params.Arguments["folder"]
	if folder == "" {
		folder = "inbox"
	}

	text := fmt.Sprintf(`Triage my %s folder. Use the read_emails tool with unread_only set to fetch unread messages, then use get_email_content on anything that needs a closer look.

Group the messages into: needs a reply today, needs a reply this week, informational, and can be ignored. For each message that needs a reply, suggest a one-line response I could send.`, folder)

	return &mcp.GetPromptResult{
		Description: "Triage unread email in " + folder,
		Messages: []*mcp.PromptMessage{
			{Role: "user", Content: &mcp.TextContent{Text: text}},
		},
	}, nil
}

// handleMeetingPrepPrompt handles the meeting_prep prompt.
func (s *Server) handleMeetingPrepPrompt(
	_ context.Context,
	req *mcp.GetPromptRequest,
) (*mcp.GetPromptResult, error) {
	meeting := req.Params.Arguments["meeting"]

	target := "my next meeting"
	if meeting != "" {
		target = fmt.Sprintf("the meeting matching %q", meeting)
	}

	text := fmt.Sprintf(`Prepare me for %s. Use list_calendar_events to find it and note the time, attendees, and agenda.

Then gather context: use read_emails with a search for the meeting subject, search_chat_messages for recent related discussion, and search_files for documents that look relevant. If there was an earlier session with a recording, pull its transcript with get_recording_transcript.

Produce a short briefing: what the meeting is about, what was last discussed, open questions, and anything I promised to bring.`, target)

	return &mcp.GetPromptResult{
		Description: "Briefing for " + target,
		Messages: []*mcp.PromptMessage{
			{Role: "user", Content: &mcp.TextContent{Text: text}},
		},
	}, nil
}

// handleFindInChatsPrompt handles the find_in_chats prompt.
func (s *Server) handleFindInChatsPrompt(
	_ context.Context,
	req *mcp.GetPromptRequest,
) (*mcp.GetPromptResult, error) {
	topic := req.Params.Arguments["topic"]
	if topic == "" {
		return nil, fmt.Errorf("prompt %q requires a topic argument", "find_in_chats")
	}

	text := fmt.Sprintf(`Find where we discussed %q in Teams. Use search_chat_messages to locate matching messages, then read_chat_messages on the most promising chats to recover the surrounding conversation.

Tell me which chat the discussion happened in, when, who was involved, and what was decided. Quote the key messages.`, topic)

	return &mcp.GetPromptResult{
		Description: fmt.Sprintf("Find the %q discussion", topic),
		Messages: []*mcp.PromptMessage{
			{Role: "user", Content: &mcp.TextContent{Text: text}},
		},
	}, nil
}
