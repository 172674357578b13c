package mcp

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/trinoor/o365-cli/internal/core/domain"
)

// ListChatsInput is the input schema for the list_chats tool.
type ListChatsInput struct {
	Filter string `json:"filter,omitempty" jsonschema:"only chats whose topic or members match this text"`
	Limit  int    `json:"limit,omitempty" jsonschema:"maximum number of chats to return (default 50)"`
}

// ListChatsOutput is the output schema for the list_chats tool.
type ListChatsOutput struct {
	Chats []ChatSummary `json:"chats"`
	Count int           `json:"count"`
}

// ChatSummary is one chat in a listing.
type ChatSummary struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Type        string   `json:"type,omitempty"`
	Members     []string `json:"members,omitempty"`
	LastUpdated string   `json:"last_updated,omitempty"`
}

// handleListChats handles the list_chats tool invocation.
func (s *Server) handleListChats(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input ListChatsInput,
) (*mcp.CallToolResult, ListChatsOutput, error) {
	chats, err := s.ports.Chat.List(ctx, input.Filter, input.Limit)
	if err != nil {
		return nil, ListChatsOutput{}, err
	}

	output := ListChatsOutput{
		Chats: make([]ChatSummary, len(chats)),
		Count: len(chats),
	}
	for i := range chats {
		c := &chats[i]
		summary := ChatSummary{
			ID:          c.ID,
			Name:        c.DisplayName(""),
			Type:        c.ChatType,
			LastUpdated: stamp(c.LastUpdatedTime),
		}
		for _, m := range c.Members {
			if m.DisplayName != "" {
				summary.Members = append(summary.Members, m.DisplayName)
			}
		}
		output.Chats[i] = summary
	}

	return nil, output, nil
}

// ReadChatMessagesInput is the input schema for the read_chat_messages tool.
type ReadChatMessagesInput struct {
	Chat  string `json:"chat" jsonschema:"chat ID, topic, or member name identifying the chat"`
	Limit int    `json:"limit,omitempty" jsonschema:"maximum number of messages to return (default 50)"`
	Since string `json:"since,omitempty" jsonschema:"only messages sent since this time, e.g. yesterday"`
}

// ReadChatMessagesOutput is the output schema for the read_chat_messages tool.
type ReadChatMessagesOutput struct {
	Messages []ChatMessageOutput `json:"messages"`
	Count    int                 `json:"count"`
}

// ChatMessageOutput is one chat message, oldest first in listings.
type ChatMessageOutput struct {
	ID     string `json:"id"`
	ChatID string `json:"chat_id,omitempty"`
	From   string `json:"from"`
	Sent   string `json:"sent,omitempty"`
	Text   string `json:"text"`
}

// handleReadChatMessages handles the read_chat_messages tool invocation.
func (s *Server) handleReadChatMessages(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input ReadChatMessagesInput,
) (*mcp.CallToolResult, ReadChatMessagesOutput, error) {
	since, err := parseWhen(input.Since)
	if err != nil {
		return nil, ReadChatMessagesOutput{}, err
	}

	messages, err := s.ports.Chat.History(ctx, input.Chat, input.Limit, since)
	if err != nil {
		return nil, ReadChatMessagesOutput{}, err
	}

	output := ReadChatMessagesOutput{
		Messages: make([]ChatMessageOutput, len(messages)),
		Count:    len(messages),
	}
	for i := range messages {
		m := &messages[i]
		output.Messages[i] = ChatMessageOutput{
			ID:     m.ID,
			ChatID: m.ChatID,
			From:   m.SenderName(),
			Sent:   stamp(m.CreatedDateTime),
			Text:   m.Body.Content,
		}
	}

	return nil, output, nil
}

// SendChatMessageInput is the input schema for the send_chat_message tool.
type SendChatMessageInput struct {
	Chat string `json:"chat" jsonschema:"chat ID, topic, or member name identifying the chat"`
	Text string `json:"text" jsonschema:"the message text to send"`
}

// SendChatMessageOutput is the output schema for the send_chat_message tool.
type SendChatMessageOutput struct {
	MessageID string `json:"message_id"`
	ChatID    string `json:"chat_id,omitempty"`
}

// handleSendChatMessage handles the send_chat_message tool invocation.
func (s *Server) handleSendChatMessage(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input SendChatMessageInput,
) (*mcp.CallToolResult, SendChatMessageOutput, error) {
	msg, err := s.ports.Chat.Send(ctx, input.Chat, input.Text)
	if err != nil {
		return nil, SendChatMessageOutput{}, err
	}

	return nil, SendChatMessageOutput{MessageID: msg.ID, ChatID: msg.ChatID}, nil
}

// SearchChatMessagesInput is the input schema for the search_chat_messages tool.
type SearchChatMessagesInput struct {
	Query string `json:"query" jsonschema:"the text to search chat messages for"`
	Chat  string `json:"chat,omitempty" jsonschema:"restrict the search to one chat, by ID, topic, or member name"`
	Since string `json:"since,omitempty" jsonschema:"only messages sent since this time"`
	Limit int    `json:"limit,omitempty" jsonschema:"maximum number of matches to return (default 25)"`
}

// SearchChatMessagesOutput is the output schema for the search_chat_messages tool.
type SearchChatMessagesOutput struct {
	Matches []ChatMatchOutput `json:"matches"`
	Count   int               `json:"count"`
}

// ChatMatchOutput is one matched message with its containing chat.
type ChatMatchOutput struct {
	ChatID    string `json:"chat_id"`
	Chat      string `json:"chat"`
	MessageID string `json:"message_id"`
	From      string `json:"from"`
	Sent      string `json:"sent,omitempty"`
	Text      string `json:"text"`
}

// handleSearchChatMessages handles the search_chat_messages tool invocation.
func (s *Server) handleSearchChatMessages(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input SearchChatMessagesInput,
) (*mcp.CallToolResult, SearchChatMessagesOutput, error) {
	since, err := parseWhen(input.Since)
	if err != nil {
		return nil, SearchChatMessagesOutput{}, err
	}

	opts := domain.SearchOptions{Since: since, Limit: input.Limit}
	if input.Chat != "" {
		chat, err := s.ports.Chat.Resolve(ctx, input.Chat)
		if err != nil {
			return nil, SearchChatMessagesOutput{}, err
		}
		opts.ChatID = chat.ID
	}

	matches, err := s.ports.Chat.Search(ctx, input.Query, opts)
	if err != nil {
		return nil, SearchChatMessagesOutput{}, err
	}

	output := SearchChatMessagesOutput{
		Matches: make([]ChatMatchOutput, len(matches)),
		Count:   len(matches),
	}
	for i, m := range matches {
		output.Matches[i] = ChatMatchOutput{
			ChatID:    m.ChatID,
			Chat:      m.ChatTopic(),
			MessageID: m.Message.ID,
			From:      m.Sender(),
			Sent:      stamp(m.Sent()),
			Text:      m.Message.Body.Content,
		}
	}

	return nil, output, nil
}
