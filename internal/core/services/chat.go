package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/trinoor/o365-cli/internal/core/domain"
	"github.com/trinoor/o365-cli/internal/core/ports/driven"
	"github.com/trinoor/o365-cli/internal/core/ports/driving"
	"github.com/trinoor/o365-cli/internal/logger"
)

// Ensure ChatService implements the interface.
var _ driving.ChatService = (*ChatService)(nil)

const defaultChatLimit = 50

// ChatService reads and writes Teams chats.
type ChatService struct {
	graph driven.GraphClient
}

// NewChatService creates a new chat service.
func NewChatService(graph driven.GraphClient) *ChatService {
	return &ChatService{graph: graph}
}

// List returns the user's chats, most recently active first. Member
// and topic filtering happens locally since the chats endpoint does
// not filter on expanded members.
func (s *ChatService) List(ctx context.Context, filter string, limit int) ([]domain.Chat, error) {
	if limit <= 0 {
		limit = defaultChatLimit
	}
	opts := domain.ListOptions{
		Top:     limit,
		Expand:  "members",
		OrderBy: "lastMessagePreview/createdDateTime desc",
	}
	if filter == "" {
		opts.MaxItems = limit
	}

	items, pageErr := s.graph.List("me/chats", opts).All(ctx)

	chats := make([]domain.Chat, 0, len(items))
	for _, raw := range items {
		var c domain.Chat
		if err := json.Unmarshal(raw, &c); err != nil {
			return chats, fmt.Errorf("decode chat: %w", err)
		}
		if !c.MatchesFilter(filter) {
			continue
		}
		chats = append(chats, c)
		if len(chats) >= limit {
			break
		}
	}
	if pageErr != nil && len(chats) < limit {
		return chats, pageErr
	}
	return chats, nil
}

// Resolve finds a single chat by ID, topic, or member name. Thread
// IDs pass through without a lookup.
func (s *ChatService) Resolve(ctx context.Context, ref string) (*domain.Chat, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return nil, fmt.Errorf("%w: empty chat reference", domain.ErrInvalidInput)
	}
	if isChatID(ref) {
		var c domain.Chat
		if err := s.graph.GetJSON(ctx, "chats/"+ref+"?$expand=members", &c); err != nil {
			return nil, fmt.Errorf("get chat %s: %w", ref, err)
		}
		return &c, nil
	}

	matches, err := s.List(ctx, ref, 0)
	if err != nil {
		return nil, err
	}
	switch len(matches) {
	case 0:
		return nil, fmt.Errorf("%w: no chat matches %q", domain.ErrNotFound, ref)
	case 1:
		return &matches[0], nil
	}
	names := make([]string, 0, len(matches))
	for i := range matches {
		names = append(names, matches[i].DisplayName(""))
	}
	return nil, fmt.Errorf("%w: %q matches %d chats: %s", domain.ErrInvalidInput, ref, len(matches), strings.Join(names, ", "))
}

// History returns a chat's messages, oldest first.
func (s *ChatService) History(ctx context.Context, ref string, limit int, since time.Time) ([]domain.ChatMessage, error) {
	chat, err := s.Resolve(ctx, ref)
	if err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = defaultChatLimit
	}
	opts := domain.ListOptions{
		Top:      limit,
		MaxItems: limit,
		OrderBy:  "createdDateTime desc",
	}
	if !since.IsZero() {
		opts.Filter = fmt.Sprintf("createdDateTime gt %s", since.UTC().Format(time.RFC3339))
	}

	items, pageErr := s.graph.List("chats/"+chat.ID+"/messages", opts).All(ctx)

	messages := make([]domain.ChatMessage, 0, len(items))
	for _, raw := range items {
		var m domain.ChatMessage
		if err := json.Unmarshal(raw, &m); err != nil {
			return messages, fmt.Errorf("decode chat message: %w", err)
		}
		messages = append(messages, m)
	}

	// The endpoint only orders newest first; flip to reading order.
	for i, j := 0, len(messages)-1; i < j; i, j = i+1, j-1 {
		messages[i], messages[j] = messages[j], messages[i]
	}
	return messages, pageErr
}

// Send posts a text message to a chat.
func (s *ChatService) Send(ctx context.Context, ref, text string) (*domain.ChatMessage, error) {
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("%w: empty message", domain.ErrInvalidInput)
	}
	chat, err := s.Resolve(ctx, ref)
	if err != nil {
		return nil, err
	}
	payload := map[string]any{
		"body": map[string]any{
			"contentType": "text",
			"content":     text,
		},
	}
	raw, err := s.graph.Post(ctx, "chats/"+chat.ID+"/messages", payload)
	if err != nil {
		return nil, fmt.Errorf("send to chat %s: %w", chat.ID, err)
	}
	var m domain.ChatMessage
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, fmt.Errorf("decode sent message: %w", err)
	}
	logger.Debug("sent message %s to chat %s", m.ID, chat.ID)
	return &m, nil
}

// Search finds messages matching query across chats.
func (s *ChatService) Search(ctx context.Context, query string, opts domain.SearchOptions) ([]domain.MessageMatch, error) {
	if strings.TrimSpace(query) == "" {
		return nil, fmt.Errorf("%w: empty search query", domain.ErrInvalidInput)
	}
	return s.graph.SearchMessages(ctx, query, opts)
}

// isChatID reports whether ref looks like a Teams thread identifier
// rather than a human name.
func isChatID(ref string) bool {
	return strings.HasPrefix(ref, "19:") || strings.Contains(ref, "@thread")
}
