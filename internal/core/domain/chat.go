package domain

import (
	"strings"
	"time"
)

// Chat is a conversation: a one-on-one, group chat, or meeting chat.
type Chat struct {
	ID              string       `json:"id"`
	Topic           string       `json:"topic,omitempty"`
	ChatType        string       `json:"chatType,omitempty"`
	Members         []ChatMember `json:"members,omitempty"`
	LastUpdatedTime time.Time    `json:"lastUpdatedDateTime,omitempty"`
}

// ChatMember is a participant in a chat.
type ChatMember struct {
	DisplayName string `json:"displayName,omitempty"`
	Email       string `json:"email,omitempty"`
}

// DisplayName returns a human label for the chat: the topic when set,
// otherwise the other members' names (excluding selfName), otherwise
// the chat ID.
func (c *Chat) DisplayName(selfName string) string {
	if c.Topic != "" {
		return c.Topic
	}

	var others []string
	for _, m := range c.Members {
		if m.DisplayName == "" || m.DisplayName == selfName {
			continue
		}
		others = append(others, m.DisplayName)
	}
	if len(others) > 0 {
		return strings.Join(others, ", ")
	}
	return c.ID
}

// MatchesFilter reports whether the chat matches a case-insensitive
// name or member filter.
func (c *Chat) MatchesFilter(filter string) bool {
	if filter == "" {
		return true
	}
	needle := strings.ToLower(filter)
	if strings.Contains(strings.ToLower(c.Topic), needle) {
		return true
	}
	for _, m := range c.Members {
		if strings.Contains(strings.ToLower(m.DisplayName), needle) ||
			strings.Contains(strings.ToLower(m.Email), needle) {
			return true
		}
	}
	return false
}

// ChatMessage is a single message inside a chat.
type ChatMessage struct {
	ID              string    `json:"id"`
	ChatID          string    `json:"chatId,omitempty"`
	From            *ChatFrom `json:"from,omitempty"`
	Body            ItemBody  `json:"body"`
	CreatedDateTime time.Time `json:"createdDateTime,omitempty"`
}

// ChatFrom identifies a message sender.
type ChatFrom struct {
	User *ChatUser `json:"user,omitempty"`
}

// ChatUser is the user identity inside a sender.
type ChatUser struct {
	DisplayName string `json:"displayName,omitempty"`
	ID          string `json:"id,omitempty"`
}

// SenderName returns the sender display name, or "unknown" when the
// message has no user attribution (system messages).
func (m *ChatMessage) SenderName() string {
	if m.From != nil && m.From.User != nil && m.From.User.DisplayName != "" {
		return m.From.User.DisplayName
	}
	return "unknown"
}

// Preview returns the body content trimmed to max runes, with HTML
// bodies left as-is. Used by list displays.
func (m *ChatMessage) Preview(max int) string {
	content := strings.TrimSpace(m.Body.Content)
	runes := []rune(content)
	if max > 0 && len(runes) > max {
		return string(runes[:max]) + "..."
	}
	return content
}

// ContainsFold reports whether the message body contains the query,
// case-insensitively. Used by the fallback search scan.
func (m *ChatMessage) ContainsFold(query string) bool {
	return strings.Contains(strings.ToLower(m.Body.Content), strings.ToLower(query))
}
