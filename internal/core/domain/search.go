package domain

import "time"

// MessageMatch is one chat message matched by a search, regardless of
// whether the server or a local scan produced it. The chat pointer is
// only populated by the local scan, which already holds the chat in
// hand; accessors fall back gracefully when it is nil.
type MessageMatch struct {
	ChatID  string
	Message ChatMessage

	chat *Chat
}

// NewMessageMatch builds a match from a server-side hit, where only the
// containing chat's ID is known.
func NewMessageMatch(chatID string, msg ChatMessage) MessageMatch {
	return MessageMatch{ChatID: chatID, Message: msg}
}

// NewMessageMatchInChat builds a match from a local scan that already
// resolved the containing chat.
func NewMessageMatchInChat(chat *Chat, msg ChatMessage) MessageMatch {
	m := MessageMatch{Message: msg, chat: chat}
	if chat != nil {
		m.ChatID = chat.ID
	}
	return m
}

// ChatTopic returns a display name for the containing chat, or the chat
// ID when the chat itself was never fetched.
func (m MessageMatch) ChatTopic() string {
	if m.chat != nil {
		return m.chat.DisplayName("")
	}
	return m.ChatID
}

// Sender returns the display name of the message author.
func (m MessageMatch) Sender() string {
	return m.Message.SenderName()
}

// Sent returns the message creation time.
func (m MessageMatch) Sent() time.Time {
	return m.Message.CreatedDateTime
}

// SearchOptions narrows a message search. Zero values leave the
// corresponding dimension unconstrained.
type SearchOptions struct {
	// ChatID restricts matches to a single chat.
	ChatID string
	// Since drops messages created before the given instant.
	Since time.Time
	// Limit caps the number of matches returned. Zero means the
	// default of 25.
	Limit int
}

// DefaultSearchLimit is applied when SearchOptions.Limit is zero.
const DefaultSearchLimit = 25

// EffectiveLimit resolves the configured limit against the default.
func (o SearchOptions) EffectiveLimit() int {
	if o.Limit > 0 {
		return o.Limit
	}
	return DefaultSearchLimit
}

// Accepts reports whether a message with the given chat and creation
// time passes the ChatID and Since filters.
func (o SearchOptions) Accepts(chatID string, created time.Time) bool {
	if o.ChatID != "" && o.ChatID != chatID {
		return false
	}
	if !o.Since.IsZero() && created.Before(o.Since) {
		return false
	}
	return true
}
