package services

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trinoor/o365-cli/internal/core/domain"
)

func TestChatService_List(t *testing.T) {
	g := newMockGraph()
	g.pages["me/chats"] = [][]json.RawMessage{page(
		`{"id":"19:aaa@thread.v2","topic":"Standup","chatType":"group"}`,
		`{"id":"19:bbb@thread.v2","chatType":"oneOnOne","members":[{"displayName":"Ada Lovelace"}]}`,
	)}
	svc := NewChatService(g)

	chats, err := svc.List(context.Background(), "", 0)
	require.NoError(t, err)
	require.Len(t, chats, 2)

	opts := g.listOpts["me/chats"]
	assert.Equal(t, "members", opts.Expand)
	assert.Equal(t, "lastMessagePreview/createdDateTime desc", opts.OrderBy)
	assert.Equal(t, 50, opts.Top)
	assert.Equal(t, 50, opts.MaxItems)
}

func TestChatService_List_FilterMatchesTopicAndMembers(t *testing.T) {
	g := newMockGraph()
	g.pages["me/chats"] = [][]json.RawMessage{page(
		`{"id":"c1","topic":"Standup"}`,
		`{"id":"c2","members":[{"displayName":"Ada Lovelace","email":"ada@example.com"}]}`,
		`{"id":"c3","topic":"Release planning"}`,
	)}
	svc := NewChatService(g)

	chats, err := svc.List(context.Background(), "ada", 0)
	require.NoError(t, err)
	require.Len(t, chats, 1)
	assert.Equal(t, "c2", chats[0].ID)

	assert.Zero(t, g.listOpts["me/chats"].MaxItems, "filtering scans past the limit")
}

func TestChatService_List_Limit(t *testing.T) {
	g := newMockGraph()
	g.pages["me/chats"] = [][]json.RawMessage{page(
		`{"id":"c1","topic":"One"}`,
		`{"id":"c2","topic":"Two"}`,
		`{"id":"c3","topic":"Three"}`,
	)}
	svc := NewChatService(g)

	chats, err := svc.List(context.Background(), "", 2)
	require.NoError(t, err)
	assert.Len(t, chats, 2)
}

func TestChatService_Resolve_ThreadIDSkipsListing(t *testing.T) {
	g := newMockGraph()
	g.responses["GET chats/19:aaa@thread.v2?$expand=members"] = json.RawMessage(`{"id":"19:aaa@thread.v2","topic":"Standup"}`)
	svc := NewChatService(g)

	chat, err := svc.Resolve(context.Background(), "19:aaa@thread.v2")
	require.NoError(t, err)
	assert.Equal(t, "Standup", chat.Topic)
	assert.Empty(t, g.listPaths, "no listing for an ID reference")
}

func TestChatService_Resolve_ByTopic(t *testing.T) {
	g := newMockGraph()
	g.pages["me/chats"] = [][]json.RawMessage{page(
		`{"id":"c1","topic":"Standup"}`,
		`{"id":"c2","topic":"Release planning"}`,
	)}
	svc := NewChatService(g)

	chat, err := svc.Resolve(context.Background(), "release")
	require.NoError(t, err)
	assert.Equal(t, "c2", chat.ID)
}

func TestChatService_Resolve_NoMatch(t *testing.T) {
	g := newMockGraph()
	g.pages["me/chats"] = [][]json.RawMessage{page(
		`{"id":"c1","topic":"Standup"}`,
	)}
	svc := NewChatService(g)

	_, err := svc.Resolve(context.Background(), "retro")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestChatService_Resolve_Ambiguous(t *testing.T) {
	g := newMockGraph()
	g.pages["me/chats"] = [][]json.RawMessage{page(
		`{"id":"c1","topic":"Platform weekly"}`,
		`{"id":"c2","topic":"Platform incidents"}`,
	)}
	svc := NewChatService(g)

	_, err := svc.Resolve(context.Background(), "platform")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Contains(t, err.Error(), "Platform weekly")
	assert.Contains(t, err.Error(), "Platform incidents")
}

func TestChatService_Resolve_EmptyReference(t *testing.T) {
	svc := NewChatService(newMockGraph())

	_, err := svc.Resolve(context.Background(), "  ")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestChatService_History_OldestFirst(t *testing.T) {
	g := newMockGraph()
	g.responses["GET chats/19:aaa@thread.v2?$expand=members"] = json.RawMessage(`{"id":"19:aaa@thread.v2"}`)
	g.pages["chats/19:aaa@thread.v2/messages"] = [][]json.RawMessage{page(
		`{"id":"m3","body":{"content":"newest"}}`,
		`{"id":"m2","body":{"content":"middle"}}`,
		`{"id":"m1","body":{"content":"oldest"}}`,
	)}
	svc := NewChatService(g)

	messages, err := svc.History(context.Background(), "19:aaa@thread.v2", 10, time.Time{})
	require.NoError(t, err)
	require.Len(t, messages, 3)
	assert.Equal(t, "m1", messages[0].ID)
	assert.Equal(t, "m3", messages[2].ID)

	opts := g.listOpts["chats/19:aaa@thread.v2/messages"]
	assert.Equal(t, "createdDateTime desc", opts.OrderBy)
	assert.Equal(t, 10, opts.MaxItems)
	assert.Empty(t, opts.Filter)
}

func TestChatService_History_SinceFilter(t *testing.T) {
	g := newMockGraph()
	g.responses["GET chats/19:aaa@thread.v2?$expand=members"] = json.RawMessage(`{"id":"19:aaa@thread.v2"}`)
	g.pages["chats/19:aaa@thread.v2/messages"] = [][]json.RawMessage{page()}
	svc := NewChatService(g)

	since := time.Date(2026, 8, 20, 12, 0, 0, 0, time.UTC)
	_, err := svc.History(context.Background(), "19:aaa@thread.v2", 0, since)
	require.NoError(t, err)

	opts := g.listOpts["chats/19:aaa@thread.v2/messages"]
	assert.Equal(t, "createdDateTime gt 2026-08-20T12:00:00Z", opts.Filter)
}

func TestChatService_Send(t *testing.T) {
	g := newMockGraph()
	g.responses["GET chats/19:aaa@thread.v2?$expand=members"] = json.RawMessage(`{"id":"19:aaa@thread.v2"}`)
	g.responses["POST chats/19:aaa@thread.v2/messages"] = json.RawMessage(`{"id":"m9","body":{"content":"On my way"}}`)
	svc := NewChatService(g)

	sent, err := svc.Send(context.Background(), "19:aaa@thread.v2", "On my way")
	require.NoError(t, err)
	assert.Equal(t, "m9", sent.ID)

	assert.JSONEq(t, `{"body": {"contentType": "text", "content": "On my way"}}`, bodyJSON(t, g.lastCall()))
}

func TestChatService_Send_EmptyMessage(t *testing.T) {
	svc := NewChatService(newMockGraph())

	_, err := svc.Send(context.Background(), "19:aaa@thread.v2", "   ")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestChatService_Search_Delegates(t *testing.T) {
	g := newMockGraph()
	g.matches = []domain.MessageMatch{
		{ChatID: "c1", Message: domain.ChatMessage{ID: "m1"}},
	}
	svc := NewChatService(g)

	matches, err := svc.Search(context.Background(), "deadline", domain.SearchOptions{})
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, "m1", matches[0].Message.ID)
}

func TestChatService_Search_EmptyQuery(t *testing.T) {
	svc := NewChatService(newMockGraph())

	_, err := svc.Search(context.Background(), " ", domain.SearchOptions{})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestChatService_Search_PropagatesError(t *testing.T) {
	g := newMockGraph()
	g.searchErr = errors.New("search region unavailable")
	svc := NewChatService(g)

	_, err := svc.Search(context.Background(), "deadline", domain.SearchOptions{})
	require.Error(t, err)
}
