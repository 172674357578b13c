package graph

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/trinoor/o365-cli/internal/core/domain"
	"github.com/trinoor/o365-cli/internal/logger"
)

const (
	// searchPageSize is the offset-paging window for the search
	// endpoint.
	searchPageSize = 25

	// scanChatLimit bounds how many chats the fallback scan visits.
	scanChatLimit = 50

	// scanMessageLimit bounds how much history the fallback scan reads
	// per chat.
	scanMessageLimit = 50
)

// searchRequest is the body for the search endpoint.
type searchRequest struct {
	Requests []searchQuery `json:"requests"`
}

type searchQuery struct {
	EntityTypes []string `json:"entityTypes"`
	Query       struct {
		QueryString string `json:"queryString"`
	} `json:"query"`
	From int `json:"from"`
	Size int `json:"size"`
}

// searchResponse is the envelope the search endpoint answers with.
type searchResponse struct {
	Value []struct {
		HitsContainers []struct {
			Hits []struct {
				HitID    string          `json:"hitId"`
				Summary  string          `json:"summary"`
				Resource json.RawMessage `json:"resource"`
			} `json:"hits"`
			MoreResultsAvailable bool `json:"moreResultsAvailable"`
			Total                int  `json:"total"`
		} `json:"hitsContainers"`
	} `json:"value"`
}

// SearchMessages finds chat messages matching query. The server-side
// search endpoint is tried first; when it cannot serve the request, or
// when a chat-scoped search comes back empty (the index sometimes
// skips chats it should cover), the chats are scanned directly.
// Callers get the same result shape either way.
func (c *Client) SearchMessages(ctx context.Context, query string, opts domain.SearchOptions) ([]domain.MessageMatch, error) {
	matches, err := c.serverSearch(ctx, query, opts)
	switch {
	case err != nil:
		if ctx.Err() != nil {
			return nil, err
		}
		logger.Debug("graph: server search unavailable (%v), scanning chats", err)
		return c.scanSearch(ctx, query, opts)
	case len(matches) == 0 && opts.ChatID != "":
		logger.Debug("graph: scoped search returned no hits, scanning chat directly")
		return c.scanSearch(ctx, query, opts)
	}
	return matches, nil
}

// serverSearch drives the search endpoint with offset paging. Scope
// and since filters are applied by discarding hits locally; the
// endpoint does not support them natively for chat messages. Failures
// are wrapped in ErrSearchUnavailable so the dispatcher can fall back.
func (c *Client) serverSearch(ctx context.Context, query string, opts domain.SearchOptions) ([]domain.MessageMatch, error) {
	limit := opts.EffectiveLimit()
	var matches []domain.MessageMatch

	for from := 0; ; from += searchPageSize {
		req := searchRequest{Requests: []searchQuery{{
			EntityTypes: []string{"chatMessage"},
			From:        from,
			Size:        searchPageSize,
		}}}
		req.Requests[0].Query.QueryString = query

		raw, err := c.Post(ctx, "search/query", req)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrSearchUnavailable, err)
		}

		var resp searchResponse
		if err := json.Unmarshal(raw, &resp); err != nil {
			return nil, fmt.Errorf("%w: decode search response: %v", ErrSearchUnavailable, err)
		}

		more := false
		for _, result := range resp.Value {
			for _, container := range result.HitsContainers {
				more = more || container.MoreResultsAvailable
				for _, hit := range container.Hits {
					var msg domain.ChatMessage
					if err := json.Unmarshal(hit.Resource, &msg); err != nil {
						continue
					}
					if msg.Body.Content == "" && hit.Summary != "" {
						msg.Body.Content = hit.Summary
					}
					if !opts.Accepts(msg.ChatID, msg.CreatedDateTime) {
						continue
					}
					matches = append(matches, domain.NewMessageMatch(msg.ChatID, msg))
					if len(matches) >= limit {
						return matches, nil
					}
				}
			}
		}

		if !more {
			return matches, nil
		}
	}
}

// scanSearch is the fallback: enumerate chats, page through each one's
// history, and match with a case-insensitive substring. Results come
// back in chat enumeration order, newest message first within each
// chat; there is no cross-chat ordering.
func (c *Client) scanSearch(ctx context.Context, query string, opts domain.SearchOptions) ([]domain.MessageMatch, error) {
	chats, err := c.candidateChats(ctx, opts)
	if err != nil {
		return nil, err
	}

	limit := opts.EffectiveLimit()
	var matches []domain.MessageMatch

	for i := range chats {
		chat := &chats[i]
		pager := c.List("chats/"+chat.ID+"/messages", domain.ListOptions{
			Top:      scanMessageLimit,
			MaxItems: scanMessageLimit,
			OrderBy:  "createdDateTime desc",
		})
		items, err := pager.All(ctx)
		if err != nil {
			// A chat that cannot be read should not sink the whole
			// scan; matches from other chats still count.
			logger.Warn("Skipping chat %s: %v", chat.ID, err)
			continue
		}

		for _, item := range items {
			var msg domain.ChatMessage
			if err := json.Unmarshal(item, &msg); err != nil {
				continue
			}
			if !msg.ContainsFold(query) {
				continue
			}
			if !opts.Accepts(chat.ID, msg.CreatedDateTime) {
				continue
			}
			matches = append(matches, domain.NewMessageMatchInChat(chat, msg))
			if len(matches) >= limit {
				return matches, nil
			}
		}
	}
	return matches, nil
}

// candidateChats resolves the set of chats the fallback will scan: the
// single scoped chat, or the most recently active ones.
func (c *Client) candidateChats(ctx context.Context, opts domain.SearchOptions) ([]domain.Chat, error) {
	if opts.ChatID != "" {
		var chat domain.Chat
		if err := c.GetJSON(ctx, "chats/"+opts.ChatID+"?$expand=members", &chat); err != nil {
			// The scan can still run against the bare ID.
			logger.Debug("graph: could not load chat %s: %v", opts.ChatID, err)
			chat = domain.Chat{ID: opts.ChatID}
		}
		return []domain.Chat{chat}, nil
	}

	pager := c.List("me/chats", domain.ListOptions{
		Top:      scanChatLimit,
		MaxItems: scanChatLimit,
		Expand:   "members",
		OrderBy:  "lastMessagePreview/createdDateTime desc",
	})
	items, err := pager.All(ctx)
	if err != nil {
		return nil, fmt.Errorf("list chats: %w", err)
	}

	chats := make([]domain.Chat, 0, len(items))
	for _, item := range items {
		var chat domain.Chat
		if err := json.Unmarshal(item, &chat); err != nil {
			continue
		}
		chats = append(chats, chat)
	}
	return chats, nil
}
