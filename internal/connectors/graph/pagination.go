package graph

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/trinoor/o365-cli/internal/core/domain"
	"github.com/trinoor/o365-cli/internal/core/ports/driven"
	"github.com/trinoor/o365-cli/internal/logger"
)

// ListResponse is the envelope Graph wraps collections in.
type ListResponse struct {
	Value    []json.RawMessage `json:"value"`
	NextLink string            `json:"@odata.nextLink"`
	Count    int64             `json:"@odata.count"`
}

// Ensure Pager implements the driven port.
var _ driven.Pager = (*Pager)(nil)

// Pager walks a paginated collection one page at a time. Pages are
// fetched on demand: building a pager performs no I/O, and a bounded
// caller never pays for pages past its bound.
//
// Continuation links from the server are followed verbatim. The items
// of each page keep their server order.
type Pager struct {
	client *Client
	opts   domain.ListOptions

	next    string
	yielded int
	done    bool
	err     error
}

// List starts paging a collection endpoint.
func (c *Client) List(path string, opts domain.ListOptions) driven.Pager {
	return &Pager{
		client: c,
		opts:   opts,
		next:   withQuery(path, opts),
	}
}

// withQuery appends the option parameters to the initial request URL.
// Later page URLs come from the server and already carry their state.
func withQuery(path string, opts domain.ListOptions) string {
	values := opts.Values()
	if len(values) == 0 {
		return path
	}
	sep := "?"
	if strings.Contains(path, "?") {
		sep = "&"
	}
	return path + sep + values.Encode()
}

// NextPage fetches the next page of items. It returns (nil, nil) once
// the collection is exhausted or the item bound is reached. A fetch
// failure ends the stream: the error is returned, retained for Err,
// and no further pages are attempted.
func (p *Pager) NextPage(ctx context.Context) ([]json.RawMessage, error) {
	if p.done || p.err != nil {
		return nil, p.err
	}

	raw, err := p.client.Get(ctx, p.next)
	if err != nil {
		p.err = fmt.Errorf("fetch page: %w", err)
		return nil, p.err
	}

	var page ListResponse
	if err := json.Unmarshal(raw, &page); err != nil {
		p.err = fmt.Errorf("decode page: %w", err)
		return nil, p.err
	}

	items := page.Value
	if items == nil {
		// A page without a value array still advances the stream; a
		// nil return is reserved for exhaustion.
		items = []json.RawMessage{}
	}
	if p.opts.MaxItems > 0 && p.yielded+len(items) >= p.opts.MaxItems {
		items = items[:p.opts.MaxItems-p.yielded]
		p.done = true
	}
	p.yielded += len(items)

	if page.NextLink == "" {
		p.done = true
	}
	p.next = page.NextLink

	logger.Debug("graph: page of %d items (total %d, more=%v)", len(items), p.yielded, !p.done)
	return items, nil
}

// Err returns the error that terminated paging, if any.
func (p *Pager) Err() error {
	return p.err
}

// All drains the remaining pages into a single slice. Items fetched
// before a mid-stream failure are returned alongside the error.
func (p *Pager) All(ctx context.Context) ([]json.RawMessage, error) {
	var items []json.RawMessage
	for {
		page, err := p.NextPage(ctx)
		if err != nil {
			return items, err
		}
		if page == nil {
			return items, nil
		}
		items = append(items, page...)
	}
}
