package driven

import (
	"context"
	"encoding/json"
	"io"

	"github.com/trinoor/o365-cli/internal/core/domain"
)

// GraphClient executes authenticated requests against the Microsoft
// Graph API. Implementations attach credentials and resolve relative
// paths; callers see decoded JSON or a typed API error.
//
// A request is attempted exactly once. Retry and re-authentication are
// the caller's decision, not the transport's.
type GraphClient interface {
	// Execute performs a request and returns the raw response body.
	// A 2xx response with no body yields EmptyResult.
	Execute(ctx context.Context, method, path string, body any) (json.RawMessage, error)

	// Get fetches a single resource.
	Get(ctx context.Context, path string) (json.RawMessage, error)

	// GetJSON fetches a resource and decodes it into out.
	GetJSON(ctx context.Context, path string, out any) error

	// Post sends a JSON body and returns the response.
	Post(ctx context.Context, path string, body any) (json.RawMessage, error)

	// Patch applies a partial update.
	Patch(ctx context.Context, path string, body any) (json.RawMessage, error)

	// Delete removes a resource.
	Delete(ctx context.Context, path string) error

	// List starts paging a collection endpoint. Pages are fetched
	// lazily as the pager is advanced.
	List(path string, opts domain.ListOptions) Pager

	// SearchMessages finds chat messages matching query, preferring
	// the server-side search endpoint and falling back to a local
	// scan when the server cannot serve the request.
	SearchMessages(ctx context.Context, query string, opts domain.SearchOptions) ([]domain.MessageMatch, error)

	// Download streams raw content from an absolute or relative URL.
	// The caller must close the reader.
	Download(ctx context.Context, url string) (io.ReadCloser, error)

	// Upload writes content to a drive path in a single request.
	// Content at or above the simple-upload size limit is rejected.
	Upload(ctx context.Context, path string, content io.Reader, size int64) (json.RawMessage, error)
}

// Pager walks a paginated Graph collection one page at a time.
type Pager interface {
	// NextPage fetches the next page of items. It returns nil when
	// the collection is exhausted or a fetch fails; Err distinguishes
	// the two.
	NextPage(ctx context.Context) ([]json.RawMessage, error)

	// Err returns the error that terminated paging, if any.
	Err() error

	// All drains the remaining pages into a single slice. Items
	// fetched before a mid-stream failure are returned alongside the
	// error.
	All(ctx context.Context) ([]json.RawMessage, error)
}
