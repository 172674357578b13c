package graph

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/trinoor/o365-cli/internal/core/domain"
)

// simpleUploadLimit is the largest payload the single-request content
// endpoint accepts. Larger files need a resumable upload session,
// which this client does not implement.
const simpleUploadLimit = 4 << 20

// Upload writes content to a drive path through the single-request
// content endpoint. Files at or over the 4 MiB limit are rejected with
// domain.ErrUploadTooLarge before any request is made.
func (c *Client) Upload(ctx context.Context, path string, content io.Reader, size int64) (json.RawMessage, error) {
	if size < 0 {
		return nil, fmt.Errorf("upload %s: unknown content size", path)
	}
	if size >= simpleUploadLimit {
		return nil, fmt.Errorf("upload %s (%d bytes): %w", path, size, domain.ErrUploadTooLarge)
	}
	return c.Execute(ctx, http.MethodPut, path+":/content", content)
}
