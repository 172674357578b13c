// Package graph implements the Microsoft Graph connector: device-code
// authentication, authenticated request execution, cursor pagination,
// and message search.
//
// # Architecture
//
// The package implements the driven ports the core services call:
//
//   - TokenManager: device-code sign-in and token lifecycle
//   - Client: request execution with rate limiting and typed errors
//   - Pager: lazy page-at-a-time iteration over collections
//   - SearchMessages: two-strategy message search with a local fallback
//
// # Authentication
//
// Sign-in uses the OAuth 2.0 device authorization grant: the user
// enters a short code at a verification URL while the CLI polls the
// token endpoint. The resulting token record is persisted through a
// TokenStore and refreshed proactively whenever its remaining validity
// drops under the 300-second buffer. A failed refresh falls back to
// the stored token rather than failing the operation; the request
// using it surfaces the real error if the token no longer works.
//
// # Request Execution
//
// Every request is attempted exactly once. There is no built-in retry
// and no transparent re-authentication: failures surface to the caller
// as typed values (*APIError, *RateLimitError) rather than being
// retried behind its back. Responses with a 2xx status and an empty
// body yield the EmptyResult marker.
//
// # Rate Limiting
//
// A token bucket throttles requests proactively; 429 responses feed
// their Retry-After into a shared retry-at time that later requests
// wait out before sending.
//
// # Pagination
//
// Collection endpoints return pages linked by continuation URLs. The
// Pager follows those links verbatim, yields one page per call, and
// truncates the final page when a maximum item count is configured.
// Items keep their server order; a mid-stream failure ends the stream
// at the last yielded page boundary.
//
// # Search
//
// Message search prefers the server-side search endpoint with
// offset/size paging. When that endpoint cannot serve the request, or
// a chat-scoped search returns no hits, the dispatcher falls back to
// scanning chat histories directly with a case-insensitive substring
// match. Both strategies produce the same MessageMatch shape, so
// callers never learn which one fired.
package graph
