// Package tokenfile persists the OAuth token record as a JSON file.
// The file layout matches what the token endpoint returns, plus a
// _saved_at timestamp stamped on every save, and is written with
// owner-only permissions.
package tokenfile
