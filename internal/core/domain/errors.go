package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from transport errors, which the graph connector
// surfaces as typed values.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrNotAuthenticated indicates no token record exists on disk.
	// Run the device-code login to create one.
	ErrNotAuthenticated = errors.New("not authenticated")

	// ErrAmbiguousRecipient indicates a people search matched more than
	// one person and the caller must disambiguate.
	ErrAmbiguousRecipient = errors.New("ambiguous recipient")

	// ErrAmbiguousDrive indicates a drive name matched more than one drive.
	ErrAmbiguousDrive = errors.New("ambiguous drive name")

	// ErrDriveNotFound indicates no drive matched the given name or ID.
	ErrDriveNotFound = errors.New("drive not found")

	// ErrNoTranscript indicates a recording has no transcript.
	ErrNoTranscript = errors.New("no transcript available")

	// ErrUploadTooLarge indicates a file exceeds the single-request
	// upload limit of 4 MiB.
	ErrUploadTooLarge = errors.New("file too large for simple upload (4 MiB limit)")
)
