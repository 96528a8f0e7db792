package history

import "errors"

var (
	// ErrNotFound is returned when the user has no row for a resume id.
	ErrNotFound = errors.New("resume not found")
	// ErrInvalidInput is returned for empty ids or payloads that are not JSON objects.
	ErrInvalidInput = errors.New("invalid resume payload")
)
