package suggestions

import "errors"

var (
	// ErrInvalidInput is returned before any usage check when the description is blank.
	ErrInvalidInput = errors.New("description is required")
	// ErrInvalidResponse means the model answered with something other than three suggestions.
	ErrInvalidResponse = errors.New("invalid AI response")
)
