package transform

import "errors"

var (
	// ErrEmptyInput is returned before any usage check when there is no text.
	ErrEmptyInput = errors.New("input is required")
	// ErrInputTooLarge is returned for text above MaxInputChars.
	ErrInputTooLarge = errors.New("input is too large")
	// ErrUnparseable means the model output was not a JSON object.
	ErrUnparseable = errors.New("could not parse AI response")
)
