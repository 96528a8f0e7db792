package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// Client abstracts LLM providers.
type Client interface {
	Complete(ctx context.Context, req Request) (string, error)
}

// Request is a single completion call. JSON asks the provider for a JSON
// object response when it supports that mode.
type Request struct {
	System string
	Prompt string
	JSON   bool
}

var (
	// ErrNotImplemented is returned by the placeholder client.
	ErrNotImplemented = errors.New("LLM not configured")
	// ErrEmptyResponse is returned when the provider answered with no text.
	ErrEmptyResponse = errors.New("LLM returned an empty response")
)

// StatusError is a non-2xx reply from a provider.
type StatusError struct {
	Provider string
	Code     int
	Message  string
}

func (e *StatusError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("%s: http status %d", e.Provider, e.Code)
	}
	return fmt.Sprintf("%s: http status %d: %s", e.Provider, e.Code, e.Message)
}

// PlaceholderClient is used when no provider is configured.
type PlaceholderClient struct{}

// Complete returns ErrNotImplemented.
func (PlaceholderClient) Complete(context.Context, Request) (string, error) {
	return "", ErrNotImplemented
}

// CleanJSON strips markdown code fences some models wrap JSON in.
func CleanJSON(text string) string {
	text = strings.TrimSpace(text)
	if !strings.HasPrefix(text, "```") {
		return text
	}
	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSuffix(strings.TrimSpace(text), "```")
	return strings.TrimSpace(text)
}
