// Package ai defines the interface for report text generation and provides
// implementations backed by Gemini, Anthropic, DeepSeek, and Volcengine Ark.
package ai

import (
	"context"
	"errors"
	"time"
)

// Generator is the interface the report pipeline uses to turn a prompt into
// report markup. Tests inject a stub that returns canned responses.
type Generator interface {
	// Generate sends prompt to the backend and returns the text it produced,
	// unmodified. A non-nil error means nothing usable came back.
	//
	// Implementations must be safe to call concurrently.
	Generate(ctx context.Context, prompt string) (string, error)

	// Model is the fixed model identifier every call uses.
	Model() string
}

// ClientConfig holds what every HTTP-backed Generator needs.
type ClientConfig struct {
	APIKey string
	Model  string

	// BaseURL overrides the provider endpoint. Empty means the public API.
	BaseURL string

	// Timeout bounds a single call. Zero means no client-side limit.
	Timeout time.Duration
}

var (
	// ErrEmptyResponse is returned when the backend answered successfully
	// but produced no text.
	ErrEmptyResponse = errors.New("ai: empty response")

	// ErrRateLimited is returned when the backend answered 429.
	ErrRateLimited = errors.New("ai: rate limited")
)
