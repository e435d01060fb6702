package ai

import (
	"context"
	"errors"
)

var (
	// ErrRateLimited marks quota or throttling failures; the retrier keeps
	// trying on these.
	ErrRateLimited = errors.New("ai: rate limited")

	// ErrUnavailable marks transient upstream failures (5xx, garbage output).
	ErrUnavailable = errors.New("ai: provider unavailable")

	// ErrNoProvider means no API key was configured. Never retried.
	ErrNoProvider = errors.New("ai: no provider configured")
)

// Apology is sent when the rate limit holds after all retry attempts.
const Apology = "Desculpe, o limite de taxa foi atingido mesmo após tentativas. Tente mais tarde."

// Provider generates a reply for a fully assembled prompt.
type Provider interface {
	Generate(ctx context.Context, prompt string) (string, error)
}
