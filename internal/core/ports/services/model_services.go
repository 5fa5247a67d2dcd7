package services

import (
	"context"
	"errors"
)

// ErrModelNotConfigured is returned by providers that cannot serve requests at all,
// such as a provider without credentials. Callers do not retry it.
var ErrModelNotConfigured = errors.New("generative model is not configured")

// GenerativeModel is an external text generation provider. Output is free-form text
// without any structural guarantee.
type GenerativeModel interface {
	Generate(ctx context.Context, prompt string, maxTokens int32, temperature float32) (string, error)
}
