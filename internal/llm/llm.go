package llm

import (
	"context"
	"errors"
)

// Message represents a single chat message.
type Message struct {
	Role    string
	Content string
}

// Options bound a single chat completion call.
type Options struct {
	MaxTokens   int
	Temperature float32
}

// Client abstracts hosted chat-completion providers.
type Client interface {
	ChatCompletion(ctx context.Context, messages []Message, opts Options) (string, error)
}

// ErrNotConfigured is returned by the placeholder client.
var ErrNotConfigured = errors.New("llm client not configured")

// PlaceholderClient is a stub implementation used when no provider is wired.
type PlaceholderClient struct{}

// ChatCompletion returns ErrNotConfigured.
func (PlaceholderClient) ChatCompletion(ctx context.Context, messages []Message, opts Options) (string, error) {
	_ = ctx
	_ = messages
	_ = opts
	return "", ErrNotConfigured
}
