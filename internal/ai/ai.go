// Package ai is the boundary to the external chat-completion provider.
// The rest of the application sees a single text-in/text-out call.
package ai

import (
	"context"
	"errors"
	"time"

	"github.com/aanand-mishra/engineers-api/internal/metrics"
)

// ErrProvider wraps every failure coming back from the chat provider:
// transport errors, provider-side errors and empty answers alike.
var ErrProvider = errors.New("ai: chat provider failure")

// Client sends a prompt and returns the full text answer.
// There is no retry and no streaming.
type Client interface {
	Chat(ctx context.Context, prompt string) (string, error)
}

// ClientFunc adapts a plain function to Client.
type ClientFunc func(ctx context.Context, prompt string) (string, error)

func (f ClientFunc) Chat(ctx context.Context, prompt string) (string, error) { return f(ctx, prompt) }

// Instrument wraps c so every call is counted and timed under the given
// provider label.
func Instrument(c Client, provider string) Client {
	return &instrumented{next: c, provider: provider}
}

type instrumented struct {
	next     Client
	provider string
}

func (i *instrumented) Chat(ctx context.Context, prompt string) (string, error) {
	start := time.Now()
	text, err := i.next.Chat(ctx, prompt)
	metrics.AILatency.WithLabelValues(i.provider).Observe(time.Since(start).Seconds())

	status := "ok"
	if err != nil {
		status = "error"
	}
	metrics.AIRequestsTotal.WithLabelValues(i.provider, status).Inc()
	return text, err
}
