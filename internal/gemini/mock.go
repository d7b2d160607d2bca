package gemini

import (
	"context"
)

// MockAdapter produces deterministic in-character replies when no Gemini
// credential is configured. Useful for dev and for tests that exercise the
// full reply path without network access.
type MockAdapter struct{}

func NewMockAdapter() *MockAdapter { return &MockAdapter{} }

var mockReplies = []string{
	"Sorry beta, I am not understanding. Can you say that again slowly?",
	"My phone is very slow today. Which number should I call you back on?",
	"I wrote it down but my reading glasses are missing. Can you send it once more?",
	"My grandson usually helps me with these things. What do I press now?",
}

func (a *MockAdapter) Complete(ctx context.Context, prompt string) (string, error) {
	select {
	case <-ctx.Done():
		return "", ctx.Err()
	default:
	}
	// Vary deterministically with the prompt so consecutive turns do not
	// repeat the same line.
	idx := 0
	for _, r := range prompt {
		idx += int(r)
	}
	return mockReplies[idx%len(mockReplies)], nil
}
