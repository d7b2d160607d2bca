package gemini

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
)

// Adapter is the opaque text-generation capability: given a prompt, return
// text or fail.
type Adapter interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// Config controls invoker construction.
type Config struct {
	Mode     string
	APIKeys  []string
	Model    string
	Deadline time.Duration
}

// NewInvoker builds the resilient invoker for the configured mode.
//
// auto prefers Gemini when at least one key is configured and degrades to the
// deterministic mock otherwise, so the service stays useful in dev and tests.
func NewInvoker(ctx context.Context, cfg Config) (*Invoker, error) {
	mode := strings.ToLower(strings.TrimSpace(cfg.Mode))
	if mode == "" {
		mode = "auto"
	}

	switch mode {
	case "auto":
		if len(cfg.APIKeys) == 0 {
			return newInvoker([]Adapter{NewMockAdapter()}, cfg.Deadline), nil
		}
		return newGeminiInvoker(ctx, cfg)
	case "gemini":
		if len(cfg.APIKeys) == 0 {
			return nil, errors.New("gemini mode requires at least one API key")
		}
		return newGeminiInvoker(ctx, cfg)
	case "mock":
		return newInvoker([]Adapter{NewMockAdapter()}, cfg.Deadline), nil
	default:
		return nil, fmt.Errorf("unsupported generation mode %q", cfg.Mode)
	}
}

func newGeminiInvoker(ctx context.Context, cfg Config) (*Invoker, error) {
	adapters := make([]Adapter, 0, len(cfg.APIKeys))
	for _, key := range cfg.APIKeys {
		a, err := NewGeminiAdapter(ctx, key, cfg.Model)
		if err != nil {
			return nil, fmt.Errorf("init gemini credential %d: %w", len(adapters)+1, err)
		}
		adapters = append(adapters, a)
	}
	return newInvoker(adapters, cfg.Deadline), nil
}
