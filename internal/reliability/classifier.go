package reliability

import (
	"context"
	"errors"
	"strings"
	"time"
)

// IsRotatableGenerationError classifies failures that justify rotating to the
// next credential: quota exhaustion, rejected/expired keys, and unknown-model
// responses. Context cancellation and deadline expiry are terminal for the
// whole invocation, never rotatable.
func IsRotatableGenerationError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	msg := strings.ToLower(err.Error())
	for _, marker := range []string{
		"quota",
		"rate limit",
		"429",
		"resource_exhausted",
		"resource exhausted",
		"401",
		"403",
		"unauthorized",
		"unauthenticated",
		"permission denied",
		"api key",
		"404",
		"not found",
		"unavailable",
		"overloaded",
		"500",
		"503",
	} {
		if strings.Contains(msg, marker) {
			return true
		}
	}
	return false
}

// IsRetryableHTTPStatus classifies retryable HTTP status codes for outbound
// calls.
func IsRetryableHTTPStatus(code int) bool {
	switch code {
	case 429, 500, 502, 503, 504:
		return true
	default:
		return false
	}
}

// ExponentialBackoff computes a deterministic capped backoff duration.
func ExponentialBackoff(attempt int, base, cap time.Duration) time.Duration {
	if attempt <= 0 {
		return base
	}
	d := base
	for i := 0; i < attempt; i++ {
		d *= 2
		if d >= cap {
			return cap
		}
	}
	return d
}
