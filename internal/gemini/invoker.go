package gemini

import (
	"context"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/ssarthak-dev/honeygrid/internal/reliability"
)

const defaultDeadline = 6 * time.Second

// Invoker wraps the generation capability with credential rotation. The
// rotation index is process-wide: two sessions rotating at once merely waste
// one extra attempt. Invoke never returns an error; exhaustion surfaces as
// ok=false and the caller substitutes a fallback reply.
type Invoker struct {
	mu       sync.Mutex
	adapters []Adapter
	idx      int
	deadline time.Duration
	observe  func(outcome string)
}

func newInvoker(adapters []Adapter, deadline time.Duration) *Invoker {
	if deadline <= 0 {
		deadline = defaultDeadline
	}
	return &Invoker{adapters: adapters, deadline: deadline}
}

// PoolSize reports how many credentials back the invoker.
func (v *Invoker) PoolSize() int { return len(v.adapters) }

// SetAttemptObserver installs a callback invoked with the outcome of every
// generation attempt (success, rotated, terminal, deadline), plus once with
// "exhausted" when a full rotation fails.
func (v *Invoker) SetAttemptObserver(fn func(outcome string)) {
	v.observe = fn
}

func (v *Invoker) observeAttempt(outcome string) {
	if v.observe != nil {
		v.observe(outcome)
	}
}

// Invoke attempts the generation call, rotating credentials on transient
// failure. Attempts are bounded by pool size (one full rotation at most) and
// the whole invocation by the per-call deadline.
func (v *Invoker) Invoke(ctx context.Context, prompt string) (text string, ok bool) {
	ctx, cancel := context.WithTimeout(ctx, v.deadline)
	defer cancel()

	for attempt := 0; attempt < len(v.adapters); attempt++ {
		adapter, idx := v.current()
		out, err := adapter.Complete(ctx, prompt)
		if err == nil && strings.TrimSpace(out) != "" {
			v.observeAttempt("success")
			return strings.TrimSpace(out), true
		}

		if ctx.Err() != nil {
			v.observeAttempt("deadline")
			log.Printf("generation abandoned after deadline (credential %d): %v", idx, err)
			return "", false
		}
		if err != nil && !reliability.IsRotatableGenerationError(err) {
			v.observeAttempt("terminal")
			log.Printf("generation failed terminally (credential %d): %v", idx, err)
			return "", false
		}
		v.observeAttempt("rotated")
		log.Printf("generation failed, rotating credential %d: %v", idx, err)
		v.rotate(idx)
	}
	v.observeAttempt("exhausted")
	return "", false
}

func (v *Invoker) current() (Adapter, int) {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.adapters[v.idx], v.idx
}

// rotate advances the shared index only if it still points at the credential
// that just failed; a concurrent rotation already moved it otherwise.
func (v *Invoker) rotate(failedIdx int) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.idx == failedIdx {
		v.idx = (v.idx + 1) % len(v.adapters)
	}
}
