package engage

import (
	"context"

	"github.com/ssarthak-dev/honeygrid/internal/session"
)

// Strategy picks how outbound replies are produced. Fixed per deployment.
type Strategy string

const (
	// StrategyScripted walks a deterministic probe sequence.
	StrategyScripted Strategy = "scripted"
	// StrategyPersona asks the generation backend for an in-character reply,
	// degrading to the deterministic fallback pool on any failure.
	StrategyPersona Strategy = "persona"
)

// Source labels where the selected reply came from, for metrics.
type Source string

const (
	SourceScripted  Source = "scripted"
	SourceGenerated Source = "generated"
	SourceFallback  Source = "fallback"
)

// Generator is the resilient generation capability. ok=false means the
// credential pool is exhausted or the deadline expired.
type Generator interface {
	Invoke(ctx context.Context, prompt string) (text string, ok bool)
}

// Selector chooses the next outbound message for a session.
type Selector struct {
	strategy Strategy
	gen      Generator
}

func New(strategy Strategy, gen Generator) *Selector {
	if strategy != StrategyScripted {
		strategy = StrategyPersona
	}
	return &Selector{strategy: strategy, gen: gen}
}

// SelectReply produces the outbound text for one turn and appends it to the
// session's reply history. It always returns a non-empty string; generation
// failure is absorbed here, never surfaced. Caller holds the record lock.
func (s *Selector) SelectReply(ctx context.Context, inbound string, rec *session.Record) (string, Source) {
	var (
		reply  string
		source Source
	)

	switch s.strategy {
	case StrategyScripted:
		reply, source = scriptedReply(rec), SourceScripted
	default:
		reply, source = s.personaReply(ctx, inbound, rec)
	}

	rec.RememberReply(reply)
	return reply, source
}

func (s *Selector) personaReply(ctx context.Context, inbound string, rec *session.Record) (string, Source) {
	if s.gen != nil {
		prompt := buildPersonaPrompt(inbound, rec)
		if text, ok := s.gen.Invoke(ctx, prompt); ok && acceptGenerated(text, rec.LastReply()) {
			return text, SourceGenerated
		}
	}
	return fallbackLine(rec), SourceFallback
}
