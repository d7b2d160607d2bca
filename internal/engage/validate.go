package engage

import (
	"strings"

	"github.com/ssarthak-dev/honeygrid/internal/session"
)

const minReplyLen = 8

// leakMarkers are phrases that betray a non-human origin (or the trap
// itself). Any occurrence discards the generated text.
var leakMarkers = []string{
	"as an ai",
	"language model",
	"i am an ai",
	"i'm an ai",
	"i cannot assist",
	"i can't assist",
	"my instructions",
	"system prompt",
	"roleplay",
	"role-play",
	"persona",
	"chatbot",
	"assistant",
	"honeypot",
	"scammer",
	"this is a scam",
}

// acceptGenerated decides whether a generated reply is usable: non-empty,
// not trivially short, not a repeat of the previous outbound text, and free
// of lexical leaks.
func acceptGenerated(text, lastReply string) bool {
	trimmed := strings.TrimSpace(text)
	if len(trimmed) < minReplyLen {
		return false
	}
	if lastReply != "" && strings.EqualFold(trimmed, strings.TrimSpace(lastReply)) {
		return false
	}
	lower := strings.ToLower(trimmed)
	for _, marker := range leakMarkers {
		if strings.Contains(lower, marker) {
			return false
		}
	}
	return true
}

// fallbackPool is the deterministic last resort when generation is exhausted
// or the output was rejected. Lines are generic enough to follow any inbound
// message.
var fallbackPool = []string{
	"Hello? I think the line cut for a moment. Can you say that again?",
	"I am writing it down, one minute. My pen stopped working. What was it again?",
	"Beta, speak slowly please. My hearing is not like before. What should I do first?",
	"This phone is showing some other screen now. Where do I have to go again?",
	"Wait, my neighbour was at the door. What were you telling me to do?",
}

// fallbackLine picks from the pool avoiding recently used lines.
func fallbackLine(rec *session.Record) string {
	return pickRotating(fallbackPool, rec)
}
