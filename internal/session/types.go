package session

import (
	"sync"
	"time"

	"github.com/ssarthak-dev/honeygrid/internal/intel"
)

// replyHistoryWindow bounds how many recent outbound texts a record keeps for
// repetition avoidance.
const replyHistoryWindow = 4

// Record is the per-conversation state. The session identifier is supplied by
// the caller, never generated here. All mutating methods expect the record
// lock to be held; the engine holds it for a whole turn so concurrent
// requests for the same session serialize, while other sessions proceed.
type Record struct {
	mu sync.Mutex

	ID             string              `json:"sessionId"`
	TurnCount      int                 `json:"turnCount"`
	ScamFlagged    bool                `json:"scamFlagged"`
	ScamScore      int                 `json:"scamScore"`
	Intel          map[string][]string `json:"extractedIntelligence"`
	ReplyHistory   []string            `json:"replyHistory"`
	Reported       bool                `json:"reported"`
	StartedAt      time.Time           `json:"startedAt"`
	LastActivityAt time.Time           `json:"lastActivityAt"`
}

func (r *Record) Lock()   { r.mu.Lock() }
func (r *Record) Unlock() { r.mu.Unlock() }

// BeginTurn counts one inbound message. Turns count inbound messages only;
// reports derive total messages exchanged as 2*TurnCount.
func (r *Record) BeginTurn(now time.Time) {
	r.TurnCount++
	r.LastActivityAt = now
}

// MergeIntel folds freshly extracted artifacts into the record, preserving
// insertion order and silently dropping duplicates. It returns only the
// values that were actually new; re-merging the same artifacts returns an
// empty map.
func (r *Record) MergeIntel(found map[string][]string) map[string][]string {
	added := make(map[string][]string)
	for _, category := range intel.Categories {
		for _, value := range found[category] {
			if containsString(r.Intel[category], value) {
				continue
			}
			r.Intel[category] = append(r.Intel[category], value)
			added[category] = append(added[category], value)
		}
	}
	return added
}

// Flag sets the scam flag. There is deliberately no way to clear it.
func (r *Record) Flag() {
	r.ScamFlagged = true
}

// HasIntel reports whether the category already holds at least one value.
func (r *Record) HasIntel(category string) bool {
	return len(r.Intel[category]) > 0
}

// RememberReply appends an outbound text to the bounded history window.
func (r *Record) RememberReply(text string) {
	r.ReplyHistory = append(r.ReplyHistory, text)
	if n := len(r.ReplyHistory); n > replyHistoryWindow {
		r.ReplyHistory = r.ReplyHistory[n-replyHistoryWindow:]
	}
}

// LastReply returns the most recent outbound text, or "".
func (r *Record) LastReply() string {
	if len(r.ReplyHistory) == 0 {
		return ""
	}
	return r.ReplyHistory[len(r.ReplyHistory)-1]
}

// MarkReported flips the reported flag and reports whether this call won.
// At-most-one report per session hinges on this being checked under the
// record lock.
func (r *Record) MarkReported() bool {
	if r.Reported {
		return false
	}
	r.Reported = true
	return true
}

// IntelCopy deep-copies the intelligence map for report payloads, with every
// category present even when empty.
func (r *Record) IntelCopy() map[string][]string {
	out := make(map[string][]string, len(intel.Categories))
	for _, category := range intel.Categories {
		values := make([]string, len(r.Intel[category]))
		copy(values, r.Intel[category])
		out[category] = values
	}
	return out
}

// snapshot clones the record for lock-free readers.
func (r *Record) snapshot() *Record {
	c := &Record{
		ID:             r.ID,
		TurnCount:      r.TurnCount,
		ScamFlagged:    r.ScamFlagged,
		ScamScore:      r.ScamScore,
		Intel:          r.IntelCopy(),
		Reported:       r.Reported,
		StartedAt:      r.StartedAt,
		LastActivityAt: r.LastActivityAt,
	}
	c.ReplyHistory = append(c.ReplyHistory, r.ReplyHistory...)
	return c
}

func containsString(values []string, v string) bool {
	for _, existing := range values {
		if existing == v {
			return true
		}
	}
	return false
}
