package engage

import (
	"github.com/ssarthak-dev/honeygrid/internal/intel"
	"github.com/ssarthak-dev/honeygrid/internal/session"
)

// probe is one clarifying question designed to solicit a single missing
// intelligence category.
type probe struct {
	category string
	question string
}

// probeSequence is ordered by how much each artifact is worth to a report.
var probeSequence = []probe{
	{intel.CategoryPhones, "My phone shows unknown number only. Which number should I call you back on?"},
	{intel.CategoryLinks, "I am not finding any link in the message. Can you send me the link again?"},
	{intel.CategoryEmails, "Should I get some confirmation on email? What is the email ID I will receive it from?"},
	{intel.CategoryUPI, "My son set up the PhonePe for me. Which UPI ID should I send the money to?"},
	{intel.CategoryCaseRefs, "They will ask me for some reference number at the bank, no? What number do I tell them?"},
	{intel.CategoryAccounts, "The bank form is asking for the full account number. Can you tell me the whole number?"},
}

// stallingPool keeps the conversation alive once every category is populated.
var stallingPool = []string{
	"One minute, my spectacles are in the other room. Can you explain once more?",
	"The network in my area is very bad. What did you say after hello?",
	"My daughter told me to be careful on phone. But you sound like a good person. What do I do next?",
	"This phone hangs so much. Where exactly do I have to press?",
	"I was making tea, sorry. Can you repeat the last part slowly?",
}

// scriptedReply picks the first probe whose category is still missing and
// which has not been asked in the recent window; with nothing missing it
// rotates through the stalling pool, repeating only when the pool is
// exhausted by the history window.
func scriptedReply(rec *session.Record) string {
	for _, p := range probeSequence {
		if rec.HasIntel(p.category) {
			continue
		}
		if inHistory(rec.ReplyHistory, p.question) {
			continue
		}
		return p.question
	}
	return pickRotating(stallingPool, rec)
}

// pickRotating returns the first pool line absent from the reply history,
// falling back to a turn-indexed rotation when every line was used recently.
func pickRotating(pool []string, rec *session.Record) string {
	for _, line := range pool {
		if !inHistory(rec.ReplyHistory, line) {
			return line
		}
	}
	return pool[rec.TurnCount%len(pool)]
}

func inHistory(history []string, line string) bool {
	for _, h := range history {
		if h == line {
			return true
		}
	}
	return false
}
