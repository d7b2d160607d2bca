package engage

import (
	"fmt"
	"strings"

	"github.com/ssarthak-dev/honeygrid/internal/intel"
	"github.com/ssarthak-dev/honeygrid/internal/session"
)

// The persona is fixed per deployment: an elderly, trusting, low-tech-literacy
// target who never quite completes an instruction. Short confused questions
// keep the other side talking and volunteering artifacts.
const personaHeader = `You are roleplaying Savitri, a 68-year-old retired schoolteacher in Pune.
You barely understand smartphones and banking apps. You are polite, trusting and a little
hard of hearing. You never refuse, you just get confused and ask short clarifying questions.
Reply with ONE short message (under 30 words), in simple Indian English.
Never mention being an AI, a bot, a model, or that this is roleplay.`

// solicitHints nudges the persona toward the highest-value artifact still
// missing from the session.
var solicitHints = map[string]string{
	intel.CategoryPhones:   "Ask which phone number you should call back.",
	intel.CategoryLinks:    "Say you did not get the link and ask them to send it again.",
	intel.CategoryEmails:   "Ask which email address the confirmation will come from.",
	intel.CategoryUPI:      "Ask which UPI ID you should send the money to.",
	intel.CategoryCaseRefs: "Ask for the complaint or reference number to note down.",
	intel.CategoryAccounts: "Ask for the full account number for the bank form.",
}

func buildPersonaPrompt(inbound string, rec *session.Record) string {
	var b strings.Builder
	b.WriteString(personaHeader)
	b.WriteString("\n\n")

	if n := len(rec.ReplyHistory); n > 0 {
		b.WriteString("Your recent messages in this conversation:\n")
		for _, line := range rec.ReplyHistory {
			fmt.Fprintf(&b, "- %s\n", line)
		}
		fmt.Fprintf(&b, "Do not repeat your last message: %q\n\n", rec.LastReply())
	}

	for _, p := range probeSequence {
		if !rec.HasIntel(p.category) {
			b.WriteString(solicitHints[p.category])
			b.WriteString("\n\n")
			break
		}
	}

	fmt.Fprintf(&b, "They just said: %q\nSavitri:", strings.TrimSpace(inbound))
	return b.String()
}
