package classify

import (
	"strings"

	"github.com/ssarthak-dev/honeygrid/internal/intel"
)

// Policy selects how evidence turns into the session scam flag.
type Policy string

const (
	// PolicyLexical flags on the first trigger hit.
	PolicyLexical Policy = "lexical"
	// PolicyWeighted accumulates per-term weights across turns and flags once
	// the session total crosses the threshold.
	PolicyWeighted Policy = "weighted"
)

type trigger struct {
	term   string
	weight int
}

// scamTriggers pairs indicator terms with evidence weights, in match-priority
// order so assessments are deterministic. The vocabulary overlaps the
// extractor's suspicious-keyword list but is tuned for flagging, not
// collection.
var scamTriggers = []trigger{
	{"otp", 5},
	{"upi pin", 5},
	{"cvv", 5},
	{"you have won", 5},
	{"anydesk", 5},
	{"teamviewer", 5},
	{"account blocked", 4},
	{"account suspended", 4},
	{"legal action", 4},
	{"arrest", 4},
	{"lottery", 4},
	{"processing fee", 4},
	{"remote access", 4},
	{"screen share", 4},
	{"gift card", 4},
	{"kyc", 3},
	{"police", 3},
	{"income tax", 3},
	{"customs", 3},
	{"prize", 3},
	{"bitcoin", 3},
	{"pay now", 3},
	{"verify", 2},
	{"urgent", 2},
	{"immediately", 2},
	{"refund", 2},
	{"transfer", 2},
	{"blocked", 2},
	{"suspended", 2},
	{"expire", 2},
}

// structuralWeight is the evidence assigned when a message carries a URL or a
// phone-shaped token; unsolicited links and callback numbers are suspicious
// on their own.
const structuralWeight = 3

// Assessment is the evidence found in a single message.
type Assessment struct {
	Hit   bool
	Score int
	Terms []string
}

// Classifier turns per-message evidence into a monotonic scam decision.
type Classifier struct {
	policy    Policy
	threshold int
}

func New(policy Policy, threshold int) *Classifier {
	if policy != PolicyWeighted {
		policy = PolicyLexical
	}
	if threshold <= 0 {
		threshold = 6
	}
	return &Classifier{policy: policy, threshold: threshold}
}

// Assess scores one inbound message. artifacts is the extractor output for
// the same message, used for the structural signal.
func (c *Classifier) Assess(text string, artifacts map[string][]string) Assessment {
	var a Assessment
	lower := strings.ToLower(text)

	for _, t := range scamTriggers {
		if strings.Contains(lower, t.term) {
			a.Hit = true
			a.Score += t.weight
			a.Terms = append(a.Terms, t.term)
		}
	}

	if len(artifacts[intel.CategoryLinks]) > 0 || len(artifacts[intel.CategoryPhones]) > 0 {
		a.Hit = true
		a.Score += structuralWeight
	}

	return a
}

// ShouldFlag decides whether the session flag flips to true this turn.
// cumulativeScore is the session's running total including this assessment.
// The flag itself is monotonic: callers only ever set it, never clear it.
func (c *Classifier) ShouldFlag(a Assessment, cumulativeScore int) bool {
	if c.policy == PolicyWeighted {
		return cumulativeScore >= c.threshold
	}
	return a.Hit
}
