package intel

import (
	"regexp"
	"strings"
)

// Category keys double as the JSON field names in reports, so renaming one is
// a wire-format change.
const (
	CategoryPhones   = "phoneNumbers"
	CategoryAccounts = "bankAccounts"
	CategoryUPI      = "upiIds"
	CategoryLinks    = "phishingLinks"
	CategoryEmails   = "emailAddresses"
	CategoryKeywords = "suspiciousKeywords"
	CategoryCaseRefs = "caseReferences"
)

// Categories lists every extraction category in report order.
var Categories = []string{
	CategoryPhones,
	CategoryAccounts,
	CategoryUPI,
	CategoryLinks,
	CategoryEmails,
	CategoryKeywords,
	CategoryCaseRefs,
}

var (
	digitRunPattern = regexp.MustCompile(`[0-9]+`)
	// Handle detection runs before URL stripping would matter in practice;
	// provider shape decides upi-vs-email, not this pattern.
	handlePattern = regexp.MustCompile(`[A-Za-z0-9][A-Za-z0-9._+\-]*@[A-Za-z0-9][A-Za-z0-9.\-]*`)
	linkPattern   = regexp.MustCompile(`(?i)(?:https?://[^\s]+|www\.[^\s]+|(?:bit\.ly|tinyurl\.com|t\.co|cutt\.ly|rb\.gy|tiny\.cc|is\.gd)/[^\s]+)`)
	caseRefPattern = regexp.MustCompile(`(?i)\b(?:case|complaint|reference|ref|order|txn|transaction|ticket|fir)\s*(?:id|no|number)?\s*[:#]\s*([A-Za-z0-9\-]{4,24})`)

	emailDomainPattern = regexp.MustCompile(`^[A-Za-z0-9.\-]+\.[A-Za-z]{2,}$`)
	upiProviderPattern = regexp.MustCompile(`^[A-Za-z]+$`)
)

// Extract pattern-matches one inbound message into artifact categories. It is
// pure: values are deduplicated within this call only, session-level dedup
// happens when the result is merged into the session record.
func Extract(text string) map[string][]string {
	found := make(map[string][]string)
	add := func(category, value string) {
		value = trimPunct(value)
		if value == "" {
			return
		}
		for _, existing := range found[category] {
			if existing == value {
				return
			}
		}
		found[category] = append(found[category], value)
	}

	normalized := NormalizeNumerals(text)

	for _, run := range digitRunPattern.FindAllString(normalized, -1) {
		switch category, value := classifyDigitRun(run); category {
		case CategoryPhones:
			add(CategoryPhones, value)
		case CategoryAccounts:
			add(CategoryAccounts, value)
		}
	}

	for _, link := range linkPattern.FindAllString(text, -1) {
		add(CategoryLinks, link)
	}

	for _, token := range handlePattern.FindAllString(text, -1) {
		token = trimPunct(token)
		at := strings.LastIndex(token, "@")
		if at <= 0 || at == len(token)-1 {
			continue
		}
		provider := token[at+1:]
		switch {
		case emailDomainPattern.MatchString(provider):
			add(CategoryEmails, token)
		case upiProviderPattern.MatchString(provider):
			add(CategoryUPI, token)
		}
	}

	for _, m := range caseRefPattern.FindAllStringSubmatch(text, -1) {
		add(CategoryCaseRefs, m[1])
	}

	lower := strings.ToLower(text)
	for _, term := range suspiciousTerms {
		if strings.Contains(lower, term) {
			add(CategoryKeywords, term)
		}
	}

	return found
}

// classifyDigitRun decides phone-vs-account for one maximal digit run. Phone
// classification takes precedence: a run that parses as a mobile number is
// never reported as an account, and an account-length run never re-yields an
// embedded phone.
func classifyDigitRun(run string) (category, value string) {
	if phone, ok := significantPhoneDigits(run); ok {
		return CategoryPhones, phone
	}
	if len(run) >= 11 && len(run) <= 18 {
		return CategoryAccounts, run
	}
	return "", ""
}

// significantPhoneDigits reduces a digit run to the 10 significant digits of
// an Indian mobile number, stripping the 91 country prefix or a 0 trunk
// prefix. Mobile numbers start with 6-9.
func significantPhoneDigits(run string) (string, bool) {
	switch len(run) {
	case 10:
		// bare national format
	case 11:
		if run[0] != '0' {
			return "", false
		}
		run = run[1:]
	case 12:
		if !strings.HasPrefix(run, "91") {
			return "", false
		}
		run = run[2:]
	default:
		return "", false
	}
	if run[0] < '6' || run[0] > '9' {
		return "", false
	}
	return run, true
}

func trimPunct(v string) string {
	v = strings.TrimLeft(v, `(["'<{`)
	return strings.TrimRight(v, `.,;:!?)]}>"'`)
}
