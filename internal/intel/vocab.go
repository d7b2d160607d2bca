package intel

// suspiciousTerms is the fixed keyword vocabulary checked against every
// inbound message (lowercased). Matches are recorded as artifacts and also
// feed the scam classifier's signal. Terms are lowercase; multi-word entries
// match as substrings.
var suspiciousTerms = []string{
	// banking / payment
	"otp",
	"upi pin",
	"cvv",
	"atm pin",
	"net banking",
	"kyc",
	"account blocked",
	"account suspended",
	"debit card",
	"credit card",
	"ifsc",
	"processing fee",
	"registration fee",
	"refund",

	// urgency / pressure
	"urgent",
	"immediately",
	"within 24 hours",
	"last warning",
	"final notice",
	"expire",

	// authority impersonation
	"income tax",
	"customs",
	"police",
	"arrest",
	"legal action",
	"court notice",
	"rbi",
	"cyber cell",

	// financial gain bait
	"lottery",
	"lucky draw",
	"prize",
	"cashback",
	"you have won",
	"claim your",
	"investment plan",
	"double your money",

	// technical access
	"anydesk",
	"teamviewer",
	"screen share",
	"remote access",
	"install the app",
	"apk",
	"verification link",
}
