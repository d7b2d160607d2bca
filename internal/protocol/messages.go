package protocol

import (
	"errors"
	"strings"
)

// Message is one chat message as relayed by the upstream channel bridge
// (SMS, WhatsApp, chat widget).
type Message struct {
	Sender    string `json:"sender"`
	Text      string `json:"text"`
	Timestamp string `json:"timestamp,omitempty"`
}

// EngageRequest is the inbound payload for POST /api/honeypot.
type EngageRequest struct {
	SessionID           string            `json:"sessionId"`
	Message             Message           `json:"message"`
	ConversationHistory []Message         `json:"conversationHistory,omitempty"`
	Metadata            map[string]string `json:"metadata,omitempty"`
}

var ErrInvalidRequest = errors.New("invalid engage request")

// Validate checks the fields the engine cannot work without.
func (r EngageRequest) Validate() error {
	if strings.TrimSpace(r.SessionID) == "" {
		return errors.New("sessionId is required")
	}
	if strings.TrimSpace(r.Message.Text) == "" {
		return errors.New("message.text is required")
	}
	return nil
}

// EngageResponse is the normal per-turn reply body.
type EngageResponse struct {
	Status string `json:"status"`
	Reply  string `json:"reply"`
}

// FinalReport is the consolidated body returned on the terminal turn, and the
// payload delivered to the external reporting collaborator.
type FinalReport struct {
	ReportID               string              `json:"reportId,omitempty"`
	SessionID              string              `json:"sessionId"`
	ScamDetected           bool                `json:"scamDetected"`
	TotalMessagesExchanged int                 `json:"totalMessagesExchanged"`
	ExtractedIntelligence  map[string][]string `json:"extractedIntelligence"`
	AgentNotes             string              `json:"agentNotes"`
	EngagementSeconds      float64             `json:"engagementDurationSeconds"`
}
