package archive

import (
	"context"
	"time"

	"github.com/ssarthak-dev/honeygrid/internal/protocol"
)

// TurnRecord stores a single inbound or outbound message of an engagement.
type TurnRecord struct {
	ID        string    `json:"id"`
	SessionID string    `json:"session_id"`
	Sender    string    `json:"sender"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"created_at"`
}

// Store persists engagement transcripts and final reports. Writes are
// best-effort from the engine's point of view: failures are logged, never
// surfaced to the reply path.
type Store interface {
	SaveTurn(ctx context.Context, record TurnRecord) error
	SaveReport(ctx context.Context, report protocol.FinalReport) error
	Close() error
}
