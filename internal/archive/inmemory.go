package archive

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/ssarthak-dev/honeygrid/internal/protocol"
)

// InMemoryStore keeps transcripts and reports in process memory for local
// runs and tests.
type InMemoryStore struct {
	mu      sync.RWMutex
	turns   map[string][]TurnRecord
	reports []protocol.FinalReport
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{turns: make(map[string][]TurnRecord)}
}

func (s *InMemoryStore) SaveTurn(_ context.Context, record TurnRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if record.ID == "" {
		record.ID = uuid.NewString()
	}
	if record.CreatedAt.IsZero() {
		record.CreatedAt = time.Now().UTC()
	}
	s.turns[record.SessionID] = append(s.turns[record.SessionID], record)
	return nil
}

func (s *InMemoryStore) SaveReport(_ context.Context, report protocol.FinalReport) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reports = append(s.reports, report)
	return nil
}

// Turns returns the stored transcript for a session, oldest first.
func (s *InMemoryStore) Turns(sessionID string) []TurnRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]TurnRecord, len(s.turns[sessionID]))
	copy(out, s.turns[sessionID])
	return out
}

// Reports returns all stored final reports.
func (s *InMemoryStore) Reports() []protocol.FinalReport {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]protocol.FinalReport, len(s.reports))
	copy(out, s.reports)
	return out
}

func (s *InMemoryStore) Close() error { return nil }
