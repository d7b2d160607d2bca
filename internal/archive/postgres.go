package archive

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ssarthak-dev/honeygrid/internal/protocol"
)

// PostgresStore persists transcripts and reports in PostgreSQL.
type PostgresStore struct {
	pool *pgxpool.Pool
}

func NewPostgresStore(ctx context.Context, databaseURL string) (*PostgresStore, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}

	if err := initSchema(ctx, pool); err != nil {
		pool.Close()
		return nil, err
	}

	return &PostgresStore{pool: pool}, nil
}

func initSchema(ctx context.Context, pool *pgxpool.Pool) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS engagement_turns (
			id TEXT PRIMARY KEY,
			session_id TEXT NOT NULL,
			sender TEXT NOT NULL,
			content TEXT NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now()
		);`,
		`CREATE INDEX IF NOT EXISTS idx_engagement_turns_session_created ON engagement_turns (session_id, created_at);`,
		`CREATE TABLE IF NOT EXISTS engagement_reports (
			id TEXT PRIMARY KEY,
			session_id TEXT NOT NULL,
			scam_detected BOOLEAN NOT NULL,
			total_messages INTEGER NOT NULL,
			intelligence JSONB NOT NULL,
			agent_notes TEXT NOT NULL,
			engagement_seconds DOUBLE PRECISION NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now()
		);`,
	}

	for _, stmt := range stmts {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("init schema failed on %q: %w", stmt, err)
		}
	}
	return nil
}

func (s *PostgresStore) SaveTurn(ctx context.Context, record TurnRecord) error {
	if record.ID == "" {
		record.ID = uuid.NewString()
	}
	if record.CreatedAt.IsZero() {
		record.CreatedAt = time.Now().UTC()
	}

	_, err := s.pool.Exec(ctx,
		`INSERT INTO engagement_turns (id, session_id, sender, content, created_at)
		 VALUES ($1, $2, $3, $4, $5)`,
		record.ID,
		record.SessionID,
		record.Sender,
		record.Text,
		record.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("save turn: %w", err)
	}
	return nil
}

func (s *PostgresStore) SaveReport(ctx context.Context, report protocol.FinalReport) error {
	id := report.ReportID
	if id == "" {
		id = uuid.NewString()
	}
	intelJSON, err := json.Marshal(report.ExtractedIntelligence)
	if err != nil {
		return fmt.Errorf("marshal intelligence: %w", err)
	}

	_, err = s.pool.Exec(ctx,
		`INSERT INTO engagement_reports (id, session_id, scam_detected, total_messages, intelligence, agent_notes, engagement_seconds)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 ON CONFLICT (id) DO NOTHING`,
		id,
		report.SessionID,
		report.ScamDetected,
		report.TotalMessagesExchanged,
		intelJSON,
		report.AgentNotes,
		report.EngagementSeconds,
	)
	if err != nil {
		return fmt.Errorf("save report: %w", err)
	}
	return nil
}

func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}
