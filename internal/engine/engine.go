// Package engine wires the extraction, classification, reply and reporting
// stages into the per-conversation engagement loop.
package engine

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/ssarthak-dev/honeygrid/internal/archive"
	"github.com/ssarthak-dev/honeygrid/internal/classify"
	"github.com/ssarthak-dev/honeygrid/internal/engage"
	"github.com/ssarthak-dev/honeygrid/internal/feed"
	"github.com/ssarthak-dev/honeygrid/internal/intel"
	"github.com/ssarthak-dev/honeygrid/internal/observability"
	"github.com/ssarthak-dev/honeygrid/internal/protocol"
	"github.com/ssarthak-dev/honeygrid/internal/report"
	"github.com/ssarthak-dev/honeygrid/internal/session"
)

const archiveWriteTimeout = 5 * time.Second

// Engine is the session engagement engine: one instance serves all sessions.
type Engine struct {
	sessions      *session.Manager
	classifier    *classify.Classifier
	selector      *engage.Selector
	dispatcher    *report.Dispatcher
	store         archive.Store
	hub           *feed.Hub
	metrics       *observability.Metrics
	turnThreshold int
}

func New(
	sessions *session.Manager,
	classifier *classify.Classifier,
	selector *engage.Selector,
	dispatcher *report.Dispatcher,
	store archive.Store,
	hub *feed.Hub,
	metrics *observability.Metrics,
	turnThreshold int,
) *Engine {
	if turnThreshold < 1 {
		turnThreshold = 10
	}
	return &Engine{
		sessions:      sessions,
		classifier:    classifier,
		selector:      selector,
		dispatcher:    dispatcher,
		store:         store,
		hub:           hub,
		metrics:       metrics,
		turnThreshold: turnThreshold,
	}
}

// Sessions exposes the underlying store for transport-level handlers.
func (e *Engine) Sessions() *session.Manager { return e.sessions }

// HandleMessage runs one engagement turn. It always produces a reply; when
// the turn threshold is reached it additionally returns the consolidated
// final report, which the transport sends instead of the plain reply body.
func (e *Engine) HandleMessage(ctx context.Context, req protocol.EngageRequest) (protocol.EngageResponse, *protocol.FinalReport) {
	start := time.Now()
	text := req.Message.Text

	rec, created := e.sessions.GetOrCreate(req.SessionID)
	if created {
		e.metrics.SessionEvents.WithLabelValues("created").Inc()
		e.metrics.ActiveSessions.Set(float64(e.sessions.Count()))
	}

	rec.Lock()
	defer rec.Unlock()

	rec.BeginTurn(time.Now().UTC())

	stageStart := time.Now()
	found := intel.Extract(text)
	e.metrics.ObserveStage("extract", time.Since(stageStart))

	added := rec.MergeIntel(found)
	for _, category := range intel.Categories {
		for _, value := range added[category] {
			e.metrics.ArtifactsExtracted.WithLabelValues(category).Inc()
			e.hub.Publish(feed.Event{
				Type:      feed.TypeArtifact,
				SessionID: rec.ID,
				Turn:      rec.TurnCount,
				Category:  category,
				Value:     value,
			})
		}
	}

	stageStart = time.Now()
	assessment := e.classifier.Assess(text, found)
	rec.ScamScore += assessment.Score
	if !rec.ScamFlagged && e.classifier.ShouldFlag(assessment, rec.ScamScore) {
		rec.Flag()
		e.metrics.SessionEvents.WithLabelValues("scam_flagged").Inc()
		e.hub.Publish(feed.Event{
			Type:      feed.TypeScamFlagged,
			SessionID: rec.ID,
			Turn:      rec.TurnCount,
		})
	}
	e.metrics.ObserveStage("classify", time.Since(stageStart))

	stageStart = time.Now()
	reply, source := e.selector.SelectReply(ctx, text, rec)
	e.metrics.ObserveStage("select_reply", time.Since(stageStart))
	e.metrics.Replies.WithLabelValues(string(source)).Inc()
	if source == engage.SourceFallback {
		e.metrics.ObserveIndicator("generation_fallback")
	}
	e.hub.Publish(feed.Event{
		Type:      feed.TypeReply,
		SessionID: rec.ID,
		Turn:      rec.TurnCount,
		Value:     reply,
	})

	e.archiveTurn(rec.ID, req.Message.Sender, text)
	e.archiveTurn(rec.ID, "honeypot", reply)

	var final *protocol.FinalReport
	if rec.TurnCount >= e.turnThreshold && rec.MarkReported() {
		final = e.finalize(rec, "threshold")
	}

	e.metrics.ObserveTurnLatency(time.Since(start))
	return protocol.EngageResponse{Status: "success", Reply: reply}, final
}

// ForceFinalize ends a session on operator request, firing the report if it
// has not fired yet, and evicts the record.
func (e *Engine) ForceFinalize(id string) (*protocol.FinalReport, error) {
	rec, err := e.sessions.Get(id)
	if err != nil {
		return nil, err
	}

	rec.Lock()
	var final *protocol.FinalReport
	if rec.MarkReported() {
		final = e.finalize(rec, "manual")
	}
	snapshotReported := rec.Reported
	rec.Unlock()

	e.sessions.Remove(id)
	e.metrics.SessionEvents.WithLabelValues("ended").Inc()
	e.metrics.ActiveSessions.Set(float64(e.sessions.Count()))
	e.hub.Publish(feed.Event{Type: feed.TypeSessionEnd, SessionID: id})

	if final == nil && snapshotReported {
		return nil, fmt.Errorf("session %s already reported", id)
	}
	return final, nil
}

// FinalizeExpired is the session janitor's expire hook; the record lock is
// already held. Sessions that never produced evidence are dropped silently.
func (e *Engine) FinalizeExpired(rec *session.Record) {
	e.metrics.SessionEvents.WithLabelValues("expired").Inc()
	if rec.ScamFlagged || hasAnyIntel(rec) {
		if rec.MarkReported() {
			e.finalize(rec, "idle_expiry")
		}
	}
	e.metrics.ActiveSessions.Set(float64(e.sessions.Count()))
}

// finalize builds and dispatches the terminal report. Callers hold the record
// lock and have already won the MarkReported race, so this runs at most once
// per session.
func (e *Engine) finalize(rec *session.Record, trigger string) *protocol.FinalReport {
	final := &protocol.FinalReport{
		ReportID:               uuid.NewString(),
		SessionID:              rec.ID,
		ScamDetected:           rec.ScamFlagged,
		TotalMessagesExchanged: rec.TurnCount * 2,
		ExtractedIntelligence:  rec.IntelCopy(),
		AgentNotes:             buildAgentNotes(rec),
		EngagementSeconds:      time.Since(rec.StartedAt).Seconds(),
	}

	e.dispatcher.DispatchAsync(*final)
	e.metrics.ReportDispatches.WithLabelValues(trigger).Inc()
	e.metrics.SessionEvents.WithLabelValues("reported").Inc()
	e.hub.Publish(feed.Event{
		Type:      feed.TypeReport,
		SessionID: rec.ID,
		Turn:      rec.TurnCount,
		Value:     final.ReportID,
	})

	rep := *final
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), archiveWriteTimeout)
		defer cancel()
		if err := e.store.SaveReport(ctx, rep); err != nil {
			log.Printf("archive report failed for session %s: %v", rep.SessionID, err)
		}
	}()

	return final
}

func (e *Engine) archiveTurn(sessionID, sender, text string) {
	if sender == "" {
		sender = "scammer"
	}
	rec := archive.TurnRecord{SessionID: sessionID, Sender: sender, Text: text}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), archiveWriteTimeout)
		defer cancel()
		if err := e.store.SaveTurn(ctx, rec); err != nil {
			log.Printf("archive turn failed for session %s: %v", rec.SessionID, err)
		}
	}()
}

func buildAgentNotes(rec *session.Record) string {
	artifacts := 0
	categories := 0
	for _, values := range rec.Intel {
		if len(values) == 0 {
			continue
		}
		categories++
		artifacts += len(values)
	}
	verdict := "no scam indicators confirmed"
	if rec.ScamFlagged {
		verdict = "scam behavior confirmed"
	}
	return fmt.Sprintf(
		"Engaged for %d turns over %s; %s; collected %d artifacts across %d categories.",
		rec.TurnCount,
		time.Since(rec.StartedAt).Round(time.Second),
		verdict,
		artifacts,
		categories,
	)
}

func hasAnyIntel(rec *session.Record) bool {
	for _, values := range rec.Intel {
		if len(values) > 0 {
			return true
		}
	}
	return false
}
