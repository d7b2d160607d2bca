package httpapi

import (
	"crypto/subtle"
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"

	"github.com/ssarthak-dev/honeygrid/internal/config"
	"github.com/ssarthak-dev/honeygrid/internal/engine"
	"github.com/ssarthak-dev/honeygrid/internal/feed"
	"github.com/ssarthak-dev/honeygrid/internal/observability"
	"github.com/ssarthak-dev/honeygrid/internal/protocol"
	"github.com/ssarthak-dev/honeygrid/internal/session"
)

// apiKeyHeader carries the shared secret gating the engagement endpoint.
const apiKeyHeader = "X-Api-Key"

type Server struct {
	cfg      config.Config
	engine   *engine.Engine
	metrics  *observability.Metrics
	hub      *feed.Hub
	upgrader websocket.Upgrader
}

func New(cfg config.Config, eng *engine.Engine, metrics *observability.Metrics, hub *feed.Hub) *Server {
	return &Server{
		cfg:     cfg,
		engine:  eng,
		metrics: metrics,
		hub:     hub,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4096,
			WriteBufferSize: 4096,
			CheckOrigin: func(r *http.Request) bool {
				// Only same-origin browser clients may watch the feed unless
				// explicitly opened up; the feed carries live forensic data.
				if cfg.AllowAnyOrigin {
					return true
				}
				origin := strings.TrimSpace(r.Header.Get("Origin"))
				if origin == "" {
					return true
				}
				u, err := url.Parse(origin)
				if err != nil {
					return false
				}
				if u.Scheme != "http" && u.Scheme != "https" {
					return false
				}
				return strings.EqualFold(u.Host, r.Host)
			},
		},
	}
}

func (s *Server) Router() http.Handler {
	r := chi.NewRouter()

	r.Get("/healthz", s.handleHealth)
	r.Get("/readyz", s.handleReady)
	r.Get("/metrics", func(w http.ResponseWriter, r *http.Request) {
		observability.MetricsHandler().ServeHTTP(w, r)
	})

	r.Post("/api/honeypot", s.handleEngage)

	r.Get("/v1/sessions", s.handleListSessions)
	r.Get("/v1/sessions/{id}", s.handleGetSession)
	r.Post("/v1/sessions/{id}/end", s.handleEndSession)
	r.Get("/v1/feed/ws", s.handleFeedWS)
	r.Get("/v1/perf/latency", s.handlePerfLatency)

	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	respondJSON(w, http.StatusOK, map[string]any{"status": "running"})
}

func (s *Server) handleReady(w http.ResponseWriter, _ *http.Request) {
	respondJSON(w, http.StatusOK, map[string]any{
		"status":           "ready",
		"active_sessions":  s.engine.Sessions().Count(),
		"feed_subscribers": s.hub.SubscriberCount(),
	})
}

// handleEngage is the honeypot endpoint: authorize, run one engagement turn,
// answer with the reply or the terminal consolidated report.
func (s *Server) handleEngage(w http.ResponseWriter, r *http.Request) {
	if !s.authorized(r) {
		respondError(w, http.StatusUnauthorized, "unauthorized", "invalid or missing API key")
		return
	}

	var req protocol.EngageRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}
	if err := req.Validate(); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	reply, final := s.engine.HandleMessage(r.Context(), req)
	if final != nil {
		respondJSON(w, http.StatusOK, final)
		return
	}
	respondJSON(w, http.StatusOK, reply)
}

func (s *Server) handleListSessions(w http.ResponseWriter, _ *http.Request) {
	respondJSON(w, http.StatusOK, map[string]any{
		"sessions": s.engine.Sessions().List(),
	})
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	snap, err := s.engine.Sessions().Snapshot(id)
	if err != nil {
		if errors.Is(err, session.ErrNotFound) {
			respondError(w, http.StatusNotFound, "session_not_found", err.Error())
			return
		}
		respondError(w, http.StatusInternalServerError, "internal", err.Error())
		return
	}
	respondJSON(w, http.StatusOK, snap)
}

func (s *Server) handleEndSession(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	final, err := s.engine.ForceFinalize(id)
	if err != nil {
		if errors.Is(err, session.ErrNotFound) {
			respondError(w, http.StatusNotFound, "session_not_found", err.Error())
			return
		}
		respondError(w, http.StatusConflict, "already_reported", err.Error())
		return
	}
	respondJSON(w, http.StatusOK, final)
}

func (s *Server) handlePerfLatency(w http.ResponseWriter, _ *http.Request) {
	respondJSON(w, http.StatusOK, s.metrics.SnapshotStages())
}

func (s *Server) authorized(r *http.Request) bool {
	got := strings.TrimSpace(r.Header.Get(apiKeyHeader))
	if got == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(got), []byte(s.cfg.APIKey)) == 1
}

type errorResponse struct {
	Status string `json:"status"`
	Error  string `json:"error"`
	Code   string `json:"code"`
}

func decodeJSON(r *http.Request, out any) error {
	if r.Body == nil {
		return errors.New("empty body")
	}
	defer r.Body.Close()
	return json.NewDecoder(r.Body).Decode(out)
}

func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func respondError(w http.ResponseWriter, status int, code, message string) {
	respondJSON(w, status, errorResponse{Status: "error", Error: message, Code: code})
}
