package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ssarthak-dev/honeygrid/internal/archive"
	"github.com/ssarthak-dev/honeygrid/internal/classify"
	"github.com/ssarthak-dev/honeygrid/internal/config"
	"github.com/ssarthak-dev/honeygrid/internal/engage"
	"github.com/ssarthak-dev/honeygrid/internal/engine"
	"github.com/ssarthak-dev/honeygrid/internal/feed"
	"github.com/ssarthak-dev/honeygrid/internal/gemini"
	"github.com/ssarthak-dev/honeygrid/internal/httpapi"
	"github.com/ssarthak-dev/honeygrid/internal/observability"
	"github.com/ssarthak-dev/honeygrid/internal/report"
	"github.com/ssarthak-dev/honeygrid/internal/session"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	metrics := observability.NewMetrics(cfg.MetricsNamespace)

	ctx := context.Background()
	store, err := archive.NewStore(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("archive store init failed: %v", err)
	}
	defer store.Close()

	invoker, err := gemini.NewInvoker(ctx, gemini.Config{
		Mode:     cfg.GenerationMode,
		APIKeys:  cfg.GeminiAPIKeys,
		Model:    cfg.GeminiModel,
		Deadline: cfg.GenerationDeadline,
	})
	if err != nil {
		log.Fatalf("generation backend init failed: %v", err)
	}
	invoker.SetAttemptObserver(func(outcome string) {
		metrics.GenerationAttempts.WithLabelValues(outcome).Inc()
	})
	log.Printf("generation backend ready (pool size %d)", invoker.PoolSize())

	sessions := session.NewManager(cfg.SessionIdleTimeout)
	classifier := classify.New(classify.Policy(cfg.ScamPolicy), cfg.ScamScoreThreshold)
	selector := engage.New(engage.Strategy(cfg.ReplyStrategy), invoker)
	dispatcher := report.NewDispatcher(cfg.ReportURL, cfg.ReportTimeout)
	hub := feed.NewHub()

	eng := engine.New(sessions, classifier, selector, dispatcher, store, hub, metrics, cfg.TurnThreshold)
	sessions.SetExpireHook(eng.FinalizeExpired)

	api := httpapi.New(cfg, eng, metrics, hub)
	httpServer := &http.Server{
		Addr:    cfg.BindAddr,
		Handler: api.Router(),
	}

	runCtx, runCancel := context.WithCancel(context.Background())
	defer runCancel()
	sessions.StartJanitor(runCtx, 30*time.Second)

	go func() {
		log.Printf("server listening on %s (strategy=%s, turn threshold=%d)",
			cfg.BindAddr, cfg.ReplyStrategy, cfg.TurnThreshold)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("listen error: %v", err)
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh
	log.Printf("shutdown signal received")

	runCancel()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Printf("graceful shutdown failed: %v", err)
		_ = httpServer.Close()
	}

	log.Printf("shutdown complete")
}
