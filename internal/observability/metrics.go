package observability

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics groups all Prometheus instruments used by the service, plus a
// rolling window for the perf endpoint.
type Metrics struct {
	ActiveSessions     prometheus.Gauge
	SessionEvents      *prometheus.CounterVec
	ArtifactsExtracted *prometheus.CounterVec
	Replies            *prometheus.CounterVec
	GenerationAttempts *prometheus.CounterVec
	ReportDispatches   *prometheus.CounterVec
	TurnLatency        prometheus.Histogram

	stages *stageWindow
}

func NewMetrics(namespace string) *Metrics {
	return &Metrics{
		ActiveSessions: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "active_sessions",
			Help:      "Number of live honeypot sessions.",
		}),
		SessionEvents: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "session_events_total",
			Help:      "Session lifecycle events by type.",
		}, []string{"event"}),
		ArtifactsExtracted: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "artifacts_extracted_total",
			Help:      "Newly extracted intelligence artifacts by category.",
		}, []string{"category"}),
		Replies: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "replies_total",
			Help:      "Outbound replies by source (scripted, generated, fallback).",
		}, []string{"source"}),
		GenerationAttempts: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "generation_attempts_total",
			Help:      "Generation invocations by outcome.",
		}, []string{"outcome"}),
		ReportDispatches: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "report_dispatches_total",
			Help:      "Final report dispatches by trigger.",
		}, []string{"trigger"}),
		TurnLatency: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "turn_latency_ms",
			Help:      "End-to-end latency of one engagement turn in milliseconds.",
			Buckets:   []float64{25, 50, 100, 250, 500, 1000, 2500, 5000, 9000},
		}),
		stages: newStageWindow(256),
	}
}

// ObserveStage records one pipeline stage duration in the rolling window.
func (m *Metrics) ObserveStage(stage string, d time.Duration) {
	m.stages.Observe(stage, float64(d.Microseconds())/1000.0)
}

// ObserveIndicator bumps a named occurrence counter in the rolling window.
func (m *Metrics) ObserveIndicator(name string) {
	m.stages.ObserveIndicator(name)
}

// SnapshotStages returns the rolling latency snapshot for the perf endpoint.
func (m *Metrics) SnapshotStages() StageSnapshot {
	return m.stages.Snapshot()
}

func (m *Metrics) ObserveTurnLatency(d time.Duration) {
	m.TurnLatency.Observe(float64(d.Milliseconds()))
	m.ObserveStage("turn_total", d)
}

func MetricsHandler() http.Handler {
	return promhttp.Handler()
}
