// Package telemetry provides Prometheus metrics and correlation-id aware logging helpers.
package telemetry

import (
	"context"
	"log/slog"
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	once sync.Once

	// Counters
	SyncRequests  *prometheus.CounterVec // outcome=ok|invalid_input|not_found|no_match|gateway|unknown
	HelixRequests *prometheus.CounterVec // endpoint, status
	ChatCommands  *prometheus.CounterVec // command

	// Histograms (seconds)
	SyncDuration  prometheus.Observer
	HelixDuration prometheus.Observer
)

// Init registers metrics (idempotent).
func Init() {
	once.Do(func() {
		SyncRequests = promauto.NewCounterVec(prometheus.CounterOpts{Name: "vodsync_requests_total", Help: "Number of clip/VOD sync resolutions by outcome"}, []string{"outcome"})
		HelixRequests = promauto.NewCounterVec(prometheus.CounterOpts{Name: "vodsync_helix_requests_total", Help: "Number of Twitch Helix API requests by endpoint and HTTP status"}, []string{"endpoint", "status"})
		ChatCommands = promauto.NewCounterVec(prometheus.CounterOpts{Name: "vodsync_chat_commands_total", Help: "Number of chat commands handled"}, []string{"command"})
		SyncDuration = promauto.NewHistogram(prometheus.HistogramOpts{Name: "vodsync_duration_seconds", Help: "Sync resolution duration seconds", Buckets: prometheus.DefBuckets})
		HelixDuration = promauto.NewHistogram(prometheus.HistogramOpts{Name: "vodsync_helix_request_duration_seconds", Help: "Twitch Helix request round-trip seconds", Buckets: prometheus.DefBuckets})
	})
}

// ObserveSync records one resolution outcome and its latency.
func ObserveSync(outcome string, d time.Duration) {
	if SyncRequests != nil {
		SyncRequests.WithLabelValues(outcome).Inc()
	}
	if SyncDuration != nil {
		SyncDuration.Observe(d.Seconds())
	}
}

// ObserveHelix counts a Helix request. status 0 means the request never got a response.
func ObserveHelix(endpoint string, status int) {
	if HelixRequests != nil {
		HelixRequests.WithLabelValues(endpoint, strconv.Itoa(status)).Inc()
	}
}

// ObserveChatCommand counts a handled chat command.
func ObserveChatCommand(command string) {
	if ChatCommands != nil {
		ChatCommands.WithLabelValues(command).Inc()
	}
}

// TimeFunc measures the duration of fn and records in observer if non-nil.
func TimeFunc(obs prometheus.Observer, fn func()) time.Duration {
	start := time.Now()
	fn()
	d := time.Since(start)
	if obs != nil {
		obs.Observe(d.Seconds())
	}
	return d
}

// Correlation ID helpers ----------------------------------------------------
type corrKeyType struct{}

var corrKey corrKeyType

// WithCorrelation returns a new context embedding the correlation id.
func WithCorrelation(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, corrKey, id)
}

// GetCorrelation returns correlation id or empty string.
func GetCorrelation(ctx context.Context) string {
	if s, ok := ctx.Value(corrKey).(string); ok {
		return s
	}
	return ""
}

// LoggerWithCorr returns a logger with corr attribute if present.
func LoggerWithCorr(ctx context.Context) *slog.Logger {
	if id := GetCorrelation(ctx); id != "" {
		return slog.Default().With(slog.String("corr", id))
	}
	return slog.Default()
}
