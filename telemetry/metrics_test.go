package telemetry

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestMetricsInitialized(t *testing.T) {
	// Ensure Init is called
	Init()
	Init()

	if SyncRequests == nil || HelixRequests == nil || ChatCommands == nil {
		t.Fatal("counters not initialized")
	}
	if SyncDuration == nil || HelixDuration == nil {
		t.Error("histograms not initialized")
	}
}

func TestObserveSync(t *testing.T) {
	Init()

	before := testutil.ToFloat64(SyncRequests.WithLabelValues("no_match"))
	ObserveSync("no_match", 250*time.Millisecond)
	ObserveSync("no_match", time.Second)
	if got := testutil.ToFloat64(SyncRequests.WithLabelValues("no_match")) - before; got != 2 {
		t.Errorf("no_match delta = %v, want 2", got)
	}
}

func TestObserveHelix(t *testing.T) {
	Init()

	before := testutil.ToFloat64(HelixRequests.WithLabelValues("videos", "200"))
	ObserveHelix("videos", 200)
	if got := testutil.ToFloat64(HelixRequests.WithLabelValues("videos", "200")) - before; got != 1 {
		t.Errorf("videos/200 delta = %v, want 1", got)
	}

	before = testutil.ToFloat64(HelixRequests.WithLabelValues("users", "0"))
	ObserveHelix("users", 0)
	if got := testutil.ToFloat64(HelixRequests.WithLabelValues("users", "0")) - before; got != 1 {
		t.Errorf("users/0 delta = %v, want 1", got)
	}
}

func TestObserveChatCommand(t *testing.T) {
	Init()

	before := testutil.ToFloat64(ChatCommands.WithLabelValues("sync"))
	ObserveChatCommand("sync")
	if got := testutil.ToFloat64(ChatCommands.WithLabelValues("sync")) - before; got != 1 {
		t.Errorf("sync delta = %v, want 1", got)
	}
}

func TestTimeFunc(t *testing.T) {
	d := TimeFunc(nil, func() { time.Sleep(10 * time.Millisecond) })
	if d < 10*time.Millisecond {
		t.Errorf("TimeFunc() = %v, want >= 10ms", d)
	}
}

func TestCorrelation(t *testing.T) {
	ctx := context.Background()
	if GetCorrelation(ctx) != "" {
		t.Error("empty context should have no correlation id")
	}
	ctx = WithCorrelation(ctx, "abc-123")
	if got := GetCorrelation(ctx); got != "abc-123" {
		t.Errorf("GetCorrelation() = %q, want abc-123", got)
	}

	var buf bytes.Buffer
	prev := slog.Default()
	slog.SetDefault(slog.New(slog.NewTextHandler(&buf, nil)))
	defer slog.SetDefault(prev)

	LoggerWithCorr(ctx).Info("hello")
	if !strings.Contains(buf.String(), "corr=abc-123") {
		t.Errorf("log line %q missing corr attribute", buf.String())
	}
}
