package telemetry

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestNewProvider_RecordAndWriteMetricsFile(t *testing.T) {
	cfg := DefaultTelemetryConfig()
	cfg.RunID = "test-run"

	p, err := NewProvider(context.Background(), cfg)
	if err != nil {
		t.Fatalf("NewProvider: %v", err)
	}
	defer p.Shutdown(context.Background())

	ctx := context.Background()
	p.RecordSplit(ctx, "000000000001", 2)
	p.RecordKilled(ctx, "000000000002", "substantive-abundance")
	p.RecordFinalized(ctx, "000000000003")
	p.RecordOutliersExpelled(ctx, "000000000003", 5)
	p.RecordOutlierRelocated(ctx, "000000000003", "000000000001")
	p.RecordLevelDuration(ctx, 0, 12*time.Millisecond)

	path := filepath.Join(t.TempDir(), "METRICS.prom")
	if err := p.WriteMetricsFile(path); err != nil {
		t.Fatalf("WriteMetricsFile: %v", err)
	}

	body, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	for _, want := range []string{metricNodesSplit, metricNodesKilled, metricOutliersExpelled} {
		if !strings.Contains(string(body), strings.ReplaceAll(want, ".", "_")) {
			t.Errorf("METRICS.prom missing metric %q:\n%s", want, body)
		}
	}
}

func TestNewProvider_MetricsDisabled(t *testing.T) {
	cfg := TelemetryConfig{ServiceVersion: "0.1.0", EnableMetrics: false, EnableTracing: false}
	p, err := NewProvider(context.Background(), cfg)
	if err != nil {
		t.Fatalf("NewProvider: %v", err)
	}

	// Recording against a disabled provider must not panic.
	p.RecordSplit(context.Background(), "x", 1)
	if p.Tracer() != nil {
		t.Fatalf("Tracer() = non-nil with tracing disabled")
	}
}

func TestLogger_WithFieldsDoesNotPanic(t *testing.T) {
	var buf bytes.Buffer
	cfg := DefaultLogConfig()
	cfg.Output = &buf
	logger := NewLogger(cfg)

	logger.WithRunID("run-1").WithNodeID("000000000001").WithField("phase", "raw").Info("processing node")

	if !strings.Contains(buf.String(), "processing node") {
		t.Fatalf("log output missing message: %s", buf.String())
	}
}

func TestLoggerFromContext_RoundTrip(t *testing.T) {
	var buf bytes.Buffer
	cfg := DefaultLogConfig()
	cfg.Output = &buf
	logger := NewLogger(cfg)

	ctx := logger.WithContext(context.Background())
	got := LoggerFromContext(ctx)
	got.Info("via context")

	if !strings.Contains(buf.String(), "via context") {
		t.Fatalf("log output missing message: %s", buf.String())
	}
}
