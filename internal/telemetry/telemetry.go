package telemetry

import (
	"context"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	otelprom "go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"
)

const (
	serviceName = "meddecompose"

	metricNodesSplit      = "decompose.nodes.split.total"
	metricNodesKilled     = "decompose.nodes.killed.total"
	metricNodesFinalized  = "decompose.nodes.finalized.total"
	metricOutliersExpelled  = "decompose.outliers.expelled.total"
	metricOutliersRelocated = "decompose.outliers.relocated.total"
	metricLevelDuration     = "decompose.level.duration"
)

// Provider manages OpenTelemetry setup and provides access to tracers,
// meters, and the decomposition-specific instruments recorded during a run.
type Provider struct {
	registry      *prometheus.Registry
	meterProvider *sdkmetric.MeterProvider
	tracer        trace.Tracer
	meter         metric.Meter

	nodesSplit        metric.Int64Counter
	nodesKilled       metric.Int64Counter
	nodesFinalized    metric.Int64Counter
	outliersExpelled  metric.Int64Counter
	outliersRelocated metric.Int64Counter
	levelDuration     metric.Float64Histogram

	mu sync.RWMutex
}

// TelemetryConfig holds telemetry configuration for a single decomposer run.
type TelemetryConfig struct {
	ServiceVersion string
	RunID          string
	EnableTracing  bool
	EnableMetrics  bool
}

// DefaultTelemetryConfig returns the default telemetry configuration.
func DefaultTelemetryConfig() TelemetryConfig {
	return TelemetryConfig{
		ServiceVersion: "0.1.0",
		EnableTracing:  true,
		EnableMetrics:  true,
	}
}

// NewProvider creates a telemetry provider backed by a private Prometheus
// registry, so a batch run never touches process-global collector state and
// can dump its own metrics file on exit.
func NewProvider(ctx context.Context, config TelemetryConfig) (*Provider, error) {
	p := &Provider{registry: prometheus.NewRegistry()}

	res, err := resource.New(ctx,
		resource.WithAttributes(
			semconv.ServiceName(serviceName),
			semconv.ServiceVersion(config.ServiceVersion),
			attribute.String("run.id", config.RunID),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create resource: %w", err)
	}

	if config.EnableMetrics {
		if err := p.initMetrics(res); err != nil {
			return nil, fmt.Errorf("failed to initialize metrics: %w", err)
		}
	}

	if config.EnableTracing {
		p.tracer = otel.GetTracerProvider().Tracer(serviceName)
	}

	return p, nil
}

func (p *Provider) initMetrics(res *resource.Resource) error {
	exporter, err := otelprom.New(otelprom.WithRegisterer(p.registry))
	if err != nil {
		return fmt.Errorf("failed to create prometheus exporter: %w", err)
	}

	p.meterProvider = sdkmetric.NewMeterProvider(
		sdkmetric.WithResource(res),
		sdkmetric.WithReader(exporter),
	)
	p.meter = p.meterProvider.Meter(serviceName)

	return p.createMetricInstruments()
}

func (p *Provider) createMetricInstruments() error {
	var err error

	p.nodesSplit, err = p.meter.Int64Counter(metricNodesSplit,
		metric.WithDescription("Total number of nodes split into children"))
	if err != nil {
		return err
	}

	p.nodesKilled, err = p.meter.Int64Counter(metricNodesKilled,
		metric.WithDescription("Total number of nodes killed for a top unique sequence count below min-substantive-abundance"))
	if err != nil {
		return err
	}

	p.nodesFinalized, err = p.meter.Int64Counter(metricNodesFinalized,
		metric.WithDescription("Total number of nodes finalized as leaves"))
	if err != nil {
		return err
	}

	p.outliersExpelled, err = p.meter.Int64Counter(metricOutliersExpelled,
		metric.WithDescription("Total number of reads expelled as outliers"))
	if err != nil {
		return err
	}

	p.outliersRelocated, err = p.meter.Int64Counter(metricOutliersRelocated,
		metric.WithDescription("Total number of outlier sequences successfully relocated"))
	if err != nil {
		return err
	}

	p.levelDuration, err = p.meter.Float64Histogram(metricLevelDuration,
		metric.WithDescription("Wall-clock duration of one decomposition level"),
		metric.WithUnit("ms"))
	if err != nil {
		return err
	}

	return nil
}

// Tracer returns the tracer used for per-level spans.
func (p *Provider) Tracer() trace.Tracer {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.tracer
}

// Meter returns the meter backing the run's instruments.
func (p *Provider) Meter() metric.Meter {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.meter
}

// RecordSplit records that a node produced children.
func (p *Provider) RecordSplit(ctx context.Context, nodeID string, children int) {
	if p.nodesSplit == nil {
		return
	}
	p.nodesSplit.Add(ctx, 1, metric.WithAttributes(
		attribute.String("node.id", nodeID),
		attribute.Int("children", children),
	))
}

// RecordKilled records that a node was killed rather than split or finalized.
func (p *Provider) RecordKilled(ctx context.Context, nodeID, reason string) {
	if p.nodesKilled == nil {
		return
	}
	p.nodesKilled.Add(ctx, 1, metric.WithAttributes(
		attribute.String("node.id", nodeID),
		attribute.String("reason", reason),
	))
}

// RecordFinalized records that a node became a leaf.
func (p *Provider) RecordFinalized(ctx context.Context, nodeID string) {
	if p.nodesFinalized == nil {
		return
	}
	p.nodesFinalized.Add(ctx, 1, metric.WithAttributes(attribute.String("node.id", nodeID)))
}

// RecordOutliersExpelled records the number of reads expelled from a node.
func (p *Provider) RecordOutliersExpelled(ctx context.Context, nodeID string, count int) {
	if p.outliersExpelled == nil {
		return
	}
	p.outliersExpelled.Add(ctx, int64(count), metric.WithAttributes(attribute.String("node.id", nodeID)))
}

// RecordOutlierRelocated records that one outlier sequence entry (with all
// of its read ids) was relocated.
func (p *Provider) RecordOutlierRelocated(ctx context.Context, fromNodeID, toNodeID string) {
	if p.outliersRelocated == nil {
		return
	}
	p.outliersRelocated.Add(ctx, 1, metric.WithAttributes(
		attribute.String("from.node.id", fromNodeID),
		attribute.String("to.node.id", toNodeID),
	))
}

// RecordLevelDuration records the wall-clock duration of one decomposition level.
func (p *Provider) RecordLevelDuration(ctx context.Context, level int, duration time.Duration) {
	if p.levelDuration == nil {
		return
	}
	p.levelDuration.Record(ctx, float64(duration.Milliseconds()), metric.WithAttributes(
		attribute.Int("level", level),
	))
}

// WriteMetricsFile gathers the run's private Prometheus registry and writes
// it in text exposition format to path, standing in for the /metrics
// endpoint a long-lived server would expose.
func (p *Provider) WriteMetricsFile(path string) error {
	if p.registry == nil {
		return nil
	}
	families, err := p.registry.Gather()
	if err != nil {
		return fmt.Errorf("failed to gather metrics: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create metrics file: %w", err)
	}
	defer f.Close()

	enc := expfmt.NewEncoder(f, expfmt.NewFormat(expfmt.TypeTextPlain))
	for _, mf := range families {
		if err := enc.Encode(mf); err != nil {
			return fmt.Errorf("failed to encode metric family %s: %w", mf.GetName(), err)
		}
	}
	return nil
}

// Shutdown gracefully shuts down the telemetry provider.
func (p *Provider) Shutdown(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.meterProvider != nil {
		if err := p.meterProvider.Shutdown(ctx); err != nil {
			return fmt.Errorf("failed to shutdown meter provider: %w", err)
		}
	}
	return nil
}
