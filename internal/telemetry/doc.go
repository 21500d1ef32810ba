// Package telemetry provides the decomposer's two external collaborators
// that aren't pure data: the progress/logger sink, and a metrics/tracing
// Provider. The logger is a log/slog wrapper; the Provider is an
// OpenTelemetry meter provider backed by a Prometheus exporter, tracking
// decomposition counters (splits, kills, finalizations, relocations).
// Because this is a one-shot CLI rather than a long-lived server, there is
// no /metrics endpoint to scrape — instead WriteMetricsFile renders the
// same Prometheus registry to a text file next to the rest of the run's
// outputs.
package telemetry
