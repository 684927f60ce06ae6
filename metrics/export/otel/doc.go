// Package otel publishes goSession engine metrics through an OpenTelemetry
// metric.Meter using observable instruments. Instrument names match the
// Prometheus exporter.
package otel
