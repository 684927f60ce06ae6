// Package prometheus publishes goSession engine metrics to Prometheus.
//
// [Collector] implements prometheus.Collector over an engine snapshot, for
// registration next to the process's other collectors. [Exporter.Render]
// produces the same series as plain exposition text without a registry.
// Counter names are prefixed gosession_*_total; the single histogram is
// gosession_validate_latency_seconds.
package prometheus
