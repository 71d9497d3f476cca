// Package prometheus exposes Engine counters as a client_golang Collector.
//
// [NewPrometheusExporter] accepts an [authservice.Engine]. The collector reads
// [authservice.Engine.MetricsSnapshot] on every scrape. Counter names are
// prefixed authservice_*_total; the single histogram is
// authservice_verify_token_latency_seconds.
//
// # What this package must NOT do
//
//   - Register metrics in the global Prometheus registry. Callers choose the
//     registry.
//   - Mutate engine state.
package prometheus
