// Package metrics records HTTP request counts and latencies for the auth
// service with Prometheus client_golang.
//
// Engine-level counters (signups, logins, revocations) live in the root
// package and are exported through metrics/export/prometheus. This package
// only covers the transport: one counter vector keyed by route and status
// and one latency histogram keyed by route.
package metrics
