// Package authservice is an authentication session engine: signup,
// password login with an optional emailed second factor, and HS256 session
// tokens that can be revoked on logout.
//
// The package is designed for concurrent server workloads: Engine methods are safe to call
// from multiple goroutines after initialization through [Builder.Build].
//
// # Architecture boundaries
//
// authservice is the public surface. It exposes [Engine], [Builder], [Config]
// and the error sentinels. Storage is pluggable through the interfaces in
// package domain; implementations live under stores/. Flow orchestration and
// attempt throttling live under internal/ and are never exported.
//
// # What this package must NOT do
//
//   - Expose Redis clients, internal stores, or encoding details in its public API.
//   - Perform I/O outside of Engine methods (construction via Builder is allocation-only
//     until Build).
//   - Import any sub-package that re-imports authservice (no import cycles).
//
// # Error contract
//
// Every Engine method returns one of the sentinels in errors.go, matched
// with errors.Is. Backend failures surface as [ErrUnexpected] with the cause
// attached for logging; its message never includes the cause.
package authservice
