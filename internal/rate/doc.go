// Package rate counts failed authentication attempts in Redis.
//
// # Window semantics
//
// Fixed-window counters: INCR + conditional EXPIRE on first hit. Key prefixes:
//   - al:  login failures per email
//   - ali: login failures per client IP
//   - a2f: second-factor failures per email
//
// Only failures are counted. A check rejects once the counter reaches
// MaxAttempts; a success clears the per-email counter.
package rate
