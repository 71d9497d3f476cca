// Package middleware exposes [RequireSession], an HTTP guard for services
// that sit behind authservice and only need to know whether a request
// carries a valid session.
//
// The guard reads the jwt cookie (or a bearer Authorization header), calls
// Engine.VerifyToken, and injects the validated claims into the request
// context.
//
// # What this package must NOT do
//
//   - Parse or create JWTs directly (delegates to Engine).
//   - Access Redis (Engine handles I/O).
//   - Make authorization decisions beyond pass/reject from Engine.VerifyToken.
package middleware
