// Package flows contains pure-function orchestrators for every Engine operation.
//
// Each flow function (RunSignup, RunLogin, RunVerify2FA, RunLogout,
// RunValidate) accepts a typed dependency struct and returns a result that
// carries a classified Failure instead of a host-level error. The Engine maps
// failures onto its public sentinels, metrics and logs.
//
// # Architecture boundaries
//
// Flow functions coordinate calls to the user store, challenge store,
// revocation store, notifier, token manager and attempt limiter. They do NOT
// own any of these resources; ownership stays with the Engine.
//
// # What this package must NOT do
//
//   - Hold mutable state between calls.
//   - Import authservice (to avoid import cycles).
//   - Perform I/O directly. All I/O is mediated through dependency interfaces.
package flows
