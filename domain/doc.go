// Package domain holds the value types and capability interfaces shared by
// the engine, the stores and the HTTP layer.
//
// # Value types
//
// Email, Password, LoginAttemptID and TwoFACode are built only through their
// Parse (or New) constructors, so a value of one of these types always
// satisfies its invariants. All of them wrap their payload in [Secret]: fmt,
// slog and encoding/json render "[REDACTED]", and Expose must be called to
// read the raw value.
//
// # Stores
//
// [UserStore], [BannedTokenStore] and [TwoFACodeStore] are implemented by the
// packages under stores/. Implementations return the sentinel errors declared
// here and wrap anything else with [ErrStoreUnavailable].
package domain
