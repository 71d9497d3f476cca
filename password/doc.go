// Package password hashes and verifies account passwords with Argon2id.
//
// # Output format
//
// Hashes are PHC strings with unpadded base64 salt and key:
//
//	$argon2id$v=19$m=<memory>,t=<iterations>,p=<threads>$<salt>$<key>
//
// Verify reads the parameters back out of the stored string, so hashes
// written with older parameters keep verifying after [DefaultParams] change.
//
// # Concurrency
//
// [Pool] caps the number of in-flight Argon2 computations. Stores call the
// pool instead of the [Hasher] directly.
//
// # What this package must NOT do
//
//   - Enforce password policy. Length rules live in the domain package.
//   - Log plaintext or derived keys.
package password
