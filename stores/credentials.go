// Package stores holds helpers shared by the UserStore implementations in
// its subpackages: hashing a candidate password on its way in and checking
// one against a stored hash.
package stores

import (
	"context"
	"fmt"
	"sync"

	"github.com/MrEthical07/authservice/domain"
)

// Hasher is the subset of password.Pool the user stores depend on.
type Hasher interface {
	Hash(ctx context.Context, plaintext string) (string, error)
	Verify(ctx context.Context, plaintext, encoded string) (bool, error)
}

// SealUser returns u with PasswordHash derived from u.Password and the
// plaintext dropped. A user that already carries a hash is returned as is.
func SealUser(ctx context.Context, h Hasher, u domain.User) (domain.User, error) {
	if u.PasswordHash != "" {
		u.Password = domain.Password{}
		return u, nil
	}
	encoded, err := h.Hash(ctx, u.Password.Expose())
	if err != nil {
		return domain.User{}, fmt.Errorf("%w: hash password: %v", domain.ErrStoreUnavailable, err)
	}
	u.PasswordHash = encoded
	u.Password = domain.Password{}
	return u, nil
}

// CheckPassword compares candidate against encoded.
func CheckPassword(ctx context.Context, h Hasher, encoded string, candidate domain.Password) error {
	ok, err := h.Verify(ctx, candidate.Expose(), encoded)
	if err != nil {
		return fmt.Errorf("%w: verify password: %v", domain.ErrStoreUnavailable, err)
	}
	if !ok {
		return domain.ErrInvalidCredentials
	}
	return nil
}

// Decoy burns one Verify against a fixed hash so that ValidateUser for an
// unknown email costs about as much as a wrong password.
type Decoy struct {
	mu      sync.Mutex
	encoded string
}

const decoyPassword = "decoy-password-never-matches"

// Spend runs the decoy comparison. Errors are ignored; the result is never
// a match. The decoy hash is derived outside the caller's cancellation and
// retried until one derivation succeeds.
func (d *Decoy) Spend(ctx context.Context, h Hasher, candidate domain.Password) {
	encoded := d.hash(ctx, h)
	if encoded == "" {
		return
	}
	_, _ = h.Verify(ctx, candidate.Expose(), encoded)
}

func (d *Decoy) hash(ctx context.Context, h Hasher) string {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.encoded == "" {
		if encoded, err := h.Hash(context.WithoutCancel(ctx), decoyPassword); err == nil {
			d.encoded = encoded
		}
	}
	return d.encoded
}
