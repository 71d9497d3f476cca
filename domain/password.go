package domain

import (
	"errors"
	"fmt"
	"log/slog"
)

// MinPasswordLength is the shortest accepted password, counted in bytes.
const MinPasswordLength = 8

// ErrPasswordTooShort is returned by ParsePassword.
var ErrPasswordTooShort = errors.New("password must be at least 8 characters")

// Password is a plaintext candidate password accepted at the boundary.
// It is never persisted; stores keep only an Argon2id hash.
type Password struct {
	plaintext Secret[string]
}

// ParsePassword rejects inputs shorter than MinPasswordLength. There is no
// upper bound and no character-class requirement.
func ParsePassword(raw string) (Password, error) {
	if len(raw) < MinPasswordLength {
		return Password{}, ErrPasswordTooShort
	}
	return Password{plaintext: NewSecret(raw)}, nil
}

func (p Password) Expose() string {
	return p.plaintext.Expose()
}

func (p Password) String() string {
	return p.plaintext.String()
}

func (p Password) LogValue() slog.Value {
	return p.plaintext.LogValue()
}

func (p Password) Format(f fmt.State, verb rune) {
	p.plaintext.Format(f, verb)
}
