package domain

import (
	"context"
	"errors"
)

var (
	// ErrUserAlreadyExists is returned by UserStore.AddUser for a taken email.
	ErrUserAlreadyExists = errors.New("user already exists")
	// ErrUserNotFound is returned when no user has the requested email.
	ErrUserNotFound = errors.New("user not found")
	// ErrInvalidCredentials is returned by UserStore.ValidateUser on a
	// password mismatch.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrLoginAttemptNotFound is returned when no 2FA challenge is pending
	// for an email.
	ErrLoginAttemptNotFound = errors.New("login attempt not found")
	// ErrStoreUnavailable wraps every backend failure that does not map to
	// one of the conditions above.
	ErrStoreUnavailable = errors.New("store backend unavailable")
)

// UserStore persists accounts. Records are written once on signup and never
// updated.
type UserStore interface {
	AddUser(ctx context.Context, user User) error
	GetUser(ctx context.Context, email Email) (User, error)
	ValidateUser(ctx context.Context, email Email, password Password) error
}

// BannedTokenStore is the revocation set for session tokens.
type BannedTokenStore interface {
	AddBannedToken(ctx context.Context, token string) error
	CheckBannedToken(ctx context.Context, token string) (bool, error)
}

// TwoFACodeStore holds at most one pending challenge per email. AddCode
// replaces any existing entry for the email.
type TwoFACodeStore interface {
	AddCode(ctx context.Context, email Email, attemptID LoginAttemptID, code TwoFACode) error
	RemoveCode(ctx context.Context, email Email) error
	GetCode(ctx context.Context, email Email) (LoginAttemptID, TwoFACode, error)
}

// Notifier delivers a message to a user over a side channel.
type Notifier interface {
	Send(ctx context.Context, recipient Email, subject, body string) error
}
