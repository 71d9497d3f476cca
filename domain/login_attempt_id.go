package domain

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
)

// ErrInvalidLoginAttemptID is returned by ParseLoginAttemptID.
var ErrInvalidLoginAttemptID = errors.New("invalid login attempt id")

// LoginAttemptID identifies one pending 2FA challenge. It is the canonical
// textual form of a UUID.
type LoginAttemptID struct {
	id Secret[string]
}

// NewLoginAttemptID returns a fresh random (v4) identifier.
func NewLoginAttemptID() LoginAttemptID {
	return LoginAttemptID{id: NewSecret(uuid.NewString())}
}

// ParseLoginAttemptID accepts any syntactically valid UUID.
func ParseLoginAttemptID(raw string) (LoginAttemptID, error) {
	parsed, err := uuid.Parse(raw)
	if err != nil {
		return LoginAttemptID{}, fmt.Errorf("%w: %v", ErrInvalidLoginAttemptID, err)
	}
	return LoginAttemptID{id: NewSecret(parsed.String())}, nil
}

func (l LoginAttemptID) Expose() string {
	return l.id.Expose()
}

func (l LoginAttemptID) String() string {
	return l.id.String()
}

func (l LoginAttemptID) LogValue() slog.Value {
	return l.id.LogValue()
}

func (l LoginAttemptID) Format(f fmt.State, verb rune) {
	l.id.Format(f, verb)
}
