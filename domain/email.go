package domain

import (
	"errors"
	"fmt"
	"log/slog"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
)

// ErrInvalidEmail is returned by ParseEmail for empty or malformed addresses.
var ErrInvalidEmail = errors.New("invalid email address")

// Email is a validated e-mail address. The raw input is kept as-is (no case
// folding or trimming) and two Emails are equal only when their raw values
// are byte-identical.
type Email struct {
	address Secret[string]
}

// ParseEmail validates raw against the e-mail grammar and wraps it.
func ParseEmail(raw string) (Email, error) {
	// Syntax only; no DNS lookup.
	if err := validation.Validate(raw, validation.Required, is.Email); err != nil {
		return Email{}, fmt.Errorf("%w: %v", ErrInvalidEmail, err)
	}
	return Email{address: NewSecret(raw)}, nil
}

// Expose returns the address exactly as it was parsed.
func (e Email) Expose() string {
	return e.address.Expose()
}

// IsZero reports whether e was never parsed.
func (e Email) IsZero() bool {
	return e.address.Expose() == ""
}

func (e Email) String() string {
	return e.address.String()
}

func (e Email) LogValue() slog.Value {
	return e.address.LogValue()
}

func (e Email) Format(f fmt.State, verb rune) {
	e.address.Format(f, verb)
}
