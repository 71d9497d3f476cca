package domain

import (
	"crypto/rand"
	"errors"
	"fmt"
	"log/slog"
	"math/big"
)

// TwoFACodeLength is the number of digits in a 2FA code.
const TwoFACodeLength = 6

// ErrInvalidTwoFACode is returned by ParseTwoFACode.
var ErrInvalidTwoFACode = errors.New("invalid 2fa code")

var tenDigits = big.NewInt(10)

// TwoFACode is a single-use six digit code. Leading zeros are valid, so the
// code space is 000000-999999.
type TwoFACode struct {
	code Secret[string]
}

// NewTwoFACode draws six uniformly distributed digits from crypto/rand.
func NewTwoFACode() (TwoFACode, error) {
	var digits [TwoFACodeLength]byte
	for i := range digits {
		n, err := rand.Int(rand.Reader, tenDigits)
		if err != nil {
			return TwoFACode{}, err
		}
		digits[i] = byte('0' + n.Int64())
	}
	return TwoFACode{code: NewSecret(string(digits[:]))}, nil
}

// ParseTwoFACode accepts exactly six ASCII digits.
func ParseTwoFACode(raw string) (TwoFACode, error) {
	if len(raw) != TwoFACodeLength {
		return TwoFACode{}, ErrInvalidTwoFACode
	}
	for i := 0; i < len(raw); i++ {
		if raw[i] < '0' || raw[i] > '9' {
			return TwoFACode{}, ErrInvalidTwoFACode
		}
	}
	return TwoFACode{code: NewSecret(raw)}, nil
}

func (c TwoFACode) Expose() string {
	return c.code.Expose()
}

func (c TwoFACode) String() string {
	return c.code.String()
}

func (c TwoFACode) LogValue() slog.Value {
	return c.code.LogValue()
}

func (c TwoFACode) Format(f fmt.State, verb rune) {
	c.code.Format(f, verb)
}
