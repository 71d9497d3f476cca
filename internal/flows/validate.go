package flows

import (
	"context"
	"errors"

	"github.com/MrEthical07/authservice/domain"
	"github.com/MrEthical07/authservice/jwt"
)

// ErrTokenRevoked is reported when a token is in the revocation set.
var ErrTokenRevoked = errors.New("token revoked")

// ValidateFailureKind classifies validation failures for root-level mapping.
type ValidateFailureKind int

const (
	ValidateFailureNone ValidateFailureKind = iota
	ValidateFailureRevoked
	ValidateFailureMalformed
	ValidateFailureExpired
	ValidateFailureBackend
)

// ValidateResult returns either claims or a classified failure.
type ValidateResult struct {
	Failure ValidateFailureKind
	Err     error
	Claims  *jwt.Claims
}

// ValidateDeps captures token validation dependencies.
type ValidateDeps struct {
	Banned domain.BannedTokenStore
	Parse  func(string) (*jwt.Claims, error)
}

// RunValidate checks the revocation set and then the signature and expiry.
// A revoked token is rejected even when it is otherwise well formed.
func RunValidate(ctx context.Context, tokenStr string, deps ValidateDeps) ValidateResult {
	if tokenStr == "" {
		return ValidateResult{Failure: ValidateFailureMalformed, Err: jwt.ErrTokenMalformed}
	}

	banned, err := deps.Banned.CheckBannedToken(ctx, tokenStr)
	if err != nil {
		return ValidateResult{Failure: ValidateFailureBackend, Err: err}
	}
	if banned {
		return ValidateResult{Failure: ValidateFailureRevoked, Err: ErrTokenRevoked}
	}

	claims, err := deps.Parse(tokenStr)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return ValidateResult{Failure: ValidateFailureExpired, Err: err}
		}
		return ValidateResult{Failure: ValidateFailureMalformed, Err: err}
	}

	return ValidateResult{Claims: claims}
}
