package flows

import (
	"context"
	"errors"

	"github.com/MrEthical07/authservice/internal/rate"
)

// Deps groups flow dependency sets. Root engine builds this once and delegates
// request methods to the matching flow implementation.
type Deps struct {
	Signup    SignupDeps
	Login     LoginDeps
	Verify2FA Verify2FADeps
	Logout    LogoutDeps
	Validate  ValidateDeps
}

// Failure classifies flow outcomes for root-level error mapping.
type Failure int

const (
	FailureNone Failure = iota
	FailureUserExists
	FailureIncorrectCredentials
	FailureMissingToken
	FailureInvalidToken
	FailureTooManyAttempts
	// FailureNotify means the challenge was stored but could not be
	// delivered.
	FailureNotify
	FailureBackend
)

// AttemptLimiter counts failed credential checks. *rate.Limiter satisfies it.
type AttemptLimiter interface {
	CheckLogin(ctx context.Context, email, ip string) error
	RecordLoginFailure(ctx context.Context, email, ip string) error
	ResetLogin(ctx context.Context, email string) error
	CheckTwoFA(ctx context.Context, email string) error
	RecordTwoFAFailure(ctx context.Context, email string) error
	ResetTwoFA(ctx context.Context, email string) error
}

// limiterFailure maps a limiter error. A limiter that cannot answer
// rejects the request.
func limiterFailure(err error) Failure {
	if errors.Is(err, rate.ErrRateLimited) {
		return FailureTooManyAttempts
	}
	return FailureBackend
}
