package flows

import (
	"context"
	"crypto/subtle"
	"errors"

	"github.com/MrEthical07/authservice/domain"
	"github.com/MrEthical07/authservice/jwt"
)

var errChallengeMismatch = errors.New("login attempt id or code mismatch")

// Verify2FADeps captures second-factor dependencies.
type Verify2FADeps struct {
	Codes domain.TwoFACodeStore
	// Limiter is optional.
	Limiter    AttemptLimiter
	IssueToken func(email string) (jwt.Token, error)
}

// Verify2FAResult reports the verification outcome.
type Verify2FAResult struct {
	Failure Failure
	Err     error
	Token   jwt.Token
	// ResetErr is set when the failed-attempt counter could not be
	// cleared after a successful verification.
	ResetErr error
}

// RunVerify2FA consumes the pending challenge for email when both the
// attempt id and the code match, then issues a token.
func RunVerify2FA(ctx context.Context, email domain.Email, attemptID domain.LoginAttemptID, code domain.TwoFACode, deps Verify2FADeps) Verify2FAResult {
	if deps.Limiter != nil {
		if err := deps.Limiter.CheckTwoFA(ctx, email.Expose()); err != nil {
			return Verify2FAResult{Failure: limiterFailure(err), Err: err}
		}
	}

	storedID, storedCode, err := deps.Codes.GetCode(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrLoginAttemptNotFound) {
			return recordTwoFAFailure(ctx, email, err, deps)
		}
		return Verify2FAResult{Failure: FailureBackend, Err: err}
	}

	idOK := subtle.ConstantTimeCompare([]byte(storedID.Expose()), []byte(attemptID.Expose()))
	codeOK := subtle.ConstantTimeCompare([]byte(storedCode.Expose()), []byte(code.Expose()))
	if idOK&codeOK != 1 {
		// The challenge stays pending for a retry.
		return recordTwoFAFailure(ctx, email, errChallengeMismatch, deps)
	}

	// Whoever removes the entry first owns the challenge; a concurrent
	// verifier sees not-found here.
	if err := deps.Codes.RemoveCode(ctx, email); err != nil {
		return Verify2FAResult{Failure: FailureIncorrectCredentials, Err: err}
	}

	var res Verify2FAResult
	if deps.Limiter != nil {
		res.ResetErr = deps.Limiter.ResetTwoFA(ctx, email.Expose())
	}

	token, err := deps.IssueToken(email.Expose())
	if err != nil {
		res.Failure, res.Err = FailureBackend, err
		return res
	}
	res.Token = token
	return res
}

func recordTwoFAFailure(ctx context.Context, email domain.Email, cause error, deps Verify2FADeps) Verify2FAResult {
	if deps.Limiter != nil {
		if err := deps.Limiter.RecordTwoFAFailure(ctx, email.Expose()); err != nil {
			return Verify2FAResult{Failure: FailureBackend, Err: err}
		}
	}
	return Verify2FAResult{Failure: FailureIncorrectCredentials, Err: cause}
}
