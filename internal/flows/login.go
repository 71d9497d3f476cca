package flows

import (
	"context"
	"errors"

	"github.com/MrEthical07/authservice/domain"
	"github.com/MrEthical07/authservice/jwt"
)

// LoginDeps captures login dependencies.
type LoginDeps struct {
	Users    domain.UserStore
	Codes    domain.TwoFACodeStore
	Notifier domain.Notifier
	// Limiter is optional.
	Limiter AttemptLimiter

	IssueToken          func(email string) (jwt.Token, error)
	NewAttemptID        func() domain.LoginAttemptID
	NewCode             func() (domain.TwoFACode, error)
	ClientIPFromContext func(context.Context) string

	TwoFASubject string
}

// LoginResult is the flow-local login response shape. Exactly one of Token
// and AttemptID is set on success.
type LoginResult struct {
	Failure     Failure
	Err         error
	Token       jwt.Token
	Requires2FA bool
	AttemptID   domain.LoginAttemptID
	// ResetErr is set when the failed-attempt counter could not be
	// cleared after a correct password. It does not fail the login.
	ResetErr error
}

// RunLogin checks credentials and either issues a token or opens a 2FA
// challenge and sends its code through the notifier.
func RunLogin(ctx context.Context, email domain.Email, pw domain.Password, deps LoginDeps) LoginResult {
	ip := ""
	if deps.ClientIPFromContext != nil {
		ip = deps.ClientIPFromContext(ctx)
	}

	if deps.Limiter != nil {
		if err := deps.Limiter.CheckLogin(ctx, email.Expose(), ip); err != nil {
			return LoginResult{Failure: limiterFailure(err), Err: err}
		}
	}

	if err := deps.Users.ValidateUser(ctx, email, pw); err != nil {
		if !errors.Is(err, domain.ErrUserNotFound) && !errors.Is(err, domain.ErrInvalidCredentials) {
			return LoginResult{Failure: FailureBackend, Err: err}
		}
		if deps.Limiter != nil {
			if recErr := deps.Limiter.RecordLoginFailure(ctx, email.Expose(), ip); recErr != nil {
				return LoginResult{Failure: FailureBackend, Err: recErr}
			}
		}
		return LoginResult{Failure: FailureIncorrectCredentials, Err: err}
	}

	user, err := deps.Users.GetUser(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return LoginResult{Failure: FailureIncorrectCredentials, Err: err}
		}
		return LoginResult{Failure: FailureBackend, Err: err}
	}

	var resetErr error
	if deps.Limiter != nil {
		resetErr = deps.Limiter.ResetLogin(ctx, email.Expose())
	}

	res := issueOrChallenge(ctx, email, user, deps)
	res.ResetErr = resetErr
	return res
}

func issueOrChallenge(ctx context.Context, email domain.Email, user domain.User, deps LoginDeps) LoginResult {
	if !user.Requires2FA {
		token, err := deps.IssueToken(email.Expose())
		if err != nil {
			return LoginResult{Failure: FailureBackend, Err: err}
		}
		return LoginResult{Token: token}
	}

	attemptID := deps.NewAttemptID()
	code, err := deps.NewCode()
	if err != nil {
		return LoginResult{Failure: FailureBackend, Err: err}
	}

	// Overwrites any challenge still pending for this email.
	if err := deps.Codes.AddCode(ctx, email, attemptID, code); err != nil {
		return LoginResult{Failure: FailureBackend, Err: err}
	}

	// The stored challenge is kept when delivery fails.
	if err := deps.Notifier.Send(ctx, email, deps.TwoFASubject, code.Expose()); err != nil {
		return LoginResult{Failure: FailureNotify, Err: err}
	}

	return LoginResult{Requires2FA: true, AttemptID: attemptID}
}
