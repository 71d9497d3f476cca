package flows

import (
	"context"
	"errors"

	"github.com/MrEthical07/authservice/domain"
)

// SignupDeps captures signup dependencies.
type SignupDeps struct {
	Users domain.UserStore
}

// SignupResult reports the signup outcome.
type SignupResult struct {
	Failure Failure
	Err     error
}

// RunSignup stores a new account.
func RunSignup(ctx context.Context, user domain.User, deps SignupDeps) SignupResult {
	err := deps.Users.AddUser(ctx, user)
	switch {
	case err == nil:
		return SignupResult{}
	case errors.Is(err, domain.ErrUserAlreadyExists):
		return SignupResult{Failure: FailureUserExists, Err: err}
	default:
		return SignupResult{Failure: FailureBackend, Err: err}
	}
}
