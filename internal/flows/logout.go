package flows

import (
	"context"

	"github.com/MrEthical07/authservice/domain"
)

// LogoutDeps captures logout flow dependencies.
type LogoutDeps struct {
	Validate ValidateDeps
	Banned   domain.BannedTokenStore
}

// LogoutResult reports the logout outcome. Validation carries the
// classification when Failure is FailureInvalidToken.
type LogoutResult struct {
	Failure    Failure
	Err        error
	Validation ValidateFailureKind
}

// RunLogout validates tokenStr and adds it to the revocation set.
func RunLogout(ctx context.Context, tokenStr string, deps LogoutDeps) LogoutResult {
	if tokenStr == "" {
		return LogoutResult{Failure: FailureMissingToken}
	}

	res := RunValidate(ctx, tokenStr, deps.Validate)
	if res.Failure != ValidateFailureNone {
		return LogoutResult{Failure: FailureInvalidToken, Err: res.Err, Validation: res.Failure}
	}

	if err := deps.Banned.AddBannedToken(ctx, tokenStr); err != nil {
		return LogoutResult{Failure: FailureBackend, Err: err}
	}
	return LogoutResult{}
}
