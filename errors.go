package authservice

import "errors"

var (
	// ErrInvalidInput is returned when an email, password, attempt id or
	// code fails to parse.
	ErrInvalidInput = errors.New("invalid input")
	// ErrUserAlreadyExists is returned by Signup for a taken email.
	ErrUserAlreadyExists = errors.New("user already exists")
	// ErrIncorrectCredentials covers an unknown email, a wrong password and
	// a missing or mismatched 2FA challenge alike.
	ErrIncorrectCredentials = errors.New("incorrect credentials")
	// ErrMissingToken is returned by Logout when no token was presented.
	ErrMissingToken = errors.New("missing token")
	// ErrInvalidToken is returned for a revoked, malformed or expired token.
	ErrInvalidToken = errors.New("invalid token")
	// ErrTooManyAttempts is returned once the failed-attempt budget for an
	// email is spent.
	ErrTooManyAttempts = errors.New("too many attempts")
	// ErrUnexpected classifies every backend failure. Use errors.Is with the
	// cause to inspect it; the message never carries the cause.
	ErrUnexpected = errors.New("unexpected error")
	// ErrEngineNotReady is returned by methods called on a nil Engine.
	ErrEngineNotReady = errors.New("engine not initialized")
)

// unexpectedError pairs ErrUnexpected with its cause so that both match
// errors.Is while Error() stays generic.
type unexpectedError struct {
	cause error
}

func (e *unexpectedError) Error() string { return ErrUnexpected.Error() }

func (e *unexpectedError) Unwrap() []error {
	if e.cause == nil {
		return []error{ErrUnexpected}
	}
	return []error{ErrUnexpected, e.cause}
}

func unexpected(cause error) error {
	return &unexpectedError{cause: cause}
}

// invalidInput keeps the parse error reachable for logs.
func invalidInput(cause error) error {
	return &invalidInputError{cause: cause}
}

type invalidInputError struct {
	cause error
}

func (e *invalidInputError) Error() string { return ErrInvalidInput.Error() + ": " + e.cause.Error() }

func (e *invalidInputError) Unwrap() []error { return []error{ErrInvalidInput, e.cause} }
