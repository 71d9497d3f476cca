package authservice

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/MrEthical07/authservice/domain"
	"github.com/MrEthical07/authservice/internal/flows"
	"github.com/MrEthical07/authservice/jwt"
)

// Engine runs signup, login, second-factor verification, logout and token
// validation against the stores it was built with.
//
// Engine is immutable after Build and safe for concurrent use.
type Engine struct {
	config  Config
	tokens  *jwt.Manager
	flows   flows.Deps
	metrics *Metrics
	logger  *slog.Logger
	tracer  trace.Tracer
}

// MetricsSnapshot returns a copy of the Engine counters.
func (e *Engine) MetricsSnapshot() MetricsSnapshot {
	if e == nil || e.metrics == nil {
		return MetricsSnapshot{
			Counters:   map[MetricID]uint64{},
			Histograms: map[MetricID][]uint64{},
		}
	}
	return e.metrics.Snapshot()
}

// TokenTTL is the lifetime of issued session tokens.
func (e *Engine) TokenTTL() time.Duration {
	return e.config.JWT.TTL
}

func (e *Engine) metricInc(id MetricID) {
	if e == nil || e.metrics == nil {
		return
	}
	e.metrics.Inc(id)
}

func (e *Engine) startSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	return e.tracer.Start(ctx, "authservice."+name, trace.WithSpanKind(trace.SpanKindInternal))
}

// endSpan records err on span and ends it. Expected rejections are not
// span errors.
func endSpan(span trace.Span, err error) {
	if err != nil {
		span.SetAttributes(attribute.String("auth.outcome", err.Error()))
		if errors.Is(err, ErrUnexpected) {
			span.RecordError(err)
			span.SetStatus(codes.Error, ErrUnexpected.Error())
		}
	}
	span.End()
}

// Signup creates an account.
//
// Errors: ErrInvalidInput, ErrUserAlreadyExists, ErrUnexpected.
func (e *Engine) Signup(ctx context.Context, in SignupInput) (err error) {
	if e == nil {
		return ErrEngineNotReady
	}
	ctx, span := e.startSpan(ctx, "Signup")
	defer func() { endSpan(span, err) }()

	email, err := domain.ParseEmail(in.Email)
	if err != nil {
		return invalidInput(err)
	}
	pw, err := domain.ParsePassword(in.Password)
	if err != nil {
		return invalidInput(err)
	}

	res := flows.RunSignup(ctx, domain.NewUser(email, pw, in.Requires2FA), e.flows.Signup)
	switch res.Failure {
	case flows.FailureNone:
		e.metricInc(MetricSignupSuccess)
		e.logger.InfoContext(ctx, "user signed up", slog.Any("email", email), slog.Bool("requires_2fa", in.Requires2FA))
		return nil
	case flows.FailureUserExists:
		e.metricInc(MetricSignupDuplicate)
		return ErrUserAlreadyExists
	default:
		return e.backendFailure(ctx, "signup", res.Err)
	}
}

// Login checks a password. Users without a second factor get a token;
// others get a pending challenge whose code is sent through the notifier.
//
// Errors: ErrInvalidInput, ErrIncorrectCredentials, ErrTooManyAttempts,
// ErrUnexpected.
func (e *Engine) Login(ctx context.Context, rawEmail, rawPassword string) (_ *LoginResult, err error) {
	if e == nil {
		return nil, ErrEngineNotReady
	}
	ctx, span := e.startSpan(ctx, "Login")
	defer func() { endSpan(span, err) }()

	email, err := domain.ParseEmail(rawEmail)
	if err != nil {
		return nil, invalidInput(err)
	}
	pw, err := domain.ParsePassword(rawPassword)
	if err != nil {
		return nil, invalidInput(err)
	}

	res := flows.RunLogin(ctx, email, pw, e.flows.Login)
	e.logResetFailure(ctx, "login", res.ResetErr)
	switch res.Failure {
	case flows.FailureNone:
	case flows.FailureIncorrectCredentials:
		e.metricInc(MetricLoginFailure)
		e.logger.InfoContext(ctx, "login rejected", slog.Any("email", email))
		return nil, ErrIncorrectCredentials
	case flows.FailureTooManyAttempts:
		e.metricInc(MetricLoginRateLimited)
		e.logger.WarnContext(ctx, "login throttled", slog.Any("email", email))
		return nil, ErrTooManyAttempts
	case flows.FailureNotify:
		e.metricInc(MetricNotifyFailure)
		return nil, e.backendFailure(ctx, "send 2fa code", res.Err)
	default:
		return nil, e.backendFailure(ctx, "login", res.Err)
	}

	if res.Requires2FA {
		e.metricInc(MetricLoginTwoFARequired)
		span.SetAttributes(attribute.Bool("auth.requires_2fa", true))
		return &LoginResult{Requires2FA: true, LoginAttemptID: res.AttemptID.Expose()}, nil
	}

	e.metricInc(MetricLoginSuccess)
	return &LoginResult{Token: res.Token}, nil
}

// Verify2FA completes a login that returned Requires2FA. The challenge is
// consumed on success; a wrong code leaves it pending until it expires or
// a new login replaces it.
//
// Errors: ErrInvalidInput, ErrIncorrectCredentials, ErrTooManyAttempts,
// ErrUnexpected.
func (e *Engine) Verify2FA(ctx context.Context, rawEmail, rawAttemptID, rawCode string) (_ jwt.Token, err error) {
	if e == nil {
		return jwt.Token{}, ErrEngineNotReady
	}
	ctx, span := e.startSpan(ctx, "Verify2FA")
	defer func() { endSpan(span, err) }()

	email, err := domain.ParseEmail(rawEmail)
	if err != nil {
		return jwt.Token{}, invalidInput(err)
	}
	attemptID, err := domain.ParseLoginAttemptID(rawAttemptID)
	if err != nil {
		return jwt.Token{}, invalidInput(err)
	}
	code, err := domain.ParseTwoFACode(rawCode)
	if err != nil {
		return jwt.Token{}, invalidInput(err)
	}

	res := flows.RunVerify2FA(ctx, email, attemptID, code, e.flows.Verify2FA)
	e.logResetFailure(ctx, "2fa", res.ResetErr)
	switch res.Failure {
	case flows.FailureNone:
		e.metricInc(MetricTwoFASuccess)
		return res.Token, nil
	case flows.FailureIncorrectCredentials:
		e.metricInc(MetricTwoFAFailure)
		e.logger.InfoContext(ctx, "2fa rejected", slog.Any("email", email))
		return jwt.Token{}, ErrIncorrectCredentials
	case flows.FailureTooManyAttempts:
		e.metricInc(MetricTwoFARateLimited)
		e.logger.WarnContext(ctx, "2fa throttled", slog.Any("email", email))
		return jwt.Token{}, ErrTooManyAttempts
	default:
		return jwt.Token{}, e.backendFailure(ctx, "verify 2fa", res.Err)
	}
}

// Logout revokes token until it would have expired anyway.
//
// Errors: ErrMissingToken, ErrInvalidToken (including a token already
// revoked), ErrUnexpected.
func (e *Engine) Logout(ctx context.Context, token string) (err error) {
	if e == nil {
		return ErrEngineNotReady
	}
	ctx, span := e.startSpan(ctx, "Logout")
	defer func() { endSpan(span, err) }()

	res := flows.RunLogout(ctx, token, e.flows.Logout)
	switch res.Failure {
	case flows.FailureNone:
		e.metricInc(MetricLogout)
		return nil
	case flows.FailureMissingToken:
		return ErrMissingToken
	case flows.FailureInvalidToken:
		e.recordValidateFailure(ctx, res.Validation, res.Err)
		return ErrInvalidToken
	default:
		return e.backendFailure(ctx, "logout", res.Err)
	}
}

// VerifyToken returns the claims of a valid, unrevoked token.
//
// Errors: ErrInvalidToken.
func (e *Engine) VerifyToken(ctx context.Context, token string) (_ *jwt.Claims, err error) {
	if e == nil {
		return nil, ErrEngineNotReady
	}
	ctx, span := e.startSpan(ctx, "VerifyToken")
	defer func() { endSpan(span, err) }()

	start := time.Now()
	res := flows.RunValidate(ctx, token, e.flows.Validate)
	if e.metrics.LatencyEnabled() {
		e.metrics.Observe(MetricValidateLatency, time.Since(start))
	}

	if res.Failure != flows.ValidateFailureNone {
		e.recordValidateFailure(ctx, res.Failure, res.Err)
		return nil, ErrInvalidToken
	}

	e.metricInc(MetricTokenValid)
	return res.Claims, nil
}

// recordValidateFailure counts a rejected token. A revocation store that
// cannot answer rejects the token.
func (e *Engine) recordValidateFailure(ctx context.Context, kind flows.ValidateFailureKind, cause error) {
	switch kind {
	case flows.ValidateFailureRevoked:
		e.metricInc(MetricTokenRevoked)
	case flows.ValidateFailureBackend:
		e.metricInc(MetricBackendFailure)
		e.logger.ErrorContext(ctx, "revocation check failed", slog.Any("error", cause))
	default:
		e.metricInc(MetricTokenRejected)
	}
}

// logResetFailure reports a failed-attempt counter that was left in place
// after a successful credential check.
func (e *Engine) logResetFailure(ctx context.Context, scope string, err error) {
	if err == nil {
		return
	}
	e.logger.WarnContext(ctx, "reset "+scope+" attempt counter failed", slog.Any("error", err))
}

func (e *Engine) backendFailure(ctx context.Context, op string, cause error) error {
	e.metricInc(MetricBackendFailure)
	e.logger.ErrorContext(ctx, op+" failed", slog.Any("error", cause))
	return unexpected(cause)
}
