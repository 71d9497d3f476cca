package internaldefs

import (
	authservice "github.com/MrEthical07/authservice"
)

// CounterDef names one exported counter.
type CounterDef struct {
	ID   authservice.MetricID
	Name string
	Help string
}

// HistogramDef names one exported histogram.
type HistogramDef struct {
	ID   authservice.MetricID
	Name string
	Help string
}

// CounterDefs lists every Engine counter in exposition order.
var CounterDefs = []CounterDef{
	{ID: authservice.MetricSignupSuccess, Name: "authservice_signup_success_total", Help: "Accounts created."},
	{ID: authservice.MetricSignupDuplicate, Name: "authservice_signup_duplicate_total", Help: "Signups rejected because the email is taken."},
	{ID: authservice.MetricLoginSuccess, Name: "authservice_login_success_total", Help: "Logins that issued a token directly."},
	{ID: authservice.MetricLoginFailure, Name: "authservice_login_failure_total", Help: "Logins rejected for incorrect credentials."},
	{ID: authservice.MetricLoginTwoFARequired, Name: "authservice_login_2fa_required_total", Help: "Logins that opened a 2FA challenge."},
	{ID: authservice.MetricLoginRateLimited, Name: "authservice_login_rate_limited_total", Help: "Logins rejected by the failed-attempt limiter."},
	{ID: authservice.MetricTwoFASuccess, Name: "authservice_2fa_success_total", Help: "Verified 2FA challenges."},
	{ID: authservice.MetricTwoFAFailure, Name: "authservice_2fa_failure_total", Help: "Rejected 2FA verifications."},
	{ID: authservice.MetricTwoFARateLimited, Name: "authservice_2fa_rate_limited_total", Help: "2FA verifications rejected by the failed-attempt limiter."},
	{ID: authservice.MetricNotifyFailure, Name: "authservice_notify_failure_total", Help: "2FA codes that could not be delivered."},
	{ID: authservice.MetricLogout, Name: "authservice_logout_total", Help: "Revoked session tokens."},
	{ID: authservice.MetricTokenValid, Name: "authservice_token_valid_total", Help: "Tokens accepted by VerifyToken."},
	{ID: authservice.MetricTokenRevoked, Name: "authservice_token_revoked_total", Help: "Tokens rejected because they were revoked."},
	{ID: authservice.MetricTokenRejected, Name: "authservice_token_rejected_total", Help: "Tokens rejected as malformed or expired."},
	{ID: authservice.MetricBackendFailure, Name: "authservice_backend_failure_total", Help: "Operations failed by a store or notifier backend."},
}

// HistogramDefs lists every Engine histogram.
var HistogramDefs = []HistogramDef{
	{ID: authservice.MetricValidateLatency, Name: "authservice_verify_token_latency_seconds", Help: "VerifyToken latency histogram."},
}

// HistogramBounds are the bucket upper bounds as exposition labels.
var HistogramBounds = []string{
	"0.005",
	"0.01",
	"0.025",
	"0.05",
	"0.1",
	"0.25",
	"0.5",
	"+Inf",
}

// HistogramUpperBounds are the finite bucket upper bounds in seconds.
var HistogramUpperBounds = []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5}

// HistogramBoundSuffix are the bounds as instrument name suffixes.
var HistogramBoundSuffix = []string{
	"0_005",
	"0_01",
	"0_025",
	"0_05",
	"0_1",
	"0_25",
	"0_5",
	"inf",
}

// NormalizeBuckets copies raw into a fixed array, zero-filling short input.
func NormalizeBuckets(raw []uint64) [8]uint64 {
	var out [8]uint64
	for i := 0; i < len(out) && i < len(raw); i++ {
		out[i] = raw[i]
	}
	return out
}

// CumulativeBuckets turns per-bucket counts into running totals.
func CumulativeBuckets(raw [8]uint64) [8]uint64 {
	var out [8]uint64
	var running uint64
	for i := 0; i < len(raw); i++ {
		running += raw[i]
		out[i] = running
	}
	return out
}
