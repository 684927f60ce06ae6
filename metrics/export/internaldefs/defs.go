package internaldefs

import (
	goSession "github.com/MrEthical07/goSession"
)

// CounterDef names one engine counter.
type CounterDef struct {
	ID   goSession.MetricID
	Name string
	Help string
}

// HistogramDef names one engine histogram.
type HistogramDef struct {
	ID   goSession.MetricID
	Name string
	Help string
}

// AuditDroppedName is the series for events the audit dispatcher dropped.
const AuditDroppedName = "gosession_audit_dropped_total"

const AuditDroppedHelp = "Dropped audit events due to dispatcher backpressure."

var CounterDefs = []CounterDef{
	{ID: goSession.MetricLoginSuccess, Name: "gosession_login_success_total", Help: "Logins that issued a token."},
	{ID: goSession.MetricLoginFailure, Name: "gosession_login_failure_total", Help: "Logins rejected with invalid credentials."},
	{ID: goSession.MetricLoginRejected, Name: "gosession_login_rejected_total", Help: "Logins rejected for missing email or password."},
	{ID: goSession.MetricLoginError, Name: "gosession_login_error_total", Help: "Logins aborted by an internal failure."},
	{ID: goSession.MetricTokenIssued, Name: "gosession_token_issued_total", Help: "Session tokens issued."},
	{ID: goSession.MetricValidateSuccess, Name: "gosession_validate_success_total", Help: "Tokens accepted by Validate."},
	{ID: goSession.MetricTokenMissing, Name: "gosession_token_missing_total", Help: "Requests carrying no token."},
	{ID: goSession.MetricTokenInvalid, Name: "gosession_token_invalid_total", Help: "Tokens rejected as invalid or expired."},
	{ID: goSession.MetricTokenRevoked, Name: "gosession_token_revoked_total", Help: "Tokens rejected as revoked."},
	{ID: goSession.MetricRevocationUnavailable, Name: "gosession_revocation_unavailable_total", Help: "Validations failed closed on a registry error."},
	{ID: goSession.MetricLogout, Name: "gosession_logout_total", Help: "Logout operations."},
	{ID: goSession.MetricRevocationPruned, Name: "gosession_revocation_pruned_total", Help: "Expired revocation entries removed."},
	{ID: goSession.MetricProfileNotFound, Name: "gosession_profile_not_found_total", Help: "Profile lookups for unknown users."},
}

var HistogramDefs = []HistogramDef{
	{ID: goSession.MetricValidateLatency, Name: "gosession_validate_latency_seconds", Help: "Validate latency histogram."},
}

// HistogramUpperBounds are the bucket upper bounds in seconds, excluding +Inf.
var HistogramUpperBounds = []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5}

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

// HistogramBoundSuffix is HistogramBounds made safe for instrument names.
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
