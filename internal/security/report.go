package security

import "time"

// Revocation backend names.
const (
	BackendMemory = "memory"
	BackendRedis  = "redis"
	BackendCustom = "custom"
)

// Report summarizes how sessions are protected by a built engine.
type Report struct {
	SigningAlgorithm string
	Issuer           string
	TokenTTL         time.Duration
	Leeway           time.Duration
	// MaxTokenLifetime is the longest a stolen, unrevoked token stays usable.
	MaxTokenLifetime time.Duration

	CookieName     string
	CookieSecure   bool
	CookieSameSite string

	RevocationBackend string
	// RevocationShared reports whether a revocation on one instance is seen by others.
	RevocationShared bool
	// RevocationBounded reports whether the registry drops entries once the
	// revoked token has expired.
	RevocationBounded bool

	BcryptCost     int
	AuditEnabled   bool
	MetricsEnabled bool
}

// ReportInput is the raw configuration BuildReport reads.
type ReportInput struct {
	SigningAlgorithm  string
	Issuer            string
	TokenTTL          time.Duration
	Leeway            time.Duration
	CookieName        string
	CookieSecure      bool
	CookieSameSite    string
	RevocationBackend string
	PruneInterval     time.Duration
	BcryptCost        int
	AuditEnabled      bool
	MetricsEnabled    bool
}

func BuildReport(in ReportInput) Report {
	backend := in.RevocationBackend
	if backend == "" {
		backend = BackendCustom
	}

	bounded := false
	switch backend {
	case BackendRedis:
		// Keys carry the token's remaining lifetime as TTL.
		bounded = true
	case BackendMemory:
		bounded = in.PruneInterval > 0
	}

	return Report{
		SigningAlgorithm:  in.SigningAlgorithm,
		Issuer:            in.Issuer,
		TokenTTL:          in.TokenTTL,
		Leeway:            in.Leeway,
		MaxTokenLifetime:  in.TokenTTL + in.Leeway,
		CookieName:        in.CookieName,
		CookieSecure:      in.CookieSecure,
		CookieSameSite:    in.CookieSameSite,
		RevocationBackend: backend,
		RevocationShared:  backend == BackendRedis,
		RevocationBounded: bounded,
		BcryptCost:        in.BcryptCost,
		AuditEnabled:      in.AuditEnabled,
		MetricsEnabled:    in.MetricsEnabled,
	}
}
