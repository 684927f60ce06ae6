package goSession

import (
	"net/http"

	"github.com/MrEthical07/goSession/internal/security"
	"github.com/MrEthical07/goSession/revocation"
	"golang.org/x/crypto/bcrypt"
)

// SecurityReport summarizes how a built engine protects sessions.
type SecurityReport = security.Report

// SecurityReport describes the engine's effective configuration. A nil
// engine returns the zero report.
func (e *Engine) SecurityReport() SecurityReport {
	if e == nil {
		return SecurityReport{}
	}

	cost := e.config.Password.BcryptCost
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}

	return security.BuildReport(security.ReportInput{
		SigningAlgorithm:  e.config.JWT.SigningMethod,
		Issuer:            e.config.JWT.Issuer,
		TokenTTL:          e.config.JWT.TokenTTL,
		Leeway:            e.config.JWT.Leeway,
		CookieName:        e.config.Cookie.Name,
		CookieSecure:      e.config.Cookie.Secure,
		CookieSameSite:    sameSiteName(e.config.Cookie.SameSite),
		RevocationBackend: registryBackend(e.registry),
		PruneInterval:     e.config.Revocation.PruneInterval,
		BcryptCost:        cost,
		AuditEnabled:      e.config.Audit.Enabled,
		MetricsEnabled:    e.config.Metrics.Enabled,
	})
}

func registryBackend(r revocation.Registry) string {
	switch r.(type) {
	case *revocation.Memory:
		return security.BackendMemory
	case *revocation.Redis:
		return security.BackendRedis
	default:
		return security.BackendCustom
	}
}

func sameSiteName(s http.SameSite) string {
	switch s {
	case http.SameSiteLaxMode:
		return "Lax"
	case http.SameSiteStrictMode:
		return "Strict"
	case http.SameSiteNoneMode:
		return "None"
	default:
		return "Default"
	}
}
