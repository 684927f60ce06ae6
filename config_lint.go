package goSession

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"
)

// LintSeverity ranks a LintWarning.
type LintSeverity uint8

const (
	LintInfo LintSeverity = iota
	LintWarn
	LintHigh
)

func (s LintSeverity) String() string {
	switch s {
	case LintWarn:
		return "WARN"
	case LintHigh:
		return "HIGH"
	default:
		return "INFO"
	}
}

// LintWarning is a configuration that validates but is worth a second look.
type LintWarning struct {
	Code     string
	Severity LintSeverity
	Message  string
}

// LintResult is every warning Lint produced, in a stable order.
type LintResult []LintWarning

// Codes returns the warning codes.
func (r LintResult) Codes() []string {
	out := make([]string, 0, len(r))
	for _, w := range r {
		out = append(out, w.Code)
	}
	return out
}

// BySeverity returns warnings at or above min.
func (r LintResult) BySeverity(min LintSeverity) LintResult {
	var out LintResult
	for _, w := range r {
		if w.Severity >= min {
			out = append(out, w)
		}
	}
	return out
}

// AsError joins every warning at or above min into one error, or returns nil.
func (r LintResult) AsError(min LintSeverity) error {
	hits := r.BySeverity(min)
	if len(hits) == 0 {
		return nil
	}
	msgs := make([]string, 0, len(hits))
	for _, w := range hits {
		msgs = append(msgs, fmt.Sprintf("[%s] %s: %s", w.Severity, w.Code, w.Message))
	}
	return errors.New("config lint: " + strings.Join(msgs, "; "))
}

const (
	lintMaxLeeway   = 30 * time.Second
	lintMaxTokenTTL = 24 * time.Hour
)

// Lint reports settings that pass Validate but weaken the deployment.
// It does not call Validate.
func (c *Config) Lint() LintResult {
	var out LintResult
	add := func(code string, sev LintSeverity, msg string) {
		out = append(out, LintWarning{Code: code, Severity: sev, Message: msg})
	}

	if c.JWT.Leeway > 0 && c.JWT.Leeway >= c.JWT.TokenTTL {
		add("leeway_exceeds_ttl", LintHigh, "leeway is at least the token lifetime, so expiry is not enforced")
	} else if c.JWT.Leeway > lintMaxLeeway {
		add("leeway_large", LintWarn, fmt.Sprintf("leeway %s exceeds %s", c.JWT.Leeway, lintMaxLeeway))
	}
	if c.JWT.TokenTTL > lintMaxTokenTTL {
		add("token_ttl_long", LintWarn, fmt.Sprintf("token ttl %s exceeds %s; revocation is the only way to end sessions early", c.JWT.TokenTTL, lintMaxTokenTTL))
	}
	if c.JWT.SigningMethod == "hs256" {
		add("hs256_shared_secret", LintInfo, "every verifier holds the signing secret; ed25519 separates the two")
	}
	if c.JWT.Issuer == "" {
		add("issuer_unset", LintInfo, "tokens carry no iss claim and any issuer sharing the key is accepted")
	}

	if !c.Cookie.Secure {
		add("cookie_insecure", LintWarn, "session cookie is sent over plain HTTP")
	}
	if c.Cookie.SameSite == http.SameSiteNoneMode {
		add("cookie_samesite_none", LintWarn, "session cookie is sent on cross-site requests")
	}

	if c.Password.BcryptCost != 0 && c.Password.BcryptCost < bcrypt.DefaultCost {
		add("bcrypt_cost_low", LintWarn, fmt.Sprintf("bcrypt cost %d is below %d", c.Password.BcryptCost, bcrypt.DefaultCost))
	}

	if c.Revocation.PruneInterval == 0 {
		add("prune_disabled", LintWarn, "in-memory revocation entries are never pruned")
	}

	if !c.Audit.Enabled {
		add("audit_disabled", LintInfo, "login and logout events are not audited")
	}
	if !c.Metrics.Enabled {
		add("metrics_disabled", LintInfo, "engine counters are not collected")
	}

	return out
}
