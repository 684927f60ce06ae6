package goSession

import (
	"net/http"
	"strings"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"
)

func hardenedConfig() Config {
	cfg := testConfig()
	cfg.JWT.Issuer = "gosession"
	cfg.Cookie.Secure = true
	cfg.Audit.Enabled = true
	return cfg
}

func TestLint_DefaultConfigHasNoHighWarnings(t *testing.T) {
	cfg := testConfig()
	ws := cfg.Lint()

	if err := ws.AsError(LintHigh); err != nil {
		t.Fatalf("default config should not fail AsError(LintHigh): %v", err)
	}
	if !containsCode(ws.Codes(), "cookie_insecure") {
		t.Error("default config should warn about the insecure cookie")
	}
}

func TestLint_HardenedConfigMinimalWarnings(t *testing.T) {
	cfg := hardenedConfig()
	ws := cfg.Lint()

	if got := ws.BySeverity(LintWarn); len(got) != 0 {
		t.Fatalf("hardened config should have no WARN or HIGH findings, got %v", got.Codes())
	}
}

func TestLint_Findings(t *testing.T) {
	tests := []struct {
		code   string
		sev    LintSeverity
		mutate func(*Config)
	}{
		{"leeway_large", LintWarn, func(c *Config) { c.JWT.Leeway = 90 * time.Second }},
		{"leeway_exceeds_ttl", LintHigh, func(c *Config) { c.JWT.TokenTTL = time.Minute; c.JWT.Leeway = 2 * time.Minute }},
		{"token_ttl_long", LintWarn, func(c *Config) { c.JWT.TokenTTL = 48 * time.Hour }},
		{"cookie_samesite_none", LintWarn, func(c *Config) { c.Cookie.SameSite = http.SameSiteNoneMode }},
		{"bcrypt_cost_low", LintWarn, func(c *Config) { c.Password.BcryptCost = bcrypt.MinCost }},
		{"prune_disabled", LintWarn, func(c *Config) { c.Revocation.PruneInterval = 0 }},
		{"metrics_disabled", LintInfo, func(c *Config) { c.Metrics.Enabled = false; c.Metrics.EnableLatencyHistograms = false }},
	}
	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			cfg := hardenedConfig()
			tt.mutate(&cfg)
			var found *LintWarning
			for _, w := range cfg.Lint() {
				if w.Code == tt.code {
					w := w
					found = &w
				}
			}
			if found == nil {
				t.Fatalf("expected %s warning", tt.code)
			}
			if found.Severity != tt.sev {
				t.Fatalf("expected severity %s, got %s", tt.sev, found.Severity)
			}
		})
	}
}

func TestLint_AsErrorIncludesCodes(t *testing.T) {
	cfg := hardenedConfig()
	cfg.JWT.TokenTTL = time.Minute
	cfg.JWT.Leeway = 2 * time.Minute

	err := cfg.Lint().AsError(LintHigh)
	if err == nil {
		t.Fatal("expected error for leeway exceeding ttl")
	}
	if !strings.Contains(err.Error(), "leeway_exceeds_ttl") {
		t.Fatalf("error should name the code: %v", err)
	}
}

func containsCode(codes []string, code string) bool {
	for _, c := range codes {
		if c == code {
			return true
		}
	}
	return false
}
