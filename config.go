package goSession

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"
)

// Config holds every engine setting. Build it from DefaultConfig and
// override fields; Builder.Build runs Validate.
type Config struct {
	JWT        JWTConfig
	Cookie     CookieConfig
	Password   PasswordConfig
	Revocation RevocationConfig
	Audit      AuditConfig
	Metrics    MetricsConfig
}

/*
====================================
JWT CONFIG
====================================
*/

// JWTConfig controls token signing and lifetime.
type JWTConfig struct {
	TokenTTL      time.Duration
	SigningMethod string // "hs256" (default) or "ed25519"
	Secret        []byte // hs256
	PrivateKey    []byte // ed25519
	PublicKey     []byte // ed25519
	Issuer        string
	Leeway        time.Duration
}

/*
====================================
COOKIE CONFIG
====================================
*/

// CookieConfig describes the session cookie. The cookie is always HttpOnly.
type CookieConfig struct {
	Name     string
	Path     string
	Domain   string
	Secure   bool
	SameSite http.SameSite
}

/*
====================================
PASSWORD CONFIG
====================================
*/

// PasswordConfig tunes the verifier the engine builds when none is supplied.
type PasswordConfig struct {
	BcryptCost int
}

/*
====================================
REVOCATION CONFIG
====================================
*/

// RevocationConfig controls the revocation registry.
type RevocationConfig struct {
	// RedisPrefix namespaces registry keys when a Redis client is supplied.
	RedisPrefix string
	// PruneInterval is the sweep period for registries that need explicit
	// pruning. Zero disables the sweeper.
	PruneInterval time.Duration
}

/*
====================================
AUDIT / METRICS CONFIG
====================================
*/

// AuditConfig controls asynchronous audit dispatch.
type AuditConfig struct {
	Enabled    bool
	BufferSize int
	DropIfFull bool
}

// MetricsConfig controls in-process counters.
type MetricsConfig struct {
	Enabled                 bool
	EnableLatencyHistograms bool
}

// DefaultConfig returns the settings the service ships with: one hour HS256
// tokens and a Lax, HttpOnly "authToken" cookie scoped to "/".
// JWT.Secret is left empty and must be provided.
func DefaultConfig() Config {
	return Config{
		JWT: JWTConfig{
			TokenTTL:      time.Hour,
			SigningMethod: "hs256",
		},
		Cookie: CookieConfig{
			Name:     "authToken",
			Path:     "/",
			SameSite: http.SameSiteLaxMode,
		},
		Password: PasswordConfig{
			BcryptCost: bcrypt.DefaultCost,
		},
		Revocation: RevocationConfig{
			RedisPrefix:   "gsr",
			PruneInterval: 5 * time.Minute,
		},
		Audit: AuditConfig{
			Enabled:    false,
			BufferSize: 1024,
			DropIfFull: true,
		},
		Metrics: MetricsConfig{
			Enabled:                 true,
			EnableLatencyHistograms: true,
		},
	}
}

func cloneConfig(cfg Config) Config {
	out := cfg
	out.JWT.Secret = cloneBytes(cfg.JWT.Secret)
	out.JWT.PrivateKey = cloneBytes(cfg.JWT.PrivateKey)
	out.JWT.PublicKey = cloneBytes(cfg.JWT.PublicKey)
	return out
}

func cloneBytes(b []byte) []byte {
	if b == nil {
		return nil
	}
	out := make([]byte, len(b))
	copy(out, b)
	return out
}

// Validate reports the first invalid setting.
func (c *Config) Validate() error {
	// JWT
	if c.JWT.TokenTTL <= 0 {
		return errors.New("JWT TokenTTL must be > 0")
	}
	switch c.JWT.SigningMethod {
	case "hs256":
		if len(c.JWT.Secret) == 0 {
			return errors.New("hs256 requires Secret")
		}
		if len(c.JWT.Secret) < 32 {
			return errors.New("hs256 Secret must be at least 32 bytes")
		}
	case "ed25519":
		if len(c.JWT.PrivateKey) == 0 {
			return errors.New("ed25519 requires PrivateKey")
		}
	default:
		return errors.New("unsupported JWT signing method")
	}
	if c.JWT.Leeway < 0 || c.JWT.Leeway > 2*time.Minute {
		return errors.New("JWT Leeway must be between 0 and 2m")
	}

	// Cookie
	if c.Cookie.Name == "" || strings.ContainsAny(c.Cookie.Name, " \t\r\n;,=") {
		return errors.New("Cookie Name must be a non-empty token")
	}
	if c.Cookie.Path == "" {
		return errors.New("Cookie Path must be set")
	}
	if c.Cookie.SameSite == http.SameSiteNoneMode && !c.Cookie.Secure {
		return errors.New("Cookie SameSite=None requires Secure")
	}

	// Password
	if c.Password.BcryptCost != 0 &&
		(c.Password.BcryptCost < bcrypt.MinCost || c.Password.BcryptCost > bcrypt.MaxCost) {
		return errors.New("Password BcryptCost out of range")
	}

	// Revocation
	if c.Revocation.PruneInterval < 0 {
		return errors.New("Revocation PruneInterval must be >= 0")
	}
	if c.Revocation.PruneInterval > 0 && c.Revocation.PruneInterval < time.Second {
		return errors.New("Revocation PruneInterval must be >= 1s")
	}

	// Audit
	if c.Audit.Enabled && c.Audit.BufferSize <= 0 {
		return errors.New("Audit BufferSize must be > 0 when enabled")
	}

	if c.Metrics.EnableLatencyHistograms && !c.Metrics.Enabled {
		return errors.New("Metrics EnableLatencyHistograms requires Enabled")
	}

	return nil
}
