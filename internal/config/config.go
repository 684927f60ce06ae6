// Package config loads the server process configuration from environment
// variables.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	goSession "github.com/MrEthical07/goSession"
	"github.com/caarlos0/env/v11"
	"github.com/sirupsen/logrus"
)

const (
	StoreSQLite   = "sqlite"
	StorePostgres = "postgres"
	StoreMemory   = "memory"

	RevocationMemory = "memory"
	RevocationRedis  = "redis"
)

// Store selects the user store. It is shared by every binary that opens one.
type Store struct {
	StoreDriver string `env:"STORE_DRIVER" envDefault:"sqlite"`
	StoreDSN    string `env:"STORE_DSN"    envDefault:"gosession.db"`
}

// Redis locates the shared revocation registry.
type Redis struct {
	RedisAddr     string `env:"REDIS_ADDR"`
	RedisPassword string `env:"REDIS_PASSWORD"`
	RedisDB       int    `env:"REDIS_DB"       envDefault:"0"`
	RedisPrefix   string `env:"REDIS_PREFIX"   envDefault:"gsr"`
}

// Seed is the environment read by the seed tool.
type Seed struct {
	Store
	SeedPassword string `env:"SEED_PASSWORD"`
}

// Server is the full process configuration.
type Server struct {
	Store
	Redis

	Port            int           `env:"PORT"                      envDefault:"5000"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT"          envDefault:"10s"`
	JWTSecret       string        `env:"JWT_SECRET,required"`
	JWTIssuer       string        `env:"JWT_ISSUER"`
	TokenTTL        time.Duration `env:"TOKEN_TTL"                 envDefault:"1h"`

	RevocationBackend       string        `env:"REVOCATION_BACKEND"        envDefault:"memory"`
	RevocationPruneInterval time.Duration `env:"REVOCATION_PRUNE_INTERVAL" envDefault:"5m"`

	CookieSecure       bool     `env:"COOKIE_SECURE"        envDefault:"false"`
	CORSAllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS" envSeparator:","`

	LogLevel       string `env:"LOG_LEVEL"       envDefault:"info"`
	AuditEnabled   bool   `env:"AUDIT_ENABLED"   envDefault:"false"`
	MetricsEnabled bool   `env:"METRICS_ENABLED" envDefault:"true"`
}

// Load parses the process environment.
func Load() (Server, error) {
	return parse(env.Options{})
}

// LoadFrom parses vars instead of the process environment.
func LoadFrom(vars map[string]string) (Server, error) {
	return parse(env.Options{Environment: vars})
}

// LoadSeed parses the seed tool's variables from the process environment.
func LoadSeed() (Seed, error) {
	return parseSeed(env.Options{})
}

// LoadSeedFrom parses vars instead of the process environment.
func LoadSeedFrom(vars map[string]string) (Seed, error) {
	return parseSeed(env.Options{Environment: vars})
}

func parseSeed(opts env.Options) (Seed, error) {
	var cfg Seed
	if err := env.ParseWithOptions(&cfg, opts); err != nil {
		return Seed{}, fmt.Errorf("parse env: %w", err)
	}
	cfg.StoreDriver = strings.ToLower(strings.TrimSpace(cfg.StoreDriver))
	return cfg, nil
}

// LoadRedis parses only the Redis variables from the process environment.
func LoadRedis() (Redis, error) {
	var cfg Redis
	if err := env.Parse(&cfg); err != nil {
		return Redis{}, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}

func parse(opts env.Options) (Server, error) {
	var cfg Server
	if err := env.ParseWithOptions(&cfg, opts); err != nil {
		return Server{}, fmt.Errorf("parse env: %w", err)
	}
	cfg.StoreDriver = strings.ToLower(strings.TrimSpace(cfg.StoreDriver))
	cfg.RevocationBackend = strings.ToLower(strings.TrimSpace(cfg.RevocationBackend))
	if err := cfg.Validate(); err != nil {
		return Server{}, err
	}
	return cfg, nil
}

// Validate checks process-level settings. Engine settings are checked again
// by goSession.Config.Validate when the engine is built.
func (c Server) Validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("PORT must be between 1 and 65535, got %d", c.Port)
	}
	if strings.TrimSpace(c.JWTSecret) == "" {
		return errors.New("JWT_SECRET is required")
	}
	switch c.StoreDriver {
	case StoreSQLite, StorePostgres:
		if strings.TrimSpace(c.StoreDSN) == "" {
			return errors.New("STORE_DSN is required for SQL stores")
		}
	case StoreMemory:
	default:
		return fmt.Errorf("STORE_DRIVER %q is not one of sqlite, postgres, memory", c.StoreDriver)
	}
	switch c.RevocationBackend {
	case RevocationMemory:
	case RevocationRedis:
		if strings.TrimSpace(c.RedisAddr) == "" {
			return errors.New("REDIS_ADDR is required when REVOCATION_BACKEND=redis")
		}
	default:
		return fmt.Errorf("REVOCATION_BACKEND %q is not one of memory, redis", c.RevocationBackend)
	}
	if _, err := logrus.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("LOG_LEVEL: %w", err)
	}
	return nil
}

// Level returns the parsed LOG_LEVEL, falling back to info.
func (c Server) Level() logrus.Level {
	lvl, err := logrus.ParseLevel(c.LogLevel)
	if err != nil {
		return logrus.InfoLevel
	}
	return lvl
}

// Addr is the listen address.
func (c Server) Addr() string {
	return fmt.Sprintf(":%d", c.Port)
}

// EngineConfig maps process settings onto a library configuration.
func (c Server) EngineConfig() goSession.Config {
	cfg := goSession.DefaultConfig()
	cfg.JWT.Secret = []byte(c.JWTSecret)
	cfg.JWT.Issuer = c.JWTIssuer
	if c.TokenTTL > 0 {
		cfg.JWT.TokenTTL = c.TokenTTL
	}
	cfg.Cookie.Secure = c.CookieSecure
	cfg.Revocation.RedisPrefix = c.RedisPrefix
	cfg.Revocation.PruneInterval = c.RevocationPruneInterval
	cfg.Audit.Enabled = c.AuditEnabled
	cfg.Metrics.Enabled = c.MetricsEnabled
	cfg.Metrics.EnableLatencyHistograms = c.MetricsEnabled
	return cfg
}
