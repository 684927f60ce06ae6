package config

import (
	"strings"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
)

const secret = "0123456789abcdef0123456789abcdef"

func TestLoadDefaults(t *testing.T) {
	cfg, err := LoadFrom(map[string]string{"JWT_SECRET": secret})
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Port != 5000 {
		t.Fatalf("expected port 5000, got %d", cfg.Port)
	}
	if cfg.TokenTTL != time.Hour {
		t.Fatalf("expected 1h ttl, got %v", cfg.TokenTTL)
	}
	if cfg.StoreDriver != StoreSQLite || cfg.RevocationBackend != RevocationMemory {
		t.Fatalf("unexpected backends %q/%q", cfg.StoreDriver, cfg.RevocationBackend)
	}
	if cfg.RevocationPruneInterval != 5*time.Minute {
		t.Fatalf("expected 5m prune interval, got %v", cfg.RevocationPruneInterval)
	}
	if cfg.Level() != logrus.InfoLevel {
		t.Fatalf("expected info level, got %v", cfg.Level())
	}
	if cfg.Addr() != ":5000" {
		t.Fatalf("unexpected addr %q", cfg.Addr())
	}
}

func TestLoadRequiresSecret(t *testing.T) {
	_, err := LoadFrom(map[string]string{})
	if err == nil {
		t.Fatal("expected error without JWT_SECRET")
	}
	if !strings.Contains(err.Error(), "parse env:") {
		t.Fatalf("expected parse env prefix, got %v", err)
	}
}

func TestLoadOverrides(t *testing.T) {
	cfg, err := LoadFrom(map[string]string{
		"JWT_SECRET":           secret,
		"PORT":                 "8080",
		"TOKEN_TTL":            "15m",
		"STORE_DRIVER":         "Postgres",
		"STORE_DSN":            "postgres://localhost/gosession?sslmode=disable",
		"REVOCATION_BACKEND":   "redis",
		"REDIS_ADDR":           "localhost:6379",
		"COOKIE_SECURE":        "true",
		"CORS_ALLOWED_ORIGINS": "https://a.example,https://b.example",
		"LOG_LEVEL":            "debug",
	})
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.StoreDriver != StorePostgres {
		t.Fatalf("expected normalized postgres driver, got %q", cfg.StoreDriver)
	}
	if len(cfg.CORSAllowedOrigins) != 2 {
		t.Fatalf("expected two origins, got %v", cfg.CORSAllowedOrigins)
	}

	eng := cfg.EngineConfig()
	if eng.JWT.TokenTTL != 15*time.Minute {
		t.Fatalf("expected 15m engine ttl, got %v", eng.JWT.TokenTTL)
	}
	if !eng.Cookie.Secure {
		t.Fatal("expected secure cookie")
	}
	if err := eng.Validate(); err != nil {
		t.Fatalf("engine config invalid: %v", err)
	}
}

func TestValidateRejects(t *testing.T) {
	cases := map[string]map[string]string{
		"bad port":        {"JWT_SECRET": secret, "PORT": "70000"},
		"unknown store":   {"JWT_SECRET": secret, "STORE_DRIVER": "mongo"},
		"empty dsn":       {"JWT_SECRET": secret, "STORE_DSN": " "},
		"redis no addr":   {"JWT_SECRET": secret, "REVOCATION_BACKEND": "redis"},
		"unknown backend": {"JWT_SECRET": secret, "REVOCATION_BACKEND": "etcd"},
		"bad level":       {"JWT_SECRET": secret, "LOG_LEVEL": "loud"},
	}
	for name, vars := range cases {
		t.Run(name, func(t *testing.T) {
			if _, err := LoadFrom(vars); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}

func TestSeedSharesStoreVariables(t *testing.T) {
	seed, err := LoadSeedFrom(map[string]string{})
	if err != nil {
		t.Fatalf("load seed: %v", err)
	}
	server, err := LoadFrom(map[string]string{"JWT_SECRET": secret})
	if err != nil {
		t.Fatalf("load server: %v", err)
	}
	if seed.Store != server.Store {
		t.Fatalf("default stores differ: seed=%+v server=%+v", seed.Store, server.Store)
	}

	seed, err = LoadSeedFrom(map[string]string{
		"STORE_DRIVER":  " SQLite ",
		"STORE_DSN":     "/tmp/users.db",
		"SEED_PASSWORD": "pw",
	})
	if err != nil {
		t.Fatalf("load seed: %v", err)
	}
	if seed.StoreDriver != StoreSQLite || seed.StoreDSN != "/tmp/users.db" || seed.SeedPassword != "pw" {
		t.Fatalf("unexpected seed env %+v", seed)
	}
}

func TestLoadRedisReadsProcessEnv(t *testing.T) {
	t.Setenv("REDIS_ADDR", "redis.internal:6379")
	t.Setenv("REDIS_DB", "3")

	rc, err := LoadRedis()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if rc.RedisAddr != "redis.internal:6379" || rc.RedisDB != 3 {
		t.Fatalf("unexpected redis env %+v", rc)
	}
}
