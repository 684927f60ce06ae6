//go:build integration
// +build integration

package test

import (
	"context"
	"testing"

	goSession "github.com/MrEthical07/goSession"
	"github.com/MrEthical07/goSession/store/memory"
	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"golang.org/x/crypto/bcrypt"
)

var integrationSecret = []byte("0123456789abcdef0123456789abcdef")

func newRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()

	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("miniredis run failed: %v", err)
	}
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr(), MaxRetries: -1})
	t.Cleanup(func() {
		_ = rdb.Close()
		mr.Close()
	})
	return mr, rdb
}

func seededUsers(t *testing.T) (*memory.Store, goSession.UserRecord) {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte("secret"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	st := memory.New()
	u, err := st.CreateUser(context.Background(), "A", "a@x.com", string(hash))
	if err != nil {
		t.Fatalf("seed: %v", err)
	}
	return st, u
}

func newEngine(t *testing.T, users goSession.UserProvider, rdb redis.UniversalClient) *goSession.Engine {
	t.Helper()

	cfg := goSession.DefaultConfig()
	cfg.JWT.Secret = integrationSecret
	cfg.Password.BcryptCost = bcrypt.MinCost

	b := goSession.New().WithConfig(cfg).WithUserProvider(users)
	if rdb != nil {
		b = b.WithRedis(rdb)
	}
	e, err := b.Build()
	if err != nil {
		t.Fatalf("build engine: %v", err)
	}
	t.Cleanup(e.Close)
	return e
}
