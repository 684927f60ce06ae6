package test

import (
	"context"
	"fmt"
	"net/http"

	goSession "github.com/MrEthical07/goSession"
	"github.com/MrEthical07/goSession/middleware"
	"github.com/MrEthical07/goSession/store/memory"
	"github.com/redis/go-redis/v9"
)

// ExampleNew builds an engine that shares revocations through Redis.
func ExampleNew() {
	rdb := redis.NewClient(&redis.Options{Addr: "127.0.0.1:6379"})

	cfg := goSession.DefaultConfig()
	cfg.JWT.Secret = []byte("replace-with-32-bytes-of-secret!")

	engine, err := goSession.New().
		WithConfig(cfg).
		WithUserProvider(memory.New()).
		WithRedis(rdb).
		Build()
	if err != nil {
		return
	}
	defer engine.Close()
}

// ExampleEngine_Login shows the error kinds a login handler distinguishes.
func ExampleEngine_Login() {
	var engine *goSession.Engine
	_, err := engine.Login(context.Background(), "alice@example.com", "password")
	switch goSession.ErrorKind(err) {
	case goSession.KindValidation:
		fmt.Println("400")
	case goSession.KindInvalidCredentials:
		fmt.Println("401")
	default:
		fmt.Println("500")
	}
	// Output: 500
}

// ExampleGuard protects a handler with the session gate.
func ExampleGuard() {
	var engine *goSession.Engine
	protected := middleware.Guard(engine, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claim, _ := middleware.IdentityFromContext(r.Context())
		fmt.Fprintln(w, claim.UserID)
	}))
	_ = protected
}
