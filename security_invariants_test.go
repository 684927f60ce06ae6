package goSession

import (
	"context"
	"encoding/base64"
	"errors"
	"strings"
	"testing"
	"time"
)

func TestSecurityInvariantValidateNeverTouchesUserStore(t *testing.T) {
	e, up, _ := newTestEngine(t, nil)
	ctx := context.Background()

	res, err := e.Login(ctx, "alice@example.com", "correct-password-123")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	up.resetCalls()

	for i := 0; i < 5; i++ {
		if _, err := e.Validate(ctx, res.Token); err != nil {
			t.Fatalf("validate: %v", err)
		}
	}
	if up.byEmailCalls != 0 || up.byIDCalls != 0 {
		t.Fatalf("validate reached the user store: email=%d id=%d", up.byEmailCalls, up.byIDCalls)
	}
}

func TestSecurityInvariantTokenCarriesOnlyIdentity(t *testing.T) {
	e, up, _ := newTestEngine(t, nil)

	res, err := e.Login(context.Background(), "alice@example.com", "correct-password-123")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	parts := strings.Split(res.Token, ".")
	if len(parts) != 3 {
		t.Fatalf("expected three token segments, got %d", len(parts))
	}
	payload, err := base64.RawURLEncoding.DecodeString(parts[1])
	if err != nil {
		t.Fatalf("decode payload: %v", err)
	}

	body := string(payload)
	if !strings.Contains(body, res.User.ID) {
		t.Fatalf("expected user id in payload: %s", body)
	}
	hash := up.byEmail["alice@example.com"].PasswordHash
	for _, needle := range []string{"correct-password-123", hash, "alice@example.com", "Alice"} {
		if strings.Contains(body, needle) {
			t.Fatalf("token payload leaks %q", needle)
		}
	}
}

func TestSecurityInvariantRevocationOutlivesPruneUntilExpiry(t *testing.T) {
	e, _, clock := newTestEngine(t, nil)
	ctx := context.Background()

	res, err := e.Login(ctx, "alice@example.com", "correct-password-123")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if err := e.Logout(ctx, res.Token); err != nil {
		t.Fatalf("logout: %v", err)
	}

	clock.Advance(e.TokenTTL() - time.Minute)
	removed, err := e.PruneRevocations(ctx)
	if err != nil {
		t.Fatalf("prune: %v", err)
	}
	if removed != 0 {
		t.Fatalf("pruned an entry whose token is still live: %d", removed)
	}
	if _, err := e.Validate(ctx, res.Token); !errors.Is(err, ErrTokenRevoked) {
		t.Fatalf("expected revoked before expiry, got %v", err)
	}
}

func TestSecurityInvariantTamperedTokenRejected(t *testing.T) {
	e, _, _ := newTestEngine(t, nil)
	ctx := context.Background()

	res, err := e.Login(ctx, "alice@example.com", "correct-password-123")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	other, err := e.Login(ctx, "a@x.com", "secret")
	if err != nil {
		t.Fatalf("login other: %v", err)
	}

	// Splice another user's claims under alice's signature.
	a := strings.Split(res.Token, ".")
	b := strings.Split(other.Token, ".")
	forged := a[0] + "." + b[1] + "." + a[2]
	if _, err := e.Validate(ctx, forged); !errors.Is(err, ErrTokenInvalid) {
		t.Fatalf("expected forged token rejected as invalid, got %v", err)
	}
}
