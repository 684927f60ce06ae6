package flows

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/MrEthical07/goSession/jwt"
	gjwt "github.com/golang-jwt/jwt/v5"
)

func validateDeps(revoked map[string]bool, registryErr error, parsed *[]string) ValidateDeps {
	return ValidateDeps{
		IsRevoked: func(_ context.Context, tok string) (bool, error) {
			if registryErr != nil {
				return false, registryErr
			}
			return revoked[tok], nil
		},
		ParseToken: func(tok string) (*jwt.SessionClaims, error) {
			*parsed = append(*parsed, tok)
			if tok != "good" && tok != "revoked" {
				return nil, errors.New("bad signature")
			}
			return &jwt.SessionClaims{UserID: "u1"}, nil
		},
	}
}

func TestRunValidateOrder(t *testing.T) {
	var parsed []string
	deps := validateDeps(map[string]bool{"revoked": true}, nil, &parsed)

	if res := RunValidate(context.Background(), "", deps); res.Failure != ValidateFailureMissing {
		t.Fatalf("expected missing, got %v", res.Failure)
	}
	if res := RunValidate(context.Background(), "revoked", deps); res.Failure != ValidateFailureRevoked {
		t.Fatalf("expected revoked, got %v", res.Failure)
	}
	if len(parsed) != 0 {
		t.Fatal("revoked token must be rejected before it is parsed")
	}
	if res := RunValidate(context.Background(), "forged", deps); res.Failure != ValidateFailureInvalid || res.Err == nil {
		t.Fatalf("expected invalid with cause, got %+v", res)
	}
	res := RunValidate(context.Background(), "good", deps)
	if res.Failure != ValidateFailureNone || res.Claims.UserID != "u1" {
		t.Fatalf("expected success, got %+v", res)
	}
}

func TestRunValidateFailsClosed(t *testing.T) {
	var parsed []string
	deps := validateDeps(nil, errBackendDown, &parsed)

	res := RunValidate(context.Background(), "good", deps)
	if res.Failure != ValidateFailureUnavailable || !errors.Is(res.Err, errBackendDown) {
		t.Fatalf("expected unavailable, got %+v", res)
	}
	if res.Claims != nil {
		t.Fatal("no claims may be returned when the registry cannot answer")
	}
}

func TestRunLogoutIsRepeatable(t *testing.T) {
	exp := time.Now().Add(time.Hour).Truncate(time.Second)
	var revokedWith []time.Time
	deps := LogoutDeps{
		ParseToken: func(tok string) (*jwt.SessionClaims, error) {
			if tok != "good" {
				return nil, errors.New("bad")
			}
			return &jwt.SessionClaims{UserID: "u1", RegisteredClaims: gjwt.RegisteredClaims{ExpiresAt: gjwt.NewNumericDate(exp)}}, nil
		},
		Revoke: func(_ context.Context, _ string, at time.Time) error {
			revokedWith = append(revokedWith, at)
			return nil
		},
	}

	for i := 0; i < 2; i++ {
		if res := RunLogout(context.Background(), "good", deps); res.Failure != ValidateFailureNone {
			t.Fatalf("logout %d: %+v", i, res)
		}
	}
	if len(revokedWith) != 2 || !revokedWith[0].Equal(exp) {
		t.Fatalf("expected revoke with token expiry, got %v", revokedWith)
	}

	if res := RunLogout(context.Background(), "", deps); res.Failure != ValidateFailureMissing {
		t.Fatalf("expected missing, got %+v", res)
	}
	if res := RunLogout(context.Background(), "forged", deps); res.Failure != ValidateFailureInvalid {
		t.Fatalf("expected invalid, got %+v", res)
	}

	deps.Revoke = func(context.Context, string, time.Time) error { return errBackendDown }
	if res := RunLogout(context.Background(), "good", deps); res.Failure != ValidateFailureUnavailable {
		t.Fatalf("expected unavailable, got %+v", res)
	}
}

func TestRunProfileAndHealth(t *testing.T) {
	deps := ProfileDeps{
		GetUserByID: func(_ context.Context, id string) (UserRecord, error) {
			switch id {
			case "u1":
				return UserRecord{UserID: "u1", Name: "Alice"}, nil
			case "down":
				return UserRecord{}, errBackendDown
			default:
				return UserRecord{}, errNotFound
			}
		},
		UserNotFound:     errNotFound,
		StoreUnavailable: errStore,
	}
	if u, err := RunProfile(context.Background(), "u1", deps); err != nil || u.Name != "Alice" {
		t.Fatalf("unexpected profile: %+v %v", u, err)
	}
	if _, err := RunProfile(context.Background(), "gone", deps); err != errNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
	if _, err := RunProfile(context.Background(), "down", deps); !errors.Is(err, errStore) {
		t.Fatalf("expected store error, got %v", err)
	}

	h := RunHealth(context.Background(), HealthDeps{
		PingStore: func(context.Context) error { return errBackendDown },
		Timeout:   time.Second,
	})
	if h.StoreOK || !h.RevocationOK {
		t.Fatalf("unexpected health: %+v", h)
	}
}
