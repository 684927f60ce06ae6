package flows

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/MrEthical07/goSession/jwt"
	gjwt "github.com/golang-jwt/jwt/v5"
)

var (
	errNotReady    = errors.New("not ready")
	errMissing     = errors.New("missing")
	errInvalid     = errors.New("invalid")
	errNotFound    = errors.New("not found")
	errStore       = errors.New("store")
	errTokenIssue  = errors.New("issue")
	errBackendDown = errors.New("backend down")
)

type loginHarness struct {
	users       map[string]UserRecord
	lookupCalls int
	verified    []string
	issued      int
	metrics     map[int]int
	events      []string
	storeErr    error
}

func newLoginHarness() *loginHarness {
	return &loginHarness{
		users: map[string]UserRecord{
			"alice@example.com": {UserID: "u1", Name: "Alice", Email: "alice@example.com", PasswordHash: "hash:secret"},
		},
		metrics: map[int]int{},
	}
}

func (h *loginHarness) deps() LoginDeps {
	return LoginDeps{
		DummyHash: "hash:dummy",
		GetUserByEmail: func(_ context.Context, email string) (UserRecord, error) {
			h.lookupCalls++
			if h.storeErr != nil {
				return UserRecord{}, h.storeErr
			}
			u, ok := h.users[email]
			if !ok {
				return UserRecord{}, errNotFound
			}
			return u, nil
		},
		VerifyPassword: func(password, hash string) (bool, error) {
			h.verified = append(h.verified, hash)
			if hash == "broken" {
				return false, errors.New("malformed hash")
			}
			return hash == "hash:"+password, nil
		},
		IssueToken: func(userID string) (string, *jwt.SessionClaims, error) {
			h.issued++
			exp := time.Now().Add(time.Hour)
			return "token-for-" + userID, &jwt.SessionClaims{
				UserID:           userID,
				RegisteredClaims: gjwt.RegisteredClaims{ID: "jti-1", ExpiresAt: gjwt.NewNumericDate(exp)},
			}, nil
		},
		MetricInc: func(id int) { h.metrics[id]++ },
		EmitAudit: func(_ context.Context, event string, _ bool, _ string, _ string, _ error, _ func() map[string]string) {
			h.events = append(h.events, event)
		},
		Metrics: LoginMetrics{LoginSuccess: 1, LoginFailure: 2, LoginRejected: 3, LoginError: 4, TokenIssued: 5},
		Events:  LoginEvents{LoginSuccess: "ok", LoginFailure: "fail"},
		Errors: LoginErrors{
			EngineNotReady:     errNotReady,
			MissingCredentials: errMissing,
			InvalidCredentials: errInvalid,
			UserNotFound:       errNotFound,
			StoreUnavailable:   errStore,
			TokenIssue:         errTokenIssue,
		},
	}
}

func TestRunLoginSuccess(t *testing.T) {
	h := newLoginHarness()
	res, err := RunLogin(context.Background(), "alice@example.com", "secret", h.deps())
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if res.Token != "token-for-u1" || res.TokenID != "jti-1" || res.User.Name != "Alice" {
		t.Fatalf("unexpected result: %+v", res)
	}
	if res.ExpiresAt.IsZero() {
		t.Fatal("expected expiry to be carried over")
	}
	if h.metrics[1] != 1 || h.metrics[5] != 1 {
		t.Fatalf("expected success and issued metrics, got %v", h.metrics)
	}
	if len(h.events) != 1 || h.events[0] != "ok" {
		t.Fatalf("unexpected events: %v", h.events)
	}
}

func TestRunLoginMissingCredentialsSkipsStore(t *testing.T) {
	cases := [][2]string{{"", "secret"}, {"alice@example.com", ""}, {"", ""}}
	for _, c := range cases {
		h := newLoginHarness()
		_, err := RunLogin(context.Background(), c[0], c[1], h.deps())
		if !errors.Is(err, errMissing) {
			t.Fatalf("email=%q password=%q: expected missing credentials, got %v", c[0], c[1], err)
		}
		if h.lookupCalls != 0 || len(h.verified) != 0 {
			t.Fatalf("store or verifier touched for %q/%q", c[0], c[1])
		}
	}
}

func TestRunLoginUnknownAndWrongPasswordLookAlike(t *testing.T) {
	h := newLoginHarness()
	_, errUnknown := RunLogin(context.Background(), "nobody@example.com", "secret", h.deps())
	_, errWrong := RunLogin(context.Background(), "alice@example.com", "nope", h.deps())

	if errUnknown != errInvalid || errWrong != errInvalid {
		t.Fatalf("expected the same sentinel for both, got %v and %v", errUnknown, errWrong)
	}
	if len(h.verified) != 2 || h.verified[0] != "hash:dummy" {
		t.Fatalf("expected dummy verification for the unknown user, got %v", h.verified)
	}
	if h.issued != 0 {
		t.Fatal("no token may be issued on failure")
	}
}

func TestRunLoginStoreFailureIsInternal(t *testing.T) {
	h := newLoginHarness()
	h.storeErr = errBackendDown
	_, err := RunLogin(context.Background(), "alice@example.com", "secret", h.deps())
	if !errors.Is(err, errStore) || !errors.Is(err, errBackendDown) {
		t.Fatalf("expected wrapped store error, got %v", err)
	}
	if errors.Is(err, errInvalid) {
		t.Fatal("store failure must not look like bad credentials")
	}
	if h.metrics[4] != 1 {
		t.Fatalf("expected error metric, got %v", h.metrics)
	}
}

func TestRunLoginMalformedStoredHashLooksLikeWrongPassword(t *testing.T) {
	h := newLoginHarness()
	h.users["alice@example.com"] = UserRecord{UserID: "u1", PasswordHash: "broken"}
	_, err := RunLogin(context.Background(), "alice@example.com", "secret", h.deps())
	if err != errInvalid {
		t.Fatalf("expected the plain invalid-credentials error, got %v", err)
	}
	if h.metrics[4] != 1 || h.issued != 0 {
		t.Fatalf("expected error metric and no token, got metrics=%v issued=%d", h.metrics, h.issued)
	}
	if len(h.events) != 1 || h.events[0] != "fail" {
		t.Fatalf("unexpected events: %v", h.events)
	}
}

func TestRunLoginNotReady(t *testing.T) {
	deps := newLoginHarness().deps()
	deps.IssueToken = nil
	if _, err := RunLogin(context.Background(), "a", "b", deps); !errors.Is(err, errNotReady) {
		t.Fatalf("expected not ready, got %v", err)
	}
}
