package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	goSession "github.com/MrEthical07/goSession"
	"github.com/MrEthical07/goSession/store/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

var testSecret = []byte("0123456789abcdef0123456789abcdef")

type fixture struct {
	engine  *goSession.Engine
	store   *memory.Store
	handler http.Handler
	userID  string
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	st := memory.New()
	hash, err := bcrypt.GenerateFromPassword([]byte("secret"), bcrypt.MinCost)
	require.NoError(t, err)
	u, err := st.CreateUser(context.Background(), "A", "a@x.com", string(hash))
	require.NoError(t, err)

	cfg := goSession.DefaultConfig()
	cfg.JWT.Secret = testSecret
	cfg.Password.BcryptCost = bcrypt.MinCost

	eng, err := goSession.New().WithConfig(cfg).WithUserProvider(st).Build()
	require.NoError(t, err)
	t.Cleanup(eng.Close)

	return &fixture{
		engine:  eng,
		store:   st,
		handler: ForEngine(eng, Options{}).Handler(),
		userID:  u.ID,
	}
}

func (f *fixture) do(t *testing.T, method, path string, body any, mutate func(*http.Request)) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	switch b := body.(type) {
	case nil:
	case string:
		buf.WriteString(b)
	default:
		require.NoError(t, json.NewEncoder(&buf).Encode(b))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if mutate != nil {
		mutate(req)
	}
	rec := httptest.NewRecorder()
	f.handler.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), "body: %s", rec.Body.String())
	return out
}

func bearer(token string) func(*http.Request) {
	return func(r *http.Request) { r.Header.Set("Authorization", "Bearer "+token) }
}

func (f *fixture) login(t *testing.T) (string, *httptest.ResponseRecorder) {
	t.Helper()
	rec := f.do(t, http.MethodPost, "/api/login", map[string]string{"email": "a@x.com", "password": "secret"}, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	body := decode(t, rec)
	token, _ := body["token"].(string)
	require.NotEmpty(t, token)
	return token, rec
}

func TestLoginVerifyLogoutVerify(t *testing.T) {
	f := newFixture(t)

	token, rec := f.login(t)
	body := decode(t, rec)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, "Login successful", body["message"])
	user := body["user"].(map[string]any)
	assert.Equal(t, f.userID, user["id"])
	assert.Equal(t, "A", user["name"])
	assert.Equal(t, "a@x.com", user["email"])
	_, leaked := user["passwordHash"]
	assert.False(t, leaked)

	rec = f.do(t, http.MethodGet, "/api/verify", nil, bearer(token))
	require.Equal(t, http.StatusOK, rec.Code)
	body = decode(t, rec)
	assert.Equal(t, true, body["authenticated"])
	assert.Equal(t, f.userID, body["userId"])

	rec = f.do(t, http.MethodPost, "/api/logout", nil, bearer(token))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Logged out successfully", decode(t, rec)["message"])

	rec = f.do(t, http.MethodGet, "/api/verify", nil, bearer(token))
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, map[string]any{"success": false, "error": "Token invalidated"}, decode(t, rec))
}

func TestLoginSetsSessionCookie(t *testing.T) {
	f := newFixture(t)

	token, rec := f.login(t)
	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	c := cookies[0]
	assert.Equal(t, "authToken", c.Name)
	assert.Equal(t, token, c.Value)
	assert.True(t, c.HttpOnly)
	assert.Equal(t, http.SameSiteLaxMode, c.SameSite)
	assert.Equal(t, 3600, c.MaxAge)
	assert.Equal(t, "/", c.Path)
}

func TestLogoutClearsCookieAndSecondLogoutIsRejected(t *testing.T) {
	f := newFixture(t)
	token, _ := f.login(t)

	withCookie := func(r *http.Request) { r.AddCookie(&http.Cookie{Name: "authToken", Value: token}) }

	rec := f.do(t, http.MethodPost, "/api/logout", nil, withCookie)
	require.Equal(t, http.StatusOK, rec.Code)
	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, "", cookies[0].Value)
	assert.Less(t, cookies[0].MaxAge, 0)

	rec = f.do(t, http.MethodPost, "/api/logout", nil, withCookie)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Token invalidated", decode(t, rec)["error"])

	// Revocation applies to the header transport as well.
	rec = f.do(t, http.MethodGet, "/api/profile", nil, bearer(token))
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Token invalidated", decode(t, rec)["error"])
}

func TestCookieTakesPrecedenceOverHeader(t *testing.T) {
	f := newFixture(t)
	token, _ := f.login(t)

	rec := f.do(t, http.MethodGet, "/api/verify", nil, func(r *http.Request) {
		r.AddCookie(&http.Cookie{Name: "authToken", Value: "garbage"})
		r.Header.Set("Authorization", "Bearer "+token)
	})
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Invalid or expired token", decode(t, rec)["error"])

	rec = f.do(t, http.MethodGet, "/api/verify", nil, func(r *http.Request) {
		r.AddCookie(&http.Cookie{Name: "authToken", Value: token})
		r.Header.Set("Authorization", "Bearer garbage")
	})
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestGuardedRoutesRequireToken(t *testing.T) {
	f := newFixture(t)

	for _, tc := range []struct{ method, path string }{
		{http.MethodGet, "/api/verify"},
		{http.MethodPost, "/api/logout"},
		{http.MethodGet, "/api/profile"},
	} {
		t.Run(tc.path, func(t *testing.T) {
			rec := f.do(t, tc.method, tc.path, nil, nil)
			require.Equal(t, http.StatusUnauthorized, rec.Code)
			assert.Equal(t, map[string]any{"success": false, "error": "Authentication required"}, decode(t, rec))
		})
	}
}

func TestLoginValidation(t *testing.T) {
	f := newFixture(t)

	for name, body := range map[string]any{
		"missing password": map[string]string{"email": "a@x.com"},
		"missing email":    map[string]string{"password": "secret"},
		"malformed json":   "{not json",
	} {
		t.Run(name, func(t *testing.T) {
			rec := f.do(t, http.MethodPost, "/api/login", body, nil)
			require.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Equal(t, "Email and password are required", decode(t, rec)["error"])
		})
	}
}

func TestInvalidCredentialsAreIndistinguishable(t *testing.T) {
	f := newFixture(t)

	unknown := f.do(t, http.MethodPost, "/api/login", map[string]string{"email": "nobody@x.com", "password": "secret"}, nil)
	wrong := f.do(t, http.MethodPost, "/api/login", map[string]string{"email": "a@x.com", "password": "nope"}, nil)

	require.Equal(t, http.StatusUnauthorized, unknown.Code)
	require.Equal(t, unknown.Code, wrong.Code)
	assert.Equal(t, unknown.Body.Bytes(), wrong.Body.Bytes())
	assert.Equal(t, unknown.Header().Get("Content-Type"), wrong.Header().Get("Content-Type"))
	assert.Empty(t, unknown.Result().Cookies())
	assert.Empty(t, wrong.Result().Cookies())
	assert.Equal(t, "Invalid credentials", decode(t, unknown)["error"])
}

func TestUnusableStoredHashAnswersLikeUnknownEmail(t *testing.T) {
	f := newFixture(t)
	_, err := f.store.CreateUser(context.Background(), "B", "b@x.com", "not-a-hash")
	require.NoError(t, err)

	broken := f.do(t, http.MethodPost, "/api/login", map[string]string{"email": "b@x.com", "password": "secret"}, nil)
	unknown := f.do(t, http.MethodPost, "/api/login", map[string]string{"email": "nobody@x.com", "password": "secret"}, nil)

	require.Equal(t, http.StatusUnauthorized, broken.Code)
	assert.Equal(t, unknown.Body.Bytes(), broken.Body.Bytes())
}

func TestProfile(t *testing.T) {
	f := newFixture(t)
	token, _ := f.login(t)

	rec := f.do(t, http.MethodGet, "/api/profile", nil, bearer(token))
	require.Equal(t, http.StatusOK, rec.Code)
	user := decode(t, rec)["user"].(map[string]any)
	assert.Equal(t, f.userID, user["id"])
	assert.Equal(t, "a@x.com", user["email"])

	f.store.Delete(f.userID)
	rec = f.do(t, http.MethodGet, "/api/profile", nil, bearer(token))
	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "User not found", decode(t, rec)["error"])
}

func TestHealth(t *testing.T) {
	f := newFixture(t)

	rec := f.do(t, http.MethodGet, "/api/health", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, map[string]any{
		"success": true,
		"message": "Server is running",
		"mongodb": "connected",
	}, decode(t, rec))
}

func TestUnknownRouteAndMethod(t *testing.T) {
	f := newFixture(t)

	rec := f.do(t, http.MethodGet, "/api/nope", nil, nil)
	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Not found", decode(t, rec)["error"])

	rec = f.do(t, http.MethodGet, "/api/login", nil, nil)
	require.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	assert.Equal(t, false, decode(t, rec)["success"])
}

func TestCORSReflectsOrigin(t *testing.T) {
	f := newFixture(t)

	rec := f.do(t, http.MethodOptions, "/api/login", nil, func(r *http.Request) {
		r.Header.Set("Origin", "http://localhost:3000")
		r.Header.Set("Access-Control-Request-Method", http.MethodPost)
	})
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "http://localhost:3000", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "true", rec.Header().Get("Access-Control-Allow-Credentials"))

	restricted := New(f.engine, Options{AllowedOrigins: []string{"https://app.example"}}).Handler()
	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	req.Header.Set("Origin", "https://evil.example")
	out := httptest.NewRecorder()
	restricted.ServeHTTP(out, req)
	assert.Equal(t, http.StatusOK, out.Code)
	assert.Empty(t, out.Header().Get("Access-Control-Allow-Origin"))
}

func TestMetricsRouteMountedWhenConfigured(t *testing.T) {
	f := newFixture(t)
	metrics := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("gosession_login_success_total 1\n"))
	})
	h := ForEngine(f.engine, Options{Metrics: metrics, ServiceName: "gosession-test"}).Handler()

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.Contains(rec.Body.String(), "gosession_login_success_total"))

	rec = httptest.NewRecorder()
	f.handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

type panickingEngine struct{ Engine }

func (panickingEngine) Health(context.Context) goSession.HealthStatus { panic("boom") }

type failingEngine struct{ Engine }

func (failingEngine) Login(context.Context, string, string) (*goSession.LoginResult, error) {
	return nil, errors.Join(goSession.ErrStoreUnavailable, errors.New("connection refused"))
}

func TestPanicRecoveredAsInternalError(t *testing.T) {
	h := New(panickingEngine{}, Options{}).Handler()

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/health", nil))
	require.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, map[string]any{"success": false, "error": "Internal server error"}, decode(t, rec))
}

func TestLoginStoreFailure(t *testing.T) {
	h := New(failingEngine{}, Options{}).Handler()

	req := httptest.NewRequest(http.MethodPost, "/api/login", strings.NewReader(`{"email":"a@x.com","password":"secret"}`))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	require.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "Server error during login", decode(t, rec)["error"])
	assert.Empty(t, rec.Result().Cookies())
}
