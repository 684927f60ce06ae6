package middleware

import (
	"context"
	"errors"
	"net/http"

	goSession "github.com/MrEthical07/goSession"
)

// Authenticator validates a raw session token. *goSession.Engine implements it.
type Authenticator interface {
	Validate(ctx context.Context, token string) (*goSession.IdentityClaim, error)
}

// ErrorHandler writes the response for a rejected request.
type ErrorHandler func(w http.ResponseWriter, r *http.Request, err error)

type identityContextKey struct{}
type tokenContextKey struct{}

// IdentityFromContext returns the claim attached by a Gate.
func IdentityFromContext(ctx context.Context) (*goSession.IdentityClaim, bool) {
	claim, ok := ctx.Value(identityContextKey{}).(*goSession.IdentityClaim)
	return claim, ok && claim != nil
}

// TokenFromContext returns the raw token that produced the attached claim.
func TokenFromContext(ctx context.Context) (string, bool) {
	token, ok := ctx.Value(tokenContextKey{}).(string)
	return token, ok && token != ""
}

// WithIdentity returns ctx carrying claim and token, as a Gate would set them.
func WithIdentity(ctx context.Context, claim *goSession.IdentityClaim, token string) context.Context {
	ctx = context.WithValue(ctx, identityContextKey{}, claim)
	return context.WithValue(ctx, tokenContextKey{}, token)
}

// Gate authenticates requests against an Authenticator.
type Gate struct {
	auth       Authenticator
	cookieName string
	onError    ErrorHandler
}

// Option customizes a Gate.
type Option func(*Gate)

// WithCookieName changes the cookie consulted before the Authorization header.
func WithCookieName(name string) Option {
	return func(g *Gate) {
		if name != "" {
			g.cookieName = name
		}
	}
}

// WithErrorHandler replaces the default plain-text rejection writer.
func WithErrorHandler(h ErrorHandler) Option {
	return func(g *Gate) {
		if h != nil {
			g.onError = h
		}
	}
}

// New returns a Gate that validates requests through auth.
func New(auth Authenticator, opts ...Option) *Gate {
	g := &Gate{
		auth:       auth,
		cookieName: DefaultCookieName,
		onError:    DefaultErrorHandler,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Authenticate extracts and validates the request's token. On success it
// returns the claim and the raw token.
func (g *Gate) Authenticate(r *http.Request) (*goSession.IdentityClaim, string, error) {
	if g == nil || g.auth == nil {
		return nil, "", goSession.ErrEngineNotReady
	}
	token := ExtractToken(r, g.cookieName)
	if token == "" {
		return nil, "", goSession.ErrTokenMissing
	}
	claim, err := g.auth.Validate(r.Context(), token)
	if err != nil {
		return nil, "", err
	}
	if claim == nil {
		return nil, "", errors.New("authenticator returned no claim")
	}
	return claim, token, nil
}

// Wrap returns next guarded by Authenticate. Rejected requests never reach next.
func (g *Gate) Wrap(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claim, token, err := g.Authenticate(r)
		if err != nil {
			g.onError(w, r, err)
			return
		}
		next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), claim, token)))
	})
}

// Guard is shorthand for New(auth, WithErrorHandler(onError)).Wrap.
func Guard(auth Authenticator, onError ErrorHandler) func(http.Handler) http.Handler {
	return New(auth, WithErrorHandler(onError)).Wrap
}

// DefaultErrorHandler answers 401 for token rejections and 500 otherwise.
func DefaultErrorHandler(w http.ResponseWriter, _ *http.Request, err error) {
	status, msg := StatusFor(err)
	http.Error(w, msg, status)
}

// StatusFor maps a Gate error to an HTTP status and client message.
func StatusFor(err error) (int, string) {
	switch goSession.ErrorKind(err) {
	case goSession.KindMissing:
		return http.StatusUnauthorized, "Authentication required"
	case goSession.KindRevoked:
		return http.StatusUnauthorized, "Token invalidated"
	case goSession.KindInvalidOrExpired:
		return http.StatusUnauthorized, "Invalid or expired token"
	default:
		return http.StatusInternalServerError, "Internal server error"
	}
}
