package goSession

import (
	"errors"

	"github.com/MrEthical07/goSession/revocation"
)

var (
	// ErrTokenMissing is returned when a request carries no session token.
	ErrTokenMissing = errors.New("authentication required")
	// ErrTokenInvalid covers bad signatures, expired tokens, and malformed tokens.
	ErrTokenInvalid = errors.New("invalid or expired token")
	// ErrTokenRevoked is returned for a token present in the revocation registry.
	ErrTokenRevoked = errors.New("token invalidated")
	// ErrMissingCredentials is returned when email or password is empty.
	ErrMissingCredentials = errors.New("email and password are required")
	// ErrInvalidCredentials is returned for both an unknown email and a wrong
	// password. Callers must not be able to tell the two apart.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrUserNotFound is returned by a UserProvider when no record matches.
	ErrUserNotFound = errors.New("user not found")
	// ErrStoreUnavailable wraps user store failures other than not-found.
	ErrStoreUnavailable = errors.New("user store unavailable")
	// ErrRevocationUnavailable wraps revocation backend failures. Validation
	// fails closed when it is returned.
	ErrRevocationUnavailable = revocation.ErrUnavailable
	// ErrTokenIssue is returned when a token cannot be signed.
	ErrTokenIssue = errors.New("token issuance failed")
	// ErrEngineNotReady is returned by methods called on a nil or unbuilt Engine.
	ErrEngineNotReady = errors.New("engine not initialized")
)

// Kind classifies an error returned by the Engine.
type Kind uint8

const (
	// KindInternal is any failure the caller cannot fix by changing the request.
	KindInternal Kind = iota
	// KindValidation is a malformed or incomplete request.
	KindValidation
	// KindMissing means no token was presented.
	KindMissing
	// KindInvalidOrExpired means the token failed signature, expiry, or shape checks.
	KindInvalidOrExpired
	// KindRevoked means the token was explicitly revoked.
	KindRevoked
	// KindInvalidCredentials means the email/password pair did not match.
	KindInvalidCredentials
	// KindNotFound means the authenticated subject no longer exists.
	KindNotFound
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindMissing:
		return "missing"
	case KindInvalidOrExpired:
		return "invalid_or_expired"
	case KindRevoked:
		return "revoked"
	case KindInvalidCredentials:
		return "invalid_credentials"
	case KindNotFound:
		return "not_found"
	default:
		return "internal"
	}
}

// IsAuthError reports whether k is one of the token rejection kinds.
func (k Kind) IsAuthError() bool {
	return k == KindMissing || k == KindInvalidOrExpired || k == KindRevoked
}

// ErrorKind maps err onto a Kind. Unknown errors are internal.
func ErrorKind(err error) Kind {
	switch {
	case err == nil:
		return KindInternal
	case errors.Is(err, ErrMissingCredentials):
		return KindValidation
	case errors.Is(err, ErrTokenMissing):
		return KindMissing
	case errors.Is(err, ErrTokenRevoked):
		return KindRevoked
	case errors.Is(err, ErrTokenInvalid):
		return KindInvalidOrExpired
	case errors.Is(err, ErrInvalidCredentials):
		return KindInvalidCredentials
	case errors.Is(err, ErrUserNotFound):
		return KindNotFound
	default:
		return KindInternal
	}
}
