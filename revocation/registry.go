package revocation

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"time"
)

// ErrUnavailable is returned when the registry backend cannot answer.
// Callers must fail closed on it.
var ErrUnavailable = errors.New("revocation registry unavailable")

// Registry tracks tokens that must be rejected regardless of signature and
// expiry. There is no un-revoke operation.
type Registry interface {
	// Revoke records token as revoked until expiresAt. Revoking an already
	// revoked or already expired token is a no-op success.
	Revoke(ctx context.Context, token string, expiresAt time.Time) error
	// IsRevoked reports whether token has been revoked.
	IsRevoked(ctx context.Context, token string) (bool, error)
}

// Pruner is implemented by registries whose entries need explicit removal
// once the revoked token has expired on its own.
type Pruner interface {
	Prune(ctx context.Context, now time.Time) (int, error)
}

// Pinger is implemented by registries backed by a remote service.
type Pinger interface {
	Ping(ctx context.Context) (time.Duration, error)
}

// fingerprint maps a token to a fixed-size key so backends never hold the
// bearer credential itself.
func fingerprint(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}
