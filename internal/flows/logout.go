package flows

import (
	"context"
	"time"

	"github.com/MrEthical07/goSession/jwt"
)

// LogoutDeps captures logout flow dependencies.
type LogoutDeps struct {
	ParseToken func(string) (*jwt.SessionClaims, error)
	Revoke     func(context.Context, string, time.Time) error
}

// LogoutResult carries the revoked token's claims or the failure.
type LogoutResult struct {
	Failure ValidateFailureKind
	Claims  *jwt.SessionClaims
	Err     error
}

// RunLogout revokes tokenStr until its own expiry. The registry is not
// consulted first, so logging out an already revoked token succeeds again.
func RunLogout(ctx context.Context, tokenStr string, deps LogoutDeps) LogoutResult {
	if tokenStr == "" {
		return LogoutResult{Failure: ValidateFailureMissing}
	}

	claims, err := deps.ParseToken(tokenStr)
	if err != nil {
		return LogoutResult{Failure: ValidateFailureInvalid, Err: err}
	}

	var expiresAt time.Time
	if claims.ExpiresAt != nil {
		expiresAt = claims.ExpiresAt.Time
	}
	if err := deps.Revoke(ctx, tokenStr, expiresAt); err != nil {
		return LogoutResult{Failure: ValidateFailureUnavailable, Claims: claims, Err: err}
	}
	return LogoutResult{Claims: claims}
}
