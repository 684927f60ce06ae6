package flows

import (
	"context"

	"github.com/MrEthical07/goSession/jwt"
)

// ValidateFailureKind classifies validation failures for root-level mapping.
type ValidateFailureKind int

const (
	ValidateFailureNone ValidateFailureKind = iota
	ValidateFailureMissing
	ValidateFailureRevoked
	ValidateFailureInvalid
	ValidateFailureUnavailable
)

// ValidateResult returns either claims or a classified failure.
type ValidateResult struct {
	Failure ValidateFailureKind
	Err     error
	Claims  *jwt.SessionClaims
}

// ValidateDeps captures token validation dependencies.
type ValidateDeps struct {
	IsRevoked  func(context.Context, string) (bool, error)
	ParseToken func(string) (*jwt.SessionClaims, error)
}

// RunValidate checks, in order: presence, revocation, then signature and
// expiry. A registry error fails closed with ValidateFailureUnavailable.
func RunValidate(ctx context.Context, tokenStr string, deps ValidateDeps) ValidateResult {
	if tokenStr == "" {
		return ValidateResult{Failure: ValidateFailureMissing}
	}

	revoked, err := deps.IsRevoked(ctx, tokenStr)
	if err != nil {
		return ValidateResult{Failure: ValidateFailureUnavailable, Err: err}
	}
	if revoked {
		return ValidateResult{Failure: ValidateFailureRevoked}
	}

	claims, err := deps.ParseToken(tokenStr)
	if err != nil {
		return ValidateResult{Failure: ValidateFailureInvalid, Err: err}
	}
	return ValidateResult{Claims: claims}
}
