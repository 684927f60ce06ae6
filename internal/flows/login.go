package flows

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/MrEthical07/goSession/jwt"
)

// LoginResult is the flow-local login response shape.
type LoginResult struct {
	User      UserRecord
	Token     string
	TokenID   string
	ExpiresAt time.Time
}

// LoginMetrics carries metric IDs needed by the login flow.
type LoginMetrics struct {
	LoginSuccess  int
	LoginFailure  int
	LoginRejected int
	LoginError    int
	TokenIssued   int
}

// LoginEvents carries audit event names used by the login flow.
type LoginEvents struct {
	LoginSuccess string
	LoginFailure string
}

// LoginErrors carries host-level sentinel errors used by the login flow.
type LoginErrors struct {
	EngineNotReady     error
	MissingCredentials error
	InvalidCredentials error
	UserNotFound       error
	StoreUnavailable   error
	TokenIssue         error
}

// LoginDeps captures login dependencies.
type LoginDeps struct {
	// DummyHash is verified against when the email is unknown so both
	// rejection paths do the same amount of work.
	DummyHash string

	GetUserByEmail func(context.Context, string) (UserRecord, error)
	VerifyPassword func(string, string) (bool, error)
	IssueToken     func(string) (string, *jwt.SessionClaims, error)

	MetricInc func(int)
	EmitAudit func(context.Context, string, bool, string, string, error, func() map[string]string)
	Warn      func(string, ...any)

	Metrics LoginMetrics
	Events  LoginEvents
	Errors  LoginErrors
}

// RunLogin checks credentials and issues a session token.
//
// Unknown email and wrong password both return Errors.InvalidCredentials.
// An empty email or password returns Errors.MissingCredentials before the
// store is consulted.
func RunLogin(ctx context.Context, email, password string, deps LoginDeps) (*LoginResult, error) {
	if deps.MetricInc == nil {
		deps.MetricInc = func(int) {}
	}
	if deps.EmitAudit == nil {
		deps.EmitAudit = func(context.Context, string, bool, string, string, error, func() map[string]string) {}
	}
	if deps.Warn == nil {
		deps.Warn = func(string, ...any) {}
	}
	if deps.GetUserByEmail == nil ||
		deps.VerifyPassword == nil ||
		deps.IssueToken == nil {
		return nil, deps.Errors.EngineNotReady
	}

	if email == "" || password == "" {
		deps.MetricInc(deps.Metrics.LoginRejected)
		deps.EmitAudit(ctx, deps.Events.LoginFailure, false, "", "", deps.Errors.MissingCredentials, func() map[string]string {
			return map[string]string{"reason": "missing_credentials"}
		})
		return nil, deps.Errors.MissingCredentials
	}

	user, err := deps.GetUserByEmail(ctx, email)
	if err != nil {
		if !errors.Is(err, deps.Errors.UserNotFound) {
			deps.MetricInc(deps.Metrics.LoginError)
			deps.Warn("login: user lookup failed: %v", err)
			return nil, fmt.Errorf("%w: %w", deps.Errors.StoreUnavailable, err)
		}
		if deps.DummyHash != "" {
			_, _ = deps.VerifyPassword(password, deps.DummyHash)
		}
		deps.MetricInc(deps.Metrics.LoginFailure)
		deps.EmitAudit(ctx, deps.Events.LoginFailure, false, "", "", deps.Errors.InvalidCredentials, func() map[string]string {
			return map[string]string{"reason": "user_not_found"}
		})
		return nil, deps.Errors.InvalidCredentials
	}

	ok, err := deps.VerifyPassword(password, user.PasswordHash)
	if err != nil {
		// Answered like a wrong password; only the log and metric tell them apart.
		deps.MetricInc(deps.Metrics.LoginError)
		deps.Warn("login: stored hash for user %s unusable: %v", user.UserID, err)
		deps.EmitAudit(ctx, deps.Events.LoginFailure, false, user.UserID, "", deps.Errors.InvalidCredentials, func() map[string]string {
			return map[string]string{"reason": "unusable_hash"}
		})
		return nil, deps.Errors.InvalidCredentials
	}
	if !ok {
		deps.MetricInc(deps.Metrics.LoginFailure)
		deps.EmitAudit(ctx, deps.Events.LoginFailure, false, user.UserID, "", deps.Errors.InvalidCredentials, func() map[string]string {
			return map[string]string{"reason": "password_mismatch"}
		})
		return nil, deps.Errors.InvalidCredentials
	}

	token, claims, err := deps.IssueToken(user.UserID)
	if err != nil {
		deps.MetricInc(deps.Metrics.LoginError)
		deps.Warn("login: token issuance failed: %v", err)
		return nil, fmt.Errorf("%w: %w", deps.Errors.TokenIssue, err)
	}
	deps.MetricInc(deps.Metrics.TokenIssued)
	deps.MetricInc(deps.Metrics.LoginSuccess)
	deps.EmitAudit(ctx, deps.Events.LoginSuccess, true, user.UserID, claims.ID, nil, nil)

	res := &LoginResult{
		User:    user,
		Token:   token,
		TokenID: claims.ID,
	}
	if claims.ExpiresAt != nil {
		res.ExpiresAt = claims.ExpiresAt.Time
	}
	return res, nil
}
