package goSession

import (
	"context"
	"time"

	"github.com/MrEthical07/goSession/internal/flows"
	"github.com/MrEthical07/goSession/jwt"
	"github.com/MrEthical07/goSession/revocation"
)

const healthProbeTimeout = 2 * time.Second

func (e *Engine) buildFlows() flows.Service {
	deps := flows.Deps{
		Login: flows.LoginDeps{
			DummyHash:      e.dummyHash,
			GetUserByEmail: e.lookupByEmail,
			VerifyPassword: e.verifier.Verify,
			IssueToken:     e.jwtManager.Issue,
			MetricInc:      func(id int) { e.metricInc(MetricID(id)) },
			EmitAudit:      e.emitAudit,
			Warn:           e.logger.Warnf,
			Metrics: flows.LoginMetrics{
				LoginSuccess:  int(MetricLoginSuccess),
				LoginFailure:  int(MetricLoginFailure),
				LoginRejected: int(MetricLoginRejected),
				LoginError:    int(MetricLoginError),
				TokenIssued:   int(MetricTokenIssued),
			},
			Events: flows.LoginEvents{
				LoginSuccess: auditEventLoginSuccess,
				LoginFailure: auditEventLoginFailure,
			},
			Errors: flows.LoginErrors{
				EngineNotReady:     ErrEngineNotReady,
				MissingCredentials: ErrMissingCredentials,
				InvalidCredentials: ErrInvalidCredentials,
				UserNotFound:       ErrUserNotFound,
				StoreUnavailable:   ErrStoreUnavailable,
				TokenIssue:         ErrTokenIssue,
			},
		},
		Validate: flows.ValidateDeps{
			IsRevoked:  e.registry.IsRevoked,
			ParseToken: e.jwtManager.Parse,
		},
		Logout: flows.LogoutDeps{
			ParseToken: e.jwtManager.Parse,
			Revoke:     e.registry.Revoke,
		},
		Profile: flows.ProfileDeps{
			GetUserByID:      e.lookupByID,
			UserNotFound:     ErrUserNotFound,
			StoreUnavailable: ErrStoreUnavailable,
		},
		Health: flows.HealthDeps{
			Timeout: healthProbeTimeout,
		},
	}

	if p, ok := e.userProvider.(StorePinger); ok {
		deps.Health.PingStore = p.Ping
	}
	if p, ok := e.registry.(revocation.Pinger); ok {
		deps.Health.PingRevocation = p.Ping
	}

	return flows.New(deps)
}

func (e *Engine) lookupByEmail(ctx context.Context, email string) (flows.UserRecord, error) {
	u, err := e.userProvider.GetUserByEmail(ctx, email)
	if err != nil {
		return flows.UserRecord{}, err
	}
	return toFlowUser(u), nil
}

func (e *Engine) lookupByID(ctx context.Context, id string) (flows.UserRecord, error) {
	u, err := e.userProvider.GetUserByID(ctx, id)
	if err != nil {
		return flows.UserRecord{}, err
	}
	return toFlowUser(u), nil
}

func toFlowUser(u UserRecord) flows.UserRecord {
	return flows.UserRecord{
		UserID:       u.ID,
		Name:         u.Name,
		Email:        u.Email,
		PasswordHash: u.PasswordHash,
	}
}

func fromFlowUser(u flows.UserRecord) PublicUser {
	return PublicUser{ID: u.UserID, Name: u.Name, Email: u.Email}
}

func claimFromSession(c *jwt.SessionClaims) *IdentityClaim {
	if c == nil {
		return nil
	}
	claim := &IdentityClaim{
		UserID:  c.UserID,
		TokenID: c.ID,
	}
	if c.IssuedAt != nil {
		claim.IssuedAt = c.IssuedAt.Time
	}
	if c.ExpiresAt != nil {
		claim.ExpiresAt = c.ExpiresAt.Time
	}
	return claim
}
