package goSession

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/MrEthical07/goSession/internal/audit"
	"github.com/MrEthical07/goSession/internal/flows"
	"github.com/MrEthical07/goSession/jwt"
	"github.com/MrEthical07/goSession/password"
	"github.com/MrEthical07/goSession/revocation"
	"github.com/sirupsen/logrus"
)

// Engine runs the session-token lifecycle: login, issue, validate, revoke.
//
// An Engine is immutable after Build and safe for concurrent use.
type Engine struct {
	config       Config
	jwtManager   *jwt.Manager
	registry     revocation.Registry
	userProvider UserProvider
	verifier     password.Verifier
	dummyHash    string
	audit        *audit.Dispatcher
	metrics      *Metrics
	logger       logrus.FieldLogger
	clock        func() time.Time
	flows        flows.Service

	sweepMu sync.Mutex
	sweeper *revocation.Sweeper
}

// Config returns a copy of the engine configuration.
func (e *Engine) Config() Config {
	if e == nil {
		return Config{}
	}
	return cloneConfig(e.config)
}

// TokenTTL is the lifetime of every issued token.
func (e *Engine) TokenTTL() time.Duration {
	if e == nil || e.jwtManager == nil {
		return 0
	}
	return e.jwtManager.TTL()
}

// Close stops the pruner and flushes pending audit events.
func (e *Engine) Close() {
	if e == nil {
		return
	}
	e.StopPruner()
	if e.audit != nil {
		e.audit.Close()
	}
}

// AuditDropped is the number of audit events lost to a full buffer.
func (e *Engine) AuditDropped() uint64 {
	if e == nil || e.audit == nil {
		return 0
	}
	return e.audit.Dropped()
}

// MetricsSnapshot returns current counter values.
func (e *Engine) MetricsSnapshot() MetricsSnapshot {
	if e == nil || e.metrics == nil {
		return MetricsSnapshot{
			Counters:   map[MetricID]uint64{},
			Histograms: map[MetricID][]uint64{},
		}
	}
	return e.metrics.Snapshot()
}

func (e *Engine) metricInc(id MetricID) {
	if e == nil || e.metrics == nil {
		return
	}
	e.metrics.Inc(id)
}

func (e *Engine) metricAdd(id MetricID, n uint64) {
	if e == nil || e.metrics == nil {
		return
	}
	e.metrics.Add(id, n)
}

func (e *Engine) ready() bool {
	return e != nil && e.flows.Initialized()
}

// Issue signs a new session token for userID without checking credentials.
// Login is the usual entry point; Issue exists for callers that authenticate
// users by other means.
func (e *Engine) Issue(ctx context.Context, userID string) (string, *IdentityClaim, error) {
	if !e.ready() {
		return "", nil, ErrEngineNotReady
	}
	if userID == "" {
		return "", nil, fmt.Errorf("%w: empty user id", ErrTokenIssue)
	}

	token, claims, err := e.jwtManager.Issue(userID)
	if err != nil {
		e.logger.WithError(err).Error("token signing failed")
		return "", nil, fmt.Errorf("%w: %w", ErrTokenIssue, err)
	}
	e.metricInc(MetricTokenIssued)
	return token, claimFromSession(claims), nil
}

// Validate checks presence, then revocation, then signature and expiry.
//
// Token rejections wrap ErrTokenMissing, ErrTokenRevoked, or ErrTokenInvalid.
// A registry failure returns an error wrapping ErrRevocationUnavailable and
// the token is treated as not valid.
func (e *Engine) Validate(ctx context.Context, token string) (*IdentityClaim, error) {
	if !e.ready() {
		return nil, ErrEngineNotReady
	}

	var start time.Time
	if e.metrics.LatencyEnabled() {
		start = time.Now()
		defer func() { e.metrics.Observe(MetricValidateLatency, time.Since(start)) }()
	}

	res := e.flows.Validate(ctx, token)
	switch res.Failure {
	case flows.ValidateFailureNone:
		e.metricInc(MetricValidateSuccess)
		return claimFromSession(res.Claims), nil
	case flows.ValidateFailureMissing:
		e.metricInc(MetricTokenMissing)
		return nil, ErrTokenMissing
	case flows.ValidateFailureRevoked:
		e.metricInc(MetricTokenRevoked)
		e.emitAudit(ctx, auditEventTokenRejected, false, "", "", ErrTokenRevoked, nil)
		return nil, ErrTokenRevoked
	case flows.ValidateFailureInvalid:
		e.metricInc(MetricTokenInvalid)
		e.emitAudit(ctx, auditEventTokenRejected, false, "", "", ErrTokenInvalid, nil)
		return nil, fmt.Errorf("%w: %w", ErrTokenInvalid, res.Err)
	default:
		e.metricInc(MetricRevocationUnavailable)
		e.logger.WithError(res.Err).Error("revocation check failed")
		return nil, wrapRegistryErr(res.Err)
	}
}

// Login verifies email and password and issues a token.
//
// Empty email or password returns ErrMissingCredentials without touching the
// store. An unknown email and a wrong password both return
// ErrInvalidCredentials.
func (e *Engine) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	if !e.ready() {
		return nil, ErrEngineNotReady
	}

	res, err := e.flows.Login(ctx, email, password)
	if err != nil {
		return nil, err
	}
	return &LoginResult{
		Token:     res.Token,
		ExpiresAt: res.ExpiresAt,
		User:      fromFlowUser(res.User),
	}, nil
}

// Logout revokes token until it would have expired anyway. Logging out an
// already revoked token succeeds.
func (e *Engine) Logout(ctx context.Context, token string) error {
	if !e.ready() {
		return ErrEngineNotReady
	}

	res := e.flows.Logout(ctx, token)
	switch res.Failure {
	case flows.ValidateFailureNone:
		e.metricInc(MetricLogout)
		e.emitAudit(ctx, auditEventLogout, true, res.Claims.UserID, res.Claims.ID, nil, nil)
		return nil
	case flows.ValidateFailureMissing:
		return ErrTokenMissing
	case flows.ValidateFailureInvalid:
		return fmt.Errorf("%w: %w", ErrTokenInvalid, res.Err)
	default:
		e.logger.WithError(res.Err).Error("revocation write failed")
		return wrapRegistryErr(res.Err)
	}
}

// Profile loads the public fields of userID.
func (e *Engine) Profile(ctx context.Context, userID string) (PublicUser, error) {
	if !e.ready() {
		return PublicUser{}, ErrEngineNotReady
	}

	u, err := e.flows.Profile(ctx, userID)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			e.metricInc(MetricProfileNotFound)
		} else {
			e.logger.WithError(err).Error("profile lookup failed")
		}
		return PublicUser{}, err
	}
	return fromFlowUser(u), nil
}

// Health probes the user store and the revocation backend.
func (e *Engine) Health(ctx context.Context) HealthStatus {
	if !e.ready() {
		return HealthStatus{}
	}

	res := e.flows.Health(ctx)
	if res.StoreErr != nil {
		e.logger.WithError(res.StoreErr).Warn("user store ping failed")
	}
	if res.RevocationErr != nil {
		e.logger.WithError(res.RevocationErr).Warn("revocation ping failed")
	}
	return HealthStatus{
		StoreAvailable:      res.StoreOK,
		StoreLatency:        res.StoreLatency,
		RevocationAvailable: res.RevocationOK,
		RevocationLatency:   res.RevocationLatency,
	}
}

// StartPruner launches background pruning when the registry needs it and
// Config.Revocation.PruneInterval is positive. It reports whether a pruner
// is running. Calling it again is a no-op.
func (e *Engine) StartPruner(ctx context.Context) bool {
	if !e.ready() {
		return false
	}
	pruner, ok := e.registry.(revocation.Pruner)
	if !ok || e.config.Revocation.PruneInterval <= 0 {
		return false
	}

	e.sweepMu.Lock()
	defer e.sweepMu.Unlock()
	if e.sweeper != nil {
		return true
	}
	e.sweeper = revocation.NewSweeper(pruner, e.config.Revocation.PruneInterval,
		revocation.WithSweepLogger(e.logger),
		revocation.WithSweepClock(e.now),
		revocation.WithPruneHook(e.emitPruned),
	)
	e.sweeper.Start(ctx)
	return true
}

// StopPruner stops a pruner started by StartPruner.
func (e *Engine) StopPruner() {
	if e == nil {
		return
	}
	e.sweepMu.Lock()
	s := e.sweeper
	e.sweeper = nil
	e.sweepMu.Unlock()
	if s != nil {
		s.Stop()
	}
}

// PruneRevocations runs one prune pass immediately and returns the number of
// entries removed. Registries that expire entries on their own report zero.
func (e *Engine) PruneRevocations(ctx context.Context) (int, error) {
	if !e.ready() {
		return 0, ErrEngineNotReady
	}
	pruner, ok := e.registry.(revocation.Pruner)
	if !ok {
		return 0, nil
	}
	removed, err := pruner.Prune(ctx, e.now())
	if err != nil {
		return 0, wrapRegistryErr(err)
	}
	e.emitPruned(removed)
	return removed, nil
}

func wrapRegistryErr(err error) error {
	if errors.Is(err, ErrRevocationUnavailable) {
		return err
	}
	return fmt.Errorf("%w: %w", ErrRevocationUnavailable, err)
}
