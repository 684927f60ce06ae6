package goSession

import (
	"errors"
	"fmt"
	"time"

	"github.com/MrEthical07/goSession/internal"
	"github.com/MrEthical07/goSession/internal/audit"
	"github.com/MrEthical07/goSession/jwt"
	"github.com/MrEthical07/goSession/password"
	"github.com/MrEthical07/goSession/revocation"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

// Builder assembles an Engine. Configure it during initialization, call
// Build once, then discard it.
type Builder struct {
	config Config

	redis        redis.UniversalClient
	registry     revocation.Registry
	userProvider UserProvider
	verifier     password.Verifier
	auditSink    AuditSink
	logger       logrus.FieldLogger
	clock        func() time.Time

	built bool
}

// New returns a builder seeded with DefaultConfig.
func New() *Builder {
	return &Builder{
		config: DefaultConfig(),
	}
}

// WithConfig replaces the whole configuration.
func (b *Builder) WithConfig(cfg Config) *Builder {
	b.config = cloneConfig(cfg)
	return b
}

// WithRedis selects the Redis revocation registry. It is ignored when
// WithRevocationRegistry is also used.
func (b *Builder) WithRedis(client redis.UniversalClient) *Builder {
	b.redis = client
	return b
}

// WithRevocationRegistry injects a registry. Without it, and without
// WithRedis, the engine uses a fresh in-memory registry. Build a Memory or
// Redis registry with revocation.WithClock and revocation.WithGrace set to
// the engine clock and Config.JWT.Leeway.
func (b *Builder) WithRevocationRegistry(reg revocation.Registry) *Builder {
	b.registry = reg
	return b
}

// WithUserProvider sets the user store. Required.
func (b *Builder) WithUserProvider(up UserProvider) *Builder {
	b.userProvider = up
	return b
}

// WithVerifier overrides password verification. The default accepts bcrypt
// and argon2id hashes.
func (b *Builder) WithVerifier(v password.Verifier) *Builder {
	b.verifier = v
	return b
}

// WithAuditSink sets the audit destination. Events are only produced when
// Config.Audit.Enabled is true.
func (b *Builder) WithAuditSink(sink AuditSink) *Builder {
	b.auditSink = sink
	return b
}

// WithLogger sets the logger for internal failures. Defaults to discarding.
func (b *Builder) WithLogger(l logrus.FieldLogger) *Builder {
	b.logger = l
	return b
}

// WithClock overrides the time source used for issuance and expiry.
func (b *Builder) WithClock(now func() time.Time) *Builder {
	b.clock = now
	return b
}

// WithMetricsEnabled toggles in-process counters.
func (b *Builder) WithMetricsEnabled(enabled bool) *Builder {
	b.config.Metrics.Enabled = enabled
	if !enabled {
		b.config.Metrics.EnableLatencyHistograms = false
	}
	return b
}

// Build validates the configuration and wires the engine. Key and
// configuration problems are reported here rather than on first request.
func (b *Builder) Build() (*Engine, error) {
	if b.built {
		return nil, errors.New("builder already used")
	}

	cfg := cloneConfig(b.config)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if b.userProvider == nil {
		return nil, errors.New("user provider required")
	}

	clock := b.clock
	if clock == nil {
		clock = time.Now
	}

	logger := b.logger
	if logger == nil {
		discard := logrus.New()
		discard.SetLevel(logrus.PanicLevel)
		logger = discard
	}

	// -------- TOKENS --------
	jm, err := jwt.NewManager(jwt.Config{
		TTL:           cfg.JWT.TokenTTL,
		SigningMethod: jwt.SigningMethod(cfg.JWT.SigningMethod),
		Secret:        cloneBytes(cfg.JWT.Secret),
		PrivateKey:    cloneBytes(cfg.JWT.PrivateKey),
		PublicKey:     cloneBytes(cfg.JWT.PublicKey),
		Issuer:        cfg.JWT.Issuer,
		Leeway:        cfg.JWT.Leeway,
		Now:           clock,
	})
	if err != nil {
		return nil, err
	}

	// -------- REVOCATION --------
	// Entries must outlive every instant the parser would still accept the token.
	regOpts := []revocation.Option{
		revocation.WithClock(clock),
		revocation.WithGrace(cfg.JWT.Leeway),
	}
	registry := b.registry
	if registry == nil && b.redis != nil {
		registry = revocation.NewRedis(b.redis, cfg.Revocation.RedisPrefix, regOpts...)
	}
	if registry == nil {
		registry = revocation.NewMemory(regOpts...)
	}

	// -------- PASSWORDS --------
	bc := password.NewBcrypt(cfg.Password.BcryptCost)
	verifier := b.verifier
	if verifier == nil {
		verifier = password.NewAuto(bc, nil)
	}
	dummyPassword, err := internal.RandomString(24)
	if err != nil {
		return nil, fmt.Errorf("dummy password: %w", err)
	}
	dummyHash, err := bc.Hash(dummyPassword)
	if err != nil {
		return nil, fmt.Errorf("dummy hash: %w", err)
	}

	engine := &Engine{
		config:       cloneConfig(cfg),
		jwtManager:   jm,
		registry:     registry,
		userProvider: b.userProvider,
		verifier:     verifier,
		dummyHash:    dummyHash,
		logger:       logger,
		clock:        clock,
	}
	engine.audit = audit.NewDispatcher(audit.Config{
		Enabled:    cfg.Audit.Enabled,
		BufferSize: cfg.Audit.BufferSize,
		DropIfFull: cfg.Audit.DropIfFull,
	}, b.auditSink)
	engine.metrics = NewMetrics(cfg.Metrics)
	engine.flows = engine.buildFlows()

	b.built = true

	return engine, nil
}
