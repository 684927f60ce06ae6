// Command gosession-server serves the session API configured from the
// environment. See internal/config for the variables it reads.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	goSession "github.com/MrEthical07/goSession"
	"github.com/MrEthical07/goSession/internal/config"
	"github.com/MrEthical07/goSession/internal/httpapi"
	promexport "github.com/MrEthical07/goSession/metrics/export/prometheus"
	"github.com/MrEthical07/goSession/store/memory"
	"github.com/MrEthical07/goSession/store/sqlstore"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

const serviceName = "gosession"

func main() {
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})
	logger.SetOutput(os.Stdout)

	cfg, err := config.Load()
	if err != nil {
		logger.WithError(err).Fatal("invalid configuration")
	}
	logger.SetLevel(cfg.Level())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logger.WithError(err).Fatal("server exited")
	}
}

type userStore interface {
	goSession.UserProvider
	goSession.StorePinger
}

func openStore(ctx context.Context, cfg config.Server) (userStore, func(), error) {
	if cfg.StoreDriver == config.StoreMemory {
		return memory.New(), func() {}, nil
	}
	openCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	st, err := sqlstore.Open(openCtx, cfg.StoreDriver, cfg.StoreDSN)
	if err != nil {
		return nil, nil, err
	}
	return st, func() { _ = st.Close() }, nil
}

func run(ctx context.Context, cfg config.Server, logger *logrus.Logger) error {
	st, closeStore, err := openStore(ctx, cfg)
	if err != nil {
		return fmt.Errorf("open user store: %w", err)
	}
	defer closeStore()

	engineCfg := cfg.EngineConfig()
	for _, w := range engineCfg.Lint() {
		entry := logger.WithField("code", w.Code).WithField("severity", w.Severity.String())
		if w.Severity >= goSession.LintWarn {
			entry.Warn(w.Message)
		} else {
			entry.Info(w.Message)
		}
	}

	builder := goSession.New().
		WithConfig(engineCfg).
		WithUserProvider(st).
		WithLogger(logger.WithField("component", "engine"))

	if cfg.AuditEnabled {
		builder = builder.WithAuditSink(goSession.NewLogrusSink(logger.WithField("component", "audit")))
	}

	if cfg.RevocationBackend == config.RevocationRedis {
		client := redis.NewUniversalClient(&redis.UniversalOptions{
			Addrs:    []string{cfg.RedisAddr},
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		defer client.Close()
		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		err := client.Ping(pingCtx).Err()
		cancel()
		if err != nil {
			return fmt.Errorf("connect redis: %w", err)
		}
		builder = builder.WithRedis(client)
	}

	engine, err := builder.Build()
	if err != nil {
		return fmt.Errorf("build engine: %w", err)
	}
	defer engine.Close()

	report := engine.SecurityReport()
	logger.WithFields(logrus.Fields{
		"alg":                report.SigningAlgorithm,
		"token_ttl":          report.TokenTTL.String(),
		"max_token_lifetime": report.MaxTokenLifetime.String(),
		"revocation":         report.RevocationBackend,
		"revocation_shared":  report.RevocationShared,
		"revocation_bounded": report.RevocationBounded,
		"cookie_secure":      report.CookieSecure,
	}).Info("security posture")

	if engine.StartPruner(ctx) {
		logger.WithField("interval", cfg.RevocationPruneInterval.String()).Info("revocation pruner started")
	}
	defer engine.StopPruner()

	opts := httpapi.Options{
		Logger:         logger.WithField("component", "http"),
		AllowedOrigins: cfg.CORSAllowedOrigins,
		ServiceName:    serviceName,
	}
	if cfg.MetricsEnabled {
		exp := promexport.NewExporter(engine)
		exp.Registry().MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
		opts.Metrics = exp.Handler()
	}

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           httpapi.ForEngine(engine, opts).Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.WithField("addr", srv.Addr).Info("listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
