package revocation

import (
	"context"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

// Sweeper periodically calls Prune on a registry until stopped.
type Sweeper struct {
	target   Pruner
	interval time.Duration
	logger   logrus.FieldLogger
	now      func() time.Time
	onPrune  func(removed int)

	stopOnce sync.Once
	stop     chan struct{}
	done     chan struct{}
}

// SweeperOption customizes a [Sweeper].
type SweeperOption func(*Sweeper)

// WithSweepLogger sets the logger used for prune failures.
func WithSweepLogger(l logrus.FieldLogger) SweeperOption {
	return func(s *Sweeper) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithSweepClock sets the clock whose reading is passed to Prune.
func WithSweepClock(now func() time.Time) SweeperOption {
	return func(s *Sweeper) {
		if now != nil {
			s.now = now
		}
	}
}

// WithPruneHook registers a callback invoked after every successful sweep.
func WithPruneHook(fn func(removed int)) SweeperOption {
	return func(s *Sweeper) { s.onPrune = fn }
}

// NewSweeper returns a stopped sweeper. A non-positive interval defaults to
// five minutes.
func NewSweeper(target Pruner, interval time.Duration, opts ...SweeperOption) *Sweeper {
	if interval <= 0 {
		interval = 5 * time.Minute
	}
	discard := logrus.New()
	discard.SetLevel(logrus.PanicLevel)

	s := &Sweeper{
		target:   target,
		interval: interval,
		logger:   discard,
		now:      time.Now,
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start launches the sweep loop. It returns immediately; the loop ends when
// ctx is cancelled or Stop is called.
func (s *Sweeper) Start(ctx context.Context) {
	go s.run(ctx)
}

// Stop ends the loop and waits for an in-flight sweep to finish.
// It is safe to call more than once, but only after Start.
func (s *Sweeper) Stop() {
	s.stopOnce.Do(func() { close(s.stop) })
	<-s.done
}

// SweepOnce runs a single prune pass.
func (s *Sweeper) SweepOnce(ctx context.Context) (int, error) {
	removed, err := s.target.Prune(ctx, s.now())
	if err != nil {
		return 0, err
	}
	if s.onPrune != nil {
		s.onPrune(removed)
	}
	return removed, nil
}

func (s *Sweeper) run(ctx context.Context) {
	defer close(s.done)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-s.stop:
			return
		case <-ticker.C:
			removed, err := s.SweepOnce(ctx)
			if err != nil {
				s.logger.WithError(err).Warn("revocation prune failed")
				continue
			}
			if removed > 0 {
				s.logger.WithField("removed", removed).Debug("revocation entries pruned")
			}
		}
	}
}
