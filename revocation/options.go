package revocation

import "time"

type settings struct {
	now   func() time.Time
	grace time.Duration
}

// Option customizes a [Memory] or [Redis] registry.
type Option func(*settings)

// WithClock sets the clock used to judge whether a revoked token has
// expired. It should be the same clock the token parser uses.
func WithClock(now func() time.Time) Option {
	return func(s *settings) {
		if now != nil {
			s.now = now
		}
	}
}

// WithGrace keeps every entry for d past the token's expiry. Set it to the
// parser's leeway, since the parser still accepts a token that long after exp.
func WithGrace(d time.Duration) Option {
	return func(s *settings) {
		if d > 0 {
			s.grace = d
		}
	}
}

func applyOptions(opts []Option) settings {
	s := settings{now: time.Now}
	for _, opt := range opts {
		opt(&s)
	}
	return s
}

// retainUntil is the instant an entry for a token expiring at expiresAt may
// be dropped. Zero means keep forever.
func (s settings) retainUntil(expiresAt time.Time) time.Time {
	if expiresAt.IsZero() {
		return time.Time{}
	}
	return expiresAt.Add(s.grace)
}
