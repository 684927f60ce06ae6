package flows

import (
	"context"
	"time"
)

// HealthDeps captures backend probes. A nil probe counts as healthy.
type HealthDeps struct {
	PingStore      func(context.Context) error
	PingRevocation func(context.Context) (time.Duration, error)
	Timeout        time.Duration
}

// HealthResult reports each backend separately.
type HealthResult struct {
	StoreOK           bool
	StoreLatency      time.Duration
	StoreErr          error
	RevocationOK      bool
	RevocationLatency time.Duration
	RevocationErr     error
}

// RunHealth probes the user store and the revocation backend, each bounded
// by deps.Timeout when set.
func RunHealth(ctx context.Context, deps HealthDeps) HealthResult {
	res := HealthResult{StoreOK: true, RevocationOK: true}

	if deps.PingStore != nil {
		pctx, cancel := probeContext(ctx, deps.Timeout)
		start := time.Now()
		res.StoreErr = deps.PingStore(pctx)
		res.StoreLatency = time.Since(start)
		cancel()
		res.StoreOK = res.StoreErr == nil
	}

	if deps.PingRevocation != nil {
		pctx, cancel := probeContext(ctx, deps.Timeout)
		res.RevocationLatency, res.RevocationErr = deps.PingRevocation(pctx)
		cancel()
		res.RevocationOK = res.RevocationErr == nil
	}

	return res
}

func probeContext(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, timeout)
}
