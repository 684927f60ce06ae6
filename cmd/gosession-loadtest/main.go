// Command gosession-loadtest drives concurrent revoke and is-revoked traffic
// against a revocation registry and prints latency percentiles.
package main

import (
	"context"
	"fmt"
	"math/rand"
	"os"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/MrEthical07/goSession/internal/config"
	"github.com/MrEthical07/goSession/revocation"
	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/pflag"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	envCfg, err := config.LoadRedis()
	if err != nil {
		return err
	}

	flags := pflag.NewFlagSet("gosession-loadtest", pflag.ContinueOnError)
	var (
		tokens      = flags.Int("tokens", 100000, "number of tokens to revoke up front")
		concurrency = flags.IntP("concurrency", "c", 256, "number of concurrent workers")
		ops         = flags.Int("ops", 200000, "operations per phase")
		backend     = flags.String("backend", "redis", "registry backend: memory or redis")
		redisAddr   = flags.String("redis-addr", envCfg.RedisAddr, "redis address (default $REDIS_ADDR); if empty, miniredis is used")
		prefix      = flags.String("prefix", envCfg.RedisPrefix, "redis key prefix")
		ttl         = flags.Duration("ttl", time.Hour, "remaining lifetime recorded for each revoked token")
	)
	if err := flags.Parse(args); err != nil {
		if err == pflag.ErrHelp {
			return nil
		}
		return err
	}
	if *tokens <= 0 || *concurrency <= 0 || *ops <= 0 {
		return fmt.Errorf("tokens, concurrency, and ops must be > 0")
	}

	ctx := context.Background()
	envCfg.RedisAddr, envCfg.RedisPrefix = *redisAddr, *prefix
	registry, cleanup, err := openRegistry(*backend, envCfg)
	if err != nil {
		return err
	}
	defer cleanup()

	ids := make([]string, *tokens)
	for i := range ids {
		ids[i] = tokenFor(i)
	}

	expiresAt := time.Now().Add(*ttl)
	fmt.Printf("revoking %d tokens...\n", len(ids))
	seedStart := time.Now()
	for _, id := range ids {
		if err := registry.Revoke(ctx, id, expiresAt); err != nil {
			return fmt.Errorf("revoke: %w", err)
		}
	}
	fmt.Printf("seeded in %s\n", time.Since(seedStart).Round(time.Millisecond))

	checkStats := runPhase(*ops, *concurrency, func(r *rand.Rand, i int) error {
		// Half the lookups miss so both branches of IsRevoked are timed.
		var id string
		if i%2 == 0 {
			id = ids[r.Intn(len(ids))]
		} else {
			id = tokenFor(len(ids) + r.Intn(len(ids)))
		}
		_, err := registry.IsRevoked(ctx, id)
		return err
	})

	revokeStats := runPhase(*ops, *concurrency, func(r *rand.Rand, i int) error {
		return registry.Revoke(ctx, tokenFor(2*len(ids)+i), expiresAt)
	})

	fmt.Println("---- results ----")
	printStats("is-revoked", checkStats)
	printStats("revoke", revokeStats)

	if p, ok := registry.(revocation.Pruner); ok {
		removed, err := p.Prune(ctx, expiresAt.Add(time.Second))
		if err != nil {
			return fmt.Errorf("prune: %w", err)
		}
		fmt.Printf("pruned %d entries\n", removed)
	}
	return nil
}

func openRegistry(backend string, rc config.Redis) (revocation.Registry, func(), error) {
	addr, prefix := rc.RedisAddr, rc.RedisPrefix
	switch backend {
	case "memory":
		fmt.Println("using in-memory registry")
		return revocation.NewMemory(), func() {}, nil
	case "redis":
	default:
		return nil, nil, fmt.Errorf("unknown backend %q", backend)
	}

	if addr == "" {
		mr, err := miniredis.Run()
		if err != nil {
			return nil, nil, fmt.Errorf("start miniredis: %w", err)
		}
		client := redis.NewUniversalClient(&redis.UniversalOptions{Addrs: []string{mr.Addr()}})
		fmt.Printf("using miniredis at %s\n", mr.Addr())
		return revocation.NewRedis(client, prefix), func() {
			_ = client.Close()
			mr.Close()
		}, nil
	}

	client := redis.NewUniversalClient(&redis.UniversalOptions{
		Addrs:    []string{addr},
		Password: rc.RedisPassword,
		DB:       rc.RedisDB,
	})
	fmt.Printf("using redis at %s\n", addr)
	return revocation.NewRedis(client, prefix), func() { _ = client.Close() }, nil
}

func runPhase(ops, concurrency int, op func(r *rand.Rand, i int) error) phaseStats {
	var (
		wg        sync.WaitGroup
		cursor    int64
		failures  int64
		latencies = make([]time.Duration, 0, ops)
		mu        sync.Mutex
	)

	start := time.Now()
	for w := 0; w < concurrency; w++ {
		wg.Add(1)
		go func(worker int) {
			defer wg.Done()
			r := rand.New(rand.NewSource(time.Now().UnixNano() + int64(worker)*7919))
			for {
				i := int(atomic.AddInt64(&cursor, 1)) - 1
				if i >= ops {
					return
				}
				t0 := time.Now()
				err := op(r, i)
				d := time.Since(t0)
				if err != nil {
					atomic.AddInt64(&failures, 1)
				}
				mu.Lock()
				latencies = append(latencies, d)
				mu.Unlock()
			}
		}(w)
	}
	wg.Wait()
	return computeStats(time.Since(start), latencies, failures)
}

type phaseStats struct {
	total    time.Duration
	ops      int
	failures int64
	p50      time.Duration
	p95      time.Duration
	p99      time.Duration
	opsPerS  float64
}

func computeStats(total time.Duration, samples []time.Duration, failures int64) phaseStats {
	if len(samples) == 0 {
		return phaseStats{total: total}
	}
	sort.Slice(samples, func(i, j int) bool { return samples[i] < samples[j] })
	return phaseStats{
		total:    total,
		ops:      len(samples),
		failures: failures,
		p50:      percentile(samples, 50),
		p95:      percentile(samples, 95),
		p99:      percentile(samples, 99),
		opsPerS:  float64(len(samples)) / total.Seconds(),
	}
}

func percentile(samples []time.Duration, p int) time.Duration {
	if len(samples) == 0 {
		return 0
	}
	if p <= 0 {
		return samples[0]
	}
	if p >= 100 {
		return samples[len(samples)-1]
	}
	return samples[(len(samples)-1)*p/100]
}

func printStats(name string, s phaseStats) {
	fmt.Printf("%s: ops=%d failures=%d total=%s ops/sec=%.0f p50=%s p95=%s p99=%s\n",
		name,
		s.ops,
		s.failures,
		s.total.Round(time.Millisecond),
		s.opsPerS,
		s.p50.Round(time.Microsecond),
		s.p95.Round(time.Microsecond),
		s.p99.Round(time.Microsecond),
	)
}

// tokenFor returns a deterministic stand-in token. The registry only ever
// sees an opaque string.
func tokenFor(i int) string {
	return fmt.Sprintf("loadtest.%08d.token", i)
}
