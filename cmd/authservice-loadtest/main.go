// Command authservice-loadtest drives concurrent logins and token
// verifications against an in-process Engine backed by Redis.
package main

import (
	"context"
	"flag"
	"fmt"
	"math/rand"
	"os"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	authservice "github.com/MrEthical07/authservice"
	"github.com/MrEthical07/authservice/stores/redisstore"
)

func main() {
	var (
		users       = flag.Int("users", 200, "number of accounts to seed")
		concurrency = flag.Int("concurrency", 64, "number of concurrent workers")
		ops         = flag.Int("ops", 20000, "operations per phase (login + verify)")
		redisAddr   = flag.String("redis-addr", "", "redis address; if empty, REDIS_ADDR env or miniredis is used")
		memoryKiB   = flag.Uint("argon2-memory", 8*1024, "argon2id memory in KiB for seeded accounts")
	)
	flag.Parse()

	if *users <= 0 || *concurrency <= 0 || *ops <= 0 {
		fmt.Fprintln(os.Stderr, "users, concurrency, and ops must be > 0")
		os.Exit(2)
	}

	ctx := context.Background()

	addr := *redisAddr
	if addr == "" {
		addr = os.Getenv("REDIS_ADDR")
	}

	var (
		cleanup func()
		client  redis.UniversalClient
	)
	if addr == "" {
		mr, err := miniredis.Run()
		if err != nil {
			fmt.Fprintf(os.Stderr, "failed to start miniredis: %v\n", err)
			os.Exit(1)
		}
		addr = mr.Addr()
		client = redis.NewUniversalClient(&redis.UniversalOptions{
			Addrs: []string{addr},
		})
		cleanup = func() {
			_ = client.Close()
			mr.Close()
		}
		fmt.Printf("using miniredis at %s\n", addr)
	} else {
		client = redis.NewUniversalClient(&redis.UniversalOptions{
			Addrs: []string{addr},
		})
		cleanup = func() { _ = client.Close() }
		fmt.Printf("using redis at %s\n", addr)
	}
	defer cleanup()

	cfg := authservice.DefaultConfig()
	cfg.JWT.Secret = []byte(strings.Repeat("L", 32))
	cfg.Password.Memory = uint32(*memoryKiB)
	cfg.Password.Iterations = 1
	// The driver replays the same credentials; failed-attempt throttling
	// would only measure the limiter.
	cfg.Limits.MaxFailedAttempts = 0

	engine, err := authservice.New().
		WithConfig(cfg).
		WithBannedTokenStore(redisstore.NewBannedTokenStore(client, cfg.JWT.TTL)).
		WithTwoFACodeStore(redisstore.NewTwoFACodeStore(client, cfg.TwoFA.TTL)).
		Build()
	if err != nil {
		fmt.Fprintf(os.Stderr, "engine build failed: %v\n", err)
		os.Exit(1)
	}

	emails := make([]string, *users)
	fmt.Printf("seeding %d accounts...\n", *users)
	startSeed := time.Now()
	for i := range emails {
		emails[i] = fmt.Sprintf("user-%d@load.test", i)
		if err := engine.Signup(ctx, authservice.SignupInput{
			Email:    emails[i],
			Password: passwordFor(i),
		}); err != nil {
			fmt.Fprintf(os.Stderr, "signup failed: %v\n", err)
			os.Exit(1)
		}
	}
	fmt.Printf("seeded in %s\n", time.Since(startSeed).Round(time.Millisecond))

	tokens := make([]atomic.Value, *users)
	loginStats := runPhase(*ops, *concurrency, 7919, func(r *rand.Rand) error {
		idx := r.Intn(len(emails))
		res, err := engine.Login(ctx, emails[idx], passwordFor(idx))
		if err != nil {
			return err
		}
		tokens[idx].Store(res.Token.Value)
		return nil
	})

	verifyStats := runPhase(*ops, *concurrency, 6151, func(r *rand.Rand) error {
		idx := r.Intn(len(emails))
		tok, _ := tokens[idx].Load().(string)
		_, err := engine.VerifyToken(ctx, tok)
		return err
	})

	fmt.Println("---- results ----")
	printStats("login", loginStats)
	printStats("verify-token", verifyStats)
}

// runPhase spreads ops calls of op across concurrency workers.
func runPhase(ops, concurrency int, seed int64, op func(*rand.Rand) error) phaseStats {
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
			r := rand.New(rand.NewSource(time.Now().UnixNano() + int64(worker)*seed))
			for {
				i := int(atomic.AddInt64(&cursor, 1)) - 1
				if i >= ops {
					return
				}
				t0 := time.Now()
				err := op(r)
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
	total := time.Since(start)
	return computeStats(total, latencies, failures)
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
	idx := (len(samples) - 1) * p / 100
	return samples[idx]
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

func passwordFor(i int) string {
	return fmt.Sprintf("load-password-%06d", i)
}
