package httpapi

import (
	"log/slog"
	"math"
	"net/http"
	"strconv"
	"sync"
	"time"

	"golang.org/x/time/rate"

	authservice "github.com/MrEthical07/authservice"
)

// ThrottleConfig configures the per-IP request throttle.
type ThrottleConfig struct {
	// RequestsPerSecond is the sustained rate per client IP. Zero or less
	// disables the throttle.
	RequestsPerSecond float64
	// Burst is the bucket size. Values below 1 are raised to 1.
	Burst int
	// CleanupInterval is how often idle buckets are dropped. Buckets idle
	// for twice this long are removed.
	CleanupInterval time.Duration
}

// DefaultThrottleConfig allows 5 requests per second with a burst of 10.
func DefaultThrottleConfig() ThrottleConfig {
	return ThrottleConfig{
		RequestsPerSecond: 5,
		Burst:             10,
		CleanupInterval:   5 * time.Minute,
	}
}

type ipLimiter struct {
	limiter    *rate.Limiter
	lastAccess time.Time
}

// Throttle is a token bucket per client IP for the credential routes.
// A nil *Throttle lets every request through.
type Throttle struct {
	config ThrottleConfig
	logger *slog.Logger

	mu       sync.RWMutex
	limiters map[string]*ipLimiter

	stopCh   chan struct{}
	stopOnce sync.Once
}

// NewThrottle starts the cleanup goroutine and returns the throttle, or
// nil when cfg disables throttling. Call Stop when done.
func NewThrottle(cfg ThrottleConfig, logger *slog.Logger) *Throttle {
	if cfg.RequestsPerSecond <= 0 {
		return nil
	}
	if cfg.Burst < 1 {
		cfg.Burst = 1
	}
	if cfg.CleanupInterval <= 0 {
		cfg.CleanupInterval = DefaultThrottleConfig().CleanupInterval
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	t := &Throttle{
		config:   cfg,
		logger:   logger,
		limiters: make(map[string]*ipLimiter),
		stopCh:   make(chan struct{}),
	}
	go t.cleanupLoop()
	return t
}

// Stop ends the cleanup goroutine. It is safe to call more than once.
func (t *Throttle) Stop() {
	if t == nil {
		return
	}
	t.stopOnce.Do(func() { close(t.stopCh) })
}

// Middleware rejects requests over the per-IP rate with 429 and a
// Retry-After header.
func (t *Throttle) Middleware() func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if t == nil {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ip := clientIP(r)
			if !t.limiterFor(ip).Allow() {
				t.logger.WarnContext(r.Context(), "request throttled",
					slog.String("ip", ip),
					slog.String("path", r.URL.Path),
				)
				writeThrottled(w, rate.Limit(t.config.RequestsPerSecond))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// Len reports how many client buckets are tracked.
func (t *Throttle) Len() int {
	if t == nil {
		return 0
	}
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.limiters)
}

func (t *Throttle) limiterFor(ip string) *rate.Limiter {
	now := time.Now()

	t.mu.RLock()
	l, ok := t.limiters[ip]
	t.mu.RUnlock()
	if ok {
		t.mu.Lock()
		l.lastAccess = now
		t.mu.Unlock()
		return l.limiter
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	if l, ok := t.limiters[ip]; ok {
		l.lastAccess = now
		return l.limiter
	}

	l = &ipLimiter{
		limiter:    rate.NewLimiter(rate.Limit(t.config.RequestsPerSecond), t.config.Burst),
		lastAccess: now,
	}
	t.limiters[ip] = l
	return l.limiter
}

func (t *Throttle) cleanupLoop() {
	ticker := time.NewTicker(t.config.CleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			t.cleanup(time.Now())
		case <-t.stopCh:
			return
		}
	}
}

func (t *Throttle) cleanup(now time.Time) {
	ttl := 2 * t.config.CleanupInterval

	t.mu.Lock()
	defer t.mu.Unlock()
	for ip, l := range t.limiters {
		if now.Sub(l.lastAccess) > ttl {
			delete(t.limiters, ip)
		}
	}
}

// writeThrottled writes a 429 whose Retry-After is the time to refill one
// token, rounded up to a whole second.
func writeThrottled(w http.ResponseWriter, limit rate.Limit) {
	retryAfter := int(math.Ceil(1 / float64(limit)))
	if retryAfter < 1 {
		retryAfter = 1
	}
	w.Header().Set("Retry-After", strconv.Itoa(retryAfter))
	writeError(w, http.StatusTooManyRequests, msgTooManyAttempts)
}

// clientIP is the address stored by withClientIP, falling back to the
// connection address.
func clientIP(r *http.Request) string {
	if ip := authservice.ClientIPFromContext(r.Context()); ip != "" {
		return ip
	}
	return hostOnly(r.RemoteAddr)
}
