package ratelimit

import (
	"math"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/feral-file/propfi-txbuilder/internal/adapter"
	"github.com/feral-file/propfi-txbuilder/internal/config"
	"github.com/feral-file/propfi-txbuilder/internal/logger"
)

// Limiter decides whether a client may issue another request
//
//go:generate mockgen -source=limiter.go -destination=../mocks/ratelimit_limiter.go -package=mocks -mock_names=Limiter=MockRateLimiter
type Limiter interface {
	// Allow consumes one token for key. When denied it returns how long the
	// client should wait before the next token is available.
	Allow(key string) (bool, time.Duration)

	// Size returns the number of tracked clients
	Size() int
}

// clientLimiter holds the token bucket of a single client
type clientLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

type limiter struct {
	config  config.RateLimitConfig
	clock   adapter.Clock
	mu      sync.Mutex
	clients map[string]*clientLimiter
	swept   time.Time
}

// NewLimiter creates a per-client token bucket limiter
func NewLimiter(cfg config.RateLimitConfig, clock adapter.Clock) Limiter {
	if cfg.IdleTTL <= 0 {
		cfg.IdleTTL = 10 * time.Minute
	}

	return &limiter{
		config:  cfg,
		clock:   clock,
		clients: make(map[string]*clientLimiter),
		swept:   clock.Now(),
	}
}

func (l *limiter) Allow(key string) (bool, time.Duration) {
	now := l.clock.Now()

	l.mu.Lock()
	defer l.mu.Unlock()

	l.evictIdle(now)

	client, ok := l.clients[key]
	if !ok {
		client = &clientLimiter{
			limiter: rate.NewLimiter(rate.Limit(l.config.RequestsPerSecond), l.config.Burst),
		}
		l.clients[key] = client
	}
	client.lastSeen = now

	if client.limiter.AllowN(now, 1) {
		return true, 0
	}

	return false, l.retryAfter(client.limiter, now)
}

func (l *limiter) Size() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.clients)
}

// retryAfter is the time until one token refills, rounded up to whole seconds
func (l *limiter) retryAfter(lim *rate.Limiter, now time.Time) time.Duration {
	missing := 1 - lim.TokensAt(now)
	if missing <= 0 {
		return time.Second
	}
	wait := time.Duration(missing / float64(lim.Limit()) * float64(time.Second))
	return time.Duration(math.Ceil(wait.Seconds())) * time.Second
}

// evictIdle drops clients not seen within IdleTTL, at most once per IdleTTL.
// Callers must hold l.mu.
func (l *limiter) evictIdle(now time.Time) {
	if now.Sub(l.swept) < l.config.IdleTTL {
		return
	}
	l.swept = now

	evicted := 0
	for key, client := range l.clients {
		if now.Sub(client.lastSeen) >= l.config.IdleTTL {
			delete(l.clients, key)
			evicted++
		}
	}
	if evicted > 0 {
		logger.Debug("Evicted idle rate limit clients",
			zap.Int("evicted", evicted),
			zap.Int("remaining", len(l.clients)))
	}
}
