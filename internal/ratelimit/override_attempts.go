// Package ratelimit throttles price-override code validation so the
// shared access code cannot be brute forced from the console.
package ratelimit

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	redis "github.com/redis/go-redis/v9"

	"github.com/abogados-sv/facturacion/internal/clock"
	"github.com/abogados-sv/facturacion/internal/config"
)

const keyOverrideAttempts = "override:attempts:%s"

// OverrideAttemptLimiter allows at most MaxAttempts validation calls
// per caller inside the configured window. It runs against redis when
// an address is configured and falls back to an in-process window
// otherwise, so single-node deployments need no extra infrastructure.
type OverrideAttemptLimiter struct {
	maxAttempts int
	window      time.Duration

	bucket *TokenBucket

	clock clock.Clock
	mu    sync.Mutex
	seen  map[string][]time.Time
}

func NewOverrideAttemptLimiter(cfg config.Config, clk clock.Clock) *OverrideAttemptLimiter {
	maxAttempts := cfg.PriceOverrideMaxAttempts
	if maxAttempts <= 0 {
		maxAttempts = 5
	}
	window := time.Duration(cfg.PriceOverrideAttemptsWindSec) * time.Second
	if window <= 0 {
		window = 10 * time.Minute
	}

	l := &OverrideAttemptLimiter{
		maxAttempts: maxAttempts,
		window:      window,
		clock:       clk,
		seen:        make(map[string][]time.Time),
	}

	if addr := strings.TrimSpace(cfg.RedisAddr); addr != "" {
		client := redis.NewClient(&redis.Options{Addr: addr})
		l.bucket = NewTokenBucket(client)
	}
	return l
}

// Allow reports whether the caller may attempt another code validation.
func (l *OverrideAttemptLimiter) Allow(ctx context.Context, caller string) (bool, error) {
	if l == nil {
		return true, nil
	}
	caller = strings.TrimSpace(caller)
	if caller == "" {
		caller = "unknown"
	}

	if l.bucket != nil {
		rate := float64(l.maxAttempts) / l.window.Seconds()
		return l.bucket.Allow(ctx, fmt.Sprintf(keyOverrideAttempts, caller), rate, l.maxAttempts)
	}
	return l.allowLocal(caller), nil
}

func (l *OverrideAttemptLimiter) allowLocal(caller string) bool {
	now := l.clock.Now()
	cutoff := now.Add(-l.window)

	l.mu.Lock()
	defer l.mu.Unlock()

	attempts := l.seen[caller][:0]
	for _, at := range l.seen[caller] {
		if at.After(cutoff) {
			attempts = append(attempts, at)
		}
	}
	if len(attempts) >= l.maxAttempts {
		l.seen[caller] = attempts
		return false
	}
	l.seen[caller] = append(attempts, now)
	return true
}
