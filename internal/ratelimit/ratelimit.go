// Package ratelimit enforces per-route invocation limits with a
// redis fixed-window counter.
package ratelimit

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/edgefn/model-gateway/internal/routes"
)

// Limiter counts invocations per route and window. A nil Limiter or
// one built without a redis address allows everything.
type Limiter struct {
	rdb *redis.Client
}

func New(addr, password string, db int) *Limiter {
	addr = strings.TrimSpace(addr)
	if addr == "" {
		return &Limiter{}
	}
	return &Limiter{rdb: redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})}
}

// NewWithClient is for tests and callers that manage their own client.
func NewWithClient(rdb *redis.Client) *Limiter {
	return &Limiter{rdb: rdb}
}

func (l *Limiter) Enabled() bool {
	return l != nil && l.rdb != nil
}

func (l *Limiter) Close() error {
	if l == nil || l.rdb == nil {
		return nil
	}
	return l.rdb.Close()
}

// Allow reports whether one more invocation of the route fits the
// limit. Redis errors fail open; the caller decides whether to log.
func (l *Limiter) Allow(ctx context.Context, routeName string, limit *routes.Limit) (bool, error) {
	if !l.Enabled() || limit == nil || limit.Calls <= 0 {
		return true, nil
	}
	window := renewalWindow(limit.RenewalPeriod)
	now := time.Now().Unix()
	bucket := now - now%int64(window/time.Second)
	key := fmt.Sprintf("mgw:rl:%s:%d", strings.TrimSpace(routeName), bucket)

	pipe := l.rdb.TxPipeline()
	incr := pipe.Incr(ctx, key)
	pipe.Expire(ctx, key, window)
	if _, err := pipe.Exec(ctx); err != nil {
		return true, err
	}
	return incr.Val() <= int64(limit.Calls), nil
}

func renewalWindow(period string) time.Duration {
	switch strings.ToLower(strings.TrimSpace(period)) {
	case "second":
		return time.Second
	case "hour":
		return time.Hour
	default:
		return time.Minute
	}
}
