// internal/ratelimit/ratelimit.go
//
// Per-client-IP rate limiting for public routes.
//
// Context
// -------
// Public page, redirect, subscribe, and booking routes are unauthenticated.
// They are wrapped by a ulule/limiter middleware keyed on the client IP.
// A single instance uses the in-memory store; a fleet shares counters
// through Redis when `redis.addr` is configured.
//
// Notes
// -----
//   - Rates use the limiter format, e.g. "120-M" or "10-S".
//   - A store error is logged and answered with 503; the request is not
//     counted, so it is refused rather than let through unmetered.
package ratelimit

import (
	"context"
	"fmt"
	"net/http"

	"github.com/redis/go-redis/v9"
	"github.com/ulule/limiter/v3"
	"github.com/ulule/limiter/v3/drivers/middleware/stdlib"
	"github.com/ulule/limiter/v3/drivers/store/memory"
	sredis "github.com/ulule/limiter/v3/drivers/store/redis"
	"go.uber.org/zap"

	"github.com/yanizio/linkbio/internal/requestinfo"
)

const keyPrefix = "linkbio:ratelimit"

// Options selects the rate and the backing store.
type Options struct {
	Rate          string
	RedisAddr     string
	RedisPassword string
	RedisDB       int
}

// Limiter wraps handlers with the configured limit.
type Limiter struct {
	mw    *stdlib.Middleware
	redis *redis.Client
}

// New builds a Limiter.  With a Redis address it pings the server first.
func New(ctx context.Context, o Options) (*Limiter, error) {
	rate, err := limiter.NewRateFromFormatted(o.Rate)
	if err != nil {
		return nil, fmt.Errorf("ratelimit: rate %q: %w", o.Rate, err)
	}

	l := &Limiter{}
	var store limiter.Store
	if o.RedisAddr == "" {
		store = memory.NewStoreWithOptions(limiter.StoreOptions{Prefix: keyPrefix})
	} else {
		l.redis = redis.NewClient(&redis.Options{
			Addr:     o.RedisAddr,
			Password: o.RedisPassword,
			DB:       o.RedisDB,
		})
		if err := l.redis.Ping(ctx).Err(); err != nil {
			_ = l.redis.Close()
			return nil, fmt.Errorf("ratelimit: redis %s: %w", o.RedisAddr, err)
		}
		store, err = sredis.NewStoreWithOptions(l.redis, limiter.StoreOptions{Prefix: keyPrefix})
		if err != nil {
			_ = l.redis.Close()
			return nil, fmt.Errorf("ratelimit: redis store: %w", err)
		}
	}

	l.mw = stdlib.NewMiddleware(limiter.New(store, rate),
		stdlib.WithKeyGetter(clientKey),
		stdlib.WithErrorHandler(storeError),
		stdlib.WithLimitReachedHandler(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json; charset=utf-8")
			w.WriteHeader(http.StatusTooManyRequests)
			_, _ = w.Write([]byte(`{"success":false,"error":"too many requests"}` + "\n"))
		}),
	)
	return l, nil
}

// storeError answers 503 when the limiter store cannot be reached.
func storeError(w http.ResponseWriter, r *http.Request, err error) {
	zap.L().Warn("rate limit store", zap.Error(err))
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(http.StatusServiceUnavailable)
	_, _ = w.Write([]byte(`{"success":false,"error":"temporarily unavailable"}` + "\n"))
}

// Handler wraps h.
func (l *Limiter) Handler(h http.Handler) http.Handler { return l.mw.Handler(h) }

// Close releases the Redis client when one is in use.
func (l *Limiter) Close() error {
	if l.redis != nil {
		return l.redis.Close()
	}
	return nil
}

func clientKey(r *http.Request) string {
	if ip := requestinfo.ClientIP(r); ip != nil {
		return ip.String()
	}
	return r.RemoteAddr
}
