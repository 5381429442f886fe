package middleware

import (
	"net/http"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"docregistry/internal/utils/httperrors"
)

// RateLimit applies a token bucket per caller identity (per remote address
// for anonymous reads). Idle buckets are dropped after five minutes.
func RateLimit(perSecond int, burst int) func(http.Handler) http.Handler {
	type bucket struct {
		lim *rate.Limiter
		ts  time.Time
	}

	var (
		mu      sync.Mutex
		buckets = make(map[string]*bucket)
		ttl     = 5 * time.Minute
	)

	ticker := time.NewTicker(1 * time.Minute)
	go func() {
		for range ticker.C {
			now := time.Now()
			mu.Lock()
			for k, b := range buckets {
				if now.Sub(b.ts) > ttl {
					delete(buckets, k)
				}
			}
			mu.Unlock()
		}
	}()

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := r.Header.Get(IdentityHeader)
			if key == "" {
				key = r.RemoteAddr
			}

			mu.Lock()
			b, ok := buckets[key]
			if !ok {
				b = &bucket{lim: rate.NewLimiter(rate.Limit(perSecond), burst)}
				buckets[key] = b
			}
			b.ts = time.Now()
			mu.Unlock()

			if !b.lim.Allow() {
				httperrors.WriteJSONError(w, http.StatusTooManyRequests, "rate limit exceeded")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
