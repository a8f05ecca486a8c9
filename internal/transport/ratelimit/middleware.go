package ratelimit

import (
	"context"
	"encoding/json"
	"log"
	"net"
	"net/http"
	"time"
)

// Limiter counts hits per key inside a TTL window. Backed by Redis in
// production; anything satisfying the interface works in tests.
type Limiter interface {
	IncrWithTTL(ctx context.Context, key string, ttl time.Duration) (int64, error)
}

// Middleware caps how often one client IP may hit the wrapped endpoint.
// A nil limiter disables limiting entirely, and a failing limiter fails
// open: the portal must keep serving lookups when Redis is down.
func Middleware(limiter Limiter, max int64, window time.Duration) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if limiter == nil {
				next.ServeHTTP(w, r)
				return
			}

			key := "login_attempts:" + clientIP(r)
			n, err := limiter.IncrWithTTL(r.Context(), key, window)
			if err != nil {
				log.Printf("[RATELIMIT] counter error: %v", err)
				next.ServeHTTP(w, r)
				return
			}

			if n > max {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusTooManyRequests)
				_ = json.NewEncoder(w).Encode(map[string]any{
					"error_code": http.StatusTooManyRequests,
					"status":     "error",
					"message":    "Terlalu banyak percobaan. Silakan coba lagi nanti.",
					"data":       nil,
				})
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func clientIP(r *http.Request) string {
	// chi's RealIP middleware rewrites RemoteAddr from X-Forwarded-For.
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
