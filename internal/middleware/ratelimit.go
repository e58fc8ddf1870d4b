package middleware

import (
	"log"
	"net/http"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/clearpay/ledger/internal/config"
	"github.com/clearpay/ledger/internal/services"
)

var rateLimitedTotal = promauto.NewCounter(prometheus.CounterOpts{
	Name: "ledger_rate_limited_requests_total",
	Help: "Number of requests rejected by the admission rate limiter.",
})

// RateLimit gates every request through the fixed window limiter, keyed by
// client identity. Redis errors fail open: a broken limiter store must not
// take payments down with it.
func RateLimit(limiter *services.RateLimiter, cfg *config.RateLimitConfig) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if limiter == nil {
				next.ServeHTTP(w, r)
				return
			}

			key := clientKey(r, cfg.KeyHeader)
			allowed, remaining, err := limiter.Allow(r.Context(), key)
			if err != nil {
				log.Printf("[RATELIMIT] check failed for %s: %v", key, err)
				next.ServeHTTP(w, r)
				return
			}

			w.Header().Set("X-RateLimit-Remaining", strconv.FormatInt(remaining, 10))

			if !allowed {
				rateLimitedTotal.Inc()
				http.Error(w, "Rate limit exceeded", http.StatusTooManyRequests)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func clientKey(r *http.Request, header string) string {
	if id := r.Header.Get(header); id != "" {
		return id
	}
	// RemoteAddr has been rewritten by the RealIP middleware
	return r.RemoteAddr
}
