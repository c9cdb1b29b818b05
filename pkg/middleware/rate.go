// Package middleware provides the HTTP middleware stack.
package middleware

import (
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/shashiranjanraj/mockshop/pkg/cache"
	"github.com/shashiranjanraj/mockshop/pkg/logger"
	"github.com/shashiranjanraj/mockshop/pkg/response"
)

// RateLimit allows max requests per window for each client IP. Counters live
// in the cache so all instances share them when Redis is configured.
func RateLimit(max int, window time.Duration) func(http.Handler) http.Handler {
	secs := int64(window / time.Second)
	if secs < 1 {
		secs = 1
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			bucket := time.Now().Unix() / secs
			key := "ratelimit:" + clientIP(r) + ":" + strconv.FormatInt(bucket, 10)

			n, err := cache.Incr(key, window)
			if err != nil {
				// fail open
				logger.WithCtx(r.Context()).Warn("rate limit: counter unavailable", "error", err)
				next.ServeHTTP(w, r)
				return
			}

			remaining := max - int(n)
			if remaining < 0 {
				remaining = 0
			}
			w.Header().Set("X-RateLimit-Limit", strconv.Itoa(max))
			w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(remaining))

			if int(n) > max {
				w.Header().Set("Retry-After", strconv.FormatInt(secs, 10))
				response.Error(w, http.StatusTooManyRequests, "Too Many Requests")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func clientIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		return strings.TrimSpace(strings.SplitN(fwd, ",", 2)[0])
	}
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}
