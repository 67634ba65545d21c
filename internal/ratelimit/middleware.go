package ratelimit

import (
	"encoding/json"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"time"
)

// Middleware applies a fixed-window per-IP limit to the wrapped handler.
type Middleware struct {
	store  WindowStore
	limit  int64
	window time.Duration
	logger *slog.Logger
}

func New(store WindowStore, limit int, window time.Duration, logger *slog.Logger) *Middleware {
	return &Middleware{
		store:  store,
		limit:  int64(limit),
		window: window,
		logger: logger,
	}
}

// Limit wraps a handler. Requests beyond the window limit get 429; limiter
// errors are logged and the request passes through.
func (m *Middleware) Limit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ip := clientIP(r)

		count, err := m.store.Incr(r.Context(), ip, m.window)
		if err != nil {
			m.logger.Error("rate limit check failed, allowing request", "error", err)
			next.ServeHTTP(w, r)
			return
		}

		if count > m.limit {
			m.logger.Warn("rate limit exceeded", "ip", ip, "count", count)
			w.Header().Set("Retry-After", strconv.Itoa(int(m.window.Seconds())))
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusTooManyRequests)
			_ = json.NewEncoder(w).Encode(map[string]string{
				"error": "too many requests, try again later",
			})
			return
		}

		next.ServeHTTP(w, r)
	})
}

// clientIP trusts RemoteAddr, which chi's RealIP middleware rewrites from
// forwarding headers upstream of this one.
func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
