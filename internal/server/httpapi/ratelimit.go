package httpapi

import (
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/dmitrijs2005/storefront/internal/common"
	"github.com/dmitrijs2005/storefront/internal/server/ratelimit"
)

// withRateLimit limits next to limit calls per client IP within the
// configured window. A zero limit or a missing limiter disables it.
func (s *HTTPServer) withRateLimit(route string, limit int, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if limit <= 0 || s.limiter == nil {
			next(w, r)
			return
		}

		key := route + ":" + rateLimitKeyIP(r)
		decision := s.limiter.Allow(r.Context(), key, limit, s.config.RateLimitWindow)
		applyRateHeaders(w, limit, decision)
		if !decision.Allowed {
			s.metrics.RateLimitHit(route)
			s.logger.Warn(r.Context(), "rate limit exceeded",
				"route", route,
				"key", key,
				"request_id", requestIDFromContext(r.Context()),
			)
			s.writeServiceError(w, r, common.NewUserError(common.ErrRateLimited, "Too many attempts, please try again later"))
			return
		}
		next(w, r)
	}
}

func applyRateHeaders(w http.ResponseWriter, limit int, d ratelimit.Decision) {
	remaining := limit - d.Count
	if remaining < 0 {
		remaining = 0
	}
	h := w.Header()
	h.Set("X-RateLimit-Limit", strconv.Itoa(limit))
	h.Set("X-RateLimit-Remaining", strconv.Itoa(remaining))
	if !d.WindowEnd.IsZero() {
		h.Set("X-RateLimit-Reset", strconv.FormatInt(d.WindowEnd.Unix(), 10))
		if !d.Allowed {
			retry := int(time.Until(d.WindowEnd).Seconds()) + 1
			if retry < 1 {
				retry = 1
			}
			h.Set("Retry-After", strconv.Itoa(retry))
		}
	}
}

func rateLimitKeyIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		host = r.RemoteAddr
	}
	if host == "" {
		host = "unknown"
	}
	return "ip:" + host
}
