package middleware

import (
	"encoding/json"
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// RateLimiter - token bucket на каждый IP, rpm запросов в минуту с запасом в rpm
type RateLimiter struct {
	mtx      sync.Mutex
	limiters map[string]*rate.Limiter
	limit    rate.Limit
	burst    int
	rpm      int
}

func NewRateLimiter(rpm int) *RateLimiter {
	return &RateLimiter{
		limiters: make(map[string]*rate.Limiter),
		limit:    rate.Limit(float64(rpm) / time.Minute.Seconds()),
		burst:    rpm,
		rpm:      rpm,
	}
}

func (rl *RateLimiter) limiter(key string) *rate.Limiter {
	rl.mtx.Lock()
	defer rl.mtx.Unlock()

	l, ok := rl.limiters[key]
	if !ok {
		l = rate.NewLimiter(rl.limit, rl.burst)
		rl.limiters[key] = l
	}
	return l
}

// Cleanup сбрасывает накопленные лимитеры, когда клиентов слишком много
func (rl *RateLimiter) Cleanup(max int) {
	rl.mtx.Lock()
	defer rl.mtx.Unlock()

	if len(rl.limiters) > max {
		rl.limiters = make(map[string]*rate.Limiter)
	}
}

func (rl *RateLimiter) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if rl.rpm <= 0 {
			next.ServeHTTP(w, r)
			return
		}

		l := rl.limiter(getIp(r))
		w.Header().Set("X-RateLimit-Limit", strconv.Itoa(rl.rpm))

		if !l.Allow() {
			retryAfter := int(time.Minute.Seconds() / float64(rl.rpm))
			if retryAfter < 1 {
				retryAfter = 1
			}
			w.Header().Set("Retry-After", strconv.Itoa(retryAfter))
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusTooManyRequests)

			_ = json.NewEncoder(w).Encode(map[string]any{
				"error":       "rate_limit_exceeded",
				"message":     "Слишком много запросов. Попробуйте позже.",
				"retry_after": retryAfter,
				"request_id":  GetRequestID(r.Context()),
			})
			return
		}

		remaining := int(l.Tokens())
		if remaining < 0 {
			remaining = 0
		}
		w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(remaining))

		next.ServeHTTP(w, r)
	})
}

func getIp(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
