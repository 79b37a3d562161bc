package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/labstack/echo/v4"
)

// KeyFunc picks the bucket a request is counted against.
type KeyFunc func(c echo.Context) string

func KeyByIP(c echo.Context) string {
	return c.RealIP()
}

// KeyByLoginUser counts requests per authenticated user and falls back to
// the client IP before authentication has run.
func KeyByLoginUser(c echo.Context) string {
	if user, ok := LoginUser(c); ok {
		return "user:" + user.Email
	}
	return KeyByIP(c)
}

// RateLimiter allows limit requests per key in each fixed window.
func RateLimiter(limit int, window time.Duration, key KeyFunc) echo.MiddlewareFunc {
	type bucket struct {
		count int
		start time.Time
	}

	var (
		mu      sync.Mutex
		buckets = make(map[string]*bucket)
	)

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			now := time.Now()
			k := key(c)

			mu.Lock()
			b, ok := buckets[k]
			if !ok || now.Sub(b.start) > window {
				b = &bucket{start: now}
				buckets[k] = b
			}

			if b.count >= limit {
				mu.Unlock()
				return echo.NewHTTPError(http.StatusTooManyRequests, "rate limit exceeded")
			}

			b.count++
			mu.Unlock()

			return next(c)
		}
	}
}
