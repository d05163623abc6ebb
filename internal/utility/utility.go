package utility

import (
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
)

// rateLimiterSize bounds how many distinct client IPs are tracked at once.
const rateLimiterSize = 10000

// IPExtractor decides where echo's RealIP comes from. Without trusted
// proxies it is the TCP peer and forwarding headers are ignored. Otherwise
// X-Forwarded-For is walked from the right, skipping only the given CIDR
// ranges, so a client cannot pick its own address.
func IPExtractor(trustedProxies []string) echo.IPExtractor {
	if len(trustedProxies) == 0 {
		return echo.ExtractIPDirect()
	}

	opts := []echo.TrustOption{
		echo.TrustLoopback(false),
		echo.TrustLinkLocal(false),
		echo.TrustPrivateNet(false),
	}
	for _, cidr := range trustedProxies {
		_, ipNet, err := net.ParseCIDR(cidr)
		if err != nil {
			log.Warn().Str("cidr", cidr).Msg("Ignoring invalid trusted proxy range")
			continue
		}
		opts = append(opts, echo.TrustIPRange(ipNet))
	}
	return echo.ExtractIPFromXFFHeader(opts...)
}

// RateLimiter is a sliding-window limiter keyed by client IP. Idle clients
// age out of the LRU after one window.
type RateLimiter struct {
	mu     sync.Mutex
	hits   *expirable.LRU[string, []time.Time]
	limit  int
	window time.Duration
	now    func() time.Time
}

func NewRateLimiter(limit int, window time.Duration) *RateLimiter {
	return &RateLimiter{
		hits:   expirable.NewLRU[string, []time.Time](rateLimiterSize, nil, window),
		limit:  limit,
		window: window,
		now:    time.Now,
	}
}

// Allow records an attempt for ip and reports whether it is within the limit.
// When it is not, the returned duration says when the oldest attempt expires.
func (l *RateLimiter) Allow(ip string) (bool, time.Duration) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	attempts, _ := l.hits.Get(ip)

	// Remove old attempts
	recent := make([]time.Time, 0, len(attempts)+1)
	for _, t := range attempts {
		if now.Sub(t) < l.window {
			recent = append(recent, t)
		}
	}

	if len(recent) >= l.limit {
		l.hits.Add(ip, recent)
		return false, l.window - now.Sub(recent[0])
	}

	l.hits.Add(ip, append(recent, now))
	return true, 0
}

// Middleware rejects requests over the limit with 429 and a JSON error body.
// Clients are keyed by c.RealIP(), so the echo instance needs an IPExtractor.
func (l *RateLimiter) Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ip := c.RealIP()
			ok, retryAfter := l.Allow(ip)
			if !ok {
				log.Warn().Str("ip", ip).Str("path", c.Path()).Msg("Rate limit exceeded")
				seconds := int(retryAfter.Round(time.Second) / time.Second)
				if seconds < 1 {
					seconds = 1
				}
				c.Response().Header().Set("Retry-After", strconv.Itoa(seconds))
				return c.JSON(http.StatusTooManyRequests, map[string]any{
					"success": false,
					"error":   "too many requests, please try again later",
				})
			}
			return next(c)
		}
	}
}
