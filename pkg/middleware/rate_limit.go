package middleware

import (
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"github.com/yeisme/videocatalog/pkg/configs"
)

const (
	limiterIdleTTL       = 10 * time.Minute
	limiterSweepInterval = time.Minute
)

// RateLimitMiddleware 令牌桶限流. Key 为 global、ip 或 header:Header-Name.
func RateLimitMiddleware(cfg configs.RateLimitConfig) gin.HandlerFunc {
	if !cfg.Enabled || cfg.RPS <= 0 {
		return func(c *gin.Context) { c.Next() }
	}

	keyOf := rateLimitKey(cfg.Key)
	store := newLimiterStore(rate.Limit(cfg.RPS), max(cfg.Burst, 1))

	return func(c *gin.Context) {
		if cfg.Exempt(c.Request.URL.Path) {
			c.Next()
			return
		}

		if !store.get(keyOf(c)).Allow() {
			c.Header("Retry-After", "1")
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "rate limit exceeded"})

			return
		}

		c.Next()
	}
}

func rateLimitKey(mode string) func(*gin.Context) string {
	mode = strings.ToLower(strings.TrimSpace(mode))

	switch {
	case mode == "" || mode == "global":
		return func(*gin.Context) string { return "global" }
	case strings.HasPrefix(mode, "header:"):
		header := strings.TrimPrefix(mode, "header:")

		return func(c *gin.Context) string {
			if v := c.GetHeader(header); v != "" {
				return "h:" + v
			}

			return clientIP(c)
		}
	default:
		return clientIP
	}
}

// limiterStore 每个 key 一个限流器，闲置超过 limiterIdleTTL 的在访问时顺带清理.
type limiterStore struct {
	mu        sync.Mutex
	limit     rate.Limit
	burst     int
	entries   map[string]*limiterEntry
	lastSweep time.Time
}

type limiterEntry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

func newLimiterStore(limit rate.Limit, burst int) *limiterStore {
	return &limiterStore{limit: limit, burst: burst, entries: map[string]*limiterEntry{}, lastSweep: time.Now()}
}

func (s *limiterStore) get(key string) *rate.Limiter {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	if now.Sub(s.lastSweep) > limiterSweepInterval {
		for k, e := range s.entries {
			if now.Sub(e.lastSeen) > limiterIdleTTL {
				delete(s.entries, k)
			}
		}

		s.lastSweep = now
	}

	e, ok := s.entries[key]
	if !ok {
		e = &limiterEntry{limiter: rate.NewLimiter(s.limit, s.burst)}
		s.entries[key] = e
	}

	e.lastSeen = now

	return e.limiter
}

func clientIP(c *gin.Context) string {
	if ip := c.ClientIP(); ip != "" {
		return ip
	}

	if host, _, err := net.SplitHostPort(c.Request.RemoteAddr); err == nil {
		return host
	}

	return c.Request.RemoteAddr
}
