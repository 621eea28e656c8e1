package middleware

import (
	"net/http"
	"sync"
	"time"

	"gearshed/internal/config"
	"gearshed/internal/logger"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

type rateLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// ipLimiters keeps one token bucket per client IP and forgets clients that
// have been idle longer than ttl.
type ipLimiters struct {
	mu      sync.Mutex
	clients map[string]*rateLimiter
	every   time.Duration
	burst   int
	ttl     time.Duration
}

func newIPLimiters(every time.Duration, burst int, ttl time.Duration) *ipLimiters {
	return &ipLimiters{
		clients: make(map[string]*rateLimiter),
		every:   every,
		burst:   burst,
		ttl:     ttl,
	}
}

func (l *ipLimiters) allow(ip string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := time.Now()
	for clientIP, client := range l.clients {
		if now.Sub(client.lastSeen) > l.ttl {
			delete(l.clients, clientIP)
		}
	}

	client, exists := l.clients[ip]
	if !exists {
		client = &rateLimiter{limiter: rate.NewLimiter(rate.Every(l.every), l.burst)}
		l.clients[ip] = client
	}
	client.lastSeen = now

	return client.limiter.Allow()
}

func limitByIP(cfg *config.Config, limiters *ipLimiters, message string) gin.HandlerFunc {
	return func(c *gin.Context) {
		// Skip rate limiting in development mode
		if cfg.IsDevelopment() {
			c.Next()
			return
		}

		if !limiters.allow(c.ClientIP()) {
			logger.Warn("Rate limit exceeded", "ip", c.ClientIP(), "path", c.Request.URL.Path)
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": message})
			return
		}

		c.Next()
	}
}

// RateLimit allows 20 requests per second per IP with a burst of 20.
func RateLimit(cfg *config.Config) gin.HandlerFunc {
	return limitByIP(cfg, newIPLimiters(time.Second/20, 20, 10*time.Minute), "Rate limit exceeded")
}

// AuthRateLimit guards login and registration: 5 attempts, refilled one per minute.
func AuthRateLimit(cfg *config.Config) gin.HandlerFunc {
	return limitByIP(cfg, newIPLimiters(time.Minute, 5, 30*time.Minute), "Too many authentication attempts, please try again later")
}

type clientTracker struct {
	errors404    []time.Time
	blockedUntil time.Time
	lastSeen     time.Time
}

// NotFoundGuard blocks an IP for 15 minutes after 10 not-found responses
// within 5 minutes, which is what id-guessing across other users' gear and
// pack lists looks like.
func NotFoundGuard(cfg *config.Config) gin.HandlerFunc {
	trackers := make(map[string]*clientTracker)
	var mu sync.Mutex

	return func(c *gin.Context) {
		// Skip IP blocking in development mode
		if cfg.IsDevelopment() {
			c.Next()
			return
		}

		ip := c.ClientIP()

		mu.Lock()
		tracker, exists := trackers[ip]
		blocked := exists && time.Now().Before(tracker.blockedUntil)
		mu.Unlock()

		if blocked {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Too many invalid requests, try again later"})
			return
		}

		c.Next()

		if c.Writer.Status() != http.StatusNotFound {
			return
		}

		now := time.Now()

		mu.Lock()
		defer mu.Unlock()

		tracker, exists = trackers[ip]
		if !exists {
			tracker = &clientTracker{}
			trackers[ip] = tracker
		}
		tracker.lastSeen = now

		cutoff := now.Add(-5 * time.Minute)
		recent := tracker.errors404[:0]
		for _, at := range tracker.errors404 {
			if at.After(cutoff) {
				recent = append(recent, at)
			}
		}
		tracker.errors404 = append(recent, now)

		if len(tracker.errors404) >= 10 {
			tracker.blockedUntil = now.Add(15 * time.Minute)
			tracker.errors404 = nil
			logger.Warn("Blocked IP after repeated not-found responses", "ip", ip)
		}

		for trackerIP, t := range trackers {
			if now.Sub(t.lastSeen) > 30*time.Minute && now.After(t.blockedUntil) {
				delete(trackers, trackerIP)
			}
		}
	}
}

func SecurityHeaders(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("X-Content-Type-Options", "nosniff")
		c.Header("X-Frame-Options", "DENY")
		c.Header("Referrer-Policy", "strict-origin-when-cross-origin")
		if cfg.IsProduction() {
			c.Header("Strict-Transport-Security", "max-age=31536000; includeSubDomains")
		}
		c.Next()
	}
}

// LogRequests writes one structured line per request.
func LogRequests() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		keysAndValues := []any{
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", status,
			"latency", time.Since(start),
			"ip", c.ClientIP(),
		}
		if identity, ok := IdentityFrom(c); ok {
			keysAndValues = append(keysAndValues, "user_id", identity.UserID)
		}

		switch {
		case status >= http.StatusInternalServerError:
			logger.Error("Request failed", keysAndValues...)
		case status >= http.StatusBadRequest:
			logger.Warn("Request rejected", keysAndValues...)
		default:
			logger.Info("Request handled", keysAndValues...)
		}
	}
}
