package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/labstack/echo/v4"
	"golang.org/x/time/rate"
)

const (
	clientIdleTTL = 10 * time.Minute
	sweepInterval = time.Minute
)

type clientLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiter throttles requests per client IP. It guards the credential
// endpoints against brute force.
type RateLimiter struct {
	rpm     int
	mu      sync.Mutex
	clients map[string]*clientLimiter
	lastGC  time.Time
	now     func() time.Time
}

func NewRateLimiter(rpm int) *RateLimiter {
	if rpm <= 0 {
		rpm = 10
	}
	return &RateLimiter{rpm: rpm, clients: map[string]*clientLimiter{}, now: time.Now}
}

// Middleware rejects requests over budget with 429.
func (m *RateLimiter) Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if !m.allow(c.RealIP()) {
				c.Response().Header().Set("Retry-After", "60")
				return echo.NewHTTPError(http.StatusTooManyRequests, "Too many requests")
			}
			return next(c)
		}
	}
}

func (m *RateLimiter) allow(ip string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	cl, ok := m.clients[ip]
	if !ok {
		cl = &clientLimiter{limiter: rate.NewLimiter(rate.Every(time.Minute/time.Duration(m.rpm)), m.rpm)}
		m.clients[ip] = cl
	}
	cl.lastSeen = now
	m.gcLocked(now)
	return cl.limiter.AllowN(now, 1)
}

// gcLocked drops idle clients. It sweeps at most once per sweepInterval so
// the map is not scanned on every request.
func (m *RateLimiter) gcLocked(now time.Time) {
	if now.Sub(m.lastGC) < sweepInterval {
		return
	}
	m.lastGC = now
	cutoff := now.Add(-clientIdleTTL)
	for ip, cl := range m.clients {
		if cl.lastSeen.Before(cutoff) {
			delete(m.clients, ip)
		}
	}
}
