package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
)

func doLimited(e *echo.Echo, ip string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/auth/login", nil)
	req.Header.Set(echo.HeaderXRealIP, ip)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestRateLimiter_LimitsPerClient(t *testing.T) {
	e := echo.New()
	limiter := NewRateLimiter(1)
	e.POST("/auth/login", func(c echo.Context) error { return c.NoContent(http.StatusOK) }, limiter.Middleware())

	assert.Equal(t, http.StatusOK, doLimited(e, "10.0.0.1").Code)

	rec := doLimited(e, "10.0.0.1")
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "60", rec.Header().Get("Retry-After"))

	// another client has its own budget
	assert.Equal(t, http.StatusOK, doLimited(e, "10.0.0.2").Code)
}

func TestRateLimiter_Refills(t *testing.T) {
	limiter := NewRateLimiter(2)
	now := time.Now()
	limiter.now = func() time.Time { return now }

	assert.True(t, limiter.allow("ip"))
	assert.True(t, limiter.allow("ip"))
	assert.False(t, limiter.allow("ip"))

	now = now.Add(31 * time.Second)
	assert.True(t, limiter.allow("ip"))
}

func TestRateLimiter_SweepsIdleClientsOncePerInterval(t *testing.T) {
	limiter := NewRateLimiter(10)
	start := time.Now()
	now := start
	limiter.now = func() time.Time { return now }

	limiter.allow("a")
	now = start.Add(9*time.Minute + 30*time.Second)
	limiter.allow("b")
	assert.Len(t, limiter.clients, 2)

	// "a" is idle past the TTL, but the last sweep was under a minute ago.
	now = start.Add(10*time.Minute + 10*time.Second)
	limiter.allow("c")
	assert.Len(t, limiter.clients, 3)
	assert.Contains(t, limiter.clients, "a")

	now = start.Add(10*time.Minute + 40*time.Second)
	limiter.allow("c")
	assert.NotContains(t, limiter.clients, "a")
	assert.Contains(t, limiter.clients, "b")
	assert.Contains(t, limiter.clients, "c")
}

func TestRateLimiter_Defaults(t *testing.T) {
	assert.Equal(t, 10, NewRateLimiter(0).rpm)
}
